// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package process

import (
	"bufio"
	"bytes"
	"io"
	"iter"
)

const maxLineSize = 1024 * 1024

// Lines splits a byte stream into lines terminated by either '\r' or '\n'.
// FFmpeg rewrites its stats line in place with carriage returns, so a plain
// newline scanner would see one ever-growing line. Empty lines between
// consecutive delimiters are dropped. A Lines value is consumed once.
type Lines struct {
	scanner *bufio.Scanner
	err     error
}

// NewLines wraps r.
func NewLines(r io.Reader) *Lines {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	scanner.Split(ScanLines)
	return &Lines{scanner: scanner}
}

// All yields lines in stream order until the source ends or fails.
func (l *Lines) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for l.scanner.Scan() {
			if !yield(l.scanner.Text()) {
				return
			}
		}
		l.err = l.scanner.Err()
	}
}

// Err returns the first non-EOF read error, after All has finished.
func (l *Lines) Err() error {
	return l.err
}

// ScanLines is a bufio.SplitFunc treating both CR and LF as line boundaries.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && (data[start] == '\n' || data[start] == '\r') {
		start++
	}

	if i := bytes.IndexAny(data[start:], "\r\n"); i >= 0 {
		return start + i + 1, data[start : start+i], nil
	}

	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}
