// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package batch

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/ZSC714725/ffbatch/internal/ffmpeg"
	"github.com/ZSC714725/ffbatch/internal/ffmpeg/parse"
	"github.com/ZSC714725/ffbatch/internal/report"
)

const journalTimeFormat = "2006-01-02 15:04:05"

// Journal appends one line per input and per successful output to a
// plain-text log. A separate lock file keeps concurrent invocations from
// interleaving lines. The zero value and a nil *Journal discard writes.
type Journal struct {
	path string
	lock *flock.Flock
	now  func() time.Time
}

// NewJournal returns a journal writing to path. An empty path disables it.
func NewJournal(path string, now func() time.Time) *Journal {
	if now == nil {
		now = time.Now
	}
	j := &Journal{path: path, now: now}
	if path != "" {
		j.lock = flock.New(path + ".lock")
	}
	return j
}

// Path returns the journal file.
func (j *Journal) Path() string {
	if j == nil {
		return ""
	}
	return j.path
}

// Input records the start of a run.
func (j *Journal) Input(path string) error {
	return j.write(fmt.Sprintf("input: %s", path))
}

// Output records a successful run.
func (j *Journal) Output(path string, o ffmpeg.Outcome, size *report.SizeChange) error {
	var b strings.Builder
	fmt.Fprintf(&b, "output: %s", path)

	elapsed := o.Elapsed.Truncate(time.Second)
	if elapsed < time.Second {
		elapsed = time.Second
	}
	if o.HasTotal {
		fmt.Fprintf(&b, " duration:%s speed:%s", parse.FormatClock(o.Total), parse.FormatRatio(o.Speed))
	}
	fmt.Fprintf(&b, " elapsed:%s", parse.FormatClock(elapsed))
	if size != nil {
		fmt.Fprintf(&b, " %s", size)
	}
	return j.write(b.String())
}

func (j *Journal) write(line string) error {
	if j == nil || j.path == "" {
		return nil
	}

	if err := j.lock.Lock(); err != nil {
		return fmt.Errorf("lock journal: %w", err)
	}
	defer j.lock.Unlock()

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal %s: %w", j.path, err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "[%s] %s\n", j.now().Format(journalTimeFormat), line)
	return err
}
