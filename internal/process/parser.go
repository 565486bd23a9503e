// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package process

import "time"

// Parser consumes process output one line at a time (e.g. FFmpeg stderr).
type Parser interface {
	// Parse reports whether the line carried progress.
	Parse(line string) bool
	Log() []Line
}

// Line is a timestamped log line
type Line struct {
	Timestamp time.Time
	Data      string
}
