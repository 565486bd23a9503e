// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package report

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ZSC714725/ffbatch/internal/ffmpeg/parse"
)

const indent = "    "

// ProgressLine renders a snapshot for the status line.
func ProgressLine(s parse.Snapshot) string {
	if s.Final {
		return FinalLine(s)
	}

	remain := "completed"
	if !s.Completed() {
		remain = "remaining:" + parse.FormatClock(s.Remaining)
	}
	return fmt.Sprintf("%s[%.1f%%] %s / %s speed:%s elapsed:%s %s",
		indent,
		s.Percent,
		parse.FormatClock(s.Current),
		parse.FormatClock(s.Total),
		s.Speed,
		parse.FormatClock(s.Elapsed),
		remain,
	)
}

// FinalLine renders the closing 100% snapshot.
func FinalLine(s parse.Snapshot) string {
	return fmt.Sprintf("%s[100%%] duration:%s speed:%s elapsed:%s completed",
		indent, parse.FormatClock(s.Total), s.Speed, parse.FormatClock(s.Elapsed))
}

// ElapsedOnlyLine is the closing line for a successful run whose input
// duration was never announced.
func ElapsedOnlyLine(elapsed time.Duration) string {
	return fmt.Sprintf("%s[100%%] elapsed:%s", indent, parse.FormatClock(elapsed))
}

// Title is the window title for a running file.
func Title(prefix string, percent int, name string) string {
	return fmt.Sprintf("%s %d%% %s", prefix, percent, name)
}

// SizeChange compares input and output file sizes.
type SizeChange struct {
	Input  int64
	Output int64
}

// Percent is the relative change; negative means the output is smaller.
func (c SizeChange) Percent() float64 {
	if c.Input <= 0 {
		return 0
	}
	return 100 * float64(c.Output-c.Input) / float64(c.Input)
}

// Color highlights growth in red and savings beyond 20% in green.
func (c SizeChange) Color() Color {
	p := c.Percent()
	switch {
	case p > 0:
		return ColorRed
	case p < -20:
		return ColorGreen
	case p < 0:
		return ColorBlue
	}
	return ColorDefault
}

func (c SizeChange) String() string {
	return fmt.Sprintf("%s -> %s (%.1f%%)", FormatSize(c.Input), FormatSize(c.Output), c.Percent())
}

// FormatSize renders a byte count with binary units.
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
