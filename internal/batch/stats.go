// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package batch

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ZSC714725/ffbatch/internal/ffmpeg/parse"
	"github.com/ZSC714725/ffbatch/internal/report"
)

// Stats aggregate a batch
type Stats struct {
	Batch     string
	Total     int
	Succeeded int
	Failed    int
	// InputBytes and OutputBytes only count files whose sizes were compared.
	InputBytes  int64
	OutputBytes int64
	Elapsed     time.Duration
	Results     []Result
}

func (s *Stats) add(r Result) {
	s.Results = append(s.Results, r)
	if !r.Succeeded {
		s.Failed++
		return
	}
	s.Succeeded++
	if r.Size != nil {
		s.InputBytes += r.Size.Input
		s.OutputBytes += r.Size.Output
	}
}

// Skipped is the number of files never attempted.
func (s Stats) Skipped() int {
	return s.Total - len(s.Results)
}

// Summary renders the per-file table followed by a totals line.
func (s Stats) Summary() string {
	rows := make([][]string, 0, len(s.Results))
	for _, r := range s.Results {
		status := "ok"
		if !r.Succeeded {
			status = r.Outcome.State
			if status == "" {
				status = "failed"
			}
		}
		elapsed, speed, size := "-", "-", "-"
		if r.Outcome.Elapsed > 0 {
			elapsed = parse.FormatClock(r.Outcome.Elapsed)
		}
		if r.Succeeded && r.Outcome.HasTotal {
			speed = parse.FormatRatio(r.Outcome.Speed)
		}
		if r.Size != nil {
			size = fmt.Sprintf("%.1f%%", r.Size.Percent())
		}
		rows = append(rows, []string{
			strconv.Itoa(r.Index),
			r.Input,
			status,
			elapsed,
			speed,
			size,
		})
	}

	out := report.Table(
		[]string{"#", "Input", "Status", "Elapsed", "Speed", "Size"},
		rows,
		[]report.Align{report.AlignRight, report.AlignLeft, report.AlignLeft, report.AlignRight, report.AlignRight, report.AlignRight},
	)

	total := report.SizeChange{Input: s.InputBytes, Output: s.OutputBytes}
	out += fmt.Sprintf("\n%d files: %d succeeded, %d failed", s.Total, s.Succeeded, s.Failed)
	if n := s.Skipped(); n > 0 {
		out += fmt.Sprintf(", %d not attempted", n)
	}
	if s.InputBytes > 0 {
		out += ", " + total.String()
	}
	out += fmt.Sprintf(", elapsed %s", parse.FormatClock(s.Elapsed))
	return out
}
