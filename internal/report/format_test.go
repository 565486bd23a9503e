// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ZSC714725/ffbatch/internal/ffmpeg/parse"
)

func TestProgressLine(t *testing.T) {
	s := parse.Snapshot{
		Percent:   42.26,
		Current:   38*time.Second + 500*time.Millisecond,
		Total:     91 * time.Second,
		Speed:     "2.5x   ",
		Elapsed:   15 * time.Second,
		Remaining: 21 * time.Second,
	}
	assert.Equal(t, "    [42.3%] 00:00:38 / 00:01:31 speed:2.5x    elapsed:00:00:15 remaining:00:00:21", ProgressLine(s))

	s.Percent, s.Remaining = 100, 0
	assert.True(t, strings.HasSuffix(ProgressLine(s), " completed"))
}

func TestFinalLine(t *testing.T) {
	s := parse.Snapshot{Percent: 100, Total: time.Hour, Speed: "3.0x", Elapsed: 20 * time.Minute, Final: true}
	want := "    [100%] duration:01:00:00 speed:3.0x elapsed:00:20:00 completed"
	assert.Equal(t, want, FinalLine(s))
	assert.Equal(t, want, ProgressLine(s))
}

func TestElapsedOnlyLine(t *testing.T) {
	assert.Equal(t, "    [100%] elapsed:00:01:05", ElapsedOnlyLine(65*time.Second))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "[2/7] 35% clip.mkv", Title("[2/7]", 35, "clip.mkv"))
}

func TestSizeChange(t *testing.T) {
	tests := []struct {
		name    string
		change  SizeChange
		percent float64
		color   Color
	}{
		{"grew", SizeChange{Input: 100, Output: 150}, 50, ColorRed},
		{"shrank a lot", SizeChange{Input: 100, Output: 49}, -51, ColorGreen},
		{"shrank a little", SizeChange{Input: 100, Output: 90}, -10, ColorBlue},
		{"exactly twenty", SizeChange{Input: 100, Output: 80}, -20, ColorBlue},
		{"unchanged", SizeChange{Input: 100, Output: 100}, 0, ColorDefault},
		{"empty input", SizeChange{Input: 0, Output: 100}, 0, ColorDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.percent, tt.change.Percent(), 1e-9)
			assert.Equal(t, tt.color, tt.change.Color())
		})
	}
}

func TestSizeChangeString(t *testing.T) {
	c := SizeChange{Input: 834_000_000, Output: 408_000_000}
	assert.Equal(t, "795 MiB -> 389 MiB (-51.1%)", c.String())
	assert.Equal(t, "0 B", FormatSize(-1))
}

func TestTable(t *testing.T) {
	out := Table([]string{"#", "Name"}, [][]string{{"1", "alpha"}, {"2"}}, []Align{AlignRight})
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "Name")
	assert.Equal(t, 6, strings.Count(out, "\n")+1)
	assert.Empty(t, Table(nil, nil, nil))
}
