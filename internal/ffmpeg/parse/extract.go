// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	durationMarker = "Duration: "
	timeMarker     = "time="
	speedMarker    = "speed="

	// PlaceholderSpeed is shown when a progress line carries no usable speed.
	PlaceholderSpeed = "0.0x"

	// SpeedLabelWidth is the minimum display width of a speed label.
	SpeedLabelWidth = 7
)

// Sample is the position and speed read from one progress line.
type Sample struct {
	Current time.Duration
	Speed   string
}

// ExtractDuration looks for the "Duration: H:MM:SS.ff," declaration FFmpeg
// prints for each input. A zero duration is treated as absent so callers can
// divide by the result.
func ExtractDuration(line string) (time.Duration, bool) {
	i := strings.Index(line, durationMarker)
	if i < 0 {
		return 0, false
	}
	rest := line[i+len(durationMarker):]
	end := strings.IndexByte(rest, ',')
	if end < 0 {
		return 0, false
	}
	d, err := ParseTime(rest[:end])
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

// ExtractProgress reads "time=H:MM:SS.ff " and "speed=N.Nx" from a stats
// line. The position is mandatory; a missing or malformed speed falls back to
// PlaceholderSpeed.
func ExtractProgress(line string) (Sample, bool) {
	i := strings.Index(line, timeMarker)
	if i < 0 {
		return Sample{}, false
	}
	rest := line[i+len(timeMarker):]
	end := strings.IndexFunc(rest, unicode.IsSpace)
	if end < 0 {
		return Sample{}, false
	}
	current, err := ParseTime(rest[:end])
	if err != nil {
		return Sample{}, false
	}
	return Sample{Current: current, Speed: extractSpeed(line)}, true
}

func extractSpeed(line string) string {
	label := PlaceholderSpeed
	if i := strings.Index(line, speedMarker); i >= 0 {
		rest := line[i+len(speedMarker):]
		if x := strings.IndexByte(rest, 'x'); x >= 0 {
			candidate := strings.TrimSpace(rest[:x+1])
			if _, err := strconv.ParseFloat(strings.TrimSuffix(candidate, "x"), 64); err == nil {
				label = candidate
			}
		}
	}
	return fmt.Sprintf("%-*s", SpeedLabelWidth, label)
}
