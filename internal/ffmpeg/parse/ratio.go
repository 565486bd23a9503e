// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package parse

import (
	"fmt"
	"time"
)

// SpeedRatio is media duration per second of wall time. Elapsed is counted
// in whole seconds and never less than one.
func SpeedRatio(total, elapsed time.Duration) float64 {
	secs := elapsed.Truncate(time.Second)
	if secs < time.Second {
		secs = time.Second
	}
	return total.Seconds() / secs.Seconds()
}

// FormatRatio renders a ratio the way FFmpeg prints speed, e.g. "2.0x".
func FormatRatio(ratio float64) string {
	return fmt.Sprintf("%.1fx", ratio)
}
