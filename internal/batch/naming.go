// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package batch

import (
	"path/filepath"
	"strings"
	"time"
)

// OutputExt is the container every profile writes.
const OutputExt = ".mp4"

// OutputPath places the output next to input as <stem><suffix>.mp4. A
// source codec marker "_H264" is dropped from the new name. An input
// without a stem is named after now.
func OutputPath(input, suffix string, now time.Time) string {
	s := stem(input)
	if s == "" {
		s = "output_" + now.Format("20060102150405")
	}
	name := s + suffix + OutputExt
	name = strings.ReplaceAll(name, "_H264", "")
	name = strings.ReplaceAll(name, "_h264", "")
	return filepath.Join(filepath.Dir(input), name)
}
