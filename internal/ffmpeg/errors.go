// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package ffmpeg

import "errors"

var (
	ErrBinaryNotFound = errors.New("ffmpeg binary not found")
	ErrInvalidJob     = errors.New("invalid job: need input and output")
)
