// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package task

import "errors"

var (
	ErrNotFound     = errors.New("job not found")
	ErrFinished     = errors.New("job already finished")
	ErrInvalidInput = errors.New("invalid job: need input and output")
)
