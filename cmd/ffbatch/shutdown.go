// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package main

import (
	"fmt"
	"os/exec"
	"runtime"
)

// scheduleShutdown asks the OS to power off shortly. Windows honours the
// 30 second delay; shutdown(8) elsewhere only takes minutes.
func scheduleShutdown() error {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("shutdown.exe", "-s", "-t", "30")
	} else {
		cmd = exec.Command("shutdown", "-h", "+1")
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("schedule shutdown: %w", err)
	}
	return cmd.Process.Release()
}
