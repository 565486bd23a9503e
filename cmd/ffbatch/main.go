// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, in io.Reader, out, errOut io.Writer) int {
	cmd := newRootCommand(in, out, errOut)
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(errOut, err)
		}
		return 1
	}
	return 0
}
