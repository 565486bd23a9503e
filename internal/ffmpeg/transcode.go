// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package ffmpeg

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ZSC714725/ffbatch/internal/ffmpeg/parse"
	"github.com/ZSC714725/ffbatch/internal/process"
)

// Job is one file to transcode.
type Job struct {
	Input  string
	Output string
	// Args are the profile's codec and quality flags, already split.
	Args []string

	OnProgress    func(parse.Snapshot)
	OnSample      func(process.Usage)
	OnStateChange func(from, to string)
}

// Outcome summarizes a finished run.
type Outcome struct {
	Succeeded bool
	State     string
	ExitCode  int

	Total    time.Duration
	HasTotal bool
	Elapsed  time.Duration
	// Speed is Total/Elapsed; zero when the total was never announced.
	Speed float64

	Peak process.Usage
	// Log holds the last lines of encoder output.
	Log []process.Line
}

// Build returns the encoder arguments for a job: input, profile flags,
// unconditional overwrite, output.
func Build(job Job) []string {
	args := make([]string, 0, len(job.Args)+6)
	args = append(args, "-hide_banner", "-i", job.Input)
	args = append(args, job.Args...)
	args = append(args, "-y", job.Output)
	return args
}

// Transcode runs the encoder for job and blocks until it exits. Progress
// snapshots reach job.OnProgress in stream order; after a successful exit
// with a known duration a final 100% snapshot follows. The error is non-nil
// only when the encoder could not be launched.
func (f *ffmpeg) Transcode(job Job) (Outcome, error) {
	if job.Input == "" || job.Output == "" {
		return Outcome{}, ErrInvalidJob
	}

	parser := parse.New(parse.Config{
		LogLines:   f.logLines,
		Now:        f.now,
		OnProgress: job.OnProgress,
	})

	proc, err := process.New(process.Config{
		Binary:        f.binary,
		Args:          Build(job),
		Parser:        parser,
		Sampler:       f.newSampler(),
		OnSample:      job.OnSample,
		OnStateChange: job.OnStateChange,
		Logger:        wrapLogger(f.logger, "["+filepath.Base(job.Input)+"] "),
	})
	if err != nil {
		return Outcome{}, err
	}

	res, err := proc.Run()
	if err != nil {
		return Outcome{State: res.State, ExitCode: res.ExitCode}, fmt.Errorf("start %s: %w", f.binary, err)
	}

	out := Outcome{
		Succeeded: res.Success(),
		State:     res.State,
		ExitCode:  res.ExitCode,
		Elapsed:   res.Duration,
		Peak:      res.Peak,
		Log:       parser.Log(),
	}
	out.Total, out.HasTotal = parser.Total()

	// The closing snapshot and the outcome share one elapsed reading.
	if out.Succeeded && out.HasTotal {
		if snap, ok := parser.Complete(); ok {
			out.Elapsed = snap.Elapsed
			out.Speed = parse.SpeedRatio(out.Total, snap.Elapsed)
		}
	}
	return out, nil
}
