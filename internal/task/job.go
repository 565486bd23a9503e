// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package task

import (
	"time"

	"github.com/ZSC714725/ffbatch/internal/ffmpeg"
	"github.com/ZSC714725/ffbatch/internal/ffmpeg/parse"
	"github.com/ZSC714725/ffbatch/internal/process"
)

// State of a job within a batch
type State string

const (
	StateQueued    State = "queued"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Done reports whether the job reached a terminal state.
func (s State) Done() bool {
	return s == StateSucceeded || s == StateFailed
}

// Spec describes a job to add
type Spec struct {
	Batch   string
	Index   int
	Count   int
	Input   string
	Output  string
	Profile string
}

// Progress is the latest tracker snapshot of a running job
type Progress struct {
	Percent   float64
	Current   time.Duration
	Total     time.Duration
	Speed     string
	Elapsed   time.Duration
	Remaining time.Duration
	Final     bool
}

// ProgressOf copies the fields of a snapshot that are kept per job.
func ProgressOf(s parse.Snapshot) Progress {
	return Progress{
		Percent:   s.Percent,
		Current:   s.Current,
		Total:     s.Total,
		Speed:     s.Speed,
		Elapsed:   s.Elapsed,
		Remaining: s.Remaining,
		Final:     s.Final,
	}
}

// Result of a finished job
type Result struct {
	Succeeded    bool
	ProcessState string
	ExitCode     int
	Elapsed      time.Duration
	Speed        float64
	Peak         process.Usage
	InputSize    int64
	OutputSize   int64
	// Error is set when the encoder could not be launched.
	Error string
}

// ResultOf builds a Result from an encoder outcome.
func ResultOf(o ffmpeg.Outcome) Result {
	return Result{
		Succeeded:    o.Succeeded,
		ProcessState: o.State,
		ExitCode:     o.ExitCode,
		Elapsed:      o.Elapsed,
		Speed:        o.Speed,
		Peak:         o.Peak,
	}
}

// Job is one file of a batch. Values returned by a Store are copies; the
// Progress and Result pointers are replaced, never mutated, on update.
type Job struct {
	ID        string
	Batch     string
	Index     int
	Count     int
	Input     string
	Output    string
	Profile   string
	State     State
	CreatedAt int64
	UpdatedAt int64

	Progress *Progress
	Usage    process.Usage
	Result   *Result
}

// EventType names a job change
type EventType string

const (
	EventAdded    EventType = "added"
	EventStarted  EventType = "started"
	EventProgress EventType = "progress"
	EventUsage    EventType = "usage"
	EventFinished EventType = "finished"
)

// Event is published to subscribers on every job change
type Event struct {
	Type EventType
	Job  Job
}
