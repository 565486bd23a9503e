// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package api

import (
	"time"

	"github.com/ZSC714725/ffbatch/internal/task"
)

// ErrorResponse for API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"details,omitempty"`
}

// Job represents a batch job in API responses
type Job struct {
	ID        string       `json:"id"`
	Batch     string       `json:"batch"`
	Index     int          `json:"index"`
	Count     int          `json:"count"`
	Input     string       `json:"input"`
	Output    string       `json:"output"`
	Profile   string       `json:"profile"`
	State     string       `json:"state"`
	CreatedAt int64        `json:"created_at"`
	UpdatedAt int64        `json:"updated_at"`
	Progress  *JobProgress `json:"progress,omitempty"`
	Usage     JobUsage     `json:"usage"`
	Result    *JobResult   `json:"result,omitempty"`
}

// JobProgress in seconds
type JobProgress struct {
	Percent   float64 `json:"percent"`
	Current   float64 `json:"current_seconds"`
	Total     float64 `json:"total_seconds"`
	Speed     string  `json:"speed"`
	Elapsed   float64 `json:"elapsed_seconds"`
	Remaining float64 `json:"remaining_seconds"`
	Final     bool    `json:"final"`
}

// JobUsage of the encoder process
type JobUsage struct {
	CPU    float64 `json:"cpu_usage"`
	Memory uint64  `json:"memory_bytes"`
}

// JobResult of a finished job
type JobResult struct {
	Succeeded    bool     `json:"succeeded"`
	ProcessState string   `json:"process_state"`
	ExitCode     int      `json:"exit_code"`
	Elapsed      float64  `json:"elapsed_seconds"`
	Speed        float64  `json:"speed"`
	Peak         JobUsage `json:"peak"`
	InputSize    int64    `json:"input_bytes"`
	OutputSize   int64    `json:"output_bytes"`
	Error        string   `json:"error,omitempty"`
}

// EventMessage is sent over the events websocket
type EventMessage struct {
	Type      string `json:"type"`
	Job       Job    `json:"job"`
	Timestamp int64  `json:"timestamp"`
}

func seconds(d time.Duration) float64 {
	return d.Seconds()
}

func jobToAPI(j task.Job) Job {
	out := Job{
		ID:        j.ID,
		Batch:     j.Batch,
		Index:     j.Index,
		Count:     j.Count,
		Input:     j.Input,
		Output:    j.Output,
		Profile:   j.Profile,
		State:     string(j.State),
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
		Usage:     JobUsage{CPU: j.Usage.CPU, Memory: j.Usage.Memory},
	}
	if p := j.Progress; p != nil {
		out.Progress = &JobProgress{
			Percent:   p.Percent,
			Current:   seconds(p.Current),
			Total:     seconds(p.Total),
			Speed:     p.Speed,
			Elapsed:   seconds(p.Elapsed),
			Remaining: seconds(p.Remaining),
			Final:     p.Final,
		}
	}
	if r := j.Result; r != nil {
		out.Result = &JobResult{
			Succeeded:    r.Succeeded,
			ProcessState: r.ProcessState,
			ExitCode:     r.ExitCode,
			Elapsed:      seconds(r.Elapsed),
			Speed:        r.Speed,
			Peak:         JobUsage{CPU: r.Peak.CPU, Memory: r.Peak.Memory},
			InputSize:    r.InputSize,
			OutputSize:   r.OutputSize,
			Error:        r.Error,
		}
	}
	return out
}
