// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZSC714725/ffbatch/internal/config"
	"github.com/ZSC714725/ffbatch/internal/ffmpeg"
	"github.com/ZSC714725/ffbatch/internal/ffmpeg/parse"
	"github.com/ZSC714725/ffbatch/internal/logger"
	"github.com/ZSC714725/ffbatch/internal/process"
	"github.com/ZSC714725/ffbatch/internal/report"
	"github.com/ZSC714725/ffbatch/internal/task"
)

// Transcoder runs one encoder job to completion.
type Transcoder interface {
	Transcode(job ffmpeg.Job) (ffmpeg.Outcome, error)
}

// Config for a Runner
type Config struct {
	Transcoder Transcoder
	Store      task.Store
	Sink       report.Sink
	Journal    *Journal
	Logger     logger.Logger
	Now        func() time.Time
	// FailureLines is how many trailing encoder lines are logged when a
	// file fails. Zero uses 20.
	FailureLines int
}

// Result of one file
type Result struct {
	Index     int
	JobID     string
	Input     string
	Output    string
	Succeeded bool
	Outcome   ffmpeg.Outcome
	Size      *report.SizeChange
}

// Runner transcodes files one after another with a single profile.
type Runner struct {
	transcoder   Transcoder
	store        task.Store
	sink         report.Sink
	journal      *Journal
	logger       logger.Logger
	now          func() time.Time
	failureLines int
}

// NewRunner creates a Runner. Store, Sink and Logger default to an
// in-memory store, a console on stdout and a no-op logger.
func NewRunner(c Config) *Runner {
	r := &Runner{
		transcoder:   c.Transcoder,
		store:        c.Store,
		sink:         c.Sink,
		journal:      c.Journal,
		logger:       c.Logger,
		now:          c.Now,
		failureLines: c.FailureLines,
	}
	if r.logger == nil {
		r.logger = logger.Nop()
	}
	if r.store == nil {
		r.store = task.NewStore(r.logger)
	}
	if r.sink == nil {
		r.sink = report.NewConsole()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.failureLines <= 0 {
		r.failureLines = 20
	}
	return r
}

// Run transcodes files in order. A file that fails is reported and the
// batch moves on; an encoder that cannot be launched ends the batch and
// its error is returned together with the stats so far.
func (r *Runner) Run(files []string, profile config.Profile) (Stats, error) {
	if len(files) == 0 {
		return Stats{}, ErrNoInputs
	}
	if r.transcoder == nil {
		return Stats{}, fmt.Errorf("batch: no transcoder")
	}

	stats := Stats{Batch: task.NewBatchID(), Total: len(files)}
	start := r.now()

	// Register the whole batch up front so the status API lists it.
	ids := make([]string, len(files))
	outputs := make([]string, len(files))
	for i, in := range files {
		outputs[i] = OutputPath(in, profile.Suffix, r.now())
		job, err := r.store.Add(task.Spec{
			Batch:   stats.Batch,
			Index:   i + 1,
			Count:   len(files),
			Input:   in,
			Output:  outputs[i],
			Profile: profile.Label(),
		})
		if err != nil {
			return stats, err
		}
		ids[i] = job.ID
	}

	for i, in := range files {
		res, err := r.runOne(i+1, len(files), ids[i], in, outputs[i], profile)
		stats.add(res)
		if err != nil {
			stats.Elapsed = r.now().Sub(start)
			return stats, err
		}
	}

	stats.Elapsed = r.now().Sub(start)
	return stats, nil
}

func (r *Runner) runOne(index, count int, id, input, output string, profile config.Profile) (Result, error) {
	prefix := fmt.Sprintf("[%d/%d]", index, count)
	name := filepath.Base(input)
	res := Result{Index: index, JobID: id, Input: input, Output: output}

	r.sink.Println(fmt.Sprintf("%s processing: %s", prefix, input))
	if err := r.journal.Input(input); err != nil {
		r.logger.Warn("journal: %v", err)
	}
	r.track(r.store.Start(id))

	outcome, err := r.transcoder.Transcode(ffmpeg.Job{
		Input:  input,
		Output: output,
		Args:   profile.Args(),
		OnProgress: func(s parse.Snapshot) {
			r.sink.Status(report.ProgressLine(s))
			if s.PercentChanged {
				r.sink.SetTitle(report.Title(prefix, s.PercentFloor, name))
			}
			r.track(r.store.Progress(id, task.ProgressOf(s)))
		},
		OnSample: func(u process.Usage) {
			r.track(r.store.Usage(id, u))
		},
		OnStateChange: func(from, to string) {
			r.logger.Debug("%s %s: %s -> %s", prefix, name, from, to)
		},
	})
	res.Outcome = outcome

	if err != nil {
		r.sink.Println(fmt.Sprintf("failed: %s", input))
		result := task.ResultOf(outcome)
		result.Error = err.Error()
		r.track(r.store.Finish(id, result))
		return res, err
	}

	if !outcome.Succeeded {
		r.sink.Println(fmt.Sprintf("failed: %s", input))
		r.logFailure(prefix, input, outcome)
		r.track(r.store.Finish(id, task.ResultOf(outcome)))
		return res, nil
	}

	res.Succeeded = true
	if !outcome.HasTotal {
		r.sink.Status(report.ElapsedOnlyLine(outcome.Elapsed))
	}

	result := task.ResultOf(outcome)
	if size, ok := compareSizes(input, output); ok {
		res.Size = &size
		result.InputSize, result.OutputSize = size.Input, size.Output
		r.sink.SetColor(size.Color())
		r.sink.Println("    " + size.String())
		r.sink.SetColor(report.ColorDefault)
	} else {
		r.sink.Println("")
	}

	if err := r.journal.Output(output, outcome, res.Size); err != nil {
		r.logger.Warn("journal: %v", err)
	}
	r.track(r.store.Finish(id, result))
	return res, nil
}

func (r *Runner) logFailure(prefix, input string, o ffmpeg.Outcome) {
	r.logger.Error("%s %s exited with %s (code %d)", prefix, input, o.State, o.ExitCode)
	lines := o.Log
	if len(lines) > r.failureLines {
		lines = lines[len(lines)-r.failureLines:]
	}
	for _, l := range lines {
		r.logger.Error("%s   %s", prefix, l.Data)
	}
}

func (r *Runner) track(err error) {
	if err != nil && !errors.Is(err, task.ErrFinished) {
		r.logger.Debug("job store: %v", err)
	}
}

func compareSizes(input, output string) (report.SizeChange, bool) {
	in, err := os.Stat(input)
	if err != nil {
		return report.SizeChange{}, false
	}
	out, err := os.Stat(output)
	if err != nil {
		return report.SizeChange{}, false
	}
	return report.SizeChange{Input: in.Size(), Output: out.Size()}, true
}

// IsFatal reports whether err from Run means the encoder is unusable.
func IsFatal(err error) bool {
	return errors.Is(err, ffmpeg.ErrBinaryNotFound) || errors.Is(err, process.ErrLaunch)
}
