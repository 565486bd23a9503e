// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZSC714725/ffbatch/internal/config"
	"github.com/ZSC714725/ffbatch/internal/ffmpeg"
	"github.com/ZSC714725/ffbatch/internal/ffmpeg/parse"
	"github.com/ZSC714725/ffbatch/internal/process"
	"github.com/ZSC714725/ffbatch/internal/report"
	"github.com/ZSC714725/ffbatch/internal/task"
)

// fakeTranscoder replays scripted runs keyed by input base name.
type fakeTranscoder struct {
	runs map[string]fakeRun
	jobs []ffmpeg.Job
}

type fakeRun struct {
	snaps      []parse.Snapshot
	outputSize int
	outcome    ffmpeg.Outcome
	err        error
}

func (f *fakeTranscoder) Transcode(job ffmpeg.Job) (ffmpeg.Outcome, error) {
	f.jobs = append(f.jobs, job)
	run := f.runs[filepath.Base(job.Input)]
	for _, s := range run.snaps {
		job.OnProgress(s)
	}
	if run.outputSize > 0 {
		if err := os.WriteFile(job.Output, make([]byte, run.outputSize), 0o644); err != nil {
			return ffmpeg.Outcome{}, err
		}
	}
	return run.outcome, run.err
}

func progress(percent float64, floor int, changed bool) parse.Snapshot {
	return parse.Snapshot{
		Percent:        percent,
		Current:        time.Duration(percent) * time.Second / 10,
		Total:          10 * time.Second,
		Speed:          "2.0x   ",
		Remaining:      time.Second,
		PercentFloor:   floor,
		PercentChanged: changed,
	}
}

func newTestRunner(t *testing.T, tr Transcoder) (*Runner, *report.Recorder, task.Store, string) {
	t.Helper()
	sink := &report.Recorder{}
	store := task.NewStore(nil)
	journal := filepath.Join(t.TempDir(), "ffbatch.log")
	r := NewRunner(Config{
		Transcoder: tr,
		Store:      store,
		Sink:       sink,
		Journal:    NewJournal(journal, nil),
	})
	return r, sink, store, journal
}

var h265 = config.Profile{Params: "-c:a aac -c:v libx265 -crf 23", Suffix: "_H265", Description: "H265"}

func TestRunnerRun(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok.mkv")
	bad := filepath.Join(dir, "bad.mkv")
	notime := filepath.Join(dir, "notime.mkv")
	touch(t, ok, 1000)
	touch(t, bad, 1000)
	touch(t, notime, 1000)

	final := parse.Snapshot{Percent: 100, Total: 10 * time.Second, Current: 10 * time.Second, Speed: "2.0x", Elapsed: 5 * time.Second, Final: true, PercentFloor: 100, PercentChanged: true}
	tr := &fakeTranscoder{runs: map[string]fakeRun{
		"ok.mkv": {
			snaps:      []parse.Snapshot{progress(10, 10, true), progress(10.5, 10, false), progress(50, 50, true), final},
			outputSize: 400,
			outcome:    ffmpeg.Outcome{Succeeded: true, State: "finished", Total: 10 * time.Second, HasTotal: true, Elapsed: 5 * time.Second, Speed: 2},
		},
		"bad.mkv": {
			outcome: ffmpeg.Outcome{State: "failed", ExitCode: 1, Log: []process.Line{{Data: "Invalid data found when processing input"}}},
		},
		"notime.mkv": {
			outputSize: 1100,
			outcome:    ffmpeg.Outcome{Succeeded: true, State: "finished", Elapsed: 2 * time.Second},
		},
	}}
	r, sink, store, journal := newTestRunner(t, tr)

	stats, err := r.Run([]string{ok, bad, notime}, h265)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Succeeded)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, int64(2000), stats.InputBytes)
	assert.Equal(t, int64(1500), stats.OutputBytes)
	assert.NotEmpty(t, stats.Batch)

	require.Len(t, tr.jobs, 3)
	assert.Equal(t, filepath.Join(dir, "ok_H265.mp4"), tr.jobs[0].Output)
	assert.Equal(t, []string{"-c:a", "aac", "-c:v", "libx265", "-crf", "23"}, tr.jobs[0].Args)

	// Titles only follow percent changes.
	assert.Equal(t, []string{"[1/3] 10% ok.mkv", "[1/3] 50% ok.mkv", "[1/3] 100% ok.mkv"}, sink.Titles)

	assert.Contains(t, sink.Lines, "[1/3] processing: "+ok)
	assert.Contains(t, sink.Lines, "failed: "+bad)
	assert.Contains(t, sink.States, report.ElapsedOnlyLine(2*time.Second))

	shrink := "    " + report.SizeChange{Input: 1000, Output: 400}.String()
	grow := "    " + report.SizeChange{Input: 1000, Output: 1100}.String()
	assert.Equal(t, report.ColorGreen, sink.Colored[shrink])
	assert.Equal(t, report.ColorRed, sink.Colored[grow])
	assert.Equal(t, report.ColorDefault, sink.Current)

	jobs := store.List()
	require.Len(t, jobs, 3)
	assert.Equal(t, task.StateSucceeded, jobs[0].State)
	assert.Equal(t, task.StateFailed, jobs[1].State)
	assert.Equal(t, task.StateSucceeded, jobs[2].State)
	require.NotNil(t, jobs[0].Progress)
	assert.True(t, jobs[0].Progress.Final)
	assert.Equal(t, int64(400), jobs[0].Result.OutputSize)
	assert.Equal(t, 1, jobs[1].Result.ExitCode)

	data, err := os.ReadFile(journal)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "input: "+ok)
	assert.Contains(t, lines[1], "output: "+filepath.Join(dir, "ok_H265.mp4")+" duration:00:00:10 speed:2.0x elapsed:00:00:05 ")
	assert.Contains(t, lines[2], "input: "+bad)
	assert.Contains(t, lines[3], "input: "+notime)
	assert.NotContains(t, lines[4], "duration:")

	summary := stats.Summary()
	assert.Contains(t, summary, "3 files: 2 succeeded, 1 failed")
	assert.Contains(t, summary, "ok.mkv")
}

func TestRunnerStopsOnLaunchFailure(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.mkv")
	second := filepath.Join(dir, "b.mkv")
	touch(t, first, 10)
	touch(t, second, 10)

	launch := fmt.Errorf("start ffmpeg: %w", process.ErrLaunch)
	tr := &fakeTranscoder{runs: map[string]fakeRun{
		"a.mkv": {err: launch},
	}}
	r, _, store, _ := newTestRunner(t, tr)

	stats, err := r.Run([]string{first, second}, h265)
	assert.ErrorIs(t, err, process.ErrLaunch)
	assert.True(t, IsFatal(err))
	assert.Len(t, tr.jobs, 1)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Skipped())

	jobs := store.List()
	require.Len(t, jobs, 2)
	assert.Equal(t, task.StateFailed, jobs[0].State)
	assert.Equal(t, launch.Error(), jobs[0].Result.Error)
	assert.Equal(t, task.StateQueued, jobs[1].State)
}

func TestRunnerNoInputs(t *testing.T) {
	r, _, _, _ := newTestRunner(t, &fakeTranscoder{})
	_, err := r.Run(nil, h265)
	assert.ErrorIs(t, err, ErrNoInputs)
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(fmt.Errorf("x: %w", ffmpeg.ErrBinaryNotFound)))
	assert.False(t, IsFatal(ffmpeg.ErrInvalidJob))
}
