// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZSC714725/ffbatch/internal/ffmpeg"
	"github.com/ZSC714725/ffbatch/internal/ffmpeg/parse"
	"github.com/ZSC714725/ffbatch/internal/process"
)

func addJob(t *testing.T, s Store, index int) Job {
	t.Helper()
	j, err := s.Add(Spec{Batch: "b1", Index: index, Count: 2, Input: "in.mkv", Output: "out.mp4", Profile: "H265"})
	require.NoError(t, err)
	return j
}

func TestStoreLifecycle(t *testing.T) {
	s := NewStore(nil)
	j := addJob(t, s, 1)
	assert.NotEmpty(t, j.ID)
	assert.Equal(t, StateQueued, j.State)

	require.NoError(t, s.Start(j.ID))
	require.NoError(t, s.Progress(j.ID, ProgressOf(parse.Snapshot{Percent: 42, Speed: "1.0x   "})))
	require.NoError(t, s.Usage(j.ID, process.Usage{CPU: 80, Memory: 1 << 20}))

	got, err := s.Get(j.ID)
	require.NoError(t, err)
	assert.Equal(t, StateRunning, got.State)
	require.NotNil(t, got.Progress)
	assert.Equal(t, 42.0, got.Progress.Percent)
	assert.Equal(t, uint64(1<<20), got.Usage.Memory)

	result := ResultOf(ffmpeg.Outcome{Succeeded: true, State: "finished", Elapsed: time.Second, Speed: 3})
	require.NoError(t, s.Finish(j.ID, result))

	got, err = s.Get(j.ID)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, got.State)
	assert.True(t, got.State.Done())
	assert.Equal(t, 3.0, got.Result.Speed)

	assert.ErrorIs(t, s.Progress(j.ID, Progress{}), ErrFinished)
}

func TestStoreCopiesAreIndependent(t *testing.T) {
	s := NewStore(nil)
	j := addJob(t, s, 1)
	require.NoError(t, s.Progress(j.ID, Progress{Percent: 10}))

	before, err := s.Get(j.ID)
	require.NoError(t, err)
	require.NoError(t, s.Progress(j.ID, Progress{Percent: 20}))

	assert.Equal(t, 10.0, before.Progress.Percent)
}

func TestStoreErrors(t *testing.T) {
	s := NewStore(nil)

	_, err := s.Add(Spec{Input: "in.mkv"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Start("nope"), ErrNotFound)
}

func TestStoreListOrder(t *testing.T) {
	s := NewStore(nil)
	first := addJob(t, s, 1)
	second := addJob(t, s, 2)

	jobs := s.List()
	require.Len(t, jobs, 2)
	assert.Equal(t, first.ID, jobs[0].ID)
	assert.Equal(t, second.ID, jobs[1].ID)
}

func TestStoreSubscribe(t *testing.T) {
	s := NewStore(nil)
	events, cancel := s.Subscribe(8)

	j := addJob(t, s, 1)
	require.NoError(t, s.Start(j.ID))
	require.NoError(t, s.Finish(j.ID, Result{}))

	var types []EventType
	for i := 0; i < 3; i++ {
		ev := <-events
		assert.Equal(t, j.ID, ev.Job.ID)
		types = append(types, ev.Type)
	}
	assert.Equal(t, []EventType{EventAdded, EventStarted, EventFinished}, types)

	cancel()
	cancel()
	_, open := <-events
	assert.False(t, open)

	// Publishing after unsubscribe must not panic.
	addJob(t, s, 2)
}

func TestStoreDropsForSlowSubscriber(t *testing.T) {
	s := NewStore(nil)
	events, cancel := s.Subscribe(1)
	defer cancel()

	j := addJob(t, s, 1)
	require.NoError(t, s.Start(j.ID))

	ev := <-events
	assert.Equal(t, EventAdded, ev.Type)
	select {
	case ev := <-events:
		t.Fatalf("unexpected event %s", ev.Type)
	default:
	}
}
