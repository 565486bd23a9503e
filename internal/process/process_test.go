// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package process

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingParser struct {
	lines []string
}

func (p *recordingParser) Parse(line string) bool {
	p.lines = append(p.lines, line)
	return strings.HasPrefix(line, "progress")
}

func (p *recordingParser) Log() []Line { return nil }

type countingSampler struct {
	started int
	stopped int
	usage   Usage
}

func (s *countingSampler) Start(pid int) error { s.started++; return nil }
func (s *countingSampler) Stop()               { s.stopped++ }
func (s *countingSampler) Current() Usage      { return s.usage }

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}
}

func TestRunStreamsStderr(t *testing.T) {
	skipWithoutShell(t)

	parser := &recordingParser{}
	sampler := &countingSampler{usage: Usage{CPU: 12.5, Memory: 4096}}
	var samples []Usage
	var transitions []string

	p, err := New(Config{
		Binary:  "/bin/sh",
		Args:    []string{"-c", `printf 'one\rprogress two\nthree' >&2; echo ignored`},
		Parser:  parser,
		Sampler: sampler,
		OnSample: func(u Usage) {
			samples = append(samples, u)
		},
		OnStateChange: func(from, to string) {
			transitions = append(transitions, from+"->"+to)
		},
	})
	require.NoError(t, err)

	res, err := p.Run()
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, "finished", res.State)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, []string{"one", "progress two", "three"}, parser.lines)
	assert.Equal(t, []Usage{{CPU: 12.5, Memory: 4096}}, samples)
	assert.Equal(t, Usage{CPU: 12.5, Memory: 4096}, res.Peak)
	assert.Equal(t, 1, sampler.started)
	assert.Equal(t, 1, sampler.stopped)
	assert.Equal(t, []string{"finished->starting", "starting->running", "running->finished"}, transitions)
	assert.Equal(t, "finished", p.State())
}

func TestRunNonZeroExit(t *testing.T) {
	skipWithoutShell(t)

	p, err := New(Config{
		Binary:  "/bin/sh",
		Args:    []string{"-c", "echo boom >&2; exit 3"},
		Sampler: NewNullSampler(),
	})
	require.NoError(t, err)

	res, err := p.Run()
	require.NoError(t, err)
	assert.False(t, res.Success())
	assert.Equal(t, "failed", res.State)
	assert.Equal(t, 3, res.ExitCode)

	// A finished process can run again.
	res, err = p.Run()
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestRunLaunchFailure(t *testing.T) {
	p, err := New(Config{
		Binary:  filepath.Join(t.TempDir(), "missing"),
		Sampler: NewNullSampler(),
	})
	require.NoError(t, err)

	res, err := p.Run()
	assert.ErrorIs(t, err, ErrLaunch)
	assert.Equal(t, "failed", res.State)
	assert.Equal(t, "failed", p.State())
}

func TestNewRequiresBinary(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
