// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package ffmpeg

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZSC714725/ffbatch/internal/ffmpeg/parse"
	"github.com/ZSC714725/ffbatch/internal/process"
)

// writeEncoder installs a shell script standing in for ffmpeg.
func writeEncoder(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("encoder stand-ins are shell scripts")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func newTestFFmpeg(t *testing.T, binary string) FFmpeg {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ff, err := New(Config{
		Binary:     binary,
		NewSampler: process.NewNullSampler,
		Now:        func() time.Time { return start },
	})
	require.NoError(t, err)
	return ff
}

func TestTranscodeSuccessEmitsFinalSnapshot(t *testing.T) {
	bin := writeEncoder(t, `
printf '  Duration: 00:00:04.00, start: 0.000000, bitrate: 1 kb/s\n' >&2
printf 'frame=1 time=00:00:02.00 bitrate=1.0kbits/s speed=2.0x    \r' >&2
printf 'frame=2 time=00:00:03.50 bitrate=1.0kbits/s speed=2.0x    \r' >&2
exit 0
`)
	ff := newTestFFmpeg(t, bin)

	var snaps []parse.Snapshot
	out, err := ff.Transcode(Job{
		Input:      "in.mkv",
		Output:     "out.mp4",
		Args:       []string{"-c:v", "libx265"},
		OnProgress: func(s parse.Snapshot) { snaps = append(snaps, s) },
	})
	require.NoError(t, err)

	assert.True(t, out.Succeeded)
	assert.Equal(t, 0, out.ExitCode)
	assert.True(t, out.HasTotal)
	assert.Equal(t, 4*time.Second, out.Total)
	assert.Equal(t, 4.0, out.Speed)
	assert.Zero(t, out.Elapsed)
	assert.NotEmpty(t, out.Log)

	require.Len(t, snaps, 3)
	assert.Equal(t, 50.0, snaps[0].Percent)
	assert.Equal(t, 87.5, snaps[1].Percent)
	assert.False(t, snaps[1].Final)

	final := snaps[2]
	assert.True(t, final.Final)
	assert.Equal(t, 100.0, final.Percent)
	// The tracker clock is frozen, so elapsed rounds up to one second.
	assert.Equal(t, "4.0x", final.Speed)
	assert.Equal(t, parse.FormatRatio(out.Speed), final.Speed)
	assert.Equal(t, final.Elapsed, out.Elapsed)
}

func TestTranscodeFailureWithoutDuration(t *testing.T) {
	bin := writeEncoder(t, `
printf 'in.mkv: No such file or directory\n' >&2
exit 1
`)
	ff := newTestFFmpeg(t, bin)

	called := false
	out, err := ff.Transcode(Job{
		Input:      "in.mkv",
		Output:     "out.mp4",
		OnProgress: func(parse.Snapshot) { called = true },
	})
	require.NoError(t, err)

	assert.False(t, out.Succeeded)
	assert.Equal(t, "failed", out.State)
	assert.Equal(t, 1, out.ExitCode)
	assert.False(t, out.HasTotal)
	assert.False(t, called)
	require.Len(t, out.Log, 1)
	assert.Equal(t, "in.mkv: No such file or directory", out.Log[0].Data)
}

func TestTranscodeSuccessWithoutDuration(t *testing.T) {
	bin := writeEncoder(t, "exit 0\n")
	ff := newTestFFmpeg(t, bin)

	called := false
	out, err := ff.Transcode(Job{
		Input:      "in.mkv",
		Output:     "out.mp4",
		OnProgress: func(parse.Snapshot) { called = true },
	})
	require.NoError(t, err)
	assert.True(t, out.Succeeded)
	assert.False(t, out.HasTotal)
	assert.Zero(t, out.Speed)
	assert.False(t, called)
}

func TestTranscodePassesArguments(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	bin := writeEncoder(t, `printf '%s\n' "$@" > "`+argsFile+`"`+"\n")
	ff := newTestFFmpeg(t, bin)

	_, err := ff.Transcode(Job{
		Input:  "/videos/a b.mkv",
		Output: "/videos/a b_H265.mp4",
		Args:   []string{"-c:a", "aac", "-crf", "23"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "-hide_banner\n-i\n/videos/a b.mkv\n-c:a\naac\n-crf\n23\n-y\n/videos/a b_H265.mp4\n", string(data))
}

func TestTranscodeLaunchFailure(t *testing.T) {
	bin := writeEncoder(t, "exit 0\n")
	ff := newTestFFmpeg(t, bin)
	require.NoError(t, os.Remove(bin))

	_, err := ff.Transcode(Job{Input: "in.mkv", Output: "out.mp4"})
	assert.ErrorIs(t, err, process.ErrLaunch)
}

func TestTranscodeInvalidJob(t *testing.T) {
	bin := writeEncoder(t, "exit 0\n")
	ff := newTestFFmpeg(t, bin)

	_, err := ff.Transcode(Job{Input: "in.mkv"})
	assert.ErrorIs(t, err, ErrInvalidJob)
}

func TestBuild(t *testing.T) {
	args := Build(Job{Input: "in.avi", Output: "out.mp4", Args: []string{"-c:v", "libsvtav1"}})
	assert.Equal(t, []string{"-hide_banner", "-i", "in.avi", "-c:v", "libsvtav1", "-y", "out.mp4"}, args)
}

func TestResolveBinary(t *testing.T) {
	_, err := ResolveBinary(filepath.Join(t.TempDir(), "ffmpeg"))
	assert.ErrorIs(t, err, ErrBinaryNotFound)

	_, err = ResolveBinary("ffbatch-no-such-encoder")
	assert.ErrorIs(t, err, ErrBinaryNotFound)

	_, err = New(Config{Binary: filepath.Join(t.TempDir(), "ffmpeg")})
	assert.ErrorIs(t, err, ErrBinaryNotFound)
}

func TestResolveBinaryExplicitPath(t *testing.T) {
	bin := writeEncoder(t, "exit 0\n")
	got, err := ResolveBinary(bin)
	require.NoError(t, err)
	assert.Equal(t, bin, got)
}
