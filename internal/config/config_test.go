// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "ffbatch.yaml", `
ffmpeg:
  path: /opt/ffmpeg/bin/ffmpeg
server:
  bind: 127.0.0.1:8090
log:
  level: debug
  file: /tmp/ffbatch.log
batch:
  extensions: [mkv, mp4]
  hold: 10m
profiles:
  - params: -c:a copy -c:v libx264 -crf 20
    suffix: _H264
    description: H264 (libx264)
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpeg.Path)
	assert.Equal(t, "127.0.0.1:8090", cfg.Server.Bind)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/ffbatch.log", cfg.JournalPath())
	assert.Equal(t, []string{"mkv", "mp4"}, cfg.Batch.Extensions)
	assert.Equal(t, DefaultExclude, cfg.Batch.Exclude)

	hold, err := cfg.HoldDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, hold)

	require.Len(t, cfg.Profiles, 1)
	assert.Equal(t, "_H264", cfg.Profiles[0].Suffix)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "ffbatch.toml", `
[ffmpeg]
path = "ffmpeg7"

[batch]
exclude = ["_done$"]

[[profiles]]
params = "-c:v libx265 -crf 26"
suffix = "_small"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ffmpeg7", cfg.FFmpeg.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, DefaultExtensions, cfg.Batch.Extensions)
	assert.Equal(t, []string{"_done$"}, cfg.Batch.Exclude)
	require.Len(t, cfg.Profiles, 1)
	assert.Equal(t, "-c:v libx265 -crf 26", cfg.Profiles[0].Label())
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yaml", "ffmpeg: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.toml", "ffmpeg = "))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Batch.Hold = "ten minutes"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = Default()
	cfg.Profiles = []Profile{{Params: "libx265", Suffix: "_x"}}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidProfile)

	hold, err := Default().HoldDuration()
	require.NoError(t, err)
	assert.Zero(t, hold)
}
