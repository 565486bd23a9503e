// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ZSC714725/ffbatch/internal/ffmpeg/skills"
	"github.com/ZSC714725/ffbatch/internal/logger"
	"github.com/ZSC714725/ffbatch/internal/process"
)

// FFmpeg runs transcodes with one resolved binary
type FFmpeg interface {
	Binary() string
	Transcode(job Job) (Outcome, error)
	Skills() (skills.Skills, error)
}

// Config for FFmpeg
type Config struct {
	Binary      string
	MaxLogLines int
	Logger      logger.Logger
	// NewSampler builds the resource sampler for each run. Nil uses gopsutil.
	NewSampler func() process.Sampler
	// Now is the tracker clock. Nil uses time.Now.
	Now func() time.Time
}

type ffmpeg struct {
	binary     string
	logLines   int
	logger     logger.Logger
	newSampler func() process.Sampler
	now        func() time.Time

	skills     *skills.Skills
	skillsLock sync.Mutex
}

// New creates FFmpeg
func New(config Config) (FFmpeg, error) {
	binary, err := ResolveBinary(config.Binary)
	if err != nil {
		return nil, err
	}

	f := &ffmpeg{
		binary:     binary,
		logLines:   config.MaxLogLines,
		logger:     config.Logger,
		newSampler: config.NewSampler,
		now:        config.Now,
	}

	if f.logLines <= 0 {
		f.logLines = 100
	}
	if f.logger == nil {
		f.logger = logger.Nop()
	}
	if f.newSampler == nil {
		f.newSampler = process.NewSysSampler
	}

	return f, nil
}

func (f *ffmpeg) Binary() string {
	return f.binary
}

// Skills probes the binary on first use and caches the result.
func (f *ffmpeg) Skills() (skills.Skills, error) {
	f.skillsLock.Lock()
	defer f.skillsLock.Unlock()

	if f.skills != nil {
		return *f.skills, nil
	}
	s, err := skills.New(f.binary)
	if err != nil {
		return skills.Skills{}, fmt.Errorf("invalid ffmpeg: %w", err)
	}
	f.skills = &s
	return s, nil
}

// ResolveBinary finds the encoder. A name with a path separator is used as
// given; a bare name is looked up next to the running executable first and
// then on PATH.
func ResolveBinary(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "ffmpeg"
	}

	if strings.ContainsRune(name, os.PathSeparator) || strings.ContainsRune(name, '/') {
		if isExecutable(name) {
			return name, nil
		}
		return "", fmt.Errorf("%w: %s", ErrBinaryNotFound, name)
	}

	if candidate, ok := sidecarCandidate(name); ok && isExecutable(candidate) {
		return candidate, nil
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBinaryNotFound, err)
	}
	return path, nil
}

func sidecarCandidate(name string) (string, bool) {
	exe, err := os.Executable()
	if err != nil {
		return "", false
	}
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		name += ".exe"
	}
	return filepath.Join(filepath.Dir(exe), name), true
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0o111 != 0
}

func wrapLogger(l logger.Logger, prefix string) *loggerWrapper {
	return &loggerWrapper{logger: l, prefix: prefix}
}

type loggerWrapper struct {
	logger logger.Logger
	prefix string
}

func (w *loggerWrapper) Info(format string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Info(w.prefix+format, args...)
	}
}

func (w *loggerWrapper) Error(format string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Error(w.prefix+format, args...)
	}
}

func (w *loggerWrapper) Debug(format string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Debug(w.prefix+format, args...)
	}
}
