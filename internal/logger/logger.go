// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Logger provides a simple logging interface
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// Options for NewWithOptions
type Options struct {
	Level  string
	Output io.Writer
}

type defaultLogger struct {
	log hclog.Logger
}

// New returns a logger named prefix writing warnings and above to stderr.
func New(prefix string) Logger {
	return NewWithOptions(prefix, Options{})
}

// NewWithOptions returns a named logger. Unknown levels fall back to warn.
func NewWithOptions(prefix string, opts Options) Logger {
	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return &defaultLogger{log: hclog.New(&hclog.LoggerOptions{
		Name:   prefix,
		Level:  level,
		Output: out,
	})}
}

// Nop discards everything.
func Nop() Logger {
	return &defaultLogger{log: hclog.NewNullLogger()}
}

func (l *defaultLogger) Info(format string, args ...interface{}) {
	if l.log.IsInfo() {
		l.log.Info(fmt.Sprintf(format, args...))
	}
}

func (l *defaultLogger) Warn(format string, args ...interface{}) {
	if l.log.IsWarn() {
		l.log.Warn(fmt.Sprintf(format, args...))
	}
}

func (l *defaultLogger) Error(format string, args ...interface{}) {
	if l.log.IsError() {
		l.log.Error(fmt.Sprintf(format, args...))
	}
}

func (l *defaultLogger) Debug(format string, args ...interface{}) {
	if l.log.IsDebug() {
		l.log.Debug(fmt.Sprintf(format, args...))
	}
}
