// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package main

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"github.com/ZSC714725/ffbatch/internal/config"
	"github.com/ZSC714725/ffbatch/internal/ffmpeg"
	"github.com/ZSC714725/ffbatch/internal/logger"
)

type commandContext struct {
	configFlag  string
	ffmpegFlag  string
	bindFlag    string
	profileFlag int
	verbose     bool

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(in io.Reader, out, errOut io.Writer) *commandContext {
	return &commandContext{
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
	}
}

// ensureConfig loads the config file once and applies flag overrides.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := strings.TrimSpace(c.configFlag)
		if path == "" {
			path = config.ExecutableSibling(".yaml")
		}

		cfg := config.Default()
		if path != "" {
			loaded, err := config.Load(path)
			if err != nil {
				c.configErr = err
				return
			}
			cfg = loaded
		}

		if c.ffmpegFlag != "" {
			cfg.FFmpeg.Path = c.ffmpegFlag
		}
		if c.bindFlag != "" {
			cfg.Server.Bind = c.bindFlag
		}
		if c.verbose {
			cfg.Log.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cfg *config.Config) logger.Logger {
	return logger.NewWithOptions("ffbatch", logger.Options{
		Level:  cfg.Log.Level,
		Output: c.errOut,
	})
}

func (c *commandContext) newFFmpeg(cfg *config.Config, log logger.Logger) (ffmpeg.FFmpeg, error) {
	return ffmpeg.New(ffmpeg.Config{
		Binary:      cfg.FFmpeg.Path,
		MaxLogLines: 100,
		Logger:      log,
	})
}
