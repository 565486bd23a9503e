// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidConfig  = errors.New("invalid config")
	ErrInvalidProfile = errors.New("invalid profile")
	ErrNoProfiles     = errors.New("no encoding profiles configured")
)

// Config 应用配置
type Config struct {
	FFmpeg   FFmpegConfig `yaml:"ffmpeg" toml:"ffmpeg"`
	Server   ServerConfig `yaml:"server" toml:"server"`
	Log      LogConfig    `yaml:"log" toml:"log"`
	Batch    BatchConfig  `yaml:"batch" toml:"batch"`
	Profiles []Profile    `yaml:"profiles" toml:"profiles"`
}

// FFmpegConfig FFmpeg 配置
type FFmpegConfig struct {
	Path string `yaml:"path" toml:"path"`
	// Sidecar is the legacy profile file; empty means <executable>.txt.
	Sidecar string `yaml:"sidecar" toml:"sidecar"`
}

// ServerConfig 状态服务配置，Bind 为空时不启动
type ServerConfig struct {
	Bind string `yaml:"bind" toml:"bind"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	// File is the transcode journal; empty means <executable>.log.
	File string `yaml:"file" toml:"file"`
}

// BatchConfig 批处理配置
type BatchConfig struct {
	Extensions []string `yaml:"extensions" toml:"extensions"`
	// Exclude are regular expressions matched against the file stem.
	Exclude []string `yaml:"exclude" toml:"exclude"`
	// Hold keeps the usage message on screen before exiting, e.g. "10m".
	Hold string `yaml:"hold" toml:"hold"`
}

// DefaultExtensions are the video extensions picked up by discovery.
var DefaultExtensions = []string{
	"mp4", "mkv", "avi", "mov", "wmv", "flv", "webm", "m4v", "ts", "mpeg", "mpg", "3gp", "rm", "rmvb",
}

// DefaultExclude skips files that already carry an output suffix.
var DefaultExclude = []string{`(?i)_(h265|av1)$`}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		FFmpeg: FFmpegConfig{Path: "ffmpeg"},
		Log:    LogConfig{Level: "warn"},
		Batch: BatchConfig{
			Extensions: append([]string(nil), DefaultExtensions...),
			Exclude:    append([]string(nil), DefaultExclude...),
		},
	}
}

// Load 从 YAML 或 TOML 文件加载配置，文件不存在时返回默认配置
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// 填充空值
	if cfg.FFmpeg.Path == "" {
		cfg.FFmpeg.Path = "ffmpeg"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}
	if len(cfg.Batch.Extensions) == 0 {
		cfg.Batch.Extensions = append([]string(nil), DefaultExtensions...)
	}

	return cfg, nil
}

// Validate checks values that Load cannot fill in.
func (c *Config) Validate() error {
	if _, err := c.HoldDuration(); err != nil {
		return fmt.Errorf("%w: batch.hold: %v", ErrInvalidConfig, err)
	}
	for i, p := range c.Profiles {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("profiles[%d]: %w", i, err)
		}
	}
	return nil
}

// HoldDuration parses Batch.Hold; empty is zero.
func (c *Config) HoldDuration() (time.Duration, error) {
	if strings.TrimSpace(c.Batch.Hold) == "" {
		return 0, nil
	}
	return time.ParseDuration(strings.TrimSpace(c.Batch.Hold))
}

// JournalPath returns the journal location.
func (c *Config) JournalPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return ExecutableSibling(".log")
}

// SidecarPath returns the legacy profile file location.
func (c *Config) SidecarPath() string {
	if c.FFmpeg.Sidecar != "" {
		return c.FFmpeg.Sidecar
	}
	return ExecutableSibling(".txt")
}

// ExecutableSibling swaps the running executable's extension for ext, or
// returns "" when the executable path is unknown.
func ExecutableSibling(ext string) string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(exe, filepath.Ext(exe)) + ext
}
