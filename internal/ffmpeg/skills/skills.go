// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package skills

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Encoder is one entry of `ffmpeg -encoders`
type Encoder struct {
	Id   string
	Name string
}

// Library represents a linked av library
type Library struct {
	Name     string
	Compiled string
	Linked   string
}

type ffmpegInfo struct {
	Version       string
	Compiler      string
	Configuration string
	Libraries     []Library
}

// Skills are the detected capabilities of FFmpeg
type Skills struct {
	FFmpeg   ffmpegInfo
	Encoders struct {
		Audio    []Encoder
		Video    []Encoder
		Subtitle []Encoder
	}
}

// HasEncoder reports whether any encoder has the given id.
func (s Skills) HasEncoder(id string) bool {
	for _, list := range [][]Encoder{s.Encoders.Video, s.Encoders.Audio, s.Encoders.Subtitle} {
		for _, e := range list {
			if e.Id == id {
				return true
			}
		}
	}
	return false
}

// New probes the version and encoder list of binary
func New(binary string) (Skills, error) {
	c := Skills{}

	ff, err := getVersion(binary)
	if ff.Version == "" || err != nil {
		if err != nil {
			return Skills{}, fmt.Errorf("can't parse ffmpeg version: %w", err)
		}
		return Skills{}, fmt.Errorf("can't parse ffmpeg version")
	}
	c.FFmpeg = ff

	out, err := exec.Command(binary, "-hide_banner", "-encoders").Output()
	if err != nil {
		return Skills{}, fmt.Errorf("list encoders: %w", err)
	}
	c.Encoders = parseEncoders(out)

	return c, nil
}

func getVersion(binary string) (ffmpegInfo, error) {
	out, err := exec.Command(binary, "-version").CombinedOutput()
	if err != nil {
		return ffmpegInfo{}, err
	}
	return parseVersion(out), nil
}

var (
	reVersion       = regexp.MustCompile(`^ffmpeg version (?:n)?([0-9]+\.[0-9]+(\.[0-9]+)?)`)
	reVersionToken  = regexp.MustCompile(`^ffmpeg version (\S+)`)
	reCompiler      = regexp.MustCompile(`(?m)^\s*built with (.*)$`)
	reConfiguration = regexp.MustCompile(`(?m)^\s*configuration: (.*)$`)
	reLibrary       = regexp.MustCompile(`(?m)^\s*(lib(?:[a-z]+))\s+([0-9]+\.\s*[0-9]+\.\s*[0-9]+) /\s+([0-9]+\.\s*[0-9]+\.\s*[0-9]+)`)
	reEncoder       = regexp.MustCompile(`^\s([VAS])[A-Z.]{5}\s+(\S+)\s+(.*)$`)
)

func parseVersion(data []byte) ffmpegInfo {
	f := ffmpegInfo{}
	if m := reVersion.FindSubmatch(data); m != nil {
		f.Version = string(m[1])
		if len(m[2]) == 0 {
			f.Version += ".0"
		}
	} else if m := reVersionToken.FindSubmatch(data); m != nil {
		// git and nightly builds, e.g. "N-116000-g..." or "2024-07-24-git-..."
		f.Version = string(m[1])
	}
	if m := reCompiler.FindSubmatch(data); m != nil {
		f.Compiler = string(m[1])
	}
	if m := reConfiguration.FindSubmatch(data); m != nil {
		f.Configuration = string(m[1])
	}
	for _, m := range reLibrary.FindAllSubmatch(data, -1) {
		f.Libraries = append(f.Libraries, Library{
			Name:     string(m[1]),
			Compiled: string(m[2]),
			Linked:   string(m[3]),
		})
	}
	return f
}

func parseEncoders(data []byte) struct {
	Audio    []Encoder
	Video    []Encoder
	Subtitle []Encoder
} {
	encoders := struct {
		Audio    []Encoder
		Video    []Encoder
		Subtitle []Encoder
	}{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		m := reEncoder.FindStringSubmatch(scanner.Text())
		// The legend above the list (" V..... = Video") matches too.
		if m == nil || m[2] == "=" {
			continue
		}
		e := Encoder{Id: m[2], Name: strings.TrimSpace(m[3])}
		switch m[1] {
		case "V":
			encoders.Video = append(encoders.Video, e)
		case "A":
			encoders.Audio = append(encoders.Audio, e)
		case "S":
			encoders.Subtitle = append(encoders.Subtitle, e)
		}
	}
	return encoders
}
