// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Profile is one selectable encoding preset.
type Profile struct {
	// Params are the codec and quality flags, whitespace separated.
	Params string `yaml:"params" toml:"params" json:"params"`
	// Suffix is appended to the output file stem, e.g. "_H265".
	Suffix      string `yaml:"suffix" toml:"suffix" json:"suffix"`
	Description string `yaml:"description" toml:"description" json:"description"`
}

// Args splits Params into encoder arguments.
func (p Profile) Args() []string {
	return strings.Fields(p.Params)
}

// VideoEncoder returns the value of -c:v (or -vcodec), if present.
func (p Profile) VideoEncoder() string {
	args := p.Args()
	for i := 0; i+1 < len(args); i++ {
		if args[i] == "-c:v" || args[i] == "-vcodec" || args[i] == "-codec:v" {
			return args[i+1]
		}
	}
	return ""
}

// Validate rejects profiles without any flag.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Params) == "" || !strings.Contains(p.Params, "-") {
		return fmt.Errorf("%w: params %q carry no flags", ErrInvalidProfile, p.Params)
	}
	return nil
}

// Label is the menu text; it falls back to the params.
func (p Profile) Label() string {
	if p.Description != "" {
		return p.Description
	}
	return p.Params
}

// Builtin returns the presets shipped with the tool.
func Builtin() []Profile {
	return []Profile{
		{
			Params:      "-c:a aac -c:v libx265 -crf 23 -preset slow",
			Suffix:      "_H265",
			Description: "H265 (libx265)   CPU encode, slow",
		},
		{
			Params:      "-c:a aac -c:v hevc_amf -quality quality -rc cqp -qp_i 22 -qp_p 22",
			Suffix:      "_H265",
			Description: "H265 (hevc_amf)  AMD GPU encode, fast",
		},
		{
			Params:      "-c:a aac -c:v libsvtav1 -crf 28 -preset 4",
			Suffix:      "_AV1",
			Description: "AV1  (libsvtav1) CPU encode, very slow",
		},
		{
			Params:      "-c:a aac -c:v libaom-av1 -crf 28 -cpu-used 8 -b:v 0 -row-mt 1",
			Suffix:      "_AV1",
			Description: "AV1  (libaom-av1) CPU encode, slowest",
		},
	}
}

// Profiles owns the ordered list of presets for the lifetime of a run.
// Selection numbers are 1-based, matching the menu.
type Profiles struct {
	items []Profile
}

// NewProfiles copies items into a new list.
func NewProfiles(items ...Profile) *Profiles {
	return &Profiles{items: append([]Profile(nil), items...)}
}

// Append adds profiles to the end of the list.
func (l *Profiles) Append(items ...Profile) {
	l.items = append(l.items, items...)
}

// Len returns the number of profiles.
func (l *Profiles) Len() int {
	return len(l.items)
}

// All returns a copy of the list.
func (l *Profiles) All() []Profile {
	return append([]Profile(nil), l.items...)
}

// Select returns the profile for a 1-based menu number.
func (l *Profiles) Select(n int) (Profile, error) {
	if len(l.items) == 0 {
		return Profile{}, ErrNoProfiles
	}
	if n < 1 || n > len(l.items) {
		return Profile{}, fmt.Errorf("%w: %d is not between 1 and %d", ErrInvalidProfile, n, len(l.items))
	}
	return l.items[n-1], nil
}

// Resolve builds the full list: built-ins, then profiles from the config
// file, then the legacy sidecar file when it exists.
func Resolve(cfg *Config) (*Profiles, error) {
	list := NewProfiles(Builtin()...)
	list.Append(cfg.Profiles...)

	path := cfg.SidecarPath()
	if path == "" {
		return list, nil
	}
	extra, err := LoadSidecar(path)
	if err != nil {
		return nil, err
	}
	list.Append(extra...)
	return list, nil
}

// LoadSidecar reads the legacy text profile file. A missing file yields no
// profiles.
func LoadSidecar(path string) ([]Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open sidecar: %w", err)
	}
	defer f.Close()
	return ParseSidecar(f)
}

// ParseSidecar parses "params # suffix # description" lines. Blank lines and
// lines starting with "//" or "#" are comments; lines without a suffix or
// whose params carry no flag are skipped.
func ParseSidecar(r io.Reader) ([]Profile, error) {
	var out []Profile
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "#")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) < 2 {
			continue
		}

		p := Profile{Params: parts[0], Suffix: parts[1]}
		if len(parts) > 2 {
			p.Description = parts[2]
		}
		if p.Validate() != nil {
			continue
		}
		out = append(out, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read sidecar: %w", err)
	}
	return out, nil
}
