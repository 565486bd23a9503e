// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package ffmpeg

import (
	"fmt"
	"regexp"
	"strings"
)

// Validator decides whether a discovered file is eligible as encoder input.
// Block expressions win over allow expressions; an empty allow list admits
// everything not blocked.
type Validator interface {
	IsValid(text string) bool
	// Blocked returns the first block expression matching text.
	Blocked(text string) (string, bool)
}

type validator struct {
	allow []*regexp.Regexp
	block []*regexp.Regexp
}

// NewValidator compiles allow and block expressions. Empty expressions are
// ignored.
func NewValidator(allow, block []string) (Validator, error) {
	var err error
	v := &validator{}
	if v.allow, err = compileAll("allow", allow); err != nil {
		return nil, err
	}
	if v.block, err = compileAll("block", block); err != nil {
		return nil, err
	}
	return v, nil
}

func compileAll(kind string, exps []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, exp := range exps {
		exp = strings.TrimSpace(exp)
		if exp == "" {
			continue
		}
		re, err := regexp.Compile(exp)
		if err != nil {
			return nil, fmt.Errorf("invalid %s expression '%s': %w", kind, exp, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func (v *validator) Blocked(text string) (string, bool) {
	for _, e := range v.block {
		if e.MatchString(text) {
			return e.String(), true
		}
	}
	return "", false
}

func (v *validator) IsValid(text string) bool {
	if _, blocked := v.Blocked(text); blocked {
		return false
	}
	if len(v.allow) == 0 {
		return true
	}
	for _, e := range v.allow {
		if e.MatchString(text) {
			return true
		}
	}
	return false
}
