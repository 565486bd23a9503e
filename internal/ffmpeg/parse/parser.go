// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package parse

import (
	"container/ring"
	"time"

	"github.com/ZSC714725/ffbatch/internal/process"
)

// Parser implements process.Parser for FFmpeg stderr. It feeds every line
// through a Tracker and keeps the most recent lines for failure reports.
type Parser interface {
	process.Parser
	// Last returns the most recent progress snapshot.
	Last() (Snapshot, bool)
	// Total returns the announced input duration, if any.
	Total() (time.Duration, bool)
	// Complete emits the closing 100% snapshot after a successful exit.
	Complete() (Snapshot, bool)
}

// Config for the parser
type Config struct {
	LogLines   int
	Now        func() time.Time
	OnProgress func(Snapshot)
}

type parser struct {
	tracker    *Tracker
	onProgress func(Snapshot)

	log      *ring.Ring
	logLines int

	last    Snapshot
	hasLast bool
}

// New creates a Parser. The tracker clock starts now.
func New(config Config) Parser {
	p := &parser{
		tracker:    NewTracker(config.Now),
		onProgress: config.OnProgress,
		logLines:   config.LogLines,
	}
	if p.logLines <= 0 {
		p.logLines = 100
	}
	p.log = ring.New(p.logLines)
	return p
}

func (p *parser) Parse(line string) bool {
	p.log.Value = process.Line{Timestamp: time.Now(), Data: line}
	p.log = p.log.Next()

	snap, ok := p.tracker.Update(line)
	if !ok {
		return false
	}
	p.emit(snap)
	return true
}

func (p *parser) Complete() (Snapshot, bool) {
	snap, ok := p.tracker.Complete()
	if !ok {
		return Snapshot{}, false
	}
	p.emit(snap)
	return snap, true
}

func (p *parser) emit(snap Snapshot) {
	p.last = snap
	p.hasLast = true
	if p.onProgress != nil {
		p.onProgress(snap)
	}
}

func (p *parser) Last() (Snapshot, bool) {
	return p.last, p.hasLast
}

func (p *parser) Total() (time.Duration, bool) {
	return p.tracker.Total()
}

func (p *parser) Log() []process.Line {
	var out []process.Line
	p.log.Do(func(v interface{}) {
		if v != nil {
			out = append(out, v.(process.Line))
		}
	})
	return out
}
