// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package parse

import (
	"math"
	"time"
)

// CalibrationWindow is how long a run must have been going before the
// remaining time is derived from the observed rate. Until then the whole
// input duration is reported as remaining.
const CalibrationWindow = 3 * time.Second

// State of a Tracker.
type State int

const (
	// AwaitingTotal means no "Duration:" line has been seen yet.
	AwaitingTotal State = iota
	// TrackingWithTotal means the total is known and progress lines count.
	TrackingWithTotal
)

func (s State) String() string {
	switch s {
	case AwaitingTotal:
		return "awaiting_total"
	case TrackingWithTotal:
		return "tracking"
	}
	return "unknown"
}

// Snapshot is the progress derived from one diagnostic line.
type Snapshot struct {
	Percent   float64
	Current   time.Duration
	Total     time.Duration
	Speed     string
	Elapsed   time.Duration
	Remaining time.Duration

	// PercentFloor is the integer part of Percent. PercentChanged is set when
	// it differs from the previous snapshot of the same tracker.
	PercentFloor   int
	PercentChanged bool

	// Final marks the synthetic completion snapshot emitted after a
	// successful exit; Speed then holds the overall ratio.
	Final bool
}

// Completed reports whether nothing is left to encode.
func (s Snapshot) Completed() bool {
	return s.Remaining <= 0
}

// Tracker turns a stream of FFmpeg stderr lines for one file into progress
// snapshots. It is not safe for concurrent use; one tracker serves one run.
type Tracker struct {
	state     State
	total     time.Duration
	start     time.Time
	now       func() time.Time
	lastFloor int
}

// NewTracker starts a tracker at now(). A nil now uses time.Now.
func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		state:     AwaitingTotal,
		start:     now(),
		now:       now,
		lastFloor: -1,
	}
}

// State returns the current tracker state.
func (t *Tracker) State() State {
	return t.state
}

// Total returns the input duration once it has been announced.
func (t *Tracker) Total() (time.Duration, bool) {
	return t.total, t.state == TrackingWithTotal
}

// Elapsed is the wall time since the tracker was created.
func (t *Tracker) Elapsed() time.Duration {
	return t.now().Sub(t.start)
}

// Update consumes one line. It returns false for lines that carry no
// progress, including every line before the total duration is known.
func (t *Tracker) Update(line string) (Snapshot, bool) {
	if t.state == AwaitingTotal {
		if total, ok := ExtractDuration(line); ok {
			t.total = total
			t.state = TrackingWithTotal
		}
	}
	if t.state != TrackingWithTotal {
		return Snapshot{}, false
	}

	sample, ok := ExtractProgress(line)
	if !ok {
		return Snapshot{}, false
	}

	var percent float64
	if sample.Current == t.total {
		percent = 100.0
	} else {
		percent = float64(sample.Current) / float64(t.total) * 100.0
	}

	elapsed := t.Elapsed()
	snap := Snapshot{
		Percent:   percent,
		Current:   sample.Current,
		Total:     t.total,
		Speed:     sample.Speed,
		Elapsed:   elapsed,
		Remaining: estimateRemaining(percent, elapsed, t.total),
	}
	t.mark(&snap)
	return snap, true
}

// Complete builds the closing snapshot for a run that exited successfully.
// FFmpeg's last stats line often stops short of the total, so the result is
// always 100% with Speed set to the overall total/elapsed ratio.
func (t *Tracker) Complete() (Snapshot, bool) {
	if t.state != TrackingWithTotal {
		return Snapshot{}, false
	}
	elapsed := t.Elapsed()
	snap := Snapshot{
		Percent: 100.0,
		Current: t.total,
		Total:   t.total,
		Speed:   FormatRatio(SpeedRatio(t.total, elapsed)),
		Elapsed: elapsed,
		Final:   true,
	}
	t.mark(&snap)
	return snap, true
}

func (t *Tracker) mark(snap *Snapshot) {
	snap.PercentFloor = int(snap.Percent)
	if snap.PercentFloor != t.lastFloor {
		snap.PercentChanged = true
		t.lastFloor = snap.PercentFloor
	}
}

// estimateRemaining extrapolates the time left from the share done so far.
func estimateRemaining(percent float64, elapsed, total time.Duration) time.Duration {
	switch {
	case elapsed < CalibrationWindow:
		return total
	case percent > 0 && percent < 100:
		rem := (100 - percent) * float64(elapsed) / percent
		if rem >= math.MaxInt64 {
			return total
		}
		return time.Duration(rem)
	case percent == 100:
		return 0
	default:
		return total
	}
}
