// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具
//
// Package process wraps exec.Cmd for running one FFmpeg invocation to
// completion while streaming its stderr into a Parser.

package process

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"
)

// ErrLaunch is returned when the binary could not be started at all.
var ErrLaunch = errors.New("process launch failed")

// Process represents a process
type Process interface {
	// Run starts the process and blocks until it exits. An error is only
	// returned when the process could not be started; a non-zero exit is
	// reported through Result.
	Run() (Result, error)
	State() string
}

// Config for a process
type Config struct {
	Binary        string
	Args          []string
	Parser        Parser
	Sampler       Sampler
	SampleEvery   time.Duration
	OnSample      func(Usage)
	OnStateChange func(from, to string)
	Logger        Logger
}

// Result of a finished process
type Result struct {
	State    string
	ExitCode int
	Duration time.Duration
	Peak     Usage
}

// Success reports a zero exit status.
func (r Result) Success() bool {
	return r.State == stateFinished.String()
}

// Logger interface
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

type stateType string

const (
	stateFinished stateType = "finished"
	stateStarting stateType = "starting"
	stateRunning  stateType = "running"
	stateFailed   stateType = "failed"
	stateKilled   stateType = "killed"
)

func (s stateType) String() string { return string(s) }

type process struct {
	binary string
	args   []string

	state struct {
		state stateType
		time  time.Time
		lock  sync.Mutex
	}
	parser  Parser
	sampler Sampler
	sample  struct {
		every time.Duration
		last  time.Time
		peak  Usage
		fn    func(Usage)
	}
	logger        Logger
	onStateChange func(from, to string)
}

// New creates a new process
func New(config Config) (Process, error) {
	p := &process{
		binary:        config.Binary,
		args:          config.Args,
		parser:        config.Parser,
		sampler:       config.Sampler,
		logger:        config.Logger,
		onStateChange: config.OnStateChange,
	}

	if len(p.binary) == 0 {
		return nil, fmt.Errorf("no valid binary given")
	}

	if p.parser == nil {
		p.parser = &nullParser{}
	}

	if p.sampler == nil {
		p.sampler = NewSysSampler()
	}

	if p.logger == nil {
		p.logger = &nopLogger{}
	}

	p.sample.every = config.SampleEvery
	if p.sample.every <= 0 {
		p.sample.every = time.Second
	}
	p.sample.fn = config.OnSample

	p.state.state = stateFinished
	p.state.time = time.Now()
	return p, nil
}

func (p *process) setState(state stateType) error {
	p.state.lock.Lock()
	defer p.state.lock.Unlock()

	prev := p.state.state
	ok := false
	switch prev {
	case stateFinished, stateFailed, stateKilled:
		ok = state == stateStarting
	case stateStarting:
		ok = state == stateRunning || state == stateFailed
	case stateRunning:
		ok = state == stateFinished || state == stateFailed || state == stateKilled
	default:
		return fmt.Errorf("unhandled state: %s", prev)
	}
	if !ok {
		return fmt.Errorf("can't change from %s to %s", prev, state)
	}

	p.state.state = state
	p.state.time = time.Now()
	if p.onStateChange != nil {
		p.onStateChange(prev.String(), state.String())
	}
	return nil
}

func (p *process) State() string {
	p.state.lock.Lock()
	defer p.state.lock.Unlock()
	return p.state.state.String()
}

func (p *process) Run() (Result, error) {
	if err := p.setState(stateStarting); err != nil {
		return Result{}, err
	}

	// Stdin and stdout stay nil, which exec connects to the null device.
	cmd := exec.Command(p.binary, p.args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		p.setState(stateFailed)
		return Result{State: stateFailed.String(), ExitCode: -1}, fmt.Errorf("%w: %v", ErrLaunch, err)
	}

	p.logger.Debug("exec %s %v", p.binary, p.args)
	if err := cmd.Start(); err != nil {
		p.setState(stateFailed)
		return Result{State: stateFailed.String(), ExitCode: -1}, fmt.Errorf("%w: %v", ErrLaunch, err)
	}
	started := time.Now()
	p.sample.last = time.Time{}
	p.sample.peak = Usage{}

	if err := p.sampler.Start(cmd.Process.Pid); err != nil {
		p.logger.Debug("resource sampling unavailable for pid %d: %v", cmd.Process.Pid, err)
	}
	p.setState(stateRunning)

	p.reader(stderr)

	waitErr := cmd.Wait()
	p.sampler.Stop()

	result := Result{
		Duration: time.Since(started),
		Peak:     p.sample.peak,
	}
	result.State, result.ExitCode = p.waiter(waitErr)
	return result, nil
}

func (p *process) reader(stderr io.Reader) {
	lines := NewLines(stderr)
	for line := range lines.All() {
		if p.parser.Parse(line) {
			p.sampleUsage()
		}
	}
	if err := lines.Err(); err != nil {
		p.logger.Error("reading process output: %v", err)
		// Keep draining so the child never blocks on a full pipe.
		io.Copy(io.Discard, stderr)
	}
}

func (p *process) sampleUsage() {
	now := time.Now()
	if now.Sub(p.sample.last) < p.sample.every {
		return
	}
	p.sample.last = now

	u := p.sampler.Current()
	if u.CPU > p.sample.peak.CPU {
		p.sample.peak.CPU = u.CPU
	}
	if u.Memory > p.sample.peak.Memory {
		p.sample.peak.Memory = u.Memory
	}
	if p.sample.fn != nil {
		p.sample.fn(u)
	}
}

func (p *process) waiter(err error) (string, int) {
	state, code := stateFinished, 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
			if code < 0 {
				state = stateKilled
			} else {
				state = stateFailed
			}
		} else {
			state, code = stateKilled, -1
		}
	}
	p.setState(state)
	return state.String(), code
}

type nullParser struct{}

func (p *nullParser) Parse(line string) bool { return false }
func (p *nullParser) Log() []Line            { return nil }

type nopLogger struct{}

func (l *nopLogger) Info(format string, args ...interface{})  {}
func (l *nopLogger) Error(format string, args ...interface{}) {}
func (l *nopLogger) Debug(format string, args ...interface{}) {}
