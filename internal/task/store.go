// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package task

import (
	"sync"
	"time"

	"github.com/ZSC714725/ffbatch/internal/logger"
	"github.com/ZSC714725/ffbatch/internal/process"

	"github.com/lithammer/shortuuid/v4"
)

// Store keeps the jobs of the current invocation in memory
type Store interface {
	Add(spec Spec) (Job, error)
	Get(id string) (Job, error)
	List() []Job
	Start(id string) error
	Progress(id string, p Progress) error
	Usage(id string, u process.Usage) error
	Finish(id string, r Result) error
	// Subscribe returns a channel of job events and a function that
	// unsubscribes and closes it. Events are dropped for a subscriber whose
	// buffer is full.
	Subscribe(buffer int) (<-chan Event, func())
}

type store struct {
	logger logger.Logger
	jobs   map[string]*Job
	seq    []string
	subs   map[int]chan Event
	nextID int
	mu     sync.RWMutex
}

// NewBatchID returns an identifier for a new batch
func NewBatchID() string {
	return shortuuid.New()
}

// NewStore creates a job store
func NewStore(log logger.Logger) Store {
	if log == nil {
		log = logger.Nop()
	}
	return &store{
		logger: log,
		jobs:   make(map[string]*Job),
		subs:   make(map[int]chan Event),
	}
}

func (s *store) Add(spec Spec) (Job, error) {
	if spec.Input == "" || spec.Output == "" {
		return Job{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Unix()
	job := &Job{
		ID:        shortuuid.New(),
		Batch:     spec.Batch,
		Index:     spec.Index,
		Count:     spec.Count,
		Input:     spec.Input,
		Output:    spec.Output,
		Profile:   spec.Profile,
		State:     StateQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[job.ID] = job
	s.seq = append(s.seq, job.ID)

	s.publish(EventAdded, job)
	return *job, nil
}

func (s *store) Get(id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return *j, nil
}

// List returns jobs in the order they were added.
func (s *store) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Job, 0, len(s.seq))
	for _, id := range s.seq {
		out = append(out, *s.jobs[id])
	}
	return out
}

func (s *store) Start(id string) error {
	return s.update(id, EventStarted, func(j *Job) {
		j.State = StateRunning
	})
}

func (s *store) Progress(id string, p Progress) error {
	return s.update(id, EventProgress, func(j *Job) {
		j.Progress = &p
	})
}

func (s *store) Usage(id string, u process.Usage) error {
	return s.update(id, EventUsage, func(j *Job) {
		j.Usage = u
	})
}

func (s *store) Finish(id string, r Result) error {
	return s.update(id, EventFinished, func(j *Job) {
		j.Result = &r
		if r.Succeeded {
			j.State = StateSucceeded
		} else {
			j.State = StateFailed
		}
		s.logger.Debug("job %s %s (%s)", j.ID, j.State, j.Input)
	})
}

func (s *store) update(id string, ev EventType, fn func(j *Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if j.State.Done() {
		return ErrFinished
	}
	fn(j)
	j.UpdatedAt = time.Now().Unix()

	s.publish(ev, j)
	return nil
}

func (s *store) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// publish must be called with the lock held.
func (s *store) publish(t EventType, j *Job) {
	ev := Event{Type: t, Job: *j}
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
