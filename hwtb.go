// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtb

import (
	"container/heap"
	"context"
	"io"
	"log/slog"

	"github.com/pkg/errors"
)

// Errors returned by Run and Wait.
//
var (
	ErrStalled   = errors.New("simulation stalled: no pending events")
	ErrTimeLimit = errors.New("simulation time limit exceeded")
	ErrNotInTask = errors.New("not called from a simulation task")
	ErrKilled    = errors.New("task killed")
)

// An Option configures a Sim.
//
type Option func(*Sim)

// WithLogger sets the logger used to report task activity. The default
// logger discards everything.
//
func WithLogger(l *slog.Logger) Option {
	return func(s *Sim) { s.log = l }
}

// WithTimeLimit makes Run fail with ErrTimeLimit if the simulation time would
// go past limit. A zero limit means no limit.
//
func WithTimeLimit(limit Time) Option {
	return func(s *Sim) { s.limit = limit }
}

// Sim is a discrete event simulation of a testbench.
//
// Tasks run one at a time: a task keeps control until it waits on a Trigger or
// returns. Within a time step, tasks made ready by the same event run in
// order during the next delta cycle. Once no more tasks are ready, the
// simulation time advances to the next pending timer.
//
type Sim struct {
	now    Time
	limit  Time
	seq    uint64
	timers timerQueue
	ready  []*Task
	tasks  []*Task // live tasks, in creation order
	cur    *Task   // running task
	root   *Task
	err    error
	log    *slog.Logger
}

// New returns a new simulation at time 0.
//
func New(opts ...Option) *Sim {
	s := &Sim{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Now returns the current simulation time.
//
func (s *Sim) Now() Time {
	return s.now
}

// Start creates a new top level task. It will start running once Run is
// called.
//
func (s *Sim) Start(name string, fn TaskFunc) *Task {
	return s.spawn(context.Background(), nil, name, fn)
}

// Run runs the simulation with fn as the main task and returns once that task
// returns.
//
// The main task's error is returned as is. If any other task fails, the
// simulation stops and that task's error is returned, annotated with the task
// name. Run also fails with ErrStalled when the main task waits for an event
// that can no longer happen, with ErrTimeLimit when the configured time limit
// is reached, or with ctx.Err() if ctx is cancelled.
//
// All tasks still running when Run returns are killed.
//
func (s *Sim) Run(ctx context.Context, name string, fn TaskFunc) error {
	if s.root != nil {
		return errors.New("simulation already run")
	}
	s.root = s.spawn(ctx, nil, name, fn)
	defer s.killAll()

	for {
		for len(s.ready) > 0 {
			if err := ctx.Err(); err != nil {
				return errors.Wrapf(err, "interrupted at %v", s.now)
			}
			batch := s.ready
			s.ready = nil
			for _, t := range batch {
				if t.state != stateReady {
					continue
				}
				s.resume(t)
				if s.err != nil || s.root.state == stateDone {
					return s.result()
				}
			}
		}
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "interrupted at %v", s.now)
		}
		if s.timers.Len() == 0 {
			return errors.Wrapf(ErrStalled, "%s waiting at %v", s.root.name, s.now)
		}
		at := s.timers[0].at
		if s.limit > 0 && at > s.limit {
			return errors.Wrapf(ErrTimeLimit, "next event at %v, limit %v", at, s.limit)
		}
		s.now = at
		for s.timers.Len() > 0 && s.timers[0].at == at {
			e := heap.Pop(&s.timers).(*timer)
			if e.t.state == stateWaiting && e.gen == e.t.gen {
				s.schedule(e.t)
			}
		}
	}
}

func (s *Sim) result() error {
	if s.err != nil {
		return s.err
	}
	if s.root.killed {
		return errors.Wrap(ErrKilled, s.root.name)
	}
	return s.root.err
}

func (s *Sim) schedule(t *Task) {
	t.state = stateReady
	t.gen++
	s.ready = append(s.ready, t)
}

func (s *Sim) addTimer(at Time, t *Task) {
	s.seq++
	heap.Push(&s.timers, &timer{at: at, seq: s.seq, t: t, gen: t.gen})
}

func (s *Sim) killAll() {
	for len(s.tasks) > 0 {
		s.kill(s.tasks[0])
	}
}

func (s *Sim) debug(msg string, args ...interface{}) {
	s.log.Debug(msg, append([]interface{}{"simtime", s.now}, args...)...)
}

type timer struct {
	at  Time
	seq uint64
	gen uint64
	t   *Task
}

type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }
func (q timerQueue) Less(i, j int) bool {
	return q[i].at < q[j].at || q[i].at == q[j].at && q[i].seq < q[j].seq
}
func (q timerQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *timerQueue) Push(x interface{}) { *q = append(*q, x.(*timer)) }
func (q *timerQueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}
