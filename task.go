// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtb

import (
	"context"
	"fmt"
	"runtime"

	"github.com/pkg/errors"
)

// A TaskFunc is the body of a simulation task. The context carries the task
// handle and must be passed to Wait, Sleep and Start.
//
type TaskFunc func(ctx context.Context) error

type taskState int

const (
	stateReady taskState = iota
	stateRunning
	stateWaiting
	stateDone
)

type taskKey struct{}

// A Task is a cooperative thread of a simulation.
//
// Each task runs on its own goroutine, but the simulation hands control to
// only one of them at a time.
//
// A task owns the tasks it starts: when it returns or is killed, its children
// that are still alive are killed as well.
//
type Task struct {
	sim      *Sim
	name     string
	parent   *Task
	children []*Task
	joiners  []*Task
	state    taskState
	gen      uint64
	killed   bool
	err      error
	resume   chan bool
	ack      chan struct{}
}

func (s *Sim) spawn(ctx context.Context, parent *Task, name string, fn TaskFunc) *Task {
	t := &Task{
		sim:    s,
		name:   name,
		parent: parent,
		resume: make(chan bool),
		ack:    make(chan struct{}),
	}
	if parent != nil {
		parent.children = append(parent.children, t)
	}
	s.tasks = append(s.tasks, t)
	go t.run(context.WithValue(ctx, taskKey{}, t), fn)
	s.schedule(t)
	s.debug("task created", "task", name)
	return t
}

func (t *Task) run(ctx context.Context, fn TaskFunc) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = errors.New(fmt.Sprint(r))
			}
			t.err = errors.WithMessage(err, "panic")
		}
		t.state = stateDone
		t.ack <- struct{}{}
	}()
	if !<-t.resume {
		return
	}
	t.err = fn(ctx)
}

// resume hands control to t until it waits or returns.
//
func (s *Sim) resume(t *Task) {
	prev := s.cur
	s.cur = t
	t.state = stateRunning
	t.resume <- true
	<-t.ack
	s.cur = prev
	if t.state == stateDone {
		s.finish(t)
	}
}

// kill terminates t. If t is the running task, it is only marked as killed
// and must exit by itself.
//
func (s *Sim) kill(t *Task) {
	if t.state == stateDone || t.killed {
		return
	}
	t.killed = true
	if t == s.cur {
		return
	}
	t.resume <- false
	<-t.ack
	s.finish(t)
}

func (s *Sim) finish(t *Task) {
	for i, x := range s.tasks {
		if x == t {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	if p := t.parent; p != nil {
		for i, c := range p.children {
			if c == t {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	for len(t.children) > 0 {
		c := t.children[0]
		t.children = t.children[1:]
		c.parent = nil
		s.kill(c)
	}
	for _, j := range t.joiners {
		if j.state == stateWaiting {
			s.schedule(j)
		}
	}
	t.joiners = nil

	switch {
	case t.killed:
		s.debug("task killed", "task", t.name)
	case t.err != nil:
		s.debug("task failed", "task", t.name, "err", t.err)
		if s.err == nil && t != s.root {
			s.err = errors.WithMessage(t.err, "task "+t.name)
		}
	default:
		s.debug("task done", "task", t.name)
	}
}

// Name returns the task name.
//
func (t *Task) Name() string { return t.name }

// Done returns true if t has returned or has been killed.
//
func (t *Task) Done() bool { return t.state == stateDone }

// Err returns the error returned by the task function. It returns nil if the
// task is still running or has been killed.
//
func (t *Task) Err() error { return t.err }

// Kill kills t and all its children. A killed task never resumes: its
// goroutine exits through its deferred calls.
//
// If t is the calling task, Kill does not return.
//
func (t *Task) Kill() {
	s := t.sim
	cur := s.cur
	s.kill(t)
	if cur != nil && cur.killed {
		runtime.Goexit()
	}
}

func (t *Task) String() string { return t.name }

func current(ctx context.Context) *Task {
	t, _ := ctx.Value(taskKey{}).(*Task)
	return t
}

// Start starts fn as a child of the calling task. The new task begins running
// in the next delta cycle.
//
func Start(ctx context.Context, name string, fn TaskFunc) (*Task, error) {
	t := current(ctx)
	if t == nil {
		return nil, ErrNotInTask
	}
	return t.sim.spawn(ctx, t, name, fn), nil
}

// Wait suspends the calling task until tr fires.
//
// If the task is killed while waiting, Wait does not return. Wait returns
// ErrKilled when called from the deferred functions of a killed task.
//
func Wait(ctx context.Context, tr Trigger) error {
	t := current(ctx)
	if t == nil {
		return ErrNotInTask
	}
	if t.killed {
		return ErrKilled
	}
	if t.sim.cur != t {
		return errors.Errorf("task %s: Wait called while not running", t.name)
	}
	// arm may reschedule t right away.
	t.state = stateWaiting
	if err := tr.arm(t); err != nil {
		t.state = stateRunning
		return errors.Wrapf(err, "task %s", t.name)
	}
	t.ack <- struct{}{}
	if !<-t.resume {
		runtime.Goexit()
	}
	return nil
}

// Sleep suspends the calling task for d.
//
func Sleep(ctx context.Context, d Time) error {
	return Wait(ctx, Timer(d))
}

// Now returns the simulation time of the calling task, or 0 if ctx is not a
// task context.
//
func Now(ctx context.Context) Time {
	if t := current(ctx); t != nil {
		return t.sim.now
	}
	return 0
}
