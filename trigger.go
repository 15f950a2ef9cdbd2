// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtb

import (
	"github.com/pkg/errors"
)

// A Trigger is an event a task can wait for. See Wait.
//
type Trigger interface {
	arm(t *Task) error
	String() string
}

type timerTrigger Time

// Timer returns a trigger that fires after d. A zero duration fires in the
// next delta cycle.
//
func Timer(d Time) Trigger { return timerTrigger(d) }

func (d timerTrigger) arm(t *Task) error {
	if d == 0 {
		t.sim.schedule(t)
		return nil
	}
	at := t.sim.now + Time(d)
	if at < t.sim.now {
		return errors.Errorf("timer %v overflows simulation time", Time(d))
	}
	t.sim.addTimer(at, t)
	return nil
}

func (d timerTrigger) String() string { return "Timer(" + Time(d).String() + ")" }

type edgeTrigger struct {
	s    *Signal
	kind edgeKind
}

// RisingEdge returns a trigger that fires when s goes from 0 to 1.
// s must be a 1 bit signal.
//
func RisingEdge(s *Signal) Trigger { return edgeTrigger{s, risingEdge} }

// FallingEdge returns a trigger that fires when s goes from 1 to 0.
// s must be a 1 bit signal.
//
func FallingEdge(s *Signal) Trigger { return edgeTrigger{s, fallingEdge} }

// Edge returns a trigger that fires on any value change of s.
//
func Edge(s *Signal) Trigger { return edgeTrigger{s, anyEdge} }

func (e edgeTrigger) arm(t *Task) error {
	if e.s == nil {
		return errors.New(e.kind.String() + " on nil signal")
	}
	if e.kind != anyEdge && e.s.width != 1 {
		return errors.Errorf("%v on %d-bit signal %s", e.kind, e.s.width, e.s.name)
	}
	if e.s.sim != t.sim {
		return errors.Errorf("signal %s belongs to another simulation", e.s.name)
	}
	e.s.waiters = append(e.s.waiters, edgeWaiter{t, e.kind})
	return nil
}

func (e edgeTrigger) String() string {
	if e.s == nil {
		return e.kind.String() + "(<nil>)"
	}
	return e.kind.String() + "(" + e.s.name + ")"
}

type joinTrigger struct {
	task *Task
}

// Join returns a trigger that fires when task returns or is killed.
//
func Join(task *Task) Trigger { return joinTrigger{task} }

func (j joinTrigger) arm(t *Task) error {
	switch {
	case j.task == nil:
		return errors.New("join on nil task")
	case j.task == t:
		return errors.Errorf("task %s joining itself", t.name)
	case j.task.state == stateDone:
		t.sim.schedule(t)
	default:
		j.task.joiners = append(j.task.joiners, t)
	}
	return nil
}

func (j joinTrigger) String() string {
	if j.task == nil {
		return "Join(<nil>)"
	}
	return "Join(" + j.task.name + ")"
}
