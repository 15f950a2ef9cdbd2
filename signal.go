// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtb

import (
	"github.com/pkg/errors"
)

// MaxWidth is the widest supported signal, in bits.
//
const MaxWidth = 64

// A Probe is called each time the value of a watched signal changes.
//
type Probe func(at Time, s *Signal)

type edgeKind int

const (
	anyEdge edgeKind = iota
	risingEdge
	fallingEdge
)

func (k edgeKind) String() string {
	switch k {
	case risingEdge:
		return "RisingEdge"
	case fallingEdge:
		return "FallingEdge"
	}
	return "Edge"
}

type edgeWaiter struct {
	t    *Task
	kind edgeKind
}

// Signal is a named bit vector of a device under test.
//
// A signal starts unresolved (the equivalent of an undriven X) and holds
// the last value written to it. Writes take effect immediately; tasks waiting
// for an edge of the signal resume in the next delta cycle.
//
type Signal struct {
	sim      *Sim
	name     string
	width    int
	mask     uint64
	val      uint64
	resolved bool
	waiters  []edgeWaiter
	probes   []Probe
}

func newSignal(sim *Sim, name string, width int) *Signal {
	mask := ^uint64(0)
	if width < MaxWidth {
		mask = 1<<uint(width) - 1
	}
	return &Signal{sim: sim, name: name, width: width, mask: mask}
}

// Name returns the signal name.
//
func (s *Signal) Name() string { return s.name }

// Width returns the signal width in bits.
//
func (s *Signal) Width() int { return s.width }

// Value returns the current value of s. Unresolved signals read as 0.
//
func (s *Signal) Value() uint64 { return s.val }

// Bool returns true if s is non-zero.
//
func (s *Signal) Bool() bool { return s.val != 0 }

// Resolved returns true once s has been written to.
//
func (s *Signal) Resolved() bool { return s.resolved }

// Set sets the value of s.
//
// Set panics if v does not fit in the signal width. When called from a task,
// the panic fails that task.
//
func (s *Signal) Set(v uint64) {
	if v&^s.mask != 0 {
		panic(errors.Errorf("value %#x does not fit in %d-bit signal %s", v, s.width, s.name))
	}
	if s.resolved && v == s.val {
		return
	}
	old, wasResolved := s.val, s.resolved
	s.val, s.resolved = v, true

	// an X to 0 or X to 1 transition counts as an edge.
	rise := v&1 != 0 && (old&1 == 0 || !wasResolved)
	fall := v&1 == 0 && (old&1 != 0 || !wasResolved)
	ws := s.waiters[:0]
	for _, w := range s.waiters {
		if w.t.state != stateWaiting {
			continue
		}
		if w.kind == anyEdge || w.kind == risingEdge && rise || w.kind == fallingEdge && fall {
			s.sim.schedule(w.t)
			continue
		}
		ws = append(ws, w)
	}
	s.waiters = ws

	for _, p := range s.probes {
		p(s.sim.now, s)
	}
}

// SetBool sets s to 1 if b is true, 0 otherwise.
//
func (s *Signal) SetBool(b bool) {
	if b {
		s.Set(1)
	} else {
		s.Set(0)
	}
}

// Watch registers p to be called on every value change of s.
//
func (s *Signal) Watch(p Probe) {
	s.probes = append(s.probes, p)
}

func (s *Signal) String() string {
	return s.name
}
