// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package tbtest provides utility functions for testing testbenches.
//
package tbtest

import (
	"context"
	"sort"
	"testing"

	"github.com/db47h/hwtb"
)

// Change is a value change of a signal.
//
type Change struct {
	At    hwtb.Time
	Value uint64
}

// Recorder records the value changes of a set of signals.
//
type Recorder struct {
	m map[*hwtb.Signal][]Change
}

// NewRecorder returns a Recorder watching sigs.
//
func NewRecorder(sigs ...*hwtb.Signal) *Recorder {
	r := &Recorder{m: make(map[*hwtb.Signal][]Change, len(sigs))}
	for _, s := range sigs {
		r.m[s] = nil
		s.Watch(r.record)
	}
	return r
}

func (r *Recorder) record(at hwtb.Time, s *hwtb.Signal) {
	r.m[s] = append(r.m[s], Change{at, s.Value()})
}

// Changes returns the recorded changes of s.
//
func (r *Recorder) Changes(s *hwtb.Signal) []Change {
	return r.m[s]
}

// ValueAt returns the value of s at time at, once all changes scheduled at
// that time have been applied. It returns false if s was not resolved yet.
//
func (r *Recorder) ValueAt(s *hwtb.Signal, at hwtb.Time) (uint64, bool) {
	cs := r.m[s]
	i := sort.Search(len(cs), func(i int) bool { return cs[i].At > at })
	if i == 0 {
		return 0, false
	}
	return cs[i-1].Value, true
}

// Edges counts the rising and falling edges of a 1 bit signal s. The first
// change of s counts as an edge if it resolves s to 1 or 0.
//
func (r *Recorder) Edges(s *hwtb.Signal) (rising, falling int) {
	for _, c := range r.m[s] {
		if c.Value&1 != 0 {
			rising++
		} else {
			falling++
		}
	}
	return rising, falling
}

// CheckClock checks that the changes cs describe a clock of the given period:
// values alternate between 1 and 0 and consecutive rising edges are exactly
// one period apart.
//
func CheckClock(t testing.TB, cs []Change, period hwtb.Time) {
	t.Helper()
	var lastRise hwtb.Time
	seenRise := false
	for i, c := range cs {
		if i > 0 && c.Value == cs[i-1].Value {
			t.Errorf("clock: value %d repeated at %v", c.Value, c.At)
		}
		if c.Value != 1 {
			continue
		}
		if seenRise && c.At-lastRise != period {
			t.Errorf("clock: rising edge at %v, %v after the previous one, expected %v", c.At, c.At-lastRise, period)
		}
		lastRise, seenRise = c.At, true
	}
}

// Bench bundles a simulation, a DUT and a Recorder watching all DUT signals.
//
type Bench struct {
	Sim *hwtb.Sim
	DUT *hwtb.DUT
	Rec *Recorder
}

// NewBench creates a new simulation with a DUT declared with the given name
// and ports.
//
func NewBench(t testing.TB, name, ports string, opts ...hwtb.Option) *Bench {
	t.Helper()
	s := hwtb.New(opts...)
	d, err := s.NewDUT(name, ports)
	if err != nil {
		t.Fatal(err)
	}
	return &Bench{Sim: s, DUT: d, Rec: NewRecorder(d.Signals()...)}
}

// Run runs fn as the main task of the bench simulation and fails the test
// if it returns an error.
//
func (b *Bench) Run(t testing.TB, fn func(ctx context.Context, dut *hwtb.DUT) error) {
	t.Helper()
	err := b.Sim.Run(context.Background(), t.Name(), func(ctx context.Context) error {
		return fn(ctx, b.DUT)
	})
	if err != nil {
		t.Fatalf("%+v", err)
	}
}

// Changes returns the recorded changes of the named DUT signal.
//
func (b *Bench) Changes(name string) []Change {
	return b.Rec.Changes(b.DUT.Signal(name))
}
