// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtb

import (
	"github.com/db47h/hwtb/internal/portspec"
	"github.com/pkg/errors"
)

// A DUT is a handle to a device under test: a named set of signals.
//
// The testbench does not own the device behaviour, it only drives and samples
// its signals by name.
//
type DUT struct {
	sim  *Sim
	name string
	sigs []*Signal
	m    map[string]*Signal
}

// NewDUT declares a device under test with the given ports.
//
// The port list is a comma separated list of signal names, each optionally
// followed by its width in brackets:
//
//	dut, err := sim.NewDUT("codma", "clk_i, reset_n_i, read_data[32]")
//
func (s *Sim) NewDUT(name string, ports string) (*DUT, error) {
	ps, err := portspec.Parse(ports, MaxWidth)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	if len(ps) == 0 {
		return nil, errors.New(name + ": empty port list")
	}
	d := &DUT{sim: s, name: name, m: make(map[string]*Signal, len(ps))}
	for _, p := range ps {
		sig := newSignal(s, p.Name, p.Width)
		d.sigs = append(d.sigs, sig)
		d.m[p.Name] = sig
	}
	return d, nil
}

// Name returns the DUT name.
//
func (d *DUT) Name() string { return d.name }

// Sim returns the simulation d belongs to.
//
func (d *DUT) Sim() *Sim { return d.sim }

// Signal returns the named signal.
// This function panics if the signal does not exist.
//
func (d *DUT) Signal(name string) *Signal {
	s, err := d.Lookup(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup returns the named signal or an error if it does not exist.
//
func (d *DUT) Lookup(name string) (*Signal, error) {
	s, ok := d.m[name]
	if !ok {
		return nil, errors.Errorf("%s: signal %s does not exist", d.name, name)
	}
	return s, nil
}

// Signals returns the DUT signals in declaration order.
//
func (d *DUT) Signals() []*Signal {
	return append([]*Signal(nil), d.sigs...)
}
