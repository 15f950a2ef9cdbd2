// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package codma

import (
	"context"
	"sort"

	"github.com/db47h/hwtb"
	"github.com/db47h/hwtb/tblib"
	"github.com/pkg/errors"
)

// Config holds the parameters of the smoke tests.
//
type Config struct {
	ClockPeriod hwtb.Time // free running clock period
	ResetHold   hwtb.Time // reset pulse duration
	Cycles      int       // clock cycles before reset or manually toggled
}

// DefaultConfig is the configuration the smoke tests were written for.
//
var DefaultConfig = Config{
	ClockPeriod: 10 * hwtb.NS,
	ResetHold:   10 * hwtb.NS,
	Cycles:      5,
}

// A TestFunc is the body of a test. It runs as the main simulation task.
//
type TestFunc func(ctx context.Context, dut *hwtb.DUT, cfg Config) error

// Test is a named test.
//
type Test struct {
	Name string
	Doc  string
	Fn   TestFunc
}

var tests = make(map[string]*Test)

// Register registers a test. It panics if a test with the same name is
// already registered.
//
func Register(name, doc string, fn TestFunc) {
	if _, ok := tests[name]; ok {
		panic("test " + name + " already registered")
	}
	tests[name] = &Test{Name: name, Doc: doc, Fn: fn}
}

// Tests returns all registered tests sorted by name.
//
func Tests() []*Test {
	ts := make([]*Test, 0, len(tests))
	for _, t := range tests {
		ts = append(ts, t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].Name < ts[j].Name })
	return ts
}

// Lookup returns the named test.
//
func Lookup(name string) (*Test, error) {
	t, ok := tests[name]
	if !ok {
		return nil, errors.Errorf("no test named %q", name)
	}
	return t, nil
}

// Run runs t against dut in its simulation.
//
func (t *Test) Run(ctx context.Context, dut *hwtb.DUT, cfg Config) error {
	return dut.Sim().Run(ctx, t.Name, func(ctx context.Context) error {
		return t.Fn(ctx, dut, cfg)
	})
}

func init() {
	Register("my_first_test", "run the clock and send a reset pulse", MyFirstTest)
	Register("reset_after_cycles", "send a reset pulse after a few clock cycles", ResetAfterCycles)
	Register("manual_clock", "toggle the clock by hand after startup", ManualClock)
}

func startClock(ctx context.Context, dut *hwtb.DUT, period hwtb.Time) error {
	clk := &hwtb.Clock{Signal: dut.Signal(Clk), Period: period}
	_, err := clk.Start(ctx)
	return err
}

// MyFirstTest initializes the inputs, starts the clock and sends a reset
// pulse.
//
func MyFirstTest(ctx context.Context, dut *hwtb.DUT, cfg Config) error {
	if err := StartupValues(ctx, dut); err != nil {
		return err
	}
	if err := startClock(ctx, dut, cfg.ClockPeriod); err != nil {
		return err
	}
	return SendTimedReset(ctx, dut, cfg.ResetHold)
}

// ResetAfterCycles is MyFirstTest with cfg.Cycles rising clock edges between
// clock start and reset.
//
func ResetAfterCycles(ctx context.Context, dut *hwtb.DUT, cfg Config) error {
	if err := StartupValues(ctx, dut); err != nil {
		return err
	}
	if err := startClock(ctx, dut, cfg.ClockPeriod); err != nil {
		return err
	}
	if err := tblib.ClockCycles(ctx, dut.Signal(Clk), cfg.Cycles, true); err != nil {
		return err
	}
	return SendTimedReset(ctx, dut, cfg.ResetHold)
}

// ManualClock initializes the inputs, then toggles the clock for cfg.Cycles
// periods without a clock generator.
//
func ManualClock(ctx context.Context, dut *hwtb.DUT, cfg Config) error {
	if err := StartupValues(ctx, dut); err != nil {
		return err
	}
	half := cfg.ClockPeriod / 2
	return tblib.ToggleClock(ctx, dut.Signal(Clk), cfg.Cycles, half, cfg.ClockPeriod-half)
}
