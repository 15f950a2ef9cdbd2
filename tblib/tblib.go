// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package tblib provides reusable testbench routines for hwtb: signal
// initialization, reset sequencing and clock drivers.
//
// All routines must be called from a simulation task.
//
package tblib

import (
	"context"
	"sort"

	"github.com/db47h/hwtb"
	"github.com/pkg/errors"
)

// Values maps signal names to values.
//
type Values map[string]uint64

// Initialize writes values to the corresponding DUT signals, then waits
// for settle so that the new values are visible to every other task before
// the caller proceeds.
//
// Signals are written in name order. Unknown signal names and values that do
// not fit their signal are fatal: Initialize panics and the calling task
// fails.
//
func Initialize(ctx context.Context, dut *hwtb.DUT, values Values, settle hwtb.Time) error {
	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		dut.Signal(n).Set(values[n])
	}
	return hwtb.Sleep(ctx, settle)
}

// ResetPulse drives the active-low reset signal rst low for hold, then
// releases it.
//
//	rst: 0 for [t, t+hold), 1 from t+hold
//
func ResetPulse(ctx context.Context, rst *hwtb.Signal, hold hwtb.Time) error {
	rst.Set(0)
	if err := hwtb.Sleep(ctx, hold); err != nil {
		return errors.Wrap(err, "reset")
	}
	rst.Set(1)
	return nil
}

// ToggleClock drives cycles full clock periods on clk, each one high for
// high then low for low, and returns at the end of the last period.
//
// If clk is low on entry, it transitions exactly 2*cycles times.
//
func ToggleClock(ctx context.Context, clk *hwtb.Signal, cycles int, high, low hwtb.Time) error {
	if cycles < 0 {
		return errors.Errorf("negative cycle count %d", cycles)
	}
	if high == 0 || low == 0 {
		return errors.Errorf("invalid clock phases %v/%v", high, low)
	}
	for i := 0; i < cycles; i++ {
		clk.Set(1)
		if err := hwtb.Sleep(ctx, high); err != nil {
			return err
		}
		clk.Set(0)
		if err := hwtb.Sleep(ctx, low); err != nil {
			return err
		}
	}
	return nil
}

// ClockCycles waits for n rising edges of clk, or n falling edges if rising
// is false.
//
func ClockCycles(ctx context.Context, clk *hwtb.Signal, n int, rising bool) error {
	tr := hwtb.RisingEdge(clk)
	if !rising {
		tr = hwtb.FallingEdge(clk)
	}
	for i := 0; i < n; i++ {
		if err := hwtb.Wait(ctx, tr); err != nil {
			return err
		}
	}
	return nil
}
