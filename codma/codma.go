// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package codma is the startup and reset testbench for the codma DMA
// controller.
//
// It declares the controller's inputs, drives them to a quiescent state,
// sequences the active-low reset and provides a set of smoke tests that can
// be run by name.
//
package codma

import (
	"context"

	"github.com/db47h/hwtb"
	"github.com/db47h/hwtb/tblib"
)

// Signal names.
//
const (
	Clk           = "clk_i"
	ResetN        = "reset_n_i"
	Start         = "start"
	Stop          = "stop"
	StatusPointer = "status_pointer"
	TaskPointer   = "task_pointer"
	Grant         = "grant"
	ReadData      = "read_data"
	ReadValid     = "read_valid"
	Error         = "error"
)

// Ports lists the codma inputs driven by the testbench.
//
const Ports = Clk + ", " + ResetN + ", " +
	// CPU interface
	Start + ", " + Stop + ", " + StatusPointer + "[32], " + TaskPointer + "[32], " +
	// memory interface
	Grant + ", " + ReadData + "[32], " + ReadValid + ", " + Error

// Defaults are the startup values of all inputs: clock low, reset released
// and every CPU and memory interface input at zero.
//
var Defaults = tblib.Values{
	Clk:           0,
	ResetN:        1,
	Start:         0,
	Stop:          0,
	StatusPointer: 0,
	TaskPointer:   0,
	Grant:         0,
	ReadData:      0,
	ReadValid:     0,
	Error:         0,
}

// Settle is the time StartupValues waits after writing the startup values.
//
const Settle = 1 * hwtb.NS

// DefaultResetHold is the default reset pulse duration for SendTimedReset.
//
const DefaultResetHold = 5 * hwtb.NS

// NewDUT declares a codma instance in s.
//
func NewDUT(s *hwtb.Sim) (*hwtb.DUT, error) {
	return s.NewDUT("codma", Ports)
}

// StartupValues drives all inputs of dut to their default value and waits
// for them to settle.
//
func StartupValues(ctx context.Context, dut *hwtb.DUT) error {
	return tblib.Initialize(ctx, dut, Defaults, Settle)
}

// SendTimedReset asserts the active-low reset of dut for hold, then
// releases it. A zero hold means DefaultResetHold.
//
func SendTimedReset(ctx context.Context, dut *hwtb.DUT, hold hwtb.Time) error {
	if hold == 0 {
		hold = DefaultResetHold
	}
	return tblib.ResetPulse(ctx, dut.Signal(ResetN), hold)
}
