// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtb

import (
	"context"

	"github.com/pkg/errors"
)

// Clock drives a free running clock on a 1 bit signal.
//
// Each period starts with the signal high for High, then low for the
// remainder of the period.
//
type Clock struct {
	Signal *Signal
	Period Time
	// High is the time spent high in each period. If zero, the clock has a 50%
	// duty cycle and Period must be even.
	High Time
}

func (c *Clock) check() (high, low Time, err error) {
	switch {
	case c.Signal == nil:
		return 0, 0, errors.New("clock: nil signal")
	case c.Signal.width != 1:
		return 0, 0, errors.Errorf("clock: %d-bit signal %s", c.Signal.width, c.Signal.name)
	case c.Period < 2:
		return 0, 0, errors.Errorf("clock: period %v too short", c.Period)
	}
	high = c.High
	if high == 0 {
		if c.Period%2 != 0 {
			return 0, 0, errors.Errorf("clock: odd period %v with 50%% duty cycle", c.Period)
		}
		high = c.Period / 2
	}
	if high >= c.Period {
		return 0, 0, errors.Errorf("clock: high time %v not shorter than period %v", high, c.Period)
	}
	return high, c.Period - high, nil
}

// Start starts the clock as a child task of the calling task. The clock runs
// until that task returns or the returned task is killed.
//
func (c *Clock) Start(ctx context.Context) (*Task, error) {
	high, low, err := c.check()
	if err != nil {
		return nil, err
	}
	sig := c.Signal
	return Start(ctx, "clock "+sig.name, func(ctx context.Context) error {
		for {
			sig.Set(1)
			if err := Sleep(ctx, high); err != nil {
				return err
			}
			sig.Set(0)
			if err := Sleep(ctx, low); err != nil {
				return err
			}
		}
	})
}
