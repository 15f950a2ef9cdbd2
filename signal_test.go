package hwtb_test

import (
	"testing"

	tb "github.com/db47h/hwtb"
)

func TestSignal_Set(t *testing.T) {
	_, d := newDUT(t, "bit, bus[8], wide[64]")
	bit, bus, wide := d.Signal("bit"), d.Signal("bus"), d.Signal("wide")

	var changes int
	bus.Watch(func(at tb.Time, s *tb.Signal) { changes++ })

	bus.Set(0)
	if !bus.Resolved() || bus.Value() != 0 {
		t.Fatal("bus not resolved to 0")
	}
	bus.Set(0)
	bus.Set(0xff)
	if changes != 2 {
		t.Errorf("got %d changes, expected 2", changes)
	}
	wide.Set(^uint64(0))
	if wide.Value() != ^uint64(0) {
		t.Errorf("wide = %#x", wide.Value())
	}
	bit.SetBool(true)
	if !bit.Bool() || bit.Value() != 1 {
		t.Error("bit not set")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on overflow")
		}
		if bus.Value() != 0xff {
			t.Errorf("bus changed to %#x on failed write", bus.Value())
		}
	}()
	bus.Set(0x100)
}
