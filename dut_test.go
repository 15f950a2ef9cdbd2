package hwtb_test

import (
	"strings"
	"testing"

	tb "github.com/db47h/hwtb"
)

func newDUT(t *testing.T, ports string, opts ...tb.Option) (*tb.Sim, *tb.DUT) {
	t.Helper()
	s := tb.New(opts...)
	d, err := s.NewDUT("dut", ports)
	if err != nil {
		t.Fatal(err)
	}
	return s, d
}

func TestNewDUT(t *testing.T) {
	s, d := newDUT(t, "clk, rst_n, data[32]")
	if d.Sim() != s {
		t.Fatal("wrong simulation")
	}
	sigs := d.Signals()
	if len(sigs) != 3 {
		t.Fatalf("got %d signals, expected 3", len(sigs))
	}
	for i, exp := range []struct {
		name  string
		width int
	}{{"clk", 1}, {"rst_n", 1}, {"data", 32}} {
		if sigs[i].Name() != exp.name || sigs[i].Width() != exp.width {
			t.Errorf("signal %d: got %s[%d], expected %s[%d]", i, sigs[i].Name(), sigs[i].Width(), exp.name, exp.width)
		}
		if sigs[i].Resolved() {
			t.Errorf("signal %s resolved before any write", sigs[i].Name())
		}
	}
	if d.Signal("data") != sigs[2] {
		t.Error("Signal(data) returned the wrong signal")
	}

	for _, ports := range []string{"", "a, a", "a[0]", "a b"} {
		if _, err := s.NewDUT("bad", ports); err == nil {
			t.Errorf("NewDUT(%q): expected error", ports)
		}
	}
}

func TestDUT_unknownSignal(t *testing.T) {
	_, d := newDUT(t, "clk")
	if _, err := d.Lookup("nope"); err == nil || err.Error() != "dut: signal nope does not exist" {
		t.Fatalf("unexpected error %v", err)
	}
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !strings.Contains(err.Error(), "nope") {
			t.Fatalf("expected panic with missing signal error, got %v", r)
		}
	}()
	d.Signal("nope")
}
