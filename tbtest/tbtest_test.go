package tbtest_test

import (
	"context"
	"testing"

	"github.com/db47h/hwtb"
	"github.com/db47h/hwtb/tbtest"
	"github.com/google/go-cmp/cmp"
)

func TestRecorder(t *testing.T) {
	b := tbtest.NewBench(t, "dut", "clk, data[4]")
	clk, data := b.DUT.Signal("clk"), b.DUT.Signal("data")

	b.Run(t, func(ctx context.Context, dut *hwtb.DUT) error {
		clk.Set(0)
		for i := uint64(1); i <= 3; i++ {
			if err := hwtb.Sleep(ctx, 5*hwtb.NS); err != nil {
				return err
			}
			clk.Set(i & 1)
			data.Set(i)
			data.Set(i + 1)
		}
		return nil
	})

	exp := []tbtest.Change{{0, 0}, {5 * hwtb.NS, 1}, {10 * hwtb.NS, 0}, {15 * hwtb.NS, 1}}
	if diff := cmp.Diff(exp, b.Changes("clk")); diff != "" {
		t.Errorf("clk mismatch (-want +got):\n%s", diff)
	}
	if r, f := b.Rec.Edges(clk); r != 2 || f != 2 {
		t.Errorf("got %d rising and %d falling edges, expected 2 and 2", r, f)
	}
	if n := len(b.Changes("data")); n != 4 {
		t.Errorf("got %d data changes, expected 4", n)
	}

	td := []struct {
		at  hwtb.Time
		v   uint64
		res bool
	}{
		{0, 0, false},
		{4 * hwtb.NS, 0, false},
		{5 * hwtb.NS, 2, true},
		{9 * hwtb.NS, 2, true},
		{10 * hwtb.NS, 3, true},
		{hwtb.MS, 4, true},
	}
	for _, d := range td {
		v, ok := b.Rec.ValueAt(data, d.at)
		if v != d.v || ok != d.res {
			t.Errorf("data at %v = %d, %v; expected %d, %v", d.at, v, ok, d.v, d.res)
		}
	}
}

func TestCheckClock(t *testing.T) {
	good := []tbtest.Change{{0, 0}, {1, 1}, {6, 0}, {11, 1}, {16, 0}, {21, 1}}
	checkClockFails(t, good, 10, false)
	checkClockFails(t, []tbtest.Change{{1, 1}, {6, 0}, {12, 1}}, 10, true)
	checkClockFails(t, []tbtest.Change{{1, 1}, {6, 1}}, 10, true)
}

func checkClockFails(t *testing.T, cs []tbtest.Change, period hwtb.Time, fail bool) {
	t.Helper()
	var rt recordingT
	tbtest.CheckClock(&rt, cs, period)
	if rt.failed != fail {
		t.Errorf("CheckClock(%v) failed = %v, expected %v", cs, rt.failed, fail)
	}
}

type recordingT struct {
	testing.TB
	failed bool
}

func (r *recordingT) Helper()                                   {}
func (r *recordingT) Errorf(format string, args ...interface{}) { r.failed = true }
