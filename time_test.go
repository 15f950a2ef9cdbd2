package hwtb_test

import (
	"testing"
	"testing/quick"

	tb "github.com/db47h/hwtb"
)

func TestTime_String(t *testing.T) {
	td := []struct {
		t   tb.Time
		exp string
	}{
		{0, "0ns"},
		{1, "1ps"},
		{1500 * tb.PS, "1500ps"},
		{10 * tb.NS, "10ns"},
		{1001 * tb.NS, "1001ns"},
		{2 * tb.US, "2us"},
		{3 * tb.MS, "3ms"},
	}
	for _, d := range td {
		if s := d.t.String(); s != d.exp {
			t.Errorf("Time(%d).String() = %q, expected %q", uint64(d.t), s, d.exp)
		}
	}
}

func TestParseTime(t *testing.T) {
	td := []struct {
		in  string
		exp tb.Time
		err bool
	}{
		{"10ns", 10 * tb.NS, false},
		{"10", 10 * tb.NS, false},
		{" 2 us ", 2 * tb.US, false},
		{"500ps", 500, false},
		{"1ms", tb.MS, false},
		{"", 0, true},
		{"ns", 0, true},
		{"-1ns", 0, true},
		{"1.5ns", 0, true},
		{"18446744073709551615ms", 0, true},
	}
	for _, d := range td {
		got, err := tb.ParseTime(d.in)
		if d.err {
			if err == nil {
				t.Errorf("ParseTime(%q): expected error, got %v", d.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTime(%q): %v", d.in, err)
			continue
		}
		if got != d.exp {
			t.Errorf("ParseTime(%q) = %v, expected %v", d.in, got, d.exp)
		}
	}

	f := func(v tb.Time) bool {
		p, err := tb.ParseTime(v.String())
		return err == nil && p == v
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}
