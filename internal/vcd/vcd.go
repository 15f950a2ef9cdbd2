// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package vcd writes signal changes in Value Change Dump format (IEEE 1364),
// readable by waveform viewers like GTKWave.
//
package vcd

import (
	"bufio"
	"io"
	"strconv"

	"github.com/db47h/hwtb"
	"github.com/pkg/errors"
)

// Writer dumps the changes of a set of signals.
//
type Writer struct {
	w    *bufio.Writer
	ids  map[*hwtb.Signal]string
	last hwtb.Time
	head bool // no timestamp written yet
	err  error
}

// identifier codes use the printable ASCII range '!' to '~'.
func idCode(n int) string {
	var b []byte
	for {
		b = append(b, byte('!'+n%94))
		n /= 94
		if n == 0 {
			return string(b)
		}
		n--
	}
}

// New writes the VCD header for sigs, grouped in a module named scope, and
// returns a Writer that records all subsequent value changes of sigs.
// Times are written in picoseconds.
//
func New(w io.Writer, date, scope string, sigs []*hwtb.Signal) (*Writer, error) {
	v := &Writer{w: bufio.NewWriter(w), ids: make(map[*hwtb.Signal]string, len(sigs)), head: true}
	if date != "" {
		v.printf("$date\n\t", date, "\n$end\n")
	}
	v.printf("$version\n\thwtb\n$end\n$timescale 1ps $end\n")
	v.printf("$scope module ", scope, " $end\n")
	for i, s := range sigs {
		id := idCode(i)
		v.ids[s] = id
		v.printf("$var wire ", strconv.Itoa(s.Width()), " ", id, " ", s.Name(), " $end\n")
	}
	v.printf("$upscope $end\n$enddefinitions $end\n$dumpvars\n")
	for _, s := range sigs {
		v.value(s, s.Resolved())
	}
	v.printf("$end\n")
	if v.err != nil {
		return nil, errors.Wrap(v.err, "vcd header")
	}
	for _, s := range sigs {
		s.Watch(v.change)
	}
	return v, nil
}

func (v *Writer) printf(strs ...string) {
	for _, s := range strs {
		if v.err != nil {
			return
		}
		_, v.err = v.w.WriteString(s)
	}
}

func (v *Writer) value(s *hwtb.Signal, resolved bool) {
	id := v.ids[s]
	if s.Width() == 1 {
		switch {
		case !resolved:
			v.printf("x", id, "\n")
		case s.Bool():
			v.printf("1", id, "\n")
		default:
			v.printf("0", id, "\n")
		}
		return
	}
	if !resolved {
		v.printf("bx ", id, "\n")
		return
	}
	v.printf("b", strconv.FormatUint(s.Value(), 2), " ", id, "\n")
}

func (v *Writer) change(at hwtb.Time, s *hwtb.Signal) {
	if v.head || at != v.last {
		v.printf("#", strconv.FormatUint(uint64(at), 10), "\n")
		v.last, v.head = at, false
	}
	v.value(s, true)
}

// Close writes the final timestamp and flushes the output. It returns the
// first error encountered while writing.
//
func (v *Writer) Close(end hwtb.Time) error {
	if v.head || end > v.last {
		v.printf("#", strconv.FormatUint(uint64(end), 10), "\n")
	}
	if v.err == nil {
		v.err = v.w.Flush()
	}
	return errors.Wrap(v.err, "vcd")
}
