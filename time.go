// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtb

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Time is a simulation time or duration, in picoseconds.
//
type Time uint64

// Time units.
//
const (
	PS Time = 1
	NS      = 1000 * PS
	US      = 1000 * NS
	MS      = 1000 * US
)

var units = []struct {
	name string
	t    Time
}{
	{"ms", MS},
	{"us", US},
	{"ns", NS},
	{"ps", PS},
}

// String returns t formatted in the largest unit that represents it exactly,
// like "10ns" or "1500ps".
//
func (t Time) String() string {
	if t == 0 {
		return "0ns"
	}
	for _, u := range units {
		if t%u.t == 0 {
			return strconv.FormatUint(uint64(t/u.t), 10) + u.name
		}
	}
	panic("unreachable")
}

// ParseTime parses a time value like "10ns", "2us" or "500ps". A bare number
// is taken as nanoseconds.
//
func ParseTime(s string) (Time, error) {
	s = strings.TrimSpace(s)
	unit := NS
	for _, u := range units {
		if strings.HasSuffix(s, u.name) {
			s, unit = strings.TrimSpace(s[:len(s)-len(u.name)]), u.t
			break
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "invalid time value")
	}
	if n > uint64(^Time(0)/unit) {
		return 0, errors.Errorf("time value %d%s out of range", n, unitName(unit))
	}
	return Time(n) * unit, nil
}

func unitName(t Time) string {
	for _, u := range units {
		if u.t == t {
			return u.name
		}
	}
	return "?"
}
