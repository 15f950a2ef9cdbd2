// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package portspec parses port declarations of the form
//
//	"clk_i, reset_n_i, read_data[32]"
//
// into a list of named ports. A bracketed number is the port width in bits.
//
package portspec

import (
	"strconv"
	"unicode"

	"github.com/pkg/errors"
)

// Port is a named port of the given width.
//
type Port struct {
	Name  string
	Width int
}

type scanner struct {
	in  string
	pos int
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.in) && unicode.IsSpace(rune(s.in[s.pos])) {
		s.pos++
	}
}

func (s *scanner) eof() bool {
	s.skipSpace()
	return s.pos >= len(s.in)
}

func (s *scanner) peek() byte {
	s.skipSpace()
	if s.pos >= len(s.in) {
		return 0
	}
	return s.in[s.pos]
}

func isIdentStart(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isIdent(c byte) bool {
	return isIdentStart(c) || '0' <= c && c <= '9'
}

func (s *scanner) ident() (string, bool) {
	s.skipSpace()
	start := s.pos
	if s.pos >= len(s.in) || !isIdentStart(s.in[s.pos]) {
		return "", false
	}
	for s.pos < len(s.in) && isIdent(s.in[s.pos]) {
		s.pos++
	}
	return s.in[start:s.pos], true
}

func (s *scanner) number() (int, bool) {
	s.skipSpace()
	start := s.pos
	for s.pos < len(s.in) && '0' <= s.in[s.pos] && s.in[s.pos] <= '9' {
		s.pos++
	}
	n, err := strconv.Atoi(s.in[start:s.pos])
	if err != nil {
		s.pos = start
		return 0, false
	}
	return n, true
}

func (s *scanner) errorf(format string, args ...interface{}) error {
	return errors.Errorf("in %q at pos %d: "+format, append([]interface{}{s.in, s.pos + 1}, args...)...)
}

// Parse parses a port declaration list. Port names must be unique and widths
// must be in the range [1, maxWidth].
//
func Parse(spec string, maxWidth int) ([]Port, error) {
	var out []Port
	seen := make(map[string]bool)
	s := &scanner{in: spec}

	if s.eof() {
		return nil, nil
	}
	for {
		name, ok := s.ident()
		if !ok {
			return nil, s.errorf("expected port name")
		}
		if seen[name] {
			return nil, errors.Errorf("duplicate port name %q", name)
		}
		seen[name] = true
		p := Port{Name: name, Width: 1}

		if s.peek() == '[' {
			s.pos++
			w, ok := s.number()
			if !ok {
				return nil, s.errorf("missing port width")
			}
			if w < 1 || w > maxWidth {
				return nil, s.errorf("port width %d out of range [1, %d]", w, maxWidth)
			}
			if s.peek() != ']' {
				return nil, s.errorf("missing close bracket")
			}
			s.pos++
			p.Width = w
		}
		out = append(out, p)

		if s.eof() {
			return out, nil
		}
		if s.peek() != ',' {
			return nil, s.errorf("expected comma or end of input")
		}
		s.pos++
	}
}
