// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package logger provides a compact slog handler for simulation logs.
//
// Records carrying a "simtime" attribute are prefixed with that time instead
// of the wall clock time.
//
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// SimTimeKey is the attribute key used for the simulation time.
//
const SimTimeKey = "simtime"

// Handler is a slog.Handler writing one line per record:
//
//	[    11ns] INFO: test passed test=my_first_test
//
type Handler struct {
	out   io.Writer
	level slog.Leveler
	attrs []slog.Attr
	group string
	mu    *sync.Mutex
}

// NewHandler returns a handler writing to out. Records below level are
// discarded.
//
func NewHandler(out io.Writer, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{out: out, level: level, mu: &sync.Mutex{}}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	h2.attrs = append(h2.attrs, h.attrs...)
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, h.qualify(a))
	}
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	h2.group = name
	return &h2
}

func (h *Handler) qualify(a slog.Attr) slog.Attr {
	if h.group != "" && a.Key != SimTimeKey {
		a.Key = h.group + "." + a.Key
	}
	return a
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var simTime string
	strs := []string{"", r.Level.String() + ":", r.Message}

	add := func(a slog.Attr) {
		if a.Key == SimTimeKey {
			simTime = a.Value.String()
			return
		}
		strs = append(strs, a.Key+"="+a.Value.String())
	}
	for _, a := range h.attrs {
		add(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		add(h.qualify(a))
		return true
	})
	if simTime != "" {
		strs[0] = fmt.Sprintf("[%10s]", simTime)
	} else {
		strs[0] = r.Time.Format("2006/01/02 15:04:05")
	}
	b := []byte(strings.Join(strs, " ") + "\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(b)
	return err
}
