// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command codmatb runs the codma smoke tests.
//
//	codmatb [--test name] [--vcd file.vcd] [--period 10ns] [--reset 10ns]
//
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/db47h/hwtb"
	"github.com/db47h/hwtb/codma"
	"github.com/db47h/hwtb/internal/logger"
	"github.com/db47h/hwtb/internal/vcd"
	getopt "github.com/pborman/getopt/v2"
	"github.com/pkg/errors"
)

type options struct {
	vcd   string
	limit hwtb.Time
	cfg   codma.Config
}

func main() {
	optTest := getopt.StringLong("test", 't', "", "Run only the named test")
	optList := getopt.BoolLong("list", 0, "List tests and exit")
	optVCD := getopt.StringLong("vcd", 'w', "", "Dump waveforms to file (test name appended when running several tests)")
	optLimit := getopt.StringLong("limit", 'l', "1ms", "Simulation time limit per test")
	optPeriod := getopt.StringLong("period", 'p', codma.DefaultConfig.ClockPeriod.String(), "Clock period")
	optReset := getopt.StringLong("reset", 'r', codma.DefaultConfig.ResetHold.String(), "Reset pulse duration")
	optCycles := getopt.IntLong("cycles", 'c', codma.DefaultConfig.Cycles, "Clock cycles before reset or toggled by hand")
	optDebug := getopt.BoolLong("debug", 'd', "Log task activity")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	level := new(slog.LevelVar)
	if *optDebug {
		level.Set(slog.LevelDebug)
	}
	log := slog.New(logger.NewHandler(os.Stderr, level))

	if *optList {
		for _, t := range codma.Tests() {
			fmt.Printf("%-20s %s\n", t.Name, t.Doc)
		}
		return
	}

	opts, err := parseOptions(*optVCD, *optLimit, *optPeriod, *optReset, *optCycles)
	if err != nil {
		log.Error(err.Error())
		os.Exit(2)
	}

	tests := codma.Tests()
	if *optTest != "" {
		t, err := codma.Lookup(*optTest)
		if err != nil {
			log.Error(err.Error())
			os.Exit(2)
		}
		tests = []*codma.Test{t}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failed := 0
	for _, t := range tests {
		vcdFile := opts.vcd
		if vcdFile != "" && len(tests) > 1 {
			ext := filepath.Ext(vcdFile)
			vcdFile = strings.TrimSuffix(vcdFile, ext) + "_" + t.Name + ext
		}
		start := time.Now()
		simTime, err := runTest(ctx, log, t, opts, vcdFile)
		if err != nil {
			failed++
			log.Error("FAIL", logger.SimTimeKey, simTime, "test", t.Name, "err", err)
			continue
		}
		log.Info("PASS", logger.SimTimeKey, simTime, "test", t.Name, "elapsed", time.Since(start))
	}
	log.Info(fmt.Sprintf("%d tests, %d passed, %d failed", len(tests), len(tests)-failed, failed))
	if failed > 0 {
		stop()
		os.Exit(1)
	}
}

func parseOptions(vcdFile, limit, period, reset string, cycles int) (*options, error) {
	var err error
	o := &options{vcd: vcdFile, cfg: codma.Config{Cycles: cycles}}
	if o.limit, err = hwtb.ParseTime(limit); err != nil {
		return nil, errors.Wrap(err, "--limit")
	}
	if o.cfg.ClockPeriod, err = hwtb.ParseTime(period); err != nil {
		return nil, errors.Wrap(err, "--period")
	}
	if o.cfg.ResetHold, err = hwtb.ParseTime(reset); err != nil {
		return nil, errors.Wrap(err, "--reset")
	}
	if cycles < 0 {
		return nil, errors.Errorf("--cycles: negative value %d", cycles)
	}
	return o, nil
}

func runTest(ctx context.Context, log *slog.Logger, t *codma.Test, o *options, vcdFile string) (hwtb.Time, error) {
	sim := hwtb.New(hwtb.WithLogger(log.With("test", t.Name)), hwtb.WithTimeLimit(o.limit))
	dut, err := codma.NewDUT(sim)
	if err != nil {
		return 0, err
	}

	var w *vcd.Writer
	if vcdFile != "" {
		f, err := os.Create(vcdFile)
		if err != nil {
			return 0, errors.Wrap(err, "vcd")
		}
		defer f.Close()
		w, err = vcd.New(f, time.Now().Format(time.RFC1123), dut.Name(), dut.Signals())
		if err != nil {
			return 0, err
		}
	}

	err = t.Run(ctx, dut, o.cfg)
	if w != nil {
		if cerr := w.Close(sim.Now()); err == nil {
			err = cerr
		}
	}
	return sim.Now(), err
}
