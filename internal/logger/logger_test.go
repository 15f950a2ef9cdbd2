package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/db47h/hwtb"
	"github.com/db47h/hwtb/internal/logger"
)

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(logger.NewHandler(&buf, slog.LevelInfo))

	l.Debug("hidden", logger.SimTimeKey, hwtb.NS)
	l.Info("test passed", logger.SimTimeKey, 11*hwtb.NS, "test", "my_first_test")
	l.With("dut", "codma").WithGroup("sig").Warn("changed", logger.SimTimeKey, hwtb.Time(0), "name", "clk_i")

	exp := "[      11ns] INFO: test passed test=my_first_test\n" +
		"[       0ns] WARN: changed dut=codma sig.name=clk_i\n"
	if got := buf.String(); got != exp {
		t.Errorf("got:\n%s\nexpected:\n%s", got, exp)
	}
}

func TestHandler_wallClock(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(logger.NewHandler(&buf, nil))
	l.Info("hello")
	// 2006/01/02 15:04:05 INFO: hello
	if got := buf.String(); len(got) != len("2006/01/02 15:04:05 INFO: hello\n") {
		t.Errorf("unexpected output %q", got)
	}
}
