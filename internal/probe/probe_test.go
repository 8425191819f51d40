package probe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/NodePath81/netpulse/internal/platform"
)

type fakeRunner struct {
	out  []byte
	err  error
	name string
	args []string
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.name = name
	f.args = args
	return f.out, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMeasureParsesOutput(t *testing.T) {
	runner := &fakeRunner{out: []byte(linuxPingOutput)}
	p := NewProber(platform.ForGOOS("linux"), runner, discardLogger())

	res := p.Measure(context.Background(), "8.8.8.8", 5, time.Second)
	if res.LatencyMs != 4.2 || res.PacketLossPct != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if runner.name != "ping" {
		t.Fatalf("invoked %q, want ping", runner.name)
	}
	if len(runner.args) != 3 || runner.args[0] != "-c" || runner.args[1] != "5" || runner.args[2] != "8.8.8.8" {
		t.Fatalf("unexpected args: %v", runner.args)
	}
}

func TestMeasureWindowsArgs(t *testing.T) {
	runner := &fakeRunner{out: []byte(windowsPingOutput)}
	p := NewProber(platform.ForGOOS("windows"), runner, discardLogger())

	res := p.Measure(context.Background(), "8.8.8.8", 4, time.Second)
	if res.LatencyMs != 15.0 || res.PacketLossPct != 2.0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(runner.args) != 3 || runner.args[0] != "-n" {
		t.Fatalf("unexpected args: %v", runner.args)
	}
}

func TestMeasureRunFailureYieldsSentinels(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	p := NewProber(platform.ForGOOS("linux"), runner, discardLogger())

	res := p.Measure(context.Background(), "192.0.2.1", 5, time.Second)
	if res != Unmeasurable() {
		t.Fatalf("result = %+v, want sentinels", res)
	}
}

func TestMeasureUnparsableOutputYieldsSentinels(t *testing.T) {
	runner := &fakeRunner{out: []byte("no statistics here\n")}
	p := NewProber(platform.ForGOOS("linux"), runner, discardLogger())

	res := p.Measure(context.Background(), "192.0.2.1", 5, time.Second)
	if res != Unmeasurable() {
		t.Fatalf("result = %+v, want sentinels", res)
	}
}
