package netstat

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

type fakeSource struct {
	counters map[string]Counters
	ifaces   []Interface
	err      error
}

func (f *fakeSource) Counters(name string) (Counters, error) {
	if f.err != nil {
		return Counters{}, f.err
	}
	c, ok := f.counters[name]
	if !ok {
		return Counters{}, ErrInterfaceNotFound
	}
	return c, nil
}

func (f *fakeSource) Interfaces() ([]Interface, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ifaces, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSampler(source CounterSource) (*Sampler, *time.Time) {
	s := NewSampler(source, discardLogger())
	now := time.Unix(1700000000, 0)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestSampleBaselineThenRate(t *testing.T) {
	source := &fakeSource{counters: map[string]Counters{
		"eth0": {RxBytes: 1000, TxBytes: 500},
	}}
	s, now := newTestSampler(source)

	first := s.Sample("eth0")
	if !first.Baseline {
		t.Fatalf("first reading should be baseline, got %+v", first)
	}
	if first.RxKBps != 0 || first.TxKBps != 0 {
		t.Fatalf("baseline reading should carry no rate: %+v", first)
	}

	source.counters["eth0"] = Counters{RxBytes: 2024, TxBytes: 1524}
	*now = now.Add(time.Second)

	second := s.Sample("eth0")
	if second.Baseline {
		t.Fatalf("second reading should not be baseline")
	}
	if second.RxKBps != 1.0 || second.TxKBps != 1.0 {
		t.Fatalf("rates = %v/%v, want 1.0/1.0", second.RxKBps, second.TxKBps)
	}
	if second.Interface != "eth0" {
		t.Fatalf("interface = %q, want eth0", second.Interface)
	}
}

func TestSampleRounding(t *testing.T) {
	source := &fakeSource{counters: map[string]Counters{
		"eth0": {RxBytes: 0, TxBytes: 0},
	}}
	s, now := newTestSampler(source)
	s.Sample("eth0")

	// 1536 bytes over 1s = 1.5 KB/s; 100 bytes = 0.09765625 -> 0.1.
	source.counters["eth0"] = Counters{RxBytes: 1536, TxBytes: 100}
	*now = now.Add(time.Second)
	r := s.Sample("eth0")
	if r.RxKBps != 1.5 {
		t.Fatalf("rx = %v, want 1.5", r.RxKBps)
	}
	if r.TxKBps != 0.1 {
		t.Fatalf("tx = %v, want 0.1", r.TxKBps)
	}
}

func TestSampleCounterWrap(t *testing.T) {
	source := &fakeSource{counters: map[string]Counters{
		"eth0": {RxBytes: 5000, TxBytes: 5000},
	}}
	s, now := newTestSampler(source)
	s.Sample("eth0")

	// Rollover: rx went backwards, tx kept climbing.
	source.counters["eth0"] = Counters{RxBytes: 100, TxBytes: 6024}
	*now = now.Add(time.Second)
	r := s.Sample("eth0")
	if r.RxKBps != 0 {
		t.Fatalf("wrapped rx = %v, want 0", r.RxKBps)
	}
	if r.TxKBps != 1.0 {
		t.Fatalf("tx = %v, want 1.0", r.TxKBps)
	}

	// The wrapped snapshot became the new baseline, so the next tick
	// measures normally.
	source.counters["eth0"] = Counters{RxBytes: 1124, TxBytes: 7048}
	*now = now.Add(time.Second)
	r = s.Sample("eth0")
	if r.RxKBps != 1.0 || r.TxKBps != 1.0 {
		t.Fatalf("post-wrap rates = %v/%v, want 1.0/1.0", r.RxKBps, r.TxKBps)
	}
}

func TestSampleClockAnomaly(t *testing.T) {
	source := &fakeSource{counters: map[string]Counters{
		"eth0": {RxBytes: 1000, TxBytes: 1000},
	}}
	s, now := newTestSampler(source)
	s.Sample("eth0")

	source.counters["eth0"] = Counters{RxBytes: 9000, TxBytes: 9000}
	r := s.Sample("eth0") // same instant
	if r.RxKBps != 0 || r.TxKBps != 0 || r.Baseline {
		t.Fatalf("clock anomaly reading = %+v, want zero non-baseline", r)
	}

	// Baseline was not replaced: one second later the rate covers the
	// whole 8000-byte delta.
	*now = now.Add(time.Second)
	r = s.Sample("eth0")
	if r.RxKBps != 7.81 {
		t.Fatalf("rx after anomaly = %v, want 7.81", r.RxKBps)
	}
}

func TestSampleFallbackInterface(t *testing.T) {
	source := &fakeSource{
		counters: map[string]Counters{
			"wlan0": {RxBytes: 1000, TxBytes: 1000},
		},
		ifaces: []Interface{
			{Name: "lo", Up: false},
			{Name: "wlan0", Up: true},
		},
	}
	s, now := newTestSampler(source)

	r := s.Sample("eth9")
	if r.Interface != "wlan0" {
		t.Fatalf("fallback interface = %q, want wlan0", r.Interface)
	}
	if !r.Baseline {
		t.Fatalf("first fallback reading should be baseline")
	}

	source.counters["wlan0"] = Counters{RxBytes: 2024, TxBytes: 2024}
	*now = now.Add(time.Second)
	r = s.Sample("eth9")
	if r.Interface != "wlan0" || r.RxKBps != 1.0 {
		t.Fatalf("fallback reading = %+v, want wlan0 at 1.0", r)
	}
}

func TestSampleNoInterfacesAtAll(t *testing.T) {
	source := &fakeSource{ifaces: nil}
	s, _ := newTestSampler(source)
	r := s.Sample("eth0")
	if r.RxKBps != 0 || r.TxKBps != 0 || r.Baseline {
		t.Fatalf("reading with no interfaces = %+v, want zeros", r)
	}
}

func TestSampleUnsupportedSource(t *testing.T) {
	source := &fakeSource{err: ErrUnsupported}
	s, _ := newTestSampler(source)
	r := s.Sample("eth0")
	if r.RxKBps != 0 || r.TxKBps != 0 {
		t.Fatalf("unsupported reading = %+v, want zeros", r)
	}
}
