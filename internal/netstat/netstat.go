// Package netstat derives per-interface throughput from differential
// sampling of cumulative byte counters.
package netstat

import (
	"errors"
	"math"
	"time"

	"github.com/NodePath81/netpulse/internal/util"
)

// ErrUnsupported is returned by the OS counter source on platforms
// without an implementation.
var ErrUnsupported = errors.New("interface counters unsupported on this platform")

// ErrInterfaceNotFound marks a counter lookup for an interface the host
// does not have.
var ErrInterfaceNotFound = errors.New("interface not found")

// Counters are cumulative byte counts since interface bring-up. They are
// monotonic but may wrap.
type Counters struct {
	RxBytes uint64
	TxBytes uint64
}

// Interface describes one host interface for enumeration.
type Interface struct {
	Name string
	Up   bool
}

// CounterSource reads interface counters from the OS. It has no side
// effects; all state lives in the Sampler.
type CounterSource interface {
	Counters(name string) (Counters, error)
	Interfaces() ([]Interface, error)
}

// OSSource returns the counter source for the running host.
func OSSource() CounterSource {
	return newOSSource()
}

type snapshot struct {
	counters   Counters
	capturedAt time.Time
}

// Reading is the throughput derived from two snapshots. Interface carries
// the name actually sampled, which differs from the requested one after a
// fallback substitution. Baseline readings carry no rate: they only
// establish the comparison point for the next call.
type Reading struct {
	Interface string
	RxKBps    float64
	TxKBps    float64
	Baseline  bool
}

// Sampler owns the per-interface baseline snapshots. It is driven from a
// single tick at a time, so the baseline map needs no lock; overlapping
// ticks would require one.
type Sampler struct {
	source CounterSource
	logger util.Logger
	now    func() time.Time
	last   map[string]snapshot

	substituted map[string]string
	unsupported bool
}

// NewSampler builds a sampler over the given counter source. A nil source
// uses the host OS source.
func NewSampler(source CounterSource, logger util.Logger) *Sampler {
	if source == nil {
		source = newOSSource()
	}
	return &Sampler{
		source:      source,
		logger:      logger,
		now:         time.Now,
		last:        make(map[string]snapshot),
		substituted: make(map[string]string),
	}
}

// Sample reads counters for name and returns the rate since the previous
// successful call. The first call for an interface returns a Baseline
// reading. Failures degrade to a zero reading; the baseline survives so
// one bad tick does not poison the next.
func (s *Sampler) Sample(name string) Reading {
	actual, counters, err := s.read(name)
	if err != nil {
		return Reading{Interface: name}
	}

	now := s.now()
	current := snapshot{counters: counters, capturedAt: now}

	prior, ok := s.last[actual]
	if !ok {
		s.last[actual] = current
		return Reading{Interface: actual, Baseline: true}
	}

	elapsed := now.Sub(prior.capturedAt).Seconds()
	if elapsed <= 0 {
		// Clock anomaly: keep the existing baseline untouched.
		s.logger.Warn("non-positive elapsed time between counter snapshots", "interface", actual)
		return Reading{Interface: actual}
	}

	reading := Reading{
		Interface: actual,
		RxKBps:    rateKBps(counters.RxBytes, prior.counters.RxBytes, elapsed),
		TxKBps:    rateKBps(counters.TxBytes, prior.counters.TxBytes, elapsed),
	}
	s.last[actual] = current
	return reading
}

func (s *Sampler) read(name string) (string, Counters, error) {
	counters, err := s.source.Counters(name)
	if err == nil {
		return name, counters, nil
	}
	if errors.Is(err, ErrUnsupported) {
		if !s.unsupported {
			s.unsupported = true
			s.logger.Warn("interface counters unavailable, throughput will read zero", "error", err)
		}
		return "", Counters{}, err
	}
	if !errors.Is(err, ErrInterfaceNotFound) {
		s.logger.Warn("counter read failed", "interface", name, "error", err)
		return "", Counters{}, err
	}

	fallback, ferr := s.firstAvailable()
	if ferr != nil {
		s.logger.Warn("interface not found and no fallback available", "interface", name, "error", ferr)
		return "", Counters{}, ferr
	}
	if s.substituted[name] != fallback {
		s.substituted[name] = fallback
		s.logger.Warn("interface not found, substituting first available",
			"requested", name, "using", fallback)
	}
	counters, err = s.source.Counters(fallback)
	if err != nil {
		return "", Counters{}, err
	}
	return fallback, counters, nil
}

func (s *Sampler) firstAvailable() (string, error) {
	ifaces, err := s.source.Interfaces()
	if err != nil {
		return "", err
	}
	if len(ifaces) == 0 {
		return "", ErrInterfaceNotFound
	}
	for _, iface := range ifaces {
		if iface.Up {
			return iface.Name, nil
		}
	}
	return ifaces[0].Name, nil
}

// rateKBps converts a counter delta over elapsed seconds to KB/s, rounded
// to two decimals. A negative delta means the counter wrapped; that
// direction is unmeasurable this tick.
func rateKBps(current, prior uint64, elapsed float64) float64 {
	if current < prior {
		return 0
	}
	perSec := float64(current-prior) / elapsed
	return math.Round(perSec/1024*100) / 100
}
