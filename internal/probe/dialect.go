package probe

import (
	"strconv"
	"strings"
)

const (
	// SentinelLatencyMs marks a latency that could not be measured.
	SentinelLatencyMs = -1
	// SentinelLossPct is the loss reported when nothing came back.
	SentinelLossPct = 100
)

// Result is one probe outcome. Produced fresh per measurement, never
// mutated afterwards.
type Result struct {
	LatencyMs     float64
	PacketLossPct float64
}

// Unmeasurable is the result for a probe that ran but produced nothing
// usable, and for a probe that could not run at all. Consumers treat both
// the same; logs tell them apart.
func Unmeasurable() Result {
	return Result{LatencyMs: SentinelLatencyMs, PacketLossPct: SentinelLossPct}
}

func (r Result) Measurable() bool {
	return r.LatencyMs >= 0
}

// Dialect parses the textual output of one OS family's ping utility.
// Each field falls back to its sentinel independently when its line is
// missing or malformed.
type Dialect interface {
	Name() string
	Parse(raw string) Result
}

// DialectFor picks the parser for the host ping utility.
func DialectFor(windows bool) Dialect {
	if windows {
		return windowsDialect{}
	}
	return posixDialect{}
}

// posixDialect handles Linux/BSD/macOS ping output:
//
//	5 packets transmitted, 5 received, 0% packet loss, time 4005ms
//	rtt min/avg/max/mdev = 1.038/4.222/10.008/1.062 ms
type posixDialect struct{}

func (posixDialect) Name() string { return "posix" }

func (posixDialect) Parse(raw string) Result {
	res := Unmeasurable()
	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.Contains(line, "min/avg/max"):
			_, stats, ok := strings.Cut(line, "=")
			if !ok {
				continue
			}
			fields := strings.Split(strings.TrimSpace(stats), "/")
			if len(fields) < 2 {
				continue
			}
			if v, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64); err == nil && v >= 0 {
				res.LatencyMs = v
			}
		case strings.Contains(line, "packet loss"):
			if v, ok := numberBeforePercent(line); ok {
				res.PacketLossPct = v
			}
		}
	}
	return res
}

// windowsDialect handles Windows ping output:
//
//	Packets: Sent = 4, Received = 4, Lost = 0 (0% loss),
//	Minimum = 0ms, Maximum = 4ms, Average = 2ms
type windowsDialect struct{}

func (windowsDialect) Name() string { return "windows" }

func (windowsDialect) Parse(raw string) Result {
	res := Unmeasurable()
	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.Contains(line, "Average"):
			idx := strings.LastIndex(line, "=")
			if idx < 0 {
				continue
			}
			text := strings.TrimSpace(line[idx+1:])
			text = strings.TrimSuffix(text, "ms")
			if v, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil && v >= 0 {
				res.LatencyMs = v
			}
		case strings.Contains(line, "Lost"):
			open := strings.Index(line, "(")
			if open < 0 {
				continue
			}
			pct := strings.Index(line[open:], "%")
			if pct < 0 {
				continue
			}
			text := strings.TrimSpace(line[open+1 : open+pct])
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				res.PacketLossPct = clampPct(v)
			}
		}
	}
	return res
}

// numberBeforePercent extracts the whitespace-delimited number immediately
// preceding the first '%' in the line, e.g. "0" out of "0% packet loss".
func numberBeforePercent(line string) (float64, bool) {
	idx := strings.Index(line, "%")
	if idx < 0 {
		return 0, false
	}
	fields := strings.Fields(line[:idx])
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil {
		return 0, false
	}
	return clampPct(v), true
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
