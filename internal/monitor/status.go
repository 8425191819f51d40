package monitor

import (
	"sync"
	"time"

	"github.com/NodePath81/netpulse/internal/sample"
	"github.com/google/uuid"
)

// Snapshot is the externally visible monitor status, served by the
// control layer.
type Snapshot struct {
	RunID         string         `json:"run_id"`
	State         string         `json:"state"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	SentTotal     uint64         `json:"sent_total"`
	FailedTotal   uint64         `json:"failed_total"`
	LastError     string         `json:"last_error,omitempty"`
	LastSentAt    int64          `json:"last_sent_at,omitempty"`
	LastSample    *sample.Sample `json:"last_sample,omitempty"`
}

// Status tracks the latest emitted sample and running counters. One
// instance per monitor run, identified by a fresh run ID.
type Status struct {
	mu         sync.Mutex
	runID      string
	startTime  time.Time
	state      State
	sent       uint64
	failed     uint64
	lastErr    string
	lastSentAt time.Time
	lastSample *sample.Sample
}

func NewStatus() *Status {
	return &Status{
		runID:     uuid.New().String(),
		startTime: time.Now(),
		state:     StateIdle,
	}
}

func (s *Status) RunID() string {
	return s.runID
}

func (s *Status) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Status) record(smp sample.Sample, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := smp
	s.lastSample = &copied
	if err != nil {
		s.failed++
		s.lastErr = err.Error()
		return
	}
	s.sent++
	s.lastErr = ""
	s.lastSentAt = time.Now()
}

func (s *Status) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		RunID:         s.runID,
		State:         s.state.String(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		SentTotal:     s.sent,
		FailedTotal:   s.failed,
		LastError:     s.lastErr,
	}
	if !s.lastSentAt.IsZero() {
		snap.LastSentAt = s.lastSentAt.UnixMilli()
	}
	if s.lastSample != nil {
		copied := *s.lastSample
		snap.LastSample = &copied
	}
	return snap
}
