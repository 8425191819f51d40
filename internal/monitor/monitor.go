// Package monitor drives the measure-assemble-send cycle at a fixed
// cadence with clean start/stop semantics.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/NodePath81/netpulse/internal/netstat"
	"github.com/NodePath81/netpulse/internal/probe"
	"github.com/NodePath81/netpulse/internal/sample"
	"github.com/NodePath81/netpulse/internal/util"
)

// State is the monitor lifecycle. Transitions are
// Idle -> Running -> Stopping -> Stopped; Start and Stop in any other
// state are no-ops.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Prober measures path latency and loss. Never fails; degraded results
// carry sentinels.
type Prober interface {
	Measure(ctx context.Context, target string, count int, timeout time.Duration) probe.Result
}

// ThroughputSampler derives interface throughput, stateful across calls.
type ThroughputSampler interface {
	Sample(name string) netstat.Reading
}

// SampleSender ships one sample. Failures are local to that sample.
type SampleSender interface {
	Send(smp sample.Sample) error
}

type Config struct {
	Interface    string
	Target       string
	PingCount    int
	Interval     time.Duration
	ProbeTimeout time.Duration
}

type Monitor struct {
	cfg     Config
	prober  Prober
	sampler ThroughputSampler
	sender  SampleSender
	status  *Status
	logger  util.Logger

	// OnSample, when set before Start, observes every emitted sample.
	OnSample func(smp sample.Sample, err error)

	mu     sync.Mutex
	state  State
	stopCh chan struct{}
	done   chan struct{}
}

func NewMonitor(cfg Config, prober Prober, sampler ThroughputSampler, sender SampleSender, status *Status, logger util.Logger) *Monitor {
	return &Monitor{
		cfg:     cfg,
		prober:  prober,
		sampler: sampler,
		sender:  sender,
		status:  status,
		logger:  logger,
		state:   StateIdle,
	}
}

func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start begins the tick loop. A second Start while running is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateRunning || m.state == StateStopping {
		return
	}
	m.state = StateRunning
	m.stopCh = make(chan struct{})
	m.done = make(chan struct{})
	m.status.setState(StateRunning)
	go m.run(m.stopCh, m.done)
	m.logger.Info("monitor started",
		"interface", m.cfg.Interface,
		"target", m.cfg.Target,
		"interval", m.cfg.Interval)
}

// Stop interrupts the inter-tick wait and returns once the loop has
// settled. It never kills an in-flight probe or send; it waits for the
// current tick to finish. Stop before Start is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.state != StateRunning {
		m.mu.Unlock()
		return
	}
	m.state = StateStopping
	m.status.setState(StateStopping)
	stopCh, done := m.stopCh, m.done
	m.mu.Unlock()

	close(stopCh)
	<-done

	m.mu.Lock()
	m.state = StateStopped
	m.status.setState(StateStopped)
	m.mu.Unlock()
	m.logger.Info("monitor stopped")
}

func (m *Monitor) run(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		m.tick()
		select {
		case <-stopCh:
			return
		case <-time.After(m.cfg.Interval):
		}
	}
}

// tick executes one full cycle. The two measurements have no data
// dependency and run in parallel; both must finish before assembly. Any
// failure is recorded and swallowed so the loop always reaches the next
// tick.
func (m *Monitor) tick() {
	start := time.Now()

	var pr probe.Result
	var tp netstat.Reading
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		pr = m.prober.Measure(context.Background(), m.cfg.Target, m.cfg.PingCount, m.cfg.ProbeTimeout)
	}()
	go func() {
		defer wg.Done()
		tp = m.sampler.Sample(m.cfg.Interface)
	}()
	wg.Wait()

	iface := m.cfg.Interface
	if tp.Interface != "" {
		iface = tp.Interface
	}
	if tp.Baseline {
		m.logger.Info("throughput baseline established, rates start next tick", "interface", iface)
	}

	smp := sample.Assemble(start, iface, m.cfg.Target, pr, tp)
	err := m.sender.Send(smp)
	m.status.record(smp, err)
	if m.OnSample != nil {
		m.OnSample(smp, err)
	}
	if err == nil {
		m.logger.Debug("sample sent",
			"latency_ms", smp.LatencyMs,
			"loss_pct", smp.PacketLossPct,
			"rx_kbps", smp.RxSpeedKBps,
			"tx_kbps", smp.TxSpeedKBps,
			"duration_ms", time.Since(start).Milliseconds())
	}
}
