package app

import (
	"context"

	"github.com/NodePath81/netpulse/internal/config"
	"github.com/NodePath81/netpulse/internal/control"
	"github.com/NodePath81/netpulse/internal/monitor"
	"github.com/NodePath81/netpulse/internal/netstat"
	"github.com/NodePath81/netpulse/internal/platform"
	"github.com/NodePath81/netpulse/internal/probe"
	"github.com/NodePath81/netpulse/internal/report"
	"github.com/NodePath81/netpulse/internal/util"
)

// Runtime wires one configured instance of the sampler: prober, throughput
// sampler, sender, monitor, and the optional control server.
type Runtime struct {
	cfg     config.Config
	ctx     context.Context
	cancel  context.CancelFunc
	logger  util.Logger
	monitor *monitor.Monitor
	status  *monitor.Status
	control *control.Server
}

func NewRuntime(cfg config.Config, logger util.Logger) *Runtime {
	ctx, cancel := context.WithCancel(context.Background())

	plat := platform.Detect()
	prober := probe.NewProber(plat, nil, logger)
	sampler := netstat.NewSampler(nil, logger)
	sender := report.NewSender(
		report.Destination{Host: cfg.UDPServer.IP, Port: cfg.UDPServer.Port},
		cfg.SendTimeout.Duration(),
		logger,
	)

	status := monitor.NewStatus()
	mon := monitor.NewMonitor(monitor.Config{
		Interface:    cfg.Interface,
		Target:       cfg.TargetIP,
		PingCount:    cfg.PingCount,
		Interval:     cfg.Interval.Duration(),
		ProbeTimeout: cfg.ProbeTimeout.Duration(),
	}, prober, sampler, sender, status, logger)

	rt := &Runtime{
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger,
		monitor: mon,
		status:  status,
	}

	if cfg.Control.IsEnabled() {
		hub := control.NewHub(ctx.Done())
		mon.OnSample = hub.BroadcastSample
		rt.control = control.NewServer(cfg.Control, status, hub, logger)
	}
	return rt
}

func (r *Runtime) Start() error {
	r.logger.Info("starting",
		"run_id", r.status.RunID(),
		"interface", r.cfg.Interface,
		"target", r.cfg.TargetIP,
		"collector", r.cfg.UDPServer.IP)
	if r.control != nil {
		if err := r.control.Start(r.ctx); err != nil {
			return err
		}
	}
	r.monitor.Start()
	return nil
}

func (r *Runtime) Stop() {
	r.monitor.Stop()
	r.cancel()
}
