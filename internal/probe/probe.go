// Package probe measures path latency and loss by invoking the host ICMP
// echo utility and parsing its output.
package probe

import (
	"context"
	"os/exec"
	"time"

	"github.com/NodePath81/netpulse/internal/platform"
	"github.com/NodePath81/netpulse/internal/util"
)

// CommandRunner abstracts subprocess invocation so the prober can be
// unit-tested without a real ping binary.
type CommandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

type Prober struct {
	plat    platform.Platform
	dialect Dialect
	runner  CommandRunner
	logger  util.Logger
}

// NewProber builds a prober for the given host. A nil runner uses os/exec.
func NewProber(plat platform.Platform, runner CommandRunner, logger util.Logger) *Prober {
	if runner == nil {
		runner = execRunner{}
	}
	return &Prober{
		plat:    plat,
		dialect: DialectFor(plat.Windows()),
		runner:  runner,
		logger:  logger,
	}
}

// Measure runs one probe of count echoes against target, bounded by timeout
// for the whole invocation. It never fails: every error path degrades to
// the sentinel result and the loop carries on next tick.
func (p *Prober) Measure(ctx context.Context, target string, count int, timeout time.Duration) Result {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name, args := p.plat.PingCommand(target, count)
	out, err := p.runner.Output(ctx, name, args...)
	if err != nil {
		p.logger.Warn("probe failed to run", "target", target, "error", err)
		return Unmeasurable()
	}

	res := p.dialect.Parse(string(out))
	if !res.Measurable() {
		p.logger.Warn("probe output unrecognized", "target", target, "dialect", p.dialect.Name())
	}
	return res
}
