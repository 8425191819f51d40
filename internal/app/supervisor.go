package app

import (
	"sync"

	"github.com/NodePath81/netpulse/internal/config"
	"github.com/NodePath81/netpulse/internal/util"
)

// Supervisor owns the lifecycle of a Runtime built from a config file.
// Configuration errors surface from Start before any tick runs.
type Supervisor struct {
	configPath string
	mu         sync.Mutex
	runtime    *Runtime
}

func NewSupervisor(configPath string) *Supervisor {
	return &Supervisor{configPath: configPath}
}

func (s *Supervisor) Start() error {
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		return err
	}
	level, err := util.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	runtime := NewRuntime(cfg, util.NewLogger(level))
	if err := runtime.Start(); err != nil {
		runtime.Stop()
		return err
	}
	s.mu.Lock()
	s.runtime = runtime
	s.mu.Unlock()
	return nil
}

func (s *Supervisor) Stop() {
	s.mu.Lock()
	current := s.runtime
	s.runtime = nil
	s.mu.Unlock()
	if current != nil {
		current.Stop()
	}
}
