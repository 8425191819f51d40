package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/NodePath81/netpulse/internal/util"
	"gopkg.in/yaml.v3"
)

const (
	defaultPingCount    = 5
	defaultInterval     = 30 * time.Second
	defaultProbeTimeout = 10 * time.Second
	defaultSendTimeout  = 5 * time.Second

	defaultControlAddr = "127.0.0.1"
	defaultControlPort = 7070
)

// Duration accepts either a bare number of seconds or a Go duration string.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar")
	}
	switch value.Tag {
	case "!!int", "!!float":
		var secs float64
		if err := value.Decode(&secs); err != nil {
			return err
		}
		*d = Duration(time.Duration(secs * float64(time.Second)))
		return nil
	default:
		var raw string
		if err := value.Decode(&raw); err != nil {
			return err
		}
		if raw == "" {
			*d = 0
			return nil
		}
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	}
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

type Config struct {
	Interface    string          `yaml:"interface"`
	TargetIP     string          `yaml:"target_ip"`
	PingCount    int             `yaml:"ping_count"`
	Interval     Duration        `yaml:"interval_seconds"`
	ProbeTimeout Duration        `yaml:"probe_timeout"`
	SendTimeout  Duration        `yaml:"send_timeout"`
	UDPServer    UDPServerConfig `yaml:"udp_server"`
	Control      ControlConfig   `yaml:"control"`
	LogLevel     string          `yaml:"log_level"`
}

type UDPServerConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
}

type ControlConfig struct {
	Enabled  *bool  `yaml:"enabled"`
	BindAddr string `yaml:"bind_addr"`
	BindPort int    `yaml:"bind_port"`
}

func (c ControlConfig) IsEnabled() bool {
	return util.BoolValue(c.Enabled, true)
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.PingCount == 0 {
		cfg.PingCount = defaultPingCount
	}
	if cfg.Interval == 0 {
		cfg.Interval = Duration(defaultInterval)
	}
	if cfg.ProbeTimeout == 0 {
		cfg.ProbeTimeout = Duration(defaultProbeTimeout)
	}
	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = Duration(defaultSendTimeout)
	}
	if cfg.Control.BindAddr == "" {
		cfg.Control.BindAddr = defaultControlAddr
	}
	if cfg.Control.BindPort == 0 {
		cfg.Control.BindPort = defaultControlPort
	}
}

// Validate reports the first configuration error found. Missing required
// keys are fatal before the monitor ever starts.
func Validate(cfg Config) error {
	if cfg.Interface == "" {
		return errors.New("interface is required")
	}
	if cfg.TargetIP == "" {
		return errors.New("target_ip is required")
	}
	if cfg.UDPServer.IP == "" {
		return errors.New("udp_server.ip is required")
	}
	if cfg.UDPServer.Port <= 0 || cfg.UDPServer.Port > 65535 {
		return fmt.Errorf("udp_server.port must be in 1..65535, got %d", cfg.UDPServer.Port)
	}
	if cfg.PingCount < 1 {
		return fmt.Errorf("ping_count must be >= 1, got %d", cfg.PingCount)
	}
	if cfg.Interval.Duration() <= 0 {
		return errors.New("interval_seconds must be positive")
	}
	// Blocking steps must finish well inside a tick or the loop starves.
	if cfg.ProbeTimeout.Duration() <= 0 || cfg.ProbeTimeout.Duration() >= cfg.Interval.Duration() {
		return fmt.Errorf("probe_timeout %s must be positive and shorter than interval %s",
			cfg.ProbeTimeout.Duration(), cfg.Interval.Duration())
	}
	if cfg.SendTimeout.Duration() <= 0 || cfg.SendTimeout.Duration() >= cfg.Interval.Duration() {
		return fmt.Errorf("send_timeout %s must be positive and shorter than interval %s",
			cfg.SendTimeout.Duration(), cfg.Interval.Duration())
	}
	if cfg.Control.IsEnabled() {
		if cfg.Control.BindPort <= 0 || cfg.Control.BindPort > 65535 {
			return fmt.Errorf("control.bind_port must be in 1..65535, got %d", cfg.Control.BindPort)
		}
	}
	if _, err := util.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	return nil
}
