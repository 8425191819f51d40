// Package sample defines the performance record shipped to the collector
// and its canonical wire encoding.
package sample

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/NodePath81/netpulse/internal/netstat"
	"github.com/NodePath81/netpulse/internal/probe"
)

// Sample is one assembled measurement. Lifecycle is create-send-discard;
// nothing retains it after the datagram leaves.
type Sample struct {
	Timestamp     string  `json:"timestamp"`
	Interface     string  `json:"interface"`
	TargetIP      string  `json:"target_ip"`
	LatencyMs     float64 `json:"latency_ms"`
	PacketLossPct float64 `json:"packet_loss_percent"`
	RxSpeedKBps   float64 `json:"rx_speed_kbps"`
	TxSpeedKBps   float64 `json:"tx_speed_kbps"`
}

// Assemble combines one tick's measurements with their metadata. Pure; the
// caller decides which interface name to stamp when a fallback occurred.
func Assemble(ts time.Time, iface, target string, pr probe.Result, tp netstat.Reading) Sample {
	return Sample{
		Timestamp:     ts.Format(time.RFC3339),
		Interface:     iface,
		TargetIP:      target,
		LatencyMs:     pr.LatencyMs,
		PacketLossPct: pr.PacketLossPct,
		RxSpeedKBps:   tp.RxKBps,
		TxSpeedKBps:   tp.TxKBps,
	}
}

// Encode renders the UTF-8 JSON payload, one datagram per sample.
func (s Sample) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode sample: %w", err)
	}
	return data, nil
}

// Decode parses a wire payload back into a Sample.
func Decode(data []byte) (Sample, error) {
	var s Sample
	if err := json.Unmarshal(data, &s); err != nil {
		return Sample{}, fmt.Errorf("decode sample: %w", err)
	}
	return s, nil
}
