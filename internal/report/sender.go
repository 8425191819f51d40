// Package report ships assembled samples to the collector, one datagram
// per sample, fire and forget.
package report

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/NodePath81/netpulse/internal/sample"
	"github.com/NodePath81/netpulse/internal/util"
)

// Destination is the collector endpoint, owned by configuration.
type Destination struct {
	Host string
	Port int
}

func (d Destination) String() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// SendError wraps any failure to get a sample onto the wire. It is
// terminal for that sample only; there is no retry.
type SendError struct {
	Dest string
	Err  error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send sample to %s: %v", e.Dest, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

type Sender struct {
	dest    Destination
	timeout time.Duration
	logger  util.Logger
}

func NewSender(dest Destination, timeout time.Duration, logger util.Logger) *Sender {
	return &Sender{dest: dest, timeout: timeout, logger: logger}
}

// Send serializes the sample and transmits it once over a fresh datagram
// socket with a bounded write deadline. The socket is released on every
// exit path. Failures come back as *SendError and are logged here; the
// caller decides nothing beyond counting them.
func (s *Sender) Send(smp sample.Sample) error {
	payload, err := smp.Encode()
	if err != nil {
		return s.fail(err)
	}

	addr, err := net.ResolveUDPAddr("udp", s.dest.String())
	if err != nil {
		return s.fail(err)
	}

	conn, err := net.ListenPacket("udp", "")
	if err != nil {
		return s.fail(err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
		return s.fail(err)
	}
	if _, err := conn.WriteTo(payload, addr); err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *Sender) fail(err error) error {
	sendErr := &SendError{Dest: s.dest.String(), Err: err}
	s.logger.Warn("sample send failed", "dest", sendErr.Dest, "error", err)
	return sendErr
}
