// Package transmit writes encoded command frames to the serial link,
// bounding the send rate and absorbing transport failures so the
// processing pipeline never stalls on the port.
package transmit

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	"github.com/jwiersma/telehand/pkg/wire"
)

// Serial link parameters expected by the hand microcontroller.
const (
	Baud = 115200

	// MinRate and MaxRate bound the configurable transmit frequency.
	MinRate = 1
	MaxRate = 60
)

// Transmitter sends at most one frame per 1/rate seconds. Frames
// arriving early are dropped, not queued. A Transmitter with no sink
// (port never opened, or transmission disabled) is a no-op.
type Transmitter struct {
	sink     io.WriteCloser // nil when disabled
	interval time.Duration
	last     time.Time
	now      func() time.Time
	logf     func(format string, args ...any)
}

// New wraps an open sink. The rate must be within [MinRate, MaxRate];
// out-of-range values are rejected, not clamped. logf receives write
// failures and may be nil.
func New(sink io.WriteCloser, rate int, logf func(format string, args ...any)) (*Transmitter, error) {
	if rate < MinRate || rate > MaxRate {
		return nil, fmt.Errorf("transmit rate %d out of range [%d, %d]", rate, MinRate, MaxRate)
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Transmitter{
		sink:     sink,
		interval: time.Second / time.Duration(rate),
		now:      time.Now,
		logf:     logf,
	}, nil
}

// Open opens the serial port at 115200 8N1 and returns a transmitter
// writing to it. On open failure the caller typically logs a warning and
// falls back to Disabled: a missing port degrades transmission, it does
// not stop the pipeline.
func Open(portName string, rate int, logf func(format string, args ...any)) (*Transmitter, error) {
	mode := &serial.Mode{
		BaudRate: Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	return New(port, rate, logf)
}

// Disabled returns a transmitter that computes nothing and sends
// nothing. Used when the operator runs without a serial link.
func Disabled() *Transmitter {
	return &Transmitter{now: time.Now, logf: func(string, ...any) {}}
}

// Enabled reports whether a sink is attached.
func (t *Transmitter) Enabled() bool {
	return t != nil && t.sink != nil
}

// Send encodes the angle vector and writes it if the rate limiter allows
// a frame now. It reports whether a frame actually went out on the wire.
// Write errors are logged and absorbed; the next eligible tick retries
// with fresh data.
func (t *Transmitter) Send(angles [wire.PayloadLen]float64) bool {
	if !t.Enabled() {
		return false
	}
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	if _, err := t.sink.Write(wire.Encode(angles)); err != nil {
		t.logf("serial write failed, frame dropped: %v", err)
		return false
	}
	return true
}

// Close releases the serial port. Safe to call on a disabled transmitter.
func (t *Transmitter) Close() error {
	if !t.Enabled() {
		return nil
	}
	return t.sink.Close()
}
