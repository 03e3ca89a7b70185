// Package pilot runs the motion-to-actuation pipeline: it pulls
// perception frames, extracts and smooths the joint-angle vector, and
// hands valid frames to the rate-limited serial transmitter.
package pilot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jwiersma/telehand/pkg/filter"
	"github.com/jwiersma/telehand/pkg/kinematics"
	"github.com/jwiersma/telehand/pkg/landmark"
	"github.com/jwiersma/telehand/pkg/perception"
	"github.com/jwiersma/telehand/pkg/transmit"
)

// Config holds everything the controller needs to start. Validation is
// strict: out-of-range values are rejected before the pipeline starts,
// never clamped.
type Config struct {
	Source perception.Source

	// SerialPort is the device to transmit on. Ignored unless
	// EnableSerial is set.
	SerialPort   string
	EnableSerial bool

	// Rate is the maximum serial transmit frequency in Hz [1, 60].
	Rate int
	// Alpha is the low-pass coefficient in (0, 1]; 1 disables smoothing.
	Alpha float64
}

// State is an immutable snapshot of the latest processed frame,
// published to observers. Angles is a value copy; readers never share
// memory with the processing loop.
type State struct {
	Angles kinematics.JointAngles
	Valid  bool
	Sent   bool
	FPS    float64
	Time   time.Time

	// Headline readouts refreshed even on partially-available frames,
	// for display only.
	WristRotation float64
	ElbowFlex     float64
	ShoulderYaw   float64
	ShoulderPitch float64
}

// Controller owns the joint-angle vector and runs the per-frame pipeline
// on a single goroutine. Observers consume States and Logs, or poll
// Snapshot.
type Controller struct {
	source perception.Source
	tx     *transmit.Transmitter
	lpf    *filter.LowPass

	mu      sync.Mutex
	angles  kinematics.JointAngles
	state   State
	running bool

	stateCh chan State
	logCh   chan string
}

// NewController validates the configuration and prepares the pipeline.
// A serial port that fails to open is a warning, not an error: the
// controller degrades to computing angles without transmitting. An
// out-of-range rate or alpha is the one fatal setup condition.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("no perception source configured")
	}

	lpf, err := filter.NewLowPass(cfg.Alpha)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		source:  cfg.Source,
		lpf:     lpf,
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 10),
	}

	// Validate the rate even when serial is off, so a bad config never
	// starts silently.
	if _, err := transmit.New(nil, cfg.Rate, nil); err != nil {
		return nil, err
	}

	if cfg.EnableSerial && cfg.SerialPort != "" {
		tx, err := transmit.Open(cfg.SerialPort, cfg.Rate, c.log)
		if err != nil {
			c.log("Warning: %v; transmission disabled for this session", err)
			tx = transmit.Disabled()
		}
		c.tx = tx
	} else {
		c.tx = transmit.Disabled()
	}

	return c, nil
}

// Close releases the serial port.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
	return c.tx.Close()
}

// States returns the snapshot channel. The latest snapshot wins: when an
// observer lags, older snapshots are replaced, never queued.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns the channel of human-readable pipeline messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Transmitting reports whether a serial sink is attached.
func (c *Controller) Transmitting() bool {
	return c.tx.Enabled()
}

// Snapshot returns the latest published state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start runs the processing loop until the context ends or the source is
// exhausted. Per-frame conditions (missing landmarks, serial write
// failures) are absorbed; only source termination ends the loop.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	if c.tx.Enabled() {
		c.log("Serial transmission enabled")
	} else {
		c.log("Serial transmission disabled; computing angles only")
	}

	var lastFrame time.Time
	for {
		if err := ctx.Err(); err != nil {
			c.shutdown()
			return err
		}
		frame, err := c.source.Next(ctx)
		if err != nil {
			c.shutdown()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		fps := 0.0
		now := time.Now()
		if !lastFrame.IsZero() {
			if dt := now.Sub(lastFrame).Seconds(); dt > 0 {
				fps = 1 / dt
			}
		}
		lastFrame = now

		c.step(frame, fps)
	}
}

// step runs one pipeline iteration. The extractor works on a scratch
// copy of the vector; only valid frames (hand and pose both present)
// commit the smoothed result and become eligible for transmission.
// Invalid frames change nothing and send nothing.
func (c *Controller) step(frame landmark.Frame, fps float64) {
	working := c.angles
	kinematics.Extract(&working, frame)

	valid := frame.Valid()
	sent := false
	if valid {
		c.angles = c.lpf.Smooth(c.angles, working)
		sent = c.tx.Send(c.angles)
	}

	st := State{
		Angles: c.angles,
		Valid:  valid,
		Sent:   sent,
		FPS:    fps,
		Time:   frame.Time,

		WristRotation: working[kinematics.ChWristRoll],
		ElbowFlex:     working[kinematics.ChElbowFlex],
		ShoulderYaw:   working[kinematics.ChShoulderYaw],
		ShoulderPitch: working[kinematics.ChShoulderPitch],
	}

	c.mu.Lock()
	c.state = st
	c.mu.Unlock()
	c.publish(st)
}

func (c *Controller) publish(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}

func (c *Controller) shutdown() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
	c.log("Pipeline stopped")
}
