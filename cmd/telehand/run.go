package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwiersma/telehand/pkg/perception"
	"github.com/jwiersma/telehand/pkg/pilot"
)

type RunCommand struct {
	Port     string   `long:"port" description:"Serial port device (overrides telehand.json)"`
	Serial   bool     `long:"serial" description:"Enable serial transmission"`
	Rate     int      `long:"fps" description:"Serial transmit rate in Hz (1-60)"`
	Alpha    *float64 `long:"lpf" description:"Low-pass filter coefficient in (0,1]; 1 disables smoothing"`
	Listen   string   `long:"listen" description:"UDP address to receive perception frames on"`
	Replay   string   `long:"replay" description:"Play back a JSONL recording instead of listening"`
	ReplayHz int      `long:"replay-fps" default:"30" description:"Recording playback rate"`
	Loop     bool     `long:"loop" description:"Loop the recording"`
	Headless bool     `long:"headless" description:"Run without the dashboard"`
}

// settings merges telehand.json (when present) with command-line
// overrides. Flags win over the file; the file wins over defaults.
func (c *RunCommand) settings() pilot.Settings {
	s := pilot.DefaultSettings()
	if loaded, err := pilot.LoadSettings(); err == nil {
		s = *loaded
	}
	if c.Port != "" {
		s.SerialPort = c.Port
	}
	if c.Serial {
		s.EnableSerial = true
	}
	if c.Rate != 0 {
		s.Rate = c.Rate
	}
	if c.Alpha != nil {
		s.Alpha = *c.Alpha
	}
	if c.Listen != "" {
		s.Listen = c.Listen
	}
	return s
}

func (c *RunCommand) source(s pilot.Settings) (perception.Source, io.Closer, error) {
	if c.Replay != "" {
		src, err := perception.OpenReplay(c.Replay, c.ReplayHz, c.Loop)
		if err != nil {
			return nil, nil, err
		}
		fmt.Printf("Replaying %s at %d fps\n", c.Replay, c.ReplayHz)
		return src, src, nil
	}
	src, err := perception.ListenUDP(s.Listen)
	if err != nil {
		return nil, nil, err
	}
	fmt.Printf("Listening for perception frames on %s\n", src.Addr())
	return src, src, nil
}

func (c *RunCommand) Execute(args []string) error {
	s := c.settings()

	src, closer, err := c.source(s)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctrl, err := pilot.NewController(pilot.Config{
		Source:       src,
		SerialPort:   s.SerialPort,
		EnableSerial: s.EnableSerial,
		Rate:         s.Rate,
		Alpha:        s.Alpha,
	})
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	defer ctrl.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- ctrl.Start(ctx)
	}()

	if c.Headless {
		return runHeadless(ctx, ctrl, errCh)
	}

	p := tea.NewProgram(initialDashModel(ctrl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
	cancel()
	return drainErr(errCh)
}

// runHeadless consumes controller output on the terminal: log lines go
// to stderr, transmitted angle vectors to stdout.
func runHeadless(ctx context.Context, ctrl *pilot.Controller, errCh <-chan error) error {
	for {
		select {
		case err := <-errCh:
			return stripCancel(err)
		case msg := <-ctrl.Logs():
			fmt.Fprintln(os.Stderr, msg)
		case st := <-ctrl.States():
			if st.Sent {
				fmt.Printf("%s angles=%s fps=%.1f\n",
					st.Time.Format("15:04:05.000"), formatAngles(st.Angles), st.FPS)
			}
		}
	}
}

func formatAngles(angles [23]float64) string {
	out := "["
	for i, a := range angles {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%.0f", a)
	}
	return out + "]"
}

func drainErr(errCh <-chan error) error {
	select {
	case err := <-errCh:
		return stripCancel(err)
	case <-time.After(time.Second):
		return nil
	}
}

func stripCancel(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
