package perception

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/jwiersma/telehand/pkg/landmark"
)

// pollInterval bounds how long Next waits on the socket before checking
// for cancellation.
const pollInterval = 250 * time.Millisecond

// maxDatagram is comfortably above the encoded size of a full frame
// (21 hand points plus pose, ~2 KB of JSON).
const maxDatagram = 16 * 1024

// UDPSource receives JSON frame datagrams from a detector process on the
// same machine or LAN. One datagram is one frame; malformed datagrams
// are dropped and counted, not fatal.
type UDPSource struct {
	conn    *net.UDPConn
	buf     []byte
	dropped int
}

// ListenUDP binds the given address (e.g. "127.0.0.1:9901").
func ListenUDP(addr string) (*UDPSource, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return &UDPSource{conn: conn, buf: make([]byte, maxDatagram)}, nil
}

// Next blocks until a parseable datagram arrives or ctx ends.
func (s *UDPSource) Next(ctx context.Context) (landmark.Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return landmark.Frame{}, err
		}
		// Short read deadlines keep cancellation responsive without a
		// reader goroutine.
		if err := s.conn.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
			return landmark.Frame{}, err
		}
		n, _, err := s.conn.ReadFromUDP(s.buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			return landmark.Frame{}, err
		}
		frame, err := UnmarshalFrame(s.buf[:n])
		if err != nil {
			s.dropped++
			continue
		}
		return frame, nil
	}
}

// Dropped returns the count of malformed datagrams discarded so far.
func (s *UDPSource) Dropped() int {
	return s.dropped
}

// Addr returns the bound local address.
func (s *UDPSource) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// Close closes the socket; a blocked Next returns with an error.
func (s *UDPSource) Close() error {
	return s.conn.Close()
}
