package perception

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jwiersma/telehand/pkg/landmark"
)

// ReplaySource plays back a JSONL recording of perception frames, one
// JSON frame per line, paced at a fixed rate. It returns io.EOF at end
// of file unless Loop is set.
type ReplaySource struct {
	path  string
	fps   int
	loop  bool
	file  *os.File
	scan  *bufio.Scanner
	tick  *time.Ticker
	lines int
}

// OpenReplay opens a recording for playback at fps frames per second.
func OpenReplay(path string, fps int, loop bool) (*ReplaySource, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("replay rate %d must be positive", fps)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	s := &ReplaySource{
		path: path,
		fps:  fps,
		loop: loop,
		file: f,
		tick: time.NewTicker(time.Second / time.Duration(fps)),
	}
	s.scan = newFrameScanner(f)
	return s, nil
}

func newFrameScanner(r io.Reader) *bufio.Scanner {
	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 0, maxDatagram), maxDatagram)
	return scan
}

// Next returns the following recorded frame after the pacing tick.
// Blank lines are skipped; a malformed line is a hard error, since a
// recording is expected to be well-formed end to end.
func (s *ReplaySource) Next(ctx context.Context) (landmark.Frame, error) {
	select {
	case <-ctx.Done():
		return landmark.Frame{}, ctx.Err()
	case <-s.tick.C:
	}

	for {
		if !s.scan.Scan() {
			if err := s.scan.Err(); err != nil {
				return landmark.Frame{}, fmt.Errorf("read recording: %w", err)
			}
			if !s.loop || s.lines == 0 {
				return landmark.Frame{}, io.EOF
			}
			if err := s.rewind(); err != nil {
				return landmark.Frame{}, err
			}
			continue
		}
		line := s.scan.Bytes()
		if len(line) == 0 {
			continue
		}
		s.lines++
		frame, err := UnmarshalFrame(line)
		if err != nil {
			return landmark.Frame{}, fmt.Errorf("recording line %d: %w", s.lines, err)
		}
		// Recorded capture times are stale on playback; stamp with now
		// so downstream rate logic sees live timing.
		frame.Time = time.Now()
		return frame, nil
	}
}

func (s *ReplaySource) rewind() error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind recording: %w", err)
	}
	s.scan = newFrameScanner(s.file)
	return nil
}

// Close stops pacing and closes the recording file.
func (s *ReplaySource) Close() error {
	s.tick.Stop()
	return s.file.Close()
}
