package transmit

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwiersma/telehand/pkg/wire"
)

// mockSink records frames and can be made to fail, standing in for the
// serial port.
type mockSink struct {
	frames   [][]byte
	err      error
	closed   bool
	attempts int
}

func (m *mockSink) Write(p []byte) (int, error) {
	m.attempts++
	if m.err != nil {
		return 0, m.err
	}
	m.frames = append(m.frames, append([]byte(nil), p...))
	return len(p), nil
}

func (m *mockSink) Close() error {
	m.closed = true
	return nil
}

// fakeClock steps time manually.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTransmitter(t *testing.T, sink *mockSink, rate int) (*Transmitter, *fakeClock) {
	t.Helper()
	tx, err := New(sink, rate, nil)
	require.NoError(t, err)
	clock := &fakeClock{t: time.Unix(1000, 0)}
	tx.now = clock.now
	return tx, clock
}

func TestNew_RejectsOutOfRangeRate(t *testing.T) {
	for _, rate := range []int{0, -5, 61, 1000} {
		_, err := New(&mockSink{}, rate, nil)
		assert.Error(t, err, "rate %d", rate)
	}
	for _, rate := range []int{1, 20, 60} {
		_, err := New(&mockSink{}, rate, nil)
		assert.NoError(t, err, "rate %d", rate)
	}
}

func TestSend_WritesEncodedFrame(t *testing.T) {
	sink := &mockSink{}
	tx, _ := newTestTransmitter(t, sink, 20)

	var angles [wire.PayloadLen]float64
	angles[0] = 10
	angles[1] = 250

	assert.True(t, tx.Send(angles))
	require.Len(t, sink.frames, 1)

	payload, err := wire.Decode(sink.frames[0])
	require.NoError(t, err)
	assert.Equal(t, byte(10), payload[0])
	assert.Equal(t, byte(250), payload[1])
}

// Continuous frames over T seconds at target rate F transmit at most
// floor(T*F)+1 frames.
func TestSend_RateBound(t *testing.T) {
	const (
		rate     = 20
		duration = 3 * time.Second
		frameGap = 7 * time.Millisecond // ~143 fps input
	)
	sink := &mockSink{}
	tx, clock := newTestTransmitter(t, sink, rate)

	var angles [wire.PayloadLen]float64
	for elapsed := time.Duration(0); elapsed < duration; elapsed += frameGap {
		tx.Send(angles)
		clock.advance(frameGap)
	}

	maxFrames := int(duration.Seconds())*rate + 1
	assert.LessOrEqual(t, len(sink.frames), maxFrames)
	// And the limiter should not starve: at least half the budget.
	assert.Greater(t, len(sink.frames), maxFrames/2)
}

func TestSend_DropsEarlyFrames(t *testing.T) {
	sink := &mockSink{}
	tx, clock := newTestTransmitter(t, sink, 10) // 100ms interval

	var angles [wire.PayloadLen]float64
	assert.True(t, tx.Send(angles))
	assert.False(t, tx.Send(angles), "same instant")

	clock.advance(99 * time.Millisecond)
	assert.False(t, tx.Send(angles), "1ms early")

	clock.advance(1 * time.Millisecond)
	assert.True(t, tx.Send(angles))

	assert.Len(t, sink.frames, 2)
}

func TestSend_WriteFailureIsAbsorbed(t *testing.T) {
	sink := &mockSink{err: errors.New("port gone")}
	var logged []string
	tx, clock := newTestTransmitter(t, sink, 10)
	tx.logf = func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}

	var angles [wire.PayloadLen]float64
	assert.False(t, tx.Send(angles))
	assert.NotEmpty(t, logged, "failure should be logged")

	// Recovery: the next eligible tick retries and succeeds.
	sink.err = nil
	clock.advance(100 * time.Millisecond)
	assert.True(t, tx.Send(angles))
	assert.Len(t, sink.frames, 1)
	assert.Equal(t, 2, sink.attempts)
}

func TestDisabled_NoOp(t *testing.T) {
	tx := Disabled()
	assert.False(t, tx.Enabled())

	var angles [wire.PayloadLen]float64
	assert.False(t, tx.Send(angles))
	assert.NoError(t, tx.Close())
}

func TestClose_ReleasesSink(t *testing.T) {
	sink := &mockSink{}
	tx, _ := newTestTransmitter(t, sink, 20)
	require.NoError(t, tx.Close())
	assert.True(t, sink.closed)
}
