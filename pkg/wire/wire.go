// Package wire implements the fixed 28-byte command frame spoken by the
// hand microcontroller:
//
//	FE FE | 23 angle bytes | checksum | FD FD
//
// The checksum is 255 minus the modulo-256 sum of the payload. There is
// no byte stuffing: sync and terminator values can recur inside the
// payload, so a receiver must rely on the fixed length and the checksum
// rather than scanning for sync bytes mid-stream.
package wire

import (
	"errors"
	"math"
)

const (
	// PayloadLen is the number of angle bytes in a frame.
	PayloadLen = 23
	// FrameLen is the total encoded frame length.
	FrameLen = PayloadLen + 5

	syncByte = 0xFE
	endByte  = 0xFD
)

var (
	ErrLength   = errors.New("wire: frame is not 28 bytes")
	ErrFraming  = errors.New("wire: bad sync or terminator bytes")
	ErrChecksum = errors.New("wire: checksum mismatch")
)

// Checksum computes the integrity byte for a clamped payload: for any
// payload P, (sum(P) + Checksum(P)) mod 256 == 255.
func Checksum(payload []byte) byte {
	sum := 0
	for _, b := range payload {
		sum += int(b)
	}
	return byte((255 - sum%256) % 256)
}

// clampByte rounds an angle to the nearest integer and clamps it to the
// one-byte range.
func clampByte(v float64) byte {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return byte(r)
}

// Encode serializes an angle vector into a complete frame.
func Encode(angles [PayloadLen]float64) []byte {
	frame := make([]byte, 0, FrameLen)
	frame = append(frame, syncByte, syncByte)
	for _, a := range angles {
		frame = append(frame, clampByte(a))
	}
	frame = append(frame, Checksum(frame[2:2+PayloadLen]))
	frame = append(frame, endByte, endByte)
	return frame
}

// Decode validates a received frame and returns its payload. It checks
// the fixed length, the sync and terminator positions, and the checksum;
// a single corrupted payload byte always fails the checksum test.
func Decode(frame []byte) ([PayloadLen]byte, error) {
	var payload [PayloadLen]byte
	if len(frame) != FrameLen {
		return payload, ErrLength
	}
	if frame[0] != syncByte || frame[1] != syncByte ||
		frame[FrameLen-2] != endByte || frame[FrameLen-1] != endByte {
		return payload, ErrFraming
	}
	body := frame[2 : 2+PayloadLen]
	if Checksum(body) != frame[2+PayloadLen] {
		return payload, ErrChecksum
	}
	copy(payload[:], body)
	return payload, nil
}
