// Package landmark defines the keypoint types produced by an external
// perception process: 21-point hand landmark sets and sparse world-space
// pose landmark sets.
package landmark

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Hand landmark indices, following the MediaPipe hand topology.
const (
	Wrist     = 0
	ThumbCMC  = 1
	ThumbMCP  = 2
	ThumbIP   = 3
	ThumbTip  = 4
	IndexMCP  = 5
	IndexPIP  = 6
	IndexDIP  = 7
	IndexTip  = 8
	MiddleMCP = 9
	MiddlePIP = 10
	MiddleDIP = 11
	MiddleTip = 12
	RingMCP   = 13
	RingPIP   = 14
	RingDIP   = 15
	RingTip   = 16
	PinkyMCP  = 17
	PinkyPIP  = 18
	PinkyDIP  = 19
	PinkyTip  = 20

	// NumHandPoints is the number of landmarks in a hand set.
	NumHandPoints = 21
)

// Hand is one hand's landmark set in camera-normalized coordinates
// (x,y in [0,1], z relative depth).
type Hand [NumHandPoints]r3.Vec

// Pose holds the body keypoints the pipeline consumes, in world-metric
// space with an arbitrary origin.
type Pose struct {
	RightShoulder r3.Vec
	RightElbow    r3.Vec
	RightWrist    r3.Vec
	LeftShoulder  r3.Vec
	RightHip      r3.Vec
}

// Frame is one perception result. Either landmark set may be absent;
// that is an expected outcome, not an error.
type Frame struct {
	Hand *Hand
	Pose *Pose
	Time time.Time
}

// Valid reports whether both landmark sets are present. Only valid
// frames commit to the joint-angle vector or reach the serial link.
func (f Frame) Valid() bool {
	return f.Hand != nil && f.Pose != nil
}
