package kinematics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jwiersma/telehand/pkg/landmark"
)

// Calibration constants. These are empirically tuned against the hand
// hardware, not derived geometry.
const (
	// thumbGain scales the thumb CMC reading, which tracks a shorter
	// arc than the servo's travel.
	thumbGain = 1.3
	// wristFlexOffset recenters the hand-normal/elbow angle so a
	// straight wrist reads neutral.
	wristFlexOffset = 30.0
	// yawCutoff selects the shoulder-pitch formula: within this many
	// degrees of a frontal arm the lateral-raise construction is
	// near-degenerate and the Z-Y projection is used instead.
	yawCutoff = 30.0
)

// worldX is the fixed reference direction for wrist yaw.
var worldX = r3.Vec{X: 1}

// Extract updates the channels of j for which frame carries inputs:
// hand-only frames refresh the finger and wrist-roll channels, pose-only
// frames refresh the shoulder and elbow channels, and the combined wrist
// flex/yaw channels need both. Channels without inputs this frame keep
// their previous values.
func Extract(j *JointAngles, frame landmark.Frame) {
	if frame.Hand != nil {
		norm := Normalize(*frame.Hand)
		extractFingers(j, &norm)
		j[ChWristRoll] = wristRoll(&norm)
		if frame.Pose != nil {
			extractWrist(j, frame.Hand, frame.Pose)
		}
	}
	if frame.Pose != nil {
		extractArm(j, frame.Pose)
	}
}

// extractFingers fills channels 0-15 from the normalized hand. Each
// finger gets an overall curl (wrist to fingertip over its MCP), a base
// angle anchored at a neighboring finger's MCP for the splay component,
// and a PIP bend. The thumb's four channels cross-reference the index
// and middle MCPs.
func extractFingers(j *JointAngles, h *landmark.Hand) {
	j[ChIndexCurl] = Angle(h[landmark.Wrist], h[landmark.IndexMCP], h[landmark.IndexTip])
	j[ChIndexSplay] = Angle(h[landmark.MiddleMCP], h[landmark.IndexMCP], h[landmark.IndexPIP])
	j[ChIndexPIP] = Angle(h[landmark.IndexMCP], h[landmark.IndexPIP], h[landmark.IndexDIP])

	j[ChMiddleCurl] = Angle(h[landmark.Wrist], h[landmark.MiddleMCP], h[landmark.MiddleTip])
	j[ChMiddleSplay] = Angle(h[landmark.RingMCP], h[landmark.MiddleMCP], h[landmark.MiddlePIP])
	j[ChMiddlePIP] = Angle(h[landmark.MiddleMCP], h[landmark.MiddlePIP], h[landmark.MiddleDIP])

	j[ChRingCurl] = Angle(h[landmark.Wrist], h[landmark.RingMCP], h[landmark.RingTip])
	j[ChRingSplay] = Angle(h[landmark.MiddleMCP], h[landmark.RingMCP], h[landmark.RingPIP])
	j[ChRingPIP] = Angle(h[landmark.RingMCP], h[landmark.RingPIP], h[landmark.RingDIP])

	j[ChPinkyCurl] = Angle(h[landmark.Wrist], h[landmark.PinkyMCP], h[landmark.PinkyTip])
	j[ChPinkySplay] = Angle(h[landmark.RingMCP], h[landmark.PinkyMCP], h[landmark.PinkyPIP])
	j[ChPinkyPIP] = Angle(h[landmark.PinkyMCP], h[landmark.PinkyPIP], h[landmark.PinkyDIP])

	j[ChThumbFlex] = Angle(h[landmark.ThumbCMC], h[landmark.ThumbMCP], h[landmark.ThumbIP]) * thumbGain
	j[ChThumbAbduct] = Angle(h[landmark.ThumbMCP], h[landmark.ThumbCMC], h[landmark.IndexMCP])
	j[ChThumbIP] = Angle(h[landmark.ThumbMCP], h[landmark.ThumbIP], h[landmark.ThumbTip])
	j[ChThumbOppose] = Angle(h[landmark.MiddleMCP], h[landmark.IndexMCP], h[landmark.ThumbMCP])
}

// wristRoll derives a full 360-degree wrist rotation from the normalized
// hand: the index and pinky MCPs are compared in the X-Z plane against a
// synthetic reference one unit behind the pinky MCP on the z axis. The
// angle primitive only covers 180 degrees, so the sign of the index-pinky
// X offset selects the other half turn.
func wristRoll(h *landmark.Hand) float64 {
	index := h[landmark.IndexMCP]
	pinky := h[landmark.PinkyMCP]
	zref := r3.Add(pinky, r3.Vec{Z: 1})

	roll := 180 - Angle(xz(index), xz(pinky), xz(zref))
	if index.X-pinky.X < 0 {
		roll = 360 - roll
	}
	return math.Mod(roll, 360)
}

// extractWrist fills the flex and yaw channels. These mix coordinate
// spaces: the raw (un-normalized) hand points are re-anchored so the
// hand wrist coincides with the pose wrist, putting the hand and the
// elbow in one frame.
func extractWrist(j *JointAngles, hand *landmark.Hand, pose *landmark.Pose) {
	delta := r3.Sub(pose.RightWrist, hand[landmark.Wrist])
	var h landmark.Hand
	for i, p := range hand {
		h[i] = r3.Add(p, delta)
	}

	// Hand-plane normal from two in-palm edges.
	right := r3.Unit(r3.Sub(h[landmark.IndexMCP], h[landmark.PinkyMCP]))
	up := r3.Unit(r3.Sub(h[landmark.MiddleMCP], h[landmark.Wrist]))
	normal := r3.Unit(r3.Cross(right, up))

	tip := r3.Add(h[landmark.Wrist], normal)
	j[ChWristFlex] = Angle(tip, h[landmark.Wrist], pose.RightElbow) - wristFlexOffset
	j[ChWristYaw] = 180 - Angle(h[landmark.MiddleMCP], h[landmark.Wrist], worldX)
}

// extractArm fills the shoulder and elbow channels from the world-space
// pose. All formulas work on plane projections of the keypoint triples.
func extractArm(j *JointAngles, p *landmark.Pose) {
	j[ChElbowFlex] = 180 - Angle(xy(p.RightShoulder), xy(p.RightElbow), xy(p.RightWrist))

	yaw := Angle(xy(p.RightHip), xy(p.RightShoulder), xy(p.RightElbow))
	j[ChShoulderYaw] = yaw

	if yaw < yawCutoff || yaw > 180-yawCutoff {
		// Near-frontal arm: the lateral construction below loses its
		// reference, so pitch comes from the Z-Y projection instead.
		j[ChShoulderPitch] = Angle(zy(p.RightHip), zy(p.RightShoulder), zy(p.RightElbow))
	} else {
		j[ChShoulderPitch] = 180 - Angle(xz(p.RightElbow), xz(p.RightShoulder), xz(p.LeftShoulder))
	}

	j[ChReserved] = 0
}
