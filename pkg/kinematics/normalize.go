package kinematics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jwiersma/telehand/pkg/landmark"
)

// alignEps guards the axis-angle construction: below this cross-product
// norm the hand is already aligned (or exactly anti-aligned) with the up
// axis and the rotation axis is undefined.
const alignEps = 1e-6

var yUp = r3.Vec{Y: 1}

// Normalize canonicalizes a hand landmark set: all points are translated
// so the wrist sits at the origin, then rotated so the vector from the
// middle-finger MCP toward the wrist points along +Y. Finger angles are
// computed in this frame so they do not depend on where the hand sits in
// the camera image.
func Normalize(h landmark.Hand) landmark.Hand {
	var out landmark.Hand
	wrist := h[landmark.Wrist]
	for i, p := range h {
		out[i] = r3.Sub(p, wrist)
	}

	up := r3.Sub(out[landmark.Wrist], out[landmark.MiddleMCP])
	if r3.Norm(up) == 0 {
		return out
	}
	up = r3.Unit(up)

	axis := r3.Cross(up, yUp)
	if r3.Norm(axis) < alignEps {
		// Already aligned; the anti-aligned case has no unique axis
		// either, so both fall back to the identity rotation.
		return out
	}
	theta := math.Acos(clamp(r3.Dot(up, yUp), -1, 1))
	rot := r3.NewRotation(theta, r3.Unit(axis))
	for i, p := range out {
		out[i] = rot.Rotate(p)
	}
	return out
}
