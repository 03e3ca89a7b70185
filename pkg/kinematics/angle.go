// Package kinematics turns hand and pose landmark sets into the 23-channel
// joint-angle vector the hand controller consumes.
package kinematics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Angle returns the angle at vertex b of the triangle a-b-c, in degrees.
// The result is always in [0, 180] and never NaN: the cosine is clamped
// before acos, and coincident points yield 0.
func Angle(a, b, c r3.Vec) float64 {
	ba := r3.Sub(a, b)
	bc := r3.Sub(c, b)
	n := r3.Norm(ba) * r3.Norm(bc)
	if n == 0 {
		return 0
	}
	cos := clamp(r3.Dot(ba, bc)/n, -1, 1)
	return math.Acos(cos) * 180 / math.Pi
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// Plane projections used by the pose-angle formulas. Dropping a
// coordinate to zero gives the in-plane angle from the 3D primitive.

func xy(v r3.Vec) r3.Vec { return r3.Vec{X: v.X, Y: v.Y} }

func xz(v r3.Vec) r3.Vec { return r3.Vec{X: v.X, Y: v.Z} }

func zy(v r3.Vec) r3.Vec { return r3.Vec{X: v.Z, Y: v.Y} }
