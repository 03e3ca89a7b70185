// Package filter smooths the joint-angle vector across frames with an
// exponential moving average.
package filter

import (
	"fmt"

	"github.com/jwiersma/telehand/pkg/kinematics"
)

// DefaultAlpha is the smoothing coefficient used when none is configured.
const DefaultAlpha = 0.25

// LowPass blends each new raw vector with the previous filtered one:
// filtered = (1-alpha)*previous + alpha*raw. Alpha 1 disables smoothing.
type LowPass struct {
	alpha float64
}

// NewLowPass creates a filter with the given coefficient. Alpha must be
// in (0, 1]; out-of-range values are rejected, not clamped.
func NewLowPass(alpha float64) (*LowPass, error) {
	if alpha <= 0 || alpha > 1 {
		return nil, fmt.Errorf("filter coefficient %v out of range (0, 1]", alpha)
	}
	return &LowPass{alpha: alpha}, nil
}

// Alpha returns the smoothing coefficient.
func (f *LowPass) Alpha() float64 {
	return f.alpha
}

// Smooth returns the blend of the previous filtered vector and the raw
// vector. The caller only invokes it on valid frames; invalid frames
// leave the vector untouched rather than decaying it.
func (f *LowPass) Smooth(prev, raw kinematics.JointAngles) kinematics.JointAngles {
	var out kinematics.JointAngles
	for i := range out {
		out[i] = (1-f.alpha)*prev[i] + f.alpha*raw[i]
	}
	return out
}
