package perception

import (
	"encoding/json"
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jwiersma/telehand/pkg/landmark"
)

// frameJSON is the interchange format emitted by detector clients: an
// optional 21-point hand array and an optional named pose set, both as
// [x,y,z] triples.
type frameJSON struct {
	Hand *[landmark.NumHandPoints][3]float64 `json:"hand,omitempty"`
	Pose *poseJSON                           `json:"pose,omitempty"`
	// T is the capture time in seconds since the Unix epoch. Zero means
	// unknown; receivers substitute arrival time.
	T float64 `json:"t,omitempty"`
}

type poseJSON struct {
	RightShoulder [3]float64 `json:"right_shoulder"`
	RightElbow    [3]float64 `json:"right_elbow"`
	RightWrist    [3]float64 `json:"right_wrist"`
	LeftShoulder  [3]float64 `json:"left_shoulder"`
	RightHip      [3]float64 `json:"right_hip"`
}

func vec(p [3]float64) r3.Vec {
	return r3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

func triple(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// UnmarshalFrame decodes one JSON frame.
func UnmarshalFrame(data []byte) (landmark.Frame, error) {
	var raw frameJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return landmark.Frame{}, fmt.Errorf("decode perception frame: %w", err)
	}
	frame := landmark.Frame{Time: time.Now()}
	if raw.T > 0 {
		sec, frac := int64(raw.T), raw.T-float64(int64(raw.T))
		frame.Time = time.Unix(sec, int64(frac*float64(time.Second)))
	}
	if raw.Hand != nil {
		var h landmark.Hand
		for i, p := range raw.Hand {
			h[i] = vec(p)
		}
		frame.Hand = &h
	}
	if raw.Pose != nil {
		frame.Pose = &landmark.Pose{
			RightShoulder: vec(raw.Pose.RightShoulder),
			RightElbow:    vec(raw.Pose.RightElbow),
			RightWrist:    vec(raw.Pose.RightWrist),
			LeftShoulder:  vec(raw.Pose.LeftShoulder),
			RightHip:      vec(raw.Pose.RightHip),
		}
	}
	return frame, nil
}

// MarshalFrame encodes a frame in the interchange format. Used by
// recording tools and tests; detector clients in other languages emit
// the same shape.
func MarshalFrame(frame landmark.Frame) ([]byte, error) {
	raw := frameJSON{}
	if !frame.Time.IsZero() {
		raw.T = float64(frame.Time.UnixNano()) / float64(time.Second)
	}
	if frame.Hand != nil {
		var pts [landmark.NumHandPoints][3]float64
		for i, p := range frame.Hand {
			pts[i] = triple(p)
		}
		raw.Hand = &pts
	}
	if frame.Pose != nil {
		raw.Pose = &poseJSON{
			RightShoulder: triple(frame.Pose.RightShoulder),
			RightElbow:    triple(frame.Pose.RightElbow),
			RightWrist:    triple(frame.Pose.RightWrist),
			LeftShoulder:  triple(frame.Pose.LeftShoulder),
			RightHip:      triple(frame.Pose.RightHip),
		}
	}
	return json.Marshal(raw)
}
