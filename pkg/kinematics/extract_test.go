package kinematics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jwiersma/telehand/pkg/landmark"
)

// testHand returns a spread right hand, palm toward the camera, fingers
// up, wrist near the bottom of the image. Geometry is loose but
// non-degenerate for every channel formula.
func testHand() *landmark.Hand {
	var h landmark.Hand
	h[landmark.Wrist] = r3.Vec{X: 0.5, Y: 0.8, Z: 0}

	finger := func(baseX float64) [4]r3.Vec {
		return [4]r3.Vec{
			{X: baseX, Y: 0.6, Z: -0.01},
			{X: baseX, Y: 0.5, Z: -0.02},
			{X: baseX, Y: 0.42, Z: -0.03},
			{X: baseX, Y: 0.35, Z: -0.04},
		}
	}

	copyChain := func(start int, pts [4]r3.Vec) {
		for i, p := range pts {
			h[start+i] = p
		}
	}
	copyChain(landmark.IndexMCP, finger(0.42))
	copyChain(landmark.MiddleMCP, finger(0.48))
	copyChain(landmark.RingMCP, finger(0.54))
	copyChain(landmark.PinkyMCP, finger(0.60))

	// Thumb chain sticks out sideways.
	h[landmark.ThumbCMC] = r3.Vec{X: 0.44, Y: 0.74, Z: -0.01}
	h[landmark.ThumbMCP] = r3.Vec{X: 0.38, Y: 0.68, Z: -0.02}
	h[landmark.ThumbIP] = r3.Vec{X: 0.34, Y: 0.62, Z: -0.03}
	h[landmark.ThumbTip] = r3.Vec{X: 0.31, Y: 0.57, Z: -0.04}
	return &h
}

func testPose() *landmark.Pose {
	return &landmark.Pose{
		RightShoulder: r3.Vec{X: 0, Y: 0, Z: 0},
		RightElbow:    r3.Vec{X: 0.05, Y: -0.3, Z: 0.1},
		RightWrist:    r3.Vec{X: 0.1, Y: -0.55, Z: 0.15},
		LeftShoulder:  r3.Vec{X: -0.35, Y: 0, Z: 0},
		RightHip:      r3.Vec{X: 0.02, Y: -0.5, Z: 0.02},
	}
}

func TestExtract_ReservedChannelStaysZero(t *testing.T) {
	var j JointAngles
	j[ChReserved] = 42 // garbage in
	Extract(&j, landmark.Frame{Hand: testHand(), Pose: testPose()})
	if j[ChReserved] != 0 {
		t.Errorf("reserved channel = %f, want 0", j[ChReserved])
	}
}

func TestExtract_HandOnlyLeavesPoseChannels(t *testing.T) {
	var j JointAngles
	for i := range j {
		j[i] = 99
	}
	Extract(&j, landmark.Frame{Hand: testHand()})

	// Finger channels and wrist roll refresh.
	for _, ch := range []int{ChIndexCurl, ChThumbFlex, ChWristRoll} {
		if j[ch] == 99 {
			t.Errorf("channel %d not updated on hand-only frame", ch)
		}
	}
	// Channels needing the pose keep their prior values.
	for _, ch := range []int{ChWristFlex, ChWristYaw, ChShoulderPitch, ChShoulderYaw, ChElbowFlex} {
		if j[ch] != 99 {
			t.Errorf("channel %d = %f, want prior value 99", ch, j[ch])
		}
	}
}

func TestExtract_PoseOnlyLeavesHandChannels(t *testing.T) {
	var j JointAngles
	for i := range j {
		j[i] = 99
	}
	Extract(&j, landmark.Frame{Pose: testPose()})

	for ch := ChIndexCurl; ch <= ChWristRoll; ch++ {
		if j[ch] != 99 {
			t.Errorf("hand channel %d = %f, want prior value 99", ch, j[ch])
		}
	}
	for _, ch := range []int{ChShoulderPitch, ChShoulderYaw, ChElbowFlex} {
		if j[ch] == 99 {
			t.Errorf("pose channel %d not updated", ch)
		}
	}
}

func TestExtract_ThumbGain(t *testing.T) {
	h := testHand()
	norm := Normalize(*h)
	raw := Angle(norm[landmark.ThumbCMC], norm[landmark.ThumbMCP], norm[landmark.ThumbIP])

	var j JointAngles
	Extract(&j, landmark.Frame{Hand: h})
	if math.Abs(j[ChThumbFlex]-raw*thumbGain) > 1e-9 {
		t.Errorf("thumb flex = %f, want %f (raw %f x gain %v)", j[ChThumbFlex], raw*thumbGain, raw, thumbGain)
	}
}

func TestWristRoll(t *testing.T) {
	tests := []struct {
		name         string
		index, pinky r3.Vec
		expected     float64
	}{
		{
			// index right of pinky, both level: palm toward camera.
			name:  "palm forward",
			index: r3.Vec{X: 1}, pinky: r3.Vec{X: -1},
			expected: 90,
		},
		{
			// Mirrored hand: the X-sign branch unwraps to the other
			// half turn.
			name:  "palm backward",
			index: r3.Vec{X: -1}, pinky: r3.Vec{X: 1},
			expected: 270,
		},
	}

	for _, tt := range tests {
		var h landmark.Hand
		h[landmark.IndexMCP] = tt.index
		h[landmark.PinkyMCP] = tt.pinky
		got := wristRoll(&h)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("%s: wristRoll = %f, want %f", tt.name, got, tt.expected)
		}
	}
}

func TestWristRoll_Range(t *testing.T) {
	// Sweep the index MCP around the pinky: result always in [0, 360).
	for i := 0; i < 72; i++ {
		theta := float64(i) * math.Pi / 36
		var h landmark.Hand
		h[landmark.PinkyMCP] = r3.Vec{}
		h[landmark.IndexMCP] = r3.Vec{X: math.Cos(theta), Z: math.Sin(theta)}
		got := wristRoll(&h)
		if got < 0 || got >= 360 || math.IsNaN(got) {
			t.Fatalf("wristRoll at %d deg = %f, want [0, 360)", i*5, got)
		}
	}
}

func TestExtractArm_ElbowStraight(t *testing.T) {
	p := &landmark.Pose{
		RightShoulder: r3.Vec{},
		RightElbow:    r3.Vec{X: 1},
		RightWrist:    r3.Vec{X: 2},
		LeftShoulder:  r3.Vec{X: -1},
		RightHip:      r3.Vec{Y: -1},
	}
	var j JointAngles
	extractArm(&j, p)
	if math.Abs(j[ChElbowFlex]) > 1e-9 {
		t.Errorf("straight arm elbow flex = %f, want 0", j[ChElbowFlex])
	}
}

func TestExtractArm_YawCutoffFrontal(t *testing.T) {
	// Arm hanging nearly straight down: yaw well under the cutoff, so
	// pitch must come from the Z-Y projection.
	p := &landmark.Pose{
		RightShoulder: r3.Vec{},
		RightElbow:    r3.Vec{X: 0.1, Y: -1, Z: 1},
		RightWrist:    r3.Vec{X: 0.1, Y: -2, Z: 2},
		LeftShoulder:  r3.Vec{X: -1},
		RightHip:      r3.Vec{Y: -1},
	}
	var j JointAngles
	extractArm(&j, p)

	if j[ChShoulderYaw] >= yawCutoff {
		t.Fatalf("test geometry broken: yaw = %f, want < %v", j[ChShoulderYaw], yawCutoff)
	}
	want := Angle(zy(p.RightHip), zy(p.RightShoulder), zy(p.RightElbow))
	if math.Abs(j[ChShoulderPitch]-want) > 1e-9 {
		t.Errorf("frontal pitch = %f, want %f", j[ChShoulderPitch], want)
	}
}

func TestExtractArm_YawCutoffLateral(t *testing.T) {
	// Arm raised sideways: yaw near 90, so pitch uses the opposite
	// shoulder in the X-Z plane.
	p := &landmark.Pose{
		RightShoulder: r3.Vec{},
		RightElbow:    r3.Vec{X: 1},
		RightWrist:    r3.Vec{X: 2},
		LeftShoulder:  r3.Vec{X: -1},
		RightHip:      r3.Vec{Y: -1},
	}
	var j JointAngles
	extractArm(&j, p)

	if j[ChShoulderYaw] < yawCutoff || j[ChShoulderYaw] > 180-yawCutoff {
		t.Fatalf("test geometry broken: yaw = %f", j[ChShoulderYaw])
	}
	// Elbow, shoulder and opposite shoulder are collinear on the X
	// axis: the lateral formula reads 180 - 180 = 0.
	if math.Abs(j[ChShoulderPitch]) > 1e-9 {
		t.Errorf("lateral pitch = %f, want 0", j[ChShoulderPitch])
	}
}

func TestExtractWrist_UsesPoseAnchor(t *testing.T) {
	h := testHand()
	p := testPose()
	var j JointAngles
	extractWrist(&j, h, p)

	if math.IsNaN(j[ChWristFlex]) || math.IsNaN(j[ChWristYaw]) {
		t.Fatalf("wrist channels NaN: flex=%f yaw=%f", j[ChWristFlex], j[ChWristYaw])
	}
	// Flex carries the -30 offset, so its floor is -30, not 0.
	if j[ChWristFlex] < -wristFlexOffset || j[ChWristFlex] > 180-wristFlexOffset {
		t.Errorf("wrist flex = %f outside [-30, 150]", j[ChWristFlex])
	}
	if j[ChWristYaw] < 0 || j[ChWristYaw] > 180 {
		t.Errorf("wrist yaw = %f outside [0, 180]", j[ChWristYaw])
	}

	// Translating the whole pose must not change the result: only the
	// relative geometry matters.
	shift := r3.Vec{X: 3, Y: -2, Z: 5}
	shifted := &landmark.Pose{
		RightShoulder: r3.Add(p.RightShoulder, shift),
		RightElbow:    r3.Add(p.RightElbow, shift),
		RightWrist:    r3.Add(p.RightWrist, shift),
		LeftShoulder:  r3.Add(p.LeftShoulder, shift),
		RightHip:      r3.Add(p.RightHip, shift),
	}
	var j2 JointAngles
	extractWrist(&j2, h, shifted)
	if math.Abs(j[ChWristFlex]-j2[ChWristFlex]) > 1e-9 {
		t.Errorf("wrist flex changed under pose translation: %f vs %f", j[ChWristFlex], j2[ChWristFlex])
	}
}
