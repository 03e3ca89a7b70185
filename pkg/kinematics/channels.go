package kinematics

// Joint-angle channel indices. The order is fixed by the hand controller
// firmware: 16 finger channels, 3 wrist channels, 3 shoulder channels,
// then the elbow.
const (
	ChIndexCurl = iota
	ChIndexSplay
	ChIndexPIP
	ChMiddleCurl
	ChMiddleSplay
	ChMiddlePIP
	ChRingCurl
	ChRingSplay
	ChRingPIP
	ChPinkyCurl
	ChPinkySplay
	ChPinkyPIP
	ChThumbFlex
	ChThumbAbduct
	ChThumbIP
	ChThumbOppose
	ChWristFlex
	ChWristYaw
	ChWristRoll
	ChShoulderPitch
	ChShoulderYaw
	ChReserved // unused channel, always 0
	ChElbowFlex

	// NumChannels is the length of the joint-angle vector.
	NumChannels = 23
)

// JointAngles is the 23-channel command vector, in degrees. It is owned
// and mutated by a single processing loop; observers receive copies.
type JointAngles [NumChannels]float64
