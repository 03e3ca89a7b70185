// Package telehand drives a robotic hand from camera-derived body and
// hand keypoints.
//
// An external perception process (camera + landmark detector) streams
// hand and pose landmark sets to this module, which converts them into a
// 23-channel joint-angle command stream and sends it over a serial link
// to the hand microcontroller.
//
// # Installation
//
//	go install github.com/jwiersma/telehand/cmd/telehand@latest
//
// # Usage
//
// First, run setup to pick the serial port and transmit rate:
//
//	telehand setup
//
// Then start the pipeline (with a live detector feeding UDP, or a
// recording):
//
//	telehand run
//	telehand run --replay session.jsonl --loop
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/telehand: CLI with run, setup and ports commands
//   - pkg/landmark: hand and pose landmark types
//   - pkg/kinematics: landmark normalization and joint-angle extraction
//   - pkg/filter: temporal smoothing of the angle vector
//   - pkg/wire: the 28-byte checksummed command frame
//   - pkg/transmit: rate-limited serial transmission
//   - pkg/perception: frame sources (UDP, JSONL replay)
//   - pkg/pilot: the processing-loop controller
package telehand
