// Package detector provides hand detection interfaces and landmark types for
// gesture classification.
package detector

import "image"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Finger groups the landmark indices of one non-thumb finger, base to tip.
type Finger struct {
	Name string
	MCP  int
	PIP  int
	Tip  int
}

// Fingers lists index, middle, ring and pinky.
var Fingers = [4]Finger{
	{Name: "index", MCP: IndexMCP, PIP: IndexPIP, Tip: IndexTip},
	{Name: "middle", MCP: MiddleMCP, PIP: MiddlePIP, Tip: MiddleTip},
	{Name: "ring", MCP: RingMCP, PIP: RingPIP, Tip: RingTip},
	{Name: "pinky", MCP: PinkyMCP, PIP: PinkyPIP, Tip: PinkyTip},
}

// Point3D represents a 3D point. X and Y are normalized to [0,1] image
// space with Y growing downward.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Pixel maps landmark i into pixel coordinates of a width x height frame.
func (h *HandLandmarks) Pixel(i, width, height int) image.Point {
	p := h.Points[i]
	return image.Point{
		X: int(p.X * float64(width)),
		Y: int(p.Y * float64(height)),
	}
}
