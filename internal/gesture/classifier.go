package gesture

import (
	"math"

	"github.com/ayusman/neonlink/internal/detector"
)

// ThumbExtensionThreshold is the minimum vertical distance, in normalized
// image units, between the thumb tip and its IP joint for the thumb to count
// as extended.
const ThumbExtensionThreshold = 0.05

// fingerOpen reports whether the finger points up and is straight: tip above
// PIP above MCP, strictly.
func fingerOpen(h *detector.HandLandmarks, f detector.Finger) bool {
	tip, pip, mcp := h.Points[f.Tip].Y, h.Points[f.PIP].Y, h.Points[f.MCP].Y
	return tip < pip && pip < mcp
}

// OpenFingers counts the open non-thumb fingers.
func OpenFingers(h *detector.HandLandmarks) int {
	n := 0
	for _, f := range detector.Fingers {
		if fingerOpen(h, f) {
			n++
		}
	}
	return n
}

func thumbUp(h *detector.HandLandmarks) bool {
	tip, ip := h.Points[detector.ThumbTip].Y, h.Points[detector.ThumbIP].Y
	extended := math.Abs(tip-ip) > ThumbExtensionThreshold
	return extended && tip < ip && tip < h.Points[detector.IndexMCP].Y
}

// Classify labels a single hand. It keeps no state between calls.
//
// Three or more open fingers is an open palm. With every finger curled the
// thumb decides between a thumbs up and a fist. One or two open fingers are
// ignored.
func Classify(h *detector.HandLandmarks) Gesture {
	if h == nil {
		return None
	}

	switch open := OpenFingers(h); {
	case open >= 3:
		return OpenPalm
	case open == 0:
		if thumbUp(h) {
			return ThumbUp
		}
		return ClosedFist
	default:
		return None
	}
}

// ClassifyHands labels a detection result. The last hand wins; no hands is
// None.
func ClassifyHands(hands []detector.HandLandmarks) Gesture {
	if len(hands) == 0 {
		return None
	}
	return Classify(&hands[len(hands)-1])
}
