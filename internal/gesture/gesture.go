// Package gesture turns hand landmarks into the discrete control signal that
// drives the game.
package gesture

// Gesture is one per-frame control label.
type Gesture string

const (
	None       Gesture = "NONE"
	OpenPalm   Gesture = "OPEN_PALM"
	ClosedFist Gesture = "CLOSED_FIST"
	ThumbUp    Gesture = "THUMB_UP"
)

// All lists every label in display order.
var All = []Gesture{None, OpenPalm, ClosedFist, ThumbUp}

// Valid reports whether g is one of the known labels.
func (g Gesture) Valid() bool {
	switch g {
	case None, OpenPalm, ClosedFist, ThumbUp:
		return true
	}
	return false
}

func (g Gesture) String() string {
	return string(g)
}
