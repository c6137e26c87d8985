package game

// EventKind identifies a session event.
type EventKind int

const (
	// EventDrop is emitted whenever the piece is pushed down: a gravity
	// step, a soft drop or a hard drop.
	EventDrop EventKind = iota
	// EventClear is emitted when rows were cleared.
	EventClear
	// EventGameOver is emitted once per game, on the first frame after the loss.
	EventGameOver
	// EventRestart is emitted when a fresh game begins.
	EventRestart
	// EventPause is emitted when pause is toggled.
	EventPause
)

var eventNames = [...]string{"drop", "clear", "game_over", "restart", "pause"}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event reports something that happened during a frame.
type Event struct {
	Kind EventKind `json:"kind"`

	// Gravity marks a drop made by the fall timer (EventDrop).
	Gravity bool `json:"gravity,omitempty"`

	// Lines is the number of rows cleared (EventClear).
	Lines int `json:"lines,omitempty"`

	// Score, HighScore and NewHighScore describe the finished game (EventGameOver).
	Score        int  `json:"score,omitempty"`
	HighScore    int  `json:"high_score,omitempty"`
	NewHighScore bool `json:"new_high_score,omitempty"`

	// Paused is the new pause state (EventPause).
	Paused bool `json:"paused,omitempty"`

	Player string `json:"player,omitempty"`
}
