package game

import (
	"errors"
	"fmt"
)

// Action is a discrete player command from the keyboard or the web board.
type Action int

const (
	ActionNone Action = iota
	MoveLeft
	MoveRight
	Rotate
	SoftDrop
	HardDrop
	TogglePause
	Restart
)

// ErrUnknownAction is returned when parsing an unrecognised action name.
var ErrUnknownAction = errors.New("unknown action")

var actionNames = map[Action]string{
	ActionNone:  "none",
	MoveLeft:    "move_left",
	MoveRight:   "move_right",
	Rotate:      "rotate",
	SoftDrop:    "soft_drop",
	HardDrop:    "hard_drop",
	TogglePause: "pause",
	Restart:     "restart",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction maps a wire name such as "move_left" to its Action.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name && a != ActionNone {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// gameplay reports whether a moves or drops the current piece.
func (a Action) gameplay() bool {
	switch a {
	case MoveLeft, MoveRight, Rotate, SoftDrop, HardDrop:
		return true
	}
	return false
}
