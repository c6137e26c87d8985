package game

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		want    Action
		wantErr bool
	}{
		{"move_left", MoveLeft, false},
		{"move_right", MoveRight, false},
		{"rotate", Rotate, false},
		{"soft_drop", SoftDrop, false},
		{"hard_drop", HardDrop, false},
		{"pause", TogglePause, false},
		{"restart", Restart, false},
		{"none", ActionNone, true},
		{"jump", ActionNone, true},
		{"", ActionNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAction(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownAction) {
				t.Errorf("error should wrap ErrUnknownAction, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseAction(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestAction_JSON(t *testing.T) {
	var msg struct {
		Action Action `json:"action"`
	}
	if err := json.Unmarshal([]byte(`{"action":"hard_drop"}`), &msg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if msg.Action != HardDrop {
		t.Errorf("action = %v, want hard_drop", msg.Action)
	}

	if err := json.Unmarshal([]byte(`{"action":"fly"}`), &msg); err == nil {
		t.Error("unknown action should fail to decode")
	}

	out, err := json.Marshal(Event{Kind: EventGameOver, Score: 300})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"kind":"game_over","score":300}` {
		t.Errorf("event JSON = %s", out)
	}
}
