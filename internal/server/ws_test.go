package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/neonlink/internal/game"
	"github.com/ayusman/neonlink/internal/gesture"
)

type fakeState struct {
	state game.State
}

func (f *fakeState) LatestState() game.State { return f.state }

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/state"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestStateHandler_BroadcastsState(t *testing.T) {
	source := &fakeState{state: game.State{Score: 1200, Lines: 12, Gesture: gesture.ThumbUp, Player: "brisk-heron"}}
	actions := make(chan game.Action, 4)

	srv := New(Config{State: source, Actions: actions})
	defer srv.Close()
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dial(t, ts)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}

	var got struct {
		Score   int    `json:"score"`
		Lines   int    `json:"lines"`
		Gesture string `json:"gesture"`
		Player  string `json:"player"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid state JSON: %v", err)
	}
	if got.Score != 1200 || got.Lines != 12 || got.Gesture != "THUMB_UP" || got.Player != "brisk-heron" {
		t.Errorf("state = %+v", got)
	}
}

func TestStateHandler_ForwardsActions(t *testing.T) {
	actions := make(chan game.Action, 4)

	srv := New(Config{State: &fakeState{}, Actions: actions})
	defer srv.Close()
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dial(t, ts)

	for _, msg := range []string{
		`{"action":"move_left"}`,
		`{"action":"warp"}`,
		`not json`,
		`{"action":"hard_drop"}`,
	} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatalf("WriteMessage() error = %v", err)
		}
	}

	want := []game.Action{game.MoveLeft, game.HardDrop}
	for i, w := range want {
		select {
		case a := <-actions:
			if a != w {
				t.Errorf("action %d = %s, want %s", i, a, w)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for action %d", i)
		}
	}
}

func TestStateHandler_DropsWhenFull(t *testing.T) {
	actions := make(chan game.Action, 1)
	h := NewStateHandler(&fakeState{}, func(a game.Action) bool {
		select {
		case actions <- a:
			return true
		default:
			return false
		}
	})
	defer h.Close()

	h.handleMessage([]byte(`{"action":"rotate"}`))
	// Must not block even though nobody drains the channel.
	done := make(chan struct{})
	go func() {
		h.handleMessage([]byte(`{"action":"rotate"}`))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handleMessage blocked on a full channel")
	}
	if len(actions) != 1 {
		t.Errorf("queued = %d, want 1", len(actions))
	}
}

func TestStateHandler_CloseDisconnects(t *testing.T) {
	srv := New(Config{State: &fakeState{}})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dial(t, ts)

	deadline := time.Now().Add(2 * time.Second)
	for srv.state.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	srv.Close()
	srv.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
