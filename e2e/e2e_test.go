package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/neonlink/internal/app"
	"github.com/ayusman/neonlink/internal/game"
	"github.com/ayusman/neonlink/internal/gesture"
	"github.com/ayusman/neonlink/internal/server"
	"github.com/ayusman/neonlink/internal/store"
	"github.com/ayusman/neonlink/internal/tetris"
)

type wireState struct {
	Score    int    `json:"score"`
	GameOver bool   `json:"game_over"`
	Paused   bool   `json:"paused"`
	Player   string `json:"player"`
	Piece    struct {
		X int `json:"x"`
	} `json:"piece"`
}

// readUntil reads state messages until cond holds.
func readUntil(t *testing.T, conn *websocket.Conn, cond func(wireState) bool) wireState {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}
		var st wireState
		if err := json.Unmarshal(data, &st); err != nil {
			t.Fatalf("invalid state: %v", err)
		}
		if cond(st) {
			return st
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, action string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"`+action+`"}`)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
}

func TestE2E_WebBoardGame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	application := app.New(app.Config{
		Store:        s,
		FallInterval: time.Hour,
		Player:       "e2e-runner",
		HookDir:      filepath.Join(tmpDir, "hooks"),
		Generator:    tetris.SequenceGenerator(tetris.ShapeO),
	})
	defer application.Stop()

	srv := server.New(server.Config{
		Store:   s,
		Frames:  application,
		State:   application,
		Actions: application.Actions(),
	})
	defer srv.Close()
	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loopDone := make(chan error, 1)
	go func() { loopDone <- application.Run(ctx, nil) }()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/state"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	first := readUntil(t, conn, func(wireState) bool { return true })
	if first.Player != "e2e-runner" {
		t.Errorf("player = %q, want e2e-runner", first.Player)
	}

	t.Run("MoveLeft", func(t *testing.T) {
		send(t, conn, "move_left")
		readUntil(t, conn, func(st wireState) bool { return st.Piece.X == first.Piece.X-1 })
	})

	t.Run("PauseIgnoresMoves", func(t *testing.T) {
		send(t, conn, "pause")
		paused := readUntil(t, conn, func(st wireState) bool { return st.Paused })
		send(t, conn, "move_left")
		time.Sleep(100 * time.Millisecond)
		st := readUntil(t, conn, func(wireState) bool { return true })
		if st.Piece.X != paused.Piece.X {
			t.Errorf("piece moved while paused: %d -> %d", paused.Piece.X, st.Piece.X)
		}
		send(t, conn, "pause")
		readUntil(t, conn, func(st wireState) bool { return !st.Paused })
	})

	t.Run("PlayToGameOver", func(t *testing.T) {
		deadline := time.Now().Add(10 * time.Second)
		for !application.LatestState().GameOver && time.Now().Before(deadline) {
			send(t, conn, "hard_drop")
			time.Sleep(40 * time.Millisecond)
		}
		readUntil(t, conn, func(st wireState) bool { return st.GameOver })
	})

	t.Run("ScoresRecorded", func(t *testing.T) {
		resp, err := ts.Client().Get(ts.URL + "/api/scores")
		if err != nil {
			t.Fatalf("GET /api/scores error = %v", err)
		}
		defer resp.Body.Close()

		var scores struct {
			Played int `json:"played"`
			Games  []struct {
				Player string `json:"player"`
			} `json:"games"`
		}
		json.NewDecoder(resp.Body).Decode(&scores)
		if scores.Played != 1 || len(scores.Games) != 1 || scores.Games[0].Player != "e2e-runner" {
			t.Errorf("scores = %+v, want one game by e2e-runner", scores)
		}
	})

	t.Run("Restart", func(t *testing.T) {
		send(t, conn, "restart")
		readUntil(t, conn, func(st wireState) bool { return !st.GameOver })
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, _ := ts.Client().Get(ts.URL + "/api/health")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after playing")
		}
		resp.Body.Close()
	})

	cancel()
	select {
	case err := <-loopDone:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("game loop did not stop")
	}
}

func TestE2E_HighScorePersists(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	dbPath := filepath.Join(t.TempDir(), "data.db")

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	if err := s.Settings().SetHighScore(2500); err != nil {
		t.Fatalf("SetHighScore() error = %v", err)
	}
	s.Close()

	// A new process sees the saved score.
	s, err = store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	application := app.New(app.Config{Store: s, Player: "returning"})
	defer application.Stop()

	if got := application.LatestState().HighScore; got != 2500 {
		t.Errorf("high score = %d, want 2500", got)
	}

	// A lost game below the record leaves it alone.
	sess := game.New(game.Config{HighScores: s.Settings(), Games: s.Games(), Generator: tetris.SequenceGenerator(tetris.ShapeO)})
	for i := 0; i < 50 && !sess.Engine().GameOver(); i++ {
		sess.HandleAction(game.HardDrop)
	}
	sess.Tick(time.Millisecond, gesture.None)
	if hs, _ := s.Settings().HighScore(); hs != 2500 {
		t.Errorf("stored high score = %d, want 2500", hs)
	}
}
