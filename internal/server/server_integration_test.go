package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/neonlink/internal/game"
	"github.com/ayusman/neonlink/internal/store"
)

func TestAPI_ScoresAndActions(t *testing.T) {
	// Setup
	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	for _, g := range []*store.Game{
		{Player: "a", Score: 100, Lines: 1},
		{Player: "b", Score: 700, Lines: 7},
	} {
		if err := s.Games().Create(g); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if err := s.Settings().SetHighScore(700); err != nil {
		t.Fatalf("SetHighScore() error = %v", err)
	}

	actions := make(chan game.Action, 1)
	srv := New(Config{Store: s, Actions: actions})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Scores
	resp, err := client.Get(ts.URL + "/api/scores")
	if err != nil {
		t.Fatalf("GET /api/scores error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var scores struct {
		HighScore int `json:"high_score"`
		Played    int `json:"played"`
		Games     []struct {
			Player string `json:"player"`
			Score  int    `json:"score"`
		} `json:"games"`
	}
	json.NewDecoder(resp.Body).Decode(&scores)
	resp.Body.Close()

	if scores.HighScore != 700 || scores.Played != 2 {
		t.Errorf("high_score=%d played=%d, want 700 and 2", scores.HighScore, scores.Played)
	}
	if len(scores.Games) != 2 || scores.Games[0].Player != "b" {
		t.Errorf("games = %+v, want b first", scores.Games)
	}

	// 2. Queue an action
	resp, err = client.Post(ts.URL+"/api/actions", "application/json", bytes.NewBufferString(`{"action":"rotate"}`))
	if err != nil {
		t.Fatalf("POST /api/actions error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusAccepted)
	}
	if a := <-actions; a != game.Rotate {
		t.Errorf("queued action = %s, want rotate", a)
	}

	// 3. A full channel drops
	actions <- game.MoveLeft
	resp, _ = client.Post(ts.URL+"/api/actions", "application/json", bytes.NewBufferString(`{"action":"rotate"}`))
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("POST on full channel status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}
}
