// Package main is a neonlink hook that posts a desktop notification when a
// game ends. It uses osascript on macOS and notify-send elsewhere.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

// Request represents the input from the hook executor.
type Request struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Response represents the output to the hook executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// gameOver is the subset of the game_over payload this hook reads.
type gameOver struct {
	Player       string `json:"player"`
	Score        int    `json:"score"`
	HighScore    int    `json:"high_score"`
	NewHighScore bool   `json:"new_high_score"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}
	if req.Event != "game_over" {
		writeResponse(nil)
		return
	}

	var g gameOver
	if len(req.Data) > 0 {
		if err := json.Unmarshal(req.Data, &g); err != nil {
			writeResponse(fmt.Errorf("failed to decode game: %w", err))
			return
		}
	}

	title, body := message(g)
	writeResponse(notify(title, body))
}

// message builds the notification text.
func message(g gameOver) (title, body string) {
	title = "Game over"
	if g.NewHighScore {
		title = "New high score!"
	}
	body = fmt.Sprintf("Score %d (best %d)", g.Score, g.HighScore)
	if g.Player != "" {
		body = g.Player + ": " + body
	}
	return title, body
}

func notify(title, body string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(body), strconv.Quote(title))
		cmd = exec.Command("osascript", "-e", script)
	default:
		cmd = exec.Command("notify-send", "--app-name=neonlink", title, body)
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", cmd.Path, err, out)
	}
	return nil
}

func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
