// Package hook runs external executables when game events happen, such as a
// desktop notification on game over.
package hook

import (
	"encoding/json"
	"slices"
	"time"
)

// ManifestFile is the manifest name expected in every hook directory.
const ManifestFile = "hook.json"

// Manifest describes a hook's metadata and the events it wants.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Events      []string `json:"events"`
}

// Request is written as JSON to the hook's stdin.
type Request struct {
	Event     string          `json:"event"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Response is read as JSON from the hook's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Hook is a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Wants reports whether the hook subscribed to event. "*" matches everything.
func (h *Hook) Wants(event string) bool {
	return slices.Contains(h.Manifest.Events, event) || slices.Contains(h.Manifest.Events, "*")
}
