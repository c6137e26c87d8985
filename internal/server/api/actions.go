package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/neonlink/internal/game"
)

// ActionSink hands an action to the game loop. It reports false when the
// action was dropped.
type ActionSink func(game.Action) bool

// ActionHandler accepts discrete game actions over HTTP.
type ActionHandler struct {
	sink ActionSink
}

// NewActionHandler creates a new ActionHandler that forwards to sink.
func NewActionHandler(sink ActionSink) *ActionHandler {
	return &ActionHandler{sink: sink}
}

type actionRequest struct {
	Action game.Action `json:"action"`
}

type actionResponse struct {
	Action game.Action `json:"action"`
	Queued bool        `json:"queued"`
}

// ServeHTTP handles POST /api/actions with a body like {"action":"rotate"}.
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, game.ErrUnknownAction) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Action == game.ActionNone {
		writeError(w, http.StatusBadRequest, "action is required")
		return
	}

	queued := h.sink(req.Action)
	status := http.StatusAccepted
	if !queued {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, actionResponse{Action: req.Action, Queued: queued})
}
