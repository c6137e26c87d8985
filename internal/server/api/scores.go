package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/neonlink/internal/store"
)

// MaxScoresLimit caps ?limit on /api/scores.
const MaxScoresLimit = 100

// ScoresHandler serves the high score and the best recorded games.
type ScoresHandler struct {
	store *store.Store
}

// NewScoresHandler creates a new ScoresHandler with the given store.
func NewScoresHandler(s *store.Store) *ScoresHandler {
	return &ScoresHandler{store: s}
}

type gameResponse struct {
	ID         string `json:"id"`
	Player     string `json:"player"`
	Score      int    `json:"score"`
	Lines      int    `json:"lines"`
	DurationMs int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

type scoresResponse struct {
	HighScore int            `json:"high_score"`
	Played    int            `json:"played"`
	Games     []gameResponse `json:"games"`
}

func toGameResponse(g *store.Game) gameResponse {
	return gameResponse{
		ID:         g.ID,
		Player:     g.Player,
		Score:      g.Score,
		Lines:      g.Lines,
		DurationMs: g.DurationMs,
		CreatedAt:  g.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ServeHTTP handles GET /api/scores?limit=N.
func (h *ScoresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxScoresLimit)
	}

	high, err := h.store.Settings().HighScore()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load high score")
		return
	}

	games, err := h.store.Games().Top(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list games")
		return
	}

	played, err := h.store.Games().Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count games")
		return
	}

	response := scoresResponse{
		HighScore: high,
		Played:    played,
		Games:     make([]gameResponse, 0, len(games)),
	}
	for _, g := range games {
		response.Games = append(response.Games, toGameResponse(g))
	}

	writeJSON(w, http.StatusOK, response)
}
