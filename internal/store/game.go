package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Game is one finished game.
type Game struct {
	ID         string    `json:"id"`
	Player     string    `json:"player"`
	Score      int       `json:"score"`
	Lines      int       `json:"lines"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// GameRepository records and ranks finished games.
type GameRepository struct {
	db *sql.DB
}

// Games returns the game repository for this store.
func (s *Store) Games() *GameRepository {
	return &GameRepository{db: s.db}
}

// Create inserts g, assigning an ID when it has none and stamping CreatedAt.
func (r *GameRepository) Create(g *Game) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	g.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO games (id, player, score, lines, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.Player, g.Score, g.Lines, g.DurationMs, g.CreatedAt,
	)
	return err
}

// Top returns up to limit games, best score first. Ties go to the game recorded first.
func (r *GameRepository) Top(limit int) ([]*Game, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(
		`SELECT id, player, score, lines, duration_ms, created_at
		 FROM games ORDER BY score DESC, rowid ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*Game
	for rows.Next() {
		g := &Game{}
		if err := rows.Scan(&g.ID, &g.Player, &g.Score, &g.Lines, &g.DurationMs, &g.CreatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}

	return games, rows.Err()
}

// Count returns the number of recorded games.
func (r *GameRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM games`).Scan(&n)
	return n, err
}
