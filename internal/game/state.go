package game

import (
	"time"

	"github.com/ayusman/neonlink/internal/gesture"
	"github.com/ayusman/neonlink/internal/tetris"
)

// PieceView describes a piece for renderers.
type PieceView struct {
	Shape    string         `json:"shape"`
	Rotation int            `json:"rotation"`
	X        int            `json:"x"`
	Y        int            `json:"y"`
	Color    tetris.Color   `json:"color"`
	Cells    []tetris.Point `json:"cells"`
	Mask     tetris.Mask    `json:"mask"`
}

func viewPiece(p *tetris.Piece) PieceView {
	return PieceView{
		Shape:    p.Shape().String(),
		Rotation: p.Rotation(),
		X:        p.X(),
		Y:        p.Y(),
		Color:    p.Color(),
		Cells:    p.Cells(),
		Mask:     p.Mask(),
	}
}

// State is a read-only copy of everything a renderer needs. It shares no
// memory with the session.
type State struct {
	Board     [][]tetris.Color `json:"board"`
	Piece     PieceView        `json:"piece"`
	Next      PieceView        `json:"next"`
	Score     int              `json:"score"`
	Lines     int              `json:"lines"`
	HighScore int              `json:"high_score"`
	Paused    bool             `json:"paused"`
	GameOver  bool             `json:"game_over"`
	Vibe      float64          `json:"vibe"`
	Gesture   gesture.Gesture  `json:"gesture"`
	Player    string           `json:"player"`
	ElapsedMs int64            `json:"elapsed_ms"`

	// Danger is set while the stack is high enough to slow gravity.
	Danger         bool  `json:"danger"`
	FallIntervalMs int64 `json:"fall_interval_ms"`
}

// State snapshots the session.
func (s *Session) State() State {
	e := s.engine
	return State{
		Board:     e.Grid().Rows(),
		Piece:     viewPiece(e.Current()),
		Next:      viewPiece(e.Next()),
		Score:     e.Score(),
		Lines:     e.Lines(),
		HighScore: s.highScore,
		Paused:    s.paused,
		GameOver:  e.GameOver(),
		Vibe:      s.vibe,
		Gesture:   s.gesture,
		Player:    s.config.Player,
		ElapsedMs: s.config.Now().Sub(s.startedAt).Milliseconds(),

		Danger:         s.Danger(),
		FallIntervalMs: s.FallInterval().Milliseconds(),
	}
}

// VisibleCells returns the current piece cells that lie inside the board.
func (v PieceView) VisibleCells() []tetris.Point {
	out := make([]tetris.Point, 0, len(v.Cells))
	for _, c := range v.Cells {
		if c.Y >= 0 && c.Y < tetris.Height && c.X >= 0 && c.X < tetris.Width {
			out = append(out, c)
		}
	}
	return out
}

// Elapsed returns the game time as a duration.
func (st State) Elapsed() time.Duration {
	return time.Duration(st.ElapsedMs) * time.Millisecond
}
