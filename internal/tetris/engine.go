package tetris

import (
	"math/rand"
	"time"
)

// PointsPerLine is the score awarded for each cleared row.
const PointsPerLine = 100

// Generator picks the shape of the next spawned piece.
type Generator func() Shape

// RandomGenerator draws shapes uniformly from r.
func RandomGenerator(r *rand.Rand) Generator {
	return func() Shape {
		return Shape(r.Intn(NumShapes))
	}
}

// SequenceGenerator cycles through the given shapes in order.
// With no shapes it always yields ShapeI.
func SequenceGenerator(shapes ...Shape) Generator {
	i := 0
	return func() Shape {
		if len(shapes) == 0 {
			return ShapeI
		}
		s := shapes[i%len(shapes)]
		i++
		return s
	}
}

// Engine is one game session. It is not safe for concurrent use; the main
// loop owns it exclusively.
type Engine struct {
	grid         *Grid
	current      *Piece
	next         *Piece
	gen          Generator
	score        int
	lines        int
	gameOver     bool
	deathHandled bool
}

// NewEngine starts a session with an empty grid. A nil generator picks
// shapes at random.
func NewEngine(gen Generator) *Engine {
	if gen == nil {
		gen = RandomGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	e := &Engine{
		grid: NewGrid(),
		gen:  gen,
	}
	e.current = e.spawn()
	e.next = e.spawn()
	return e
}

func (e *Engine) spawn() *Piece {
	return NewPiece(e.gen())
}

// Grid returns the locked-block grid. Callers must treat it as read-only.
func (e *Engine) Grid() *Grid { return e.grid }

// Current returns the falling piece. Callers must treat it as read-only.
func (e *Engine) Current() *Piece { return e.current }

// Next returns the piece that spawns after the current one locks.
func (e *Engine) Next() *Piece { return e.next }

// Score returns the accumulated score.
func (e *Engine) Score() int { return e.score }

// Lines returns the total number of rows cleared this session.
func (e *Engine) Lines() int { return e.lines }

// GameOver reports whether the session has ended.
func (e *Engine) GameOver() bool { return e.gameOver }

// AcknowledgeGameOver returns true exactly once, on the first call after
// the session has ended.
func (e *Engine) AcknowledgeGameOver() bool {
	if !e.gameOver || e.deathHandled {
		return false
	}
	e.deathHandled = true
	return true
}

// Move translates the current piece. An invalid move is reverted, and a
// reverted downward move locks the piece. Returns the rows cleared by
// that lock.
func (e *Engine) Move(dx, dy int) int {
	if e.gameOver {
		return 0
	}
	e.current.translate(dx, dy)
	if e.grid.IsValidPlacement(e.current) {
		return 0
	}
	e.current.translate(-dx, -dy)
	if dy > 0 {
		return e.lock()
	}
	return 0
}

// Fall is the timer-driven gravity step.
func (e *Engine) Fall() int {
	return e.Move(0, 1)
}

// Rotate advances the rotation state, reverting if the result collides.
func (e *Engine) Rotate() {
	if e.gameOver {
		return
	}
	e.current.rotate(1)
	if !e.grid.IsValidPlacement(e.current) {
		e.current.rotate(-1)
	}
}

// HardDrop moves the piece to its lowest valid position and locks it.
func (e *Engine) HardDrop() int {
	if e.gameOver {
		return 0
	}
	for e.grid.IsValidPlacement(e.current) {
		e.current.translate(0, 1)
	}
	e.current.translate(0, -1)
	return e.lock()
}

func (e *Engine) lock() int {
	e.grid.Lock(e.current)
	e.current = e.next
	e.next = e.spawn()

	cleared := e.grid.ClearFullRows()
	e.score += cleared * PointsPerLine
	e.lines += cleared

	if e.grid.IsTopRowOccupied() {
		e.gameOver = true
	}
	return cleared
}
