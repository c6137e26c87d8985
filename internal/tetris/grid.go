package tetris

// Playfield dimensions.
const (
	Width  = 10
	Height = 20
)

// Grid holds the locked blocks of one game session.
type Grid struct {
	cells [Height][Width]Color
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{}
}

// Cell returns the color at (x, y), or Empty outside the grid.
func (g *Grid) Cell(x, y int) Color {
	if !inBounds(x, y) {
		return Empty
	}
	return g.cells[y][x]
}

// Rows returns a copy of the grid, top row first.
func (g *Grid) Rows() [][]Color {
	rows := make([][]Color, Height)
	for y := range g.cells {
		row := make([]Color, Width)
		copy(row, g.cells[y][:])
		rows[y] = row
	}
	return rows
}

func inBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// IsCellFree reports whether a piece cell may occupy (x, y). Cells above
// the grid are always free.
func (g *Grid) IsCellFree(x, y int) bool {
	if y < 0 {
		return true
	}
	if !inBounds(x, y) {
		return false
	}
	return g.cells[y][x].IsEmpty()
}

// IsValidPlacement reports whether every cell of p is free.
func (g *Grid) IsValidPlacement(p *Piece) bool {
	for _, c := range p.Cells() {
		if !g.IsCellFree(c.X, c.Y) {
			return false
		}
	}
	return true
}

// Lock writes p into the grid. Cells above row 0 are dropped.
func (g *Grid) Lock(p *Piece) {
	color := p.Color()
	for _, c := range p.Cells() {
		if inBounds(c.X, c.Y) {
			g.cells[c.Y][c.X] = color
		}
	}
}

func (g *Grid) rowFull(y int) bool {
	for x := 0; x < Width; x++ {
		if g.cells[y][x].IsEmpty() {
			return false
		}
	}
	return true
}

// ClearFullRows empties every full row and returns how many there were.
//
// Gravity is applied in one batch: every row above the topmost cleared row
// moves down by the total number of cleared rows, moving only non-empty
// cells. Rows sitting between two non-adjacent cleared rows are not moved
// and may be overwritten by the shifted blocks.
func (g *Grid) ClearFullRows() int {
	cleared := 0
	topmost := -1
	for y := Height - 1; y >= 0; y-- {
		if !g.rowFull(y) {
			continue
		}
		cleared++
		topmost = y
		for x := 0; x < Width; x++ {
			g.cells[y][x] = Empty
		}
	}

	if cleared == 0 {
		return 0
	}

	for y := topmost - 1; y >= 0; y-- {
		for x := 0; x < Width; x++ {
			if g.cells[y][x].IsEmpty() {
				continue
			}
			g.cells[y+cleared][x] = g.cells[y][x]
			g.cells[y][x] = Empty
		}
	}

	return cleared
}

// IsTopRowOccupied reports the loss condition: any block in row 0.
func (g *Grid) IsTopRowOccupied() bool {
	for x := 0; x < Width; x++ {
		if !g.cells[0][x].IsEmpty() {
			return true
		}
	}
	return false
}

// TopRow returns the index of the highest row holding a block, or Height
// when the grid is empty.
func (g *Grid) TopRow() int {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if !g.cells[y][x].IsEmpty() {
				return y
			}
		}
	}
	return Height
}
