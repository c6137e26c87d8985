package tetris

// Offsets applied when expanding a mask into grid coordinates. They center
// the visible 4x4 area on the anchor and leave the top mask rows above row 0.
const (
	offsetX = 2
	offsetY = 4
)

// Spawn anchor shared by every new piece.
const (
	SpawnX = Width/2 - 2
	SpawnY = 0
)

// Point is a grid coordinate. Y grows downward and may be negative above
// the visible grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Piece is a falling tetromino.
type Piece struct {
	shape    Shape
	rotation int
	x, y     int
}

// NewPiece creates a piece of the given shape at the spawn anchor.
func NewPiece(s Shape) *Piece {
	return &Piece{
		shape: s,
		x:     SpawnX,
		y:     SpawnY,
	}
}

// Shape returns the piece's shape.
func (p *Piece) Shape() Shape { return p.shape }

// Rotation returns the current rotation index.
func (p *Piece) Rotation() int { return p.rotation }

// X returns the anchor column.
func (p *Piece) X() int { return p.x }

// Y returns the anchor row.
func (p *Piece) Y() int { return p.y }

// Color returns the color derived from the piece's shape.
func (p *Piece) Color() Color { return p.shape.Color() }

// Mask returns the occupancy mask of the current rotation.
func (p *Piece) Mask() Mask { return ShapeMask(p.shape, p.rotation) }

// Cells expands the current mask into absolute grid coordinates.
func (p *Piece) Cells() []Point {
	mask := p.Mask()
	cells := make([]Point, 0, 4)
	for i := 0; i < MaskRows; i++ {
		for j := 0; j < MaskCols; j++ {
			if mask[i][j] {
				cells = append(cells, Point{X: p.x + j - offsetX, Y: p.y + i - offsetY})
			}
		}
	}
	return cells
}

func (p *Piece) translate(dx, dy int) {
	p.x += dx
	p.y += dy
}

func (p *Piece) rotate(step int) {
	n := RotationCount(p.shape)
	p.rotation = ((p.rotation+step)%n + n) % n
}
