// Package tetris implements the falling-block rules engine: piece geometry,
// the locked-block grid, and the move/rotate/drop/lock state machine.
package tetris

import "fmt"

// Mask dimensions shared by every rotation state of every shape.
const (
	MaskRows = 6
	MaskCols = 5
)

// Mask is the cell occupancy of one rotation state.
type Mask [MaskRows][MaskCols]bool

// Shape identifies one of the seven tetromino kinds.
type Shape int

// Shapes in table order.
const (
	ShapeI Shape = iota
	ShapeO
	ShapeT
	ShapeS
	ShapeZ
	ShapeJ
	ShapeL
	NumShapes = 7
)

var shapeNames = [NumShapes]string{"I", "O", "T", "S", "Z", "J", "L"}

// String returns the single-letter name of the shape.
func (s Shape) String() string {
	if s < 0 || int(s) >= NumShapes {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// Color is an RGB cell color. The zero value is the empty-cell sentinel.
type Color struct {
	R, G, B uint8
}

// Empty marks an unoccupied grid cell.
var Empty = Color{}

// IsEmpty reports whether c is the empty sentinel.
func (c Color) IsEmpty() bool {
	return c == Empty
}

// Hex formats the color as #RRGGBB.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// MarshalText encodes the color as #RRGGBB so grids serialise compactly.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText parses a #RRGGBB color.
func (c *Color) UnmarshalText(text []byte) error {
	var r, g, b uint8
	if _, err := fmt.Sscanf(string(text), "#%02X%02X%02X", &r, &g, &b); err != nil {
		return fmt.Errorf("parse color %q: %w", text, err)
	}
	*c = Color{R: r, G: g, B: b}
	return nil
}

var shapeColors = [NumShapes]Color{
	{0, 255, 255}, // I cyan
	{255, 255, 0}, // O yellow
	{255, 0, 255}, // T purple
	{0, 255, 0},   // S green
	{255, 0, 0},   // Z red
	{0, 0, 255},   // J blue
	{255, 165, 0}, // L orange
}

// Color returns the color pieces of this shape are drawn and locked with.
func (s Shape) Color() Color {
	return shapeColors[s]
}

// shapeRows is the source geometry, one string per mask row.
var shapeRows = [NumShapes][][MaskRows]string{
	ShapeI: {
		{".....", "..#..", "..#..", "..#..", "..#..", "....."},
		{".....", ".....", "####.", ".....", ".....", "....."},
	},
	ShapeO: {
		{".....", ".....", "..##.", "..##.", ".....", "....."},
	},
	ShapeT: {
		{".....", ".....", "..#..", ".###.", ".....", "....."},
		{".....", "..#..", "..##.", "..#..", ".....", "....."},
		{".....", ".....", ".###.", "..#..", ".....", "....."},
		{".....", "..#..", ".##..", "..#..", ".....", "....."},
	},
	ShapeS: {
		{".....", ".....", ".##..", "..##.", ".....", "....."},
		{".....", "..#..", ".##..", ".#...", ".....", "....."},
	},
	ShapeZ: {
		{".....", ".....", "..##.", ".##..", ".....", "....."},
		{".....", ".#...", ".##..", "..#..", ".....", "....."},
	},
	ShapeJ: {
		{".....", ".....", ".###.", ".#...", ".....", "....."},
		{".....", ".##..", "..#..", "..#..", ".....", "....."},
		{".....", "...#.", ".###.", ".....", ".....", "....."},
		{".....", "..#..", "..#..", "...##", ".....", "....."},
	},
	ShapeL: {
		{".....", ".....", ".###.", "...#.", ".....", "....."},
		{".....", "..#..", "..#..", ".##..", ".....", "....."},
		{".....", ".#...", ".###.", ".....", ".....", "....."},
		{".....", "...##", "..#..", "..#..", ".....", "....."},
	},
}

// geometry is built once from shapeRows and never written afterwards.
var geometry = buildGeometry()

func buildGeometry() [NumShapes][]Mask {
	var table [NumShapes][]Mask
	for s, rotations := range shapeRows {
		masks := make([]Mask, len(rotations))
		for r, rows := range rotations {
			for i, line := range rows {
				for j, ch := range line {
					masks[r][i][j] = ch == '#'
				}
			}
		}
		table[s] = masks
	}
	return table
}

// RotationCount returns how many rotation states the shape cycles through.
func RotationCount(s Shape) int {
	return len(geometry[s])
}

// ShapeMask returns the mask for a shape at the given rotation index.
// The index is reduced modulo the shape's rotation count.
func ShapeMask(s Shape, rotation int) Mask {
	n := len(geometry[s])
	return geometry[s][((rotation%n)+n)%n]
}
