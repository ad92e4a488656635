package chess

import "fmt"

const (
	// Size is the number of files (and ranks) on the board.
	Size = 8
	// NumSquares is Size*Size.
	NumSquares = Size * Size
)

// Position is a square, X being the file (0 = a) and Y the rank (0 = 1).
// Positions may lie off the board; move generation relies on that.
type Position struct {
	X int8
	Y int8
}

func NewPosition(x, y int8) Position {
	return Position{X: x, Y: y}
}

// PositionFromIndex is the inverse of Index.
func PositionFromIndex(idx int) Position {
	return Position{X: int8(idx % Size), Y: int8(idx / Size)}
}

func (p Position) OffBoard() bool {
	return p.X < 0 || p.Y < 0 || p.X >= Size || p.Y >= Size
}

// Index returns x+8y, or false if the position is off the board.
func (p Position) Index() (int, bool) {
	if p.OffBoard() {
		return 0, false
	}
	return int(p.X) + int(p.Y)*Size, true
}

// Offset returns the position shifted by (dx, dy).
func (p Position) Offset(dx, dy int8) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// String is the algebraic name (e.g. "e4"), or "-" off the board.
func (p Position) String() string {
	if p.OffBoard() {
		return "-"
	}
	return string([]byte{byte('a' + p.X), byte('1' + p.Y)})
}

// ParsePosition parses an algebraic square such as "e4".
func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("bad square %q", s)
	}
	p := Position{X: int8(s[0]) - 'a', Y: int8(s[1]) - '1'}
	if p.OffBoard() {
		return Position{}, fmt.Errorf("bad square %q", s)
	}
	return p, nil
}
