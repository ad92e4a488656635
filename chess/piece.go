package chess

import "fmt"

// Colour is the side a piece belongs to.
type Colour uint8

const (
	White Colour = iota
	Black
)

func (c Colour) Opposite() Colour {
	if c == White {
		return Black
	}
	return White
}

// Sign is +1 for White and -1 for Black.
func (c Colour) Sign() int {
	if c == White {
		return 1
	}
	return -1
}

func (c Colour) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// ColourFromString accepts "w", "white", "b" or "black".
func ColourFromString(s string) (Colour, error) {
	switch s {
	case "w", "white", "White", "W":
		return White, nil
	case "b", "black", "Black", "B":
		return Black, nil
	}
	return White, fmt.Errorf("unknown colour %q", s)
}

// Kind is a piece kind. NoKind is the zero value and marks an empty square
// or a move without a promotion.
type Kind uint8

const (
	NoKind Kind = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

var kindSymbols = [...]byte{'.', 'K', 'Q', 'R', 'B', 'N', 'P'}

// Symbol returns the upper-case letter for the kind.
func (k Kind) Symbol() byte {
	if int(k) >= len(kindSymbols) {
		return '?'
	}
	return kindSymbols[k]
}

func (k Kind) String() string {
	return string(k.Symbol())
}

// KindFromSymbol parses an upper- or lower-case piece letter.
func KindFromSymbol(c byte) (Kind, bool) {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	for i := King; i <= Pawn; i++ {
		if kindSymbols[i] == c {
			return i, true
		}
	}
	return NoKind, false
}

// Piece is an occupant of a square. The zero Piece is "no piece".
type Piece struct {
	Kind   Kind
	Colour Colour
}

func NewPiece(kind Kind, colour Colour) Piece {
	return Piece{Kind: kind, Colour: colour}
}

// Empty is true for the zero Piece.
func (p Piece) Empty() bool {
	return p.Kind == NoKind
}

// Symbol is the FEN letter: upper case for White, lower case for Black.
func (p Piece) Symbol() byte {
	s := p.Kind.Symbol()
	if p.Colour == Black && p.Kind != NoKind {
		s += 'a' - 'A'
	}
	return s
}

func (p Piece) String() string {
	return string(p.Symbol())
}

// PieceFromSymbol parses a FEN piece letter; case gives the colour.
func PieceFromSymbol(c byte) (Piece, bool) {
	colour := White
	if c >= 'a' && c <= 'z' {
		colour = Black
	}
	kind, ok := KindFromSymbol(c)
	if !ok {
		return Piece{}, false
	}
	return Piece{Kind: kind, Colour: colour}, true
}
