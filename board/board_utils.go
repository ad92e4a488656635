package board

import (
	"strings"

	"github.com/domino14/gambit/chess"
)

// ToDisplayText renders the board rank 8 first, for shells and debug logs.
func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for y := int8(chess.Size - 1); y >= 0; y-- {
		sb.WriteByte(byte('1' + y))
		sb.WriteString(" |")
		for x := int8(0); x < chess.Size; x++ {
			p, ok := b.Get(chess.NewPosition(x, y))
			if ok {
				sb.WriteByte(p.Symbol())
			} else {
				sb.WriteByte('.')
			}
			sb.WriteByte(' ')
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   a b c d e f g h\n")
	sb.WriteString(b.turn.String() + " to move\n")
	return sb.String()
}

// Pieces calls fn for every occupied square, a1 first.
func (b *Board) Pieces(fn func(pos chess.Position, p chess.Piece)) {
	for idx, p := range b.squares {
		if !p.Empty() {
			fn(chess.PositionFromIndex(idx), p)
		}
	}
}
