package board

import (
	"github.com/domino14/gambit/chess"
)

// attackerKinds are tested by symmetry: a piece of kind k attacks the king
// iff a k placed on the king's square could capture it.
var attackerKinds = []chess.Kind{chess.Bishop, chess.Knight, chess.Queen, chess.Rook, chess.King}

// IsCheck reports whether any king of the given colour is attacked.
func (b *Board) IsCheck(c chess.Colour) bool {
	king := chess.NewPiece(chess.King, c)
	for idx, p := range b.squares {
		if p == king && b.isKingInCheck(chess.PositionFromIndex(idx)) {
			return true
		}
	}
	return false
}

func (b *Board) isKingInCheck(pos chess.Position) bool {
	king, ok := b.Get(pos)
	if !ok {
		return false
	}
	colour := king.Colour
	enemy := colour.Opposite()
	dir := pawnDirection(colour)
	enemyPawn := chess.NewPiece(chess.Pawn, enemy)
	for _, dx := range []int8{1, -1} {
		if p, ok := b.Get(pos.Offset(dx, dir)); ok && p == enemyPawn {
			return true
		}
	}
	for _, kind := range attackerKinds {
		attacker := chess.NewPiece(kind, enemy)
		for _, m := range b.appendMoves(nil, pos, kind, colour) {
			if p, ok := b.Get(m.To); ok && p == attacker {
				return true
			}
		}
	}
	return false
}
