package board

import (
	"github.com/samber/lo"

	"github.com/domino14/gambit/chess"
	"github.com/domino14/gambit/move"
)

type direction struct {
	dx, dy int8
}

var (
	knightOffsets = []direction{
		{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
	rookDirections   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirections = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	royalDirections  = append(append([]direction{}, rookDirections...), bishopDirections...)
)

// PossibleMoves returns every legal move for the side to move. A
// pseudo-legal move is kept iff the mover's king is not in check after it
// is played.
func (b *Board) PossibleMoves() []move.Move {
	mover := b.turn
	return lo.Filter(b.pseudoLegalMoves(), func(m move.Move, _ int) bool {
		nb := b.Branch(m)
		return !nb.IsCheck(mover)
	})
}

func (b *Board) pseudoLegalMoves() []move.Move {
	moves := make([]move.Move, 0, 48)
	for idx, p := range b.squares {
		if p.Empty() || p.Colour != b.turn {
			continue
		}
		pos := chess.PositionFromIndex(idx)
		moves = b.appendMoves(moves, pos, p.Kind, p.Colour)
		if p.Kind == chess.King {
			moves = b.appendCastling(moves, pos, p.Colour)
		}
	}
	return moves
}

// appendMoves appends the moves a piece of the given kind and colour would
// have from pos. The square does not need to hold that piece; check
// detection uses this to look outward from a king.
func (b *Board) appendMoves(moves []move.Move, pos chess.Position, kind chess.Kind, colour chess.Colour) []move.Move {
	switch kind {
	case chess.Pawn:
		return b.appendPawnMoves(moves, pos, colour)
	case chess.Knight:
		return b.appendRays(moves, pos, colour, knightOffsets, 1)
	case chess.Bishop:
		return b.appendRays(moves, pos, colour, bishopDirections, chess.Size-1)
	case chess.Rook:
		return b.appendRays(moves, pos, colour, rookDirections, chess.Size-1)
	case chess.Queen:
		return b.appendRays(moves, pos, colour, royalDirections, chess.Size-1)
	case chess.King:
		return b.appendRays(moves, pos, colour, royalDirections, 1)
	}
	return moves
}

func (b *Board) appendPawnMoves(moves []move.Move, pos chess.Position, colour chess.Colour) []move.Move {
	dir := pawnDirection(colour)
	one := pos.Offset(0, dir)
	if _, occupied := b.Get(one); !occupied && !one.OffBoard() {
		moves = b.appendPawnMove(moves, pos, one, colour)
		two := pos.Offset(0, 2*dir)
		if _, occupied := b.Get(two); !occupied && pos.Y == homeRank(colour)+dir {
			moves = append(moves, move.New(pos, two))
		}
	}
	for _, dx := range []int8{1, -1} {
		target := pos.Offset(dx, dir)
		if p, ok := b.Get(target); ok && p.Colour != colour {
			moves = b.appendPawnMove(moves, pos, target, colour)
		}
	}
	return moves
}

// appendPawnMove marks moves onto the last rank as queen promotions.
// Under-promotions are not generated.
func (b *Board) appendPawnMove(moves []move.Move, from, to chess.Position, colour chess.Colour) []move.Move {
	if to.Y != farthestRank(colour) {
		return append(moves, move.New(from, to))
	}
	return append(moves, move.NewPromotion(from, to, chess.Queen))
}

// appendRays casts along each direction up to distance squares, stopping at
// the edge or the first occupant. An enemy occupant is a capture.
func (b *Board) appendRays(moves []move.Move, pos chess.Position, colour chess.Colour,
	dirs []direction, distance int8) []move.Move {

	for _, d := range dirs {
		for i := int8(1); i <= distance; i++ {
			target := pos.Offset(d.dx*i, d.dy*i)
			if target.OffBoard() {
				break
			}
			p, occupied := b.Get(target)
			if !occupied {
				moves = append(moves, move.New(pos, target))
				continue
			}
			if p.Colour != colour {
				moves = append(moves, move.New(pos, target))
			}
			break
		}
	}
	return moves
}

// appendCastling adds the two-file king steps. The destination square is
// left to the legality filter; here we only check that the king is home,
// the flag is set, the rook is in its corner, the path is empty and neither
// the king's square nor the square it crosses is attacked.
func (b *Board) appendCastling(moves []move.Move, pos chess.Position, colour chess.Colour) []move.Move {
	rank := homeRank(colour)
	home := chess.NewPosition(4, rank)
	if pos != home {
		return moves
	}
	rook := chess.NewPiece(chess.Rook, colour)
	sides := []struct {
		kingSide bool
		corner   int8
		between  []int8
		transit  int8
	}{
		{true, 7, []int8{5, 6}, 5},
		{false, 0, []int8{1, 2, 3}, 3},
	}
	inCheck := false
	checked := false
	for _, side := range sides {
		if !b.CanCastle(colour, side.kingSide) {
			continue
		}
		if p, ok := b.Get(chess.NewPosition(side.corner, rank)); !ok || p != rook {
			continue
		}
		empty := lo.EveryBy(side.between, func(x int8) bool {
			_, occupied := b.Get(chess.NewPosition(x, rank))
			return !occupied
		})
		if !empty {
			continue
		}
		if !checked {
			inCheck = b.IsCheck(colour)
			checked = true
		}
		if inCheck {
			continue
		}
		transit := b.Branch(move.New(home, chess.NewPosition(side.transit, rank)))
		if transit.IsCheck(colour) {
			continue
		}
		to := chess.NewPosition(4-2, rank)
		if side.kingSide {
			to = chess.NewPosition(4+2, rank)
		}
		moves = append(moves, move.New(home, to))
	}
	return moves
}
