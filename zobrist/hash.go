package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/gambit/board"
	"github.com/domino14/gambit/chess"
)

const bignum = 1<<63 - 2

// pieceKinds is the number of distinct non-empty kinds; a table row holds
// one slot per kind and colour.
const pieceKinds = 6

// Zobrist hashes chess positions.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	blackToMove uint64

	posTable  [chess.NumSquares][pieceKinds * 2]uint64
	castling  [4]uint64
	enPassant [chess.Size]uint64
}

func (z *Zobrist) Initialize() {
	for i := range z.posTable {
		for j := range z.posTable[i] {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
	for i := range z.castling {
		z.castling[i] = frand.Uint64n(bignum) + 1
	}
	for i := range z.enPassant {
		z.enPassant[i] = frand.Uint64n(bignum) + 1
	}
	z.blackToMove = frand.Uint64n(bignum) + 1
}

func pieceSlot(p chess.Piece) int {
	slot := int(p.Kind) - 1
	if p.Colour == chess.Black {
		slot += pieceKinds
	}
	return slot
}

// Hash returns the key for a board. Move counters are not part of the key.
func (z *Zobrist) Hash(b *board.Board) uint64 {
	key := uint64(0)
	b.Pieces(func(pos chess.Position, p chess.Piece) {
		idx, _ := pos.Index()
		key ^= z.posTable[idx][pieceSlot(p)]
	})
	flags := [4]bool{
		b.CanCastle(chess.White, true), b.CanCastle(chess.White, false),
		b.CanCastle(chess.Black, true), b.CanCastle(chess.Black, false),
	}
	for i, f := range flags {
		if f {
			key ^= z.castling[i]
		}
	}
	if ep, ok := b.EnPassant(); ok && !ep.OffBoard() {
		key ^= z.enPassant[ep.X]
	}
	if b.Turn() == chess.Black {
		key ^= z.blackToMove
	}
	return key
}
