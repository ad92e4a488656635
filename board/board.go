package board

import (
	"github.com/domino14/gambit/chess"
	"github.com/domino14/gambit/move"
)

// Board is a chess position. It is a plain value: copying a Board copies
// the whole position, which is what Branch relies on to keep sibling search
// lines independent.
type Board struct {
	squares [chess.NumSquares]chess.Piece
	turn    chess.Colour

	castleWhiteKingSide  bool
	castleWhiteQueenSide bool
	castleBlackKingSide  bool
	castleBlackQueenSide bool

	// The en-passant target is kept for FEN fidelity only; move generation
	// never produces en-passant captures.
	enPassant    chess.Position
	hasEnPassant bool

	halfMoveClock  int
	fullMoveNumber int
}

// NewBoard returns an empty board with White to move and no castling rights.
func NewBoard() Board {
	return Board{turn: chess.White, fullMoveNumber: 1}
}

var backRank = [chess.Size]chess.Kind{
	chess.Rook, chess.Knight, chess.Bishop, chess.Queen,
	chess.King, chess.Bishop, chess.Knight, chess.Rook,
}

// StartingBoard returns the standard initial position.
func StartingBoard() Board {
	b := NewBoard()
	for x := int8(0); x < chess.Size; x++ {
		b.PlacePiece(x, 0, chess.NewPiece(backRank[x], chess.White))
		b.PlacePiece(x, 1, chess.NewPiece(chess.Pawn, chess.White))
		b.PlacePiece(x, 6, chess.NewPiece(chess.Pawn, chess.Black))
		b.PlacePiece(x, 7, chess.NewPiece(backRank[x], chess.Black))
	}
	b.SetCastling(true, true, true, true)
	return b
}

// Get returns the piece on pos. Off-board positions and empty squares
// yield false.
func (b *Board) Get(pos chess.Position) (chess.Piece, bool) {
	idx, ok := pos.Index()
	if !ok {
		return chess.Piece{}, false
	}
	p := b.squares[idx]
	return p, !p.Empty()
}

// set writes p (possibly the empty piece) to pos and returns what was there.
func (b *Board) set(pos chess.Position, p chess.Piece) chess.Piece {
	idx, ok := pos.Index()
	if !ok {
		return chess.Piece{}
	}
	old := b.squares[idx]
	b.squares[idx] = p
	return old
}

// PlacePiece puts a piece on (x, y). It is the placement primitive used by
// FEN parsing.
func (b *Board) PlacePiece(x, y int8, p chess.Piece) {
	b.set(chess.NewPosition(x, y), p)
}

func (b *Board) Turn() chess.Colour {
	return b.turn
}

func (b *Board) SetTurn(c chess.Colour) {
	b.turn = c
}

// SetCastling sets all four castling flags.
func (b *Board) SetCastling(whiteKing, whiteQueen, blackKing, blackQueen bool) {
	b.castleWhiteKingSide = whiteKing
	b.castleWhiteQueenSide = whiteQueen
	b.castleBlackKingSide = blackKing
	b.castleBlackQueenSide = blackQueen
}

// CanCastle reports the castling flag for colour on the given side. It says
// nothing about whether castling is currently legal.
func (b *Board) CanCastle(c chess.Colour, kingSide bool) bool {
	switch {
	case c == chess.White && kingSide:
		return b.castleWhiteKingSide
	case c == chess.White:
		return b.castleWhiteQueenSide
	case kingSide:
		return b.castleBlackKingSide
	default:
		return b.castleBlackQueenSide
	}
}

func (b *Board) SetEnPassant(pos chess.Position, ok bool) {
	b.enPassant = pos
	b.hasEnPassant = ok
}

func (b *Board) EnPassant() (chess.Position, bool) {
	return b.enPassant, b.hasEnPassant
}

func (b *Board) SetHalfMoveClock(n int) {
	b.halfMoveClock = n
}

func (b *Board) HalfMoveClock() int {
	return b.halfMoveClock
}

func (b *Board) SetFullMoveNumber(n int) {
	b.fullMoveNumber = n
}

func (b *Board) FullMoveNumber() int {
	return b.fullMoveNumber
}

// Branch copies the board and plays m on the copy. The receiver is never
// modified.
func (b *Board) Branch(m move.Move) Board {
	nb := *b
	nb.PlayMove(m)
	return nb
}

func pawnDirection(c chess.Colour) int8 {
	if c == chess.White {
		return 1
	}
	return -1
}

func homeRank(c chess.Colour) int8 {
	if c == chess.White {
		return 0
	}
	return chess.Size - 1
}

func farthestRank(c chess.Colour) int8 {
	return homeRank(c.Opposite())
}

// PlayMove plays m if the origin holds a piece of the side to move and the
// destination is empty or holds an enemy piece. It does not check king
// safety; callers that care test IsCheck afterwards.
func (b *Board) PlayMove(m move.Move) bool {
	from, ok := b.Get(m.From)
	if !ok || from.Colour != b.turn || m.To.OffBoard() {
		return false
	}
	to, capture := b.Get(m.To)
	if capture && to.Colour == b.turn {
		return false
	}

	b.clearCastlingFrom(m.From)

	if from.Kind == chess.King {
		dx := m.To.X - m.From.X
		if dx == 2 || dx == -2 {
			b.castleRook(m.From, dx)
		}
	}

	placed := from
	if from.Kind == chess.Pawn && m.To.Y == farthestRank(b.turn) {
		promo := m.Promotion
		if promo == chess.NoKind || promo == chess.King || promo == chess.Pawn {
			promo = chess.Queen
		}
		placed = chess.NewPiece(promo, b.turn)
	}
	b.set(m.To, placed)
	b.set(m.From, chess.Piece{})

	b.hasEnPassant = false
	if from.Kind == chess.Pawn && (m.To.Y-m.From.Y == 2 || m.From.Y-m.To.Y == 2) {
		b.SetEnPassant(chess.NewPosition(m.From.X, (m.From.Y+m.To.Y)/2), true)
	}
	if from.Kind == chess.Pawn || capture {
		b.halfMoveClock = 0
	} else {
		b.halfMoveClock++
	}
	if b.turn == chess.Black {
		b.fullMoveNumber++
	}
	b.turn = b.turn.Opposite()
	return true
}

// clearCastlingFrom drops castling flags for any move leaving a corner or a
// king's home square, whatever actually stands there.
func (b *Board) clearCastlingFrom(pos chess.Position) {
	switch pos {
	case chess.NewPosition(0, 0):
		b.castleWhiteQueenSide = false
	case chess.NewPosition(7, 0):
		b.castleWhiteKingSide = false
	case chess.NewPosition(4, 0):
		b.castleWhiteKingSide = false
		b.castleWhiteQueenSide = false
	case chess.NewPosition(0, 7):
		b.castleBlackQueenSide = false
	case chess.NewPosition(7, 7):
		b.castleBlackKingSide = false
	case chess.NewPosition(4, 7):
		b.castleBlackKingSide = false
		b.castleBlackQueenSide = false
	}
}

// castleRook moves the corner rook next to the king for a two-file king step.
func (b *Board) castleRook(kingFrom chess.Position, dx int8) {
	corner := chess.NewPosition(0, kingFrom.Y)
	if dx > 0 {
		corner = chess.NewPosition(chess.Size-1, kingFrom.Y)
	}
	rook := b.set(corner, chess.Piece{})
	b.set(chess.NewPosition(kingFrom.X+dx/2, kingFrom.Y), rook)
}
