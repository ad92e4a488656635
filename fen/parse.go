package fen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/domino14/gambit/board"
	"github.com/domino14/gambit/chess"
)

const StartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrBadFEN = errors.New("bad FEN")

// Parse returns the board described by a FEN string. "startpos" is
// accepted as the standard initial position.
func Parse(fenstr string) (board.Board, error) {
	fenstr = strings.TrimSpace(fenstr)
	if fenstr == "startpos" {
		fenstr = StartPos
	}
	fields := strings.Fields(fenstr)
	if len(fields) != 6 {
		return board.Board{}, fmt.Errorf("%w: must have 6 space-separated fields, got %d",
			ErrBadFEN, len(fields))
	}
	b := board.NewBoard()

	rows := strings.Split(fields[0], "/")
	if len(rows) != chess.Size {
		return board.Board{}, fmt.Errorf("%w: must have 8 ranks", ErrBadFEN)
	}
	for i, row := range rows {
		y := int8(chess.Size - 1 - i)
		if err := placeRow(&b, row, y); err != nil {
			return board.Board{}, err
		}
	}

	switch fields[1] {
	case "w":
		b.SetTurn(chess.White)
	case "b":
		b.SetTurn(chess.Black)
	default:
		return board.Board{}, fmt.Errorf("%w: bad side to move %q", ErrBadFEN, fields[1])
	}

	if fields[2] != "-" {
		for _, c := range fields[2] {
			if !strings.ContainsRune("KQkq", c) {
				return board.Board{}, fmt.Errorf("%w: bad castling field %q", ErrBadFEN, fields[2])
			}
		}
	}
	b.SetCastling(
		strings.Contains(fields[2], "K"), strings.Contains(fields[2], "Q"),
		strings.Contains(fields[2], "k"), strings.Contains(fields[2], "q"))

	if fields[3] != "-" {
		ep, err := chess.ParsePosition(fields[3])
		if err != nil {
			return board.Board{}, fmt.Errorf("%w: %w", ErrBadFEN, err)
		}
		b.SetEnPassant(ep, true)
	}

	halfMoves, err := strconv.Atoi(fields[4])
	if err != nil {
		return board.Board{}, fmt.Errorf("%w: half-move clock: %w", ErrBadFEN, err)
	}
	b.SetHalfMoveClock(halfMoves)
	fullMoves, err := strconv.Atoi(fields[5])
	if err != nil {
		return board.Board{}, fmt.Errorf("%w: full-move number: %w", ErrBadFEN, err)
	}
	b.SetFullMoveNumber(fullMoves)
	return b, nil
}

// placeRow "decompresses" one rank: digits are runs of empty squares.
func placeRow(b *board.Board, row string, y int8) error {
	x := 0
	for i := 0; i < len(row); i++ {
		c := row[i]
		if c >= '1' && c <= '8' {
			x += int(c - '0')
			if x > chess.Size {
				return fmt.Errorf("%w: rank %d too long", ErrBadFEN, y+1)
			}
			continue
		}
		p, ok := chess.PieceFromSymbol(c)
		if !ok {
			return fmt.Errorf("%w: bad piece %q", ErrBadFEN, c)
		}
		if x >= chess.Size {
			return fmt.Errorf("%w: rank %d too long", ErrBadFEN, y+1)
		}
		b.PlacePiece(int8(x), y, p)
		x++
	}
	if x != chess.Size {
		return fmt.Errorf("%w: rank %d has %d files", ErrBadFEN, y+1, x)
	}
	return nil
}

// String renders b as FEN.
func String(b *board.Board) string {
	var sb strings.Builder
	for y := int8(chess.Size - 1); y >= 0; y-- {
		empty := 0
		for x := int8(0); x < chess.Size; x++ {
			p, ok := b.Get(chess.NewPosition(x, y))
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(p.Symbol())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if y > 0 {
			sb.WriteByte('/')
		}
	}
	if b.Turn() == chess.White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	castling := ""
	if b.CanCastle(chess.White, true) {
		castling += "K"
	}
	if b.CanCastle(chess.White, false) {
		castling += "Q"
	}
	if b.CanCastle(chess.Black, true) {
		castling += "k"
	}
	if b.CanCastle(chess.Black, false) {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)
	sb.WriteByte(' ')
	if ep, ok := b.EnPassant(); ok {
		sb.WriteString(ep.String())
	} else {
		sb.WriteByte('-')
	}
	sb.WriteString(fmt.Sprintf(" %d %d", b.HalfMoveClock(), b.FullMoveNumber()))
	return sb.String()
}
