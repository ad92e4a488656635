package fen

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/gambit/board"
	"github.com/domino14/gambit/chess"
)

func TestParseStartPos(t *testing.T) {
	is := is.New(t)
	b, err := Parse("startpos")
	is.NoErr(err)
	is.Equal(b, board.StartingBoard())
	is.Equal(String(&b), StartPos)
}

func TestRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, f := range []string{
		"4k3/8/8/8/8/8/8/4K2R w K - 0 1",
		"r3k2r/pppq1ppp/2n2n2/3pp3/1b1PP1b1/2N2N2/PPPQ1PPP/R3K2R b KQkq e3 4 9",
		"8/8/8/8/8/8/8/k6K b - - 12 60",
	} {
		b, err := Parse(f)
		is.NoErr(err)
		is.Equal(String(&b), f)
	}
}

func TestParsePlacement(t *testing.T) {
	is := is.New(t)
	b, err := Parse("4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	is.NoErr(err)
	p, ok := b.Get(chess.NewPosition(7, 0))
	is.True(ok)
	is.Equal(p, chess.NewPiece(chess.Rook, chess.White))
	p, ok = b.Get(chess.NewPosition(4, 7))
	is.True(ok)
	is.Equal(p, chess.NewPiece(chess.King, chess.Black))
	is.True(b.CanCastle(chess.White, true))
	is.True(!b.CanCastle(chess.White, false))
	is.True(!b.CanCastle(chess.Black, true))
}

func TestParseErrors(t *testing.T) {
	is := is.New(t)
	for _, f := range []string{
		"",
		"8/8/8/8/8/8/8 w - - 0 1",
		"4k3/8/8/8/8/8/8/4K2R x K - 0 1",
		"4k3/8/8/8/8/8/8/4K2X w K - 0 1",
		"4k3/8/8/8/8/8/8/4K3R w K - 0 1",
		"4k3/8/8/8/8/8/8/4K2R w Z - 0 1",
		"4k3/8/8/8/8/8/8/4K2R w K z9 0 1",
		"4k3/8/8/8/8/8/8/4K2R w K - a 1",
	} {
		_, err := Parse(f)
		is.True(errors.Is(err, ErrBadFEN))
	}
}

func TestParseRejectsOverlongRank(t *testing.T) {
	is := is.New(t)
	// 33 empty runs add up to 264 files, which must not wrap back to 8.
	for _, f := range []string{
		strings.Repeat("8", 33) + "/8/8/8/8/8/8/4K2k w - - 0 1",
		"4k4/8/8/8/8/8/8/4K3 w - - 0 1",
		"9/8/8/8/8/8/8/4K2k w - - 0 1",
	} {
		_, err := Parse(f)
		is.True(errors.Is(err, ErrBadFEN))
	}
}
