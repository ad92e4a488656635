// Package game is the inbound record of a game in progress: where it
// started, the moves played so far and which side we are. Replaying the
// record gives the board to decide on.
package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/domino14/gambit/board"
	"github.com/domino14/gambit/chess"
	"github.com/domino14/gambit/move"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrWrongSide   = errors.New("wrong side to move")
)

type Game struct {
	ID           string
	InitialBoard board.Board
	// MovesPlayed is a space-separated list of coordinate tokens.
	MovesPlayed string
	MySide      chess.Colour
	// TimeLeft is what remains on our clock; zero means unknown.
	TimeLeft time.Duration
}

// NewGame creates a game record. An empty id gets a fresh local one.
func NewGame(id string, initial board.Board, movesPlayed string, mySide chess.Colour) *Game {
	if id == "" {
		id = NewID()
	}
	return &Game{
		ID:           id,
		InitialBoard: initial,
		MovesPlayed:  movesPlayed,
		MySide:       mySide,
	}
}

// Replay plays MovesPlayed onto a copy of InitialBoard. A malformed token
// fails with move.ErrMalformedMove; a move from an empty or enemy square,
// onto an own piece, or leaving the mover in check fails with
// ErrIllegalMove.
func (g *Game) Replay() (board.Board, error) {
	moves, err := move.ParseMoves(g.MovesPlayed)
	if err != nil {
		return board.Board{}, fmt.Errorf("game %s: %w", g.ID, err)
	}
	b := g.InitialBoard
	for i, m := range moves {
		mover := b.Turn()
		if !b.PlayMove(m) || b.IsCheck(mover) {
			return board.Board{}, fmt.Errorf("game %s: %w: %s at ply %d", g.ID, ErrIllegalMove, m, i+1)
		}
	}
	return b, nil
}

// Position replays the game and checks that it is our turn.
func (g *Game) Position() (board.Board, error) {
	b, err := g.Replay()
	if err != nil {
		return b, err
	}
	if b.Turn() != g.MySide {
		return board.Board{}, fmt.Errorf("game %s: %w: %s to move, we are %s",
			g.ID, ErrWrongSide, b.Turn(), g.MySide)
	}
	return b, nil
}

// PlyCount is the number of moves played.
func (g *Game) PlyCount() int {
	moves, err := move.ParseMoves(g.MovesPlayed)
	if err != nil {
		return 0
	}
	return len(moves)
}

// AddMove appends a move to the record.
func (g *Game) AddMove(m move.Move) {
	if g.MovesPlayed == "" {
		g.MovesPlayed = m.String()
		return
	}
	g.MovesPlayed += " " + m.String()
}
