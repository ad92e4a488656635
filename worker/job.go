package worker

import (
	"strings"
	"time"

	"github.com/domino14/gambit/board"
	"github.com/domino14/gambit/chess"
	"github.com/domino14/gambit/fen"
	"github.com/domino14/gambit/game"
	"github.com/domino14/gambit/lichess"
)

// gameJob is what the worker knows about one game it is playing.
type gameJob struct {
	id      string
	initial board.Board
	mySide  chess.Colour
	started bool
}

// start fills the job in from the opening line of a game stream.
func (j *gameJob) start(full *lichess.GameFull, botID string) error {
	f := full.InitialFEN
	if f == "" {
		f = fen.StartPos
	}
	b, err := fen.Parse(f)
	if err != nil {
		return err
	}
	j.initial = b
	j.mySide = chess.Black
	if strings.EqualFold(full.White.ID, botID) {
		j.mySide = chess.White
	}
	j.started = true
	return nil
}

// record builds the game record for a state, or nil when it is not our
// turn.
func (j *gameJob) record(state *lichess.GameState) (*game.Game, error) {
	g := game.NewGame(j.id, j.initial, state.Moves, j.mySide)
	b, err := g.Replay()
	if err != nil {
		return nil, err
	}
	if b.Turn() != j.mySide {
		return nil, nil
	}
	left := state.WTime
	if j.mySide == chess.Black {
		left = state.BTime
	}
	g.TimeLeft = time.Duration(left) * time.Millisecond
	return g, nil
}
