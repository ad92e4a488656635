package turnplayer

import (
	"context"

	"github.com/domino14/gambit/game"
)

// Player decides moves for games. Front-ends (the NATS bot, the lichess
// worker, the shell) talk to this rather than to the solver.
type Player interface {
	Decide(ctx context.Context, g *game.Game) (*Decision, error)
}

// Recorder stores decisions somewhere, e.g. the sqlite store.
type Recorder interface {
	Record(ctx context.Context, d *Decision) error
}
