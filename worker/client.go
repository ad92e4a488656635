package worker

import (
	"context"

	"github.com/domino14/gambit/lichess"
	"github.com/domino14/gambit/move"
)

// GameServer is the part of the lichess API the worker uses.
type GameServer interface {
	StreamEvents(ctx context.Context, fn func(*lichess.Event) error) error
	StreamGame(ctx context.Context, gameID string, fn func(*lichess.GameEvent) error) error
	MakeMove(ctx context.Context, gameID string, m move.Move) error
	AcceptChallenge(ctx context.Context, id string) error
	DeclineChallenge(ctx context.Context, id string) error
	Abort(ctx context.Context, gameID string) error
	Resign(ctx context.Context, gameID string) error
}

var _ GameServer = (*lichess.Client)(nil)
