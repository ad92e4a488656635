package turnplayer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/gambit/config"
	"github.com/domino14/gambit/equity"
	"github.com/domino14/gambit/fen"
	"github.com/domino14/gambit/game"
	"github.com/domino14/gambit/move"
	"github.com/domino14/gambit/search"
)

const (
	// movesToGo is how many more moves we assume we must make on the
	// clock we have left.
	movesToGo = 30
	// minMoveTime is the least time we give a move when we know our clock.
	minMoveTime = 100 * time.Millisecond
	// drainReserve is the part of a move's share, as 1/drainReserve, held
	// back for the search to empty its queue after the deadline.
	drainReserve = 4
)

// Decision is a chosen move and how we got there.
type Decision struct {
	GameID    string
	FEN       string
	Move      move.Move
	Line      []move.Move
	Score     float64
	Stats     search.Stats
	DecidedAt time.Time
}

// TurnPlayer replays a game record and searches the resulting position.
type TurnPlayer struct {
	opts      search.Options
	evaluator equity.Evaluator
	recorder  Recorder
}

func NewTurnPlayer(cfg *config.Config) (*TurnPlayer, error) {
	opts, err := SearchOptions(cfg)
	if err != nil {
		return nil, err
	}
	return NewTurnPlayerWithOptions(opts, equity.NewMaterialEvaluator())
}

func NewTurnPlayerWithOptions(opts search.Options, ev equity.Evaluator) (*TurnPlayer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &TurnPlayer{opts: opts, evaluator: ev}, nil
}

func (p *TurnPlayer) SetRecorder(r Recorder) {
	p.recorder = r
}

func (p *TurnPlayer) Options() search.Options {
	return p.opts
}

// budgetFor shortens the search time when the game clock is tight.
func (p *TurnPlayer) budgetFor(g *game.Game) search.Options {
	opts := p.opts
	if g.TimeLeft <= 0 {
		return opts
	}
	share := max(g.TimeLeft/movesToGo, min(minMoveTime, g.TimeLeft/2))
	share -= share / drainReserve
	opts.Time = min(opts.Time, max(share, time.Millisecond))
	return opts
}

// Decide picks our move in g. A game where we have no legal move fails with
// search.ErrNoLegalMoves.
func (p *TurnPlayer) Decide(ctx context.Context, g *game.Game) (*Decision, error) {
	b, err := g.Position()
	if err != nil {
		return nil, err
	}
	// Each decision gets its own solver; games are decided concurrently.
	solver, err := search.NewSolver(p.budgetFor(g), p.evaluator)
	if err != nil {
		return nil, err
	}
	best, err := solver.Solve(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", g.ID, err)
	}
	m, ok := best.Move()
	if !ok {
		return nil, fmt.Errorf("game %s: %w", g.ID, search.ErrNoLegalMoves)
	}
	d := &Decision{
		GameID:    g.ID,
		FEN:       fen.String(&b),
		Move:      m,
		Line:      best.Lineage,
		Score:     best.Score,
		Stats:     solver.Stats(),
		DecidedAt: time.Now(),
	}
	log.Info().Str("game", g.ID).Str("move", m.String()).Float64("score", best.Score).
		Str("line", move.Join(best.Lineage)).Msg("decided")

	if p.recorder != nil {
		if err := p.recorder.Record(ctx, d); err != nil {
			log.Err(err).Str("game", g.ID).Msg("record-decision-failed")
		}
	}
	return d, nil
}

// BestMove is Decide without the details.
func (p *TurnPlayer) BestMove(ctx context.Context, g *game.Game) (move.Move, error) {
	d, err := p.Decide(ctx, g)
	if err != nil {
		return move.Move{}, err
	}
	return d.Move, nil
}
