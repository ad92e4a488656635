// Package worker plays games on lichess: it follows the account event
// stream, answers challenges and plays every game it is in.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/gambit/lichess"
	"github.com/domino14/gambit/turnplayer"
)

// Worker runs one goroutine per game.
type Worker struct {
	config *WorkerConfig
	server GameServer
	player turnplayer.Player

	mu      sync.Mutex
	playing map[string]bool
	// decided holds, per game, hashes of the move lists already answered.
	decided map[string]map[uint64]bool
}

func NewWorker(cfg *WorkerConfig, server GameServer, player turnplayer.Player) *Worker {
	return &Worker{
		config:  cfg,
		server:  server,
		player:  player,
		playing: map[string]bool{},
		decided: map[string]map[uint64]bool{},
	}
}

// Run follows the event stream until it ends or ctx is done, then waits
// for running games.
func (w *Worker) Run(ctx context.Context) error {
	log.Info().Str("bot", w.config.BotID).Strs("variants", w.config.Variants).
		Strs("speeds", w.config.Speeds).Msg("starting lichess worker")

	g, gctx := errgroup.WithContext(ctx)
	err := w.server.StreamEvents(gctx, func(evt *lichess.Event) error {
		switch evt.Type {
		case lichess.EventChallenge:
			if evt.Challenge != nil {
				w.answerChallenge(gctx, evt.Challenge)
			}
		case lichess.EventGameStart:
			if evt.Game == nil || !w.claim(evt.Game.ID) {
				return nil
			}
			id := evt.Game.ID
			g.Go(func() error {
				defer w.release(id)
				if err := w.playGame(gctx, id); err != nil && !errors.Is(err, context.Canceled) {
					log.Err(err).Str("game", id).Msg("game-stream-failed")
				}
				return nil
			})
		default:
			log.Debug().Str("type", evt.Type).Msg("ignored-event")
		}
		return nil
	})
	werr := g.Wait()
	if err != nil {
		return err
	}
	return werr
}

func (w *Worker) claim(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.playing[id] {
		return false
	}
	w.playing[id] = true
	return true
}

func (w *Worker) release(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.playing, id)
	delete(w.decided, id)
}

// firstTime reports whether this game state has not been decided on yet.
// Game streams repeat states, for instance after a reconnect.
func (w *Worker) firstTime(gameID, moves string) bool {
	key := xxhash.Sum64String(moves)
	w.mu.Lock()
	defer w.mu.Unlock()
	seen, ok := w.decided[gameID]
	if !ok {
		seen = map[uint64]bool{}
		w.decided[gameID] = seen
	}
	if seen[key] {
		return false
	}
	seen[key] = true
	return true
}

// abandon leaves a game we cannot play. Aborting only works in the first
// moves; after that we resign.
func (w *Worker) abandon(ctx context.Context, id string) {
	err := w.server.Abort(ctx, id)
	if err == nil {
		log.Info().Str("game", id).Msg("game-aborted")
		return
	}
	log.Debug().Err(err).Str("game", id).Msg("abort-refused")
	if err := w.server.Resign(ctx, id); err != nil {
		log.Err(err).Str("game", id).Msg("resign-failed")
		return
	}
	log.Info().Str("game", id).Msg("game-resigned")
}

func (w *Worker) answerChallenge(ctx context.Context, ch *lichess.Challenge) {
	logger := log.With().Str("challenge", ch.ID).Str("from", ch.Challenger.ID).
		Str("variant", ch.Variant.Key).Str("speed", ch.Speed).Logger()
	var err error
	if w.config.Acceptable(ch) {
		logger.Info().Msg("accepting-challenge")
		err = w.server.AcceptChallenge(ctx, ch.ID)
	} else {
		logger.Info().Msg("declining-challenge")
		err = w.server.DeclineChallenge(ctx, ch.ID)
	}
	if err != nil {
		logger.Err(err).Msg("challenge-answer-failed")
	}
}

func (w *Worker) playGame(ctx context.Context, id string) error {
	log.Info().Str("game", id).Msg("game-started")
	job := &gameJob{id: id}
	return w.server.StreamGame(ctx, id, func(evt *lichess.GameEvent) error {
		switch evt.Type {
		case lichess.GameEventFull:
			if err := job.start(evt.Full, w.config.BotID); err != nil {
				w.abandon(ctx, id)
				return fmt.Errorf("game %s: %w", id, err)
			}
			log.Info().Str("game", id).Str("side", job.mySide.String()).Msg("playing")
			return w.onState(ctx, job, &evt.Full.State)
		case lichess.GameEventState:
			if !job.started {
				return nil
			}
			return w.onState(ctx, job, evt.State)
		case lichess.GameEventChat:
			log.Debug().Str("game", id).Str("user", evt.Chat.Username).Str("text", evt.Chat.Text).Msg("chat")
		}
		return nil
	})
}

// onState moves if it is our turn. Failures to find or post a move are
// logged; the game goes on.
func (w *Worker) onState(ctx context.Context, job *gameJob, state *lichess.GameState) error {
	if !state.Running() {
		log.Info().Str("game", job.id).Str("status", state.Status).Str("winner", state.Winner).Msg("game-over")
		return nil
	}
	g, err := job.record(state)
	if err != nil {
		log.Err(err).Str("game", job.id).Str("moves", state.Moves).Msg("bad-game-state")
		return nil
	}
	if g == nil || !w.firstTime(job.id, state.Moves) {
		return nil
	}
	d, err := w.player.Decide(ctx, g)
	if err != nil {
		log.Err(err).Str("game", job.id).Msg("no-move")
		return nil
	}
	if err := w.server.MakeMove(ctx, job.id, d.Move); err != nil {
		log.Err(err).Str("game", job.id).Str("move", d.Move.String()).Msg("move-post-failed")
	}
	return nil
}
