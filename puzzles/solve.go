package puzzles

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/gambit/fen"
	"github.com/domino14/gambit/game"
	"github.com/domino14/gambit/move"
	"github.com/domino14/gambit/stats"
	"github.com/domino14/gambit/turnplayer"
)

type Result struct {
	Puzzle  Puzzle
	Move    move.Move
	Solved  bool
	Elapsed time.Duration
	Nodes   int
	Err     error
}

// Summary aggregates a run over many puzzles.
type Summary struct {
	Total   int
	Solved  int
	Errored int
	// SolveRateLow and SolveRateHigh bound the solve rate at 95% confidence.
	SolveRateLow  float64
	SolveRateHigh float64
	Seconds       stats.Statistic
	Nodes         stats.Statistic
}

func (s Summary) String() string {
	return fmt.Sprintf("solved %d/%d (%d errored), 95%% interval %.2f-%.2f, "+
		"mean %.3fs (se %.3f), mean nodes %.0f (se %.0f)",
		s.Solved, s.Total, s.Errored, s.SolveRateLow, s.SolveRateHigh,
		s.Seconds.Mean(), s.Seconds.StandardError(),
		s.Nodes.Mean(), s.Nodes.StandardError())
}

// Solve asks the player for a move in the puzzle position.
func Solve(ctx context.Context, player turnplayer.Player, p Puzzle) Result {
	res := Result{Puzzle: p}
	b, err := fen.Parse(p.FEN)
	if err != nil {
		res.Err = err
		return res
	}
	g := game.NewGame("", b, "", b.Turn())
	start := time.Now()
	d, err := player.Decide(ctx, g)
	res.Elapsed = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	res.Move = d.Move
	res.Nodes = d.Stats.Nodes
	res.Solved = p.Accepts(d.Move)
	return res
}

// Run solves every puzzle in turn, stopping early if ctx is done.
func Run(ctx context.Context, player turnplayer.Player, ps []Puzzle) ([]Result, Summary) {
	var sum Summary
	results := make([]Result, 0, len(ps))
	for _, p := range ps {
		if ctx.Err() != nil {
			break
		}
		res := Solve(ctx, player, p)
		results = append(results, res)
		sum.Total++
		switch {
		case res.Err != nil:
			sum.Errored++
			log.Err(res.Err).Str("puzzle", p.String()).Msg("puzzle-errored")
			continue
		case res.Solved:
			sum.Solved++
		}
		sum.Seconds.Push(res.Elapsed.Seconds())
		sum.Nodes.Push(float64(res.Nodes))
		log.Info().Str("puzzle", p.String()).Str("move", res.Move.String()).
			Strs("answers", p.Answers).Bool("solved", res.Solved).
			Dur("elapsed", res.Elapsed).Msg("puzzle-result")
	}
	sum.SolveRateLow, sum.SolveRateHigh = stats.ProportionInterval(sum.Solved, sum.Total, 95)
	return results, sum
}
