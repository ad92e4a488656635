package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/domino14/gambit/config"
	"github.com/domino14/gambit/equity"
	"github.com/domino14/gambit/fen"
	"github.com/domino14/gambit/game"
	"github.com/domino14/gambit/move"
	"github.com/domino14/gambit/puzzles"
	"github.com/domino14/gambit/search"
	"github.com/domino14/gambit/turnplayer"
)

func searchOptions(cfg *config.Config) (search.Options, error) {
	return turnplayer.SearchOptions(cfg)
}

// setPosition replaces the current game with one starting at f (a FEN or
// "startpos") after moves.
func (sc *ShellController) setPosition(f, moves string) (*Response, error) {
	b, err := fen.Parse(f)
	if err != nil {
		return nil, err
	}
	g := game.NewGame("", b, moves, b.Turn())
	replayed, err := g.Replay()
	if err != nil {
		return nil, err
	}
	g.MySide = replayed.Turn()
	sc.game = g
	sc.board = replayed
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) position(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(fen.String(&sc.board)), nil
	}
	// An unquoted FEN arrives as several arguments.
	return sc.setPosition(strings.Join(cmd.args, " "), cmd.options["moves"])
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: play <move> [<move> ...]")
	}
	next := *sc.game
	for _, tok := range cmd.args {
		m, err := move.FromString(tok)
		if err != nil {
			return nil, err
		}
		next.AddMove(m)
	}
	b, err := next.Replay()
	if err != nil {
		return nil, err
	}
	next.MySide = b.Turn()
	sc.game = &next
	sc.board = b
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	moves := sc.board.PossibleMoves()
	if len(moves) == 0 {
		return msg("no legal moves"), nil
	}
	toks := lo.Map(moves, func(m move.Move, _ int) string { return m.String() })
	return msg(fmt.Sprintf("%d moves: %s", len(moves), strings.Join(toks, " "))), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	ev := equity.NewMaterialEvaluator()
	turn := sc.board.Turn()
	var sb strings.Builder
	fmt.Fprintf(&sb, "material (%s): %.1f\n", turn, ev.Evaluate(&sc.board, turn))
	inCheck := sc.board.IsCheck(turn)
	n := len(sc.board.PossibleMoves())
	switch {
	case n == 0 && inCheck:
		sb.WriteString(turn.String() + " is checkmated")
	case n == 0:
		sb.WriteString(turn.String() + " is stalemated")
	case inCheck:
		fmt.Fprintf(&sb, "%s is in check, %d legal moves", turn, n)
	default:
		fmt.Fprintf(&sb, "%d legal moves", n)
	}
	return msg(sb.String()), nil
}

// applyOptions overrides search options from -time, -shallow, -deep,
// -fraction and -tiebreak.
func applyOptions(opts search.Options, options map[string]string) (search.Options, error) {
	for key, val := range options {
		var err error
		switch key {
		case "time":
			opts.Time, err = time.ParseDuration(val)
		case "shallow":
			opts.ShallowPlies, err = strconv.Atoi(val)
		case "deep":
			opts.DeepPlies, err = strconv.Atoi(val)
		case "fraction":
			opts.DeepFraction, err = strconv.ParseFloat(val, 64)
		case "tiebreak":
			opts.TieBreak, err = search.ParseTieBreak(val)
		default:
			err = fmt.Errorf("unknown option %q", key)
		}
		if err != nil {
			return opts, err
		}
	}
	return opts, opts.Validate()
}

func (sc *ShellController) player(options map[string]string) (*turnplayer.TurnPlayer, error) {
	opts, err := applyOptions(sc.opts, options)
	if err != nil {
		return nil, err
	}
	return turnplayer.NewTurnPlayerWithOptions(opts, equity.NewMaterialEvaluator())
}

func (sc *ShellController) search(cmd *shellcmd) (*Response, error) {
	p, err := sc.player(cmd.options)
	if err != nil {
		return nil, err
	}
	d, err := p.Decide(context.Background(), sc.game)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "best move: %s\nscore: %.2f\nline: %s\n", d.Move, d.Score, move.Join(d.Line))
	st := d.Stats
	fmt.Fprintf(&sb, "nodes %d, leaves %d, deferrals %d, max depth %d, unique positions %d, took %v",
		st.Nodes, st.Leaves, st.Deferrals, st.MaxDepth, st.UniquePositions, st.Elapsed.Round(time.Millisecond))
	return msg(sb.String()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) showOptions() string {
	o := sc.opts
	return fmt.Sprintf("Settings:\n  time: %v\n  shallow: %d\n  deep: %d\n  fraction: %v\n  tiebreak: %s",
		o.Time, o.ShallowPlies, o.DeepPlies, o.DeepFraction, o.TieBreak)
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.showOptions()), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set <option> <value>")
	}
	opts, err := applyOptions(sc.opts, map[string]string{cmd.args[0]: cmd.args[1]})
	if err != nil {
		return nil, err
	}
	sc.opts = opts
	return msg("set " + cmd.args[0] + " to " + cmd.args[1]), nil
}

func (sc *ShellController) puzzle(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: puzzle load [path] | list | run | <n>")
	}
	switch cmd.args[0] {
	case "load":
		path := sc.config.GetString(config.ConfigPuzzlesPath)
		if len(cmd.args) > 1 {
			path = cmd.args[1]
		}
		ps, err := puzzles.Load(sc.config, path)
		if err != nil {
			return nil, err
		}
		sc.puzzles = ps
		return msg(fmt.Sprintf("loaded %d puzzles", len(ps))), nil
	case "list":
		if len(sc.puzzles) == 0 {
			return nil, puzzles.ErrNoPuzzles
		}
		var sb strings.Builder
		for i, p := range sc.puzzles {
			fmt.Fprintf(&sb, "%3d: %-20s %s => %s\n", i+1, p, p.FEN, strings.Join(p.Answers, " "))
		}
		return msg(strings.TrimRight(sb.String(), "\n")), nil
	case "run":
		if len(sc.puzzles) == 0 {
			return nil, puzzles.ErrNoPuzzles
		}
		p, err := sc.player(cmd.options)
		if err != nil {
			return nil, err
		}
		_, sum := puzzles.Run(context.Background(), p, sc.puzzles)
		return msg(summaryText(sum)), nil
	}
	n, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(sc.puzzles) {
		return nil, fmt.Errorf("puzzle %d out of range (%d loaded)", n, len(sc.puzzles))
	}
	return sc.setPosition(sc.puzzles[n-1].FEN, "")
}

func summaryText(sum puzzles.Summary) string {
	return fmt.Sprintf("solved %d/%d (%d errored), solve rate %.2f-%.2f, %.3fs/puzzle, %.0f nodes/puzzle",
		sum.Solved, sum.Total, sum.Errored, sum.SolveRateLow, sum.SolveRateHigh,
		sum.Seconds.Mean(), sum.Nodes.Mean())
}
