// fen decides one move. Usage:
//
//	fen [flags] <fen | startpos> [moves...]
//
// The chosen move is printed on stdout in coordinate notation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/gambit/config"
	"github.com/domino14/gambit/fen"
	"github.com/domino14/gambit/game"
	"github.com/domino14/gambit/turnplayer"
)

// splitArgs separates the FEN (six fields, or "startpos") from the moves.
func splitArgs(args []string) (string, string) {
	if len(args) == 0 {
		return "", ""
	}
	if args[0] == "startpos" {
		return args[0], strings.Join(args[1:], " ")
	}
	// A quoted FEN arrives as one argument.
	if strings.Contains(args[0], " ") {
		return args[0], strings.Join(args[1:], " ")
	}
	n := min(6, len(args))
	return strings.Join(args[:n], " "), strings.Join(args[n:], " ")
}

func main() {
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	f, moves := splitArgs(cfg.Args())
	if f == "" {
		fmt.Fprintln(os.Stderr, "usage: fen [flags] <fen | startpos> [moves...]")
		os.Exit(2)
	}
	b, err := fen.Parse(f)
	if err != nil {
		log.Fatal().Err(err).Msg("bad position")
	}
	g := game.NewGame("", b, moves, b.Turn())
	replayed, err := g.Replay()
	if err != nil {
		log.Fatal().Err(err).Msg("bad moves")
	}
	g.MySide = replayed.Turn()

	player, err := turnplayer.NewTurnPlayer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bad search settings")
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m, err := player.BestMove(ctx, g)
	if err != nil {
		log.Fatal().Err(err).Msg("no move")
	}
	fmt.Println(m)
}
