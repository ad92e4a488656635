// puzzles runs the search over a set of puzzle files and reports how many
// it solves.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/gambit/bot"
	"github.com/domino14/gambit/config"
	"github.com/domino14/gambit/puzzles"
	"github.com/domino14/gambit/turnplayer"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.AdjustRelativePaths(filepath.Dir(ex))

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	path := cfg.GetString(config.ConfigPuzzlesPath)
	if args := cfg.Args(); len(args) > 0 {
		path = args[0]
	}
	ps, err := puzzles.Load(cfg, path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to load puzzles")
	}
	var player turnplayer.Player
	if cfg.GetBool(config.ConfigRemote) {
		nc, err := nats.Connect(cfg.GetString(config.ConfigNatsURL))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to nats")
		}
		defer nc.Close()
		channel := cfg.GetString(config.ConfigBotChannel)
		log.Info().Str("channel", channel).Msg("asking a remote bot")
		player = bot.NewClient(nc, channel)
	} else {
		player, err = turnplayer.NewTurnPlayer(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("bad search settings")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	results, sum := puzzles.Run(ctx, player, ps)
	for _, r := range results {
		status := "FAIL"
		switch {
		case r.Err != nil:
			status = "ERR "
		case r.Solved:
			status = "ok  "
		}
		fmt.Printf("%s %-24s %-6s %v\n", status, r.Puzzle, r.Move, r.Elapsed)
	}
	fmt.Println(sum)
}
