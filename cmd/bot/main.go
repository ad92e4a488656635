package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/gambit/bot"
	"github.com/domino14/gambit/config"
	"github.com/domino14/gambit/store"
	"github.com/domino14/gambit/turnplayer"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	cfg.AdjustRelativePaths(exPath)

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	player, err := turnplayer.NewTurnPlayer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bad search settings")
	}
	if path := cfg.GetString(config.ConfigStorePath); path != "" {
		st, err := store.Open(ctx, path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("failed to open store")
		}
		defer st.Close()
		player.SetRecorder(st)
	}

	b := bot.NewBot(cfg, player)
	if err := bot.Main(ctx, cfg.GetString(config.ConfigBotChannel), b); err != nil {
		log.Error().Err(err).Msg("bot failed")
		return
	}
	log.Info().Msg("server gracefully shutting down")
}
