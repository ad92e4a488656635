package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/gambit/config"
	"github.com/domino14/gambit/lichess"
	"github.com/domino14/gambit/store"
	"github.com/domino14/gambit/turnplayer"
	"github.com/domino14/gambit/worker"
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

	workerConfig := worker.NewWorkerConfig(cfg)
	if workerConfig.Token == "" || workerConfig.BotID == "" {
		log.Fatal().Msg("lichess-token and lichess-bot-id are required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

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

	client := lichess.NewClient(workerConfig.BaseURL, workerConfig.Token)
	w := worker.NewWorker(workerConfig, client, player)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker failed")
		return
	}
	log.Info().Msg("lichess worker stopped")
}
