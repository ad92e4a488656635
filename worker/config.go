package worker

import (
	"slices"

	"github.com/domino14/gambit/config"
	"github.com/domino14/gambit/lichess"
)

// WorkerConfig holds configuration for the lichess worker
type WorkerConfig struct {
	// Base URL for the lichess API
	BaseURL string
	// Bearer token of the bot account
	Token string
	// The bot account's id; decides which colour we play
	BotID string
	// Challenges are accepted only for these variant keys
	Variants []string
	// and these speeds (or time control types)
	Speeds []string
}

func NewWorkerConfig(cfg *config.Config) *WorkerConfig {
	return &WorkerConfig{
		BaseURL:  cfg.GetString(config.ConfigLichessURL),
		Token:    cfg.GetString(config.ConfigLichessToken),
		BotID:    cfg.GetString(config.ConfigLichessBotID),
		Variants: cfg.GetStringSlice(config.ConfigChallengeVariants),
		Speeds:   cfg.GetStringSlice(config.ConfigChallengeSpeeds),
	}
}

// Acceptable reports whether we play a challenge: its variant must be
// whitelisted and so must its speed or its time control type.
func (c *WorkerConfig) Acceptable(ch *lichess.Challenge) bool {
	if !slices.Contains(c.Variants, ch.Variant.Key) {
		return false
	}
	return slices.Contains(c.Speeds, ch.Speed) || slices.Contains(c.Speeds, ch.TimeControl.Type)
}
