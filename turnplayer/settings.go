package turnplayer

import (
	"github.com/domino14/gambit/config"
	"github.com/domino14/gambit/search"
)

// SearchOptions reads the search settings out of the config.
func SearchOptions(cfg *config.Config) (search.Options, error) {
	tb, err := search.ParseTieBreak(cfg.GetString(config.ConfigTieBreak))
	if err != nil {
		return search.Options{}, err
	}
	opts := search.Options{
		ShallowPlies: cfg.GetInt(config.ConfigShallowPlies),
		DeepPlies:    cfg.GetInt(config.ConfigDeepPlies),
		Time:         cfg.GetDuration(config.ConfigSearchTime),
		DeepFraction: cfg.GetFloat64(config.ConfigSearchDeepFraction),
		TieBreak:     tb,
	}
	return opts, opts.Validate()
}
