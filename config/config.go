package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigConfigFile         = "config-file"
	ConfigDebug              = "debug"
	ConfigNatsURL            = "nats-url"
	ConfigBotChannel         = "bot-channel"
	ConfigLichessURL         = "lichess-url"
	ConfigLichessToken       = "lichess-token"
	ConfigLichessBotID       = "lichess-bot-id"
	ConfigChallengeVariants  = "challenge-variants"
	ConfigChallengeSpeeds    = "challenge-speeds"
	ConfigSearchTime         = "search-time"
	ConfigSearchDeepFraction = "search-deep-fraction"
	ConfigShallowPlies       = "shallow-plies"
	ConfigDeepPlies          = "deep-plies"
	ConfigTieBreak           = "tie-break"
	ConfigPuzzlesPath        = "puzzles-path"
	ConfigStorePath          = "store-path"
	ConfigRemote             = "remote"
)

// Config wraps a viper instance. Settings come, in increasing order of
// precedence, from the defaults below, an optional config file, GAMBIT_*
// environment variables and command-line flags.
type Config struct {
	*viper.Viper
	args []string
}

func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	c.SetDefault(ConfigBotChannel, "gambit.bot")
	c.SetDefault(ConfigLichessURL, "https://lichess.org")
	c.SetDefault(ConfigLichessToken, "")
	c.SetDefault(ConfigLichessBotID, "")
	c.SetDefault(ConfigChallengeVariants, []string{"standard", "fromPosition"})
	c.SetDefault(ConfigChallengeSpeeds, []string{"blitz", "rapid", "classical", "correspondence"})
	c.SetDefault(ConfigSearchTime, 10*time.Second)
	c.SetDefault(ConfigSearchDeepFraction, 0.5)
	c.SetDefault(ConfigShallowPlies, 2)
	c.SetDefault(ConfigDeepPlies, 5)
	c.SetDefault(ConfigTieBreak, "first")
	c.SetDefault(ConfigPuzzlesPath, "./data/puzzles")
	c.SetDefault(ConfigStorePath, "")
	c.SetDefault(ConfigRemote, false)

	c.SetEnvPrefix("gambit")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return c
}

// Load parses command-line flags (and the config file they name, if any).
// Unknown flags are an error.
func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet("gambit", pflag.ContinueOnError)

	fs.String(ConfigConfigFile, "", "yaml or json file holding any of these settings")
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigNatsURL, c.GetString(ConfigNatsURL), "the NATS server URL")
	fs.String(ConfigBotChannel, c.GetString(ConfigBotChannel), "the NATS subject the bot listens on")
	fs.String(ConfigLichessURL, c.GetString(ConfigLichessURL), "base URL of the lichess API")
	fs.String(ConfigLichessToken, "", "lichess bot API token")
	fs.String(ConfigLichessBotID, "", "the bot account's lichess id")
	fs.StringSlice(ConfigChallengeVariants, c.GetStringSlice(ConfigChallengeVariants), "challenge variants to accept")
	fs.StringSlice(ConfigChallengeSpeeds, c.GetStringSlice(ConfigChallengeSpeeds), "challenge speeds to accept")
	fs.Duration(ConfigSearchTime, c.GetDuration(ConfigSearchTime), "time budget for one move")
	fs.Float64(ConfigSearchDeepFraction, c.GetFloat64(ConfigSearchDeepFraction), "fraction of the time budget reserved for tactical lines")
	fs.Int(ConfigShallowPlies, c.GetInt(ConfigShallowPlies), "plies a quiet line may search")
	fs.Int(ConfigDeepPlies, c.GetInt(ConfigDeepPlies), "plies any line may search")
	fs.String(ConfigTieBreak, c.GetString(ConfigTieBreak), "root tie-break policy: first or random")
	fs.String(ConfigPuzzlesPath, c.GetString(ConfigPuzzlesPath), "directory or file of puzzles")
	fs.String(ConfigStorePath, "", "sqlite file to record decisions in; empty disables")
	fs.Bool(ConfigRemote, false, "ask the bot on bot-channel for moves instead of searching in-process")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.args = fs.Args()
	if f := c.GetString(ConfigConfigFile); f != "" {
		c.SetConfigFile(f)
		if err := c.ReadInConfig(); err != nil {
			return err
		}
	}
	return nil
}

// Args returns the positional arguments left over after Load.
func (c *Config) Args() []string {
	return c.args
}

// AdjustRelativePaths makes the "./"-relative data paths relative to
// basepath, usually the executable's directory.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{ConfigPuzzlesPath, ConfigStorePath} {
		p := c.GetString(key)
		if strings.HasPrefix(p, "./") {
			c.Set(key, filepath.Join(basepath, p))
		}
	}
}
