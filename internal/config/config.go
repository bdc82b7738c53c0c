package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const EnvPrefix = "DUEL"

type Config struct {
	HTTP     HTTP     `mapstructure:"http"`
	Game     Game     `mapstructure:"game"`
	Postgres Postgres `mapstructure:"postgres"`
	Redis    Redis    `mapstructure:"redis"`
	Log      Log      `mapstructure:"log"`
}

type HTTP struct {
	Bind    string `mapstructure:"bind"`
	Port    int    `mapstructure:"port"`
	Profile bool   `mapstructure:"profile"`
}

type Game struct {
	QuestionsPerGame int           `mapstructure:"questions_per_game"`
	TimeLimit        time.Duration `mapstructure:"time_limit"`
	MatchDelay       time.Duration `mapstructure:"match_delay"`
	RevealDelay      time.Duration `mapstructure:"reveal_delay"`
	// TimeoutGrace is added to TimeLimit before the server reveals on its own.
	TimeoutGrace time.Duration `mapstructure:"timeout_grace"`
}

// Postgres is optional; an empty URL keeps the built-in question bank.
type Postgres struct {
	URL string `mapstructure:"url"`
}

// Redis is optional; no addresses disables event publishing.
type Redis struct {
	Addrs  []string `mapstructure:"addrs"`
	Pass   string   `mapstructure:"pass"`
	Prefix string   `mapstructure:"prefix"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Default() Config {
	return Config{
		HTTP: HTTP{
			Bind: "0.0.0.0",
			Port: 8080,
		},
		Game: Game{
			QuestionsPerGame: 5,
			TimeLimit:        15 * time.Second,
			MatchDelay:       1500 * time.Millisecond,
			RevealDelay:      1500 * time.Millisecond,
			TimeoutGrace:     2 * time.Second,
		},
		Redis: Redis{
			Addrs:  []string{},
			Prefix: "duel",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load fills config from its current values, then the optional file, then
// DUEL_* environment variables. config must be a pointer to a struct.
func Load(file string, config any) error {
	v := viper.New()
	m := make(map[string]any)

	if err := mapstructure.Decode(config, &m); err != nil {
		return fmt.Errorf("mapstructure: %v", err)
	}

	setDefaults(v, "", m)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config from file %s: %v", file, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("unmarshal config: %v", err)
	}

	return nil
}

// setDefaults registers every leaf of m so that env lookups know the key even
// when the config file does not mention it.
func setDefaults(v *viper.Viper, prefix string, m map[string]any) {
	for k, val := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := val.(map[string]any); ok {
			setDefaults(v, key, nested)
			continue
		}
		v.SetDefault(key, val)
	}
}

func (c *Config) Validate() error {
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.HTTP.Port)
	}
	if c.Game.QuestionsPerGame < 1 {
		return fmt.Errorf("invalid questions_per_game: %d", c.Game.QuestionsPerGame)
	}
	if c.Game.TimeLimit <= 0 {
		return errors.New("time_limit must be positive")
	}
	if c.Game.MatchDelay < 0 || c.Game.RevealDelay < 0 || c.Game.TimeoutGrace < 0 {
		return errors.New("game delays must not be negative")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}
	return nil
}
