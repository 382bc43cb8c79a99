// Package config loads server and shell settings from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordier/internal/words"
)

// Config holds all application configuration.
type Config struct {
	Port           string        `env:"PORT" envDefault:"5175"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	Production     bool          `env:"PRODUCTION" envDefault:"false"`

	Logging LoggingConfig

	DictionaryFile     string        `env:"DICTIONARY_FILE"`
	TargetsFile        string        `env:"TARGETS_FILE"`
	MinWordLength      int           `env:"MIN_WORD_LENGTH" envDefault:"3"`
	RoundDuration      time.Duration `env:"ROUND_DURATION" envDefault:"2m"`
	DiscoveryCacheSize int           `env:"DISCOVERY_CACHE_SIZE" envDefault:"1024"`
	DailySalt          string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`

	RoundTokenSecret string        `env:"ROUND_TOKEN_SECRET" envDefault:"dev_secret_change_me"`
	RoundTokenTTL    time.Duration `env:"ROUND_TOKEN_TTL" envDefault:"24h"`

	StoreDSN   string        `env:"STORE_DSN"` // empty keeps rounds in memory
	RoundIdle  time.Duration `env:"ROUND_IDLE" envDefault:"24h"`
	SweepEvery time.Duration `env:"SWEEP_EVERY" envDefault:"10m"`
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "console"
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if c.MinWordLength < 1 || c.MinWordLength > words.MaxLetters {
		return nil, fmt.Errorf("MIN_WORD_LENGTH must be between 1 and %d, got %d", words.MaxLetters, c.MinWordLength)
	}
	return &c, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string { return ":" + c.Port }

// Logger configures the global zerolog level and returns a logger writing in
// the configured format.
func (c *Config) Logger() zerolog.Logger {
	if lvl, err := zerolog.ParseLevel(c.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if c.Logging.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
