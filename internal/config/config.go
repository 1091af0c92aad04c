// internal/config/config.go
//
// Server settings loaded from the environment.
// Responsibilities:
//   - Load .env (best effort) and parse Config from environment variables.
//   - Translate settings into store options.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/robalobadob/guessnumber/internal/store"
)

// Config holds every tunable of the server.
type Config struct {
	Port      string `env:"PORT"       envDefault:"5175"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	StoreDriver   string        `env:"STORE_DRIVER"   envDefault:"memory"`
	SQLiteDSN     string        `env:"SQLITE_DSN"     envDefault:"file:rounds?mode=memory&cache=shared"`
	RedisAddr     string        `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB"       envDefault:"0"`
	RoundTTL      time.Duration `env:"ROUND_TTL"      envDefault:"24h"`

	SessionSecret string `env:"SESSION_SECRET" envDefault:"dev_secret_change_me"`
	SessionCookie string `env:"SESSION_COOKIE" envDefault:"guess_session"`
	ClientOrigin  string `env:"CLIENT_ORIGIN"  envDefault:"http://localhost:5173"`
	Production    bool   `env:"PRODUCTION"     envDefault:"false"`

	WSRate  time.Duration `env:"WS_RATE"  envDefault:"100ms"`
	WSBurst int           `env:"WS_BURST" envDefault:"10"`
}

// Load reads an optional .env file and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse parses the current environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// StoreOptions maps the config onto store.Options.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Driver:    c.StoreDriver,
		SQLiteDSN: c.SQLiteDSN,
		Redis: store.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			TTL:      c.RoundTTL,
		},
	}
}
