// main.go
//
// HTTP server entry point.
// Responsibilities:
//   - Load configuration and set up logging.
//   - Open the configured round store and build the server.

package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessnumber/internal/config"
	"github.com/robalobadob/guessnumber/internal/game"
	"github.com/robalobadob/guessnumber/internal/httpserver"
	"github.com/robalobadob/guessnumber/internal/session"
	"github.com/robalobadob/guessnumber/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	cfg.ConfigureLogger(nil)

	st, err := store.Open(context.Background(), cfg.StoreOptions())
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open round store")
	}
	defer st.Close()

	srv := httpserver.New(httpserver.Options{
		Store:        st,
		Evaluator:    game.NewEvaluator(nil),
		Sessions:     session.NewManager(cfg.SessionSecret, cfg.SessionCookie, cfg.Production),
		ClientOrigin: cfg.ClientOrigin,
		WSRate:       cfg.WSRate,
		WSBurst:      cfg.WSBurst,
	})
	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("starting go-server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
