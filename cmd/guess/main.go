// cmd/guess/main.go
//
// Terminal entry point: plays Guess the Number on stdin/stdout.
// Responsibilities:
//   - Load configuration and set up logging on stderr.
//   - Run the console loop; Ctrl-C cancels it.

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessnumber/internal/config"
	"github.com/robalobadob/guessnumber/internal/console"
	"github.com/robalobadob/guessnumber/internal/game"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	cfg.ConfigureLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := console.Run(ctx, os.Stdin, os.Stdout, game.NewEvaluator(nil)); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("console")
	}
}
