package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestConfigureLogger(t *testing.T) {
	prevLevel, prevLogger := zerolog.GlobalLevel(), log.Logger
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(prevLevel)
		log.Logger = prevLogger
	})

	var buf bytes.Buffer
	Config{LogLevel: "warn", LogFormat: "json"}.ConfigureLogger(&buf)

	log.Info().Msg("hidden")
	log.Warn().Str("store", "memory").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"store":"memory"`) || !strings.Contains(out, `"message":"shown"`) {
		t.Fatalf("expected structured warn line, got %s", out)
	}
}
