package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetup(t *testing.T) {
	t.Setenv(LevelEnv, "")
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	if err := Setup("warn", &buf); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	log.Info().Msg("hidden")
	log.Warn().Str("template", "start").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "template=start") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestSetup_EnvOverride(t *testing.T) {
	t.Setenv(LevelEnv, "debug")
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	if err := Setup("error", &buf); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("level: got %v, want debug", zerolog.GlobalLevel())
	}
}

func TestSetup_BadLevel(t *testing.T) {
	t.Setenv(LevelEnv, "")
	if err := Setup("loud", &bytes.Buffer{}); err == nil {
		t.Error("Setup(loud): want error")
	}
}

func TestQuiet(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)
	Quiet()
	if zerolog.GlobalLevel() != zerolog.Disabled {
		t.Errorf("level: got %v, want disabled", zerolog.GlobalLevel())
	}
}
