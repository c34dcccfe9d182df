package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_JSONOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "prod", "info")

	log.Info().Str("component", "registry").Msg("ready")

	out := buf.String()
	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"component":"registry"`) {
		t.Fatalf("expected JSON line, got %q", out)
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "prod", "warn")

	log.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}

	log.Warn().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn line, got %q", buf.String())
	}
}

func TestNew_FallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "prod", "nonsense")

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestNew_ConsoleInDev(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "dev", "info")

	log.Info().Msg("hello")
	if strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("expected console output, got %q", buf.String())
	}
}
