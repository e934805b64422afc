package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("shown")
	log.Error("also shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("suppressed levels leaked: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown") || !strings.Contains(out, "[ERROR] also shown") {
		t.Errorf("expected warn and error lines, got %q", out)
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Output: &buf})

	log.Info("frame decoded", Int("fn", 42), String("kind", "stream"),
		Bool("signed", true), Error(errors.New("boom")))

	out := buf.String()
	for _, want := range []string{"fn=42", "kind=stream", "signed=true", "error=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Output: &buf}).WithComponent("decoder")

	log.Info("locked")
	if !strings.Contains(buf.String(), "[decoder]") {
		t.Errorf("component prefix missing: %q", buf.String())
	}
}

func TestNop_DiscardsEverything(t *testing.T) {
	// Must not panic and must not write anywhere.
	log := Nop()
	log.Debug("x")
	log.Info("x")
	log.Warn("x")
	log.Error("x", String("k", "v"))
}

func TestParseLevel_Fallback(t *testing.T) {
	if parseLevel("bogus") != InfoLevel {
		t.Error("unknown level should fall back to info")
	}
}
