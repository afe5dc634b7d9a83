package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Config{NoCaller: true})
	logger.Debug().Msg("hidden")
	logger.Info().Str("route", "fallback").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var event map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event["message"] != "shown" || event["route"] != "fallback" || event["level"] != "info" {
		t.Fatalf("event = %#v", event)
	}

	buf.Reset()
	logger = New(&buf, Config{Debug: true})
	logger.Debug().Msg("visible")
	if !strings.Contains(buf.String(), `"caller"`) {
		t.Fatalf("caller missing: %q", buf.String())
	}

	buf.Reset()
	logger = New(&buf, Config{Debug: true, Level: "warn"})
	logger.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("level override ignored: %q", buf.String())
	}
}

func TestZeroConfigKeepsCaller(t *testing.T) {
	t.Parallel()

	for name, logger := range map[string]func(*bytes.Buffer) func(){
		"zero config": func(buf *bytes.Buffer) func() {
			l := New(buf, Config{})
			return func() { l.Info().Msg("x") }
		},
		"no options": func(buf *bytes.Buffer) func() {
			l := New(buf)
			return func() { l.Info().Msg("x") }
		},
	} {
		var buf bytes.Buffer
		logger(&buf)()
		if !strings.Contains(buf.String(), `"caller"`) {
			t.Fatalf("%s: caller missing: %q", name, buf.String())
		}
	}

	var buf bytes.Buffer
	l := New(&buf, Config{NoCaller: true})
	l.Info().Msg("x")
	if strings.Contains(buf.String(), `"caller"`) {
		t.Fatalf("NoCaller ignored: %q", buf.String())
	}
}
