package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q)=%s, want %s", raw, got, want)
		}
	}
}

func TestLogger_WritesFieldsAndRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONTo(&buf, LevelInfo).With("component", "injury")

	logger.Debug("hidden")
	logger.WarnContext(context.Background(), "team fetch failed", "team", "BOS", "error", errors.New("status=429"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry must be filtered at info level: %s", out)
	}
	for _, want := range []string{`"msg":"team fetch failed"`, `"team":"BOS"`, `"component":"injury"`, `"error":"status=429"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

// Not parallel: the mirror is process-wide.
func TestLogger_MirrorReceivesContextEntries(t *testing.T) {
	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, _ ...any) {
		got = append(got, level.String()+":"+msg)
	})
	t.Cleanup(func() { SetMirror(nil) })

	var buf bytes.Buffer
	logger := NewJSONTo(&buf, LevelWarn)
	logger.InfoContext(context.Background(), "below level")
	logger.ErrorContext(context.Background(), "ticket validation failed")

	if len(got) != 1 || got[0] != "error:ticket validation failed" {
		t.Fatalf("unexpected mirrored entries %v", got)
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	t.Parallel()

	var logger *Logger
	logger.Info("no panic")
	if logger.With("k", "v") == nil || logger.Named("x") == nil {
		t.Fatalf("nil logger helpers must return a usable logger")
	}
}
