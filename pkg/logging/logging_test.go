package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_Fallback(t *testing.T) {
	var buf bytes.Buffer
	log, closeFn := New("warn", "", &buf)
	defer closeFn()

	log.Info("hidden")
	log.Warn("shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") || !strings.Contains(out, "k=v") {
		t.Fatalf("output = %q", out)
	}
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	var buf bytes.Buffer
	log, closeFn := New("debug", "file:"+path, &buf)
	log.Debug("to file")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "to file") || buf.Len() != 0 {
		t.Fatalf("file = %q, fallback = %q", b, buf.String())
	}
}

func TestNew_BadFileFallsBack(t *testing.T) {
	var buf bytes.Buffer
	log, _ := New("info", "file:"+filepath.Join(t.TempDir(), "missing", "dir", "bot.log"), &buf)
	log.Info("still logged")
	out := buf.String()
	if !strings.Contains(out, "failed to open log file") || !strings.Contains(out, "still logged") {
		t.Fatalf("output = %q", out)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "error")
	t.Setenv(EnvSink, "")
	var buf bytes.Buffer
	log, _ := FromEnv(&buf)
	if log.Enabled(context.Background(), slog.LevelWarn) {
		t.Fatal("warn enabled at error level")
	}
}
