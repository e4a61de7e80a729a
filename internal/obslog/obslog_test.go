package obslog

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReplaceRestores(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := Replace(zap.New(core))
	L().Info("game_new", zap.String("game", "a_b"))
	restore()
	L().Info("dropped")

	if logs.Len() != 1 {
		t.Fatalf("expected 1 captured entry, got %d", logs.Len())
	}
	if got := logs.All()[0].Message; got != "game_new" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bot.log")
	l, err := New(Options{Level: "debug", ToFile: true, FilePath: path, Format: "json"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Debug("irc_connect")
	_ = l.Sync()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(b) == 0 {
		t.Fatalf("expected log output in %s", path)
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("WARNING") != zapcore.WarnLevel || parseLevel("nope") != zapcore.InfoLevel {
		t.Fatalf("unexpected level parsing")
	}
}
