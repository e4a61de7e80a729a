package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalogRenders(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("version", map[string]any{"Nick": "BotManJohnson", "Version": "0.3.0"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "BotManJohnson V. 0.3.0" {
		t.Fatalf("unexpected version reply %q", got)
	}
}

func TestMissingDataIsAnError(t *testing.T) {
	c := MustDefault()
	if _, err := c.Render("move.illegal", map[string]any{"From": "a2"}); err == nil {
		t.Fatalf("expected error for missing template field")
	}
	if _, err := c.Render("no.such.key", nil); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestHelpIsSingleLine(t *testing.T) {
	got, err := MustDefault().Render("help", map[string]any{"Prefix": "!"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(got, "\n") {
		t.Fatalf("help should fold to one line, got %q", got)
	}
	if !strings.Contains(got, "!move <from> <to>") {
		t.Fatalf("help missing move usage: %q", got)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("fen: \"FEN {{.FEN}}\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("fen", map[string]any{"FEN": "8/8/8/8/8/8/8/8 w - - 0 1"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "FEN 8/8/8/8/8/8/8/8 w - - 0 1" {
		t.Fatalf("override not applied: %q", got)
	}
}

func TestDuplicateOverrideKeys(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("game:\n  saved: x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}

func TestNonStringLeafRejected(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("count: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected error for non-string leaf")
	}
}
