package chess

import (
	"sort"
	"testing"
)

func mustSquare(t *testing.T, name string) Square {
	t.Helper()
	sq, err := ParseSquare(name)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", name, err)
	}
	return sq
}

func squares(t *testing.T, names ...string) []Square {
	t.Helper()
	out := make([]Square, 0, len(names))
	for _, n := range names {
		out = append(out, mustSquare(t, n))
	}
	return sorted(out)
}

func sorted(list []Square) []Square {
	out := append([]Square{}, list...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// emptyGame builds a bare board from "square=piece" pairs, e.g. "e1=wking".
func emptyGame(t *testing.T, placement ...string) *GameState {
	t.Helper()
	g := newEmpty("white", "black")
	for _, entry := range placement {
		if len(entry) < 4 || entry[2] != '=' {
			t.Fatalf("bad placement %q", entry)
		}
		p, err := ParsePieceName(entry[3:])
		if err != nil {
			t.Fatalf("ParsePieceName(%q): %v", entry[3:], err)
		}
		g.board[mustSquare(t, entry[:2])] = p
	}
	return g
}

func removeAt(t *testing.T, g *GameState, name string) {
	t.Helper()
	if !g.capture(mustSquare(t, name)) {
		t.Fatalf("no piece to remove at %s", name)
	}
}
