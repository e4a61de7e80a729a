package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"

	"github.com/park285/Cheese-IRC-bot/internal/chess"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedis(rdb, time.Hour), mr
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	r, _ := newTestRedis(t)
	return map[string]Store{
		"file":   NewFile(t.TempDir()),
		"memory": NewMemory(),
		"redis":  r,
	}
}

func playedGame(t *testing.T) *chess.GameState {
	t.Helper()
	g := chess.NewGame("alice", "bob")
	for _, mv := range [][2]string{{"e2", "e3"}, {"d7", "d6"}, {"d1", "h5"}, {"h5", "f7"}} {
		from, _ := chess.ParseSquare(mv[0])
		to, _ := chess.ParseSquare(mv[1])
		if !g.MovePiece(from, to) {
			t.Fatalf("setup move %s%s rejected", mv[0], mv[1])
		}
	}
	return g
}

func TestRoundTripAllBackends(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			want := playedGame(t)
			if err := s.Save(ctx, want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := s.Load(ctx, "alice", "bob")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if diff := cmp.Diff(want.Placement(), got.Placement()); diff != "" {
				t.Fatalf("board mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(want.Discarded(), got.Discarded()); diff != "" {
				t.Fatalf("discards mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(want.Moves(), got.Moves()); diff != "" {
				t.Fatalf("moves mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMissingGameIsNotFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Load(ctx, "nobody", "else"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if _, err := s.Load(ctx, "../x", "y"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound for path-like name, got %v", err)
			}
		})
	}
}

func TestSaveRejectsBadPlayers(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Save(ctx, chess.NewGame("a/b", "c")); !errors.Is(err, chess.ErrBadPlayer) {
				t.Fatalf("expected ErrBadPlayer, got %v", err)
			}
		})
	}
}

func TestFileCorruptSaveIsNotFound(t *testing.T) {
	dir := t.TempDir()
	s := NewFile(dir)
	if err := os.WriteFile(filepath.Join(dir, "alice_bob"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(context.Background(), "alice", "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for short file, got %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "alice_bob"), []byte(`{"board":{"99":"wking"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(context.Background(), "alice", "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for out-of-range square, got %v", err)
	}
}

func TestRedisKeysAndTTL(t *testing.T) {
	s, mr := newTestRedis(t)
	ctx := context.Background()
	if err := s.Save(ctx, chess.NewGame("alice", "bob")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !mr.Exists("chess:game:alice_bob") {
		t.Fatalf("expected game key")
	}
	if ttl := mr.TTL("chess:game:alice_bob"); ttl != time.Hour {
		t.Fatalf("unexpected ttl %v", ttl)
	}
	if err := mr.Set("chess:game:alice_bob", "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, "alice", "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for corrupt payload, got %v", err)
	}
}

func TestRedisLoadKeepsPawnOption(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s := NewRedis(rdb, 0, chess.WithSingleDiagonalPawnCapture())
	ctx := context.Background()
	if err := s.Save(ctx, chess.NewGame("alice", "bob")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	g, err := s.Load(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !g.SingleDiagonalPawnCapture() {
		t.Fatalf("expected loaded game to keep the single diagonal rule")
	}
	if ttl := mr.TTL("chess:game:alice_bob"); ttl != defaultTTL {
		t.Fatalf("expected default ttl, got %v", ttl)
	}
}

func TestGamesFor(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, pair := range [][2]string{{"alice", "bob"}, {"carol", "alice"}, {"bob", "dave"}} {
				if err := s.Save(ctx, chess.NewGame(pair[0], pair[1])); err != nil {
					t.Fatalf("Save %v: %v", pair, err)
				}
			}
			l, ok := s.(Lister)
			if !ok {
				t.Fatalf("%s does not list games", name)
			}
			got, err := l.GamesFor(ctx, "alice")
			if err != nil {
				t.Fatalf("GamesFor: %v", err)
			}
			if diff := cmp.Diff([]string{"alice_bob", "carol_alice"}, got); diff != "" {
				t.Fatalf("games mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
