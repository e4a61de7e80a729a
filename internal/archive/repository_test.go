package archive

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/park285/Cheese-IRC-bot/internal/chess"
	"github.com/park285/Cheese-IRC-bot/internal/domain"
)

func TestSnapshot(t *testing.T) {
	g := chess.NewGame("alice", "bob")
	from, _ := chess.ParseSquare("b2")
	to, _ := chess.ParseSquare("b3")
	if !g.MovePiece(from, to) {
		t.Fatalf("setup move rejected")
	}
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("KST", 9*3600))
	s := Snapshot(g, at)

	if _, err := uuid.Parse(s.ID); err != nil {
		t.Fatalf("snapshot id is not a uuid: %q", s.ID)
	}
	if !s.SavedAt.Equal(at) || s.SavedAt.Location() != time.UTC {
		t.Fatalf("unexpected saved_at %v", s.SavedAt)
	}
	if s.Board["b3"] != "wpawn" || s.Board["e8"] != "bking" {
		t.Fatalf("unexpected board entries: b3=%q e8=%q", s.Board["b3"], s.Board["e8"])
	}
	if _, ok := s.Board["b2"]; ok {
		t.Fatalf("vacated square still present")
	}
	if len(s.Board) != 32 {
		t.Fatalf("expected 32 pieces, got %d", len(s.Board))
	}
	if diff := cmp.Diff([]string{"b2b3"}, s.Moves); diff != "" {
		t.Fatalf("moves mismatch (-want +got):\n%s", diff)
	}
	if s.FEN != g.FEN() {
		t.Fatalf("fen mismatch %q vs %q", s.FEN, g.FEN())
	}
}

func TestDecodeColumns(t *testing.T) {
	var s domain.GameSnapshot
	err := decodeColumns(&s, []byte(`["h1h6","h6xh7"]`), []byte(`["bpawn"]`), []byte(`{"h7":"wrook"}`))
	if err != nil {
		t.Fatalf("decodeColumns: %v", err)
	}
	want := domain.GameSnapshot{
		Moves:     []string{"h1h6", "h6xh7"},
		Discarded: []string{"bpawn"},
		Board:     map[string]string{"h7": "wrook"},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if err := decodeColumns(&s, []byte(`{`), nil, nil); err == nil {
		t.Fatalf("expected error for bad json")
	}
}

func TestNilRepositoryRecordIsNoop(t *testing.T) {
	var r *Repository
	if err := r.Record(context.Background(), chess.NewGame("a", "b")); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewRepositoryRequiresURL(t *testing.T) {
	if _, err := NewRepository("  "); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

// Runs against a live Postgres when ARCHIVE_TEST_DATABASE_URL is set.
func TestRepositoryRoundTrip(t *testing.T) {
	dsn := os.Getenv("ARCHIVE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ARCHIVE_TEST_DATABASE_URL not set")
	}
	repo, err := NewRepository(dsn)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	ctx := context.Background()
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema is not repeatable: %v", err)
	}

	white := "w" + uuid.NewString()[:8]
	black := "b" + uuid.NewString()[:8]
	t.Cleanup(func() {
		_, _ = repo.db.ExecContext(context.Background(),
			`DELETE FROM chess_snapshots WHERE player_white = $1 AND player_black = $2`, white, black)
	})

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	g := chess.NewGame(white, black)
	repo.now = func() time.Time { return base }
	if err := repo.Record(ctx, g); err != nil {
		t.Fatalf("Record first: %v", err)
	}
	from, _ := chess.ParseSquare("b2")
	to, _ := chess.ParseSquare("b3")
	if !g.MovePiece(from, to) {
		t.Fatalf("setup move rejected")
	}
	repo.now = func() time.Time { return base.Add(time.Minute) }
	if err := repo.Record(ctx, g); err != nil {
		t.Fatalf("Record second: %v", err)
	}

	got, err := repo.Recent(ctx, white, black, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(got))
	}
	if diff := cmp.Diff([]string{"b2b3"}, got[0].Moves); diff != "" {
		t.Fatalf("newest moves mismatch (-want +got):\n%s", diff)
	}
	if len(got[1].Moves) != 0 {
		t.Fatalf("oldest snapshot should have no moves, got %v", got[1].Moves)
	}
	if got[0].Board["b3"] != "wpawn" || got[0].FEN != g.FEN() {
		t.Fatalf("unexpected newest snapshot: b3=%q fen=%q", got[0].Board["b3"], got[0].FEN)
	}
	if !got[0].SavedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected saved_at %v", got[0].SavedAt)
	}

	one, err := repo.Recent(ctx, white, black, 1)
	if err != nil {
		t.Fatalf("Recent limit 1: %v", err)
	}
	if len(one) != 1 || one[0].ID != got[0].ID {
		t.Fatalf("limit 1 should return the newest snapshot")
	}
}
