// Package archive keeps a Postgres history of saved games.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/park285/Cheese-IRC-bot/internal/chess"
	"github.com/park285/Cheese-IRC-bot/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS chess_snapshots (
    snapshot_id   UUID PRIMARY KEY,
    player_white  TEXT NOT NULL,
    player_black  TEXT NOT NULL,
    moves         JSONB NOT NULL,
    discarded     JSONB NOT NULL,
    board         JSONB NOT NULL,
    fen           TEXT NOT NULL,
    saved_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS chess_snapshots_players_idx
    ON chess_snapshots (player_white, player_black, saved_at DESC);`

type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Repository{db: db, now: time.Now}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// EnsureSchema creates the snapshot table when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Snapshot captures g as an archive row stamped with at.
func Snapshot(g *chess.GameState, at time.Time) domain.GameSnapshot {
	board := make(map[string]string)
	for sq, p := range g.Placement() {
		board[sq.String()] = p.Name()
	}
	discarded := make([]string, 0, len(g.Discarded()))
	for _, p := range g.Discarded() {
		discarded = append(discarded, p.Name())
	}
	return domain.GameSnapshot{
		ID:        uuid.NewString(),
		White:     g.White(),
		Black:     g.Black(),
		Moves:     g.Moves(),
		Discarded: discarded,
		Board:     board,
		FEN:       g.FEN(),
		SavedAt:   at.UTC(),
	}
}

// Record appends a snapshot of g.
func (r *Repository) Record(ctx context.Context, g *chess.GameState) error {
	if r == nil || r.db == nil || g == nil {
		return nil
	}
	s := Snapshot(g, r.now())
	moves, err := json.Marshal(s.Moves)
	if err != nil {
		return fmt.Errorf("encode moves: %w", err)
	}
	discarded, err := json.Marshal(s.Discarded)
	if err != nil {
		return fmt.Errorf("encode discarded: %w", err)
	}
	board, err := json.Marshal(s.Board)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}

	q := `INSERT INTO chess_snapshots (
        snapshot_id, player_white, player_black, moves, discarded, board, fen, saved_at
      ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err = r.db.ExecContext(ctx, q,
		s.ID, s.White, s.Black,
		string(moves), string(discarded), string(board),
		s.FEN, s.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Recent lists the newest snapshots for a pairing, newest first.
func (r *Repository) Recent(ctx context.Context, white, black string, limit int) ([]domain.GameSnapshot, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := `SELECT snapshot_id, player_white, player_black, moves, discarded, board, fen, saved_at
      FROM chess_snapshots
      WHERE player_white = $1 AND player_black = $2
      ORDER BY saved_at DESC
      LIMIT $3`
	rows, err := r.db.QueryContext(ctx, q, white, black, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GameSnapshot
	for rows.Next() {
		var (
			s                       domain.GameSnapshot
			moves, discarded, board []byte
		)
		if err := rows.Scan(&s.ID, &s.White, &s.Black, &moves, &discarded, &board, &s.FEN, &s.SavedAt); err != nil {
			return nil, err
		}
		if err := decodeColumns(&s, moves, discarded, board); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", s.ID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func decodeColumns(s *domain.GameSnapshot, moves, discarded, board []byte) error {
	if err := json.Unmarshal(moves, &s.Moves); err != nil {
		return err
	}
	if err := json.Unmarshal(discarded, &s.Discarded); err != nil {
		return err
	}
	return json.Unmarshal(board, &s.Board)
}
