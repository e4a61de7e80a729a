// Package store persists games between sessions. Every backend speaks the
// same JSON save format as chess.Marshal.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/park285/Cheese-IRC-bot/internal/chess"
)

// ErrNotFound means there is no usable prior game for the pair: the save
// is absent, too short, or does not decode.
var ErrNotFound = errors.New("game not found")

// Store is implemented by File, Redis and Memory.
type Store interface {
	Save(ctx context.Context, g *chess.GameState) error
	Load(ctx context.Context, white, black string) (*chess.GameState, error)
}

// Lister is implemented by backends that can enumerate a player's saves.
type Lister interface {
	GamesFor(ctx context.Context, player string) ([]string, error)
}

func involves(key, player string) bool {
	white, black, ok := strings.Cut(key, "_")
	return ok && (white == player || black == player)
}
