package store

import (
	"context"
	"slices"
	"sync"

	"github.com/park285/Cheese-IRC-bot/internal/chess"
)

// Memory keeps encoded saves in process memory. Loads decode a fresh copy,
// so callers never share state with the store.
type Memory struct {
	mu    sync.RWMutex
	saves map[string][]byte
	opts  []chess.Option
}

func NewMemory(opts ...chess.Option) *Memory {
	return &Memory{saves: make(map[string][]byte), opts: opts}
}

func (s *Memory) Save(ctx context.Context, g *chess.GameState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g == nil {
		return chess.ErrBadSave
	}
	if err := chess.CheckPlayers(g.White(), g.Black()); err != nil {
		return err
	}
	raw, err := chess.Marshal(g)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.saves[g.Key()] = raw
	s.mu.Unlock()
	return nil
}

func (s *Memory) Load(ctx context.Context, white, black string) (*chess.GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	raw, ok := s.saves[chess.GameKey(white, black)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	g, err := chess.Unmarshal(raw, s.opts...)
	if err != nil {
		return nil, ErrNotFound
	}
	return g, nil
}

func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.saves)
}

func (s *Memory) GamesFor(ctx context.Context, player string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.saves {
		if involves(k, player) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}
