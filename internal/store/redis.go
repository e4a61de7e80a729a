package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/park285/Cheese-IRC-bot/internal/chess"
)

const defaultTTL = 7 * 24 * time.Hour

// Redis stores the JSON save under chess:game:{white}_{black} and indexes
// each player's games in chess:index:player:{name}.
type Redis struct {
	rdb  *redis.Client
	ttl  time.Duration
	opts []chess.Option
}

func NewRedis(rdb *redis.Client, ttl time.Duration, opts ...chess.Option) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{rdb: rdb, ttl: ttl, opts: opts}
}

// NewRedisFromURL parses a redis:// URL and pings the server.
func NewRedisFromURL(ctx context.Context, url string, ttl time.Duration, opts ...chess.Option) (*Redis, error) {
	o, err := redis.ParseURL(strings.TrimSpace(url))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(o)
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedis(rdb, ttl, opts...), nil
}

func (s *Redis) Close() error { return s.rdb.Close() }

func (s *Redis) keyGame(white, black string) string {
	return "chess:game:" + chess.GameKey(white, black)
}

func (s *Redis) keyPlayer(name string) string { return "chess:index:player:" + strings.TrimSpace(name) }

func (s *Redis) Save(ctx context.Context, g *chess.GameState) error {
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
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.keyGame(g.White(), g.Black()), raw, s.ttl)
	for _, p := range []string{g.White(), g.Black()} {
		pipe.SAdd(ctx, s.keyPlayer(p), g.Key())
		pipe.Expire(ctx, s.keyPlayer(p), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save %s: %w", g.Key(), err)
	}
	return nil
}

func (s *Redis) Load(ctx context.Context, white, black string) (*chess.GameState, error) {
	if chess.CheckPlayers(white, black) != nil {
		return nil, ErrNotFound
	}
	raw, err := s.rdb.Get(ctx, s.keyGame(white, black)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis load: %w", err)
	}
	g, err := chess.Unmarshal(raw, s.opts...)
	if err != nil {
		return nil, ErrNotFound
	}
	return g, nil
}

// GamesFor lists the "{white}_{black}" keys a player has saved, sorted.
func (s *Redis) GamesFor(ctx context.Context, player string) ([]string, error) {
	keys, err := s.rdb.SMembers(ctx, s.keyPlayer(player)).Result()
	if err != nil {
		return nil, err
	}
	slices.Sort(keys)
	return keys, nil
}
