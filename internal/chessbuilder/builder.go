// Package chessbuilder wires the game stack from configuration.
package chessbuilder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/Cheese-IRC-bot/internal/adapter/chesspresenter"
	"github.com/park285/Cheese-IRC-bot/internal/archive"
	"github.com/park285/Cheese-IRC-bot/internal/chess"
	"github.com/park285/Cheese-IRC-bot/internal/config"
	"github.com/park285/Cheese-IRC-bot/internal/msgcat"
	"github.com/park285/Cheese-IRC-bot/internal/session"
	"github.com/park285/Cheese-IRC-bot/internal/store"
)

type Deps struct {
	Manager   *session.Manager
	Store     store.Store
	Archive   *archive.Repository
	Formatter *chesspresenter.Formatter

	closers []func() error
}

// Close releases the store and archive connections.
func (d *Deps) Close() error {
	var first error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Deps{}

	var gameOpts []chess.Option
	if cfg.LegacyPawnCapture {
		gameOpts = append(gameOpts, chess.WithSingleDiagonalPawnCapture())
	}

	st, err := newStore(ctx, cfg, d, gameOpts)
	if err != nil {
		return nil, err
	}
	d.Store = st

	mgrOpts := []session.Option{session.WithLogger(logger), session.WithGameOptions(gameOpts...)}
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		repo, err := archive.NewRepository(cfg.DatabaseURL)
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("init archive: %w", err)
		}
		d.closers = append(d.closers, repo.Close)
		sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = repo.EnsureSchema(sctx)
		cancel()
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("archive schema: %w", err)
		}
		d.Archive = repo
		mgrOpts = append(mgrOpts, session.WithArchive(repo))
	}
	d.Manager = session.NewManager(st, mgrOpts...)

	cat, err := msgcat.New(cfg.MsgcatDir)
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("load messages: %w", err)
	}
	d.Formatter = chesspresenter.NewFormatter(cat, chesspresenter.StaticPrefix(cfg.BotPrefix), cfg.IRCNick, cfg.BotVersion)

	logger.Info("chess_deps_ready",
		zap.String("store", cfg.StoreBackend),
		zap.Bool("archive", d.Archive != nil),
		zap.Bool("legacy_pawn_capture", cfg.LegacyPawnCapture),
	)
	return d, nil
}

func newStore(ctx context.Context, cfg *config.AppConfig, d *Deps, opts []chess.Option) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreRedis:
		r, err := store.NewRedisFromURL(ctx, cfg.RedisURL, time.Duration(cfg.GameTTLSec)*time.Second, opts...)
		if err != nil {
			return nil, fmt.Errorf("init redis store: %w", err)
		}
		d.closers = append(d.closers, r.Close)
		return r, nil
	case config.StoreMemory:
		return store.NewMemory(opts...), nil
	default:
		return store.NewFile(cfg.SaveDir, opts...), nil
	}
}
