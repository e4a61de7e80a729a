// Package session owns the live games of each channel and serializes access
// to them. A game is only ever touched under its entry lock.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/park285/Cheese-IRC-bot/internal/chess"
	"github.com/park285/Cheese-IRC-bot/internal/obslog"
	"github.com/park285/Cheese-IRC-bot/internal/store"
)

var (
	ErrNoActiveGame   = errors.New("no active game")
	ErrInvalidPlayers = errors.New("invalid players")
	ErrIllegalMove    = errors.New("illegal move")
	ErrNotFound       = store.ErrNotFound
)

// Archiver receives a copy of every saved game.
type Archiver interface {
	Record(ctx context.Context, g *chess.GameState) error
}

type Option func(*Manager)

func WithArchive(a Archiver) Option { return func(m *Manager) { m.archive = a } }

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithGameOptions applies chess options to every game the manager creates.
func WithGameOptions(opts ...chess.Option) Option {
	return func(m *Manager) { m.gameOpts = append(m.gameOpts, opts...) }
}

// WithAutosave stores the game after every successful move.
func WithAutosave() Option { return func(m *Manager) { m.autosave = true } }

type entry struct {
	mu   sync.Mutex
	game *chess.GameState
}

type Manager struct {
	store    store.Store
	archive  Archiver
	log      *zap.Logger
	gameOpts []chess.Option
	autosave bool

	mu     sync.Mutex
	games  map[string]*entry
	active map[string]string
}

func NewManager(st store.Store, opts ...Option) *Manager {
	m := &Manager{
		store:  st,
		log:    obslog.L(),
		games:  make(map[string]*entry),
		active: make(map[string]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MoveResult describes an applied move.
type MoveResult struct {
	From     chess.Square
	To       chess.Square
	Piece    chess.Piece
	Captured chess.Piece
	Game     *chess.GameState
}

func (r MoveResult) IsCapture() bool { return !r.Captured.IsZero() }

// NewGame starts the opening position for white and black and makes it the
// channel's active game. An existing live game for the same pair is replaced.
func (m *Manager) NewGame(ctx context.Context, channel, white, black string) (*chess.GameState, error) {
	white, black = strings.TrimSpace(white), strings.TrimSpace(black)
	if err := chess.CheckPlayers(white, black); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlayers, err)
	}
	g := chess.NewGame(white, black, m.gameOpts...)
	m.install(channel, g)
	m.log.Info("game_new",
		zap.String("channel", channel),
		zap.String("game", g.Key()),
	)
	return g.Clone(), nil
}

// LoadGame restores a saved game from the store and makes it active.
func (m *Manager) LoadGame(ctx context.Context, channel, white, black string) (*chess.GameState, error) {
	white, black = strings.TrimSpace(white), strings.TrimSpace(black)
	if err := chess.CheckPlayers(white, black); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlayers, err)
	}
	g, err := m.store.Load(ctx, white, black)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load %s: %w", chess.GameKey(white, black), err)
	}
	m.install(channel, g)
	m.log.Info("game_load",
		zap.String("channel", channel),
		zap.String("game", g.Key()),
		zap.Int("moves", len(g.Moves())),
	)
	return g.Clone(), nil
}

func (m *Manager) install(channel string, g *chess.GameState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.Key()] = &entry{game: g}
	m.active[channel] = g.Key()
}

func (m *Manager) entryFor(channel string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.active[channel]
	if !ok {
		return nil, ErrNoActiveGame
	}
	e, ok := m.games[key]
	if !ok {
		return nil, ErrNoActiveGame
	}
	return e, nil
}

// LegalMoves reports the occupant of sq and its destinations. An empty square
// yields NoPiece and no moves.
func (m *Manager) LegalMoves(ctx context.Context, channel string, sq chess.Square) (chess.Piece, []chess.Square, error) {
	e, err := m.entryFor(channel)
	if err != nil {
		return chess.NoPiece, nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	p, _ := e.game.Occupant(sq)
	return p, e.game.LegalMoves(sq), nil
}

// Move applies from->to to the channel's active game.
func (m *Manager) Move(ctx context.Context, channel string, from, to chess.Square) (MoveResult, error) {
	e, err := m.entryFor(channel)
	if err != nil {
		return MoveResult{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	piece, _ := e.game.Occupant(from)
	captured, _ := e.game.Occupant(to)
	if !e.game.MovePiece(from, to) {
		m.log.Debug("game_move_rejected",
			zap.String("channel", channel),
			zap.String("game", e.game.Key()),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
		return MoveResult{}, fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
	}
	m.log.Info("game_move",
		zap.String("channel", channel),
		zap.String("game", e.game.Key()),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Bool("capture", !captured.IsZero()),
	)
	if m.autosave {
		if err := m.store.Save(ctx, e.game); err != nil {
			m.log.Warn("game_autosave_error", zap.String("game", e.game.Key()), zap.Error(err))
		}
	}
	return MoveResult{From: from, To: to, Piece: piece, Captured: captured, Game: e.game.Clone()}, nil
}

// SaveGame writes the active game to the store and, when configured, the archive.
// Archive failures are logged only.
func (m *Manager) SaveGame(ctx context.Context, channel string) (*chess.GameState, error) {
	e, err := m.entryFor(channel)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := m.store.Save(ctx, e.game); err != nil {
		m.log.Error("game_save_error", zap.String("game", e.game.Key()), zap.Error(err))
		return nil, fmt.Errorf("save %s: %w", e.game.Key(), err)
	}
	m.log.Info("game_save", zap.String("channel", channel), zap.String("game", e.game.Key()))
	if m.archive != nil {
		if err := m.archive.Record(ctx, e.game); err != nil {
			m.log.Warn("game_archive_error", zap.String("game", e.game.Key()), zap.Error(err))
		}
	}
	return e.game.Clone(), nil
}

// Active returns a copy of the channel's active game.
func (m *Manager) Active(channel string) (*chess.GameState, error) {
	e, err := m.entryFor(channel)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.Clone(), nil
}

// Channels lists channels with an active game, sorted.
func (m *Manager) Channels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.active))
	for ch := range m.active {
		out = append(out, ch)
	}
	slices.Sort(out)
	return out
}

// GamesFor lists saved games for a player when the store can enumerate them.
func (m *Manager) GamesFor(ctx context.Context, player string) ([]string, error) {
	l, ok := m.store.(store.Lister)
	if !ok {
		return nil, errors.ErrUnsupported
	}
	return l.GamesFor(ctx, strings.TrimSpace(player))
}
