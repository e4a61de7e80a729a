package relay

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/Cheese-IRC-bot/internal/adapter/chesspresenter"
	"github.com/park285/Cheese-IRC-bot/internal/chess"
	"github.com/park285/Cheese-IRC-bot/internal/obslog"
	"github.com/park285/Cheese-IRC-bot/internal/session"
)

// Replier sends a possibly multi-line reply to a channel.
type Replier interface {
	Reply(target, message string) error
}

type commandFunc func(ctx context.Context, ch string, args []string) string

// Commands maps "<prefix><word> args..." channel messages onto the session
// manager. Unknown words get no reply.
type Commands struct {
	prefix string
	mgr    *session.Manager
	fmt    *chesspresenter.Formatter
	out    Replier
	log    *zap.Logger
	table  map[string]commandFunc
}

func NewCommands(prefix string, mgr *session.Manager, f *chesspresenter.Formatter, out Replier) *Commands {
	c := &Commands{prefix: prefix, mgr: mgr, fmt: f, out: out, log: obslog.L()}
	c.table = map[string]commandFunc{
		"version":  c.version,
		"help":     c.help,
		"new":      c.newGame,
		"load":     c.loadGame,
		"moves":    c.moves,
		"move":     c.move,
		"save":     c.save,
		"board":    c.board,
		"fen":      c.fen,
		"discards": c.discards,
		"games":    c.games,
	}
	return c
}

// Handle is a MessageHandler.
func (c *Commands) Handle(ctx context.Context, msg ChannelMessage) {
	word, args, ok := c.parse(msg.Text)
	if !ok {
		return
	}
	fn, ok := c.table[word]
	if !ok {
		return
	}
	reqID := uuid.NewString()
	log := c.log.With(
		zap.String("request_id", reqID),
		zap.String("channel", msg.Channel),
		zap.String("nick", msg.Nick),
		zap.String("command", word),
	)
	log.Debug("irc_command")
	reply := fn(ctx, msg.Channel, args)
	if reply == "" {
		return
	}
	if err := c.out.Reply(msg.Channel, reply); err != nil {
		log.Warn("irc_reply_error", zap.Error(err))
	}
}

func (c *Commands) parse(text string) (string, []string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], c.prefix) {
		return "", nil, false
	}
	word := strings.ToLower(strings.TrimPrefix(fields[0], c.prefix))
	if word == "" {
		return "", nil, false
	}
	return word, fields[1:], true
}

func (c *Commands) version(context.Context, string, []string) string { return c.fmt.Version() }

func (c *Commands) help(context.Context, string, []string) string { return c.fmt.Help() }

func (c *Commands) newGame(ctx context.Context, ch string, args []string) string {
	if len(args) != 2 {
		return c.fmt.Usage("new")
	}
	g, err := c.mgr.NewGame(ctx, ch, args[0], args[1])
	if err != nil {
		return c.failure(err)
	}
	return c.fmt.NewGame(g)
}

func (c *Commands) loadGame(ctx context.Context, ch string, args []string) string {
	if len(args) != 2 {
		return c.fmt.Usage("load")
	}
	g, err := c.mgr.LoadGame(ctx, ch, args[0], args[1])
	if errors.Is(err, session.ErrNotFound) {
		return c.fmt.NotFound(args[0], args[1])
	}
	if err != nil {
		return c.failure(err)
	}
	return c.fmt.Loaded(g)
}

func (c *Commands) moves(ctx context.Context, ch string, args []string) string {
	if len(args) != 1 {
		return c.fmt.Usage("moves")
	}
	sq, err := chess.ParseSquare(args[0])
	if err != nil {
		return c.fmt.InvalidSquare(args[0])
	}
	p, targets, err := c.mgr.LegalMoves(ctx, ch, sq)
	if err != nil {
		return c.failure(err)
	}
	return c.fmt.Moves(sq, p, targets)
}

func (c *Commands) move(ctx context.Context, ch string, args []string) string {
	// "e2e4" as one token.
	if len(args) == 1 && len(args[0]) == 4 && args[0][0] >= 'a' && args[0][0] <= 'h' {
		args = []string{args[0][:2], args[0][2:]}
	}
	if len(args) != 2 {
		return c.fmt.Usage("move")
	}
	from, err := chess.ParseSquare(args[0])
	if err != nil {
		return c.fmt.InvalidSquare(args[0])
	}
	to, err := chess.ParseSquare(args[1])
	if err != nil {
		return c.fmt.InvalidSquare(args[1])
	}
	res, err := c.mgr.Move(ctx, ch, from, to)
	if errors.Is(err, session.ErrIllegalMove) {
		return c.fmt.Illegal(from, to)
	}
	if err != nil {
		return c.failure(err)
	}
	return c.fmt.Move(res)
}

func (c *Commands) save(ctx context.Context, ch string, _ []string) string {
	g, err := c.mgr.SaveGame(ctx, ch)
	if errors.Is(err, session.ErrNoActiveGame) {
		return c.fmt.NoGame()
	}
	if err != nil {
		c.log.Error("irc_save_error", zap.String("channel", ch), zap.Error(err))
		return c.fmt.SaveFailed()
	}
	return c.fmt.Saved(g)
}

func (c *Commands) board(_ context.Context, ch string, _ []string) string {
	g, err := c.mgr.Active(ch)
	if err != nil {
		return c.failure(err)
	}
	return c.fmt.Board(g)
}

func (c *Commands) fen(_ context.Context, ch string, _ []string) string {
	g, err := c.mgr.Active(ch)
	if err != nil {
		return c.failure(err)
	}
	return c.fmt.FEN(g)
}

func (c *Commands) discards(_ context.Context, ch string, _ []string) string {
	g, err := c.mgr.Active(ch)
	if err != nil {
		return c.failure(err)
	}
	return c.fmt.Discards(g)
}

func (c *Commands) games(ctx context.Context, _ string, args []string) string {
	if len(args) != 1 {
		return c.fmt.Usage("games")
	}
	keys, err := c.mgr.GamesFor(ctx, args[0])
	if errors.Is(err, errors.ErrUnsupported) {
		return c.fmt.GamesUnsupported()
	}
	if err != nil {
		return c.failure(err)
	}
	return c.fmt.Games(args[0], keys)
}

func (c *Commands) failure(err error) string {
	switch {
	case errors.Is(err, session.ErrNoActiveGame):
		return c.fmt.NoGame()
	case errors.Is(err, session.ErrInvalidPlayers):
		return c.fmt.InvalidPlayers()
	default:
		c.log.Error("irc_command_error", zap.Error(err))
		return c.fmt.Internal()
	}
}
