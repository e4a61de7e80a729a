package chesspresenter

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/Cheese-IRC-bot/internal/chess"
	"github.com/park285/Cheese-IRC-bot/internal/msgcat"
	"github.com/park285/Cheese-IRC-bot/internal/obslog"
	"github.com/park285/Cheese-IRC-bot/internal/session"
)

const fallbackText = "something went wrong"

// PrefixProvider exposes the command marker replies should advertise.
type PrefixProvider interface {
	Prefix() string
}

// StaticPrefix is a fixed PrefixProvider.
type StaticPrefix string

func (p StaticPrefix) Prefix() string { return string(p) }

// Formatter turns game state into channel replies through the message catalog.
type Formatter struct {
	cat            *msgcat.Catalog
	prefixProvider PrefixProvider
	nick           string
	version        string
}

func NewFormatter(cat *msgcat.Catalog, provider PrefixProvider, nick, version string) *Formatter {
	if cat == nil {
		cat = msgcat.MustDefault()
	}
	return &Formatter{cat: cat, prefixProvider: provider, nick: nick, version: version}
}

func (f *Formatter) Prefix() string {
	if f == nil || f.prefixProvider == nil {
		return ""
	}
	return strings.TrimSpace(f.prefixProvider.Prefix())
}

func (f *Formatter) render(key string, data map[string]any) string {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Prefix"]; !ok {
		data["Prefix"] = f.Prefix()
	}
	out, err := f.cat.Render(key, data)
	if err != nil {
		obslog.L().Error("msgcat_render_error", zap.String("key", key), zap.Error(err))
		if out, err = f.cat.Render("error.internal", nil); err != nil {
			return fallbackText
		}
	}
	return out
}

func (f *Formatter) Version() string {
	return f.render("version", map[string]any{"Nick": f.nick, "Version": f.version})
}

func (f *Formatter) Help() string { return f.render("help", nil) }

// Usage renders the usage line for command.
func (f *Formatter) Usage(command string) string { return f.render("usage."+command, nil) }

func (f *Formatter) NewGame(g *chess.GameState) string {
	return f.render("game.new", players(g))
}

func (f *Formatter) Loaded(g *chess.GameState) string {
	data := players(g)
	data["MoveCount"] = len(g.Moves())
	return f.render("game.loaded", data)
}

func (f *Formatter) NotFound(white, black string) string {
	return f.render("game.not_found", map[string]any{"White": white, "Black": black})
}

func (f *Formatter) NoGame() string         { return f.render("game.none", nil) }
func (f *Formatter) InvalidPlayers() string { return f.render("game.invalid_players", nil) }
func (f *Formatter) SaveFailed() string     { return f.render("game.save_failed", nil) }
func (f *Formatter) Internal() string       { return f.render("error.internal", nil) }

func (f *Formatter) Saved(g *chess.GameState) string {
	return f.render("game.saved", players(g))
}

func (f *Formatter) InvalidSquare(input string) string {
	return f.render("square.invalid", map[string]any{"Input": input})
}

// Moves lists the destinations of the piece on sq.
func (f *Formatter) Moves(sq chess.Square, p chess.Piece, targets []chess.Square) string {
	if p.IsZero() {
		return f.render("moves.empty_square", map[string]any{"Square": sq.String()})
	}
	data := map[string]any{"Square": sq.String(), "Piece": p.Name()}
	if len(targets) == 0 {
		return f.render("moves.none", data)
	}
	data["Targets"] = strings.Join(squareNames(targets), " ")
	return f.render("moves.list", data)
}

func (f *Formatter) Move(res session.MoveResult) string {
	data := map[string]any{
		"Piece": res.Piece.Name(),
		"From":  res.From.String(),
		"To":    res.To.String(),
	}
	if res.IsCapture() {
		data["Captured"] = res.Captured.Name()
		return f.render("move.capture", data)
	}
	return f.render("move.ok", data)
}

func (f *Formatter) Illegal(from, to chess.Square) string {
	return f.render("move.illegal", map[string]any{"From": from.String(), "To": to.String()})
}

// Board draws the position as text, rank 8 at the top.
func (f *Formatter) Board(g *chess.GameState) string {
	var sb strings.Builder
	sb.WriteString(f.render("board.header", players(g)))
	for i, row := range Rows(g) {
		sb.WriteString(fmt.Sprintf("\n%d %s", 8-i, strings.Join(strings.Split(row, ""), " ")))
	}
	sb.WriteString("\n  a b c d e f g h")
	return sb.String()
}

func (f *Formatter) FEN(g *chess.GameState) string {
	return f.render("fen", map[string]any{"FEN": g.FEN()})
}

func (f *Formatter) Discards(g *chess.GameState) string {
	names := pieceNames(g.Discarded())
	if len(names) == 0 {
		return f.render("discards.none", nil)
	}
	return f.render("discards.list", map[string]any{"Pieces": strings.Join(names, " ")})
}

func (f *Formatter) Games(player string, keys []string) string {
	if len(keys) == 0 {
		return f.render("games.none", map[string]any{"Player": player})
	}
	return f.render("games.list", map[string]any{"Player": player, "Keys": strings.Join(keys, ", ")})
}

func (f *Formatter) GamesUnsupported() string { return f.render("games.unsupported", nil) }

func players(g *chess.GameState) map[string]any {
	return map[string]any{"White": g.White(), "Black": g.Black()}
}
