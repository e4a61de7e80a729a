// Package statusapi serves read-only JSON and PNG views of live games.
package statusapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/Cheese-IRC-bot/internal/adapter/chesspresenter"
	"github.com/park285/Cheese-IRC-bot/internal/chess"
	"github.com/park285/Cheese-IRC-bot/internal/domain"
	"github.com/park285/Cheese-IRC-bot/internal/obslog"
	"github.com/park285/Cheese-IRC-bot/internal/render"
	"github.com/park285/Cheese-IRC-bot/internal/session"
	"github.com/park285/Cheese-IRC-bot/pkg/chessdto"
)

// History lists archived saves for a pairing.
type History interface {
	Recent(ctx context.Context, white, black string, limit int) ([]domain.GameSnapshot, error)
}

type Option func(*Server)

func WithHistory(h History) Option { return func(s *Server) { s.history = h } }

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

type Server struct {
	mgr     *session.Manager
	history History
	log     *zap.Logger
	srv     *fasthttp.Server
}

func New(mgr *session.Manager, opts ...Option) *Server {
	s := &Server{mgr: mgr, log: obslog.L()}
	for _, opt := range opts {
		opt(s)
	}
	s.srv = &fasthttp.Server{
		Handler:      s.Handle,
		Name:         "chess-bot",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) ListenAndServe(addr string) error { return s.srv.ListenAndServe(addr) }

func (s *Server) Serve(ln net.Listener) error { return s.srv.Serve(ln) }

func (s *Server) Shutdown(ctx context.Context) error { return s.srv.ShutdownWithContext(ctx) }

// Handle routes:
//
//	GET /healthz
//	GET /games
//	GET /games/{channel}
//	GET /games/{channel}/moves?square=e2
//	GET /games/{channel}/board.png
//	GET /archive/{white}/{black}?limit=20
func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	parts := splitPath(string(ctx.Path()))
	switch {
	case len(parts) == 1 && parts[0] == "healthz":
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString("ok")
	case len(parts) == 1 && parts[0] == "games":
		writeJSON(ctx, fasthttp.StatusOK, chessdto.ChannelList{Channels: s.mgr.Channels()})
	case len(parts) >= 2 && parts[0] == "games":
		s.game(ctx, channelName(parts[1]), parts[2:])
	case len(parts) == 3 && parts[0] == "archive":
		s.archive(ctx, parts[1], parts[2])
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not_found", "")
	}
}

func (s *Server) game(ctx *fasthttp.RequestCtx, channel string, rest []string) {
	g, err := s.mgr.Active(channel)
	if errors.Is(err, session.ErrNoActiveGame) {
		writeError(ctx, fasthttp.StatusNotFound, "no_active_game", channel)
		return
	}
	if err != nil {
		s.internal(ctx, err)
		return
	}
	switch {
	case len(rest) == 0:
		writeJSON(ctx, fasthttp.StatusOK, chesspresenter.ToGameView(channel, g))
	case len(rest) == 1 && rest[0] == "moves":
		s.moves(ctx, g)
	case len(rest) == 1 && rest[0] == "board.png":
		data, err := render.PNG(ctx, g)
		if err != nil {
			s.internal(ctx, err)
			return
		}
		ctx.SetContentType("image/png")
		ctx.SetBody(data)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not_found", "")
	}
}

func (s *Server) moves(ctx *fasthttp.RequestCtx, g *chess.GameState) {
	raw := string(ctx.QueryArgs().Peek("square"))
	sq, err := chess.ParseSquare(raw)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid_square", raw)
		return
	}
	p, _ := g.Occupant(sq)
	writeJSON(ctx, fasthttp.StatusOK, chesspresenter.ToMovesView(sq, p, g.LegalMoves(sq)))
}

func (s *Server) archive(ctx *fasthttp.RequestCtx, white, black string) {
	if s.history == nil {
		writeError(ctx, fasthttp.StatusNotFound, "archive_disabled", "")
		return
	}
	limit, _ := strconv.Atoi(string(ctx.QueryArgs().Peek("limit")))
	list, err := s.history.Recent(ctx, white, black, limit)
	if err != nil {
		s.internal(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, chesspresenter.ToSnapshotViews(list))
}

func (s *Server) internal(ctx *fasthttp.RequestCtx, err error) {
	s.log.Error("status_api_error", zap.ByteString("path", ctx.Path()), zap.Error(err))
	writeError(ctx, fasthttp.StatusInternalServerError, "internal", "")
}

func splitPath(p string) []string {
	var out []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// channelName restores the "#" that URLs usually drop.
func channelName(seg string) string {
	if strings.HasPrefix(seg, "#") || strings.HasPrefix(seg, "&") {
		return seg
	}
	return "#" + seg
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, code, msg string) {
	writeJSON(ctx, status, chessdto.DomainError{Code: code, Message: msg})
}
