package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/Cheese-IRC-bot/internal/adapter/chesspresenter"
	"github.com/park285/Cheese-IRC-bot/internal/chessbuilder"
	appcfg "github.com/park285/Cheese-IRC-bot/internal/config"
	"github.com/park285/Cheese-IRC-bot/internal/obslog"
	"github.com/park285/Cheese-IRC-bot/internal/relay"
	"github.com/park285/Cheese-IRC-bot/internal/statusapi"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := chessbuilder.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("chess_init_error", zap.Error(err))
	}
	defer func() { _ = deps.Close() }()

	dial := relay.DialTCP(cfg.IRCServer)
	if cfg.IRCWSURL != "" {
		dial = relay.DialWebSocket(cfg.IRCWSURL, nil)
	}

	var client *relay.Client
	presenter := chesspresenter.NewPresenter(func(target, line string) error {
		return client.Privmsg(ctx, target, line)
	})
	commands := relay.NewCommands(cfg.BotPrefix, deps.Manager, deps.Formatter, presenter)
	client = relay.NewClient(dial,
		relay.Identity{Nick: cfg.IRCNick, RealName: cfg.IRCRealName, Channel: cfg.IRCChannel},
		commands.Handle,
		relay.WithLogger(logger),
		relay.WithStateCallback(func(s relay.State) {
			logger.Info("irc_state", zap.Stringer("state", s))
		}),
	)

	var status *statusapi.Server
	if cfg.StatusAddr != "" {
		opts := []statusapi.Option{statusapi.WithLogger(logger)}
		if deps.Archive != nil {
			opts = append(opts, statusapi.WithHistory(deps.Archive))
		}
		status = statusapi.New(deps.Manager, opts...)
		go func() {
			logger.Info("status_api_listen", zap.String("addr", cfg.StatusAddr))
			if err := status.ListenAndServe(cfg.StatusAddr); err != nil {
				logger.Error("status_api_error", zap.Error(err))
			}
		}()
	}

	go consoleLoop(ctx, os.Stdin, client.Send, func() {
		_ = client.Send(context.Background(), relay.Line("QUIT", true, "bye"))
		stop()
	})

	if err := client.Run(ctx); err != nil {
		logger.Error("irc_run_error", zap.Error(err))
	}

	if status != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = status.Shutdown(sctx)
		cancel()
	}
	logger.Info("shutdown")
}

// consoleLoop forwards operator lines from r to the server verbatim. The
// line "exit" calls quit; end of input just stops reading.
func consoleLoop(ctx context.Context, r io.Reader, send func(context.Context, string) error, quit func()) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case line == "exit":
			quit()
			return
		}
		if err := send(ctx, line); err != nil {
			if errors.Is(err, relay.ErrNotConnected) {
				obslog.L().Warn("console_not_connected", zap.String("line", line))
				continue
			}
			obslog.L().Warn("console_send_error", zap.Error(err))
		}
		if ctx.Err() != nil {
			return
		}
	}
}
