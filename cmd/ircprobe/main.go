package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	appcfg "github.com/park285/Cheese-IRC-bot/internal/config"
	"github.com/park285/Cheese-IRC-bot/internal/relay"
)

func main() {
	window := flag.Duration("window", 20*time.Second, "how long to stay connected")
	statusURL := flag.String("status", "", "base URL of a running status API, e.g. http://127.0.0.1:8080")
	flag.Parse()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	if *statusURL != "" {
		checkStatus(*statusURL)
	}

	dial := relay.DialTCP(cfg.IRCServer)
	target := cfg.IRCServer
	if cfg.IRCWSURL != "" {
		dial = relay.DialWebSocket(cfg.IRCWSURL, nil)
		target = cfg.IRCWSURL
	}
	log.Printf("probing %s as %s_probe in %s", target, cfg.IRCNick, cfg.IRCChannel)

	id := relay.Identity{Nick: cfg.IRCNick + "_probe", Channel: cfg.IRCChannel}
	client := relay.NewClient(dial, id, func(_ context.Context, msg relay.ChannelMessage) {
		fmt.Printf("msg channel=%s from=%s text=%q\n", msg.Channel, msg.Nick, msg.Text)
	},
		relay.WithReconnect(0, 0),
		relay.WithStateCallback(func(s relay.State) { log.Printf("IRC state: %s", s) }),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *window)
	defer cancel()
	if err := client.Run(ctx); err != nil {
		log.Printf("IRC error: %v", err)
	}
}

func checkStatus(base string) {
	c := &fasthttp.Client{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
	code, body, err := c.GetTimeout(nil, strings.TrimRight(base, "/")+"/healthz", 5*time.Second)
	if err != nil {
		log.Printf("/healthz error: %v", err)
		return
	}
	log.Printf("/healthz %d %s", code, strings.TrimSpace(string(body)))
}
