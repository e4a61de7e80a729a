package main

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/park285/Cheese-IRC-bot/internal/relay"
)

func TestConsoleLoop(t *testing.T) {
	var sent []string
	send := func(_ context.Context, line string) error {
		sent = append(sent, line)
		return nil
	}
	quit := false
	in := strings.NewReader("PRIVMSG #bottester :hello\n\n  JOIN #other \nexit\nNICK ignored\n")
	consoleLoop(context.Background(), in, send, func() { quit = true })

	if !quit {
		t.Fatalf("expected exit to call quit")
	}
	if diff := cmp.Diff([]string{"PRIVMSG #bottester :hello", "JOIN #other"}, sent); diff != "" {
		t.Fatalf("sent mismatch (-want +got):\n%s", diff)
	}
}

func TestConsoleLoopEOFDoesNotQuit(t *testing.T) {
	quit := false
	send := func(context.Context, string) error { return relay.ErrNotConnected }
	consoleLoop(context.Background(), strings.NewReader("PING :x"), send, func() { quit = true })
	if quit {
		t.Fatalf("end of input must not quit the bot")
	}
}
