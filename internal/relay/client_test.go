package relay

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"
)

type fakeConn struct {
	in     chan string
	out    chan string
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan string, 16), out: make(chan string, 64), closed: make(chan struct{})}
}

func (f *fakeConn) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-f.in:
		if !ok {
			return "", io.EOF
		}
		return l, nil
	}
}

func (f *fakeConn) WriteLine(_ context.Context, line string) error {
	select {
	case <-f.closed:
		return io.ErrClosedPipe
	default:
	}
	f.out <- line
	return nil
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func expectLine(t *testing.T, out <-chan string, want string) {
	t.Helper()
	select {
	case got := <-out:
		if got != want {
			t.Fatalf("got line %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

func TestClientRegistersAndRelays(t *testing.T) {
	conn := newFakeConn()
	var mu sync.Mutex
	var got []ChannelMessage
	handled := make(chan struct{}, 4)
	handler := func(_ context.Context, msg ChannelMessage) {
		mu.Lock()
		got = append(got, msg)
		mu.Unlock()
		handled <- struct{}{}
	}
	dial := func(context.Context) (Conn, error) { return conn, nil }
	c := NewClient(dial, Identity{Nick: "BotManJohnson", Channel: "#bottester"}, handler, WithReconnect(0, 0))

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	expectLine(t, conn.out, "NICK BotManJohnson")
	expectLine(t, conn.out, "USER BotManJohnson 0 * :BotManJohnson")

	conn.in <- "PING :irc.example"
	expectLine(t, conn.out, "PONG :irc.example")

	conn.in <- ":srv 433 * BotManJohnson :Nickname is already in use"
	expectLine(t, conn.out, "NICK BotManJohnson_")

	conn.in <- ":srv 001 BotManJohnson_ :Welcome"
	expectLine(t, conn.out, "JOIN :#bottester")

	conn.in <- ":alice!a@h PRIVMSG BotManJohnson_ :!version"
	conn.in <- ":alice!a@h PRIVMSG #bottester :!version"
	select {
	case <-handled:
	case <-time.After(2 * time.Second):
		t.Fatalf("handler not called")
	}

	if err := c.Privmsg(context.Background(), "#bottester", "hello"); err != nil {
		t.Fatalf("Privmsg: %v", err)
	}
	expectLine(t, conn.out, "PRIVMSG #bottester :hello")

	close(conn.in)
	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected give-up error with reconnect disabled")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0].Channel != "#bottester" || got[0].Nick != "alice" || got[0].Text != "!version" {
		t.Fatalf("unexpected handled messages %+v", got)
	}
	if c.State() != StateFailed {
		t.Fatalf("expected failed state, got %v", c.State())
	}
	if err := c.Send(context.Background(), "QUIT"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestClientStopsOnCancel(t *testing.T) {
	conn := newFakeConn()
	dial := func(context.Context) (Conn, error) { return conn, nil }
	var states []State
	var mu sync.Mutex
	c := NewClient(dial, Identity{Nick: "bot", Channel: "#c"}, nil, WithStateCallback(func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	expectLine(t, conn.out, "NICK bot")
	expectLine(t, conn.out, "USER bot 0 * :bot")
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop")
	}
	mu.Lock()
	defer mu.Unlock()
	if states[len(states)-1] != StateDisconnected {
		t.Fatalf("unexpected final state %v", states)
	}
}

func TestClientReconnects(t *testing.T) {
	var mu sync.Mutex
	dials := 0
	conns := []*fakeConn{newFakeConn(), newFakeConn()}
	dial := func(context.Context) (Conn, error) {
		mu.Lock()
		defer mu.Unlock()
		if dials >= len(conns) {
			return nil, errors.New("refused")
		}
		c := conns[dials]
		dials++
		return c, nil
	}
	c := NewClient(dial, Identity{Nick: "bot", Channel: "#c"}, nil, WithReconnect(1, time.Millisecond))
	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	expectLine(t, conns[0].out, "NICK bot")
	close(conns[0].in)
	expectLine(t, conns[1].out, "NICK bot")
	close(conns[1].in)

	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected error after reconnects are exhausted")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return")
	}
}

func TestBackoffDuration(t *testing.T) {
	if d := backoffDuration(time.Second, 1); d != time.Second {
		t.Fatalf("attempt 1: %v", d)
	}
	if d := backoffDuration(time.Second, 3); d != 4*time.Second {
		t.Fatalf("attempt 3: %v", d)
	}
	if d := backoffDuration(time.Second, 30); d != time.Minute {
		t.Fatalf("attempt 30: %v", d)
	}
}
