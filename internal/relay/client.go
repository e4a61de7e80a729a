package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/park285/Cheese-IRC-bot/internal/obslog"
)

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	default:
		return "disconnected"
	}
}

// ErrNotConnected is returned by Send while no connection is up.
var ErrNotConnected = errors.New("irc: not connected")

// ChannelMessage is a PRIVMSG addressed to a channel.
type ChannelMessage struct {
	Channel string
	Nick    string
	Text    string
}

// MessageHandler receives channel messages. Replies go through the Client.
type MessageHandler func(ctx context.Context, msg ChannelMessage)

type StateCallback func(state State)

type Identity struct {
	Nick     string
	RealName string
	Channel  string
}

type Option func(*Client)

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithReconnect retries a dropped connection up to attempts times. Zero
// disables reconnecting.
func WithReconnect(attempts int, baseDelay time.Duration) Option {
	return func(c *Client) {
		c.maxReconnectAttempts = attempts
		if baseDelay > 0 {
			c.reconnectDelay = baseDelay
		}
	}
}

func WithStateCallback(cb StateCallback) Option {
	return func(c *Client) { c.stateCb = cb }
}

// Client keeps one IRC connection registered and joined. It answers PING on
// its own and hands channel PRIVMSGs to the handler; private messages are
// dropped.
type Client struct {
	dial    Dialer
	id      Identity
	handler MessageHandler
	log     *zap.Logger
	stateCb StateCallback

	maxReconnectAttempts int
	reconnectDelay       time.Duration

	mu    sync.RWMutex
	conn  Conn
	nick  string
	state State
}

func NewClient(dial Dialer, id Identity, handler MessageHandler, opts ...Option) *Client {
	if strings.TrimSpace(id.RealName) == "" {
		id.RealName = id.Nick
	}
	c := &Client{
		dial:                 dial,
		id:                   id,
		handler:              handler,
		log:                  obslog.L(),
		maxReconnectAttempts: 5,
		reconnectDelay:       time.Second,
		nick:                 id.Nick,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) Nick() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nick
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	if c.stateCb != nil {
		c.stateCb(s)
	}
}

// Run connects and serves until ctx ends or reconnect attempts run out.
func (c *Client) Run(ctx context.Context) error {
	attempt := 0
	for {
		c.setState(StateConnecting)
		err := c.session(ctx)
		if ctx.Err() != nil {
			c.setState(StateDisconnected)
			return nil
		}
		if err == nil {
			attempt = 0
		}
		attempt++
		if attempt > c.maxReconnectAttempts {
			c.setState(StateFailed)
			return fmt.Errorf("irc: giving up after %d attempts: %w", attempt, err)
		}
		c.setState(StateReconnecting)
		delay := backoffDuration(c.reconnectDelay, attempt)
		c.log.Warn("irc_reconnect", zap.Int("attempt", attempt), zap.Duration("delay", delay), zap.Error(err))
		select {
		case <-ctx.Done():
			c.setState(StateDisconnected)
			return nil
		case <-time.After(delay):
		}
	}
}

// session runs one connection. A nil error means the connection was up and
// later dropped by the server.
func (c *Client) session(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	c.mu.Lock()
	c.conn = conn
	c.nick = c.id.Nick
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
	}()

	if err := c.register(ctx, conn); err != nil {
		return err
	}
	c.setState(StateConnected)
	c.log.Info("irc_connect", zap.String("nick", c.id.Nick), zap.String("channel", c.id.Channel))

	for {
		line, err := conn.ReadLine(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Warn("irc_read_error", zap.Error(err))
			return nil
		}
		c.log.Debug("irc_recv", zap.String("line", line))
		msg, ok := ParseLine(line)
		if !ok {
			continue
		}
		if err := c.dispatch(ctx, conn, msg); err != nil {
			return err
		}
	}
}

func (c *Client) register(ctx context.Context, conn Conn) error {
	for _, line := range []string{nickLine(c.id.Nick), userLine(c.id.Nick, c.id.RealName)} {
		if err := conn.WriteLine(ctx, line); err != nil {
			return fmt.Errorf("register: %w", err)
		}
	}
	return nil
}

func (c *Client) dispatch(ctx context.Context, conn Conn, msg Message) error {
	switch msg.Command {
	case "PING":
		return conn.WriteLine(ctx, pongLine(msg.Trailing()))
	case "001":
		c.log.Info("irc_welcome", zap.String("server", msg.Prefix))
		return conn.WriteLine(ctx, joinLine(c.id.Channel))
	case "433":
		// Nick in use before registration completed.
		c.mu.Lock()
		c.nick += "_"
		nick := c.nick
		c.mu.Unlock()
		c.log.Warn("irc_nick_in_use", zap.String("retry_nick", nick))
		return conn.WriteLine(ctx, nickLine(nick))
	case "JOIN":
		if strings.EqualFold(msg.Nick(), c.Nick()) {
			c.log.Info("irc_joined", zap.String("channel", msg.Param(0)))
		}
	case "ERROR":
		c.log.Warn("irc_server_error", zap.String("reason", msg.Trailing()))
	case "PRIVMSG":
		target := msg.Param(0)
		if !IsChannel(target) || len(msg.Params) < 2 {
			return nil
		}
		if c.handler != nil {
			c.handler(ctx, ChannelMessage{Channel: target, Nick: msg.Nick(), Text: msg.Trailing()})
		}
	}
	return nil
}

// Send writes a raw line to the current connection.
func (c *Client) Send(ctx context.Context, line string) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}
	c.log.Debug("irc_send", zap.String("line", line))
	return conn.WriteLine(ctx, line)
}

// Privmsg sends text to target as a single PRIVMSG.
func (c *Client) Privmsg(ctx context.Context, target, text string) error {
	return c.Send(ctx, privmsgLine(target, text))
}

func backoffDuration(base time.Duration, attempt int) time.Duration {
	d := base
	for i := 1; i < attempt && d < time.Minute; i++ {
		d *= 2
	}
	if d > time.Minute {
		d = time.Minute
	}
	return d
}
