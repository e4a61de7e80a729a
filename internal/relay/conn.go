package relay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"nhooyr.io/websocket"
)

// Conn carries IRC lines without their CRLF terminator.
type Conn interface {
	ReadLine(ctx context.Context) (string, error)
	WriteLine(ctx context.Context, line string) error
	Close() error
}

// Dialer opens a fresh Conn; the client calls it again on reconnect.
type Dialer func(ctx context.Context) (Conn, error)

const maxLineBytes = 8192

var errLineTooLong = errors.New("irc line too long")

// DialTCP returns a Dialer for a plain "host:port" IRC server.
func DialTCP(addr string) Dialer {
	return func(ctx context.Context) (Conn, error) {
		var d net.Dialer
		dctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		c, err := d.DialContext(dctx, "tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", addr, err)
		}
		return newTCPConn(c), nil
	}
}

type tcpConn struct {
	c  net.Conn
	r  *bufio.Reader
	wm sync.Mutex
}

func newTCPConn(c net.Conn) *tcpConn {
	return &tcpConn{c: c, r: bufio.NewReaderSize(c, maxLineBytes)}
}

func (t *tcpConn) ReadLine(ctx context.Context) (string, error) {
	stop := context.AfterFunc(ctx, func() { _ = t.c.SetReadDeadline(time.Now()) })
	defer stop()
	line, isPrefix, err := t.r.ReadLine()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	if isPrefix {
		return "", errLineTooLong
	}
	return string(line), nil
}

func (t *tcpConn) WriteLine(ctx context.Context, line string) error {
	t.wm.Lock()
	defer t.wm.Unlock()
	if dl, ok := ctx.Deadline(); ok {
		_ = t.c.SetWriteDeadline(dl)
	} else {
		_ = t.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	}
	_, err := t.c.Write([]byte(line + "\r\n"))
	return err
}

func (t *tcpConn) Close() error { return t.c.Close() }

// DialWebSocket returns a Dialer for IRC over WebSocket: one IRC line per
// text message, as ircv3 gateways expect.
func DialWebSocket(url string, header http.Header) Dialer {
	return func(ctx context.Context) (Conn, error) {
		dctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		c, _, err := websocket.Dial(dctx, url, &websocket.DialOptions{
			CompressionMode: websocket.CompressionNoContextTakeover,
			HTTPHeader:      header,
			Subprotocols:    []string{"text.ircv3.net"},
		})
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", url, err)
		}
		c.SetReadLimit(maxLineBytes)
		return &wsConn{c: c}, nil
	}
}

type wsConn struct {
	c       *websocket.Conn
	pending []string
}

func (w *wsConn) ReadLine(ctx context.Context) (string, error) {
	for len(w.pending) == 0 {
		typ, data, err := w.c.Read(ctx)
		if err != nil {
			return "", err
		}
		if typ != websocket.MessageText {
			continue
		}
		for _, l := range strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n") {
			if l != "" {
				w.pending = append(w.pending, l)
			}
		}
	}
	line := w.pending[0]
	w.pending = w.pending[1:]
	return line, nil
}

func (w *wsConn) WriteLine(ctx context.Context, line string) error {
	return w.c.Write(ctx, websocket.MessageText, []byte(line))
}

func (w *wsConn) Close() error { return w.c.Close(websocket.StatusNormalClosure, "close") }
