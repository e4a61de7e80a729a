// Package relay connects the game sessions to an IRC channel. It registers,
// answers keep-alives and turns channel commands into session calls.
package relay

import (
	"strings"

	"github.com/park285/Cheese-IRC-bot/internal/util"
)

// Message is one parsed IRC line. The trailing parameter, if any, is the
// last element of Params.
type Message struct {
	Prefix  string
	Command string
	Params  []string
}

// ParseLine splits a raw line into prefix, command and parameters. It
// reports false for blank lines and lines without a command.
func ParseLine(line string) (Message, bool) {
	line = strings.TrimRight(line, "\r\n")
	var m Message
	if strings.HasPrefix(line, "@") {
		// IRCv3 tags are not used.
		_, rest, ok := strings.Cut(line, " ")
		if !ok {
			return Message{}, false
		}
		line = rest
	}
	line = strings.TrimLeft(line, " ")
	if strings.HasPrefix(line, ":") {
		prefix, rest, ok := strings.Cut(line[1:], " ")
		if !ok {
			return Message{}, false
		}
		m.Prefix = prefix
		line = strings.TrimLeft(rest, " ")
	}
	for line != "" {
		if strings.HasPrefix(line, ":") && m.Command != "" {
			m.Params = append(m.Params, line[1:])
			break
		}
		tok, rest, _ := strings.Cut(line, " ")
		if m.Command == "" {
			m.Command = strings.ToUpper(tok)
		} else {
			m.Params = append(m.Params, tok)
		}
		line = strings.TrimLeft(rest, " ")
	}
	if m.Command == "" {
		return Message{}, false
	}
	return m, true
}

// Param returns the i-th parameter or "".
func (m Message) Param(i int) string {
	if i < 0 || i >= len(m.Params) {
		return ""
	}
	return m.Params[i]
}

// Trailing returns the last parameter, which carries free text.
func (m Message) Trailing() string {
	if len(m.Params) == 0 {
		return ""
	}
	return m.Params[len(m.Params)-1]
}

// Nick is the nickname part of a "nick!user@host" prefix.
func (m Message) Nick() string {
	nick, _, _ := strings.Cut(m.Prefix, "!")
	return nick
}

// IsChannel reports whether target names a channel rather than a user.
func IsChannel(target string) bool {
	return strings.HasPrefix(target, "#") || strings.HasPrefix(target, "&")
}

// Line builds a raw IRC line. The final argument is sent as a trailing
// parameter when trailing is true.
func Line(command string, trailing bool, args ...string) string {
	var b strings.Builder
	b.WriteString(command)
	for i, a := range args {
		a = util.StripControl(a)
		b.WriteByte(' ')
		if trailing && i == len(args)-1 {
			b.WriteByte(':')
		}
		b.WriteString(a)
	}
	return b.String()
}

func nickLine(nick string) string { return Line("NICK", false, nick) }

func userLine(nick, realName string) string {
	return Line("USER", true, nick, "0", "*", realName)
}

func joinLine(channel string) string { return Line("JOIN", true, channel) }

func pongLine(token string) string { return Line("PONG", true, token) }

func privmsgLine(target, text string) string { return Line("PRIVMSG", true, target, text) }
