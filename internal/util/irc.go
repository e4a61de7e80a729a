package util

import (
	"strings"
	"unicode/utf8"
)

// MaxLineBytes is a safe PRIVMSG payload size: 512 bytes per IRC line minus
// room for the command, target and the prefix the server prepends.
const MaxLineBytes = 400

// SplitLines breaks text into IRC-safe lines. Newlines always split; long
// lines are wrapped at spaces where possible and never mid-rune. Blank lines
// are dropped since IRC cannot send them.
func SplitLines(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxLineBytes
	}
	var out []string
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimRight(raw, " \t\r")
		for len(line) > limit {
			cut := wrapPoint(line, limit)
			out = append(out, strings.TrimRight(line[:cut], " "))
			line = strings.TrimLeft(line[cut:], " ")
		}
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func wrapPoint(line string, limit int) int {
	if i := strings.LastIndexByte(line[:limit+1], ' '); i > 0 {
		return i
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(line)
		return size
	}
	return cut
}

// StripControl removes CR, LF and NUL so a value cannot inject extra IRC lines.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\r', '\n', 0:
			return -1
		}
		return r
	}, s)
}
