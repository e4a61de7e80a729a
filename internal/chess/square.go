package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// Square addresses one of the 64 board positions as file*8 + rank.
// File 0 is the "a" column and rank 0 is row "1", so a1 = 0, a8 = 7, h1 = 56.
type Square uint8

const (
	NumSquares = 64
	boardSide  = 8
)

// Encode packs a file and rank into a Square. Callers must keep both in [0,7].
func Encode(file, rank int) Square {
	return Square(file*boardSide + rank)
}

// Decode splits the square into unsigned file and rank.
func (sq Square) Decode() (file, rank uint8) {
	return uint8(sq) / boardSide, uint8(sq) % boardSide
}

// DecodeSigned is Decode widened to int so offsets can be range-checked before re-encoding.
func (sq Square) DecodeSigned() (file, rank int) {
	f, r := sq.Decode()
	return int(f), int(r)
}

func (sq Square) Valid() bool { return sq < NumSquares }

func (sq Square) String() string {
	if !sq.Valid() {
		return fmt.Sprintf("invalid(%d)", uint8(sq))
	}
	f, r := sq.Decode()
	return string([]byte{'a' + f, '1' + r})
}

// ParseSquare accepts algebraic names ("e2") and the octal index notation
// players used before ("0o41", "041").
func ParseSquare(s string) (Square, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if len(v) == 2 && v[0] >= 'a' && v[0] <= 'h' && v[1] >= '1' && v[1] <= '8' {
		return Encode(int(v[0]-'a'), int(v[1]-'1')), nil
	}
	var oct string
	switch {
	case strings.HasPrefix(v, "0o"):
		oct = v[2:]
	case len(v) > 1 && v[0] == '0':
		oct = v[1:]
	}
	if oct != "" {
		if n, err := strconv.ParseUint(oct, 8, 8); err == nil && n < NumSquares {
			return Square(n), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadSquare, s)
}

func inRange(v int) bool { return v >= 0 && v < boardSide }
