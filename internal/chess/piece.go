package chess

import "fmt"

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// prefix is the one-letter color tag used by saved games.
func (c Color) prefix() string {
	if c == White {
		return "w"
	}
	return "b"
}

// PieceType starts at 1 so the zero Piece means an empty square.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = map[PieceType]string{
	Pawn:   "pawn",
	Knight: "knight",
	Bishop: "bishop",
	Rook:   "rook",
	Queen:  "queen",
	King:   "king",
}

func (t PieceType) String() string {
	if n, ok := pieceTypeNames[t]; ok {
		return n
	}
	return "none"
}

type Piece struct {
	Color Color
	Type  PieceType
}

var NoPiece = Piece{}

func (p Piece) IsZero() bool { return p.Type == NoPieceType }

// Name returns the saved-game encoding, e.g. "wpawn" or "bking".
func (p Piece) Name() string {
	if p.IsZero() {
		return ""
	}
	return p.Color.prefix() + p.Type.String()
}

func (p Piece) String() string { return p.Name() }

// ParsePieceName is the inverse of Name.
func ParsePieceName(s string) (Piece, error) {
	if len(s) < 2 {
		return NoPiece, fmt.Errorf("%w: %q", ErrBadPieceName, s)
	}
	var c Color
	switch s[0] {
	case 'w':
		c = White
	case 'b':
		c = Black
	default:
		return NoPiece, fmt.Errorf("%w: %q", ErrBadPieceName, s)
	}
	for t, n := range pieceTypeNames {
		if n == s[1:] {
			return Piece{Color: c, Type: t}, nil
		}
	}
	return NoPiece, fmt.Errorf("%w: %q", ErrBadPieceName, s)
}

// Symbol is the FEN-style letter, upper case for white.
func (p Piece) Symbol() string {
	var b byte
	switch p.Type {
	case Pawn:
		b = 'p'
	case Knight:
		b = 'n'
	case Bishop:
		b = 'b'
	case Rook:
		b = 'r'
	case Queen:
		b = 'q'
	case King:
		b = 'k'
	default:
		return "."
	}
	if p.Color == White {
		b -= 'a' - 'A'
	}
	return string(b)
}
