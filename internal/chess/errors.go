package chess

import "errors"

var (
	ErrBadSquare    = errors.New("invalid square")
	ErrBadPieceName = errors.New("invalid piece name")
	ErrBadSave      = errors.New("malformed saved game")
	ErrBadPlayer    = errors.New("invalid player name")
)
