package domain

import "time"

// GameSnapshot is one archived save of a game.
type GameSnapshot struct {
	ID        string
	White     string
	Black     string
	Moves     []string
	Discarded []string
	Board     map[string]string // algebraic square -> piece name
	FEN       string
	SavedAt   time.Time
}
