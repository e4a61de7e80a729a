package chess

import "fmt"

// MovePiece moves the piece on from to to when to is a legal destination.
// An occupant of to is captured onto the discard pile first. It returns false
// and leaves the game untouched when the move is not legal.
func (g *GameState) MovePiece(from, to Square) bool {
	if !g.IsLegal(from, to) {
		return false
	}
	piece, ok := g.take(from)
	if !ok {
		return false
	}
	captured := false
	if _, occupied := g.Occupant(to); occupied {
		captured = g.capture(to)
	}
	if prev, occupied := g.put(to, piece); occupied {
		panic(fmt.Sprintf("chess: %s still held %s after moving %s from %s", to, prev.Name(), piece.Name(), from))
	}
	g.moves = append(g.moves, moveRecord(from, to, captured))
	return true
}

func moveRecord(from, to Square, captured bool) string {
	if captured {
		return from.String() + "x" + to.String()
	}
	return from.String() + to.String()
}
