package chess

// LegalMoves returns the squares the piece on sq may move to. Out-of-range and
// empty squares yield no moves. Nothing is cached; every call reads the board.
func (g *GameState) LegalMoves(sq Square) []Square {
	p, ok := g.Occupant(sq)
	if !ok {
		return nil
	}
	switch p.Type {
	case Rook:
		return g.searchRays(p.Color, sq, orthogonal)
	case Bishop:
		return g.searchRays(p.Color, sq, diagonal)
	case Queen:
		return append(g.searchRays(p.Color, sq, orthogonal), g.searchRays(p.Color, sq, diagonal)...)
	case Knight:
		return g.probeOffsets(p.Color, sq, knightJumps)
	case Pawn:
		return g.pawnMoves(p.Color, sq)
	case King:
		return g.kingMoves(p.Color, sq)
	}
	return nil
}

// IsLegal reports whether to is among LegalMoves(from).
func (g *GameState) IsLegal(from, to Square) bool {
	return contains(g.LegalMoves(from), to)
}

func pawnDirection(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

func (g *GameState) pawnMoves(color Color, sq Square) []Square {
	var out []Square
	file, rank := sq.DecodeSigned()
	r := rank + pawnDirection(color)
	if !inRange(r) {
		return nil
	}
	ahead := Encode(file, r)
	if _, occupied := g.Occupant(ahead); !occupied {
		out = append(out, ahead)
	}
	for _, df := range g.pawnCaptureFiles(file) {
		f := file + df
		if !inRange(f) {
			continue
		}
		target := Encode(f, r)
		if _, occupied := g.Occupant(target); occupied && g.IsSquareSafeFor(color, target) {
			out = append(out, target)
		}
	}
	return out
}

func (g *GameState) pawnCaptureFiles(file int) []int {
	if !g.singleDiagonalPawn {
		return []int{1, -1}
	}
	if file+1 < boardSide {
		return []int{1}
	}
	return []int{-1}
}

// kingMoves drops every neighbouring square an opposing piece could move to.
// The opposing king contributes its raw neighbourhood and is never asked for
// its own filtered moves, so the recursion through LegalMoves stops one level down.
func (g *GameState) kingMoves(color Color, sq Square) []Square {
	candidates := g.immediateMoves(color, sq)
	if len(candidates) == 0 {
		return nil
	}
	for _, other := range g.Occupied() {
		op := g.board[other]
		if op.Color == color {
			continue
		}
		var covered []Square
		if op.Type == King {
			covered = g.immediateMoves(op.Color, other)
		} else {
			covered = g.LegalMoves(other)
		}
		candidates = without(candidates, covered)
		if len(candidates) == 0 {
			return nil
		}
	}
	return candidates
}

func contains(list []Square, sq Square) bool {
	for _, s := range list {
		if s == sq {
			return true
		}
	}
	return false
}

func without(list, drop []Square) []Square {
	out := list[:0]
	for _, s := range list {
		if !contains(drop, s) {
			out = append(out, s)
		}
	}
	return out
}
