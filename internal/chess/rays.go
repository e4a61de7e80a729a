package chess

// searchRay walks up to seven steps from origin. Each in-range square is kept
// when safe for color; any occupied square ends the walk.
func (g *GameState) searchRay(color Color, origin Square, stepFile, stepRank int) []Square {
	var out []Square
	file, rank := origin.DecodeSigned()
	for step := 1; step < boardSide; step++ {
		f, r := file+stepFile*step, rank+stepRank*step
		if !inRange(f) || !inRange(r) {
			return out
		}
		sq := Encode(f, r)
		if g.IsSquareSafeFor(color, sq) {
			out = append(out, sq)
		}
		if _, occupied := g.Occupant(sq); occupied {
			return out
		}
	}
	return out
}

// checkRelativeSpace probes one fixed offset with range and safety checks.
func (g *GameState) checkRelativeSpace(color Color, origin Square, dFile, dRank int) (Square, bool) {
	file, rank := origin.DecodeSigned()
	f, r := file+dFile, rank+dRank
	if !inRange(f) || !inRange(r) {
		return 0, false
	}
	sq := Encode(f, r)
	if !g.IsSquareSafeFor(color, sq) {
		return 0, false
	}
	return sq, true
}

func (g *GameState) probeOffsets(color Color, origin Square, offsets [][2]int) []Square {
	var out []Square
	for _, o := range offsets {
		if sq, ok := g.checkRelativeSpace(color, origin, o[0], o[1]); ok {
			out = append(out, sq)
		}
	}
	return out
}

var (
	orthogonal = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonal   = [][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}

	knightJumps = [][2]int{{-2, 1}, {-2, -1}, {-1, 2}, {-1, -2}, {1, 2}, {1, -2}, {2, 1}, {2, -1}}
	kingSteps   = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

func (g *GameState) searchRays(color Color, origin Square, dirs [][2]int) []Square {
	var out []Square
	for _, d := range dirs {
		out = append(out, g.searchRay(color, origin, d[0], d[1])...)
	}
	return out
}

// immediateMoves is the king's neighbourhood filtered only by square safety.
func (g *GameState) immediateMoves(color Color, origin Square) []Square {
	return g.probeOffsets(color, origin, kingSteps)
}
