package chess

// GameState owns every piece of mutable game data: placement, the move log,
// the discard pile and the two player names that key its save file.
//
// A GameState is not safe for concurrent use; callers serialize access per game.
type GameState struct {
	board     [NumSquares]Piece
	moves     []string
	discarded []Piece
	white     string
	black     string

	singleDiagonalPawn bool
}

type Option func(*GameState)

// WithSingleDiagonalPawnCapture makes pawns look at one capture diagonal only:
// the right-hand one unless the pawn stands on the h file, then the left-hand one.
// Games created by older bot versions were played under this rule.
func WithSingleDiagonalPawnCapture() Option {
	return func(g *GameState) { g.singleDiagonalPawn = true }
}

var backRank = [boardSide]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewGame returns the standard opening position with empty move and discard lists.
func NewGame(white, black string, opts ...Option) *GameState {
	g := newEmpty(white, black, opts...)
	for file := 0; file < boardSide; file++ {
		g.board[Encode(file, 0)] = Piece{Color: White, Type: backRank[file]}
		g.board[Encode(file, 1)] = Piece{Color: White, Type: Pawn}
		g.board[Encode(file, 6)] = Piece{Color: Black, Type: Pawn}
		g.board[Encode(file, 7)] = Piece{Color: Black, Type: backRank[file]}
	}
	return g
}

func newEmpty(white, black string, opts ...Option) *GameState {
	g := &GameState{
		moves:     []string{},
		discarded: []Piece{},
		white:     white,
		black:     black,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GameState) SingleDiagonalPawnCapture() bool { return g.singleDiagonalPawn }

func (g *GameState) White() string { return g.white }
func (g *GameState) Black() string { return g.black }

// Key is the save-file name: both player names joined by an underscore.
func (g *GameState) Key() string { return GameKey(g.white, g.black) }

func GameKey(white, black string) string { return white + "_" + black }

// Moves returns a copy of the move log.
func (g *GameState) Moves() []string { return append([]string(nil), g.moves...) }

// Discarded returns captured pieces in capture order.
func (g *GameState) Discarded() []Piece { return append([]Piece(nil), g.discarded...) }

func (g *GameState) Occupant(sq Square) (Piece, bool) {
	if !sq.Valid() {
		return NoPiece, false
	}
	p := g.board[sq]
	return p, !p.IsZero()
}

// IsSquareSafeFor reports whether a piece of color may land on sq: the square
// is empty or holds an opposing piece other than the king.
func (g *GameState) IsSquareSafeFor(color Color, sq Square) bool {
	p, ok := g.Occupant(sq)
	if !ok {
		return true
	}
	return p.Color != color && p.Type != King
}

// Occupied lists occupied squares in index order.
func (g *GameState) Occupied() []Square {
	out := make([]Square, 0, 32)
	for i := range g.board {
		if !g.board[i].IsZero() {
			out = append(out, Square(i))
		}
	}
	return out
}

// Placement returns a copy of the occupied squares and their pieces.
func (g *GameState) Placement() map[Square]Piece {
	out := make(map[Square]Piece, 32)
	for _, sq := range g.Occupied() {
		out[sq] = g.board[sq]
	}
	return out
}

// Clone deep-copies the state, options included.
func (g *GameState) Clone() *GameState {
	c := *g
	c.moves = g.Moves()
	c.discarded = g.Discarded()
	return &c
}

// put places p on sq and returns the previous occupant.
func (g *GameState) put(sq Square, p Piece) (Piece, bool) {
	prev := g.board[sq]
	g.board[sq] = p
	return prev, !prev.IsZero()
}

func (g *GameState) take(sq Square) (Piece, bool) {
	if !sq.Valid() {
		return NoPiece, false
	}
	p := g.board[sq]
	g.board[sq] = NoPiece
	return p, !p.IsZero()
}

// capture moves the occupant of sq onto the discard pile.
func (g *GameState) capture(sq Square) bool {
	p, ok := g.take(sq)
	if !ok {
		return false
	}
	g.discarded = append(g.discarded, p)
	return true
}
