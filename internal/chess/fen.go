package chess

import (
	"fmt"

	nchess "github.com/corentings/chess/v2"
)

var nchessTypes = map[PieceType]nchess.PieceType{
	Pawn:   nchess.Pawn,
	Knight: nchess.Knight,
	Bishop: nchess.Bishop,
	Rook:   nchess.Rook,
	Queen:  nchess.Queen,
	King:   nchess.King,
}

// Board converts the placement into a corentings/chess board for export.
func (g *GameState) Board() *nchess.Board {
	m := make(map[nchess.Square]nchess.Piece, 32)
	for _, sq := range g.Occupied() {
		p := g.board[sq]
		file, rank := sq.DecodeSigned()
		c := nchess.White
		if p.Color == Black {
			c = nchess.Black
		}
		m[nchess.NewSquare(nchess.File(file), nchess.Rank(rank))] = nchess.NewPiece(nchessTypes[p.Type], c)
	}
	return nchess.NewBoard(m)
}

// SideToMove assumes white opened and the players alternated; turns are not enforced.
func (g *GameState) SideToMove() Color {
	if len(g.moves)%2 == 0 {
		return White
	}
	return Black
}

// FEN exports the position for analysis tools. Castling and en passant are
// never available here, so those fields are always "-".
func (g *GameState) FEN() string {
	turn := "w"
	if g.SideToMove() == Black {
		turn = "b"
	}
	return fmt.Sprintf("%s %s - - 0 %d", g.Board().String(), turn, len(g.moves)/2+1)
}
