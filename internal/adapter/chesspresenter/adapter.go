package chesspresenter

import (
	"strings"

	"github.com/park285/Cheese-IRC-bot/internal/chess"
	"github.com/park285/Cheese-IRC-bot/internal/domain"
	"github.com/park285/Cheese-IRC-bot/pkg/chessdto"
)

func ToGameView(channel string, g *chess.GameState) *chessdto.GameView {
	if g == nil {
		return nil
	}
	board := make(map[string]string)
	for sq, p := range g.Placement() {
		board[sq.String()] = p.Name()
	}
	return &chessdto.GameView{
		Channel:    channel,
		White:      g.White(),
		Black:      g.Black(),
		SideToMove: g.SideToMove().String(),
		Moves:      g.Moves(),
		Discarded:  pieceNames(g.Discarded()),
		Board:      board,
		Rows:       Rows(g),
		FEN:        g.FEN(),
	}
}

func ToMovesView(sq chess.Square, p chess.Piece, targets []chess.Square) *chessdto.MovesView {
	v := &chessdto.MovesView{Square: sq.String(), Targets: squareNames(targets)}
	if !p.IsZero() {
		v.Piece = p.Name()
	}
	return v
}

func ToSnapshotViews(list []domain.GameSnapshot) []chessdto.SnapshotView {
	out := make([]chessdto.SnapshotView, 0, len(list))
	for _, s := range list {
		out = append(out, chessdto.SnapshotView{
			ID:        s.ID,
			White:     s.White,
			Black:     s.Black,
			Moves:     append([]string(nil), s.Moves...),
			Discarded: append([]string(nil), s.Discarded...),
			Board:     s.Board,
			FEN:       s.FEN,
			SavedAt:   s.SavedAt,
		})
	}
	return out
}

// Rows renders the board as eight strings of FEN letters, rank 8 first,
// with "." for empty squares.
func Rows(g *chess.GameState) []string {
	rows := make([]string, 0, 8)
	for rank := 7; rank >= 0; rank-- {
		var b strings.Builder
		for file := 0; file < 8; file++ {
			p, _ := g.Occupant(chess.Encode(file, rank))
			b.WriteString(p.Symbol())
		}
		rows = append(rows, b.String())
	}
	return rows
}

func pieceNames(ps []chess.Piece) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name())
	}
	return out
}

func squareNames(sqs []chess.Square) []string {
	out := make([]string, 0, len(sqs))
	for _, sq := range sqs {
		out = append(out, sq.String())
	}
	return out
}
