package render

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/park285/Cheese-IRC-bot/internal/chess"
)

func TestPNGDecodes(t *testing.T) {
	data, err := PNG(context.Background(), chess.NewGame("alice", "bob"))
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != BoardSize || b.Dy() != BoardSize {
		t.Fatalf("unexpected size %v", b)
	}
}

func TestEmptySquareKeepsBoardColor(t *testing.T) {
	img, err := Image(context.Background(), chess.NewGame("alice", "bob"))
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	e4, _ := chess.ParseSquare("e4")
	r := SquareRect(e4)
	if got := img.RGBAAt(r.Min.X+2, r.Min.Y+2); got != lightSquare {
		t.Fatalf("e4 corner: got %v, want light square", got)
	}
	a1, _ := chess.ParseSquare("a1")
	r = SquareRect(a1)
	if r.Min.X != Margin || r.Max.Y != Margin+8*SquareSize {
		t.Fatalf("a1 should be bottom-left, got %v", r)
	}
}

func TestOccupiedSquareGetsToken(t *testing.T) {
	img, err := Image(context.Background(), chess.NewGame("alice", "bob"))
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	e1, _ := chess.ParseSquare("e1")
	r := SquareRect(e1)
	// A point inside the token ring but away from the glyph.
	x, y := r.Min.X+SquareSize/2, r.Min.Y+8
	if got := img.RGBAAt(x, y); got == lightSquare || got == darkSquare {
		t.Fatalf("expected token pixels at e1, got board color %v", got)
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := PNG(ctx, chess.NewGame("a", "b")); err == nil {
		t.Fatalf("expected context error")
	}
	if _, err := PNG(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil game")
	}
}
