// Package render draws a game position as a PNG.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/park285/Cheese-IRC-bot/internal/chess"
)

const (
	SquareSize = 48
	Margin     = 20
	BoardSize  = SquareSize*8 + Margin*2
)

//go:embed assets/*.svg
var tokenFiles embed.FS

var (
	lightSquare     = color.RGBA{233, 207, 163, 255}
	darkSquare      = color.RGBA{187, 136, 96, 255}
	frameColor      = color.RGBA{40, 42, 54, 255}
	coordinateColor = color.RGBA{220, 222, 230, 255}
	whiteGlyph      = color.RGBA{30, 30, 30, 255}
	blackGlyph      = color.RGBA{240, 240, 240, 255}
)

type tokenKey struct {
	color chess.Color
	size  int
}

var (
	tokenCache   = map[tokenKey]image.Image{}
	tokenCacheMu sync.RWMutex
)

// PNG renders g with rank 8 at the top.
func PNG(ctx context.Context, g *chess.GameState) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("game is nil")
	}
	img, err := Image(ctx, g)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func Image(ctx context.Context, g *chess.GameState) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, BoardSize, BoardSize))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(frameColor), image.Point{}, imagedraw.Src)
	origin := image.Point{X: Margin, Y: Margin}

	drawSquares(img)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, sq := range g.Occupied() {
		p, _ := g.Occupant(sq)
		if err := drawPiece(img, sq, p); err != nil {
			return nil, err
		}
	}
	drawCoordinates(img, origin)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}

// SquareRect is the pixel area of sq.
func SquareRect(sq chess.Square) image.Rectangle {
	file, rank := sq.DecodeSigned()
	x := Margin + file*SquareSize
	y := Margin + (7-rank)*SquareSize
	return image.Rect(x, y, x+SquareSize, y+SquareSize)
}

func squareColor(file, rank int) color.RGBA {
	if (file+rank)%2 == 0 {
		return darkSquare
	}
	return lightSquare
}

func drawSquares(dst imagedraw.Image) {
	for sq := chess.Square(0); sq < chess.NumSquares; sq++ {
		file, rank := sq.DecodeSigned()
		imagedraw.Draw(dst, SquareRect(sq), image.NewUniform(squareColor(file, rank)), image.Point{}, imagedraw.Src)
	}
}

func drawPiece(dst *image.RGBA, sq chess.Square, p chess.Piece) error {
	tok, err := token(p.Color, SquareSize)
	if err != nil {
		return err
	}
	r := SquareRect(sq)
	imagedraw.Draw(dst, r, tok, image.Point{}, imagedraw.Over)

	glyph := whiteGlyph
	if p.Color == chess.Black {
		glyph = blackGlyph
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(glyph), Face: basicfont.Face7x13}
	drawCentered(d, p.Symbol(), r.Min.X+SquareSize/2, r.Min.Y+SquareSize/2+basicfont.Face7x13.Ascent/2)
	return nil
}

func drawCoordinates(dst imagedraw.Image, origin image.Point) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(coordinateColor), Face: basicfont.Face7x13}
	ascent := basicfont.Face7x13.Ascent
	for i := 0; i < 8; i++ {
		file := string(rune('a' + i))
		rank := string(rune('8' - i))
		cx := origin.X + i*SquareSize + SquareSize/2
		cy := origin.Y + i*SquareSize + SquareSize/2 + ascent/2
		drawCentered(d, file, cx, origin.Y+8*SquareSize+Margin/2+ascent/2)
		drawCentered(d, rank, origin.X/2, cy)
	}
}

func drawCentered(d *font.Drawer, text string, cx, baseline int) {
	w := d.MeasureString(text).Ceil()
	d.Dot = fixed.P(cx-w/2, baseline)
	d.DrawString(text)
}

func token(c chess.Color, size int) (image.Image, error) {
	key := tokenKey{color: c, size: size}
	tokenCacheMu.RLock()
	if img, ok := tokenCache[key]; ok {
		tokenCacheMu.RUnlock()
		return img, nil
	}
	tokenCacheMu.RUnlock()

	name := "assets/token_white.svg"
	if c == chess.Black {
		name = "assets/token_black.svg"
	}
	data, err := tokenFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read token asset %s: %w", name, err)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse token svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	tokenCacheMu.Lock()
	tokenCache[key] = img
	tokenCacheMu.Unlock()
	return img, nil
}
