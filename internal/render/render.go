// Package render draws board snapshots as PNG images.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/park285/oh-my-chess/internal/rules"
)

const (
	DefaultSquareSize = 64
	MinSquareSize     = 16
	MaxSquareSize     = 256
)

var ErrNilBoard = errors.New("board is nil")

type Options struct {
	SquareSize int
	// Highlight marks a proposed move, green when legal for Mover and red
	// otherwise.
	Highlight *rules.Move
	Mover     rules.Player
	// Select shades every legal destination of the piece on this square.
	Select *rules.Square
	// Flip draws rank 8 at the bottom.
	Flip bool
}

type Renderer struct {
	glyphs *glyphCache
}

func NewRenderer() *Renderer {
	return &Renderer{glyphs: newGlyphCache()}
}

var (
	lightSquare     = color.RGBA{233, 207, 163, 255}
	darkSquare      = color.RGBA{187, 136, 96, 255}
	marginColor     = color.RGBA{40, 42, 54, 255}
	labelColor      = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
	legalFill       = color.NRGBA{R: 64, G: 200, B: 96, A: 130}
	illegalFill     = color.NRGBA{R: 220, G: 60, B: 60, A: 130}
	legalArrow      = color.NRGBA{R: 40, G: 160, B: 70, A: 190}
	illegalArrow    = color.NRGBA{R: 190, G: 40, B: 40, A: 190}
	selectFill      = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	destinationSpot = color.NRGBA{R: 30, G: 30, B: 30, A: 90}
)

type layout struct {
	size   int
	origin image.Point
	flip   bool
}

// rect returns the pixel rectangle of sq, which must be on the board.
func (l layout) rect(sq rules.Square) image.Rectangle {
	col, row := sq.File, rules.BoardSize-1-sq.Rank
	if l.flip {
		col, row = rules.BoardSize-1-sq.File, sq.Rank
	}
	x := l.origin.X + col*l.size
	y := l.origin.Y + row*l.size
	return image.Rect(x, y, x+l.size, y+l.size)
}

func (l layout) center(sq rules.Square) image.Point {
	r := l.rect(sq)
	return image.Pt(r.Min.X+l.size/2, r.Min.Y+l.size/2)
}

// RenderPNG draws board with the requested overlays.
func (r *Renderer) RenderPNG(ctx context.Context, board *rules.Board, opts Options) ([]byte, error) {
	if board == nil {
		return nil, ErrNilBoard
	}
	size := opts.SquareSize
	if size == 0 {
		size = DefaultSquareSize
	}
	if size < MinSquareSize || size > MaxSquareSize {
		return nil, fmt.Errorf("square size %d outside [%d,%d]", size, MinSquareSize, MaxSquareSize)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	margin := size / 2
	if margin < 16 {
		margin = 16
	}
	boardPx := size * rules.BoardSize
	img := image.NewRGBA(image.Rect(0, 0, boardPx+margin*2, boardPx+margin*2))
	draw.Draw(img, img.Bounds(), image.NewUniform(marginColor), image.Point{}, draw.Src)
	l := layout{size: size, origin: image.Pt(margin, margin), flip: opts.Flip}

	drawSquares(img, l)
	if opts.Select != nil {
		drawSelection(img, board, *opts.Select, l)
	}
	if opts.Highlight != nil {
		drawMove(img, board, *opts.Highlight, opts.Mover, l)
	}

	var drawErr error
	board.Each(func(sq rules.Square, c rules.Cell) {
		if drawErr != nil {
			return
		}
		if err := ctx.Err(); err != nil {
			drawErr = err
			return
		}
		glyph, err := r.glyphs.get(c, size)
		if err != nil {
			drawErr = err
			return
		}
		draw.Draw(img, l.rect(sq), glyph, image.Point{}, draw.Over)
	})
	if drawErr != nil {
		return nil, drawErr
	}
	if opts.Highlight != nil && opts.Highlight.InBounds() {
		drawArrow(img, *opts.Highlight, rules.Validate(board, *opts.Highlight, opts.Mover), l)
	}
	drawLabels(img, l, margin)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawSquares(dst draw.Image, l layout) {
	for f := 0; f < rules.BoardSize; f++ {
		for rk := 0; rk < rules.BoardSize; rk++ {
			clr := lightSquare
			if (f+rk)%2 == 0 {
				clr = darkSquare
			}
			sq := rules.Sq(f, rk)
			draw.Draw(dst, l.rect(sq), image.NewUniform(clr), image.Point{}, draw.Src)
		}
	}
}

func drawSelection(img *image.RGBA, board *rules.Board, sel rules.Square, l layout) {
	cell, ok := board.At(sel)
	if !ok {
		return
	}
	overlay(img, l.rect(sel), selectFill)
	for _, dst := range rules.LegalDestinations(board, sel, cell.Player) {
		drawDisc(img, l.center(dst), l.size/6, destinationSpot)
	}
}

// drawMove tints whichever endpoints are on the board.
func drawMove(img *image.RGBA, board *rules.Board, m rules.Move, mover rules.Player, l layout) {
	fill := illegalFill
	if rules.Validate(board, m, mover) {
		fill = legalFill
	}
	for _, sq := range []rules.Square{m.From, m.To} {
		if sq.InBounds() {
			overlay(img, l.rect(sq), fill)
		}
	}
}

func drawArrow(img *image.RGBA, m rules.Move, legal bool, l layout) {
	if m.From == m.To {
		return
	}
	clr := illegalArrow
	if legal {
		clr = legalArrow
	}
	start, end := l.center(m.From), l.center(m.To)
	dx := float64(end.X - start.X)
	dy := float64(end.Y - start.Y)
	length := math.Hypot(dx, dy)
	dirX, dirY := dx/length, dy/length
	perpX, perpY := -dirY, dirX

	sz := float64(l.size)
	baseLength := length - sz*0.45
	if baseLength < sz*0.35 {
		baseLength = length * 0.6
	}
	halfWidth := sz * 0.09
	headWidth := sz * 0.36

	sx, sy := float64(start.X), float64(start.Y)
	bx, by := sx+dirX*baseLength, sy+dirY*baseLength

	fillTriangle(img, pointF{sx - perpX*halfWidth, sy - perpY*halfWidth}, pointF{sx + perpX*halfWidth, sy + perpY*halfWidth}, pointF{bx + perpX*halfWidth, by + perpY*halfWidth}, clr)
	fillTriangle(img, pointF{sx - perpX*halfWidth, sy - perpY*halfWidth}, pointF{bx + perpX*halfWidth, by + perpY*halfWidth}, pointF{bx - perpX*halfWidth, by - perpY*halfWidth}, clr)
	fillTriangle(img, pointF{float64(end.X), float64(end.Y)}, pointF{bx - perpX*headWidth/2, by - perpY*headWidth/2}, pointF{bx + perpX*headWidth/2, by + perpY*headWidth/2}, clr)
}

func drawLabels(dst draw.Image, l layout, margin int) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Face: face, Src: image.NewUniform(labelColor)}
	ascent := face.Metrics().Ascent.Ceil()
	for i := 0; i < rules.BoardSize; i++ {
		fileSq := l.rect(rules.Sq(i, 0))
		rankSq := l.rect(rules.Sq(0, i))
		bottom := l.origin.Y + l.size*rules.BoardSize
		centeredText(d, string(rune('a'+i)), fileSq.Min.X+l.size/2, bottom+(margin+ascent)/2)
		centeredText(d, string(rune('1'+i)), l.origin.X-margin/2, rankSq.Min.Y+(l.size+ascent)/2)
	}
}

func centeredText(d *font.Drawer, text string, centerX, baseline int) {
	w := d.MeasureString(text).Round()
	d.Dot = fixed.P(centerX-w/2, baseline)
	d.DrawString(text)
}
