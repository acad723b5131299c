package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/park285/oh-my-chess/internal/rules"
)

// Piece outlines on a 45x45 canvas. %[1]s is the body fill, %[2]s the
// outline colour.
var glyphSVG = [...]string{
	rules.Pawn: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45">
<circle cx="22.5" cy="13" r="5.5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 17 22 L 28 22 L 31 33 L 14 33 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<rect x="11" y="33" width="23" height="5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
</svg>`,
	rules.Knight: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45">
<path d="M 22 10 C 32 11 37 18 36 38 L 14 38 C 13 29 23 28 20 20 L 14 24 L 10 21 L 17 12 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<circle cx="18" cy="16" r="1.5" fill="%[2]s"/>
</svg>`,
	rules.Bishop: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45">
<circle cx="22.5" cy="8" r="2.5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 22.5 11 C 30 16 31 24 27 30 L 18 30 C 14 24 15 16 22.5 11 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<rect x="11" y="32" width="23" height="6" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
</svg>`,
	rules.Rook: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45">
<path d="M 10 9 L 15 9 L 15 12 L 20 12 L 20 9 L 25 9 L 25 12 L 30 12 L 30 9 L 35 9 L 35 15 L 31 18 L 31 31 L 14 31 L 14 18 L 10 15 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<rect x="9" y="32" width="27" height="6" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
</svg>`,
	rules.Queen: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45">
<path d="M 9 26 L 7 12 L 15 22 L 16 9 L 22.5 21 L 29 9 L 30 22 L 38 12 L 36 26 C 30 25 15 25 9 26 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 9 26 C 15 25 30 25 36 26 L 34 38 L 11 38 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
</svg>`,
	rules.King: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45">
<path d="M 21 5 L 24 5 L 24 8 L 27 8 L 27 11 L 24 11 L 24 15 L 21 15 L 21 11 L 18 11 L 18 8 L 21 8 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1"/>
<path d="M 11 30 C 6 22 12 15 22.5 20 C 33 15 39 22 34 30 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<rect x="11" y="31" width="23" height="7" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
</svg>`,
}

type glyphKey struct {
	cell rules.Cell
	size int
}

type glyphCache struct {
	mu     sync.RWMutex
	images map[glyphKey]image.Image
}

func newGlyphCache() *glyphCache {
	return &glyphCache{images: make(map[glyphKey]image.Image)}
}

func glyphSource(c rules.Cell) (string, error) {
	if !c.Piece.Valid() {
		return "", fmt.Errorf("no glyph for piece %d", c.Piece)
	}
	fill, stroke := "#f8f8f8", "#1e1e1e"
	if c.Player == rules.Black {
		fill, stroke = "#262626", "#e6e6e6"
	}
	return fmt.Sprintf(glyphSVG[c.Piece], fill, stroke), nil
}

func (g *glyphCache) get(c rules.Cell, size int) (image.Image, error) {
	key := glyphKey{cell: c, size: size}
	g.mu.RLock()
	img, ok := g.images[key]
	g.mu.RUnlock()
	if ok {
		return img, nil
	}

	src, err := glyphSource(c)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse %s glyph: %w", c.Piece, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)

	g.mu.Lock()
	g.images[key] = rgba
	g.mu.Unlock()
	return rgba, nil
}
