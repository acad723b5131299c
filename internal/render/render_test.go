package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/park285/oh-my-chess/internal/rules"
)

func decode(t *testing.T, raw []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	return img
}

func rgbAt(img image.Image, p image.Point) (r, g, b uint8) {
	c := color.RGBAModel.Convert(img.At(p.X, p.Y)).(color.RGBA)
	return c.R, c.G, c.B
}

func testLayout(size int) layout {
	return layout{size: size, origin: image.Pt(size/2, size/2)}
}

func TestRenderStandardBoard(t *testing.T) {
	raw, err := NewRenderer().RenderPNG(context.Background(), rules.StandardBoard(), Options{})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img := decode(t, raw)
	want := DefaultSquareSize*rules.BoardSize + DefaultSquareSize
	if b := img.Bounds(); b.Dx() != want || b.Dy() != want {
		t.Fatalf("bounds = %v, want %dx%d", b, want, want)
	}
	// e4 is empty on the opening board.
	corner := testLayout(DefaultSquareSize).rect(rules.Sq(4, 3)).Min.Add(image.Pt(2, 2))
	r, g, b := rgbAt(img, corner)
	if (color.RGBA{r, g, b, 255}) != lightSquare {
		t.Fatalf("e4 corner = %v,%v,%v, want light square", r, g, b)
	}
}

func TestRenderHighlightColours(t *testing.T) {
	b := rules.NewBoard()
	b.Place(rules.Sq(0, 0), rules.W(rules.Rook))
	b.Place(rules.Sq(0, 5), rules.B(rules.Pawn))
	l := testLayout(DefaultSquareSize)
	to := l.rect(rules.Sq(0, 3)).Min.Add(image.Pt(2, 2))
	r := NewRenderer()

	legal := rules.M(0, 0, 0, 3)
	raw, err := r.RenderPNG(context.Background(), b, Options{Highlight: &legal, Mover: rules.White})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if red, green, _ := rgbAt(decode(t, raw), to); green <= red {
		t.Fatalf("legal move not tinted green: r=%d g=%d", red, green)
	}

	raw, err = r.RenderPNG(context.Background(), b, Options{Highlight: &legal, Mover: rules.Black})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if red, green, _ := rgbAt(decode(t, raw), to); red <= green {
		t.Fatalf("illegal move not tinted red: r=%d g=%d", red, green)
	}
}

func TestRenderOffBoardHighlight(t *testing.T) {
	b := rules.NewBoard()
	b.Place(rules.Sq(7, 7), rules.W(rules.King))
	m := rules.M(7, 7, 8, 8)
	if _, err := NewRenderer().RenderPNG(context.Background(), b, Options{Highlight: &m, SquareSize: 32}); err != nil {
		t.Fatalf("RenderPNG with off-board move: %v", err)
	}
}

func TestRenderSelectionShadesDestinations(t *testing.T) {
	b := rules.NewBoard()
	b.Place(rules.Sq(0, 0), rules.W(rules.Rook))
	sel := rules.Sq(0, 0)
	l := testLayout(DefaultSquareSize)

	raw, err := NewRenderer().RenderPNG(context.Background(), b, Options{Select: &sel})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img := decode(t, raw)
	if r, g, bl := rgbAt(img, l.rect(sel).Min.Add(image.Pt(1, 1))); (color.RGBA{r, g, bl, 255}) == darkSquare {
		t.Fatalf("selected square not shaded")
	}
	if r, g, bl := rgbAt(img, l.center(rules.Sq(0, 1))); (color.RGBA{r, g, bl, 255}) == lightSquare {
		t.Fatalf("a2 should carry a destination marker")
	}
	if r, g, bl := rgbAt(img, l.center(rules.Sq(1, 1))); (color.RGBA{r, g, bl, 255}) != darkSquare {
		t.Fatalf("b2 is not reachable by the rook but was marked: %v,%v,%v", r, g, bl)
	}
}

func TestRenderFlip(t *testing.T) {
	l := testLayout(32)
	fl := l
	fl.flip = true
	if l.rect(rules.Sq(0, 0)) != fl.rect(rules.Sq(7, 7)) {
		t.Fatalf("flipped h8 should occupy the unflipped a1 square")
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewRenderer()
	if _, err := r.RenderPNG(context.Background(), nil, Options{}); !errors.Is(err, ErrNilBoard) {
		t.Fatalf("err = %v, want ErrNilBoard", err)
	}
	if _, err := r.RenderPNG(context.Background(), rules.NewBoard(), Options{SquareSize: 4}); err == nil {
		t.Fatalf("expected error for tiny squares")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.RenderPNG(ctx, rules.StandardBoard(), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestGlyphCacheReuses(t *testing.T) {
	g := newGlyphCache()
	a, err := g.get(rules.B(rules.Queen), 40)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := g.get(rules.B(rules.Queen), 40)
	if a != b {
		t.Fatalf("expected cached image")
	}
	if _, err := g.get(rules.Cell{Piece: rules.Piece(42)}, 40); err == nil {
		t.Fatalf("expected error for unknown piece")
	}
}
