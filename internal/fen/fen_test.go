package fen

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/park285/oh-my-chess/internal/rules"
)

func TestDecodeStart(t *testing.T) {
	b, turn, err := Decode(StartFEN)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if turn != rules.White {
		t.Fatalf("turn = %v, want White", turn)
	}
	if *b != *rules.StandardBoard() {
		t.Fatalf("start position does not match the standard board")
	}
}

func TestDecodeSideAndPlacement(t *testing.T) {
	b, turn, err := Decode("4k3/8/8/8/3Q4/8/1P6/4K3 b - - 0 1")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if turn != rules.Black {
		t.Fatalf("turn = %v, want Black", turn)
	}
	want := map[rules.Square]rules.Cell{
		rules.Sq(4, 7): rules.B(rules.King),
		rules.Sq(3, 3): rules.W(rules.Queen),
		rules.Sq(1, 1): rules.W(rules.Pawn),
		rules.Sq(4, 0): rules.W(rules.King),
	}
	got := map[rules.Square]rules.Cell{}
	b.Each(func(sq rules.Square, c rules.Cell) { got[sq] = c })
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("pieces (-want +got):\n%s", diff)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	b := rules.StandardBoard()
	b.Clear(rules.Sq(4, 1))
	b.Place(rules.Sq(4, 3), rules.W(rules.Pawn))
	s := Encode(b, rules.Black)
	if want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b - - 0 1"; s != want {
		t.Fatalf("Encode = %q, want %q", s, want)
	}
	back, turn, err := Decode(s)
	if err != nil {
		t.Fatalf("Decode(Encode): %v", err)
	}
	if *back != *b || turn != rules.Black {
		t.Fatalf("round trip changed the position")
	}
}

func TestDecodeRejects(t *testing.T) {
	for _, s := range []string{"", "   ", "not a fen", "rnbqkbnr/pppppppp/8/8 w - - 0 1"} {
		if _, _, err := Decode(s); !errors.Is(err, ErrInvalidFEN) {
			t.Fatalf("Decode(%q) err = %v, want ErrInvalidFEN", s, err)
		}
	}
}

func TestParseMove(t *testing.T) {
	m, err := ParseMove("e2e4")
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if m != rules.M(4, 1, 4, 3) {
		t.Fatalf("ParseMove = %v", m)
	}
	for _, s := range []string{"", "e2", "i2e4", "e0e4", "e2e9"} {
		if _, err := ParseMove(s); !errors.Is(err, ErrInvalidSquare) {
			t.Fatalf("ParseMove(%q) err = %v, want ErrInvalidSquare", s, err)
		}
	}
}

func TestFormatSquare(t *testing.T) {
	for f := 0; f < rules.BoardSize; f++ {
		for r := 0; r < rules.BoardSize; r++ {
			s, err := FormatSquare(rules.Sq(f, r))
			if err != nil {
				t.Fatalf("FormatSquare(%d,%d): %v", f, r, err)
			}
			back, err := ParseSquare(s)
			if err != nil || back != rules.Sq(f, r) {
				t.Fatalf("ParseSquare(%q) = %v, %v", s, back, err)
			}
		}
	}
	if _, err := FormatSquare(rules.Sq(-1, 3)); !errors.Is(err, ErrInvalidSquare) {
		t.Fatalf("err = %v, want ErrInvalidSquare", err)
	}
}
