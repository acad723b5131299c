package rules

import "testing"

func TestBoard_AtOutOfRange(t *testing.T) {
	b := StandardBoard()
	for _, sq := range []Square{Sq(-1, 0), Sq(0, -1), Sq(8, 0), Sq(0, 8), Sq(-100, 100)} {
		if _, ok := b.At(sq); ok {
			t.Fatalf("At(%v) reported an occupant", sq)
		}
		if b.Place(sq, W(Queen)) {
			t.Fatalf("Place(%v) accepted an off-board square", sq)
		}
	}
	if b.Count() != 32 {
		t.Fatalf("standard board has %d pieces, want 32", b.Count())
	}
}

func TestBoard_PlaceReplacesAndClones(t *testing.T) {
	b := NewBoard()
	b.Place(Sq(3, 3), W(Pawn))
	b.Place(Sq(3, 3), B(Queen))
	c, ok := b.At(Sq(3, 3))
	if !ok || c != B(Queen) {
		t.Fatalf("At(d4) = %v, %v; want Black Queen", c, ok)
	}
	if b.Count() != 1 {
		t.Fatalf("Count = %d after replacing, want 1", b.Count())
	}

	clone := b.Clone()
	clone.Clear(Sq(3, 3))
	if !b.Occupied(Sq(3, 3)) {
		t.Fatalf("clearing the clone emptied the original")
	}
}

func TestSquareString(t *testing.T) {
	if got := Sq(4, 3).String(); got != "e4" {
		t.Fatalf("String = %q, want e4", got)
	}
	if got := Sq(8, -1).String(); got != "(8,-1)" {
		t.Fatalf("String = %q, want (8,-1)", got)
	}
}
