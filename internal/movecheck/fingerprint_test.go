package movecheck

import (
	"testing"

	"github.com/park285/oh-my-chess/internal/rules"
)

func TestFingerprintSensitivity(t *testing.T) {
	b := openingBoard()
	m := rules.M(4, 1, 4, 2)
	base := Fingerprint(b, m, rules.White)
	if len(base) != 64 {
		t.Fatalf("fingerprint length %d", len(base))
	}
	if Fingerprint(b.Clone(), m, rules.White) != base {
		t.Fatalf("clone changed the fingerprint")
	}

	moved := b.Clone()
	moved.Place(rules.Sq(0, 7), rules.B(rules.Rook))
	variants := map[string]string{
		"mover": Fingerprint(b, m, rules.Black),
		"move":  Fingerprint(b, rules.M(4, 1, 4, 3), rules.White),
		"board": Fingerprint(moved, m, rules.White),
		"range": Fingerprint(b, rules.M(4, 1, 4, -2), rules.White),
	}
	for name, fp := range variants {
		if fp == base {
			t.Fatalf("%s change did not alter the fingerprint", name)
		}
	}
}
