// Package rules decides whether a proposed move is legal on a board snapshot
// under the per-piece movement rules. Everything here is pure: no I/O, no
// shared state, no mutation of the board passed in.
package rules

// Reason says which check settled a verdict. It is an ordinary value, not an
// error: an illegal move is a normal outcome.
type Reason int

const (
	ReasonLegal Reason = iota
	ReasonOutOfBounds
	ReasonEmptySource
	ReasonNotOwner
	ReasonBadGeometry
	ReasonBlocked
	ReasonOccupied
	ReasonNoCapture
)

var reasonNames = [...]string{
	"legal",
	"out_of_bounds",
	"empty_source",
	"not_owner",
	"bad_geometry",
	"blocked",
	"occupied",
	"no_capture",
}

func (r Reason) String() string {
	if r >= 0 && int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// Legal reports whether r is ReasonLegal.
func (r Reason) Legal() bool { return r == ReasonLegal }

// ParseReason is the inverse of Reason.String.
func ParseReason(s string) (Reason, bool) {
	for i, n := range reasonNames {
		if n == s {
			return Reason(i), true
		}
	}
	return 0, false
}

type pieceRule func(b *Board, m Move, mover Player) Reason

// Indexed by Piece.
var pieceRules = [...]pieceRule{
	Pawn:   pawnRule,
	Knight: knightRule,
	Bishop: bishopRule,
	Rook:   rookRule,
	Queen:  queenRule,
	King:   kingRule,
}

// Validate reports whether mover may play move on board.
func Validate(board *Board, move Move, mover Player) bool {
	return Diagnose(board, move, mover) == ReasonLegal
}

// Diagnose runs the same checks as Validate and returns the first one that
// rejected the move, or ReasonLegal.
func Diagnose(board *Board, move Move, mover Player) Reason {
	// Range-check before any board access.
	if !move.InBounds() {
		return ReasonOutOfBounds
	}
	src, ok := board.At(move.From)
	if !ok {
		return ReasonEmptySource
	}
	if src.Player != mover {
		return ReasonNotOwner
	}
	if !src.Piece.Valid() {
		return ReasonBadGeometry
	}
	return pieceRules[src.Piece](board, move, mover)
}

// LegalDestinations lists every square mover's piece on from may move to,
// file-major. The origin itself is never listed.
func LegalDestinations(board *Board, from Square, mover Player) []Square {
	var out []Square
	for f := 0; f < BoardSize; f++ {
		for r := 0; r < BoardSize; r++ {
			to := Sq(f, r)
			if to == from {
				continue
			}
			if Validate(board, Move{From: from, To: to}, mover) {
				out = append(out, to)
			}
		}
	}
	return out
}

func pawnRule(b *Board, m Move, mover Player) Reason {
	df, dr := m.Delta()
	if dr != mover.Forward() {
		return ReasonBadGeometry
	}
	dst, occupied := b.At(m.To)
	switch abs(df) {
	case 0:
		if occupied {
			return ReasonOccupied
		}
		return ReasonLegal
	case 1:
		if !occupied {
			return ReasonNoCapture
		}
		if dst.Player == mover {
			return ReasonOccupied
		}
		return ReasonLegal
	default:
		return ReasonBadGeometry
	}
}

func knightRule(b *Board, m Move, mover Player) Reason {
	df, dr := m.Delta()
	adf, adr := abs(df), abs(dr)
	if !(adf == 2 && adr == 1) && !(adf == 1 && adr == 2) {
		return ReasonBadGeometry
	}
	if dst, ok := b.At(m.To); ok && dst.Player == mover {
		return ReasonOccupied
	}
	return ReasonLegal
}

func bishopRule(b *Board, m Move, _ Player) Reason {
	df, dr := m.Delta()
	if abs(df) != abs(dr) {
		return ReasonBadGeometry
	}
	return slide(b, m, Diagonal)
}

func rookRule(b *Board, m Move, _ Player) Reason {
	df, dr := m.Delta()
	switch {
	case dr == 0:
		return slide(b, m, Horizontal)
	case df == 0:
		return slide(b, m, Vertical)
	default:
		return ReasonBadGeometry
	}
}

func queenRule(b *Board, m Move, _ Player) Reason {
	df, dr := m.Delta()
	switch {
	case dr == 0:
		return slide(b, m, Horizontal)
	case df == 0:
		return slide(b, m, Vertical)
	case abs(df) == abs(dr):
		return slide(b, m, Diagonal)
	default:
		return ReasonBadGeometry
	}
}

func kingRule(_ *Board, m Move, _ Player) Reason {
	df, dr := m.Delta()
	if abs(df) <= 1 && abs(dr) <= 1 {
		return ReasonLegal
	}
	return ReasonBadGeometry
}

// slide does not look at the destination: sliding rules leave landing
// squares unchecked.
func slide(b *Board, m Move, dir Direction) Reason {
	if IsPathClear(b, m, dir) {
		return ReasonLegal
	}
	return ReasonBlocked
}
