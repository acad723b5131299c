package rules

import "fmt"

// BoardSize is the number of files and ranks on the board.
const BoardSize = 8

// Square is a (file, rank) coordinate. Both components are zero-based and
// valid in [0,7]. They are signed so that deltas and malformed input stay
// representable; nothing outside InBounds is ever used as an index.
type Square struct {
	File int
	Rank int
}

// Sq is shorthand for Square{File: file, Rank: rank}.
func Sq(file, rank int) Square { return Square{File: file, Rank: rank} }

// InBounds reports whether both coordinates fall in [0,7].
func (s Square) InBounds() bool {
	return inRange(s.File) && inRange(s.Rank)
}

func (s Square) String() string {
	if s.InBounds() {
		return fmt.Sprintf("%c%d", 'a'+s.File, s.Rank+1)
	}
	return fmt.Sprintf("(%d,%d)", s.File, s.Rank)
}

func inRange(v int) bool { return v >= 0 && v < BoardSize }

// Move is a proposed relocation from one square to another.
type Move struct {
	From Square
	To   Square
}

// M builds a move from raw coordinates.
func M(fromFile, fromRank, toFile, toRank int) Move {
	return Move{From: Sq(fromFile, fromRank), To: Sq(toFile, toRank)}
}

// InBounds reports whether both endpoints are on the board.
func (m Move) InBounds() bool { return m.From.InBounds() && m.To.InBounds() }

// Delta returns the signed file and rank displacement of the move.
func (m Move) Delta() (df, dr int) {
	return m.To.File - m.From.File, m.To.Rank - m.From.Rank
}

func (m Move) String() string { return m.From.String() + m.To.String() }

// Direction is the straight-line geometry a sliding move travels along.
type Direction int

const (
	// Horizontal moves keep the rank and change the file.
	Horizontal Direction = iota
	// Vertical moves keep the file and change the rank.
	Vertical
	// Diagonal moves change file and rank by the same amount.
	Diagonal
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "Horizontal"
	case Vertical:
		return "Vertical"
	case Diagonal:
		return "Diagonal"
	default:
		return "Unknown"
	}
}

// ParseDirection maps a direction name (case-sensitive, as serialized) to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "Horizontal":
		return Horizontal, true
	case "Vertical":
		return Vertical, true
	case "Diagonal":
		return Diagonal, true
	}
	return 0, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
