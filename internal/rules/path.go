package rules

// IsPathClear reports whether every square strictly between move.From and
// move.To along dir is empty. The deltas must agree with dir (horizontal:
// same rank, vertical: same file, diagonal: equal absolute deltas); a
// mismatch or an off-board endpoint yields false. Neither endpoint's
// occupancy is consulted.
func IsPathClear(board *Board, move Move, dir Direction) bool {
	if !move.InBounds() {
		return false
	}
	df, dr := move.Delta()
	switch dir {
	case Horizontal:
		if dr != 0 {
			return false
		}
	case Vertical:
		if df != 0 {
			return false
		}
	case Diagonal:
		if abs(df) != abs(dr) {
			return false
		}
	default:
		return false
	}

	step := Sq(sign(df), sign(dr))
	for sq := advance(move.From, step); sq != move.To; sq = advance(sq, step) {
		if board.Occupied(sq) {
			return false
		}
	}
	return true
}

func advance(sq, step Square) Square {
	return Sq(sq.File+step.File, sq.Rank+step.Rank)
}
