package rules

// Board is an 8×8 grid indexed [file][rank]. The zero value is an empty
// board. Reads go through At, which range-checks every square before
// touching the array.
type Board struct {
	cells    [BoardSize][BoardSize]Cell
	occupied [BoardSize][BoardSize]bool
}

// NewBoard returns an empty board.
func NewBoard() *Board { return &Board{} }

// At returns the occupant of sq. Squares off the board read as empty.
func (b *Board) At(sq Square) (Cell, bool) {
	if b == nil || !sq.InBounds() {
		return Cell{}, false
	}
	if !b.occupied[sq.File][sq.Rank] {
		return Cell{}, false
	}
	return b.cells[sq.File][sq.Rank], true
}

// Occupied reports whether sq holds a piece.
func (b *Board) Occupied(sq Square) bool {
	_, ok := b.At(sq)
	return ok
}

// Place puts c on sq, replacing any occupant. Off-board squares are ignored
// and reported with false.
func (b *Board) Place(sq Square, c Cell) bool {
	if b == nil || !sq.InBounds() {
		return false
	}
	b.cells[sq.File][sq.Rank] = c
	b.occupied[sq.File][sq.Rank] = true
	return true
}

// Clear empties sq.
func (b *Board) Clear(sq Square) {
	if b == nil || !sq.InBounds() {
		return
	}
	b.cells[sq.File][sq.Rank] = Cell{}
	b.occupied[sq.File][sq.Rank] = false
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	if b == nil {
		return NewBoard()
	}
	c := *b
	return &c
}

// Each calls fn for every occupied square, file-major.
func (b *Board) Each(fn func(sq Square, c Cell)) {
	if b == nil {
		return
	}
	for f := 0; f < BoardSize; f++ {
		for r := 0; r < BoardSize; r++ {
			if b.occupied[f][r] {
				fn(Sq(f, r), b.cells[f][r])
			}
		}
	}
}

// Count returns the number of occupied squares.
func (b *Board) Count() int {
	n := 0
	b.Each(func(Square, Cell) { n++ })
	return n
}

// StandardBoard returns the usual starting array: White on ranks 0-1, Black on ranks 6-7.
func StandardBoard() *Board {
	b := NewBoard()
	back := [BoardSize]Piece{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for f := 0; f < BoardSize; f++ {
		b.Place(Sq(f, 0), W(back[f]))
		b.Place(Sq(f, 1), W(Pawn))
		b.Place(Sq(f, 6), B(Pawn))
		b.Place(Sq(f, 7), B(back[f]))
	}
	return b
}
