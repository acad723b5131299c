package rules

// Piece is the kind of a chess piece. It carries no behaviour; legality
// lives in the validator.
type Piece int

const (
	Pawn Piece = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceNames = [...]string{"Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}

// Pieces lists every piece kind in declaration order.
var Pieces = []Piece{Pawn, Knight, Bishop, Rook, Queen, King}

func (p Piece) String() string {
	if p.Valid() {
		return pieceNames[p]
	}
	return "Unknown"
}

// Valid reports whether p is one of the six piece kinds.
func (p Piece) Valid() bool { return p >= Pawn && p <= King }

// ParsePiece maps a serialized piece name ("Pawn", "Knight", ...) to a Piece.
func ParsePiece(s string) (Piece, bool) {
	for i, n := range pieceNames {
		if n == s {
			return Piece(i), true
		}
	}
	return 0, false
}

// Player is one side of the game.
type Player int

const (
	White Player = iota
	Black
)

func (p Player) String() string {
	switch p {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "Unknown"
	}
}

// Valid reports whether p is White or Black.
func (p Player) Valid() bool { return p == White || p == Black }

// Opponent returns the other side.
func (p Player) Opponent() Player {
	if p == White {
		return Black
	}
	return White
}

// Forward is the rank step a pawn of this side advances by.
func (p Player) Forward() int {
	if p == White {
		return 1
	}
	return -1
}

// ParsePlayer accepts "White"/"Black" as serialized, plus the lowercase and
// single-letter forms used on the command line.
func ParsePlayer(s string) (Player, bool) {
	switch s {
	case "White", "white", "w", "W":
		return White, true
	case "Black", "black", "b", "B":
		return Black, true
	}
	return 0, false
}

// Cell is the occupant of a square: exactly one piece owned by exactly one player.
type Cell struct {
	Piece  Piece
	Player Player
}

// Cells for fixtures.
func W(p Piece) Cell { return Cell{Piece: p, Player: White} }
func B(p Piece) Cell { return Cell{Piece: p, Player: Black} }
