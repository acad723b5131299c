package movedto

// ValidateRequest asks whether Mover may play Move. The board is given
// either as Board or as a FEN string; Board wins when both are set.
// State may be sent instead of Board; only its board is used. Move is
// required.
type ValidateRequest struct {
	Board BoardDTO      `json:"board,omitempty"`
	FEN   string        `json:"fen,omitempty"`
	State *GameStateDTO `json:"state,omitempty"`
	Move  *MoveDTO      `json:"move"`
	Mover string        `json:"mover"`
}

type ValidateResponse struct {
	Legal   bool   `json:"legal"`
	Reason  string `json:"reason"`
	Message string `json:"message,omitempty"`
	Cached  bool   `json:"cached,omitempty"`
	CheckID string `json:"check_id,omitempty"`
}

// PathRequest asks whether the squares between Move's endpoints are empty
// along Direction ("Horizontal", "Vertical", "Diagonal").
type PathRequest struct {
	Board     BoardDTO `json:"board,omitempty"`
	FEN       string   `json:"fen,omitempty"`
	Move      MoveDTO  `json:"move"`
	Direction string   `json:"direction"`
}

type PathResponse struct {
	Clear   bool   `json:"clear"`
	Message string `json:"message,omitempty"`
}

// RenderRequest draws a board, optionally highlighting Move (judged for
// Mover) and shading the destinations of the piece on Select.
type RenderRequest struct {
	Board      BoardDTO   `json:"board,omitempty"`
	FEN        string     `json:"fen,omitempty"`
	Move       *MoveDTO   `json:"move,omitempty"`
	Mover      string     `json:"mover,omitempty"`
	Select     *SquareDTO `json:"select,omitempty"`
	SquareSize int        `json:"square_size,omitempty"`
	// Flip draws the board from Black's side.
	Flip bool `json:"flip,omitempty"`
}

// CheckRecord is one audited check as listed by the API.
type CheckRecord struct {
	CheckID     string  `json:"check_id"`
	Fingerprint string  `json:"fingerprint"`
	Move        MoveDTO `json:"move"`
	Mover       string  `json:"mover"`
	Legal       bool    `json:"legal"`
	Reason      string  `json:"reason"`
	Cached      bool    `json:"cached"`
	CheckedAt   string  `json:"checked_at"`
}

type RecentChecksResponse struct {
	Checks []CheckRecord `json:"checks"`
}
