package movedto

import (
	"fmt"

	"github.com/park285/oh-my-chess/internal/rules"
)

// CellDTO is an occupied square as serialized: {"piece":"Pawn","player":"White"}.
type CellDTO struct {
	Piece  string `json:"piece"`
	Player string `json:"player"`
}

// BoardDTO is indexed [file][rank]; empty squares are null.
type BoardDTO [][]*CellDTO

// SquareDTO is a [file, rank] pair. Values are not range-checked here; the
// validator rejects off-board squares itself.
type SquareDTO [2]int

func (s SquareDTO) Square() rules.Square { return rules.Sq(s[0], s[1]) }

func SquareFrom(sq rules.Square) SquareDTO { return SquareDTO{sq.File, sq.Rank} }

// MoveDTO is {"from":[f,r],"to":[f,r]}.
type MoveDTO struct {
	From SquareDTO `json:"from"`
	To   SquareDTO `json:"to"`
}

func (m MoveDTO) Move() rules.Move { return rules.Move{From: m.From.Square(), To: m.To.Square()} }

func MoveFrom(m rules.Move) MoveDTO { return MoveDTO{From: SquareFrom(m.From), To: SquareFrom(m.To)} }

// ToBoard converts the wire board. The shape must be exactly 8×8 and every
// occupied cell must name a known piece and player.
func (b BoardDTO) ToBoard() (*rules.Board, error) {
	if len(b) != rules.BoardSize {
		return nil, DomainError{Code: CodeBadBoard, Message: fmt.Sprintf("board has %d files, want %d", len(b), rules.BoardSize)}
	}
	out := rules.NewBoard()
	for f, column := range b {
		if len(column) != rules.BoardSize {
			return nil, DomainError{Code: CodeBadBoard, Message: fmt.Sprintf("file %d has %d ranks, want %d", f, len(column), rules.BoardSize)}
		}
		for r, cell := range column {
			if cell == nil {
				continue
			}
			c, err := cell.toCell()
			if err != nil {
				return nil, DomainError{Code: CodeBadBoard, Message: fmt.Sprintf("square [%d,%d]: %v", f, r, err)}
			}
			out.Place(rules.Sq(f, r), c)
		}
	}
	return out, nil
}

func (c CellDTO) toCell() (rules.Cell, error) {
	p, ok := rules.ParsePiece(c.Piece)
	if !ok {
		return rules.Cell{}, fmt.Errorf("unknown piece %q", c.Piece)
	}
	pl, ok := parseWirePlayer(c.Player)
	if !ok {
		return rules.Cell{}, fmt.Errorf("unknown player %q", c.Player)
	}
	return rules.Cell{Piece: p, Player: pl}, nil
}

// FromBoard builds a full 8×8 wire board.
func FromBoard(b *rules.Board) BoardDTO {
	out := make(BoardDTO, rules.BoardSize)
	for f := range out {
		out[f] = make([]*CellDTO, rules.BoardSize)
	}
	b.Each(func(sq rules.Square, c rules.Cell) {
		out[sq.File][sq.Rank] = &CellDTO{Piece: c.Piece.String(), Player: c.Player.String()}
	})
	return out
}

// ParsePlayer accepts the serialized names and the short CLI forms.
func ParsePlayer(s string) (rules.Player, error) {
	p, ok := rules.ParsePlayer(s)
	if !ok {
		return 0, DomainError{Code: CodeBadPlayer, Message: fmt.Sprintf("unknown player %q", s)}
	}
	return p, nil
}

// Cells only carry the serialized names.
func parseWirePlayer(s string) (rules.Player, bool) {
	switch s {
	case "White":
		return rules.White, true
	case "Black":
		return rules.Black, true
	}
	return 0, false
}
