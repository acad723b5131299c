// Package fen converts between FEN strings and rules boards using
// corentings/chess for the parsing.
package fen

import (
	"errors"
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"github.com/park285/oh-my-chess/internal/rules"
)

// StartFEN is the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	ErrInvalidFEN    = errors.New("invalid FEN")
	ErrInvalidSquare = errors.New("invalid square")
)

// Decode parses a FEN string into a board and the side to move. Castling,
// en-passant and clock fields are validated by the parser and then dropped.
func Decode(s string) (*rules.Board, rules.Player, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, rules.White, fmt.Errorf("%w: empty", ErrInvalidFEN)
	}
	opt, err := nchess.FEN(s)
	if err != nil {
		return nil, rules.White, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	pos := nchess.NewGame(opt).Position()

	board := rules.NewBoard()
	for sq, pc := range pos.Board().SquareMap() {
		cell, ok := cellFrom(pc)
		if !ok {
			continue
		}
		board.Place(rules.Sq(int(sq.File()), int(sq.Rank())), cell)
	}
	return board, playerFrom(pos.Turn()), nil
}

// Encode renders board with turn to move. No castling rights or en-passant
// square are emitted since the rules do not model them.
func Encode(board *rules.Board, turn rules.Player) string {
	m := make(map[nchess.Square]nchess.Piece)
	board.Each(func(sq rules.Square, c rules.Cell) {
		m[nchess.NewSquare(nchess.File(sq.File), nchess.Rank(sq.Rank))] = pieceFrom(c)
	})
	side := "w"
	if turn == rules.Black {
		side = "b"
	}
	return fmt.Sprintf("%s %s - - 0 1", nchess.NewBoard(m).String(), side)
}

// ParseSquare reads algebraic coordinates such as "e4".
func ParseSquare(s string) (rules.Square, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return rules.Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return rules.Sq(int(s[0]-'a'), int(s[1]-'1')), nil
}

// FormatSquare is the inverse of ParseSquare.
func FormatSquare(sq rules.Square) (string, error) {
	if !sq.InBounds() {
		return "", fmt.Errorf("%w: %v", ErrInvalidSquare, sq)
	}
	return string([]byte{byte('a' + sq.File), byte('1' + sq.Rank)}), nil
}

// ParseMove reads a coordinate move such as "e2e4".
func ParseMove(s string) (rules.Move, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return rules.Move{}, fmt.Errorf("%w: move %q", ErrInvalidSquare, s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return rules.Move{}, err
	}
	to, err := ParseSquare(s[2:])
	if err != nil {
		return rules.Move{}, err
	}
	return rules.Move{From: from, To: to}, nil
}

var pieceTypes = map[nchess.PieceType]rules.Piece{
	nchess.Pawn:   rules.Pawn,
	nchess.Knight: rules.Knight,
	nchess.Bishop: rules.Bishop,
	nchess.Rook:   rules.Rook,
	nchess.Queen:  rules.Queen,
	nchess.King:   rules.King,
}

func cellFrom(pc nchess.Piece) (rules.Cell, bool) {
	if pc == nchess.NoPiece {
		return rules.Cell{}, false
	}
	p, ok := pieceTypes[pc.Type()]
	if !ok {
		return rules.Cell{}, false
	}
	return rules.Cell{Piece: p, Player: playerFrom(pc.Color())}, true
}

func pieceFrom(c rules.Cell) nchess.Piece {
	var t nchess.PieceType
	for nt, p := range pieceTypes {
		if p == c.Piece {
			t = nt
			break
		}
	}
	color := nchess.White
	if c.Player == rules.Black {
		color = nchess.Black
	}
	return nchess.NewPiece(t, color)
}

func playerFrom(c nchess.Color) rules.Player {
	if c == nchess.Black {
		return rules.Black
	}
	return rules.White
}
