package domain

import (
	"github.com/park285/oh-my-chess/internal/rules"
)

// GameStatus is carried with a snapshot but never evaluated by the rules.
type GameStatus string

const (
	StatusOngoing   GameStatus = "Ongoing"
	StatusCheckmate GameStatus = "Checkmate"
	StatusStalemate GameStatus = "Stalemate"
	StatusDraw      GameStatus = "Draw"
)

func (s GameStatus) Valid() bool {
	switch s {
	case StatusOngoing, StatusCheckmate, StatusStalemate, StatusDraw:
		return true
	}
	return false
}

// PlayersAddresses holds the opaque 32-byte account ids of both sides.
type PlayersAddresses struct {
	Black [32]byte
	White [32]byte
}

// GameState is a snapshot handed to us by whoever owns the game. Only Board
// is read when checking a move; Turn and Status travel along untouched.
type GameState struct {
	Board   rules.Board
	Turn    rules.Player
	Players PlayersAddresses
	Status  GameStatus
}

// NewGameState returns the standard starting position, White to move.
func NewGameState() *GameState {
	return &GameState{
		Board:  *rules.StandardBoard(),
		Turn:   rules.White,
		Status: StatusOngoing,
	}
}

// CheckMove validates move for mover against the snapshot's board. The
// mover is explicit; Turn is not consulted.
func (s *GameState) CheckMove(move rules.Move, mover rules.Player) bool {
	if s == nil {
		return false
	}
	return rules.Validate(&s.Board, move, mover)
}
