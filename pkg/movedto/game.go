package movedto

import (
	"encoding/hex"
	"fmt"

	"github.com/park285/oh-my-chess/internal/domain"
)

// PlayersDTO carries the two account ids as hex strings.
type PlayersDTO struct {
	Black string `json:"black"`
	White string `json:"white"`
}

// GameStateDTO mirrors the game document: board, turn, players, status.
type GameStateDTO struct {
	Board   BoardDTO   `json:"board"`
	Turn    string     `json:"turn"`
	Players PlayersDTO `json:"players"`
	Status  string     `json:"status"`
}

func (g GameStateDTO) ToGameState() (*domain.GameState, error) {
	board, err := g.Board.ToBoard()
	if err != nil {
		return nil, err
	}
	turn, ok := parseWirePlayer(g.Turn)
	if !ok {
		return nil, DomainError{Code: CodeBadPlayer, Message: fmt.Sprintf("unknown turn %q", g.Turn)}
	}
	status := domain.GameStatus(g.Status)
	if !status.Valid() {
		return nil, DomainError{Code: CodeBadRequest, Message: fmt.Sprintf("unknown status %q", g.Status)}
	}
	st := &domain.GameState{Board: *board, Turn: turn, Status: status}
	if st.Players.Black, err = decodeAddress(g.Players.Black); err != nil {
		return nil, DomainError{Code: CodeBadRequest, Message: "players.black: " + err.Error()}
	}
	if st.Players.White, err = decodeAddress(g.Players.White); err != nil {
		return nil, DomainError{Code: CodeBadRequest, Message: "players.white: " + err.Error()}
	}
	return st, nil
}

func FromGameState(s *domain.GameState) GameStateDTO {
	return GameStateDTO{
		Board: FromBoard(&s.Board),
		Turn:  s.Turn.String(),
		Players: PlayersDTO{
			Black: hex.EncodeToString(s.Players.Black[:]),
			White: hex.EncodeToString(s.Players.White[:]),
		},
		Status: string(s.Status),
	}
}

// An empty string decodes to the zero address.
func decodeAddress(s string) ([32]byte, error) {
	var out [32]byte
	if s == "" {
		return out, nil
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	if len(raw) != len(out) {
		return out, fmt.Errorf("address has %d bytes, want %d", len(raw), len(out))
	}
	copy(out[:], raw)
	return out, nil
}
