package movedto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/park285/oh-my-chess/internal/domain"
	"github.com/park285/oh-my-chess/internal/rules"
)

func TestBoardDTO_RoundTripStandard(t *testing.T) {
	b := rules.StandardBoard()
	raw, err := json.Marshal(FromBoard(b))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var dto BoardDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, err := dto.ToBoard()
	if err != nil {
		t.Fatalf("ToBoard: %v", err)
	}
	if *got != *b {
		t.Fatalf("board changed across the wire")
	}
}

func TestBoardDTO_DocumentShape(t *testing.T) {
	b := rules.NewBoard()
	b.Place(rules.Sq(1, 1), rules.W(rules.Pawn))
	raw, err := json.Marshal(FromBoard(b))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var generic [][]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("unmarshal generic: %v", err)
	}
	want := map[string]any{"piece": "Pawn", "player": "White"}
	if diff := cmp.Diff(want, generic[1][1]); diff != "" {
		t.Fatalf("cell [1][1] (-want +got):\n%s", diff)
	}
	if generic[0][0] != nil {
		t.Fatalf("empty cell encoded as %v, want null", generic[0][0])
	}
}

func TestBoardDTO_Rejects(t *testing.T) {
	full := func() BoardDTO { return FromBoard(rules.NewBoard()) }

	short := full()[:7]
	ragged := full()
	ragged[3] = ragged[3][:5]
	badPiece := full()
	badPiece[0][0] = &CellDTO{Piece: "Archbishop", Player: "White"}
	badPlayer := full()
	badPlayer[0][0] = &CellDTO{Piece: "Rook", Player: "white"}

	for name, dto := range map[string]BoardDTO{"short": short, "ragged": ragged, "piece": badPiece, "player": badPlayer} {
		_, err := dto.ToBoard()
		var de DomainError
		if !errors.As(err, &de) || de.Code != CodeBadBoard {
			t.Fatalf("%s: err = %v, want %s DomainError", name, err, CodeBadBoard)
		}
	}
}

func TestMoveDTO_KeepsOutOfRangeCoordinates(t *testing.T) {
	var m MoveDTO
	if err := json.Unmarshal([]byte(`{"from":[-1,0],"to":[8,9]}`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(rules.M(-1, 0, 8, 9), m.Move()); diff != "" {
		t.Fatalf("move (-want +got):\n%s", diff)
	}
}

func TestGameStateDTO_RoundTrip(t *testing.T) {
	st := domain.NewGameState()
	st.Players.White[0] = 0xab
	st.Players.Black[31] = 0x01
	dto := FromGameState(st)
	got, err := dto.ToGameState()
	if err != nil {
		t.Fatalf("ToGameState: %v", err)
	}
	if diff := cmp.Diff(st.Players, got.Players); diff != "" {
		t.Fatalf("players (-want +got):\n%s", diff)
	}
	if got.Board != st.Board || got.Turn != st.Turn || got.Status != st.Status {
		t.Fatalf("state changed across the wire: %+v", got)
	}

	dto.Status = "Resigned"
	if _, err := dto.ToGameState(); err == nil {
		t.Fatalf("unknown status accepted")
	}
	dto.Status = "Ongoing"
	dto.Players.White = "abcd"
	if _, err := dto.ToGameState(); err == nil {
		t.Fatalf("short address accepted")
	}
}
