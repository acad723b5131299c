package movecheck

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/park285/oh-my-chess/internal/rules"
)

// Fingerprint hashes everything a verdict depends on: all 64 cells, the
// move and the mover.
func Fingerprint(board *rules.Board, move rules.Move, mover rules.Player) string {
	h := sha256.New()
	var cells [rules.BoardSize * rules.BoardSize]byte
	for f := 0; f < rules.BoardSize; f++ {
		for r := 0; r < rules.BoardSize; r++ {
			if c, ok := board.At(rules.Sq(f, r)); ok {
				cells[f*rules.BoardSize+r] = byte(1 + int(c.Piece)*2 + int(c.Player))
			}
		}
	}
	h.Write(cells[:])

	var buf [8]byte
	for _, v := range []int{move.From.File, move.From.Rank, move.To.File, move.To.Rank} {
		binary.BigEndian.PutUint64(buf[:], uint64(int64(v)))
		h.Write(buf[:])
	}
	h.Write([]byte{byte(mover)})
	return hex.EncodeToString(h.Sum(nil))
}
