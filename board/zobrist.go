package board

import (
	"math/rand"

	"github.com/Pekorus/Phoenix-Chess-Engine/piece"
)

// zobristSeed is fixed so that position identity is stable across runs and
// across builds, matching the teacher's own initKeys (common/position.go),
// which seeds math/rand with a constant for exactly the same reason.
const zobristSeed = 1070372

// pieceZobristIndex is spec.md §4.1's canonical piece ordering:
// 0..5 White {King, Queen, Bishop, Knight, Rook, Pawn}, 6..11 Black in the
// same order. This ordering is otherwise arbitrary, but it is called out in
// spec.md as the index any serialization must use, so it is kept exactly.
func pieceZobristIndex(k piece.Kind, c piece.Color) int {
	var base int
	switch k {
	case piece.King:
		base = 0
	case piece.Queen:
		base = 1
	case piece.Bishop:
		base = 2
	case piece.Knight:
		base = 3
	case piece.Rook:
		base = 4
	case piece.Pawn:
		base = 5
	}
	if c == piece.Black {
		base += 6
	}
	return base
}

var (
	zobristTable      [8][8][12]uint64
	zobristSideToMove uint64
)

func init() {
	r := rand.New(rand.NewSource(zobristSeed))
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			for idx := 0; idx < 12; idx++ {
				zobristTable[rank][file][idx] = r.Uint64()
			}
		}
	}
	zobristSideToMove = r.Uint64()
}
