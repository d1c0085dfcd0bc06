package game

import (
	"context"

	"github.com/Pekorus/Phoenix-Chess-Engine/board"
)

// Player is the sum-type interface spec.md §9 asks for: a human fed moves
// externally and an engine-backed searcher both satisfy it, so a driver
// loop never needs to know which kind of opponent it is talking to.
type Player interface {
	// RequestMove blocks until a move is available or ctx is done. The
	// bool is false when no move could be produced in time — an expected
	// outcome, not an error (spec.md §7).
	RequestMove(ctx context.Context, g *Game) (board.Move, bool)
	OnMovePlayed(m board.Move)
	OnGameEnd(result Result)
	Name() string
}
