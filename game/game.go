// Package game composes board and rules into a driveable chess game: move
// history, repetition history, the fifty-move counter and outcome
// classification. It owns a *board.Board; rules stays the stateless
// service described in its own package doc — Game never hands rules a
// back-reference to itself. See spec.md §3, §4.2, §9.
package game

import (
	"github.com/Pekorus/Phoenix-Chess-Engine/board"
	"github.com/Pekorus/Phoenix-Chess-Engine/piece"
	"github.com/Pekorus/Phoenix-Chess-Engine/rules"
)

// Outcome classifies the terminal state of a Game.
type Outcome int

const (
	Ongoing Outcome = iota
	WhiteWins
	BlackWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "WhiteWins"
	case BlackWins:
		return "BlackWins"
	case Draw:
		return "Draw"
	default:
		return "Ongoing"
	}
}

// Result bundles an Outcome with the DrawKind, when Outcome is Draw.
type Result struct {
	Outcome  Outcome
	DrawKind rules.DrawKind
}

// Game is mutable playable state: a Board plus everything Rules needs to
// answer "is this legal" and "is the game over" that Board itself does not
// track — whose turn it is, what was just played, how long since the last
// pawn move or capture, and how many times each position has recurred.
type Game struct {
	Board *board.Board

	sideToMove     piece.Color
	moveHistory    []board.Move
	positionCounts map[uint64]int
	halfmoveClock  int
	cachedResult   Result
	resultCached   bool
}

// NewStandard starts a Game from the standard chess position.
func NewStandard() *Game {
	b := board.NewStandard()
	g := &Game{
		Board:          b,
		sideToMove:     piece.White,
		positionCounts: map[uint64]int{b.HashKey(): 1},
	}
	return g
}

// NewFromPosition starts a Game from an explicit position, as described by
// spec.md §6's external-interface signature.
func NewFromPosition(grid [8][8]piece.Piece, sideToMove piece.Color, castleRights [4]bool) (*Game, error) {
	b, err := board.NewFromPosition(grid, sideToMove, castleRights)
	if err != nil {
		return nil, err
	}
	g := &Game{
		Board:          b,
		sideToMove:     sideToMove,
		positionCounts: map[uint64]int{b.HashKey(): 1},
	}
	return g, nil
}

// SideToMove reports whose turn it is.
func (g *Game) SideToMove() piece.Color {
	return g.sideToMove
}

// LastMove returns the most recently played move, or the empty move if
// none has been played yet.
func (g *Game) LastMove() board.Move {
	if len(g.moveHistory) == 0 {
		return board.Empty
	}
	return g.moveHistory[len(g.moveHistory)-1]
}

// MoveHistory returns the ordered list of moves played so far. The
// returned slice aliases Game's internal storage and must not be mutated.
func (g *Game) MoveHistory() []board.Move {
	return g.moveHistory
}

// HalfmoveClock is the number of plies since the last pawn move or capture.
func (g *Game) HalfmoveClock() int {
	return g.halfmoveClock
}

// TryMove validates m against the current position and, if legal, plays
// it: it returns false and leaves Game untouched if m is illegal. Per
// spec.md §7 this is a predicate, not an error condition, and per spec.md
// §6 a Game that has already reached a terminal Outcome rejects every
// further move without re-running Rules.
func (g *Game) TryMove(m board.Move) bool {
	if g.Outcome().Outcome != Ongoing {
		return false
	}
	if !rules.Validate(g.Board, g.sideToMove, g.LastMove(), m) {
		return false
	}
	g.play(m)
	return true
}

func (g *Game) play(m board.Move) {
	g.Board.Execute(m)
	g.moveHistory = append(g.moveHistory, m)
	if m.PieceKind == piece.Pawn || m.IsCapture() {
		g.halfmoveClock = 0
	} else {
		g.halfmoveClock++
	}
	g.positionCounts[g.Board.HashKey()]++
	g.sideToMove = g.sideToMove.Opposite()
	g.resultCached = false
}

// Outcome classifies the current position, caching the result until the
// next successful TryMove invalidates it.
func (g *Game) Outcome() Result {
	if g.resultCached {
		return g.cachedResult
	}
	g.cachedResult = g.classify()
	g.resultCached = true
	return g.cachedResult
}

func (g *Game) classify() Result {
	last := g.LastMove()
	if rules.IsCheckmate(g.Board, g.sideToMove, last) {
		if g.sideToMove == piece.White {
			return Result{Outcome: BlackWins}
		}
		return Result{Outcome: WhiteWins}
	}
	if dk := rules.IsDraw(g.Board, g.sideToMove, last, g.halfmoveClock, g.positionCounts, true); dk != rules.NoDraw {
		return Result{Outcome: Draw, DrawKind: dk}
	}
	return Result{Outcome: Ongoing}
}

// LegalMoves enumerates every legal move for the side to move.
func (g *Game) LegalMoves() []board.Move {
	return rules.LegalMovesForSide(g.Board, g.sideToMove, g.LastMove())
}

// PositionOccurrences reports how many times the current position's
// Zobrist key has occurred so far in this game, including the current
// occurrence.
func (g *Game) PositionOccurrences() int {
	return g.positionCounts[g.Board.HashKey()]
}
