package engine

import (
	"github.com/Pekorus/Phoenix-Chess-Engine/board"
	"github.com/Pekorus/Phoenix-Chess-Engine/piece"
	"github.com/Pekorus/Phoenix-Chess-Engine/square"
)

// Stage is a coarse flag on a position, per spec.md §4.4: Middlegame while
// the opponent still has a queen, Endgame once it does not. Opening is a
// legacy flag from the source and is treated as Middlegame here.
type Stage int

const (
	Middlegame Stage = iota
	Endgame
)

// pst tables are indexed [rank][file] from White's own perspective (rank 0
// is White's back rank); Black reads the same table with rank mirrored
// (7-rank), matching the teacher's evaluation.go convention of a single
// symmetric table consulted by both sides via a flip.
type pst [8][8]int

var (
	pawnPST = pst{
		{0, 0, 0, 0, 0, 0, 0, 0},
		{5, 10, 10, -20, -20, 10, 10, 5},
		{5, -5, -10, 0, 0, -10, -5, 5},
		{0, 0, 0, 20, 20, 0, 0, 0},
		{5, 5, 10, 25, 25, 10, 5, 5},
		{10, 10, 20, 30, 30, 20, 10, 10},
		{50, 50, 50, 50, 50, 50, 50, 50},
		{0, 0, 0, 0, 0, 0, 0, 0},
	}
	knightPST = pst{
		{-50, -40, -30, -30, -30, -30, -40, -50},
		{-40, -20, 0, 5, 5, 0, -20, -40},
		{-30, 5, 10, 15, 15, 10, 5, -30},
		{-30, 0, 15, 20, 20, 15, 0, -30},
		{-30, 5, 15, 20, 20, 15, 5, -30},
		{-30, 0, 10, 15, 15, 10, 0, -30},
		{-40, -20, 0, 0, 0, 0, -20, -40},
		{-50, -40, -30, -30, -30, -30, -40, -50},
	}
	bishopPST = pst{
		{-20, -10, -10, -10, -10, -10, -10, -20},
		{-10, 5, 0, 0, 0, 0, 5, -10},
		{-10, 10, 10, 10, 10, 10, 10, -10},
		{-10, 0, 10, 10, 10, 10, 0, -10},
		{-10, 5, 5, 10, 10, 5, 5, -10},
		{-10, 0, 5, 10, 10, 5, 0, -10},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-20, -10, -10, -10, -10, -10, -10, -20},
	}
	rookPST = pst{
		{0, 0, 0, 5, 5, 0, 0, 0},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{5, 10, 10, 10, 10, 10, 10, 5},
		{0, 0, 0, 0, 0, 0, 0, 0},
	}
	queenPST = pst{
		{-20, -10, -10, -5, -5, -10, -10, -20},
		{-10, 0, 5, 0, 0, 0, 0, -10},
		{-10, 5, 5, 5, 5, 5, 0, -10},
		{-5, 0, 5, 5, 5, 5, 0, -5},
		{0, 0, 5, 5, 5, 5, 0, -5},
		{-10, 0, 5, 5, 5, 5, 0, -10},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-20, -10, -10, -5, -5, -10, -10, -20},
	}
	kingMiddlegamePST = pst{
		{20, 30, 10, 0, 0, 10, 30, 20},
		{20, 20, 0, 0, 0, 0, 20, 20},
		{-10, -20, -20, -20, -20, -20, -20, -10},
		{-20, -30, -30, -40, -40, -30, -30, -20},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
	}
	kingEndgamePST = pst{
		{-50, -30, -30, -30, -30, -30, -30, -50},
		{-30, -30, 0, 0, 0, 0, -30, -30},
		{-30, -10, 20, 30, 30, 20, -10, -30},
		{-30, -10, 30, 40, 40, 30, -10, -30},
		{-30, -10, 30, 40, 40, 30, -10, -30},
		{-30, -10, 20, 30, 30, 20, -10, -30},
		{-30, -20, -10, 0, 0, -10, -20, -30},
		{-50, -40, -30, -20, -20, -30, -40, -50},
	}
)

func (t pst) at(sq square.Square, c piece.Color) int {
	rank := sq.Rank
	if c == piece.Black {
		rank = 7 - rank
	}
	return t[rank][sq.File]
}

const (
	bishopPairBonus        = 20
	bishopBlockedByOwnPawn = -20
	rookOpenFileBonus      = 15
	rookSemiOpenFileBonus  = 10
	rookPairSharedFile     = 20
	doubledPawnPenalty     = -15
	isolatedPawnPenalty    = -15
)

// StageOf classifies the position seen by the side about to move: it is
// Endgame once the opponent has no queen, Middlegame otherwise. Opening is
// the source's legacy flag and is folded into Middlegame here (spec.md
// §4.4).
func StageOf(b *board.Board, opponent piece.Color) Stage {
	for _, sq := range b.PiecesOf(opponent) {
		if b.PieceAt(sq).Kind == piece.Queen {
			return Middlegame
		}
	}
	return Endgame
}

// Evaluate returns a scalar from sideToMove's perspective, satisfying
// Evaluate(b, other) == -Evaluate(b, sideToMove) for the same position
// (spec.md §4.4, §8 invariant 3) because it is built entirely as
// ownScore(sideToMove) - ownScore(opposite) and every per-piece term is
// itself mirrored by color.
func Evaluate(b *board.Board, sideToMove piece.Color) int {
	own := sideScore(b, sideToMove)
	opp := sideScore(b, sideToMove.Opposite())
	return own - opp
}

func sideScore(b *board.Board, c piece.Color) int {
	total := 0
	bishops := 0
	kingStage := StageOf(b, c.Opposite())
	var kingTable pst
	if kingStage == Endgame {
		kingTable = kingEndgamePST
	} else {
		kingTable = kingMiddlegamePST
	}
	rookFiles := make(map[int]int)

	for _, sq := range b.PiecesOf(c) {
		p := b.PieceAt(sq)
		total += p.Kind.Value()
		switch p.Kind {
		case piece.Pawn:
			total += pawnPST.at(sq, c)
		case piece.Knight:
			total += knightPST.at(sq, c)
		case piece.Bishop:
			bishops++
			total += bishopPST.at(sq, c)
			fwd := c.ForwardDirection()
			for _, d := range [2]square.Direction{{DR: fwd.DR, DF: 1}, {DR: fwd.DR, DF: -1}} {
				ahead := sq.Add(d)
				if ahead.OnBoard() {
					if occ := b.PieceAt(ahead); occ.Kind == piece.Pawn && occ.Color == c {
						total += bishopBlockedByOwnPawn
					}
				}
			}
		case piece.Rook:
			total += rookPST.at(sq, c)
			rookFiles[sq.File]++
			if b.PawnsOnFile(c, sq.File) == 0 {
				if b.PawnsOnFile(c.Opposite(), sq.File) == 0 {
					total += rookOpenFileBonus
				} else {
					total += rookSemiOpenFileBonus
				}
			}
		case piece.Queen:
			total += queenPST.at(sq, c)
			total += queenDistancePenalty(b, sq, c.Opposite())
		case piece.King:
			total += kingTable.at(sq, c)
		}
	}

	if bishops >= 2 {
		total += bishopPairBonus
	}
	for _, count := range rookFiles {
		if count >= 2 {
			total += rookPairSharedFile
		}
	}

	for file := 0; file < 8; file++ {
		n := b.PawnsOnFile(c, file)
		if n > 1 {
			total += doubledPawnPenalty * (n - 1)
		}
		if n > 0 {
			leftEmpty := file == 0 || b.PawnsOnFile(c, file-1) == 0
			rightEmpty := file == 7 || b.PawnsOnFile(c, file+1) == 0
			if leftEmpty && rightEmpty {
				total += isolatedPawnPenalty * n
			}
		}
	}

	return total
}

// queenDistancePenalty weighs the queen's Chebyshev distance from the
// enemy color's king at half strength: the original's distance term
// is deliberately asymmetric, penalizing the queen for being far from the
// enemy king, not rewarding proximity to its own (spec.md §9).
func queenDistancePenalty(b *board.Board, queenSq square.Square, enemy piece.Color) int {
	d := square.Distance(queenSq, b.KingSquare(enemy))
	return -d / 2
}
