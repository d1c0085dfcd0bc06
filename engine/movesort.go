package engine

import (
	"sort"

	"github.com/Pekorus/Phoenix-Chess-Engine/board"
)

// victimValue returns the value of the piece a move captures, looked up
// before the move is executed. En passant's victim square is not m.To, so
// it is derived from the mover's own rank rather than the landing square.
func victimValue(b *board.Board, m board.Move) int {
	if m.Kind == board.EnPassant {
		victimSq := m.To
		victimSq.Rank = m.From.Rank
		return b.PieceAt(victimSq).Kind.Value()
	}
	return b.PieceAt(m.To).Kind.Value()
}

// orderMoves implements spec.md §4.5 step 6: the transposition table's
// remembered best move first, then captures by MVV/LVA (victim value minus
// attacker value, descending), then the two killer moves recorded at this
// height, then everything else in generation order.
func (sr *searchRun) orderMoves(moves []board.Move, ttMove board.Move, height int) []board.Move {
	b := sr.g.Board
	killer0, killer1 := board.Empty, board.Empty
	if height < maxSearchHeight {
		killer0, killer1 = sr.killers[height][0], sr.killers[height][1]
	}

	ordered := make([]board.Move, len(moves))
	copy(ordered, moves)

	rank := func(m board.Move) int {
		switch {
		case !ttMove.IsEmpty() && m == ttMove:
			return 0
		case m.IsCapture():
			return 1
		case !killer0.IsEmpty() && m == killer0:
			return 2
		case !killer1.IsEmpty() && m == killer1:
			return 3
		default:
			return 4
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := rank(ordered[i]), rank(ordered[j])
		if ri != rj {
			return ri < rj
		}
		if ri == 1 {
			scoreI := victimValue(b, ordered[i]) - ordered[i].PieceKind.Value()
			scoreJ := victimValue(b, ordered[j]) - ordered[j].PieceKind.Value()
			return scoreI > scoreJ
		}
		return false
	})

	return ordered
}

// orderCaptures is spec.md §4.5's quiescence-search ordering: captures
// first, sorted by MVV/LVA, then every other candidate (a non-capture
// promotion, or a quiet evasion when in check) in generation order.
func (sr *searchRun) orderCaptures(candidates []board.Move) []board.Move {
	b := sr.g.Board
	ordered := make([]board.Move, len(candidates))
	copy(ordered, candidates)

	sort.SliceStable(ordered, func(i, j int) bool {
		iCapture, jCapture := ordered[i].IsCapture(), ordered[j].IsCapture()
		if iCapture != jCapture {
			return iCapture
		}
		if iCapture {
			scoreI := victimValue(b, ordered[i]) - ordered[i].PieceKind.Value()
			scoreJ := victimValue(b, ordered[j]) - ordered[j].PieceKind.Value()
			return scoreI > scoreJ
		}
		return false
	})

	return ordered
}

// reconstructPV walks the transposition table's BestMove links from the
// post-iteration board position, executing and un-executing each move to
// follow the Zobrist keys, for display purposes only (spec.md §4.5, §6).
// The board is left exactly as it was found: every push is undone before
// return, on every exit path.
func (sr *searchRun) reconstructPV(bestMove board.Move, maxDepth int) []board.Move {
	if bestMove.IsEmpty() {
		return nil
	}

	const maxPVLength = 8
	limit := maxDepth
	if limit > maxPVLength {
		limit = maxPVLength
	}

	b := sr.g.Board
	pv := make([]board.Move, 0, limit)
	played := make([]board.Move, 0, limit)

	m := bestMove
	for len(pv) < limit && !m.IsEmpty() {
		pv = append(pv, m)
		b.Execute(m)
		played = append(played, m)

		entry, ok := sr.search.tt.Probe(b.HashKey())
		if !ok || entry.BestMove.IsEmpty() {
			break
		}
		m = entry.BestMove
	}

	for i := len(played) - 1; i >= 0; i-- {
		b.Undo(played[i])
	}

	return pv
}
