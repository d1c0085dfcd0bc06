// Package rules implements move legality, legal-move enumeration and
// terminal-state classification (check, checkmate, stalemate, draws). It is
// a stateless service: every function takes the board (and whatever extra
// context — side to move, the last move played — a given call needs) as
// explicit parameters rather than holding a back-reference to Game.
// See spec.md §4.2.
package rules

import (
	"github.com/Pekorus/Phoenix-Chess-Engine/board"
	"github.com/Pekorus/Phoenix-Chess-Engine/piece"
	"github.com/Pekorus/Phoenix-Chess-Engine/square"
)

// IsAttacked reports whether any byColor piece attacks sq. ignoreSq, when
// non-nil, is treated as empty for the purposes of ray-casting — needed so
// that a king evaluating its own flight squares does not block its own
// check along the axis it is leaving (spec.md §4.2, §9).
func IsAttacked(b *board.Board, sq square.Square, byColor piece.Color, ignoreSq *square.Square) bool {
	isIgnored := func(s square.Square) bool {
		return ignoreSq != nil && s == *ignoreSq
	}

	for _, d := range square.All {
		target := sq.Add(d)
		if target.OnBoard() {
			occ := b.PieceAt(target)
			if !occ.IsEmpty() && occ.Kind == piece.King && occ.Color == byColor {
				return true
			}
		}
	}

	for _, d := range square.Diagonals {
		if rayAttacks(b, sq, d, byColor, isIgnored, piece.Bishop) {
			return true
		}
	}
	for _, d := range square.Orthogonals {
		if rayAttacks(b, sq, d, byColor, isIgnored, piece.Rook) {
			return true
		}
	}

	for _, o := range square.KnightOffsets {
		target := sq.Add(o)
		if !target.OnBoard() {
			continue
		}
		occ := b.PieceAt(target)
		if !occ.IsEmpty() && occ.Kind == piece.Knight && occ.Color == byColor {
			return true
		}
	}

	for _, cd := range byColor.PawnCaptureDirections() {
		origin := sq.Add(square.Opposite(cd))
		if !origin.OnBoard() {
			continue
		}
		occ := b.PieceAt(origin)
		if !occ.IsEmpty() && occ.Kind == piece.Pawn && occ.Color == byColor {
			return true
		}
	}

	return false
}

// rayAttacks walks from sq in direction d, skipping the ignored square as
// if it were empty, and reports whether the first real occupant found is a
// byColor slider (Queen, or Bishop/Rook depending on slidingKind) that
// attacks along that axis.
func rayAttacks(b *board.Board, sq square.Square, d square.Direction, byColor piece.Color, isIgnored func(square.Square) bool, slidingKind piece.Kind) bool {
	cur := sq
	for {
		cur = cur.Add(d)
		if !cur.OnBoard() {
			return false
		}
		if isIgnored(cur) {
			continue
		}
		occ := b.PieceAt(cur)
		if occ.IsEmpty() {
			continue
		}
		if occ.Color != byColor {
			return false
		}
		return occ.Kind == piece.Queen || occ.Kind == slidingKind
	}
}

// IsCheck reports whether color's king is currently attacked.
func IsCheck(b *board.Board, color piece.Color) bool {
	return IsAttacked(b, b.KingSquare(color), color.Opposite(), nil)
}
