package rules

import (
	"github.com/Pekorus/Phoenix-Chess-Engine/board"
	"github.com/Pekorus/Phoenix-Chess-Engine/piece"
	"github.com/Pekorus/Phoenix-Chess-Engine/square"
)

var promotionKinds = [4]piece.Kind{piece.Queen, piece.Rook, piece.Bishop, piece.Knight}

func backRank(c piece.Color) int {
	if c == piece.Black {
		return 7
	}
	return 0
}

// LegalMovesForSide enumerates every legal move for every piece of color
// in the current position. lastMove is the immediately preceding move in
// the game, needed to decide en-passant eligibility.
func LegalMovesForSide(b *board.Board, color piece.Color, lastMove board.Move) []board.Move {
	var moves []board.Move
	for _, sq := range b.PiecesOf(color) {
		moves = append(moves, LegalMovesFor(b, sq, color, lastMove)...)
	}
	return moves
}

// LegalMovesFor enumerates the legal moves of the piece on sq, which must
// belong to color (the side to move).
func LegalMovesFor(b *board.Board, sq square.Square, color piece.Color, lastMove board.Move) []board.Move {
	mover := b.PieceAt(sq)
	if mover.IsEmpty() || mover.Color != color {
		return nil
	}
	candidates := pseudoLegalMoves(b, sq, mover, lastMove)
	legal := make([]board.Move, 0, len(candidates))
	for _, m := range candidates {
		if selfCheckOK(b, m, color) {
			legal = append(legal, m)
		}
	}
	return legal
}

func selfCheckOK(b *board.Board, m board.Move, color piece.Color) bool {
	b.Execute(m)
	ok := !IsCheck(b, color)
	b.Undo(m)
	return ok
}

func pseudoLegalMoves(b *board.Board, sq square.Square, mover piece.Piece, lastMove board.Move) []board.Move {
	switch mover.Kind {
	case piece.King:
		return kingMoves(b, sq, mover.Color)
	case piece.Queen:
		return sliderMoves(b, sq, mover, square.All[:])
	case piece.Rook:
		return sliderMoves(b, sq, mover, square.Orthogonals[:])
	case piece.Bishop:
		return sliderMoves(b, sq, mover, square.Diagonals[:])
	case piece.Knight:
		return knightMoves(b, sq, mover.Color)
	case piece.Pawn:
		return pawnMoves(b, sq, mover, lastMove)
	}
	return nil
}

func stepMoves(b *board.Board, sq square.Square, color piece.Color, kind piece.Kind, offsets []square.Direction) []board.Move {
	var moves []board.Move
	for _, o := range offsets {
		target := sq.Add(o)
		if !target.OnBoard() {
			continue
		}
		occ := b.PieceAt(target)
		switch {
		case occ.IsEmpty():
			moves = append(moves, board.Move{Kind: board.Normal, PieceKind: kind, From: sq, To: target})
		case occ.Color != color:
			moves = append(moves, board.Move{Kind: board.Capture, PieceKind: kind, From: sq, To: target})
		}
	}
	return moves
}

func knightMoves(b *board.Board, sq square.Square, color piece.Color) []board.Move {
	return stepMoves(b, sq, color, piece.Knight, square.KnightOffsets[:])
}

func kingMoves(b *board.Board, sq square.Square, color piece.Color) []board.Move {
	moves := stepMoves(b, sq, color, piece.King, square.All[:])
	rank := backRank(color)
	if canCastle(b, color, true) {
		moves = append(moves, board.Move{Kind: board.Castle, PieceKind: piece.King, From: sq, To: square.Square{Rank: rank, File: 6}})
	}
	if canCastle(b, color, false) {
		moves = append(moves, board.Move{Kind: board.Castle, PieceKind: piece.King, From: sq, To: square.Square{Rank: rank, File: 2}})
	}
	return moves
}

func sliderMoves(b *board.Board, sq square.Square, mover piece.Piece, dirs []square.Direction) []board.Move {
	var moves []board.Move
	for _, d := range dirs {
		cur := sq
		for {
			cur = cur.Add(d)
			if !cur.OnBoard() {
				break
			}
			occ := b.PieceAt(cur)
			if occ.IsEmpty() {
				moves = append(moves, board.Move{Kind: board.Normal, PieceKind: mover.Kind, From: sq, To: cur})
				continue
			}
			if occ.Color != mover.Color {
				moves = append(moves, board.Move{Kind: board.Capture, PieceKind: mover.Kind, From: sq, To: cur})
			}
			break
		}
	}
	return moves
}

func appendPawnMove(moves []board.Move, kind board.MoveKind, from, to square.Square, color piece.Color) []board.Move {
	if to.Rank == color.PromotionRank() {
		for _, promo := range promotionKinds {
			moves = append(moves, board.Move{Kind: kind, PieceKind: piece.Pawn, From: from, To: to, PromoteTo: promo})
		}
		return moves
	}
	return append(moves, board.Move{Kind: kind, PieceKind: piece.Pawn, From: from, To: to})
}

func pawnMoves(b *board.Board, sq square.Square, mover piece.Piece, lastMove board.Move) []board.Move {
	var moves []board.Move
	color := mover.Color
	fwd := color.ForwardDirection()

	oneStep := sq.Add(fwd)
	if oneStep.OnBoard() && !b.IsOccupied(oneStep) {
		moves = appendPawnMove(moves, board.Normal, sq, oneStep, color)
		if mover.MoveCounter == 0 {
			twoStep := oneStep.Add(fwd)
			if twoStep.OnBoard() && !b.IsOccupied(twoStep) {
				moves = appendPawnMove(moves, board.Normal, sq, twoStep, color)
			}
		}
	}

	for _, cd := range color.PawnCaptureDirections() {
		target := sq.Add(cd)
		if !target.OnBoard() {
			continue
		}
		occ := b.PieceAt(target)
		switch {
		case !occ.IsEmpty() && occ.Color != color:
			moves = appendPawnMove(moves, board.Capture, sq, target, color)
		case occ.IsEmpty() && isEnPassantTarget(lastMove, sq, target):
			moves = appendPawnMove(moves, board.EnPassant, sq, target, color)
		}
	}

	return moves
}

// isEnPassantTarget reports whether capturing onto `target` from `from` is
// a legal en-passant attempt given the immediately preceding move: lastMove
// must have been an enemy pawn double-step landing on the same rank as
// `from`, whose passed square equals `target` (spec.md §4.2). This is the
// explicit inspection spec.md §9 asks for in place of the source's
// unconditional-true enPassantPossible().
func isEnPassantTarget(lastMove board.Move, from, target square.Square) bool {
	if lastMove.IsEmpty() || lastMove.PieceKind != piece.Pawn {
		return false
	}
	rankDelta := lastMove.To.Rank - lastMove.From.Rank
	if rankDelta != 2 && rankDelta != -2 {
		return false
	}
	if lastMove.To.Rank != from.Rank {
		return false
	}
	passed := square.Square{Rank: (lastMove.From.Rank + lastMove.To.Rank) / 2, File: lastMove.To.File}
	return passed == target
}

func canCastle(b *board.Board, color piece.Color, kingside bool) bool {
	king := b.PieceAt(b.KingSquare(color))
	if king.MoveCounter != 0 {
		return false
	}
	rank := backRank(color)
	rookFile := 0
	if kingside {
		rookFile = 7
	}
	rook := b.PieceAt(square.Square{Rank: rank, File: rookFile})
	if rook.IsEmpty() || rook.Kind != piece.Rook || rook.Color != color || rook.MoveCounter != 0 {
		return false
	}

	between := []int{1, 2, 3}
	if kingside {
		between = []int{5, 6}
	}
	for _, f := range between {
		if b.IsOccupied(square.Square{Rank: rank, File: f}) {
			return false
		}
	}

	kingFile, passedFile, destFile := 4, 5, 6
	if !kingside {
		passedFile, destFile = 3, 2
	}
	opp := color.Opposite()
	for _, f := range [3]int{kingFile, passedFile, destFile} {
		if IsAttacked(b, square.Square{Rank: rank, File: f}, opp, nil) {
			return false
		}
	}
	return true
}

func isReachable(b *board.Board, m board.Move, mover piece.Piece) bool {
	switch m.PieceKind {
	case piece.King:
		if m.Kind == board.Castle {
			return m.From.Rank == m.To.Rank && square.FileDistance(m.From, m.To) == 2
		}
		return square.Distance(m.From, m.To) == 1
	case piece.Queen:
		return slidesClear(b, m.From, m.To, square.All[:])
	case piece.Rook:
		return slidesClear(b, m.From, m.To, square.Orthogonals[:])
	case piece.Bishop:
		return slidesClear(b, m.From, m.To, square.Diagonals[:])
	case piece.Knight:
		for _, o := range square.KnightOffsets {
			if m.From.Add(o) == m.To {
				return true
			}
		}
		return false
	case piece.Pawn:
		return pawnReachable(b, m, mover)
	}
	return false
}

func slidesClear(b *board.Board, from, to square.Square, dirs []square.Direction) bool {
	for _, d := range dirs {
		cur := from
		for {
			cur = cur.Add(d)
			if !cur.OnBoard() {
				break
			}
			if cur == to {
				return true
			}
			if b.IsOccupied(cur) {
				break
			}
		}
	}
	return false
}

func pawnReachable(b *board.Board, m board.Move, mover piece.Piece) bool {
	color := mover.Color
	fwd := color.ForwardDirection()
	oneStep := m.From.Add(fwd)

	if m.To == oneStep {
		if m.Kind != board.Normal {
			return false
		}
		return !b.IsOccupied(oneStep)
	}

	twoStep := oneStep.Add(fwd)
	if m.To == twoStep {
		return m.Kind == board.Normal && mover.MoveCounter == 0 &&
			!b.IsOccupied(oneStep) && !b.IsOccupied(twoStep)
	}

	for _, cd := range color.PawnCaptureDirections() {
		if m.From.Add(cd) != m.To {
			continue
		}
		if m.Kind == board.Capture {
			occ := b.PieceAt(m.To)
			return !occ.IsEmpty() && occ.Color != color
		}
		if m.Kind == board.EnPassant {
			return !b.IsOccupied(m.To)
		}
	}
	return false
}

// Validate reports whether m is legal for color to play right now, given
// lastMove (needed for en passant). It follows spec.md §4.2's five-step
// order exactly, ending with the mandatory scratch execute/undo self-check.
func Validate(b *board.Board, color piece.Color, lastMove board.Move, m board.Move) bool {
	mover := b.PieceAt(m.From)
	if mover.IsEmpty() || mover.Color != color || mover.Kind != m.PieceKind {
		return false
	}

	if !isReachable(b, m, mover) {
		return false
	}

	switch m.Kind {
	case board.Capture:
		occ := b.PieceAt(m.To)
		if occ.IsEmpty() || occ.Color == color {
			return false
		}
	case board.EnPassant:
		if !isEnPassantTarget(lastMove, m.From, m.To) {
			return false
		}
	case board.Castle:
		kingside := m.To.File == 6
		if !canCastle(b, color, kingside) {
			return false
		}
	}

	wantsPromotion := m.PieceKind == piece.Pawn && m.To.Rank == color.PromotionRank()
	if wantsPromotion {
		switch m.PromoteTo {
		case piece.Queen, piece.Rook, piece.Bishop, piece.Knight:
		default:
			return false
		}
	} else if m.PromoteTo != piece.None {
		return false
	}

	return selfCheckOK(b, m, color)
}
