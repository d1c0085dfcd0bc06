// Package board implements the 8x8 mailbox position: occupancy grid,
// per-color piece lists, per-file pawn counts, king locators, the
// captured-piece stack and the incrementally maintained Zobrist key. See
// spec.md §4.1.
package board

import (
	"fmt"

	"github.com/Pekorus/Phoenix-Chess-Engine/piece"
	"github.com/Pekorus/Phoenix-Chess-Engine/square"
)

type capturedEntry struct {
	Piece  piece.Piece
	Square square.Square
}

// Board is mutable, self-consistent mailbox state. It has no notion of
// move history or game outcome — that belongs to package game. It tracks
// a side-to-move bit purely because the Zobrist key is defined over it
// (spec.md §3).
type Board struct {
	grid             [8][8]piece.Piece
	piecesByColor    [2][]square.Square
	pawnCountPerFile [2][8]int
	kingSquare       [2]square.Square
	capturedStack    []capturedEntry
	key              uint64
	blackToMove      bool
}

// invariantf panics on a detected invariant violation (hash drift,
// piece-list desync, captured-stack underflow). These can never fire on
// legal input; per spec.md §7 this is the debug-assert-and-abort path for
// programmer bugs, not an expected outcome.
func invariantf(format string, args ...interface{}) {
	panic(fmt.Sprintf("board: invariant violation: "+format, args...))
}

// NewStandard returns the board for the standard chess starting position.
func NewStandard() *Board {
	var grid [8][8]piece.Piece
	backRank := [8]piece.Kind{
		piece.Rook, piece.Knight, piece.Bishop, piece.Queen,
		piece.King, piece.Bishop, piece.Knight, piece.Rook,
	}
	for file := 0; file < 8; file++ {
		grid[0][file] = piece.Piece{Kind: backRank[file], Color: piece.White, Square: square.Square{Rank: 0, File: file}}
		grid[7][file] = piece.Piece{Kind: backRank[file], Color: piece.Black, Square: square.Square{Rank: 7, File: file}}
		grid[1][file] = piece.Piece{Kind: piece.Pawn, Color: piece.White, Square: square.Square{Rank: 1, File: file}}
		grid[6][file] = piece.Piece{Kind: piece.Pawn, Color: piece.Black, Square: square.Square{Rank: 6, File: file}}
	}
	b, err := NewFromPosition(grid, piece.White, [4]bool{true, true, true, true})
	if err != nil {
		invariantf("standard position failed to construct: %v", err)
	}
	return b
}

// NewFromPosition rebuilds a Board from an explicit 8x8 grid, the side to
// move, and the four castling-rights booleans ordered
// {White-kingside, White-queenside, Black-kingside, Black-queenside}.
// Per spec.md §4.1, each king's MoveCounter is set to 0 if either of its
// color's castling rights is granted and the corresponding rook is present
// and is a rook, else 1; rooks not covered by a granted right are likewise
// marked as moved (MoveCounter 1) so that Rules never allows castling a
// right construction did not grant.
func NewFromPosition(grid [8][8]piece.Piece, sideToMove piece.Color, castleRights [4]bool) (*Board, error) {
	b := &Board{blackToMove: sideToMove == piece.Black}
	kingsSeen := [2]bool{}

	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			p := grid[rank][file]
			sq := square.Square{Rank: rank, File: file}
			if p.IsEmpty() {
				b.grid[rank][file] = piece.Empty
				continue
			}
			p.Square = sq
			b.grid[rank][file] = p
			b.piecesByColor[p.Color] = append(b.piecesByColor[p.Color], sq)
			if p.Kind == piece.Pawn {
				b.pawnCountPerFile[p.Color][file]++
			}
			if p.Kind == piece.King {
				if kingsSeen[p.Color] {
					return nil, fmt.Errorf("board: duplicate %v king", p.Color)
				}
				kingsSeen[p.Color] = true
				b.kingSquare[p.Color] = sq
			}
		}
	}
	if !kingsSeen[piece.White] || !kingsSeen[piece.Black] {
		return nil, fmt.Errorf("board: both colors must have exactly one king")
	}

	type rightSpec struct {
		color       piece.Color
		granted     bool
		rookFile    int
	}
	rights := [4]rightSpec{
		{piece.White, castleRights[0], 7},
		{piece.White, castleRights[1], 0},
		{piece.Black, castleRights[2], 7},
		{piece.Black, castleRights[3], 0},
	}
	kingAllowed := [2]bool{false, false}
	for _, r := range rights {
		backRank := 0
		if r.color == piece.Black {
			backRank = 7
		}
		rook := b.grid[backRank][r.rookFile]
		if r.granted && rook.Kind == piece.Rook && rook.Color == r.color {
			rook.MoveCounter = 0
			b.grid[backRank][r.rookFile] = rook
			kingAllowed[r.color] = true
		} else if rook.Kind == piece.Rook && rook.Color == r.color {
			rook.MoveCounter = 1
			b.grid[backRank][r.rookFile] = rook
		}
	}
	for _, c := range [2]piece.Color{piece.White, piece.Black} {
		ks := b.kingSquare[c]
		king := b.grid[ks.Rank][ks.File]
		if kingAllowed[c] {
			king.MoveCounter = 0
		} else {
			king.MoveCounter = 1
		}
		b.grid[ks.Rank][ks.File] = king
	}

	b.key = b.recomputeKey()
	return b, nil
}

func (b *Board) recomputeKey() uint64 {
	var key uint64
	for _, c := range [2]piece.Color{piece.White, piece.Black} {
		for _, sq := range b.piecesByColor[c] {
			p := b.grid[sq.Rank][sq.File]
			key ^= zobristTable[sq.Rank][sq.File][pieceZobristIndex(p.Kind, p.Color)]
		}
	}
	if b.blackToMove {
		key ^= zobristSideToMove
	}
	return key
}

// PieceAt returns the piece occupying sq, or the empty sentinel.
func (b *Board) PieceAt(sq square.Square) piece.Piece {
	return b.grid[sq.Rank][sq.File]
}

func (b *Board) IsOccupied(sq square.Square) bool {
	return !b.grid[sq.Rank][sq.File].IsEmpty()
}

func (b *Board) KingSquare(c piece.Color) square.Square {
	return b.kingSquare[c]
}

// PiecesOf returns the unordered set of squares occupied by color c. The
// returned slice aliases Board's internal storage and must not be mutated
// by the caller.
func (b *Board) PiecesOf(c piece.Color) []square.Square {
	return b.piecesByColor[c]
}

func (b *Board) PawnsOnFile(c piece.Color, file int) int {
	return b.pawnCountPerFile[c][file]
}

func (b *Board) HashKey() uint64 {
	return b.key
}

// VerifyHash recomputes the key from scratch and panics if it disagrees
// with the incrementally maintained one. It is an error for these to ever
// disagree on legal input (spec.md §3); call from tests and from debug
// builds, not from hot search paths.
func (b *Board) VerifyHash() {
	if got, want := b.key, b.recomputeKey(); got != want {
		invariantf("zobrist key drift: incremental=%#x recomputed=%#x", got, want)
	}
}

func castleRookSquares(m Move) (from, to square.Square) {
	rank := m.From.Rank
	if m.To.File == 6 {
		return square.Square{Rank: rank, File: 7}, square.Square{Rank: rank, File: 5}
	}
	return square.Square{Rank: rank, File: 0}, square.Square{Rank: rank, File: 3}
}

func (b *Board) removeFromList(c piece.Color, sq square.Square) {
	list := b.piecesByColor[c]
	for i, s := range list {
		if s == sq {
			list[i] = list[len(list)-1]
			b.piecesByColor[c] = list[:len(list)-1]
			return
		}
	}
	invariantf("captured-stack/piece-list underflow: %v not found for %v", sq, c)
}

func (b *Board) addToList(c piece.Color, sq square.Square) {
	b.piecesByColor[c] = append(b.piecesByColor[c], sq)
}

func (b *Board) replaceInList(c piece.Color, oldSq, newSq square.Square) {
	list := b.piecesByColor[c]
	for i, s := range list {
		if s == oldSq {
			list[i] = newSq
			return
		}
	}
	invariantf("piece-list desync: %v not found for %v", oldSq, c)
}

// xorMove applies (and, called a second time, un-applies) every Zobrist
// term a move touches. XOR is its own inverse, so Execute and Undo share
// this helper verbatim.
func (b *Board) xorMove(m Move, moverColor piece.Color, fromKind, toKind piece.Kind, victim piece.Piece, victimSq square.Square) {
	b.key ^= zobristTable[m.From.Rank][m.From.File][pieceZobristIndex(fromKind, moverColor)]
	b.key ^= zobristTable[m.To.Rank][m.To.File][pieceZobristIndex(toKind, moverColor)]
	if !victim.IsEmpty() {
		b.key ^= zobristTable[victimSq.Rank][victimSq.File][pieceZobristIndex(victim.Kind, victim.Color)]
	}
	if m.Kind == Castle {
		rookFrom, rookTo := castleRookSquares(m)
		b.key ^= zobristTable[rookFrom.Rank][rookFrom.File][pieceZobristIndex(piece.Rook, moverColor)]
		b.key ^= zobristTable[rookTo.Rank][rookTo.File][pieceZobristIndex(piece.Rook, moverColor)]
	}
	b.key ^= zobristSideToMove
}

// adjustPawnFiles applies the pawn-file bookkeeping a move (other than
// victim removal) requires: promotion always removes the pawn from the
// from-file's count; any other pawn move that changes file (capture or en
// passant) debits the from-file and credits the to-file. A plain forward
// advance never changes file and needs no adjustment. sign is +1 when
// applying the move, -1 when undoing it.
func (b *Board) adjustPawnFiles(m Move, moverColor piece.Color, moverWasPawn bool, sign int) {
	if !moverWasPawn {
		return
	}
	if m.PromoteTo != piece.None {
		b.pawnCountPerFile[moverColor][m.From.File] -= sign
		return
	}
	if m.From.File != m.To.File {
		b.pawnCountPerFile[moverColor][m.From.File] -= sign
		b.pawnCountPerFile[moverColor][m.To.File] += sign
	}
}

// Execute mutates the board to reflect playing m. The caller (Rules) is
// responsible for having established that m is geometrically sound; Execute
// trusts its inputs and will panic via invariantf if from is empty.
func (b *Board) Execute(m Move) {
	mover := b.grid[m.From.Rank][m.From.File]
	if mover.IsEmpty() {
		invariantf("execute: no piece on %v", m.From)
	}
	moverColor := mover.Color
	fromKind := mover.Kind

	var victim piece.Piece
	var victimSq square.Square
	switch m.Kind {
	case Capture:
		victimSq = m.To
		victim = b.grid[victimSq.Rank][victimSq.File]
		if victim.IsEmpty() {
			invariantf("execute: capture onto empty square %v", victimSq)
		}
	case EnPassant:
		victimSq = square.Square{Rank: m.From.Rank, File: m.To.File}
		victim = b.grid[victimSq.Rank][victimSq.File]
		if victim.IsEmpty() {
			invariantf("execute: en passant with no victim on %v", victimSq)
		}
	}
	if !victim.IsEmpty() {
		b.removeFromList(victim.Color, victimSq)
		if victim.Kind == piece.Pawn {
			b.pawnCountPerFile[victim.Color][victimSq.File]--
		}
		b.grid[victimSq.Rank][victimSq.File] = piece.Empty
		b.capturedStack = append(b.capturedStack, capturedEntry{Piece: victim, Square: victimSq})
	}

	b.adjustPawnFiles(m, moverColor, fromKind == piece.Pawn, +1)

	toKind := fromKind
	if m.PromoteTo != piece.None {
		toKind = m.PromoteTo
	}
	newPiece := mover
	newPiece.Square = m.To
	newPiece.MoveCounter++
	newPiece.Kind = toKind
	b.grid[m.To.Rank][m.To.File] = newPiece
	b.grid[m.From.Rank][m.From.File] = piece.Empty
	b.replaceInList(moverColor, m.From, m.To)
	if fromKind == piece.King {
		b.kingSquare[moverColor] = m.To
	}

	if m.Kind == Castle {
		rookFrom, rookTo := castleRookSquares(m)
		rook := b.grid[rookFrom.Rank][rookFrom.File]
		if rook.IsEmpty() || rook.Kind != piece.Rook {
			invariantf("execute: castle with no rook on %v", rookFrom)
		}
		rook.Square = rookTo
		rook.MoveCounter++
		b.grid[rookTo.Rank][rookTo.File] = rook
		b.grid[rookFrom.Rank][rookFrom.File] = piece.Empty
		b.replaceInList(moverColor, rookFrom, rookTo)
	}

	b.xorMove(m, moverColor, fromKind, toKind, victim, victimSq)
	b.blackToMove = !b.blackToMove
}

// Undo is the exact inverse of Execute for the same move, restoring the
// board bitwise including move counters, pawn counts, piece lists, king
// squares, captured-stack and hash key (spec.md §8 invariant 1).
func (b *Board) Undo(m Move) {
	b.blackToMove = !b.blackToMove

	moved := b.grid[m.To.Rank][m.To.File]
	if moved.IsEmpty() {
		invariantf("undo: no piece on %v", m.To)
	}
	moverColor := moved.Color
	toKind := moved.Kind
	fromKind := toKind
	if m.PromoteTo != piece.None {
		fromKind = piece.Pawn
	}

	if m.Kind == Castle {
		rookFrom, rookTo := castleRookSquares(m)
		rook := b.grid[rookTo.Rank][rookTo.File]
		rook.Square = rookFrom
		rook.MoveCounter--
		b.grid[rookFrom.Rank][rookFrom.File] = rook
		b.grid[rookTo.Rank][rookTo.File] = piece.Empty
		b.replaceInList(moverColor, rookTo, rookFrom)
	}

	moved.Kind = fromKind
	moved.Square = m.From
	moved.MoveCounter--
	b.grid[m.From.Rank][m.From.File] = moved
	b.grid[m.To.Rank][m.To.File] = piece.Empty
	b.replaceInList(moverColor, m.To, m.From)
	if fromKind == piece.King {
		b.kingSquare[moverColor] = m.From
	}

	b.adjustPawnFiles(m, moverColor, fromKind == piece.Pawn, -1)

	var victim piece.Piece
	var victimSq square.Square
	if m.IsCapture() {
		n := len(b.capturedStack)
		if n == 0 {
			invariantf("undo: captured-stack underflow")
		}
		entry := b.capturedStack[n-1]
		b.capturedStack = b.capturedStack[:n-1]
		if n == 1 {
			b.capturedStack = nil
		}
		victim, victimSq = entry.Piece, entry.Square
		b.grid[victimSq.Rank][victimSq.File] = victim
		b.addToList(victim.Color, victimSq)
		if victim.Kind == piece.Pawn {
			b.pawnCountPerFile[victim.Color][victimSq.File]++
		}
	}

	b.xorMove(m, moverColor, fromKind, toKind, victim, victimSq)
}

// ExecuteNullMove toggles only the side-to-move bit in the hash; no board
// state changes. Used by Search's null-move pruning.
func (b *Board) ExecuteNullMove() {
	b.key ^= zobristSideToMove
	b.blackToMove = !b.blackToMove
}

func (b *Board) UndoNullMove() {
	b.key ^= zobristSideToMove
	b.blackToMove = !b.blackToMove
}
