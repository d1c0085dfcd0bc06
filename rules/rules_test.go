package rules

import (
	"testing"

	"github.com/Pekorus/Phoenix-Chess-Engine/board"
	"github.com/Pekorus/Phoenix-Chess-Engine/piece"
	"github.com/Pekorus/Phoenix-Chess-Engine/square"
)

func sq(rank, file int) square.Square { return square.Square{Rank: rank, File: file} }

func TestIsCheckStartingPosition(t *testing.T) {
	b := board.NewStandard()
	if IsCheck(b, piece.White) || IsCheck(b, piece.Black) {
		t.Fatal("starting position must not be check for either side")
	}
}

func TestLegalMovesForSideStartingPositionCount(t *testing.T) {
	b := board.NewStandard()
	moves := LegalMovesForSide(b, piece.White, board.Empty)
	if len(moves) != 20 {
		t.Fatalf("expected 20 legal moves in the starting position, got %d", len(moves))
	}
}

func TestFoolsMateIsCheckmate(t *testing.T) {
	b := board.NewStandard()
	play := func(from, to square.Square, kind board.MoveKind) board.Move {
		mover := b.PieceAt(from)
		m := board.Move{Kind: kind, PieceKind: mover.Kind, From: from, To: to}
		b.Execute(m)
		return m
	}
	play(sq(1, 5), sq(2, 5), board.Normal)  // f3
	play(sq(6, 4), sq(5, 4), board.Normal)  // e5
	play(sq(1, 6), sq(3, 6), board.Normal)  // g4
	last := play(sq(7, 3), sq(3, 7), board.Normal) // Qh4#

	if !IsCheckmate(b, piece.White, last) {
		t.Fatal("expected White to be checkmated")
	}
}

func TestStalemateNoLegalMovesNotInCheck(t *testing.T) {
	var grid [8][8]piece.Piece
	grid[0][0] = piece.Piece{Kind: piece.King, Color: piece.White}
	grid[2][1] = piece.Piece{Kind: piece.King, Color: piece.Black}
	grid[1][2] = piece.Piece{Kind: piece.Queen, Color: piece.Black}
	b, err := board.NewFromPosition(grid, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}
	if IsCheck(b, piece.White) {
		t.Fatal("position must not be check")
	}
	if !IsStalemate(b, piece.White, board.Empty) {
		t.Fatal("expected stalemate")
	}
	if IsCheckmate(b, piece.White, board.Empty) {
		t.Fatal("stalemate is not checkmate")
	}
}

func TestEnPassantLegalImmediatelyAfterDoubleStep(t *testing.T) {
	var grid [8][8]piece.Piece
	grid[0][4] = piece.Piece{Kind: piece.King, Color: piece.White}
	grid[7][4] = piece.Piece{Kind: piece.King, Color: piece.Black}
	grid[4][4] = piece.Piece{Kind: piece.Pawn, Color: piece.White}
	grid[6][3] = piece.Piece{Kind: piece.Pawn, Color: piece.Black}
	b, err := board.NewFromPosition(grid, piece.Black, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}
	doubleStep := board.Move{Kind: board.Normal, PieceKind: piece.Pawn, From: sq(6, 3), To: sq(4, 3)}
	b.Execute(doubleStep)

	capture := board.Move{Kind: board.EnPassant, PieceKind: piece.Pawn, From: sq(4, 4), To: sq(5, 3)}
	if !Validate(b, piece.White, doubleStep, capture) {
		t.Fatal("expected en passant capture to be legal immediately after the double step")
	}
}

func TestEnPassantIllegalAfterIntervalMove(t *testing.T) {
	var grid [8][8]piece.Piece
	grid[0][4] = piece.Piece{Kind: piece.King, Color: piece.White}
	grid[7][4] = piece.Piece{Kind: piece.King, Color: piece.Black}
	grid[4][4] = piece.Piece{Kind: piece.Pawn, Color: piece.White}
	grid[6][3] = piece.Piece{Kind: piece.Pawn, Color: piece.Black}
	b, err := board.NewFromPosition(grid, piece.Black, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}
	b.Execute(board.Move{Kind: board.Normal, PieceKind: piece.Pawn, From: sq(6, 3), To: sq(4, 3)})
	interval := board.Move{Kind: board.Normal, PieceKind: piece.King, From: sq(7, 4), To: sq(7, 5)}
	b.Execute(interval)

	capture := board.Move{Kind: board.EnPassant, PieceKind: piece.Pawn, From: sq(4, 4), To: sq(5, 3)}
	if Validate(b, piece.White, interval, capture) {
		t.Fatal("en passant must not be legal once a move has intervened")
	}
}

func TestCastleBlockedWhenKingPassesThroughCheck(t *testing.T) {
	var grid [8][8]piece.Piece
	grid[0][4] = piece.Piece{Kind: piece.King, Color: piece.White}
	grid[0][7] = piece.Piece{Kind: piece.Rook, Color: piece.White}
	grid[7][4] = piece.Piece{Kind: piece.King, Color: piece.Black}
	grid[7][5] = piece.Piece{Kind: piece.Rook, Color: piece.Black}
	b, err := board.NewFromPosition(grid, piece.White, [4]bool{true, false, false, false})
	if err != nil {
		t.Fatal(err)
	}
	castle := board.Move{Kind: board.Castle, PieceKind: piece.King, From: sq(0, 4), To: sq(0, 6)}
	if Validate(b, piece.White, board.Empty, castle) {
		t.Fatal("castling through an attacked square must be illegal")
	}
}

func TestPromotionRequiresPieceKind(t *testing.T) {
	var grid [8][8]piece.Piece
	grid[0][4] = piece.Piece{Kind: piece.King, Color: piece.White}
	grid[7][4] = piece.Piece{Kind: piece.King, Color: piece.Black}
	grid[6][0] = piece.Piece{Kind: piece.Pawn, Color: piece.White}
	b, err := board.NewFromPosition(grid, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}
	noPromo := board.Move{Kind: board.Normal, PieceKind: piece.Pawn, From: sq(6, 0), To: sq(7, 0)}
	if Validate(b, piece.White, board.Empty, noPromo) {
		t.Fatal("a pawn reaching the back rank without naming a promotion piece must be illegal")
	}
	withPromo := board.Move{Kind: board.Normal, PieceKind: piece.Pawn, From: sq(6, 0), To: sq(7, 0), PromoteTo: piece.Queen}
	if !Validate(b, piece.White, board.Empty, withPromo) {
		t.Fatal("promotion to queen should be legal")
	}
}

func TestMoveLeavingOwnKingInCheckIsIllegal(t *testing.T) {
	var grid [8][8]piece.Piece
	grid[0][4] = piece.Piece{Kind: piece.King, Color: piece.White}
	grid[1][4] = piece.Piece{Kind: piece.Rook, Color: piece.White}
	grid[7][4] = piece.Piece{Kind: piece.King, Color: piece.Black}
	grid[4][4] = piece.Piece{Kind: piece.Rook, Color: piece.Black}
	b, err := board.NewFromPosition(grid, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}
	pinnedRookMove := board.Move{Kind: board.Normal, PieceKind: piece.Rook, From: sq(1, 4), To: sq(1, 0)}
	if Validate(b, piece.White, board.Empty, pinnedRookMove) {
		t.Fatal("moving the rook off the king's file would expose the king to check")
	}
}

func TestInsufficientMaterialKingsOnly(t *testing.T) {
	var grid [8][8]piece.Piece
	grid[0][0] = piece.Piece{Kind: piece.King, Color: piece.White}
	grid[7][7] = piece.Piece{Kind: piece.King, Color: piece.Black}
	b, err := board.NewFromPosition(grid, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}
	if !insufficientMaterial(b) {
		t.Fatal("king vs king must be insufficient material")
	}
}

func TestInsufficientMaterialFalseWithRook(t *testing.T) {
	var grid [8][8]piece.Piece
	grid[0][0] = piece.Piece{Kind: piece.King, Color: piece.White}
	grid[7][7] = piece.Piece{Kind: piece.King, Color: piece.Black}
	grid[3][3] = piece.Piece{Kind: piece.Rook, Color: piece.White}
	b, err := board.NewFromPosition(grid, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}
	if insufficientMaterial(b) {
		t.Fatal("a lone extra rook must not count as insufficient material")
	}
}

func TestInsufficientMaterialFalseWithKnightVsKnight(t *testing.T) {
	var grid [8][8]piece.Piece
	grid[0][0] = piece.Piece{Kind: piece.King, Color: piece.White}
	grid[7][7] = piece.Piece{Kind: piece.King, Color: piece.Black}
	grid[0][1] = piece.Piece{Kind: piece.Knight, Color: piece.White}
	grid[7][6] = piece.Piece{Kind: piece.Knight, Color: piece.Black}
	b, err := board.NewFromPosition(grid, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}
	if insufficientMaterial(b) {
		t.Fatal("king+knight vs king+knight is checkmateable and must not be a material draw")
	}
}

func TestInsufficientMaterialTrueWithSameColourBishops(t *testing.T) {
	var grid [8][8]piece.Piece
	grid[0][0] = piece.Piece{Kind: piece.King, Color: piece.White}
	grid[7][7] = piece.Piece{Kind: piece.King, Color: piece.Black}
	grid[0][2] = piece.Piece{Kind: piece.Bishop, Color: piece.White} // c1, (0+2)%2 == 0
	grid[7][5] = piece.Piece{Kind: piece.Bishop, Color: piece.Black} // f8, (7+5)%2 == 0
	b, err := board.NewFromPosition(grid, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}
	if !insufficientMaterial(b) {
		t.Fatal("king+bishop vs king+bishop on same-coloured squares must be a material draw")
	}
}

func TestInsufficientMaterialFalseWithOppositeColourBishops(t *testing.T) {
	var grid [8][8]piece.Piece
	grid[0][0] = piece.Piece{Kind: piece.King, Color: piece.White}
	grid[7][7] = piece.Piece{Kind: piece.King, Color: piece.Black}
	grid[0][2] = piece.Piece{Kind: piece.Bishop, Color: piece.White} // c1, (0+2)%2 == 0
	grid[7][2] = piece.Piece{Kind: piece.Bishop, Color: piece.Black} // c8, (7+2)%2 == 1
	b, err := board.NewFromPosition(grid, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}
	if insufficientMaterial(b) {
		t.Fatal("king+bishop vs king+bishop on opposite-coloured squares must not be a material draw")
	}
}

func TestIsDrawFiftyMoveRule(t *testing.T) {
	b := board.NewStandard()
	if got := IsDraw(b, piece.White, board.Empty, 100, nil, true); got != DrawFiftyMove {
		t.Fatalf("expected DrawFiftyMove, got %v", got)
	}
}

func TestIsDrawThreefoldRepetition(t *testing.T) {
	b := board.NewStandard()
	history := map[uint64]int{b.HashKey(): 3}
	if got := IsDraw(b, piece.White, board.Empty, 0, history, true); got != DrawThreefoldRepetition {
		t.Fatalf("expected DrawThreefoldRepetition, got %v", got)
	}
}

func TestIsDrawNoDrawStartingPosition(t *testing.T) {
	b := board.NewStandard()
	if got := IsDraw(b, piece.White, board.Empty, 0, nil, true); got != NoDraw {
		t.Fatalf("expected NoDraw, got %v", got)
	}
}
