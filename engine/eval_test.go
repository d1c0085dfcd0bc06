package engine

import (
	"testing"

	"github.com/Pekorus/Phoenix-Chess-Engine/board"
	"github.com/Pekorus/Phoenix-Chess-Engine/piece"
)

func TestEvaluateSymmetricStartingPosition(t *testing.T) {
	b := board.NewStandard()
	if got := Evaluate(b, piece.White); got != 0 {
		t.Fatalf("expected a symmetric starting position to evaluate to 0, got %d", got)
	}
}

func TestEvaluateSignFlipsAcrossColors(t *testing.T) {
	var grid [8][8]piece.Piece
	grid[0][4] = piece.Piece{Kind: piece.King, Color: piece.White}
	grid[7][4] = piece.Piece{Kind: piece.King, Color: piece.Black}
	grid[3][3] = piece.Piece{Kind: piece.Rook, Color: piece.White}
	b, err := board.NewFromPosition(grid, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}
	white := Evaluate(b, piece.White)
	black := Evaluate(b, piece.Black)
	if white != -black {
		t.Fatalf("expected Evaluate(White) == -Evaluate(Black), got %d and %d", white, black)
	}
	if white <= 0 {
		t.Fatalf("White should be favored with an extra rook, got %d", white)
	}
}

func TestBishopPairBonusApplies(t *testing.T) {
	var grid [8][8]piece.Piece
	grid[0][4] = piece.Piece{Kind: piece.King, Color: piece.White}
	grid[7][4] = piece.Piece{Kind: piece.King, Color: piece.Black}
	grid[0][2] = piece.Piece{Kind: piece.Bishop, Color: piece.White}
	grid[0][5] = piece.Piece{Kind: piece.Bishop, Color: piece.White}
	withPair, err := board.NewFromPosition(grid, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}

	grid[0][5] = piece.Empty
	onePiece, err := board.NewFromPosition(grid, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}

	withPairScore := Evaluate(withPair, piece.White)
	onePieceScore := Evaluate(onePiece, piece.White)
	diff := withPairScore - onePieceScore
	if diff <= piece.Bishop.Value() {
		t.Fatalf("expected the second bishop to add more than its bare material value via the pair bonus, got delta %d", diff)
	}
}

func TestDoubledPawnPenalized(t *testing.T) {
	var gridClean [8][8]piece.Piece
	gridClean[0][4] = piece.Piece{Kind: piece.King, Color: piece.White}
	gridClean[7][4] = piece.Piece{Kind: piece.King, Color: piece.Black}
	gridClean[1][0] = piece.Piece{Kind: piece.Pawn, Color: piece.White}
	clean, err := board.NewFromPosition(gridClean, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}

	gridDoubled := gridClean
	gridDoubled[2][0] = piece.Piece{Kind: piece.Pawn, Color: piece.White}
	doubled, err := board.NewFromPosition(gridDoubled, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}

	cleanScore := Evaluate(clean, piece.White)
	doubledScore := Evaluate(doubled, piece.White)
	diff := doubledScore - cleanScore
	if diff >= piece.Pawn.Value() {
		t.Fatalf("expected the doubled pawn to add less than its bare material value, got delta %d", diff)
	}
}

func TestStageOfSwitchesOnQueenPresence(t *testing.T) {
	var grid [8][8]piece.Piece
	grid[0][4] = piece.Piece{Kind: piece.King, Color: piece.White}
	grid[7][4] = piece.Piece{Kind: piece.King, Color: piece.Black}
	grid[7][3] = piece.Piece{Kind: piece.Queen, Color: piece.Black}
	b, err := board.NewFromPosition(grid, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}
	if StageOf(b, piece.Black) != Middlegame {
		t.Fatal("expected Middlegame while the opponent holds a queen")
	}

	grid[7][3] = piece.Empty
	b2, err := board.NewFromPosition(grid, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}
	if StageOf(b2, piece.Black) != Endgame {
		t.Fatal("expected Endgame once the opponent's queen is gone")
	}
}
