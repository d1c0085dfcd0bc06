package engine

import (
	"testing"

	"github.com/Pekorus/Phoenix-Chess-Engine/board"
	"github.com/Pekorus/Phoenix-Chess-Engine/game"
	"github.com/Pekorus/Phoenix-Chess-Engine/piece"
)

func TestOrderMovesPutsTTMoveFirst(t *testing.T) {
	var grid [8][8]piece.Piece
	grid[0][4] = piece.Piece{Kind: piece.King, Color: piece.White}
	grid[7][4] = piece.Piece{Kind: piece.King, Color: piece.Black}
	grid[3][3] = piece.Piece{Kind: piece.Rook, Color: piece.White}
	g, err := game.NewFromPosition(grid, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}

	sr := &searchRun{search: &Search{tt: NewTranspositionTable(16)}, g: g, rootColor: piece.White}
	moves := g.LegalMoves()
	ttMove := moves[len(moves)-1]

	ordered := sr.orderMoves(moves, ttMove, 0)
	if ordered[0] != ttMove {
		t.Fatalf("expected the TT move %v to sort first, got %v", ttMove, ordered[0])
	}
	if len(ordered) != len(moves) {
		t.Fatalf("expected orderMoves to preserve the move count, got %d want %d", len(ordered), len(moves))
	}
}

func TestOrderMovesRanksCapturesByMVVLVA(t *testing.T) {
	var grid [8][8]piece.Piece
	grid[0][4] = piece.Piece{Kind: piece.King, Color: piece.White}
	grid[7][4] = piece.Piece{Kind: piece.King, Color: piece.Black}
	grid[3][3] = piece.Piece{Kind: piece.Queen, Color: piece.White}
	grid[3][4] = piece.Piece{Kind: piece.Pawn, Color: piece.Black}
	grid[4][3] = piece.Piece{Kind: piece.Queen, Color: piece.Black}
	g, err := game.NewFromPosition(grid, piece.White, [4]bool{})
	if err != nil {
		t.Fatal(err)
	}

	sr := &searchRun{search: &Search{tt: NewTranspositionTable(16)}, g: g, rootColor: piece.White}
	moves := g.LegalMoves()
	ordered := sr.orderMoves(moves, board.Empty, 0)

	captureOfPawn := board.Move{Kind: board.Capture, PieceKind: piece.Queen, From: sq(3, 3), To: sq(3, 4)}
	captureOfQueen := board.Move{Kind: board.Capture, PieceKind: piece.Queen, From: sq(3, 3), To: sq(4, 3)}

	posPawn, posQueen := -1, -1
	for i, m := range ordered {
		if m == captureOfPawn {
			posPawn = i
		}
		if m == captureOfQueen {
			posQueen = i
		}
	}
	if posPawn < 0 || posQueen < 0 {
		t.Fatalf("expected both captures to be generated, got %v", ordered)
	}
	if posQueen > posPawn {
		t.Fatalf("expected the queen capture to rank ahead of the pawn capture, got order %v", ordered)
	}
}

func TestReconstructPVLeavesBoardUnchanged(t *testing.T) {
	g := game.NewStandard()
	sr := &searchRun{search: &Search{tt: NewTranspositionTable(1024)}, g: g, rootColor: piece.White}

	e4 := board.Move{Kind: board.Normal, PieceKind: piece.Pawn, From: sq(1, 4), To: sq(3, 4)}
	before := g.Board.HashKey()

	pv := sr.reconstructPV(e4, 4)
	if len(pv) == 0 || pv[0] != e4 {
		t.Fatalf("expected the PV to start with %v, got %v", e4, pv)
	}
	if g.Board.HashKey() != before {
		t.Fatal("reconstructPV must not leave the board mutated net of the call")
	}
}

func TestReconstructPVOnEmptyMoveReturnsNil(t *testing.T) {
	g := game.NewStandard()
	sr := &searchRun{search: &Search{tt: NewTranspositionTable(16)}, g: g, rootColor: piece.White}
	if pv := sr.reconstructPV(board.Empty, 4); pv != nil {
		t.Fatalf("expected a nil PV for an empty best move, got %v", pv)
	}
}
