// Command perft exercises rules.LegalMovesForSide by counting leaf nodes
// of the standard starting position to a fixed depth, the same
// correctness check spec.md §8 describes as its headline move-generation
// test, run here as its own binary rather than folded into go test.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/Pekorus/Phoenix-Chess-Engine/board"
	"github.com/Pekorus/Phoenix-Chess-Engine/piece"
	"github.com/Pekorus/Phoenix-Chess-Engine/rules"
)

// expected holds the known-correct leaf counts from the standard starting
// position at depths 1 through 6 (spec.md §8).
var expected = []uint64{20, 400, 8902, 197281, 4865609, 119060324}

func main() {
	depth := flag.Int("depth", 5, "perft depth from the standard starting position")
	divide := flag.Bool("divide", false, "print per-root-move leaf counts")
	flag.Parse()

	if *depth < 1 {
		log.Fatal("depth must be >= 1")
	}

	b := board.NewStandard()

	if *divide {
		runDivide(b, *depth)
		return
	}

	start := time.Now()
	nodes := perft(b, piece.White, board.Empty, *depth)
	elapsed := time.Since(start)

	log.Printf("depth %d: %d nodes in %s", *depth, nodes, elapsed)
	if *depth <= len(expected) {
		if want := expected[*depth-1]; nodes != want {
			log.Fatalf("mismatch at depth %d: got %d, want %d", *depth, nodes, want)
		}
		log.Printf("depth %d matches the known-correct count", *depth)
	}
}

func runDivide(b *board.Board, depth int) {
	moves := rules.LegalMovesForSide(b, piece.White, board.Empty)
	var total uint64
	for _, m := range moves {
		b.Execute(m)
		nodes := perft(b, piece.Black, m, depth-1)
		b.Undo(m)
		total += nodes
		log.Printf("%s: %d", m, nodes)
	}
	log.Printf("total: %d", total)
}

// perft counts leaf nodes at exactly depth plies below b's current
// position, threading the last move played so rules.LegalMovesForSide can
// resolve en passant at every depth, not only the root.
func perft(b *board.Board, sideToMove piece.Color, lastMove board.Move, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := rules.LegalMovesForSide(b, sideToMove, lastMove)
	var nodes uint64
	for _, m := range moves {
		b.Execute(m)
		nodes += perft(b, sideToMove.Opposite(), m, depth-1)
		b.Undo(m)
	}
	return nodes
}
