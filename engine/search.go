package engine

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Pekorus/Phoenix-Chess-Engine/board"
	"github.com/Pekorus/Phoenix-Chess-Engine/game"
	"github.com/Pekorus/Phoenix-Chess-Engine/piece"
	"github.com/Pekorus/Phoenix-Chess-Engine/rules"
)

// BudgetKind selects how Search.Run's resource bound is interpreted.
type BudgetKind int

const (
	Depth BudgetKind = iota
	Time
)

// SearchOptions configures one move request. It is a plain struct, not
// flags or environment variables — the teacher's own
// common.LimitsType/engine.Engine convention for search configuration.
type SearchOptions struct {
	SearchDepth      int
	QuietSearchDepth int
	TurnTimeMs       int64
	BudgetKind       BudgetKind
	CreatorMode      bool
}

// AnalyticsReport is published once per completed iteration of iterative
// deepening, per spec.md §6.
type AnalyticsReport struct {
	IterationDepth     int
	MaxDepthReached    int
	Nodes              int64
	QuiescenceNodes    int64
	PositionsEvaluated int64
	TTHits             int64
	TTFill             int
	BestValue          int
	FormattedValue     string
	PrincipalVariation []board.Move
}

// MateValue anchors the mate-scoring scheme: a position with |value| >=
// MateValue encodes a forced mate. A mated node scores -MateValue minus the
// search depth still remaining at that node, so mates found nearer the
// root score higher.
const MateValue = 100000

const (
	nullMoveReduction            = 3
	quietSearchCap               = 16
	maxSearchHeight              = 128
	quiescenceExplosionNodeFloor = 200000
)

// ErrNoTimeForFirstIteration is returned when cancellation fires before
// the first iteration (depth 2) of iterative deepening completes. Per
// spec.md §7, the host must treat this as "no move available in budget".
// It is also returned when the side to move has no legal move at all.
var ErrNoTimeForFirstIteration = errors.New("engine: cancelled before the first iteration completed")

// errSearchCancelled is the internal unwind signal, grounded on the
// teacher's own timemanager.go searchTimeout sentinel: the hot recursion
// panics with this value the first time it observes ctx.Err() != nil, and
// Run recovers it at the top, returning whatever was last committed. No
// cancellation error is threaded through the return values of the
// recursive kernel itself.
var errSearchCancelled = errors.New("engine: search cancelled")

// Search owns a TranspositionTable across the lifetime of however many
// move requests it serves; SearchOptions and the Game passed to Run are
// per-call.
type Search struct {
	tt *TranspositionTable
}

// NewSearch allocates a Search with a transposition table of the given
// entry capacity.
func NewSearch(ttCapacity int) *Search {
	return &Search{tt: NewTranspositionTable(ttCapacity)}
}

// Run performs iterative-deepening negamax search rooted at g's current
// position, honoring opts' depth or time budget and ctx's cancellation.
// A Time budget derives its own deadline via context.WithTimeout, the same
// pattern the teacher's timemanager.go uses to turn a turn-time allowance
// into a cancellation signal the recursion already knows how to obey —
// the caller's ctx still takes precedence if it is cancelled first.
// Run never mutates g net of the call (every Execute inside search is
// undone before returning, on every exit path including cancellation),
// and never returns a move illegal in g's current position (spec.md
// §4.5, §8 invariants 6–7).
func (s *Search) Run(ctx context.Context, g *game.Game, opts SearchOptions, analytics chan<- AnalyticsReport) (board.Move, int, error) {
	if opts.BudgetKind == Time && opts.TurnTimeMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(opts.TurnTimeMs)*time.Millisecond)
		defer cancel()
	}

	sr := &searchRun{
		search:    s,
		g:         g,
		ctx:       ctx,
		rootColor: g.SideToMove(),
		analytics: analytics,
	}
	return sr.iterate(opts)
}

type searchRun struct {
	search    *Search
	g         *game.Game
	ctx       context.Context
	rootColor piece.Color
	analytics chan<- AnalyticsReport

	killers   [maxSearchHeight][2]board.Move
	path      []uint64
	moveStack []board.Move

	nodes, qnodes, evaluated, ttHits int64

	recentQNodes, recentNodes [2]int64
}

func (sr *searchRun) checkCancel() {
	select {
	case <-sr.ctx.Done():
		panic(errSearchCancelled)
	default:
	}
}

func (sr *searchRun) iterate(opts SearchOptions) (board.Move, int, error) {
	defer sr.search.tt.Clear()

	if opts.CreatorMode && len(sr.g.MoveHistory()) == 0 {
		if m := creatorOpeningMove(sr.g); !m.IsEmpty() {
			return m, 0, nil
		}
	}

	legal := sr.g.LegalMoves()
	if len(legal) == 0 {
		return board.Empty, 0, ErrNoTimeForFirstIteration
	}

	var bestMove board.Move
	var bestValue int
	committed := false

	maxDepth := opts.SearchDepth
	if opts.BudgetKind == Time {
		maxDepth = maxSearchHeight
	}

	var recoverErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				if r == errSearchCancelled {
					for i := len(sr.moveStack) - 1; i >= 0; i-- {
						if m := sr.moveStack[i]; m.IsEmpty() {
							sr.g.Board.UndoNullMove()
						} else {
							sr.g.Board.Undo(m)
						}
					}
					sr.moveStack = sr.moveStack[:0]
					sr.path = sr.path[:0]
					recoverErr = nil
					return
				}
				panic(r)
			}
		}()

		for depth := 2; depth <= maxDepth; depth++ {
			sr.checkCancel()
			value := sr.searchRoot(depth, legal, &bestMove)
			bestValue = value
			committed = true

			if sr.analytics != nil {
				report := AnalyticsReport{
					IterationDepth:     depth,
					MaxDepthReached:    depth,
					Nodes:              sr.nodes,
					QuiescenceNodes:    sr.qnodes,
					PositionsEvaluated: sr.evaluated,
					TTHits:             sr.ttHits,
					TTFill:             sr.search.tt.FillPercent(),
					BestValue:          bestValue,
					FormattedValue:     formatValue(bestValue),
					PrincipalVariation: sr.reconstructPV(bestMove, depth),
				}
				select {
				case sr.analytics <- report:
				default:
				}
			}

			if abs(bestValue) >= MateValue {
				break
			}
			if opts.BudgetKind == Depth && sr.quiescenceExploding() {
				break
			}
			sr.rotateNodeHistory()
		}
	}()

	if !committed {
		return board.Empty, 0, ErrNoTimeForFirstIteration
	}
	return bestMove, bestValue, recoverErr
}

func (sr *searchRun) rotateNodeHistory() {
	sr.recentNodes[0] = sr.recentNodes[1]
	sr.recentQNodes[0] = sr.recentQNodes[1]
	sr.recentNodes[1] = sr.nodes
	sr.recentQNodes[1] = sr.qnodes
}

// quiescenceExploding implements spec.md §4.5's depth-budget heuristic:
// if the quiescence-to-regular node ratio recorded at the end of the
// previous iteration is at least 3 and the search has done substantial
// total work, stop one iteration short rather than let quiescence search
// runaway on the next depth. The source's analogous branch divides by the
// node count, which can be zero on the very first iterations; that
// division never happens here because the check returns false while the
// recorded regular node count is still zero.
func (sr *searchRun) quiescenceExploding() bool {
	regular := sr.recentNodes[1]
	if regular == 0 {
		return false
	}
	if sr.nodes <= quiescenceExplosionNodeFloor {
		return false
	}
	return sr.recentQNodes[1]/regular >= 3
}

func (sr *searchRun) searchRoot(depth int, legal []board.Move, bestMove *board.Move) int {
	b := sr.g.Board
	ordered := sr.orderMoves(legal, *bestMove, 0)

	alpha, beta := -MateValue*2, MateValue*2
	best := -MateValue * 2
	var winner board.Move

	for i, m := range ordered {
		sr.pushExecute(m)
		var value int
		if i == 0 {
			value = -sr.negamax(-beta, -alpha, depth-1, 1, true)
		} else {
			value = -sr.negamax(-alpha-1, -alpha, depth-1, 1, true)
			if value > alpha {
				value = -sr.negamax(-beta, -alpha, depth-1, 1, true)
			}
		}
		sr.popUndo(m)

		if value > best {
			best = value
			winner = m
			if best > alpha {
				alpha = best
			}
		}
	}

	*bestMove = winner
	sr.search.tt.Insert(TransEntry{Key: b.HashKey(), Value: best, Depth: depth, BestMove: winner, Bound: Exact})
	return best
}

func (sr *searchRun) pushExecute(m board.Move) {
	sr.g.Board.Execute(m)
	sr.path = append(sr.path, sr.g.Board.HashKey())
	sr.moveStack = append(sr.moveStack, m)
}

func (sr *searchRun) popUndo(m board.Move) {
	sr.path = sr.path[:len(sr.path)-1]
	sr.moveStack = sr.moveStack[:len(sr.moveStack)-1]
	sr.g.Board.Undo(m)
}

// negamax is the alpha-beta kernel described in spec.md §4.5, steps 1-10.
func (sr *searchRun) negamax(alpha, beta, depth, height int, allowNull bool) int {
	sr.checkCancel()
	b := sr.g.Board
	sideToMove := sr.colorAt(height)

	// Step 1: fast repetition short-circuit.
	if sr.fastRepetition(height) {
		return -50
	}

	// Step 2: TT probe.
	key := b.HashKey()
	var ttMove board.Move
	if entry, ok := sr.search.tt.Probe(key); ok {
		sr.ttHits++
		ttMove = entry.BestMove
		if entry.Depth >= depth {
			switch entry.Bound {
			case Exact:
				return entry.Value
			case LowerBound:
				if entry.Value >= beta {
					return entry.Value
				}
			case UpperBound:
				if entry.Value <= alpha {
					return entry.Value
				}
			}
		}
	}

	// Step 3: delegate to quiescence at the horizon.
	if depth <= 0 {
		return sr.quiesce(alpha, beta, depth, height)
	}

	sr.nodes++
	inCheck := rules.IsCheck(b, sideToMove)

	// Step 4: null-move pruning.
	if allowNull && !inCheck && height > 0 {
		b.ExecuteNullMove()
		sr.path = append(sr.path, b.HashKey())
		sr.moveStack = append(sr.moveStack, board.Empty)
		score := -sr.negamax(-beta, -beta+1, depth-nullMoveReduction-1, height+1, false)
		sr.path = sr.path[:len(sr.path)-1]
		sr.moveStack = sr.moveStack[:len(sr.moveStack)-1]
		b.UndoNullMove()
		if score >= beta {
			return score
		}
	}

	// Step 5: generate children.
	last := sr.lastMoveAt(height)
	moves := rules.LegalMovesForSide(b, sideToMove, last)
	if len(moves) == 0 {
		if inCheck {
			return -MateValue - depth
		}
		return 0
	}

	// Step 6: order children.
	ordered := sr.orderMoves(moves, ttMove, height)

	bestValue := -MateValue * 2
	var bestMove board.Move
	raisedAlpha := false

	for i, m := range ordered {
		sr.pushExecute(m)

		var value int
		if i == 0 {
			value = -sr.negamax(-beta, -alpha, depth-1, height+1, true)
		} else {
			value = -sr.negamax(-alpha-1, -alpha, depth-1, height+1, true)
			if value > alpha && value < beta {
				value = -sr.negamax(-beta, -alpha, depth-1, height+1, true)
			}
		}

		sr.popUndo(m)

		if value > bestValue {
			bestValue = value
			bestMove = m
		}
		if value > alpha {
			alpha = value
			raisedAlpha = true
		}
		if alpha >= beta {
			if !m.IsCapture() {
				sr.storeKiller(height, m)
			}
			break
		}
	}

	bound := LowerBound
	if alpha >= beta {
		bound = LowerBound
	} else if raisedAlpha {
		bound = Exact
	} else {
		bound = UpperBound
	}
	sr.search.tt.Insert(TransEntry{Key: key, Value: bestValue, Depth: depth, BestMove: bestMove, Bound: bound})

	return bestValue
}

// quiesce is the quiescence extension described in spec.md §4.5: it
// searches captures and promotions only, or every legal move when the side
// to move is in check.
func (sr *searchRun) quiesce(alpha, beta, depth, height int) int {
	sr.checkCancel()
	sr.qnodes++

	b := sr.g.Board
	sideToMove := sr.colorAt(height)
	inCheck := rules.IsCheck(b, sideToMove)

	var standPat int
	if !inCheck {
		sr.evaluated++
		standPat = Evaluate(b, sideToMove)
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	if abs(depth) >= quietSearchCap {
		return alpha
	}

	last := sr.lastMoveAt(height)
	var candidates []board.Move
	if inCheck {
		candidates = rules.LegalMovesForSide(b, sideToMove, last)
	} else {
		candidates = capturesOnly(rules.LegalMovesForSide(b, sideToMove, last))
	}

	if len(candidates) == 0 {
		if inCheck {
			return -MateValue - depth
		}
		return alpha
	}

	ordered := sr.orderCaptures(candidates)
	explored := 0
	for _, m := range ordered {
		sr.pushExecute(m)
		score := -sr.quiesce(-beta, -alpha, depth-1, height+1)
		sr.popUndo(m)
		explored++

		if score > alpha {
			alpha = score
			if score >= beta {
				return beta
			}
		}
	}
	if explored == 0 {
		return standPat
	}
	return alpha
}

func (sr *searchRun) colorAt(height int) piece.Color {
	if height%2 == 0 {
		return sr.rootColor
	}
	return sr.rootColor.Opposite()
}

// lastMoveAt returns the move that was played to reach the node at height
// — needed by rules.LegalMovesForSide to decide en-passant eligibility at
// every depth of the recursion, not just the root.
func (sr *searchRun) lastMoveAt(height int) board.Move {
	if height == 0 {
		return sr.g.LastMove()
	}
	return sr.moveStack[height-1]
}

// fastRepetition implements spec.md §4.5 step 1 and §9's explicit warning
// that this is a weak heuristic over the in-flight recursion stack, not
// the authoritative repetition check: it asks only whether the current
// key has been visited earlier *during this search*, at least two plies
// back, never consulting game.Game's played-position history (that full
// check belongs to rules.IsDraw at Game.Outcome time).
func (sr *searchRun) fastRepetition(height int) bool {
	if len(sr.path) < 3 {
		return false
	}
	current := sr.path[len(sr.path)-1]
	for i := len(sr.path) - 3; i >= 0; i -= 2 {
		if sr.path[i] == current {
			return true
		}
	}
	return false
}

func (sr *searchRun) storeKiller(height int, m board.Move) {
	if height >= maxSearchHeight {
		return
	}
	if sr.killers[height][0] == m {
		return
	}
	sr.killers[height][1] = sr.killers[height][0]
	sr.killers[height][0] = m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func formatValue(v int) string {
	if v >= MateValue {
		return "mate in " + strconv.Itoa(MateValue*2-v)
	}
	if v <= -MateValue {
		return "mate in -" + strconv.Itoa(v+MateValue*2)
	}
	return strconv.Itoa(v)
}

func capturesOnly(moves []board.Move) []board.Move {
	out := moves[:0]
	for _, m := range moves {
		if m.IsCapture() || m.IsPromotion() {
			out = append(out, m)
		}
	}
	return out
}

// creatorOpeningMove is spec.md §4.5's optional creator-mode shortcut: on
// the very first move of a fresh-start game, return a fixed opening push
// instead of searching. It never bypasses legality — if the push is not
// legal in the given position (a custom start), the caller falls through
// to the real search.
func creatorOpeningMove(g *game.Game) board.Move {
	for _, m := range g.LegalMoves() {
		if m.PieceKind == piece.Pawn && m.From.Rank == 1 && m.From.File == 4 && m.To.Rank == 3 {
			return m
		}
	}
	return board.Empty
}
