package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Pekorus/Phoenix-Chess-Engine/board"
	"github.com/Pekorus/Phoenix-Chess-Engine/game"
)

// HumanPlayer satisfies game.Player by relaying moves fed in from outside
// the package (a UI, a test harness) over a channel.
type HumanPlayer struct {
	name  string
	moves <-chan board.Move
}

// NewHumanPlayer wraps moves, a channel the caller feeds as the human picks
// them. Closing moves is equivalent to the human resigning: RequestMove
// reports false from that point on.
func NewHumanPlayer(name string, moves <-chan board.Move) *HumanPlayer {
	return &HumanPlayer{name: name, moves: moves}
}

func (h *HumanPlayer) RequestMove(ctx context.Context, g *game.Game) (board.Move, bool) {
	select {
	case <-ctx.Done():
		return board.Empty, false
	case m, ok := <-h.moves:
		if !ok {
			return board.Empty, false
		}
		return m, true
	}
}

func (h *HumanPlayer) OnMovePlayed(board.Move) {}
func (h *HumanPlayer) OnGameEnd(game.Result)   {}
func (h *HumanPlayer) Name() string            { return h.name }

// EnginePlayer satisfies game.Player by wrapping a Search. RequestMove
// runs the search as a single cancellable background task coordinated
// through errgroup, grounded on the teacher's own cmd/opengen and
// cmd/fengen tools' fan-out-one-worker-against-a-context pattern — the
// one concurrency seam spec.md §5 allows.
type EnginePlayer struct {
	name      string
	search    *Search
	opts      SearchOptions
	analytics chan<- AnalyticsReport
}

// NewEnginePlayer builds an EnginePlayer. analytics may be nil if the
// caller has no interest in per-iteration reports.
func NewEnginePlayer(name string, search *Search, opts SearchOptions, analytics chan<- AnalyticsReport) *EnginePlayer {
	return &EnginePlayer{name: name, search: search, opts: opts, analytics: analytics}
}

func (p *EnginePlayer) RequestMove(ctx context.Context, g *game.Game) (board.Move, bool) {
	grp, gctx := errgroup.WithContext(ctx)

	var move board.Move
	grp.Go(func() error {
		m, _, err := p.search.Run(gctx, g, p.opts, p.analytics)
		move = m
		return err
	})

	if err := grp.Wait(); err != nil {
		return board.Empty, false
	}
	return move, true
}

func (p *EnginePlayer) OnMovePlayed(board.Move) {}
func (p *EnginePlayer) OnGameEnd(game.Result)   {}
func (p *EnginePlayer) Name() string            { return p.name }
