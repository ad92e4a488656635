package search

import (
	"context"
	"errors"
	"math"
	"os"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/domino14/gambit/board"
	"github.com/domino14/gambit/chess"
	"github.com/domino14/gambit/equity"
	"github.com/domino14/gambit/fen"
	"github.com/domino14/gambit/move"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func setUpSolver(t *testing.T, shallow, deep int, d time.Duration) *Solver {
	t.Helper()
	s, err := NewSolver(Options{
		ShallowPlies: shallow,
		DeepPlies:    deep,
		Time:         d,
		DeepFraction: 0.5,
	}, equity.NewMaterialEvaluator())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mustParse(t *testing.T, f string) board.Board {
	t.Helper()
	b, err := fen.Parse(f)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestMinimalBudgetsResolveOnce(t *testing.T) {
	is := is.New(t)
	for _, f := range []string{
		fen.StartPos,
		"4k3/8/8/8/8/8/8/4K2R w K - 0 1",
		"r3k2r/pppq1ppp/2n2n2/3pp3/1b1PP1b1/2N2N2/PPPQ1PPP/R3K2R b KQkq - 4 9",
	} {
		b := mustParse(t, f)
		s := setUpSolver(t, 1, 1, 10*time.Second)
		s.start(context.Background(), b, time.Now())
		s.run()
		is.Equal(len(s.results), 1)
		is.Equal(len(s.results[0].Lineage), 1)
		is.Equal(s.stats.Nodes, 1)
		is.Equal(s.stats.Leaves, len(b.PossibleMoves()))
		is.Equal(s.frames.live, 0)
		is.Equal(s.queue.Len(), 0)
	}
}

func TestSolveFindsMateInOne(t *testing.T) {
	is := is.New(t)
	b := mustParse(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	s := setUpSolver(t, 1, 2, 10*time.Second)
	best, err := s.Solve(context.Background(), b)
	is.NoErr(err)
	m, ok := best.Move()
	is.True(ok)
	is.Equal(m.String(), "a1a8")
	is.True(math.IsInf(best.Score, 1))
}

func TestSolveAvoidsMate(t *testing.T) {
	is := is.New(t)
	// Black to move. ...Kh8 walks into Ra8 mate; everything else escapes.
	b := mustParse(t, "6k1/5ppp/8/8/8/8/8/R5K1 b - - 0 1")
	s := setUpSolver(t, 2, 3, 10*time.Second)
	best, err := s.Solve(context.Background(), b)
	is.NoErr(err)
	is.True(!math.IsInf(best.Score, -1))
}

func rookHangs(b board.Board, m move.Move) bool {
	nb := b.Branch(m)
	for _, r := range nb.PossibleMoves() {
		if p, ok := nb.Get(r.To); ok && p.Kind == chess.Rook {
			return true
		}
	}
	return false
}

func TestSolveKeepsTheRook(t *testing.T) {
	is := is.New(t)
	for _, f := range []string{
		"4k3/8/8/8/8/8/8/4K2R w K - 0 1",
		"8/8/8/3k4/8/8/8/2R1K3 w - - 0 1",
	} {
		b := mustParse(t, f)
		s := setUpSolver(t, 2, 4, 10*time.Second)
		best, err := s.Solve(context.Background(), b)
		is.NoErr(err)
		m, ok := best.Move()
		is.True(ok)
		is.True(!rookHangs(b, m))
		is.True(best.Score >= 5)
	}
	b := mustParse(t, "4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	is.True(lo.ContainsBy(b.PossibleMoves(), func(m move.Move) bool {
		return m.String() == "e1g1"
	}))
}

func TestNoLegalMoves(t *testing.T) {
	is := is.New(t)
	for _, f := range []string{
		// checkmate
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
		// stalemate
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
	} {
		s := setUpSolver(t, 2, 4, time.Second)
		_, err := s.Solve(context.Background(), mustParse(t, f))
		is.True(errors.Is(err, ErrNoLegalMoves))
	}
}

func TestTieBreakFirst(t *testing.T) {
	is := is.New(t)
	b := mustParse(t, "k7/8/8/8/8/8/8/K7 w - - 0 1")
	first := b.PossibleMoves()[0]
	for i := 0; i < 5; i++ {
		s := setUpSolver(t, 1, 1, 10*time.Second)
		best, err := s.Solve(context.Background(), b)
		is.NoErr(err)
		m, _ := best.Move()
		is.Equal(m, first)
		is.Equal(best.Score, 0.0)
	}
}

func TestTieBreakRandom(t *testing.T) {
	is := is.New(t)
	b := mustParse(t, "k7/8/8/8/8/8/8/K7 w - - 0 1")
	legal := b.PossibleMoves()
	opts := Options{ShallowPlies: 1, DeepPlies: 1, Time: 10 * time.Second, TieBreak: TieBreakRandom}
	s, err := NewSolver(opts, nil)
	is.NoErr(err)
	picked := map[string]bool{}
	for i := 0; i < 60; i++ {
		best, err := s.Solve(context.Background(), b)
		is.NoErr(err)
		m, _ := best.Move()
		is.True(lo.Contains(legal, m))
		picked[m.String()] = true
	}
	is.True(len(picked) > 1)
}

func TestDeadlinesForceLeaves(t *testing.T) {
	is := is.New(t)
	b := board.StartingBoard()

	s := setUpSolver(t, 4, 8, time.Nanosecond)
	best, err := s.Solve(context.Background(), b)
	is.NoErr(err)
	is.Equal(len(best.Lineage), 1)
	is.Equal(s.Stats().Nodes, 1)
	is.Equal(s.Stats().Leaves, 20)
	// Leaves cut by the clock are not hashed; only the root is.
	is.Equal(s.Stats().UniquePositions, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s = setUpSolver(t, 4, 8, time.Hour)
	best, err = s.Solve(ctx, b)
	is.NoErr(err)
	is.Equal(len(best.Lineage), 1)
	is.Equal(s.Stats().Nodes, 1)
}

func TestTacticalLinesOutliveThePrimaryDeadline(t *testing.T) {
	is := is.New(t)
	b := mustParse(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	// A deep fraction of 1 puts the primary deadline at the start.
	s, err := NewSolver(Options{
		ShallowPlies: 2,
		DeepPlies:    5,
		Time:         time.Hour,
		DeepFraction: 1,
	}, equity.NewMaterialEvaluator())
	is.NoErr(err)

	best, err := s.Solve(context.Background(), b)
	is.NoErr(err)
	m, ok := best.Move()
	is.True(ok)
	is.Equal(m.String(), "e4d5")

	st := s.Stats()
	// The root and the capture are expanded.
	is.Equal(st.Nodes, 2)
	is.Equal(st.MaxDepth, 2)
	// Six quiet root moves plus five king replies to the capture.
	is.Equal(st.Leaves, 11)
	is.Equal(st.UniquePositions, 2)
}

func TestTimeUpSparesTacticalFrames(t *testing.T) {
	is := is.New(t)
	s := setUpSolver(t, 4, 8, time.Hour)
	s.primary = time.Now().Add(-time.Second)
	s.extended = time.Now().Add(time.Hour)

	is.True(s.timeUp(&Frame{}))
	is.True(!s.timeUp(&Frame{tactical: true}))
	is.True(!s.expired)

	s.extended = time.Now().Add(-time.Millisecond)
	is.True(s.timeUp(&Frame{tactical: true}))
	is.True(s.expired)
	// Stays expired without reading the clock again.
	s.extended = time.Now().Add(time.Hour)
	is.True(s.timeUp(&Frame{tactical: true}))
}

func TestDeepPliesKeepShallowBudget(t *testing.T) {
	is := is.New(t)
	b := mustParse(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	s := setUpSolver(t, 1, 3, 10*time.Second)
	s.start(context.Background(), b, time.Now())
	item := s.queue.pop()
	s.visit(item.id, s.frames.get(item.id))

	children := map[string]*Frame{}
	for _, f := range s.frames.frames {
		if len(f.lineage) == 1 {
			children[f.lineage[0].String()] = f
		}
	}
	capture := children["e4d5"]
	is.True(capture != nil)
	is.True(capture.tactical)
	is.Equal(capture.shallow, 1)
	is.Equal(capture.deep, 2)

	quiet := children["e4e5"]
	is.True(quiet != nil)
	is.True(!quiet.tactical)
	is.Equal(quiet.shallow, 0)
	is.Equal(quiet.deep, 2)
}

func TestFoldMinimizesForOpponent(t *testing.T) {
	is := is.New(t)
	s := setUpSolver(t, 2, 2, time.Second)
	s.rootSide = chess.White
	f := &Frame{board: mustParse(t, "4k3/8/8/8/8/8/8/4K3 b - - 0 1")}
	for _, sc := range []float64{2, -1, 5, -1} {
		s.fold(f, Evaluated{Score: sc}, f.board.Turn() == s.rootSide, false)
	}
	is.Equal(f.best.Score, -1.0)
}

func TestBadOptions(t *testing.T) {
	is := is.New(t)
	for _, o := range []Options{
		{ShallowPlies: 0, DeepPlies: 1, Time: time.Second},
		{ShallowPlies: 1, DeepPlies: 1, Time: 0},
		{ShallowPlies: 1, DeepPlies: 1, Time: time.Second, DeepFraction: 1.5},
	} {
		_, err := NewSolver(o, nil)
		is.True(errors.Is(err, ErrBadOptions))
	}
	_, err := ParseTieBreak("coinflip")
	is.True(errors.Is(err, ErrBadOptions))
	tb, err := ParseTieBreak("random")
	is.NoErr(err)
	is.Equal(tb, TieBreakRandom)
}
