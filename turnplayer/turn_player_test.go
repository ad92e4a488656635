package turnplayer

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/gambit/board"
	"github.com/domino14/gambit/chess"
	"github.com/domino14/gambit/config"
	"github.com/domino14/gambit/fen"
	"github.com/domino14/gambit/game"
	"github.com/domino14/gambit/search"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

type memRecorder struct {
	decisions []*Decision
}

func (r *memRecorder) Record(ctx context.Context, d *Decision) error {
	r.decisions = append(r.decisions, d)
	return nil
}

func quickPlayer(t *testing.T) *TurnPlayer {
	t.Helper()
	p, err := NewTurnPlayerWithOptions(search.Options{
		ShallowPlies: 2, DeepPlies: 3, Time: 5 * time.Second, DeepFraction: 0.5,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDecideEndToEnd(t *testing.T) {
	is := is.New(t)
	b, err := fen.Parse("4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	is.NoErr(err)
	p := quickPlayer(t)
	rec := &memRecorder{}
	p.SetRecorder(rec)

	g := game.NewGame("g1", b, "", chess.White)
	d, err := p.Decide(context.Background(), g)
	is.NoErr(err)
	nb := b.Branch(d.Move)
	is.True(nb.Turn() == chess.Black)
	is.Equal(d.GameID, "g1")
	is.Equal(d.FEN, "4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	is.Equal(len(rec.decisions), 1)
	is.True(d.Stats.Nodes > 0)
}

func TestDecideAfterReplay(t *testing.T) {
	is := is.New(t)
	p := quickPlayer(t)
	g := game.NewGame("g2", board.StartingBoard(), "e2e4 e7e5", chess.White)
	m, err := p.BestMove(context.Background(), g)
	is.NoErr(err)
	b, _ := g.Position()
	legal := false
	for _, lm := range b.PossibleMoves() {
		legal = legal || lm == m
	}
	is.True(legal)
}

func TestDecideErrors(t *testing.T) {
	is := is.New(t)
	p := quickPlayer(t)

	g := game.NewGame("wrong", board.StartingBoard(), "e2e4", chess.White)
	_, err := p.Decide(context.Background(), g)
	is.True(errors.Is(err, game.ErrWrongSide))

	mate, _ := fen.Parse("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	_, err = p.Decide(context.Background(), game.NewGame("mated", mate, "", chess.White))
	is.True(errors.Is(err, search.ErrNoLegalMoves))

	stale, _ := fen.Parse("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	_, err = p.Decide(context.Background(), game.NewGame("stale", stale, "", chess.Black))
	is.True(errors.Is(err, search.ErrNoLegalMoves))
}

func TestBudgetFollowsClock(t *testing.T) {
	is := is.New(t)
	p := quickPlayer(t)
	g := game.NewGame("clock", board.StartingBoard(), "", chess.White)
	is.Equal(p.budgetFor(g).Time, 5*time.Second)
	g.TimeLeft = 60 * time.Second
	is.Equal(p.budgetFor(g).Time, 1500*time.Millisecond)
	g.TimeLeft = time.Second
	is.Equal(p.budgetFor(g).Time, 75*time.Millisecond)
	// Never more than half of what is left, less the reserve.
	g.TimeLeft = 100 * time.Millisecond
	is.Equal(p.budgetFor(g).Time, 50*time.Millisecond-50*time.Millisecond/drainReserve)
	g.TimeLeft = time.Microsecond
	is.Equal(p.budgetFor(g).Time, time.Millisecond)
}

func TestSearchOptionsFromConfig(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigTieBreak, "random")
	cfg.Set(config.ConfigDeepPlies, 6)
	opts, err := SearchOptions(cfg)
	is.NoErr(err)
	is.Equal(opts.TieBreak, search.TieBreakRandom)
	is.Equal(opts.DeepPlies, 6)
	is.Equal(opts.Time, 10*time.Second)

	cfg.Set(config.ConfigShallowPlies, 0)
	_, err = SearchOptions(cfg)
	is.True(errors.Is(err, search.ErrBadOptions))
}
