package search

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/gambit/board"
	"github.com/domino14/gambit/chess"
	"github.com/domino14/gambit/equity"
	"github.com/domino14/gambit/move"
	"github.com/domino14/gambit/zobrist"
)

// ErrNoLegalMoves is returned when the side to move has no legal move.
// Checkmate and stalemate are not told apart.
var ErrNoLegalMoves = errors.New("no legal moves")

type Stats struct {
	Nodes           int
	Leaves          int
	Deferrals       int
	MaxDepth        int
	UniquePositions int
	Elapsed         time.Duration
}

// Solver picks a move by exploring lines from a position until its ply
// budgets or deadlines run out. The tree is walked without recursion: every
// node is a Frame in an arena, and a single priority queue decides which
// frame runs next.
//
// A Solver runs one search at a time.
type Solver struct {
	opts      Options
	evaluator equity.Evaluator
	zobrist   *zobrist.Zobrist

	ctx      context.Context
	rootSide chess.Colour
	primary  time.Time
	extended time.Time
	expired  bool

	frames  arena
	queue   frameQueue
	seq     uint64
	seen    map[uint64]struct{}
	results []Evaluated

	stats Stats
}

func NewSolver(opts Options, evaluator equity.Evaluator) (*Solver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if evaluator == nil {
		evaluator = equity.NewMaterialEvaluator()
	}
	z := &zobrist.Zobrist{}
	z.Initialize()
	return &Solver{
		opts:      opts,
		evaluator: evaluator,
		zobrist:   z,
	}, nil
}

func (s *Solver) Options() Options {
	return s.opts
}

// Stats returns the statistics of the last search.
func (s *Solver) Stats() Stats {
	return s.stats
}

type outcome struct {
	best Evaluated
	err  error
}

// Solve searches b and returns the best line found. The first move of the
// line is the move to play. Running out of time is not an error; the
// search always resolves with whatever depth it reached. Cancelling ctx
// makes every remaining frame a leaf.
func (s *Solver) Solve(ctx context.Context, b board.Board) (Evaluated, error) {
	if len(b.PossibleMoves()) == 0 {
		return Evaluated{}, ErrNoLegalMoves
	}
	tstart := time.Now()
	s.start(ctx, b, tstart)
	log.Debug().
		Int("shallow-plies", s.opts.ShallowPlies).
		Int("deep-plies", s.opts.DeepPlies).
		Dur("time", s.opts.Time).
		Str("side", s.rootSide.String()).
		Msg("search-config")

	done := make(chan outcome, 1)
	go func() {
		s.run()
		if len(s.results) != 1 {
			done <- outcome{err: errors.New("search did not resolve its root")}
			return
		}
		done <- outcome{best: s.results[0]}
	}()
	res := <-done
	s.stats.Elapsed = time.Since(tstart)
	s.stats.UniquePositions = len(s.seen)
	s.seen = nil
	s.frames.reset()

	log.Info().
		Int("nodes", s.stats.Nodes).
		Int("leaves", s.stats.Leaves).
		Int("deferrals", s.stats.Deferrals).
		Int("max-depth", s.stats.MaxDepth).
		Int("unique-positions", s.stats.UniquePositions).
		Float64("time-elapsed-sec", s.stats.Elapsed.Seconds()).
		Str("line", res.best.String()).
		Msg("solve-returning")
	return res.best, res.err
}

// start resets the solver and seeds the queue with a root frame.
func (s *Solver) start(ctx context.Context, b board.Board, now time.Time) {
	s.ctx = ctx
	s.rootSide = b.Turn()
	s.primary, s.extended = s.opts.deadlines(now)
	s.expired = false
	s.frames.reset()
	s.queue = s.queue[:0]
	s.seq = 0
	s.seen = make(map[uint64]struct{})
	s.results = s.results[:0]
	s.stats = Stats{}

	id := s.frames.alloc()
	root := s.frames.get(id)
	root.board = b
	root.shallow = s.opts.ShallowPlies
	root.deep = s.opts.DeepPlies
	root.parent = rootParent
	root.score = s.evaluator.Evaluate(&b, s.rootSide)
	s.push(id)
}

func (s *Solver) push(id int) {
	f := s.frames.get(id)
	s.seq++
	s.queue.push(queueItem{
		id:          id,
		deferrals:   f.deferrals,
		plies:       len(f.lineage),
		shallowUsed: s.opts.ShallowPlies - f.shallow,
		score:       f.score,
		seq:         s.seq,
	})
}

// run drains the queue. It never blocks.
func (s *Solver) run() {
	for s.queue.Len() > 0 {
		item := s.queue.pop()
		f := s.frames.get(item.id)
		switch f.state {
		case unexpanded:
			s.visit(item.id, f)
		case waiting:
			s.resolve(item.id, f)
		}
	}
}

// timeUp reports whether f must stop at its deadline.
// Once the extended deadline or the context ends every later frame is
// answered without another clock read.
func (s *Solver) timeUp(f *Frame) bool {
	if s.expired {
		return true
	}
	if s.ctx != nil && s.ctx.Err() != nil {
		s.expired = true
		return true
	}
	now := time.Now()
	if !now.Before(s.extended) {
		s.expired = true
		return true
	}
	return !now.Before(s.primary) && !f.tactical
}

// visit expands f or turns it into a leaf.
func (s *Solver) visit(id int, f *Frame) {
	if len(f.lineage) > s.stats.MaxDepth {
		s.stats.MaxDepth = len(f.lineage)
	}
	isRoot := f.parent == rootParent

	// Past a deadline the frontier only drains: static score, no hashing
	// and no move generation.
	if !isRoot && s.timeUp(f) {
		s.leaf(id, f, f.score)
		return
	}
	s.seen[s.zobrist.Hash(&f.board)] = struct{}{}

	if !isRoot && (f.shallow <= 0 || f.deep <= 0) {
		score := f.score
		// A leaf in check may be mated; that is worth one more generation.
		if f.board.IsCheck(f.board.Turn()) && len(f.board.PossibleMoves()) == 0 {
			score = s.mateScore(f)
		}
		s.leaf(id, f, score)
		return
	}

	moves := f.board.PossibleMoves()
	if len(moves) == 0 {
		s.leaf(id, f, s.mateScore(f))
		return
	}
	s.stats.Nodes++

	parentCheck := f.board.IsCheck(chess.White) || f.board.IsCheck(chess.Black)
	f.state = waiting
	f.pending = len(moves)
	f.inbox = make([]Evaluated, 0, len(moves))

	for _, m := range moves {
		cid := s.frames.alloc()
		child := s.frames.get(cid)
		child.board = f.board.Branch(m)
		child.lineage = appendLineage(f.lineage, m)
		child.parent = id
		child.score = s.evaluator.Evaluate(&child.board, s.rootSide)

		// Captures, promotions and checks are deep plies.
		deep := parentCheck || child.score != f.score ||
			child.board.IsCheck(chess.White) || child.board.IsCheck(chess.Black)
		child.tactical = deep
		child.deep = f.deep - 1
		child.shallow = f.shallow
		if !deep {
			child.shallow--
		}
		s.push(cid)
	}
}

// mateScore scores a side to move with no legal moves.
func (s *Solver) mateScore(f *Frame) float64 {
	if f.board.Turn() == s.rootSide {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

func (s *Solver) leaf(id int, f *Frame, score float64) {
	s.stats.Leaves++
	s.report(id, f, Evaluated{Lineage: f.lineage, Score: score})
}

// report hands a result to the frame's parent and frees the frame. A parent
// whose last child just reported goes back on the queue.
func (s *Solver) report(id int, f *Frame, ev Evaluated) {
	parentID := f.parent
	s.frames.release(id)
	if parentID == rootParent {
		s.results = append(s.results, ev)
		return
	}
	p := s.frames.get(parentID)
	p.inbox = append(p.inbox, ev)
	p.pending--
	if p.pending == 0 {
		p.deferrals++
		s.stats.Deferrals++
		s.push(parentID)
	}
}

// resolve folds the children's results in arrival order and reports the
// best one upward.
func (s *Solver) resolve(id int, f *Frame) {
	maximizing := f.board.Turn() == s.rootSide
	atRoot := f.parent == rootParent
	for _, ev := range f.inbox {
		s.fold(f, ev, maximizing, atRoot)
	}
	f.inbox = nil
	if f.pending > 0 {
		return
	}
	best := f.best
	if atRoot && s.opts.TieBreak == TieBreakRandom && len(f.ties) > 1 {
		best = f.ties[frand.Intn(len(f.ties))]
	}
	s.report(id, f, best)
}

func (s *Solver) fold(f *Frame, ev Evaluated, maximizing, atRoot bool) {
	collectTies := atRoot && s.opts.TieBreak == TieBreakRandom
	if !f.hasBest {
		f.best = ev
		f.hasBest = true
		if collectTies {
			f.ties = append(f.ties[:0], ev)
		}
		return
	}
	better := ev.Score > f.best.Score
	if !maximizing {
		better = ev.Score < f.best.Score
	}
	switch {
	case better:
		f.best = ev
		if collectTies {
			f.ties = append(f.ties[:0], ev)
		}
	case collectTies && ev.Score == f.best.Score:
		f.ties = append(f.ties, ev)
	}
}

func appendLineage(lineage []move.Move, m move.Move) []move.Move {
	out := make([]move.Move, len(lineage)+1)
	copy(out, lineage)
	out[len(lineage)] = m
	return out
}
