package search

import (
	"fmt"
	"strings"

	"github.com/domino14/gambit/board"
	"github.com/domino14/gambit/move"
)

// rootParent marks the root frame, whose result goes to the caller.
const rootParent = -1

type frameState uint8

const (
	unexpanded frameState = iota
	waiting
)

// Evaluated is a scored line: the moves from the root and the
// root-perspective score at its end.
type Evaluated struct {
	Lineage []move.Move
	Score   float64
}

// Move is the first move of the line.
func (e Evaluated) Move() (move.Move, bool) {
	if len(e.Lineage) == 0 {
		return move.Move{}, false
	}
	return e.Lineage[0], true
}

func (e Evaluated) String() string {
	return fmt.Sprintf("%s (%v)", move.Join(e.Lineage), e.Score)
}

// Frame is one node of the search tree. Frames live in the solver's arena
// and refer to their parent by id; a child reports by writing into the
// parent's inbox.
type Frame struct {
	board   board.Board
	lineage []move.Move

	// Remaining ply budgets.
	shallow int
	deep    int
	// tactical is set when the ply into this frame was a deep ply.
	tactical bool
	// score is the static root-perspective evaluation of board.
	score float64

	parent    int
	state     frameState
	pending   int
	inbox     []Evaluated
	best      Evaluated
	hasBest   bool
	ties      []Evaluated
	deferrals int
}

func (f *Frame) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "frame[%s] shallow=%d deep=%d pending=%d deferrals=%d",
		move.Join(f.lineage), f.shallow, f.deep, f.pending, f.deferrals)
	return sb.String()
}

// arena owns every live frame of one search. Released ids are reused.
type arena struct {
	frames []*Frame
	free   []int
	live   int
}

func (a *arena) alloc() int {
	a.live++
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		return id
	}
	a.frames = append(a.frames, &Frame{})
	return len(a.frames) - 1
}

func (a *arena) get(id int) *Frame {
	return a.frames[id]
}

func (a *arena) release(id int) {
	*a.frames[id] = Frame{}
	a.free = append(a.free, id)
	a.live--
}

func (a *arena) reset() {
	a.frames = a.frames[:0]
	a.free = a.free[:0]
	a.live = 0
}
