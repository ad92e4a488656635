package equity

import (
	"github.com/domino14/gambit/board"
	"github.com/domino14/gambit/chess"
)

// Evaluator is a static scorer of positions.
type Evaluator interface {
	// Evaluate scores the board from perspective's point of view: positive
	// is good for perspective. Implementations must not modify the board.
	Evaluate(b *board.Board, perspective chess.Colour) float64
}
