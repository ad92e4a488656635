package equity

import (
	"github.com/domino14/gambit/board"
	"github.com/domino14/gambit/chess"
)

var pieceValues = [...]float64{
	chess.NoKind: 0,
	chess.King:   0,
	chess.Queen:  9,
	chess.Rook:   5,
	chess.Bishop: 3,
	chess.Knight: 3,
	chess.Pawn:   1,
}

// PieceValue is the material value of a kind in pawns.
func PieceValue(k chess.Kind) float64 {
	if int(k) >= len(pieceValues) {
		return 0
	}
	return pieceValues[k]
}

// MaterialEvaluator counts material. It is stateless.
type MaterialEvaluator struct{}

func NewMaterialEvaluator() *MaterialEvaluator {
	return &MaterialEvaluator{}
}

func (m *MaterialEvaluator) Evaluate(b *board.Board, perspective chess.Colour) float64 {
	total := 0.0
	b.Pieces(func(_ chess.Position, p chess.Piece) {
		if p.Colour == perspective {
			total += PieceValue(p.Kind)
		} else {
			total -= PieceValue(p.Kind)
		}
	})
	return total
}
