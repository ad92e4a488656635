package move

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/gambit/chess"
)

var ErrMalformedMove = errors.New("malformed move token")

// Move is a proposed relocation of the piece on From to To. Promotion is
// only consulted when a pawn lands on its farthest rank; chess.NoKind means
// the default (queen).
type Move struct {
	From      chess.Position
	To        chess.Position
	Promotion chess.Kind
}

func New(from, to chess.Position) Move {
	return Move{From: from, To: to}
}

func NewPromotion(from, to chess.Position, kind chess.Kind) Move {
	return Move{From: from, To: to, Promotion: kind}
}

// String renders the move in coordinate notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != chess.NoKind {
		s += strings.ToLower(m.Promotion.String())
	}
	return s
}

// FromString parses a four or five character coordinate token.
func FromString(token string) (Move, error) {
	if len(token) != 4 && len(token) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrMalformedMove, token)
	}
	from, err := chess.ParsePosition(token[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrMalformedMove, token)
	}
	to, err := chess.ParsePosition(token[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrMalformedMove, token)
	}
	m := Move{From: from, To: to}
	if len(token) == 5 {
		kind, ok := chess.KindFromSymbol(token[4])
		if !ok || kind == chess.King || kind == chess.Pawn {
			return Move{}, fmt.Errorf("%w: bad promotion in %q", ErrMalformedMove, token)
		}
		m.Promotion = kind
	}
	return m, nil
}

// ParseMoves parses a space-separated list of tokens. An empty string is an
// empty list.
func ParseMoves(moves string) ([]Move, error) {
	tokens := strings.Fields(moves)
	out := make([]Move, 0, len(tokens))
	for _, tok := range tokens {
		m, err := FromString(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Join renders moves as a space-separated token list.
func Join(moves []Move) string {
	return strings.Join(lo.Map(moves, func(m Move, _ int) string {
		return m.String()
	}), " ")
}
