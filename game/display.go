package game

import (
	"fmt"
	"strings"

	"github.com/domino14/gambit/fen"
)

// ToDisplayText shows the replayed board and the move list.
func (g *Game) ToDisplayText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "game %s, playing %s\n", g.ID, g.MySide)
	b, err := g.Replay()
	if err != nil {
		fmt.Fprintf(&sb, "cannot replay: %v\n", err)
		return sb.String()
	}
	sb.WriteString(b.ToDisplayText())
	sb.WriteString("fen: " + fen.String(&b) + "\n")
	if g.MovesPlayed != "" {
		sb.WriteString("moves: " + g.MovesPlayed + "\n")
	}
	if g.TimeLeft > 0 {
		fmt.Fprintf(&sb, "time left: %v\n", g.TimeLeft)
	}
	return sb.String()
}
