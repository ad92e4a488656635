package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/domino14/gambit/move"
)

var commandNames = []string{
	"position", "fen", "new", "play", "moves", "eval", "search", "show", "set",
	"puzzle", "help", "exit",
}

var (
	setOptions    = []string{"time", "shallow", "deep", "fraction", "tiebreak"}
	searchFlags   = []string{"-time", "-shallow", "-deep", "-fraction", "-tiebreak"}
	puzzleActions = []string{"load", "list", "run"}
	tieBreaks     = []string{"first", "random"}
)

// ShellCompleter implements readline.AutoCompleter.
type ShellCompleter struct {
	sc *ShellController
}

// Do completes commands, their options and, for play, the legal moves in
// the current position.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var last string
		if endsWithSpace {
			last = fields[len(fields)-1]
		} else if len(fields) > 1 {
			last = fields[len(fields)-2]
		}
		switch {
		case last == "-tiebreak" || (fields[0] == "set" && last == "tiebreak"):
			completions = tieBreaks
		case fields[0] == "play" || fields[0] == "p":
			completions = lo.Map(c.sc.board.PossibleMoves(), func(m move.Move, _ int) string {
				return m.String()
			})
		case fields[0] == "search" || fields[0] == "go":
			completions = searchFlags
		case fields[0] == "set" && len(fields) <= 2:
			completions = setOptions
		case fields[0] == "puzzle" && len(fields) <= 2:
			completions = puzzleActions
		case fields[0] == "help":
			completions = commandNames
		}
	}

	var out [][]rune
	for _, comp := range completions {
		if strings.HasPrefix(comp, prefix) {
			out = append(out, []rune(comp[len(prefix):]+" "))
		}
	}
	return out, len(prefix)
}
