package shell

import (
	"io"
	"sort"
	"strings"
)

var helpTopics = map[string]string{
	"position": `position [<fen> | startpos] [-moves "<move> ..."]
  With no argument, prints the current FEN. Otherwise sets up the position,
  optionally playing the given moves from it. Aliases: fen, new (startpos).`,
	"play": `play <move> [<move> ...]
  Plays moves in coordinate notation (e2e4, e7e8q) from the current position.`,
	"moves": `moves
  Lists the legal moves in the current position.`,
	"eval": `eval
  Shows the material balance for the side to move and whether it is in check,
  checkmated or stalemated.`,
	"search": `search [-time 2s] [-shallow n] [-deep n] [-fraction f] [-tiebreak first|random]
  Searches the current position and prints the best move, its line and
  search statistics. Options override the settings for this search only.`,
	"set": `set [<option> <value>]
  Shows or changes the search settings: time, shallow, deep, fraction,
  tiebreak.`,
	"puzzle": `puzzle load [path] | list | run | <n>
  Loads puzzle files, lists them, runs the search on all of them, or sets
  up puzzle n.`,
	"show": `show
  Shows the board.`,
}

func usage(w io.Writer) {
	topics := make([]string, 0, len(helpTopics))
	for t := range helpTopics {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	io.WriteString(w, "Commands: "+strings.Join(topics, ", ")+", help, exit\n")
	io.WriteString(w, "Type help <command> for details.\n")
}

func usageTopic(w io.Writer, topic string) {
	text, ok := helpTopics[topic]
	if !ok {
		io.WriteString(w, "There is no help text for the topic "+topic+"\n")
		return
	}
	io.WriteString(w, text+"\n")
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	if len(cmd.args) == 0 {
		usage(&sb)
	} else {
		usageTopic(&sb, cmd.args[0])
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}
