// Package puzzles reads chess puzzles (a position and its accepted answers)
// and checks the engine against them.
package puzzles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/gambit/cache"
	"github.com/domino14/gambit/config"
	"github.com/domino14/gambit/fen"
	"github.com/domino14/gambit/move"
)

var ErrNoPuzzles = errors.New("no puzzles found")

// Puzzle is a position and the moves that solve it. Any one of Answers is
// a correct reply.
type Puzzle struct {
	Name    string   `yaml:"name"`
	FEN     string   `yaml:"fen"`
	Answers []string `yaml:"answers"`
	// Line is the 1-based source line for puzzles from text files.
	Line int `yaml:"-"`
}

func (p Puzzle) String() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("line %d", p.Line)
}

// Validate checks that the FEN parses and every answer is a move token.
func (p Puzzle) Validate() error {
	if _, err := fen.Parse(p.FEN); err != nil {
		return fmt.Errorf("puzzle %s: %w", p, err)
	}
	if len(p.Answers) == 0 {
		return fmt.Errorf("puzzle %s: no answers", p)
	}
	for _, a := range p.Answers {
		if _, err := move.FromString(a); err != nil {
			return fmt.Errorf("puzzle %s: %w", p, err)
		}
	}
	return nil
}

// Accepts reports whether m is one of the answers.
func (p Puzzle) Accepts(m move.Move) bool {
	return lo.Contains(p.Answers, m.String())
}

// ParseLine parses a text puzzle line of the form "<fen> => <move> <move>".
// Comments (# or //) and lines without "=" are skipped.
func ParseLine(line string) (Puzzle, bool) {
	line = strings.TrimSpace(line)
	if !strings.Contains(line, "=") || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
		return Puzzle{}, false
	}
	f, answers, ok := strings.Cut(line, "=>")
	if !ok {
		return Puzzle{}, false
	}
	return Puzzle{
		FEN:     strings.TrimSpace(f),
		Answers: strings.Fields(answers),
	}, true
}

// ReadText reads puzzles in the line format.
func ReadText(r io.Reader) ([]Puzzle, error) {
	var out []Puzzle
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		p, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		p.Line = n
		if err := p.Validate(); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, scanner.Err()
}

type yamlFile struct {
	Puzzles []Puzzle `yaml:"puzzles"`
}

// ReadYAML reads puzzles from a document with a top-level "puzzles" list.
func ReadYAML(r io.Reader) ([]Puzzle, error) {
	var doc yamlFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	for _, p := range doc.Puzzles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return doc.Puzzles, nil
}

// ReadFile reads a puzzle file, choosing the format by extension.
func ReadFile(path string) ([]Puzzle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return ReadText(f)
	}
}

// ReadPath reads a puzzle file, or every .txt/.yaml/.yml file in a
// directory in name order.
func ReadPath(path string) ([]Puzzle, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return ReadFile(path)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var out []Puzzle
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || !lo.Contains([]string{".txt", ".yaml", ".yml"}, ext) {
			continue
		}
		ps, err := ReadFile(filepath.Join(path, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, ps...)
	}
	return out, nil
}

// Load returns the puzzles under path (or under the configured puzzles path
// when path is empty), cached for the life of the process.
func Load(cfg *config.Config, path string) ([]Puzzle, error) {
	if path == "" {
		path = cfg.GetString(config.ConfigPuzzlesPath)
	}
	ps, err := cache.Load(cfg, "puzzles:"+path, func(_ *config.Config, _ string) ([]Puzzle, error) {
		return ReadPath(path)
	})
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPuzzles, path)
	}
	return ps, nil
}
