package search

import (
	"errors"
	"fmt"
	"time"
)

var ErrBadOptions = errors.New("bad search options")

// TieBreak picks among root moves with the same best score.
type TieBreak int

const (
	// TieBreakFirst keeps the first root move to report the best score.
	TieBreakFirst TieBreak = iota
	// TieBreakRandom collects every root move at the best score and picks
	// one uniformly.
	TieBreakRandom
)

func (t TieBreak) String() string {
	switch t {
	case TieBreakFirst:
		return "first"
	case TieBreakRandom:
		return "random"
	}
	return fmt.Sprintf("tiebreak(%d)", int(t))
}

func ParseTieBreak(s string) (TieBreak, error) {
	switch s {
	case "first", "":
		return TieBreakFirst, nil
	case "random":
		return TieBreakRandom, nil
	}
	return TieBreakFirst, fmt.Errorf("%w: unknown tie-break %q", ErrBadOptions, s)
}

type Options struct {
	// ShallowPlies is the budget consumed by quiet plies only.
	ShallowPlies int
	// DeepPlies is consumed by every ply.
	DeepPlies int
	// Time is the whole budget. Quiet lines stop after Time*(1-DeepFraction);
	// tactical lines may continue until Time.
	Time         time.Duration
	DeepFraction float64
	TieBreak     TieBreak
}

func DefaultOptions() Options {
	return Options{
		ShallowPlies: 2,
		DeepPlies:    5,
		Time:         10 * time.Second,
		DeepFraction: 0.5,
		TieBreak:     TieBreakFirst,
	}
}

func (o Options) Validate() error {
	if o.ShallowPlies < 1 || o.DeepPlies < 1 {
		return fmt.Errorf("%w: ply budgets must be positive (shallow %d, deep %d)",
			ErrBadOptions, o.ShallowPlies, o.DeepPlies)
	}
	if o.DeepFraction < 0 || o.DeepFraction > 1 {
		return fmt.Errorf("%w: deep fraction %v not in [0, 1]", ErrBadOptions, o.DeepFraction)
	}
	if o.Time <= 0 {
		return fmt.Errorf("%w: time budget %v", ErrBadOptions, o.Time)
	}
	return nil
}

// deadlines returns the primary and extended deadlines for a search
// starting at start.
func (o Options) deadlines(start time.Time) (time.Time, time.Time) {
	primary := time.Duration(float64(o.Time) * (1 - o.DeepFraction))
	return start.Add(primary), start.Add(o.Time)
}
