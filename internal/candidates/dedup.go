package candidates

import (
	"errors"
	"fmt"
	"slices"

	"github.com/llm-d/pll-table-generator/pkg/core"
)

// ErrNoFractions is returned when there is nothing to deduplicate.
var ErrNoFractions = errors.New("no fractions enumerated")

// Deduplicate sorts fractions by exact value and keeps the first occurrence of
// each distinct (Num, Den) pair. The input slice is reordered in place.
// The returned candidates ascend by value.
func Deduplicate(fractions []core.Fraction, refClock float64) ([]core.CandidateFrequency, error) {
	if len(fractions) == 0 {
		return nil, fmt.Errorf("%w: check the divider configuration", ErrNoFractions)
	}

	slices.SortStableFunc(fractions, func(a, b core.Fraction) int {
		if c := a.Cmp(b); c != 0 {
			return c
		}
		return a.Den - b.Den
	})

	unique := []core.CandidateFrequency{newCandidate(fractions[0], refClock)}
	for _, f := range fractions[1:] {
		if last := unique[len(unique)-1].Fraction; f != last {
			unique = append(unique, newCandidate(f, refClock))
		}
	}
	return unique, nil
}

func newCandidate(f core.Fraction, refClock float64) core.CandidateFrequency {
	return core.CandidateFrequency{Fraction: f, Freq: f.Value(refClock)}
}
