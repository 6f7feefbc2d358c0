// Package candidates derives the canonical target frequencies of a synthesizer:
// every output frequency reachable by some legal divider combination, as exact
// reduced fractions, collapsed to one entry per distinct value.
package candidates

import (
	"github.com/llm-d/pll-table-generator/pkg/core"
)

// Enumerate walks the full divider space of p and returns the reduced fraction
// feedbackDiv/(refDiv*postDiv1*postDiv2) of every combination. The result is an
// unordered multiset: the same frequency is reachable through several paths.
func Enumerate(p core.Params) ([]core.Fraction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	feedbackCount := p.MaxFeedbackDiv - p.MinFeedbackDiv + 1
	fractions := make([]core.Fraction, 0, spaceSize(p)*feedbackCount)
	p.ForEachDivisor(func(refDiv, postDiv1, postDiv2 int) {
		d := refDiv * postDiv1 * postDiv2
		for fb := p.MinFeedbackDiv; fb <= p.MaxFeedbackDiv; fb++ {
			fractions = append(fractions, core.NewFraction(fb, d))
		}
	})
	return fractions, nil
}

// spaceSize counts the (refDiv, postDiv1, postDiv2) combinations of p.
func spaceSize(p core.Params) int {
	n := 0
	for _, postDiv1 := range p.PostDiv1Values {
		n += postDiv1
	}
	return n * len(p.RefDivValues)
}
