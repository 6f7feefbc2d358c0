package core

import (
	"fmt"
)

// Params holds the divider constraints and operating limits of a clock synthesizer.
// Frequencies are expressed in MHz.
type Params struct {
	// RefClock is the reference clock feeding the PLL.
	RefClock float64

	// MinFeedbackDiv and MaxFeedbackDiv bound the feedback divider (inclusive).
	MinFeedbackDiv int
	MaxFeedbackDiv int

	// RefDivValues are the legal reference divider values.
	RefDivValues []int

	// PostDiv1Values are the legal first post-divider values.
	// The second post-divider ranges over [1, postDiv1].
	PostDiv1Values []int

	// VCOMax is the maximum internal oscillator frequency (inclusive).
	VCOMax float64

	// MaxFreq is the exclusive upper bound on output frequency.
	MaxFreq float64

	// MaxDiff is the largest absolute error accepted for a frequency match.
	MaxDiff float64
}

// Validate checks that the parameters describe a non-empty, physically meaningful search space.
func (p Params) Validate() error {
	if len(p.RefDivValues) == 0 {
		return fmt.Errorf("%w: no reference divider values", ErrEmptyParameterSpace)
	}
	if len(p.PostDiv1Values) == 0 {
		return fmt.Errorf("%w: no post-divider 1 values", ErrEmptyParameterSpace)
	}
	if p.MinFeedbackDiv > p.MaxFeedbackDiv {
		return fmt.Errorf("%w: feedback divider range [%d, %d] is empty",
			ErrEmptyParameterSpace, p.MinFeedbackDiv, p.MaxFeedbackDiv)
	}
	if p.MinFeedbackDiv < 1 {
		return fmt.Errorf("%w: minimum feedback divider must be >= 1, got %d", ErrInvalidParams, p.MinFeedbackDiv)
	}
	for _, v := range p.RefDivValues {
		if v < 1 {
			return fmt.Errorf("%w: reference divider values must be >= 1, got %d", ErrInvalidParams, v)
		}
	}
	for _, v := range p.PostDiv1Values {
		if v < 1 {
			return fmt.Errorf("%w: post-divider 1 values must be >= 1, got %d", ErrInvalidParams, v)
		}
	}
	if p.RefClock <= 0 {
		return fmt.Errorf("%w: reference clock must be > 0, got %g", ErrInvalidParams, p.RefClock)
	}
	if p.VCOMax <= 0 {
		return fmt.Errorf("%w: VCO maximum must be > 0, got %g", ErrInvalidParams, p.VCOMax)
	}
	if p.MaxFreq <= 0 {
		return fmt.Errorf("%w: maximum output frequency must be > 0, got %g", ErrInvalidParams, p.MaxFreq)
	}
	if p.MaxDiff < 0 {
		return fmt.Errorf("%w: frequency tolerance must be >= 0, got %g", ErrInvalidParams, p.MaxDiff)
	}
	return nil
}

// ForEachDivisor calls fn for every (refDiv, postDiv1, postDiv2) combination in
// configuration order, with postDiv2 ascending over [1, postDiv1].
func (p Params) ForEachDivisor(fn func(refDiv, postDiv1, postDiv2 int)) {
	for _, refDiv := range p.RefDivValues {
		for _, postDiv1 := range p.PostDiv1Values {
			for postDiv2 := 1; postDiv2 <= postDiv1; postDiv2++ {
				fn(refDiv, postDiv1, postDiv2)
			}
		}
	}
}
