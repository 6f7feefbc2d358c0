package core

import "errors"

var (
	// ErrEmptyParameterSpace is returned when the divider constraints leave no combination to search.
	ErrEmptyParameterSpace = errors.New("divider parameter space is empty")
	// ErrInvalidParams is returned for out-of-range synthesizer limits.
	ErrInvalidParams = errors.New("invalid synthesizer parameters")
	// ErrInvalidTable is returned when a finished table breaks one of its invariants.
	ErrInvalidTable = errors.New("invalid PLL table")
)
