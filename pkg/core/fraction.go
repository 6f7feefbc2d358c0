package core

import (
	"cmp"
	"fmt"
)

// Fraction is an exact ratio of output frequency to reference clock, kept in lowest terms.
type Fraction struct {
	Num int
	Den int
}

// NewFraction returns num/den reduced by their greatest common divisor.
// den must be positive.
func NewFraction(num, den int) Fraction {
	g := gcd(num, den)
	if g == 0 {
		return Fraction{Num: num, Den: den}
	}
	return Fraction{Num: num / g, Den: den / g}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// Cmp orders fractions by value using cross-multiplication.
func (f Fraction) Cmp(o Fraction) int {
	return cmp.Compare(f.Num*o.Den, o.Num*f.Den)
}

// Less orders by value, then by denominator ascending. Reduced fractions of
// equal value are identical, so the tie-break only matters for unreduced input.
func (f Fraction) Less(o Fraction) bool {
	if c := f.Cmp(o); c != 0 {
		return c < 0
	}
	return f.Den < o.Den
}

// Value returns refClock * Num / Den.
func (f Fraction) Value(refClock float64) float64 {
	return refClock * float64(f.Num) / float64(f.Den)
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

// CandidateFrequency is a canonical target frequency. Its identity is the
// Fraction; Freq is only used for the divider search.
type CandidateFrequency struct {
	Fraction Fraction
	Freq     float64
}
