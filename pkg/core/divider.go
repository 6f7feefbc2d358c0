package core

import (
	"cmp"
	"fmt"
)

// DividerSet holds the four divider register values of one PLL configuration.
type DividerSet struct {
	FeedbackDiv int `json:"fbDivider" yaml:"fbDivider"`
	RefDiv      int `json:"refDiv" yaml:"refDiv"`
	PostDiv1    int `json:"postDiv1" yaml:"postDiv1"`
	PostDiv2    int `json:"postDiv2" yaml:"postDiv2"`
}

// Divisor returns the composite divisor refDiv*postDiv1*postDiv2.
func (d DividerSet) Divisor() int {
	return d.RefDiv * d.PostDiv1 * d.PostDiv2
}

// OutputFreq returns the output frequency produced from refClock.
func (d DividerSet) OutputFreq(refClock float64) float64 {
	return refClock * float64(d.FeedbackDiv) / float64(d.Divisor())
}

// VCOFreq returns the internal oscillator frequency produced from refClock.
func (d DividerSet) VCOFreq(refClock float64) float64 {
	return refClock * float64(d.FeedbackDiv) / float64(d.RefDiv)
}

// CmpVCO compares the oscillator frequencies of d and o exactly, without
// going through floating point. The reference clock cancels out.
func (d DividerSet) CmpVCO(o DividerSet) int {
	return cmp.Compare(d.FeedbackDiv*o.RefDiv, o.FeedbackDiv*d.RefDiv)
}

func (d DividerSet) String() string {
	return fmt.Sprintf("fb=%d, refdiv=%d, postdiv1=%d, postdiv2=%d",
		d.FeedbackDiv, d.RefDiv, d.PostDiv1, d.PostDiv2)
}

// VCOEvaluation is a divider combination evaluated against one target frequency.
// It only lives while the target is being searched.
type VCOEvaluation struct {
	Dividers   DividerSet
	VCOFreq    float64
	ActualFreq float64
}
