package core

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats/scalar"
	"k8s.io/utils/set"
)

// EntrySizeBytes is the firmware footprint of one record: a 32-bit float and four uint8 dividers.
const EntrySizeBytes = 8

// TableEntry maps one output frequency to the divider set selected for it.
type TableEntry struct {
	// Freq is the canonical target frequency in MHz. Firmware stores it as a 32-bit float.
	Freq float64 `json:"freq" yaml:"freq"`

	Dividers DividerSet `json:"dividers" yaml:"dividers"`

	// VCOFreq is the oscillator frequency of the selection; informational only.
	VCOFreq float64 `json:"vcoFreq" yaml:"vcoFreq"`
}

// Table is the full set of entries, ascending by frequency once sorted.
type Table []TableEntry

// Sort orders the table by frequency.
func (t Table) Sort() {
	sort.SliceStable(t, func(i, j int) bool {
		return t[i].Freq < t[j].Freq
	})
}

// SizeBytes returns the size of the table as laid out in firmware memory.
func (t Table) SizeBytes() int {
	return len(t) * EntrySizeBytes
}

// Validate checks every entry against params and the table-wide invariants:
// ascending and unique frequencies (including after narrowing to float32),
// round-trip accuracy, divider ranges and operating limits.
// The table must already be sorted.
func (t Table) Validate(p Params) error {
	refDivs := set.New(p.RefDivValues...)
	postDiv1s := set.New(p.PostDiv1Values...)

	for i, e := range t {
		d := e.Dividers
		if d.FeedbackDiv < p.MinFeedbackDiv || d.FeedbackDiv > p.MaxFeedbackDiv {
			return fmt.Errorf("%w: entry %d (%.6f MHz): feedback divider %d outside [%d, %d]",
				ErrInvalidTable, i, e.Freq, d.FeedbackDiv, p.MinFeedbackDiv, p.MaxFeedbackDiv)
		}
		if !refDivs.Has(d.RefDiv) {
			return fmt.Errorf("%w: entry %d (%.6f MHz): reference divider %d not allowed",
				ErrInvalidTable, i, e.Freq, d.RefDiv)
		}
		if !postDiv1s.Has(d.PostDiv1) {
			return fmt.Errorf("%w: entry %d (%.6f MHz): post-divider 1 value %d not allowed",
				ErrInvalidTable, i, e.Freq, d.PostDiv1)
		}
		if d.PostDiv2 < 1 || d.PostDiv2 > d.PostDiv1 {
			return fmt.Errorf("%w: entry %d (%.6f MHz): post-divider 2 value %d outside [1, %d]",
				ErrInvalidTable, i, e.Freq, d.PostDiv2, d.PostDiv1)
		}
		if d.FeedbackDiv > math.MaxUint8 || d.RefDiv > math.MaxUint8 || d.PostDiv1 > math.MaxUint8 {
			return fmt.Errorf("%w: entry %d (%.6f MHz): dividers %s do not fit a uint8 register",
				ErrInvalidTable, i, e.Freq, d)
		}
		if actual := d.OutputFreq(p.RefClock); !scalar.EqualWithinAbs(actual, e.Freq, p.MaxDiff) {
			return fmt.Errorf("%w: entry %d: dividers %s produce %.9f MHz, want %.9f MHz",
				ErrInvalidTable, i, d, actual, e.Freq)
		}
		if vco := d.VCOFreq(p.RefClock); vco > p.VCOMax {
			return fmt.Errorf("%w: entry %d (%.6f MHz): VCO %.6f MHz exceeds %.6f MHz",
				ErrInvalidTable, i, e.Freq, vco, p.VCOMax)
		}
		if e.Freq >= p.MaxFreq {
			return fmt.Errorf("%w: entry %d: frequency %.6f MHz not below %.6f MHz",
				ErrInvalidTable, i, e.Freq, p.MaxFreq)
		}
		if i > 0 {
			prev := t[i-1]
			if prev.Freq >= e.Freq {
				return fmt.Errorf("%w: entry %d: frequency %.6f MHz does not ascend from %.6f MHz",
					ErrInvalidTable, i, e.Freq, prev.Freq)
			}
			if float32(prev.Freq) >= float32(e.Freq) {
				return fmt.Errorf("%w: entry %d: frequencies %.6f and %.6f MHz collide as float32",
					ErrInvalidTable, i, prev.Freq, e.Freq)
			}
		}
	}
	return nil
}

// Lookup returns the entry with the largest frequency not above target, comparing
// in float32 the way firmware does. It reports false when target is below the
// first entry. The table must be sorted.
func (t Table) Lookup(target float32) (TableEntry, bool) {
	idx := sort.Search(len(t), func(i int) bool {
		return float32(t[i].Freq) > target
	}) - 1
	if idx < 0 {
		return TableEntry{}, false
	}
	return t[idx], true
}
