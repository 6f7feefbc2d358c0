package solver

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/llm-d/pll-table-generator/pkg/core"
)

// EvictionObserver is notified whenever the selected combination for a target
// is replaced by a strictly better one.
type EvictionObserver func(target core.CandidateFrequency, evicted, replacement core.VCOEvaluation)

// Option configures a Solver.
type Option func(*Solver)

// WithEvictionObserver registers a callback for evictions.
func WithEvictionObserver(observer EvictionObserver) Option {
	return func(s *Solver) {
		s.observer = observer
	}
}

// Solver searches divider combinations for target frequencies under fixed params.
type Solver struct {
	params   core.Params
	observer EvictionObserver
}

// Solution is the outcome of solving a set of candidates.
type Solution struct {
	// Table holds one entry per reachable candidate, ascending by frequency.
	Table core.Table
	// Unreachable lists candidates with no admissible combination.
	Unreachable []core.CandidateFrequency
	// Evictions counts replaced selections across all candidates.
	Evictions int
}

// NewSolver creates a new Solver instance.
func NewSolver(params core.Params, opts ...Option) (*Solver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{params: params}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Evaluate derives the feedback divider for target under one (refDiv, postDiv1,
// postDiv2) combination and reports whether the result is admissible.
func (s *Solver) Evaluate(target float64, refDiv, postDiv1, postDiv2 int) (core.VCOEvaluation, bool) {
	p := s.params
	d := refDiv * postDiv1 * postDiv2
	fb := int(math.Round(target * float64(d) / p.RefClock))
	if fb < p.MinFeedbackDiv || fb > p.MaxFeedbackDiv {
		return core.VCOEvaluation{}, false
	}

	dividers := core.DividerSet{FeedbackDiv: fb, RefDiv: refDiv, PostDiv1: postDiv1, PostDiv2: postDiv2}
	actual := dividers.OutputFreq(p.RefClock)
	if !scalar.EqualWithinAbs(actual, target, p.MaxDiff) {
		return core.VCOEvaluation{}, false
	}
	vco := dividers.VCOFreq(p.RefClock)
	if vco > p.VCOMax {
		return core.VCOEvaluation{}, false
	}
	if actual >= p.MaxFreq {
		return core.VCOEvaluation{}, false
	}
	return core.VCOEvaluation{Dividers: dividers, VCOFreq: vco, ActualFreq: actual}, true
}

// Solve returns the best admissible combination for target, or false when the
// target is unreachable.
func (s *Solver) Solve(target core.CandidateFrequency) (core.VCOEvaluation, bool) {
	best, _, ok := s.solve(target)
	return best, ok
}

func (s *Solver) solve(target core.CandidateFrequency) (best core.VCOEvaluation, evictions int, found bool) {
	s.params.ForEachDivisor(func(refDiv, postDiv1, postDiv2 int) {
		eval, ok := s.Evaluate(target.Freq, refDiv, postDiv1, postDiv2)
		if !ok {
			return
		}
		if !found {
			best, found = eval, true
			return
		}
		if !Better(eval, best) {
			return
		}
		evictions++
		if s.observer != nil {
			s.observer(target, best, eval)
		}
		best = eval
	})
	return best, evictions, found
}

// SolveAll solves every candidate and builds the sorted table of reachable ones.
func (s *Solver) SolveAll(candidates []core.CandidateFrequency) *Solution {
	solution := &Solution{Table: make(core.Table, 0, len(candidates))}
	for _, c := range candidates {
		best, evictions, ok := s.solve(c)
		solution.Evictions += evictions
		if !ok {
			solution.Unreachable = append(solution.Unreachable, c)
			continue
		}
		solution.Table = append(solution.Table, core.TableEntry{
			Freq:     c.Freq,
			Dividers: best.Dividers,
			VCOFreq:  best.VCOFreq,
		})
	}
	solution.Table.Sort()
	return solution
}

// Better reports whether a is strictly preferred over b: lower VCO frequency,
// then lower reference divider, then lower post-divider 1, then lower post-divider 2.
func Better(a, b core.VCOEvaluation) bool {
	if c := a.Dividers.CmpVCO(b.Dividers); c != 0 {
		return c < 0
	}
	if a.Dividers.RefDiv != b.Dividers.RefDiv {
		return a.Dividers.RefDiv < b.Dividers.RefDiv
	}
	if a.Dividers.PostDiv1 != b.Dividers.PostDiv1 {
		return a.Dividers.PostDiv1 < b.Dividers.PostDiv1
	}
	return a.Dividers.PostDiv2 < b.Dividers.PostDiv2
}
