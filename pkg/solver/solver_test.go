package solver

import (
	"cmp"
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/llm-d/pll-table-generator/internal/candidates"
	"github.com/llm-d/pll-table-generator/pkg/core"
)

func standardParams() core.Params {
	return core.Params{
		RefClock:       25,
		MinFeedbackDiv: 160,
		MaxFeedbackDiv: 239,
		RefDivValues:   []int{1, 2},
		PostDiv1Values: []int{1, 2, 3, 4, 5, 6, 7},
		VCOMax:         3000,
		MaxFreq:        1500,
		MaxDiff:        1e-6,
	}
}

func candidate(num, den int) core.CandidateFrequency {
	f := core.NewFraction(num, den)
	return core.CandidateFrequency{Fraction: f, Freq: f.Value(25)}
}

func eval(fb, ref, p1, p2 int) core.VCOEvaluation {
	d := core.DividerSet{FeedbackDiv: fb, RefDiv: ref, PostDiv1: p1, PostDiv2: p2}
	return core.VCOEvaluation{Dividers: d, VCOFreq: d.VCOFreq(25), ActualFreq: d.OutputFreq(25)}
}

// bruteForce scans every divider combination, including every feedback value,
// for exact matches of target and returns the most preferred one.
func bruteForce(p core.Params, target core.Fraction) (core.DividerSet, bool) {
	var matches []core.DividerSet
	p.ForEachDivisor(func(r, p1, p2 int) {
		for fb := p.MinFeedbackDiv; fb <= p.MaxFeedbackDiv; fb++ {
			d := core.DividerSet{FeedbackDiv: fb, RefDiv: r, PostDiv1: p1, PostDiv2: p2}
			if core.NewFraction(fb, d.Divisor()) != target {
				continue
			}
			if d.VCOFreq(p.RefClock) > p.VCOMax || d.OutputFreq(p.RefClock) >= p.MaxFreq {
				continue
			}
			matches = append(matches, d)
		}
	})
	if len(matches) == 0 {
		return core.DividerSet{}, false
	}
	slices.SortFunc(matches, func(a, b core.DividerSet) int {
		return cmp.Or(a.CmpVCO(b), cmp.Compare(a.RefDiv, b.RefDiv),
			cmp.Compare(a.PostDiv1, b.PostDiv1), cmp.Compare(a.PostDiv2, b.PostDiv2))
	})
	return matches[0], true
}

var _ = Describe("NewSolver", func() {
	It("should reject an empty parameter space", func() {
		p := standardParams()
		p.PostDiv1Values = nil
		s, err := NewSolver(p)
		Expect(err).To(MatchError(core.ErrEmptyParameterSpace))
		Expect(s).To(BeNil())
	})
})

var _ = DescribeTable("Better",
	func(a, b core.VCOEvaluation, want bool) {
		Expect(Better(a, b)).To(Equal(want))
	},
	Entry("lower VCO wins over lower dividers", eval(168, 2, 3, 1), eval(160, 1, 2, 1), true),
	Entry("higher VCO loses", eval(224, 2, 2, 2), eval(168, 2, 3, 1), false),
	Entry("equal VCO, lower reference divider wins", eval(160, 1, 4, 1), eval(320, 2, 4, 1), true),
	Entry("equal VCO and reference divider, lower post-divider 1 wins", eval(160, 2, 2, 2), eval(160, 2, 4, 1), true),
	Entry("equal up to post-divider 2, lower post-divider 2 wins", eval(160, 2, 4, 1), eval(160, 2, 4, 2), true),
	Entry("identical is not strictly better", eval(160, 2, 2, 2), eval(160, 2, 2, 2), false),
)

var _ = Describe("Solver", func() {
	var s *Solver

	BeforeEach(func() {
		var err error
		s, err = NewSolver(standardParams())
		Expect(err).NotTo(HaveOccurred())
	})

	Context("Evaluate", func() {
		It("should accept an exact, in-range combination", func() {
			got, ok := s.Evaluate(500, 2, 2, 2)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(eval(160, 2, 2, 2)))
		})

		It("should reject a feedback divider outside its range", func() {
			_, ok := s.Evaluate(500, 1, 1, 1)
			Expect(ok).To(BeFalse())
		})

		It("should reject an inexact match", func() {
			_, ok := s.Evaluate(candidate(163, 7).Freq, 2, 2, 2)
			Expect(ok).To(BeFalse())
		})

		It("should reject a VCO above the maximum", func() {
			_, ok := s.Evaluate(500, 1, 4, 2)
			Expect(ok).To(BeFalse())
		})

		It("should reject an output at or above the maximum frequency", func() {
			_, ok := s.Evaluate(2987.5, 2, 1, 1)
			Expect(ok).To(BeFalse())
		})
	})

	Context("Solve", func() {
		It("should resolve 500 MHz to the lowest-VCO exact divider set", func() {
			got, ok := s.Solve(candidate(20, 1))
			Expect(ok).To(BeTrue())
			Expect(got.Dividers).To(Equal(core.DividerSet{FeedbackDiv: 160, RefDiv: 2, PostDiv1: 2, PostDiv2: 2}))
			Expect(got.VCOFreq).To(Equal(2000.0))
			Expect(got.Dividers.OutputFreq(25)).To(Equal(500.0))
		})

		It("should give the same answer on every run", func() {
			first, _ := s.Solve(candidate(20, 1))
			for range 5 {
				again, _ := s.Solve(candidate(20, 1))
				Expect(again).To(Equal(first))
			}
		})

		It("should drop a target that needs a VCO above the maximum", func() {
			_, ok := s.Solve(candidate(163, 7))
			Expect(ok).To(BeFalse())
		})

		It("should reach the same target once the VCO ceiling is raised", func() {
			p := standardParams()
			p.VCOMax = 6000
			extended, err := NewSolver(p)
			Expect(err).NotTo(HaveOccurred())

			got, ok := extended.Solve(candidate(163, 7))
			Expect(ok).To(BeTrue())
			Expect(got.Dividers).To(Equal(core.DividerSet{FeedbackDiv: 163, RefDiv: 1, PostDiv1: 7, PostDiv2: 1}))
			Expect(got.VCOFreq).To(Equal(4075.0))
		})

		It("should report every eviction by a strictly better combination", func() {
			type eviction struct{ evicted, replacement core.DividerSet }
			var seen []eviction
			observed, err := NewSolver(standardParams(), WithEvictionObserver(
				func(target core.CandidateFrequency, evicted, replacement core.VCOEvaluation) {
					Expect(target.Freq).To(Equal(700.0))
					seen = append(seen, eviction{evicted.Dividers, replacement.Dividers})
				}))
			Expect(err).NotTo(HaveOccurred())

			got, ok := observed.Solve(candidate(28, 1))
			Expect(ok).To(BeTrue())
			Expect(got.Dividers).To(Equal(core.DividerSet{FeedbackDiv: 168, RefDiv: 2, PostDiv1: 3, PostDiv2: 1}))
			Expect(seen).To(Equal([]eviction{{
				evicted:     core.DividerSet{FeedbackDiv: 224, RefDiv: 2, PostDiv1: 2, PostDiv2: 2},
				replacement: core.DividerSet{FeedbackDiv: 168, RefDiv: 2, PostDiv1: 3, PostDiv2: 1},
			}}))
		})
	})

	Context("SolveAll over the enumerated space", func() {
		var (
			params  core.Params
			targets []core.CandidateFrequency
			sol     *Solution
		)

		BeforeEach(func() {
			params = standardParams()
			fractions, err := candidates.Enumerate(params)
			Expect(err).NotTo(HaveOccurred())
			targets, err = candidates.Deduplicate(fractions, params.RefClock)
			Expect(err).NotTo(HaveOccurred())
			sol = s.SolveAll(targets)
		})

		It("should account for every candidate", func() {
			Expect(sol.Table).NotTo(BeEmpty())
			Expect(len(sol.Table) + len(sol.Unreachable)).To(Equal(len(targets)))
			Expect(sol.Evictions).To(BeNumerically(">", 0))
		})

		It("should produce a table that satisfies every invariant", func() {
			Expect(sol.Table.Validate(params)).To(Succeed())
		})

		It("should only use reference divider 2 under a 3000 MHz VCO ceiling", func() {
			for _, e := range sol.Table {
				Expect(e.Dividers.RefDiv).To(Equal(2))
				Expect(e.VCOFreq).To(BeNumerically("<=", params.VCOMax))
			}
		})

		It("should leave out the unreachable target", func() {
			Expect(sol.Unreachable).To(ContainElement(candidate(163, 7)))
			for _, e := range sol.Table {
				Expect(e.Freq).NotTo(BeNumerically("~", candidate(163, 7).Freq, 1e-3))
			}
		})

		It("should match a brute-force search for every candidate", func() {
			byFreq := make(map[float64]core.DividerSet, len(sol.Table))
			for _, e := range sol.Table {
				byFreq[e.Freq] = e.Dividers
			}
			for _, c := range targets {
				want, reachable := bruteForce(params, c.Fraction)
				got, inTable := byFreq[c.Freq]
				Expect(inTable).To(Equal(reachable), "reachability of %s", c.Fraction)
				if reachable {
					Expect(got).To(Equal(want), "dividers for %s", c.Fraction)
				}
			}
		})

		It("should be deterministic", func() {
			again := s.SolveAll(targets)
			Expect(again).To(Equal(sol))
		})
	})
})
