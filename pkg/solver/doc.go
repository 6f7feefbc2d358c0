/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package solver selects the divider registers for each target frequency.
//
// For every canonical target the solver re-searches the (refDiv, postDiv1,
// postDiv2) space, derives the nearest integer feedback divider and keeps the
// combination that is best under a strict lexicographic preference:
//
//  1. lowest internal oscillator (VCO) frequency
//  2. lowest reference divider
//  3. lowest first post-divider
//  4. lowest second post-divider
//
// A combination is only admissible when its feedback divider is in range, its
// output is within MaxDiff of the target, its VCO does not exceed VCOMax and
// its output is strictly below MaxFreq. Targets without any admissible
// combination are unreachable and left out of the table.
//
// Example usage:
//
//	s, err := solver.NewSolver(params,
//	    solver.WithEvictionObserver(func(target core.CandidateFrequency, evicted, replacement core.VCOEvaluation) {
//	        log.V(logging.DEBUG).Info("Evicting entry", "freq", target.Freq, "dividers", evicted.Dividers.String())
//	    }))
//	if err != nil {
//	    return err
//	}
//
//	solution := s.SolveAll(candidates)
//	log.Info("solved", "entries", len(solution.Table), "unreachable", len(solution.Unreachable))
//
// The solver is designed to be:
//   - Deterministic: the preference order is total, so the result does not
//     depend on iteration order
//   - Exact: VCO frequencies are compared by cross-multiplication
//   - Stateless across targets: the running best is a value folded per target
package solver
