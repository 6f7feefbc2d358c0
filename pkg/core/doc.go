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

// Package core provides the fundamental data structures of the PLL table generator.
//
// This package contains the domain models shared by every stage of the
// generation pipeline:
//
//   - Params: the divider constraints and limits of one clock synthesizer
//   - DividerSet: feedback, reference and post-divider register values
//   - Fraction: an exact, reduced output-to-reference frequency ratio
//   - CandidateFrequency: a canonical target derived from a unique Fraction
//   - VCOEvaluation: a divider combination evaluated against a target
//   - TableEntry / Table: the final frequency to divider mapping
//
// The modeled topology is a single reference divider, one feedback divider and
// two cascaded post-dividers:
//
//	vco = refClock * feedbackDiv / refDiv
//	out = vco / (postDiv1 * postDiv2)
//
// Example usage:
//
//	params := core.Params{
//	    RefClock:       25,
//	    MinFeedbackDiv: 160,
//	    MaxFeedbackDiv: 239,
//	    RefDivValues:   []int{1, 2},
//	    PostDiv1Values: []int{1, 2, 3, 4, 5, 6, 7},
//	    VCOMax:         3000,
//	    MaxFreq:        1500,
//	    MaxDiff:        1e-6,
//	}
//	if err := params.Validate(); err != nil {
//	    return err
//	}
//
//	f := core.NewFraction(200, 10) // 20/1
//	freq := f.Value(params.RefClock) // 500 MHz
//
// The core package is designed to be:
//   - Immutable where possible (value types)
//   - Exact: identity and ordering of frequencies never rely on float equality
//   - Independent of I/O and logging (pure domain logic)
package core
