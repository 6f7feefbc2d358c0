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

// Package generator runs the table generation pipeline for one hardware profile.
//
// The generator wires the pipeline stages together and reports on each of them:
//
//	gen, err := generator.New(profile.Params(), emitter, metrics.NewRecorder(profile.Name))
//	if err != nil {
//	    return err
//	}
//
//	result, err := gen.Run(logging.IntoContext(ctx, log))
//	if err != nil {
//	    log.Error(err, "generation failed")
//	    return err
//	}
//
//	log.Info("generation complete",
//	    "entries", result.Entries,
//	    "unreachable", len(result.Unreachable),
//	    "evictions", result.Evictions)
//
// Generation Flow:
//
//  1. Enumerate
//     - Walk every legal (feedback, reference, post) divider combination
//     - Record each output frequency as a reduced fraction
//
//  2. Deduplicate
//     - Sort fractions exactly and keep one per distinct value
//
//  3. Solve
//     - Pick the preferred divider set for every distinct frequency
//     - Drop frequencies no admissible combination reaches
//
//  4. Verify and Emit
//     - Check the finished table against the hardware limits
//     - Atomically write the artifact
//
// Error Handling:
//
// Any configuration, verification or I/O error aborts the run before the
// destination is touched. Unreachable frequencies are not errors: they are
// counted and logged at debug verbosity.
package generator
