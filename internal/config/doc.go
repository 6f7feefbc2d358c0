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

// Package config provides configuration management for the PLL table generator.
//
// This package handles loading, validation, and access to generator
// configuration from command-line flags, environment variables, an optional
// config file and an optional hardware profiles file.
//
// Configuration Types:
//
//   - Config: run settings (profile, output path and format, metrics file, logging)
//   - HardwareProfile: divider constraints and limits of one synthesizer
//   - ProfileData: named profiles merged over global defaults
//
// Configuration Sources:
//
//  1. Command-line flags (highest priority)
//  2. Environment variables (PLLGEN_*)
//  3. Config file (--config)
//  4. Default values (lowest priority)
//
// Hardware Profiles:
//
// Built-in profiles are "standard" (VCO up to 3000 MHz) and "extended" (VCO up
// to 6000 MHz, every enumerable frequency below the output ceiling). A profiles
// file adds or overrides profiles:
//
//	default:
//	  refClockMHz: 25
//	  minFeedbackDiv: 160
//	  maxFeedbackDiv: 239
//	  refDivValues: [1, 2]
//	  postDiv1Values: [1, 2, 3, 4, 5, 6, 7]
//	  vcoMaxMHz: 3000
//	  maxFreqMHz: 1500
//	  maxDiff: 1e-6
//	low-power:
//	  vcoMaxMHz: 2400
//
// Entries override only the fields they set. One profile is selected per run.
//
// Example usage:
//
//	cfg, err := config.Load(v, afero.NewOsFs(), configFile)
//	if err != nil {
//	    return err
//	}
//	profile, err := cfg.ResolveProfile(ctx, afero.NewOsFs())
//	if err != nil {
//	    return err
//	}
//	params := profile.Params()
//
// Configuration Validation:
//
// All configuration values are validated on load:
//   - Numeric ranges (e.g., 0 < minFeedbackDiv <= maxFeedbackDiv <= 255)
//   - Non-empty divider value sets
//   - Divider values that fit the 8-bit registers
package config
