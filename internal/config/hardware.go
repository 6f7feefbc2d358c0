package config

import (
	"errors"
	"fmt"
	"math"

	"k8s.io/utils/set"

	"github.com/llm-d/pll-table-generator/pkg/core"
)

// Hardware profile constants
const (
	// GlobalDefaultsKey is the profiles file key holding defaults for every profile.
	GlobalDefaultsKey = "default"

	// StandardProfileName selects the reference synthesizer limits.
	StandardProfileName = "standard"

	// ExtendedProfileName doubles the VCO ceiling so every enumerable frequency
	// below the output ceiling becomes reachable.
	ExtendedProfileName = "extended"

	DefaultRefClockMHz    = 25.0
	DefaultMinFeedbackDiv = 160
	DefaultMaxFeedbackDiv = 239
	DefaultVCOMaxMHz      = 3000.0
	ExtendedVCOMaxMHz     = 6000.0
	DefaultMaxFreqMHz     = 1500.0
	DefaultMaxDiff        = 1e-6
)

var (
	// ErrInvalidProfile is returned when a resolved hardware profile fails validation.
	ErrInvalidProfile = errors.New("invalid hardware profile")
	// ErrUnknownProfile is returned for a profile name that is neither built in nor in the profiles file.
	ErrUnknownProfile = errors.New("unknown hardware profile")
)

// HardwareProfile describes the divider constraints and operating limits of one
// clock synthesizer. In a profiles file, zero-valued fields inherit from the
// global defaults.
type HardwareProfile struct {
	// Name identifies the profile; it defaults to the profiles file key.
	Name string `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`

	// RefClockMHz is the reference clock feeding the PLL.
	RefClockMHz float64 `yaml:"refClockMHz,omitempty" json:"refClockMHz,omitempty" mapstructure:"refClockMHz"`

	// MinFeedbackDiv and MaxFeedbackDiv bound the feedback divider (inclusive).
	MinFeedbackDiv int `yaml:"minFeedbackDiv,omitempty" json:"minFeedbackDiv,omitempty" mapstructure:"minFeedbackDiv"`
	MaxFeedbackDiv int `yaml:"maxFeedbackDiv,omitempty" json:"maxFeedbackDiv,omitempty" mapstructure:"maxFeedbackDiv"`

	// RefDivValues are the legal reference divider values.
	RefDivValues []int `yaml:"refDivValues,omitempty" json:"refDivValues,omitempty" mapstructure:"refDivValues"`

	// PostDiv1Values are the legal first post-divider values.
	PostDiv1Values []int `yaml:"postDiv1Values,omitempty" json:"postDiv1Values,omitempty" mapstructure:"postDiv1Values"`

	// VCOMaxMHz is the highest allowed internal oscillator frequency.
	VCOMaxMHz float64 `yaml:"vcoMaxMHz,omitempty" json:"vcoMaxMHz,omitempty" mapstructure:"vcoMaxMHz"`

	// MaxFreqMHz is the exclusive upper bound on output frequency.
	MaxFreqMHz float64 `yaml:"maxFreqMHz,omitempty" json:"maxFreqMHz,omitempty" mapstructure:"maxFreqMHz"`

	// MaxDiff is the absolute tolerance for a frequency match, in MHz.
	MaxDiff float64 `yaml:"maxDiff,omitempty" json:"maxDiff,omitempty" mapstructure:"maxDiff"`
}

// DefaultProfile returns the global defaults: a 25 MHz reference, feedback
// divider 160-239, reference divider 1 or 2, post-divider 1 from 1 to 7.
func DefaultProfile() HardwareProfile {
	return HardwareProfile{
		Name:           GlobalDefaultsKey,
		RefClockMHz:    DefaultRefClockMHz,
		MinFeedbackDiv: DefaultMinFeedbackDiv,
		MaxFeedbackDiv: DefaultMaxFeedbackDiv,
		RefDivValues:   []int{1, 2},
		PostDiv1Values: []int{1, 2, 3, 4, 5, 6, 7},
		VCOMaxMHz:      DefaultVCOMaxMHz,
		MaxFreqMHz:     DefaultMaxFreqMHz,
		MaxDiff:        DefaultMaxDiff,
	}
}

// BuiltinProfiles returns the global defaults and the built-in profile overrides.
func BuiltinProfiles() ProfileData {
	return ProfileData{
		GlobalDefaultsKey:   DefaultProfile(),
		StandardProfileName: {Name: StandardProfileName},
		ExtendedProfileName: {Name: ExtendedProfileName, VCOMaxMHz: ExtendedVCOMaxMHz},
	}
}

// Validate checks a fully resolved profile.
func (p *HardwareProfile) Validate() error {
	if err := p.validateOverride(); err != nil {
		return err
	}
	if p.RefClockMHz == 0 {
		return fmt.Errorf("refClockMHz must be > 0")
	}
	if p.MinFeedbackDiv == 0 || p.MaxFeedbackDiv == 0 {
		return fmt.Errorf("minFeedbackDiv and maxFeedbackDiv must be set, got %d and %d",
			p.MinFeedbackDiv, p.MaxFeedbackDiv)
	}
	if len(p.RefDivValues) == 0 {
		return fmt.Errorf("refDivValues must not be empty")
	}
	if len(p.PostDiv1Values) == 0 {
		return fmt.Errorf("postDiv1Values must not be empty")
	}
	if p.VCOMaxMHz == 0 {
		return fmt.Errorf("vcoMaxMHz must be > 0")
	}
	if p.MaxFreqMHz == 0 {
		return fmt.Errorf("maxFreqMHz must be > 0")
	}
	if p.MaxDiff == 0 {
		return fmt.Errorf("maxDiff must be > 0")
	}
	return p.Params().Validate()
}

// validateOverride checks the fields that are set, allowing zero values to mean "inherit".
func (p *HardwareProfile) validateOverride() error {
	if p.RefClockMHz < 0 {
		return fmt.Errorf("refClockMHz must be >= 0, got %g", p.RefClockMHz)
	}
	if p.MinFeedbackDiv < 0 || p.MinFeedbackDiv > math.MaxUint8 {
		return fmt.Errorf("minFeedbackDiv must be between 1 and %d, got %d", math.MaxUint8, p.MinFeedbackDiv)
	}
	if p.MaxFeedbackDiv < 0 || p.MaxFeedbackDiv > math.MaxUint8 {
		return fmt.Errorf("maxFeedbackDiv must be between 1 and %d, got %d", math.MaxUint8, p.MaxFeedbackDiv)
	}
	if p.MinFeedbackDiv != 0 && p.MaxFeedbackDiv != 0 && p.MinFeedbackDiv > p.MaxFeedbackDiv {
		return fmt.Errorf("minFeedbackDiv (%d) should be <= maxFeedbackDiv (%d)", p.MinFeedbackDiv, p.MaxFeedbackDiv)
	}
	if err := validateDividerValues("refDivValues", p.RefDivValues); err != nil {
		return err
	}
	if err := validateDividerValues("postDiv1Values", p.PostDiv1Values); err != nil {
		return err
	}
	if p.VCOMaxMHz < 0 {
		return fmt.Errorf("vcoMaxMHz must be >= 0, got %g", p.VCOMaxMHz)
	}
	if p.MaxFreqMHz < 0 {
		return fmt.Errorf("maxFreqMHz must be >= 0, got %g", p.MaxFreqMHz)
	}
	if p.MaxDiff < 0 {
		return fmt.Errorf("maxDiff must be >= 0, got %g", p.MaxDiff)
	}
	return nil
}

func validateDividerValues(field string, values []int) error {
	for _, v := range values {
		if v < 1 || v > math.MaxUint8 {
			return fmt.Errorf("%s must be between 1 and %d, got %d", field, math.MaxUint8, v)
		}
	}
	return nil
}

// Params converts the profile into solver parameters. Divider value sets are
// deduplicated and sorted ascending.
func (p *HardwareProfile) Params() core.Params {
	return core.Params{
		RefClock:       p.RefClockMHz,
		MinFeedbackDiv: p.MinFeedbackDiv,
		MaxFeedbackDiv: p.MaxFeedbackDiv,
		RefDivValues:   set.New(p.RefDivValues...).SortedList(),
		PostDiv1Values: set.New(p.PostDiv1Values...).SortedList(),
		VCOMax:         p.VCOMaxMHz,
		MaxFreq:        p.MaxFreqMHz,
		MaxDiff:        p.MaxDiff,
	}
}

// merge returns base with every non-zero field of override applied.
func merge(base, override HardwareProfile) HardwareProfile {
	result := base
	if override.Name != "" {
		result.Name = override.Name
	}
	if override.RefClockMHz != 0 {
		result.RefClockMHz = override.RefClockMHz
	}
	if override.MinFeedbackDiv != 0 {
		result.MinFeedbackDiv = override.MinFeedbackDiv
	}
	if override.MaxFeedbackDiv != 0 {
		result.MaxFeedbackDiv = override.MaxFeedbackDiv
	}
	if len(override.RefDivValues) > 0 {
		result.RefDivValues = append([]int(nil), override.RefDivValues...)
	}
	if len(override.PostDiv1Values) > 0 {
		result.PostDiv1Values = append([]int(nil), override.PostDiv1Values...)
	}
	if override.VCOMaxMHz != 0 {
		result.VCOMaxMHz = override.VCOMaxMHz
	}
	if override.MaxFreqMHz != 0 {
		result.MaxFreqMHz = override.MaxFreqMHz
	}
	if override.MaxDiff != 0 {
		result.MaxDiff = override.MaxDiff
	}
	return result
}
