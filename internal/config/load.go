package config

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Configuration keys, shared by flags, environment variables and config files.
const (
	KeyProfile      = "profile"
	KeyProfilesFile = "profiles-file"
	KeyOutput       = "output"
	KeyFormat       = "format"
	KeyMetricsFile  = "metrics-file"
	KeyVerbosity    = "verbosity"
	KeyLogFormat    = "log-format"
	KeyHardware     = "hardware"

	// EnvPrefix prefixes every environment variable, e.g. PLLGEN_OUTPUT or
	// PLLGEN_HARDWARE_VCOMAXMHZ.
	EnvPrefix = "PLLGEN"

	DefaultOutput    = "pll_table.h"
	DefaultFormat    = "c-header"
	DefaultLogFormat = "console"
)

// hardwareKeys are the overridable HardwareProfile fields.
var hardwareKeys = []string{
	"refClockMHz",
	"minFeedbackDiv",
	"maxFeedbackDiv",
	"refDivValues",
	"postDiv1Values",
	"vcoMaxMHz",
	"maxFreqMHz",
	"maxDiff",
}

// Config holds the settings of one generator run.
type Config struct {
	// Profile names the hardware profile to generate for.
	Profile string `mapstructure:"profile"`

	// ProfilesFile is an optional YAML file with additional profiles.
	ProfilesFile string `mapstructure:"profiles-file"`

	// Output is the path of the generated table.
	Output string `mapstructure:"output"`

	// Format selects the table format, e.g. "c-header" or "yaml".
	Format string `mapstructure:"format"`

	// MetricsFile, when set, receives generation metrics in Prometheus text format.
	MetricsFile string `mapstructure:"metrics-file"`

	Verbosity int    `mapstructure:"verbosity"`
	LogFormat string `mapstructure:"log-format"`

	// Hardware overrides individual fields of the selected profile.
	Hardware HardwareProfile `mapstructure:"hardware"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyProfile, StandardProfileName)
	v.SetDefault(KeyOutput, DefaultOutput)
	v.SetDefault(KeyFormat, DefaultFormat)
	v.SetDefault(KeyVerbosity, 0)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
}

// Load reads the run configuration from v, which may already have flags bound.
// configFile, when non-empty, is read through fs. Environment variables use
// EnvPrefix; list values may be given as comma-separated strings.
func Load(v *viper.Viper, fs afero.Fs, configFile string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	for _, key := range hardwareKeys {
		if err := v.BindEnv(KeyHardware + "." + key); err != nil {
			return nil, fmt.Errorf("binding environment for %s.%s: %w", KeyHardware, key, err)
		}
	}

	if configFile != "" {
		v.SetFs(fs)
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	hook := mapstructure.ComposeDecodeHookFunc(
		intListHook(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the run settings. Hardware overrides are validated once merged
// into a profile.
func (c *Config) Validate() error {
	if c.Profile == "" {
		return fmt.Errorf("%s must not be empty", KeyProfile)
	}
	if c.Output == "" {
		return fmt.Errorf("%s must not be empty", KeyOutput)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("%s must be >= 0, got %d", KeyVerbosity, c.Verbosity)
	}
	if err := c.Hardware.validateOverride(); err != nil {
		return fmt.Errorf("%w: %s overrides: %w", ErrInvalidProfile, KeyHardware, err)
	}
	return nil
}

// ResolveProfile returns the selected hardware profile: built-in profiles,
// refined by the profiles file (read through fs), with the hardware overrides
// of c applied last.
func (c *Config) ResolveProfile(ctx context.Context, fs afero.Fs) (HardwareProfile, error) {
	profiles := BuiltinProfiles()
	if c.ProfilesFile != "" {
		raw, err := afero.ReadFile(fs, c.ProfilesFile)
		if err != nil {
			return HardwareProfile{}, fmt.Errorf("reading profiles file %s: %w", c.ProfilesFile, err)
		}
		profiles, err = ParseProfiles(ctx, raw)
		if err != nil {
			return HardwareProfile{}, fmt.Errorf("parsing profiles file %s: %w", c.ProfilesFile, err)
		}
	}

	profile, err := profiles.GetProfile(c.Profile)
	if err != nil {
		return HardwareProfile{}, err
	}

	overrides := c.Hardware
	overrides.Name = ""
	profile = merge(profile, overrides)
	if err := profile.Validate(); err != nil {
		return HardwareProfile{}, fmt.Errorf("%w %q with overrides: %w", ErrInvalidProfile, profile.Name, err)
	}
	return profile, nil
}

// intListHook decodes "1, 2,3" into []int, trimming spaces around each element.
func intListHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf([]int(nil)) {
			return data, nil
		}
		s := strings.TrimSpace(data.(string))
		if s == "" {
			return []int{}, nil
		}
		s = strings.Trim(s, "[]")
		parts := strings.Split(s, ",")
		out := make([]int, 0, len(parts))
		for _, part := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("invalid integer list %q: %w", data, err)
			}
			out = append(out, n)
		}
		return out, nil
	}
}
