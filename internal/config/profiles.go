package config

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/llm-d/pll-table-generator/internal/logging"
)

// ProfileData holds hardware profile overrides keyed by profile name, plus the
// global defaults under GlobalDefaultsKey.
type ProfileData map[string]HardwareProfile

// ParseProfiles parses a profiles file and layers it over the built-in profiles.
// The file format:
//   - "default": global defaults for all profiles
//   - "<key>": a profile override; its name is the name field, or the key when unset
//
// Entries that fail to decode or validate are skipped with a log line. When two
// entries share a name, the first key in sorted order wins.
func ParseProfiles(ctx context.Context, raw []byte) (ProfileData, error) {
	logger := logging.FromContext(ctx)
	out := BuiltinProfiles()

	var entries map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("profiles file must be a mapping of profile names: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	nameToKey := make(map[string]string)
	for _, key := range keys {
		node := entries[key]

		var profile HardwareProfile
		if err := node.Decode(&profile); err != nil {
			logger.Info("Failed to parse hardware profile entry, skipping",
				"key", key,
				"error", err)
			continue
		}

		if err := profile.validateOverride(); err != nil {
			logger.Info("Invalid hardware profile entry, skipping",
				"key", key,
				"error", err)
			continue
		}

		// Handle global defaults
		if key == GlobalDefaultsKey {
			out[GlobalDefaultsKey] = merge(out[GlobalDefaultsKey], profile)
			continue
		}

		if profile.Name == "" {
			profile.Name = key
		}
		if winningKey, exists := nameToKey[profile.Name]; exists {
			logger.Info("Duplicate profile name found in profiles file - first key wins",
				"name", profile.Name,
				"winningKey", winningKey,
				"duplicateKey", key)
			continue
		}
		nameToKey[profile.Name] = key

		// file entries refine a built-in profile of the same name
		out[profile.Name] = merge(out[profile.Name], profile)
	}

	logger.V(logging.DEBUG).Info("Parsed hardware profiles",
		"profileCount", len(out)-1)

	return out, nil
}

// GetProfile returns the effective profile for name: the global defaults with
// the named override applied. The result is validated.
func (data ProfileData) GetProfile(name string) (HardwareProfile, error) {
	override, ok := data[name]
	if !ok || name == GlobalDefaultsKey {
		return HardwareProfile{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownProfile, name, data.Names())
	}

	defaults, ok := data[GlobalDefaultsKey]
	if !ok {
		defaults = DefaultProfile()
	}
	result := merge(defaults, override)
	result.Name = name

	if err := result.Validate(); err != nil {
		return HardwareProfile{}, fmt.Errorf("%w %q: %w", ErrInvalidProfile, name, err)
	}
	return result, nil
}

// Names returns the selectable profile names in sorted order.
func (data ProfileData) Names() []string {
	names := make([]string, 0, len(data))
	for name := range data {
		if name != GlobalDefaultsKey {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
