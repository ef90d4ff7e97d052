// Package runconfig loads, validates, and normalizes ShorelineS run
// configurations.
//
// A run configuration is an open-ended mapping from parameter name to
// scalar, list, or date value. Only a handful of keys carry meaning to this
// package (reserved metadata keys, required keys); everything else passes
// through untouched so the engine sees exactly what the YAML author wrote.
// Key case is preserved: the engine's struct field names are case-sensitive.
package runconfig

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is a run configuration mapping.
type Config map[string]any

// MissingFieldsError reports which required keys a configuration lacks.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Load reads a YAML run configuration from path. Reserved metadata keys are
// dropped; no other schema enforcement is applied.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg == nil {
		cfg = Config{}
	}

	delete(cfg, KeyConfigVersion)
	delete(cfg, KeyDescription)

	return cfg, nil
}

// MissingFields returns the required keys absent from cfg, in the order they
// were requested. When required is empty, RequiredFields is used.
func MissingFields(cfg Config, required ...string) []string {
	if len(required) == 0 {
		required = RequiredFields
	}
	var missing []string
	for _, f := range required {
		if _, ok := cfg[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Validate reports whether every required key is present in cfg. Missing
// keys are logged as a warning. When required is empty, RequiredFields is
// used.
func Validate(cfg Config, required ...string) bool {
	missing := MissingFields(cfg, required...)
	if len(missing) > 0 {
		slog.Warn("missing required fields", "fields", strings.Join(missing, ", "))
		return false
	}
	return true
}

// Check is the error-returning form of Validate: it returns a
// *MissingFieldsError naming the absent keys, or nil when the configuration
// is complete.
func Check(cfg Config, required ...string) error {
	missing := MissingFields(cfg, required...)
	if len(missing) > 0 {
		slog.Warn("missing required fields", "fields", strings.Join(missing, ", "))
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

// NormalizeDates returns a copy of cfg with every date or datetime value
// rendered as a DefaultDateFormat string. All other values pass through
// unchanged, so normalizing twice yields the same mapping.
func NormalizeDates(cfg Config) Config {
	out := make(Config, len(cfg))
	for key, val := range cfg {
		if t, ok := val.(time.Time); ok {
			out[key] = t.Format(DefaultDateFormat)
			continue
		}
		out[key] = val
	}
	return out
}

// Keys returns the configuration's keys in sorted order. Mapping iteration
// is unordered in Go; the engine record builder needs a stable order.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
