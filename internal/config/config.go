// Package config reads the core's runtime behavior from environment
// variables (spec §6 "Configuration"). There is no config file: every
// example repo in the pack that has a 12-factor config layer reads plain
// os.Getenv with explicit overrides rather than a YAML/viper layer, so this
// package follows that convention directly.
package config

import "os"

// PatternsMode selects which pattern-library variant to load.
type PatternsMode string

const (
	PatternsBaseline PatternsMode = "baseline"
	PatternsExpanded PatternsMode = "expanded"
	PatternsHybrid   PatternsMode = "hybrid"
)

// Config is the resolved runtime configuration for one pipeline run.
type Config struct {
	DynamicPatterns bool
	PatternsMode    PatternsMode
	Deduplicate     bool
	DedupRaw        bool
	EntityFilter    bool
	PrecisionMode   bool
	CorefDebug      bool
	DedupDebug      bool

	LogLevel  string
	LogFormat string
}

// Load reads Config from the process environment, applying spec §6's
// documented defaults for any variable left unset.
func Load() *Config {
	return &Config{
		DynamicPatterns: isOn(os.Getenv("DYNAMIC_PATTERNS")),
		PatternsMode:    patternsMode(os.Getenv("PATTERNS_MODE")),
		Deduplicate:     !isOff(os.Getenv("DEDUPLICATE")),
		DedupRaw:        os.Getenv("DEDUP_RAW") == "1",
		EntityFilter:    !isOff(os.Getenv("ENTITY_FILTER")),
		PrecisionMode:   os.Getenv("PRECISION_MODE") == "strict",
		CorefDebug:      os.Getenv("COREF_DEBUG") == "1",
		DedupDebug:      os.Getenv("DEDUP_DEBUG") == "1",

		LogLevel:  envOr("GRAPHCTL_LOG_LEVEL", "info"),
		LogFormat: envOr("GRAPHCTL_LOG_FORMAT", "console"),
	}
}

func isOn(v string) bool  { return v == "on" || v == "1" }
func isOff(v string) bool { return v == "off" || v == "0" }

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func patternsMode(v string) PatternsMode {
	switch PatternsMode(v) {
	case PatternsExpanded:
		return PatternsExpanded
	case PatternsHybrid:
		return PatternsHybrid
	default:
		return PatternsBaseline
	}
}
