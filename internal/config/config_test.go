package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DYNAMIC_PATTERNS", "")
	t.Setenv("PATTERNS_MODE", "")
	t.Setenv("DEDUPLICATE", "")
	t.Setenv("ENTITY_FILTER", "")
	t.Setenv("PRECISION_MODE", "")

	cfg := Load()
	if cfg.DynamicPatterns {
		t.Error("expected DynamicPatterns to default false")
	}
	if cfg.PatternsMode != PatternsBaseline {
		t.Errorf("PatternsMode = %s, want baseline", cfg.PatternsMode)
	}
	if !cfg.Deduplicate {
		t.Error("expected Deduplicate to default true")
	}
	if !cfg.EntityFilter {
		t.Error("expected EntityFilter to default true")
	}
	if cfg.PrecisionMode {
		t.Error("expected PrecisionMode to default false")
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "console" {
		t.Errorf("log defaults = %s/%s, want info/console", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadDisablesDeduplicateAndEntityFilter(t *testing.T) {
	t.Setenv("DEDUPLICATE", "off")
	t.Setenv("ENTITY_FILTER", "0")
	cfg := Load()
	if cfg.Deduplicate {
		t.Error("expected Deduplicate=off to disable it")
	}
	if cfg.EntityFilter {
		t.Error("expected ENTITY_FILTER=0 to disable it")
	}
}

func TestLoadEnablesDynamicPatternsAndStrictMode(t *testing.T) {
	t.Setenv("DYNAMIC_PATTERNS", "1")
	t.Setenv("PATTERNS_MODE", "expanded")
	t.Setenv("PRECISION_MODE", "strict")
	cfg := Load()
	if !cfg.DynamicPatterns {
		t.Error("expected DYNAMIC_PATTERNS=1 to enable it")
	}
	if cfg.PatternsMode != PatternsExpanded {
		t.Errorf("PatternsMode = %s, want expanded", cfg.PatternsMode)
	}
	if !cfg.PrecisionMode {
		t.Error("expected PRECISION_MODE=strict to enable it")
	}
}
