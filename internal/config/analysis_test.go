package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAnalysisConfigMissingFileReturnsDefault(t *testing.T) {
	cfg, err := LoadAnalysisConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.LegacyReflectObject {
		t.Errorf("default config should keep LegacyReflectObject enabled")
	}
}

func TestLoadAnalysisConfigParsesSuppressions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typecheck.yaml")
	content := "diagnostics:\n  suppress:\n    - PARSE_ERROR\nlegacyReflectObject: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadAnalysisConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Suppressed("PARSE_ERROR") {
		t.Errorf("PARSE_ERROR should be suppressed")
	}
	if cfg.Suppressed("TYPE_MISMATCH") {
		t.Errorf("TYPE_MISMATCH was not listed, should not be suppressed")
	}
	if cfg.LegacyReflectObject {
		t.Errorf("legacyReflectObject: false should disable the flag")
	}
}
