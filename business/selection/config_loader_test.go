package selection

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("empty path should return the defaults unchanged")
	}
}

func TestLoadConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tunables.yaml")
	content := "num_clusters: 8\nbase_temperature: 0.7\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write tunables: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.NumClusters != 8 {
		t.Errorf("num_clusters = %d, want 8", cfg.NumClusters)
	}
	if cfg.BaseTemperature != 0.7 {
		t.Errorf("base_temperature = %v, want 0.7", cfg.BaseTemperature)
	}

	// untouched keys keep their defaults
	def := DefaultConfig()
	if cfg.MinScore != def.MinScore || cfg.MaxCandidates != def.MaxCandidates {
		t.Errorf("unrelated keys changed: %+v", cfg)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("a configured but missing file should error")
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("num_clusters: [not a number"), 0o600); err != nil {
		t.Fatalf("write tunables: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Errorf("malformed YAML should error")
	}
}
