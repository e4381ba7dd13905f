package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	_, err := Load("/nonexistent/path/hybridkv.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent path")
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Migration.Ratio != 0.002 {
		t.Errorf("default migration ratio: got %v", cfg.Migration.Ratio)
	}
	if cfg.Model.RMIFanout != 1000 {
		t.Errorf("default rmi fanout: got %d", cfg.Model.RMIFanout)
	}
	if cfg.Bloom.ExpectedItems != 100000 {
		t.Errorf("default bloom expected items: got %d", cfg.Bloom.ExpectedItems)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	content := `
migration:
  ratio: 0.01
model:
  rmi_fanout: 200
bloom:
  expected_items: 5000
  false_positive_rate: 0.05
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Migration.Ratio != 0.01 {
		t.Errorf("migration ratio: got %v", cfg.Migration.Ratio)
	}
	if cfg.Model.RMIFanout != 200 {
		t.Errorf("rmi fanout: got %d", cfg.Model.RMIFanout)
	}
	if cfg.Bloom.ExpectedItems != 5000 {
		t.Errorf("bloom expected items: got %d", cfg.Bloom.ExpectedItems)
	}
	if cfg.Bloom.FalsePositiveRate != 0.05 {
		t.Errorf("bloom false positive rate: got %v", cfg.Bloom.FalsePositiveRate)
	}
}

func TestLoadFillsMissingFieldsWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	if err := os.WriteFile(path, []byte("migration:\n  ratio: 0.05\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Migration.Ratio != 0.05 {
		t.Errorf("migration ratio: got %v", cfg.Migration.Ratio)
	}
	if cfg.Model.RMIFanout != 1000 {
		t.Errorf("expected default rmi fanout to fill in, got %d", cfg.Model.RMIFanout)
	}
}
