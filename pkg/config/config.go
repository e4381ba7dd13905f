package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every knob the hybrid index and its migrator read at
// construction time. Nothing here is read again afterward — configuration
// is per-instance rather than process-wide global flags, so multiple
// hybrids in the same process can run with different settings.
type Config struct {
	Migration MigrationConfig `yaml:"migration"`
	Model     ModelConfig     `yaml:"model"`
	Bloom     BloomConfig     `yaml:"bloom"`
}

type MigrationConfig struct {
	// Ratio is the fraction of total_size the read-write delta may reach
	// before a migration is triggered. Defaults to 0.002; exposed here for
	// experimentation rather than hardcoded, the same way analogous
	// flush/compaction thresholds are usually made tunable.
	Ratio float64 `yaml:"ratio"`
}

type ModelConfig struct {
	// RMIFanout is the number of second-layer linear models trained over
	// the base index's key range.
	RMIFanout int `yaml:"rmi_fanout"`
}

type BloomConfig struct {
	ExpectedItems     uint    `yaml:"expected_items"`
	FalsePositiveRate float64 `yaml:"false_positive_rate"`
}

// Load reads YAML configuration from path, filling any zero-valued field
// with its default. An empty path falls back to a fixed default
// configuration without touching the filesystem.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Migration: MigrationConfig{Ratio: 0.002},
		Model:     ModelConfig{RMIFanout: 1000},
		Bloom:     BloomConfig{ExpectedItems: 100000, FalsePositiveRate: 0.01},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Migration.Ratio <= 0 {
		cfg.Migration.Ratio = 0.002
	}
	if cfg.Model.RMIFanout <= 0 {
		cfg.Model.RMIFanout = 1000
	}
	if cfg.Bloom.ExpectedItems == 0 {
		cfg.Bloom.ExpectedItems = 100000
	}
	if cfg.Bloom.FalsePositiveRate <= 0 || cfg.Bloom.FalsePositiveRate >= 1 {
		cfg.Bloom.FalsePositiveRate = 0.01
	}
}
