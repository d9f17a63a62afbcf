// Package config resolves capplan settings from defaults, an optional YAML
// file and CAPPLAN_* environment variables, in increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDB             = "CAPPLAN_DB"
	EnvConfig         = "CAPPLAN_CONFIG"
	EnvLogUseCases    = "CAPPLAN_LOG_USECASES"
	EnvScenarioTTL    = "CAPPLAN_SCENARIO_TTL_DAYS"
	EnvRecommendLimit = "CAPPLAN_RECOMMEND_LIMIT"
	EnvImportChunk    = "CAPPLAN_IMPORT_CHUNK"
)

const (
	DefaultScenarioTTLDays = 30
	DefaultRecommendLimit  = 3
	DefaultImportChunkSize = 1000
)

type Config struct {
	DBPath      string `yaml:"db_path"`
	LogUseCases bool   `yaml:"log_use_cases"`
	// ScenarioTTLDays is how long an untouched scenario survives cleanup.
	// Zero means the default; a negative value disables cleanup.
	ScenarioTTLDays int `yaml:"scenario_ttl_days"`
	RecommendLimit  int `yaml:"recommend_limit"`
	ImportChunkSize int `yaml:"import_chunk_size"`
}

// ScenarioTTL returns the cleanup age, or 0 when cleanup is disabled.
func (c *Config) ScenarioTTL() time.Duration {
	if c.ScenarioTTLDays <= 0 {
		return 0
	}
	return time.Duration(c.ScenarioTTLDays) * 24 * time.Hour
}

// Home is the directory holding the default database and config file.
func Home() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".capplan"), nil
}

// Load reads the file named by CAPPLAN_CONFIG, or ~/.capplan/config.yaml
// when that exists, then applies environment overrides and defaults.
func Load() (*Config, error) {
	var cfg Config

	path, explicit := os.Getenv(EnvConfig), true
	if path == "" {
		explicit = false
		if dir, err := Home(); err == nil {
			path = filepath.Join(dir, "config.yaml")
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(data, &cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case explicit || !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse unmarshals YAML bytes into a validated Config. Environment
// variables are not consulted.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDB); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvLogUseCases); v != "" {
		c.LogUseCases, _ = strconv.ParseBool(v)
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{EnvScenarioTTL, &c.ScenarioTTLDays},
		{EnvRecommendLimit, &c.RecommendLimit},
		{EnvImportChunk, &c.ImportChunkSize},
	}
	for _, e := range ints {
		v := strings.TrimSpace(os.Getenv(e.name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %q is not a whole number", e.name, v)
		}
		*e.dst = n
	}
	return nil
}

// applyDefaults fills in unset values.
func (c *Config) applyDefaults() {
	if c.DBPath == "" {
		if dir, err := Home(); err == nil {
			c.DBPath = filepath.Join(dir, "capplan.db")
		}
	}
	if c.ScenarioTTLDays == 0 {
		c.ScenarioTTLDays = DefaultScenarioTTLDays
	}
	if c.RecommendLimit == 0 {
		c.RecommendLimit = DefaultRecommendLimit
	}
	if c.ImportChunkSize == 0 {
		c.ImportChunkSize = DefaultImportChunkSize
	}
}

// validate checks that all settings are usable.
func (c *Config) validate() error {
	var errs []string
	if c.DBPath == "" {
		errs = append(errs, "db_path is required")
	}
	if c.RecommendLimit < 1 {
		errs = append(errs, fmt.Sprintf("recommend_limit must be at least 1, got %d", c.RecommendLimit))
	}
	if c.ImportChunkSize < 1 {
		errs = append(errs, fmt.Sprintf("import_chunk_size must be at least 1, got %d", c.ImportChunkSize))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
