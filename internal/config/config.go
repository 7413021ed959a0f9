// Package config provides configuration loading and structs for the Kaiseki server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/kaiseki/internal/analyzer"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the query history database path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// AnalyzerConfig holds analyzer tuning and the optional tables override file.
type AnalyzerConfig struct {
	// TablesPath points at a YAML file overriding the built-in lookup
	// tables. Empty means built-ins only.
	TablesPath string      `yaml:"tables_path"`
	MaxRelated int         `yaml:"max_related"`
	Spell      SpellConfig `yaml:"spell"`
}

// SpellConfig holds spell-check settings.
type SpellConfig struct {
	Enabled      *bool `yaml:"enabled"`
	MaxDistance  int   `yaml:"max_distance"`
	MinFrequency int   `yaml:"min_frequency"`
}

// SpellEnabled returns whether spell checking is on; defaults to true when unset.
func (s *SpellConfig) SpellEnabled() bool {
	if s.Enabled != nil {
		return *s.Enabled
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	if cfg.Analyzer.TablesPath != "" {
		cfg.Analyzer.TablesPath = expandPath(cfg.Analyzer.TablesPath, configDir)
	}

	return &cfg, nil
}

// LoadTables reads an analyzer tables override file. Missing tables fall
// back to the built-in defaults on compile.
func LoadTables(path string) (*analyzer.TablesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables file: %w", err)
	}
	var tables analyzer.TablesConfig
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("failed to parse tables file: %w", err)
	}
	return &tables, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
