/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package config provides configuration management for bufsort.

The configuration system supports multiple sources with clear precedence:
 1. Command-line flags (highest priority)
 2. Environment variables
 3. Configuration file
 4. Default values (lowest priority)

Configuration File Format:
The configuration file uses a small TOML subset (key = value, # comments).

Example configuration file:

	# bufsort configuration
	block_size = 4096   # bytes per cache line, multiple of 4
	num_buffers = 4     # default when not given on the command line
	log_level = "info"
	log_json = false
	prom_file = "/var/lib/node_exporter/bufsort.prom"

Environment Variables:
  - BUFSORT_BLOCK_SIZE: Cache line size in bytes
  - BUFSORT_NUM_BUFFERS: Number of cache lines
  - BUFSORT_LOG_LEVEL: Log level (debug, info, warn, error)
  - BUFSORT_LOG_JSON: Enable JSON logging (true/false)
  - BUFSORT_PROM_FILE: Write a Prometheus textfile after each run
  - BUFSORT_CONFIG_FILE: Path to configuration file
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"bufsort/internal/record"
)

// Environment variable names for configuration.
const (
	EnvBlockSize  = "BUFSORT_BLOCK_SIZE"
	EnvNumBuffers = "BUFSORT_NUM_BUFFERS"
	EnvLogLevel   = "BUFSORT_LOG_LEVEL"
	EnvLogJSON    = "BUFSORT_LOG_JSON"
	EnvPromFile   = "BUFSORT_PROM_FILE"
	EnvConfigFile = "BUFSORT_CONFIG_FILE"
)

// DefaultBlockSize is the reference cache line size in bytes.
const DefaultBlockSize = 4096

// Default configuration file paths (searched in order).
var DefaultConfigPaths = []string{
	"/etc/bufsort/bufsort.conf",
	"$HOME/.config/bufsort/bufsort.conf",
	"./bufsort.conf",
}

// Config holds all configuration values for bufsort.
type Config struct {
	// Buffer pool configuration
	BlockSize  int `toml:"block_size" json:"block_size"`
	NumBuffers int `toml:"num_buffers" json:"num_buffers"`

	// Logging configuration
	LogLevel string `toml:"log_level" json:"log_level"`
	LogJSON  bool   `toml:"log_json" json:"log_json"`

	// Metrics
	PromFile string `toml:"prom_file" json:"prom_file"` // empty = disabled

	// Metadata
	ConfigFile string `toml:"-" json:"-"` // Path to loaded config file
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		BlockSize:  DefaultBlockSize,
		NumBuffers: 1,
		LogLevel:   "info",
		LogJSON:    false,
	}
}

// Manager handles configuration loading, validation, and access.
type Manager struct {
	config *Config
	mu     sync.RWMutex
}

// NewManager creates a new configuration manager with default values.
func NewManager() *Manager {
	return &Manager{
		config: DefaultConfig(),
	}
}

// Global manager instance for convenience.
var globalManager = NewManager()

// Global returns the global configuration manager.
func Global() *Manager {
	return globalManager
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg := *m.config
	return &cfg
}

// Set updates the configuration.
func (m *Manager) Set(cfg *Config) {
	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if c.BlockSize <= 0 || c.BlockSize%record.RecordSize != 0 {
		errs = append(errs, fmt.Sprintf("invalid block_size: %d (must be a positive multiple of %d)", c.BlockSize, record.RecordSize))
	}
	if c.NumBuffers < 1 {
		errs = append(errs, fmt.Sprintf("invalid num_buffers: %d (must be at least 1)", c.NumBuffers))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log_level: %s (must be debug, info, warn, or error)", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// LoadFromFile loads configuration from a TOML file.
func (m *Manager) LoadFromFile(path string) error {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := parseTOML(string(data), cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ConfigFile = path
	m.Set(cfg)
	return nil
}

// LoadFromEnv loads configuration from environment variables.
// This merges with existing configuration (env vars override file values).
func (m *Manager) LoadFromEnv() {
	cfg := m.Get()

	if v := os.Getenv(EnvBlockSize); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			cfg.BlockSize = size
		}
	}
	if v := os.Getenv(EnvNumBuffers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.NumBuffers = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogJSON); v != "" {
		cfg.LogJSON = parseBool(v)
	}
	if v := os.Getenv(EnvPromFile); v != "" {
		cfg.PromFile = v
	}

	m.Set(cfg)
}

// FindConfigFile searches for a configuration file in default locations.
// Returns the path to the first file found, or empty string if none found.
func FindConfigFile() string {
	if envPath := os.Getenv(EnvConfigFile); envPath != "" {
		if _, err := os.Stat(os.ExpandEnv(envPath)); err == nil {
			return os.ExpandEnv(envPath)
		}
	}

	for _, path := range DefaultConfigPaths {
		expandedPath := os.ExpandEnv(path)
		if _, err := os.Stat(expandedPath); err == nil {
			return expandedPath
		}
	}

	return ""
}

// Load loads configuration from all sources with proper precedence.
// Order: defaults -> config file -> environment variables
// Command-line flags should be applied after calling this function.
func (m *Manager) Load() error {
	if configPath := FindConfigFile(); configPath != "" {
		if err := m.LoadFromFile(configPath); err != nil {
			return err
		}
	}

	m.LoadFromEnv()
	return nil
}

// parseTOML is a simple TOML parser for our configuration format.
func parseTOML(data string, cfg *Config) error {
	lines := strings.Split(data, "\n")

	for lineNum, line := range lines {
		if idx := strings.Index(line, "#"); idx != -1 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("line %d: invalid syntax: %s", lineNum+1, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes from string values
		if len(value) >= 2 && ((value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'')) {
			value = value[1 : len(value)-1]
		}

		if err := applyConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("line %d: %w", lineNum+1, err)
		}
	}

	return nil
}

// applyConfigValue applies a key-value pair to the configuration.
func applyConfigValue(cfg *Config, key, value string) error {
	switch key {
	case "block_size":
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid block_size value: %s", value)
		}
		cfg.BlockSize = size
	case "num_buffers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid num_buffers value: %s", value)
		}
		cfg.NumBuffers = n
	case "log_level":
		cfg.LogLevel = value
	case "log_json":
		cfg.LogJSON = parseBool(value)
	case "prom_file":
		cfg.PromFile = value
	default:
		// Ignore unknown keys for forward compatibility
	}

	return nil
}

func parseBool(v string) bool {
	return strings.ToLower(v) == "true" || v == "1"
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("bufsort configuration:\n")
	sb.WriteString(fmt.Sprintf("  Block Size:   %d\n", c.BlockSize))
	sb.WriteString(fmt.Sprintf("  Num Buffers:  %d\n", c.NumBuffers))
	sb.WriteString(fmt.Sprintf("  Log Level:    %s\n", c.LogLevel))
	sb.WriteString(fmt.Sprintf("  Log JSON:     %v\n", c.LogJSON))
	if c.PromFile != "" {
		sb.WriteString(fmt.Sprintf("  Prom File:    %s\n", c.PromFile))
	}
	if c.ConfigFile != "" {
		sb.WriteString(fmt.Sprintf("  Config File:  %s\n", c.ConfigFile))
	}
	return sb.String()
}

// ToTOML returns the configuration as a TOML string.
func (c *Config) ToTOML() string {
	var sb strings.Builder
	sb.WriteString("# bufsort configuration file\n\n")
	sb.WriteString("# Buffer pool\n")
	sb.WriteString(fmt.Sprintf("block_size = %d\n", c.BlockSize))
	sb.WriteString(fmt.Sprintf("num_buffers = %d\n\n", c.NumBuffers))
	sb.WriteString("# Logging\n")
	sb.WriteString(fmt.Sprintf("log_level = \"%s\"\n", c.LogLevel))
	sb.WriteString(fmt.Sprintf("log_json = %v\n", c.LogJSON))
	if c.PromFile != "" {
		sb.WriteString("\n# Prometheus textfile output\n")
		sb.WriteString(fmt.Sprintf("prom_file = \"%s\"\n", c.PromFile))
	}
	return sb.String()
}

// SaveToFile saves the configuration to a file.
func (c *Config) SaveToFile(path string) error {
	path = os.ExpandEnv(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(c.ToTOML()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
