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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BlockSize != 4096 {
		t.Errorf("Expected default block_size 4096, got %d", cfg.BlockSize)
	}
	if cfg.NumBuffers != 1 {
		t.Errorf("Expected default num_buffers 1, got %d", cfg.NumBuffers)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log_level 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.LogJSON != false {
		t.Errorf("Expected default log_json false, got %v", cfg.LogJSON)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"small block", func(c *Config) { c.BlockSize = 4 }, false},
		{"zero block", func(c *Config) { c.BlockSize = 0 }, true},
		{"negative block", func(c *Config) { c.BlockSize = -4096 }, true},
		{"unaligned block", func(c *Config) { c.BlockSize = 4098 }, true},
		{"zero buffers", func(c *Config) { c.NumBuffers = 0 }, true},
		{"many buffers", func(c *Config) { c.NumBuffers = 1000 }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"upper log level", func(c *Config) { c.LogLevel = "DEBUG" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlockSize = 3
	cfg.NumBuffers = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(err.Error(), "block_size") || !strings.Contains(err.Error(), "num_buffers") {
		t.Errorf("Expected both problems reported, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `# Test configuration
block_size = 512
num_buffers = 8   # trailing comment
log_level = "debug"
log_json = true
prom_file = '/tmp/bufsort.prom'
unknown_key = 1
`
	configPath := filepath.Join(tmpDir, "bufsort.conf")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	mgr := NewManager()
	if err := mgr.LoadFromFile(configPath); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	cfg := mgr.Get()

	if cfg.BlockSize != 512 {
		t.Errorf("Expected block_size 512, got %d", cfg.BlockSize)
	}
	if cfg.NumBuffers != 8 {
		t.Errorf("Expected num_buffers 8, got %d", cfg.NumBuffers)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log_level 'debug', got '%s'", cfg.LogLevel)
	}
	if cfg.LogJSON != true {
		t.Errorf("Expected log_json true, got %v", cfg.LogJSON)
	}
	if cfg.PromFile != "/tmp/bufsort.prom" {
		t.Errorf("Expected prom_file '/tmp/bufsort.prom', got '%s'", cfg.PromFile)
	}
	if cfg.ConfigFile != configPath {
		t.Errorf("Expected ConfigFile '%s', got '%s'", configPath, cfg.ConfigFile)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	mgr := NewManager()
	if err := mgr.LoadFromFile(filepath.Join(tmpDir, "missing.conf")); err == nil {
		t.Error("Expected error for missing file")
	}

	badPath := filepath.Join(tmpDir, "bad.conf")
	os.WriteFile(badPath, []byte("block_size = big\n"), 0644)
	if err := mgr.LoadFromFile(badPath); err == nil {
		t.Error("Expected error for non-numeric block_size")
	}

	noEquals := filepath.Join(tmpDir, "noequals.conf")
	os.WriteFile(noEquals, []byte("block_size 4096\n"), 0644)
	if err := mgr.LoadFromFile(noEquals); err == nil {
		t.Error("Expected error for line without '='")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvBlockSize, "1024")
	t.Setenv(EnvNumBuffers, "16")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogJSON, "1")
	t.Setenv(EnvPromFile, "run.prom")

	mgr := NewManager()
	mgr.LoadFromEnv()

	cfg := mgr.Get()

	if cfg.BlockSize != 1024 {
		t.Errorf("Expected block_size 1024 from env, got %d", cfg.BlockSize)
	}
	if cfg.NumBuffers != 16 {
		t.Errorf("Expected num_buffers 16 from env, got %d", cfg.NumBuffers)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected log_level 'warn' from env, got '%s'", cfg.LogLevel)
	}
	if !cfg.LogJSON {
		t.Error("Expected log_json true from env")
	}
	if cfg.PromFile != "run.prom" {
		t.Errorf("Expected prom_file 'run.prom' from env, got '%s'", cfg.PromFile)
	}
}

func TestConfigPrecedence(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "bufsort.conf")
	if err := os.WriteFile(configPath, []byte("block_size = 512\nnum_buffers = 2\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv(EnvBlockSize, "2048")

	mgr := NewManager()
	if err := mgr.LoadFromFile(configPath); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	mgr.LoadFromEnv()

	cfg := mgr.Get()

	// Env var should override file value
	if cfg.BlockSize != 2048 {
		t.Errorf("Expected block_size 2048 (env override), got %d", cfg.BlockSize)
	}
	// File value survives where env is silent
	if cfg.NumBuffers != 2 {
		t.Errorf("Expected num_buffers 2 from file, got %d", cfg.NumBuffers)
	}
}

func TestFindConfigFileFromEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom.conf")
	os.WriteFile(configPath, []byte("num_buffers = 3\n"), 0644)

	t.Setenv(EnvConfigFile, configPath)

	if got := FindConfigFile(); got != configPath {
		t.Errorf("Expected %s, got %s", configPath, got)
	}

	mgr := NewManager()
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if mgr.Get().NumBuffers != 3 {
		t.Errorf("Expected num_buffers 3, got %d", mgr.Get().NumBuffers)
	}
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "bufsort.conf")

	cfg := DefaultConfig()
	cfg.BlockSize = 256
	cfg.LogJSON = true
	cfg.PromFile = "out.prom"
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	mgr := NewManager()
	if err := mgr.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	got := mgr.Get()
	if got.BlockSize != 256 || !got.LogJSON || got.PromFile != "out.prom" {
		t.Errorf("Round trip lost values: %+v", got)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	mgr := NewManager()
	cfg := mgr.Get()
	cfg.BlockSize = 8

	if mgr.Get().BlockSize != DefaultBlockSize {
		t.Error("Get should return a copy")
	}
	if Global() != Global() {
		t.Error("Global should return the same manager")
	}
}

func TestConfigString(t *testing.T) {
	s := DefaultConfig().String()
	if !strings.Contains(s, "Block Size:   4096") {
		t.Errorf("Unexpected String output: %s", s)
	}
}
