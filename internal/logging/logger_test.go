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

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// capture redirects global output for the duration of a test.
func capture(t *testing.T, level Level, jsonMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetGlobalOutput(&buf)
	SetGlobalLevel(level)
	SetJSONMode(jsonMode)
	t.Cleanup(func() {
		cfg := DefaultConfig()
		SetGlobalOutput(cfg.Output)
		SetGlobalLevel(cfg.Level)
		SetJSONMode(cfg.JSONMode)
	})
	return &buf
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DEBUG,
		"DEBUG":   DEBUG,
		"info":    INFO,
		"warning": WARN,
		"WARN":    WARN,
		"error":   ERROR,
		"bogus":   INFO,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTextOutput(t *testing.T) {
	buf := capture(t, INFO, false)

	logger := NewLogger("bufferpool")
	logger.Debug("hidden")
	logger.Info("Pool opened", "buffers", 4, "block_size", 4096)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("DEBUG message should be filtered at INFO level")
	}
	if !strings.Contains(out, "[bufferpool] Pool opened buffers=4 block_size=4096") {
		t.Errorf("Unexpected text line: %q", out)
	}
	if strings.Contains(out, "\033[") {
		t.Error("Colour codes should not be written to a non-terminal")
	}
}

func TestJSONOutput(t *testing.T) {
	buf := capture(t, DEBUG, true)

	NewLogger("extsort").With("file", "data.bin").Debug("Range popped", "left", 0)

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to decode JSON log line: %v", err)
	}
	if entry.Component != "extsort" || entry.Level != "DEBUG" {
		t.Errorf("Unexpected entry: %+v", entry)
	}
	if entry.Fields["file"] != "data.bin" {
		t.Errorf("Expected context field, got %v", entry.Fields)
	}
}

func TestOddArgs(t *testing.T) {
	buf := capture(t, INFO, false)
	NewLogger("test").Warn("odd", "key", 1, "dangling")
	if !strings.Contains(buf.String(), "extra=dangling") {
		t.Errorf("Expected dangling arg under 'extra', got %q", buf.String())
	}
}

func TestEnabled(t *testing.T) {
	capture(t, WARN, false)
	logger := NewLogger("test")
	if logger.Enabled(INFO) {
		t.Error("INFO should be disabled at WARN level")
	}
	if !logger.Enabled(ERROR) {
		t.Error("ERROR should be enabled at WARN level")
	}
}
