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
Package logging provides the structured logger used across bufsort.

The logging package implements:
  - Multiple log levels (DEBUG, INFO, WARN, ERROR)
  - Structured logging with key-value fields
  - Component-based logging for easy filtering
  - Text or JSON line output
  - ANSI colours only when the output is an interactive terminal

Usage:

	logger := logging.NewLogger("bufferpool")
	logger.Info("Pool opened", "file", path, "buffers", n)
	logger.Error("Write-back failed", "error", err, "pos", pos)
*/
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// Level represents the severity of a log message.
type Level int

const (
	// DEBUG level for detailed debugging information.
	DEBUG Level = iota
	// INFO level for general operational information.
	INFO
	// WARN level for warning conditions.
	WARN
	// ERROR level for error conditions.
	ERROR
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// Entry represents a single log entry with all its metadata.
type Entry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Component string                 `json:"component"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`

	ordered []Field
}

// Logger provides structured logging capabilities.
type Logger struct {
	component string
	mu        sync.Mutex
}

// Config holds logger configuration options.
type Config struct {
	Level    Level
	Output   io.Writer
	JSONMode bool
	Color    bool
}

// DefaultConfig returns the default logger configuration.
// Logs go to standard error so stdout stays free for command output.
func DefaultConfig() Config {
	return Config{
		Level:    INFO,
		Output:   os.Stderr,
		JSONMode: false,
		Color:    isTerminal(os.Stderr),
	}
}

// globalConfig holds the global logger configuration.
var (
	globalConfig = DefaultConfig()
	globalMu     sync.RWMutex
)

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// SetGlobalLevel sets the global log level.
func SetGlobalLevel(level Level) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig.Level = level
}

// GlobalLevel returns the global log level.
func GlobalLevel() Level {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig.Level
}

// SetGlobalOutput sets the global log output. Colours follow the new output:
// they are enabled only if w is a terminal.
func SetGlobalOutput(w io.Writer) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig.Output = w
	globalConfig.Color = isTerminal(w)
}

// SetJSONMode enables or disables JSON output mode.
func SetJSONMode(enabled bool) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig.JSONMode = enabled
}

// NewLogger creates a new Logger for the specified component.
func NewLogger(component string) *Logger {
	return &Logger{component: component}
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= GlobalLevel()
}

// log writes a log entry at the specified level.
func (l *Logger) log(level Level, msg string, args ...interface{}) {
	globalMu.RLock()
	cfg := globalConfig
	globalMu.RUnlock()

	if level < cfg.Level {
		return
	}

	entry := Entry{
		Timestamp: time.Now().UTC(),
		Level:     level.String(),
		Component: l.component,
		Message:   msg,
	}

	// Parse key-value pairs from args
	if len(args) > 0 {
		entry.Fields = make(map[string]interface{})
		for i := 0; i < len(args)-1; i += 2 {
			key, ok := args[i].(string)
			if !ok {
				key = fmt.Sprintf("arg%d", i)
			}
			entry.Fields[key] = args[i+1]
			entry.ordered = append(entry.ordered, Field{Key: key, Value: args[i+1]})
		}
		// Handle odd number of args
		if len(args)%2 != 0 {
			entry.Fields["extra"] = args[len(args)-1]
			entry.ordered = append(entry.ordered, Field{Key: "extra", Value: args[len(args)-1]})
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if cfg.JSONMode {
		writeJSON(cfg.Output, entry)
	} else {
		writeText(cfg.Output, entry, cfg.Color)
	}
}

// writeJSON writes the entry in JSON format.
func writeJSON(w io.Writer, entry Entry) {
	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(w, "ERROR: failed to marshal log entry: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(data))
}

// writeText writes the entry in human-readable text format.
func writeText(w io.Writer, entry Entry, color bool) {
	// Format: 2006-01-02T15:04:05.000Z [LEVEL] [component] message key=value ...
	timestamp := entry.Timestamp.Format("2006-01-02T15:04:05.000Z")

	levelColor, resetColor := "", ""
	if color {
		switch entry.Level {
		case "DEBUG":
			levelColor = "\033[36m" // Cyan
		case "INFO":
			levelColor = "\033[32m" // Green
		case "WARN":
			levelColor = "\033[33m" // Yellow
		case "ERROR":
			levelColor = "\033[31m" // Red
		}
		resetColor = "\033[0m"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s[%-5s]%s [%s] %s",
		timestamp, levelColor, entry.Level, resetColor, entry.Component, entry.Message)
	for _, f := range entry.ordered {
		fmt.Fprintf(&sb, " %s=%v", f.Key, f.Value)
	}

	fmt.Fprintln(w, sb.String())
}

// Debug logs a message at DEBUG level.
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(DEBUG, msg, args...)
}

// Info logs a message at INFO level.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(INFO, msg, args...)
}

// Warn logs a message at WARN level.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(WARN, msg, args...)
}

// Error logs a message at ERROR level.
func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(ERROR, msg, args...)
}

// With returns a logger with additional default fields.
func (l *Logger) With(args ...interface{}) *ContextLogger {
	return &ContextLogger{
		logger: l,
		fields: append([]interface{}(nil), args...),
	}
}

// ContextLogger is a logger with pre-set context fields.
type ContextLogger struct {
	logger *Logger
	fields []interface{}
}

// Debug logs a message at DEBUG level with context fields.
func (c *ContextLogger) Debug(msg string, args ...interface{}) {
	c.logger.log(DEBUG, msg, c.mergeArgs(args)...)
}

// Info logs a message at INFO level with context fields.
func (c *ContextLogger) Info(msg string, args ...interface{}) {
	c.logger.log(INFO, msg, c.mergeArgs(args)...)
}

// Warn logs a message at WARN level with context fields.
func (c *ContextLogger) Warn(msg string, args ...interface{}) {
	c.logger.log(WARN, msg, c.mergeArgs(args)...)
}

// Error logs a message at ERROR level with context fields.
func (c *ContextLogger) Error(msg string, args ...interface{}) {
	c.logger.log(ERROR, msg, c.mergeArgs(args)...)
}

// mergeArgs merges context fields with additional args.
func (c *ContextLogger) mergeArgs(args []interface{}) []interface{} {
	result := make([]interface{}, 0, len(c.fields)+len(args))
	result = append(result, c.fields...)
	result = append(result, args...)
	return result
}
