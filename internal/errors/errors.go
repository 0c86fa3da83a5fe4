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
Package errors provides structured error handling for bufsort.

The errors package implements a small structured error system with:
  - Error categories (Validation, Storage, Execution)
  - Error codes for programmatic handling
  - User-friendly error messages with optional detail and hint
  - Error wrapping for root cause analysis

Error Categories:
  - ValidationError: bad arguments, bad configuration, nil collaborators
  - StorageError: the data file could not be opened, read or written
  - ExecutionError: the sort run was aborted

Low-level I/O failures are annotated where they happen (with
github.com/pkg/errors) and then classified here, so FormatError shows a
single line while errors.Unwrap still reaches the original *os.PathError.
*/
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error identifier.
type ErrorCode int

const (
	// Validation errors (1000-1999)
	ErrCodeValidation         ErrorCode = 1000
	ErrCodeInvalidArgument    ErrorCode = 1001
	ErrCodeInvalidBlockSize   ErrorCode = 1002
	ErrCodeInvalidBufferCount ErrorCode = 1003
	ErrCodeNilPool            ErrorCode = 1004
	ErrCodeInvalidFormat      ErrorCode = 1005

	// Storage errors (2000-2999)
	ErrCodeStorage    ErrorCode = 2000
	ErrCodeFileOpen   ErrorCode = 2001
	ErrCodeIOFailure  ErrorCode = 2002
	ErrCodePoolClosed ErrorCode = 2003

	// Execution errors (3000-3999)
	ErrCodeExecution   ErrorCode = 3000
	ErrCodeSortAborted ErrorCode = 3001
)

// Category represents the error category.
type Category string

const (
	CategoryValidation Category = "VALIDATION"
	CategoryStorage    Category = "STORAGE"
	CategoryExecution  Category = "EXECUTION"
)

// SortError represents a structured error in bufsort.
type SortError struct {
	Code     ErrorCode
	Category Category
	Message  string
	Detail   string
	Hint     string
	Cause    error
}

// Error implements the error interface.
func (e *SortError) Error() string {
	msg := fmt.Sprintf("ERROR %d (%s): %s", e.Code, e.Category, e.Message)
	if e.Detail != "" {
		msg += " - " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *SortError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly error message.
func (e *SortError) UserMessage() string {
	msg := fmt.Sprintf("ERROR: %s", e.Message)
	if e.Detail != "" {
		msg += fmt.Sprintf(" (%s)", e.Detail)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Hint != "" {
		msg += fmt.Sprintf("\nHINT: %s", e.Hint)
	}
	return msg
}

// WithDetail adds detail to the error.
func (e *SortError) WithDetail(detail string) *SortError {
	e.Detail = detail
	return e
}

// WithHint adds a hint to the error.
func (e *SortError) WithHint(hint string) *SortError {
	e.Hint = hint
	return e
}

// WithCause adds a cause to the error.
func (e *SortError) WithCause(cause error) *SortError {
	e.Cause = cause
	return e
}

// ============================================================================
// Validation Error Constructors
// ============================================================================

// NewValidationError creates a new validation error.
func NewValidationError(message string) *SortError {
	return &SortError{
		Code:     ErrCodeValidation,
		Category: CategoryValidation,
		Message:  message,
	}
}

// InvalidArgument creates an error for a malformed command-line argument.
func InvalidArgument(name, value string) *SortError {
	return &SortError{
		Code:     ErrCodeInvalidArgument,
		Category: CategoryValidation,
		Message:  fmt.Sprintf("invalid value for '%s'", name),
		Detail:   fmt.Sprintf("got %q", value),
	}
}

// InvalidBlockSize creates an error for an unusable block size.
func InvalidBlockSize(size, recordSize int) *SortError {
	return &SortError{
		Code:     ErrCodeInvalidBlockSize,
		Category: CategoryValidation,
		Message:  fmt.Sprintf("invalid block size: %d", size),
		Hint:     fmt.Sprintf("Block size must be a positive multiple of %d", recordSize),
	}
}

// InvalidBufferCount creates an error for a pool with no cache lines.
func InvalidBufferCount(n int) *SortError {
	return &SortError{
		Code:     ErrCodeInvalidBufferCount,
		Category: CategoryValidation,
		Message:  fmt.Sprintf("invalid number of buffers: %d", n),
		Hint:     "At least one buffer is required",
	}
}

// NilPool creates an error for a sort started without a pool.
func NilPool() *SortError {
	return &SortError{
		Code:     ErrCodeNilPool,
		Category: CategoryValidation,
		Message:  "buffer pool cannot be nil",
	}
}

// InvalidFormat creates an error for an unknown generator format flag.
func InvalidFormat(flag string) *SortError {
	return &SortError{
		Code:     ErrCodeInvalidFormat,
		Category: CategoryValidation,
		Message:  fmt.Sprintf("unknown file format: %s", flag),
		Hint:     "Use -a for ASCII records or -b for binary records",
	}
}

// ============================================================================
// Storage Error Constructors
// ============================================================================

// NewStorageError creates a new storage error.
func NewStorageError(message string) *SortError {
	return &SortError{
		Code:     ErrCodeStorage,
		Category: CategoryStorage,
		Message:  message,
	}
}

// FileOpenFailed creates an error for a data file that cannot be opened.
func FileOpenFailed(path string, cause error) *SortError {
	return &SortError{
		Code:     ErrCodeFileOpen,
		Category: CategoryStorage,
		Message:  fmt.Sprintf("cannot open data file %s", path),
		Cause:    cause,
	}
}

// IOFailure creates an error for a failed block read or write.
func IOFailure(op string, cause error) *SortError {
	return &SortError{
		Code:     ErrCodeIOFailure,
		Category: CategoryStorage,
		Message:  fmt.Sprintf("%s failed", op),
		Cause:    cause,
	}
}

// PoolClosed creates an error for use of a pool after Flush.
func PoolClosed() *SortError {
	return &SortError{
		Code:     ErrCodePoolClosed,
		Category: CategoryStorage,
		Message:  "buffer pool is closed",
		Hint:     "Flush is terminal; open a new pool to access the file again",
	}
}

// ============================================================================
// Execution Error Constructors
// ============================================================================

// NewExecutionError creates a new execution error.
func NewExecutionError(message string) *SortError {
	return &SortError{
		Code:     ErrCodeExecution,
		Category: CategoryExecution,
		Message:  message,
	}
}

// SortAborted wraps the failure that stopped a sort run.
func SortAborted(cause error) *SortError {
	return &SortError{
		Code:     ErrCodeSortAborted,
		Category: CategoryExecution,
		Message:  "sort aborted",
		Detail:   "the data file may be partially sorted",
		Cause:    cause,
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

// As finds the first *SortError in err's chain.
func As(err error) (*SortError, bool) {
	var e *SortError
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	if e, ok := As(err); ok {
		return e.Category == CategoryValidation
	}
	return false
}

// IsStorageError checks if an error is a storage error.
func IsStorageError(err error) bool {
	if e, ok := As(err); ok {
		return e.Category == CategoryStorage
	}
	return false
}

// IsExecutionError checks if an error is an execution error.
func IsExecutionError(err error) bool {
	if e, ok := As(err); ok {
		return e.Category == CategoryExecution
	}
	return false
}

// HasCode reports whether any *SortError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if e, ok := err.(*SortError); ok && e.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// GetCode returns the code of the outermost SortError, or 0 otherwise.
func GetCode(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.Code
	}
	return 0
}

// FormatError formats an error for user display.
func FormatError(err error) string {
	if e, ok := As(err); ok {
		return e.UserMessage()
	}
	return fmt.Sprintf("ERROR: %v", err)
}
