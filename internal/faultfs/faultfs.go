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

// Package faultfs wraps an afero.Fs so that file reads or writes start
// failing after a fixed number of successful calls. It is used to drive
// I/O failure paths in tests.
package faultfs

import (
	"errors"
	"os"
	"sync/atomic"

	"github.com/spf13/afero"
)

// ErrInjected is returned by every operation that has been made to fail.
var ErrInjected = errors.New("faultfs: injected I/O failure")

// Fs fails ReadAt and WriteAt once their budgets are used up.
// A negative budget never fails.
type Fs struct {
	afero.Fs

	readBudget  atomic.Int64
	writeBudget atomic.Int64
	syncFails   atomic.Bool
	open        atomic.Int64
}

// New wraps base. All operations succeed until a budget is set.
func New(base afero.Fs) *Fs {
	f := &Fs{Fs: base}
	f.readBudget.Store(-1)
	f.writeBudget.Store(-1)
	return f
}

// FailReadsAfter lets n more ReadAt calls succeed.
func (f *Fs) FailReadsAfter(n int64) { f.readBudget.Store(n) }

// FailWritesAfter lets n more WriteAt calls succeed.
func (f *Fs) FailWritesAfter(n int64) { f.writeBudget.Store(n) }

// FailSync makes every Sync fail.
func (f *Fs) FailSync() { f.syncFails.Store(true) }

// OpenFiles returns the number of handles opened through f and not yet closed.
func (f *Fs) OpenFiles() int64 { return f.open.Load() }

// Name implements afero.Fs.
func (f *Fs) Name() string { return "FaultFs(" + f.Fs.Name() + ")" }

// Open implements afero.Fs.
func (f *Fs) Open(name string) (afero.File, error) {
	file, err := f.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	f.open.Add(1)
	return &faultFile{File: file, fs: f}, nil
}

// OpenFile implements afero.Fs.
func (f *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	f.open.Add(1)
	return &faultFile{File: file, fs: f}, nil
}

// take consumes one unit of budget and reports whether the call may proceed.
func take(budget *atomic.Int64) bool {
	for {
		n := budget.Load()
		if n < 0 {
			return true
		}
		if n == 0 {
			return false
		}
		if budget.CompareAndSwap(n, n-1) {
			return true
		}
	}
}

type faultFile struct {
	afero.File
	fs     *Fs
	closed atomic.Bool
}

func (f *faultFile) Close() error {
	if f.closed.CompareAndSwap(false, true) {
		f.fs.open.Add(-1)
	}
	return f.File.Close()
}

func (f *faultFile) ReadAt(p []byte, off int64) (int, error) {
	if !take(&f.fs.readBudget) {
		return 0, ErrInjected
	}
	return f.File.ReadAt(p, off)
}

func (f *faultFile) WriteAt(p []byte, off int64) (int, error) {
	if !take(&f.fs.writeBudget) {
		return 0, ErrInjected
	}
	return f.File.WriteAt(p, off)
}

func (f *faultFile) Sync() error {
	if f.fs.syncFails.Load() {
		return ErrInjected
	}
	return f.File.Sync()
}
