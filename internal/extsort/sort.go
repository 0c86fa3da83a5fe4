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
Package extsort sorts a file of fixed-size records in place, touching the
data only through a bufferpool.Pool.

Algorithm:
==========

The sort is a Hoare-style quicksort over byte offsets. For a range
[left, right] (both offsets of records):

 1. The pivot is the positional midpoint in record units,
    ((left/4 + right/4) / 2) * 4. It is not a median; sorted and
    reverse-sorted inputs take quadratic time.
 2. The pivot record is swapped with the record at right.
 3. [left, right-4] is partitioned around the pivot key. Records with a
    smaller key end up in front of the split point.
 4. The record at the split point and the pivot trade places, so the
    pivot lands at its final position.
 5. [left, split-4] and [split+4, right] are processed, left first.

Ranges are kept on an explicit stack rather than the call stack. The stack
is popped in the order a recursive implementation would visit the ranges, so
the sequence of pool calls, and with it every cache counter, is the same.

Keys are the first two bytes of a record read as a big-endian int16.
*/
package extsort

import (
	"time"

	"bufsort/internal/bufferpool"
	serrors "bufsort/internal/errors"
	"bufsort/internal/logging"
	"bufsort/internal/record"
)

const rs = record.RecordSize

// Result describes a completed sort run.
type Result struct {
	Records    int64         // whole records in the file
	Partitions int64         // ranges that were partitioned
	Swaps      int64         // record pairs exchanged
	MaxDepth   int           // largest number of pending ranges
	Elapsed    time.Duration // wall time spent sorting, excluding Flush
}

// span is a pending range of record offsets, inclusive at both ends.
type span struct {
	left, right int64
}

type sorter struct {
	pool   bufferpool.Pool
	size   int64
	result Result
}

var logger = logging.NewLogger("extsort")

// Sort sorts the whole file behind pool in place. It does not flush the pool.
func Sort(pool bufferpool.Pool) error {
	_, err := SortWithResult(pool)
	return err
}

// SortWithResult is Sort that also reports what the run did.
// Any failure from the pool aborts the run and is returned as a SortAborted
// error wrapping the cause; the file may then be partially sorted.
func SortWithResult(pool bufferpool.Pool) (Result, error) {
	if pool == nil {
		return Result{}, serrors.NilPool()
	}

	size, err := pool.DataFileSize()
	if err != nil {
		// A nil pointer behind the interface is reported like a nil pool.
		if serrors.HasCode(err, serrors.ErrCodeNilPool) {
			return Result{}, err
		}
		return Result{}, serrors.SortAborted(err)
	}

	s := &sorter{pool: pool, size: size}
	s.result.Records = record.Count(size)

	start := time.Now()
	err = s.run()
	s.result.Elapsed = time.Since(start)
	if err != nil {
		logger.Error("Sort aborted", "error", err, "partitions", s.result.Partitions)
		return s.result, serrors.SortAborted(err)
	}

	logger.Info("Sort complete",
		"records", s.result.Records,
		"partitions", s.result.Partitions,
		"swaps", s.result.Swaps,
		"max_depth", s.result.MaxDepth,
		"elapsed", s.result.Elapsed)
	return s.result, nil
}

func (s *sorter) run() error {
	stack := []span{{left: 0, right: s.size - rs}}
	for len(stack) > 0 {
		if len(stack) > s.result.MaxDepth {
			s.result.MaxDepth = len(stack)
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.left >= top.right {
			continue
		}

		split, err := s.quicksortStep(top.left, top.right)
		if err != nil {
			return err
		}
		// Pushed right first so the left range is handled next.
		stack = append(stack,
			span{left: split + rs, right: top.right},
			span{left: top.left, right: split - rs})
	}
	return nil
}

// quicksortStep places the pivot of [left, right] and returns its offset.
func (s *sorter) quicksortStep(left, right int64) (int64, error) {
	s.result.Partitions++

	pivotIdx := findPivot(left, right)
	var pivot, tmp record.Record
	if err := s.get(&pivot, pivotIdx); err != nil {
		return 0, err
	}
	key := pivot.Key()

	if err := s.get(&tmp, record.Align(right)); err != nil {
		return 0, err
	}
	if err := s.swap(pivotIdx, pivot, right, tmp); err != nil {
		return 0, err
	}

	split, err := s.partition(left, right-rs, key)
	if err != nil {
		return 0, err
	}

	if err := s.get(&tmp, split); err != nil {
		return 0, err
	}
	if err := s.swap(split, tmp, right, pivot); err != nil {
		return 0, err
	}
	return split, nil
}

// partition moves records with a key below key in front of the returned
// offset. right is aligned down before scanning.
func (s *sorter) partition(left, right int64, key int16) (int64, error) {
	right = record.Align(right)

	var lo, hi record.Record
	for left <= right {
		if err := s.get(&lo, left); err != nil {
			return 0, err
		}
		for lo.Key() < key {
			left += rs
			if err := s.get(&lo, left); err != nil {
				return 0, err
			}
		}

		if err := s.get(&hi, right); err != nil {
			return 0, err
		}
		for right >= left && hi.Key() >= key {
			right -= rs
			if right >= 0 {
				if err := s.get(&hi, right); err != nil {
					return 0, err
				}
			}
		}

		if right > left {
			if err := s.swap(left, lo, right, hi); err != nil {
				return 0, err
			}
		}
	}
	return left, nil
}

// swap stores a at j and b at i. Nothing is written unless both aligned
// offsets lie inside the file.
func (s *sorter) swap(i int64, a record.Record, j int64, b record.Record) error {
	i = record.Align(i)
	j = record.Align(j)
	if i < 0 || i >= s.size || j < 0 || j >= s.size {
		return nil
	}
	if err := s.pool.SetBytes(a[:], rs, j); err != nil {
		return err
	}
	if err := s.pool.SetBytes(b[:], rs, i); err != nil {
		return err
	}
	s.result.Swaps++
	return nil
}

func (s *sorter) get(r *record.Record, pos int64) error {
	return s.pool.GetBytes(r[:], rs, pos)
}

func findPivot(left, right int64) int64 {
	return ((left/rs + right/rs) / 2) * rs
}
