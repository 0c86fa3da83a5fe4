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

// Package checker verifies that a data file is sorted by record key.
package checker

import (
	"bufio"
	"context"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	serrors "bufsort/internal/errors"
	"bufsort/internal/logging"
	"bufsort/internal/record"
)

// Result is the outcome of checking one file.
type Result struct {
	Path    string
	Records int64
	Sorted  bool
	// FirstViolation is the byte offset of the first record whose key is
	// smaller than its predecessor's, or -1.
	FirstViolation int64
	// TrailingBytes counts bytes after the last whole record.
	TrailingBytes int
	// Fingerprint is the wrapping sum of the xxhash64 of every record. It
	// does not depend on record order, so sorting must preserve it.
	Fingerprint uint64
}

var logger = logging.NewLogger("checker")

// Check reads path from start to end and reports whether its keys are
// non-decreasing.
func Check(fs afero.Fs, path string) (Result, error) {
	f, err := fs.Open(path)
	if err != nil {
		return Result{}, serrors.FileOpenFailed(path, err)
	}
	defer f.Close()

	res, err := check(f)
	res.Path = path
	if err != nil {
		return res, serrors.IOFailure("read", errors.Wrapf(err, "read %s", path))
	}

	logger.Debug("File checked",
		"file", path,
		"records", res.Records,
		"sorted", res.Sorted,
		"first_violation", res.FirstViolation)
	return res, nil
}

func check(r io.Reader) (Result, error) {
	res := Result{Sorted: true, FirstViolation: -1}
	br := bufio.NewReaderSize(r, 64*1024)

	var prev int16
	var rec record.Record
	for pos := int64(0); ; pos += record.RecordSize {
		n, err := io.ReadFull(br, rec[:])
		if err == io.EOF {
			return res, nil
		}
		if err == io.ErrUnexpectedEOF {
			res.TrailingBytes = n
			return res, nil
		}
		if err != nil {
			return res, err
		}

		key := rec.Key()
		if res.Records > 0 && key < prev && res.Sorted {
			res.Sorted = false
			res.FirstViolation = pos
		}
		prev = key
		res.Records++
		res.Fingerprint += xxhash.Sum64(rec[:])
	}
}

// CheckFiles checks paths concurrently, at most limit at a time (no limit
// when limit <= 0). Results are returned in the order of paths. The first
// error cancels the remaining checks.
func CheckFiles(ctx context.Context, fs afero.Fs, paths []string, limit int) ([]Result, error) {
	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Check(fs, path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
