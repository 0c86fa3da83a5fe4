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

// Package generator writes test data files of random records.
package generator

import (
	"bufio"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	serrors "bufsort/internal/errors"
	"bufsort/internal/logging"
	"bufsort/internal/record"
)

// BlockBytes is the size of one generated block.
const BlockBytes = 4096

// Format selects how generated records look.
type Format int

const (
	// FormatBinary uses a random key and a random payload.
	FormatBinary Format = iota
	// FormatASCII uses a space and an upper-case letter as the key and two
	// spaces as the payload, so the file stays printable.
	FormatASCII
)

func (f Format) String() string {
	switch f {
	case FormatASCII:
		return "ascii"
	case FormatBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// ParseFormat accepts "-a"/"a" for ASCII and "-b"/"b" for binary.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(s, "-") {
	case "a":
		return FormatASCII, nil
	case "b":
		return FormatBinary, nil
	}
	return 0, serrors.InvalidFormat(s)
}

var logger = logging.NewLogger("generator")

// Generate creates or truncates path and fills it with numBlocks blocks of
// records drawn from a generator seeded with seed.
func Generate(fs afero.Fs, path string, format Format, numBlocks int, seed int64) error {
	if numBlocks < 0 {
		return serrors.InvalidArgument("num-blocks", strconv.Itoa(numBlocks))
	}
	if format != FormatASCII && format != FormatBinary {
		return serrors.InvalidFormat(format.String())
	}

	f, err := fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return serrors.FileOpenFailed(path, err)
	}

	rng := rand.New(rand.NewSource(seed))
	w := bufio.NewWriterSize(f, BlockBytes)
	total := int64(numBlocks) * BlockBytes
	for n := int64(0); n < total; n += record.RecordSize {
		r := next(rng, format)
		if _, err := w.Write(r[:]); err != nil {
			f.Close()
			return serrors.IOFailure("write", errors.Wrapf(err, "write %s", path))
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return serrors.IOFailure("write", errors.Wrapf(err, "flush %s", path))
	}
	if err := f.Close(); err != nil {
		return serrors.IOFailure("close", errors.Wrapf(err, "close %s", path))
	}

	logger.Info("Data file generated",
		"file", path,
		"format", format,
		"blocks", numBlocks,
		"size", humanize.Bytes(uint64(total)))
	return nil
}

func next(rng *rand.Rand, format Format) record.Record {
	if format == FormatASCII {
		return record.Record{' ', byte('A' + rng.Intn(26)), ' ', ' '}
	}
	var r record.Record
	rng.Read(r[:])
	return r
}
