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

package bufferpool

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	serrors "bufsort/internal/errors"
	"bufsort/internal/record"
)

// MemoryPool holds the whole data file in memory. It satisfies Pool and is
// used as a reference when checking BufferPool results.
type MemoryPool struct {
	path   string
	file   afero.File
	data   []byte
	closed bool
}

// OpenMemory reads the entire file at path into memory.
func OpenMemory(fs afero.Fs, path string) (*MemoryPool, error) {
	file, err := fs.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, serrors.FileOpenFailed(path, err)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		file.Close()
		return nil, serrors.IOFailure("read", errors.Wrapf(err, "read %s", path))
	}
	return &MemoryPool{path: path, file: file, data: data}, nil
}

// SetBytes copies one record into the in-memory image.
func (mp *MemoryPool) SetBytes(rec []byte, size int, pos int64) error {
	if mp == nil {
		return serrors.NilPool()
	}
	if mp.closed {
		return serrors.PoolClosed()
	}
	if len(rec) < record.RecordSize {
		return shortBuffer(len(rec))
	}
	pos = record.Align(pos)
	if pos < 0 || pos+record.RecordSize > int64(len(mp.data)) {
		return nil
	}
	copy(mp.data[pos:pos+record.RecordSize], rec[:record.RecordSize])
	return nil
}

// GetBytes copies one record from the in-memory image.
func (mp *MemoryPool) GetBytes(buf []byte, size int, pos int64) error {
	if mp == nil {
		return serrors.NilPool()
	}
	if mp.closed {
		return serrors.PoolClosed()
	}
	if len(buf) < record.RecordSize {
		return shortBuffer(len(buf))
	}
	pos = record.Align(pos)
	if pos < 0 || pos+record.RecordSize > int64(len(mp.data)) {
		return nil
	}
	copy(buf[:record.RecordSize], mp.data[pos:pos+record.RecordSize])
	return nil
}

// Flush writes the image back over the file and closes it.
func (mp *MemoryPool) Flush() error {
	if mp == nil {
		return serrors.NilPool()
	}
	if mp.closed {
		return serrors.PoolClosed()
	}
	mp.closed = true

	var firstErr error
	if _, err := mp.file.WriteAt(mp.data, 0); err != nil {
		firstErr = serrors.IOFailure("write", errors.Wrapf(err, "write %s", mp.path))
	}
	if err := mp.file.Close(); err != nil && firstErr == nil {
		firstErr = serrors.IOFailure("close", errors.Wrapf(err, "close %s", mp.path))
	}
	return firstErr
}

// DataFileSize returns the size of the in-memory image.
func (mp *MemoryPool) DataFileSize() (int64, error) {
	if mp == nil {
		return 0, serrors.NilPool()
	}
	if mp.closed {
		return 0, serrors.PoolClosed()
	}
	return int64(len(mp.data)), nil
}

// Dump writes the raw image followed by a newline.
func (mp *MemoryPool) Dump(w io.Writer) error {
	if _, err := w.Write(mp.data); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
