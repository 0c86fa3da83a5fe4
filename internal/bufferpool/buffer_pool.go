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

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	serrors "bufsort/internal/errors"
	"bufsort/internal/logging"
	"bufsort/internal/record"
)

// BufferPool caches blocks of a single data file in a fixed number of cache
// lines with LRU replacement and write-back of dirty lines.
type BufferPool struct {
	path      string
	file      afero.File
	fileSize  int64
	blockSize int
	lines     []*CacheLine // lines[0] is the most recently used
	closed    bool

	cacheHits  int64
	diskReads  int64
	diskWrites int64
	lookups    int64
	ignored    int64

	logger *logging.Logger
	debug  bool
}

// Stats contains buffer pool statistics.
type Stats struct {
	NumLines   int
	BlockSize  int
	FileSize   int64
	UsedLines  int
	DirtyLines int
	CacheHits  int64
	DiskReads  int64
	DiskWrites int64
	Lookups    int64 // block resolutions; always CacheHits + DiskReads
	Ignored    int64 // out-of-range accesses dropped without effect
	HitRate    float64
}

// Open opens the data file at path and allocates numBuffers cache lines of
// blockSize bytes each. The file must already exist.
func Open(fs afero.Fs, path string, numBuffers, blockSize int) (*BufferPool, error) {
	if numBuffers < 1 {
		return nil, serrors.InvalidBufferCount(numBuffers)
	}
	if blockSize <= 0 || blockSize%record.RecordSize != 0 {
		return nil, serrors.InvalidBlockSize(blockSize, record.RecordSize)
	}

	file, err := fs.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, serrors.FileOpenFailed(path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, serrors.FileOpenFailed(path, errors.Wrap(err, "stat"))
	}

	bp := &BufferPool{
		path:      path,
		file:      file,
		fileSize:  info.Size(),
		blockSize: blockSize,
		lines:     make([]*CacheLine, numBuffers),
		logger:    logging.NewLogger("bufferpool"),
	}
	for i := range bp.lines {
		bp.lines[i] = newCacheLine(blockSize)
	}
	bp.debug = bp.logger.Enabled(logging.DEBUG)

	bp.logger.Info("Buffer pool opened",
		"file", path,
		"size", humanize.Bytes(uint64(bp.fileSize)),
		"buffers", numBuffers,
		"block_size", blockSize,
		"cache", humanize.Bytes(uint64(numBuffers)*uint64(blockSize)))

	return bp, nil
}

// SetBytes writes one record at pos and marks the owning line dirty.
func (bp *BufferPool) SetBytes(rec []byte, size int, pos int64) error {
	if bp == nil {
		return serrors.NilPool()
	}
	if bp.closed {
		return serrors.PoolClosed()
	}
	if len(rec) < record.RecordSize {
		return shortBuffer(len(rec))
	}
	pos = record.Align(pos)
	if !bp.inRange(pos) {
		bp.ignored++
		return nil
	}

	line, err := bp.locate(pos)
	if err != nil {
		return err
	}
	line.dirty = true
	off := pos - line.pos
	copy(line.data[off:off+record.RecordSize], rec[:record.RecordSize])
	return nil
}

// GetBytes reads one record at pos into buf. The line's dirty state is unchanged.
func (bp *BufferPool) GetBytes(buf []byte, size int, pos int64) error {
	if bp == nil {
		return serrors.NilPool()
	}
	if bp.closed {
		return serrors.PoolClosed()
	}
	if len(buf) < record.RecordSize {
		return shortBuffer(len(buf))
	}
	pos = record.Align(pos)
	if !bp.inRange(pos) {
		bp.ignored++
		return nil
	}

	line, err := bp.locate(pos)
	if err != nil {
		return err
	}
	off := pos - line.pos
	copy(buf[:record.RecordSize], line.data[off:off+record.RecordSize])
	return nil
}

// Flush writes every dirty line to its anchor and closes the file.
// It is the terminal operation; later calls return a PoolClosed error.
func (bp *BufferPool) Flush() error {
	if bp == nil {
		return serrors.NilPool()
	}
	if bp.closed {
		return serrors.PoolClosed()
	}
	bp.closed = true

	var firstErr error
	flushed := 0
	for _, line := range bp.lines {
		if !line.dirty {
			continue
		}
		if err := bp.writeBack(line); err != nil {
			firstErr = err
			break
		}
		flushed++
	}

	if firstErr == nil {
		if err := bp.file.Sync(); err != nil {
			firstErr = serrors.IOFailure("sync", errors.Wrapf(err, "sync %s", bp.path))
		}
	}
	if err := bp.file.Close(); err != nil && firstErr == nil {
		firstErr = serrors.IOFailure("close", errors.Wrapf(err, "close %s", bp.path))
	}

	bp.logger.Info("Buffer pool flushed",
		"file", bp.path,
		"flushed_lines", flushed,
		"cache_hits", bp.cacheHits,
		"disk_reads", bp.diskReads,
		"disk_writes", bp.diskWrites)

	return firstErr
}

// Close releases the file without writing dirty lines back. It is used to
// abandon a failed run; modifications still held in cache lines are lost.
// Closing a pool that is already closed does nothing.
func (bp *BufferPool) Close() error {
	if bp == nil {
		return serrors.NilPool()
	}
	if bp.closed {
		return nil
	}
	bp.closed = true

	dirty := 0
	for _, line := range bp.lines {
		if line.dirty {
			dirty++
		}
	}
	bp.logger.Warn("Buffer pool closed without flush", "file", bp.path, "dirty_lines", dirty)

	if err := bp.file.Close(); err != nil {
		return serrors.IOFailure("close", errors.Wrapf(err, "close %s", bp.path))
	}
	return nil
}

// DataFileSize returns the length of the data file in bytes. The pool never
// changes the length, so the size observed at Open stays current.
func (bp *BufferPool) DataFileSize() (int64, error) {
	if bp == nil {
		return 0, serrors.NilPool()
	}
	if bp.closed {
		return 0, serrors.PoolClosed()
	}
	return bp.fileSize, nil
}

// inRange reports whether a whole record at pos lies inside the file.
func (bp *BufferPool) inRange(pos int64) bool {
	return pos >= 0 && pos+record.RecordSize <= bp.fileSize
}

// locate resolves pos to a cache line, loading its block on a miss.
func (bp *BufferPool) locate(pos int64) (*CacheLine, error) {
	bp.lookups++
	bs := int64(bp.blockSize)
	anchor := (pos / bs) * bs

	index := -1
	for i, line := range bp.lines {
		if line.contains(pos) {
			index = i
			bp.cacheHits++
			break
		}
	}

	victim := index
	if victim < 0 {
		victim = len(bp.lines) - 1
	}
	line, err := bp.touch(victim, anchor)
	if err != nil {
		return nil, err
	}

	if index < 0 {
		line.pos = anchor
		line.dirty = false
		if err := bp.readBlock(line); err != nil {
			return nil, err
		}
	}
	return line, nil
}

// touch moves the line at index to the front, shifting the lines before it
// back by one slot. If the line is about to hold a different block and is
// dirty, it is written back to its old anchor first.
func (bp *BufferPool) touch(index int, target int64) (*CacheLine, error) {
	line := bp.lines[index]
	copy(bp.lines[1:index+1], bp.lines[:index])
	bp.lines[0] = line

	if line.pos != target && line.dirty {
		if err := bp.writeBack(line); err != nil {
			return nil, err
		}
	}
	return line, nil
}

// readBlock fills line from its anchor. Bytes past end of file read as zero.
func (bp *BufferPool) readBlock(line *CacheLine) error {
	n, err := bp.file.ReadAt(line.data, line.pos)
	if err != nil && err != io.EOF {
		return serrors.IOFailure("block read",
			errors.Wrapf(err, "read %d bytes at %d from %s", len(line.data), line.pos, bp.path))
	}
	for i := n; i < len(line.data); i++ {
		line.data[i] = 0
	}
	bp.diskReads++

	if bp.debug {
		bp.logger.Debug("Block loaded", "pos", line.pos, "bytes", n)
	}
	return nil
}

// writeBack writes the in-file part of line to its anchor and clears dirty.
// Only the bytes that lie inside the file are written, so the file length
// never changes.
func (bp *BufferPool) writeBack(line *CacheLine) error {
	n := int64(len(line.data))
	if remaining := bp.fileSize - line.pos; remaining < n {
		n = remaining
	}
	if n > 0 {
		if _, err := bp.file.WriteAt(line.data[:n], line.pos); err != nil {
			return serrors.IOFailure("write-back",
				errors.Wrapf(err, "write %d bytes at %d to %s", n, line.pos, bp.path))
		}
	}
	line.dirty = false
	bp.diskWrites++

	if bp.debug {
		bp.logger.Debug("Block written back", "pos", line.pos, "bytes", n)
	}
	return nil
}

// Stats returns buffer pool statistics.
func (bp *BufferPool) Stats() Stats {
	stats := Stats{
		NumLines:   len(bp.lines),
		BlockSize:  bp.blockSize,
		FileSize:   bp.fileSize,
		CacheHits:  bp.cacheHits,
		DiskReads:  bp.diskReads,
		DiskWrites: bp.diskWrites,
		Lookups:    bp.lookups,
		Ignored:    bp.ignored,
	}
	for _, line := range bp.lines {
		if line.pos >= 0 {
			stats.UsedLines++
		}
		if line.dirty {
			stats.DirtyLines++
		}
	}
	if stats.Lookups > 0 {
		stats.HitRate = float64(stats.CacheHits) / float64(stats.Lookups) * 100
	}
	return stats
}

// CacheHits returns the number of lookups served from a resident line.
func (bp *BufferPool) CacheHits() int64 { return bp.cacheHits }

// DiskReads returns the number of blocks read from the file.
func (bp *BufferPool) DiskReads() int64 { return bp.diskReads }

// DiskWrites returns the number of blocks written to the file.
func (bp *BufferPool) DiskWrites() int64 { return bp.diskWrites }

// Lines returns a snapshot of the cache lines in recency order.
func (bp *BufferPool) Lines() []CacheLine {
	out := make([]CacheLine, len(bp.lines))
	for i, line := range bp.lines {
		out[i] = CacheLine{pos: line.pos, dirty: line.dirty}
	}
	return out
}

func shortBuffer(n int) error {
	return serrors.NewValidationError("record buffer too small").
		WithDetail(fmt.Sprintf("need %d bytes, got %d", record.RecordSize, n))
}
