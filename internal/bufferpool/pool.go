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
Package bufferpool implements the block cache that sits between the external
sort and the data file.

Buffer Pool Overview:
=====================

The sort touches the file four bytes at a time, in an order that jumps back
and forth across the whole file. Issuing one system call per record would be
ruinous, so every access goes through a fixed set of cache lines. Each line
holds one block (blockSize bytes, 4096 in the reference configuration) and
disk I/O happens only in whole blocks.

	            GetBytes / SetBytes (absolute byte offset)
	                              │
	                              ▼
	┌───────────────────────────────────────────────────────────┐
	│                       BufferPool                          │
	│                                                           │
	│   lines[0]     lines[1]     ...     lines[n-1]            │
	│   (MRU)                              (LRU, next victim)   │
	│  ┌────────┐   ┌────────┐           ┌────────┐             │
	│  │pos=8192│   │pos=0   │    ...    │pos=-1  │             │
	│  │dirty   │   │clean   │           │unset   │             │
	│  └────────┘   └────────┘           └────────┘             │
	└───────────────────────────────────────────────────────────┘
	                              │ ReadAt / WriteAt (whole blocks)
	                              ▼
	                          data file

LRU Ordering:
=============

The lines slice is kept in recency order. Every lookup "touches" one slot:
the slots in front of it shift back by one and the touched line moves to
slot 0. On a hit the touched slot is the matching line; on a miss it is the
last slot, which is the least recently used line. A dirty line that is about
to be repurposed for a different block is written back to its old anchor
before the new block is read into it.

Variants:
=========

Pool is the capability the sort depends on. BufferPool is the disk-backed
implementation. MemoryPool loads the whole file into one slice and is used as
a reference implementation in tests and for small files.

Neither variant is safe for concurrent use. A pool serves exactly one sort
run and Flush, which writes dirty data and closes the file, is terminal.
*/
package bufferpool

// Pool is the record-level interface the external sort drives.
//
// Offsets are absolute byte positions in the data file. Implementations move
// exactly one record per call; size is accepted for interface compatibility
// but not used to change the transfer length. Accesses that fall outside the
// file are silently ignored.
type Pool interface {
	// SetBytes writes one record from rec at pos.
	SetBytes(rec []byte, size int, pos int64) error

	// GetBytes reads one record at pos into buf.
	GetBytes(buf []byte, size int, pos int64) error

	// Flush writes all modified data back and closes the file.
	Flush() error

	// DataFileSize returns the length of the data file in bytes.
	DataFileSize() (int64, error)
}

var (
	_ Pool = (*BufferPool)(nil)
	_ Pool = (*MemoryPool)(nil)
)
