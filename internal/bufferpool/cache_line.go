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

// unsetPos marks a cache line that has never held a block.
const unsetPos int64 = -1

// CacheLine is one block-sized slot of the pool.
type CacheLine struct {
	data  []byte
	pos   int64 // anchor: block-aligned file offset, or unsetPos
	dirty bool
}

func newCacheLine(blockSize int) *CacheLine {
	return &CacheLine{
		data: make([]byte, blockSize),
		pos:  unsetPos,
	}
}

// contains reports whether the absolute offset pos lies in this line's block.
func (c *CacheLine) contains(pos int64) bool {
	return c.pos >= 0 && pos >= c.pos && pos < c.pos+int64(len(c.data))
}

// Pos returns the anchor of the line, or -1 if it is unset.
func (c *CacheLine) Pos() int64 {
	return c.pos
}

// Dirty reports whether the line holds modifications not yet on disk.
func (c *CacheLine) Dirty() bool {
	return c.dirty
}
