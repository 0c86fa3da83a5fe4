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
Package record defines the fixed-size binary record sorted by bufsort.

Record Layout:
==============

Every record is exactly four bytes:

	┌───────────────┬───────────────┐
	│  Key (2 B)    │ Payload (2 B) │
	│  big-endian   │    opaque     │
	│  signed int16 │               │
	└───────────────┴───────────────┘

A data file is a flat sequence of records with no header. Record offsets used
by the sort are always multiples of RecordSize; Align snaps an arbitrary byte
offset down to the record that contains it.
*/
package record

import (
	"encoding/binary"
	"fmt"
)

const (
	// RecordSize is the size of one record in bytes.
	RecordSize = 4

	// KeySize is the number of leading bytes that form the sort key.
	KeySize = 2

	// alignMask clears the low bits of an offset to reach a record boundary.
	alignMask = RecordSize - 1
)

// Record is one fixed-size record.
type Record [RecordSize]byte

// New builds a record from a key and a payload.
func New(key int16, payload [2]byte) Record {
	var r Record
	binary.BigEndian.PutUint16(r[:KeySize], uint16(key))
	r[2] = payload[0]
	r[3] = payload[1]
	return r
}

// FromBytes copies the first RecordSize bytes of b into a Record.
// It panics if b is shorter than a record.
func FromBytes(b []byte) Record {
	var r Record
	copy(r[:], b[:RecordSize])
	return r
}

// Key returns the big-endian signed 16-bit sort key.
func (r Record) Key() int16 {
	return int16(binary.BigEndian.Uint16(r[:KeySize]))
}

// Payload returns the two opaque payload bytes.
func (r Record) Payload() [2]byte {
	return [2]byte{r[2], r[3]}
}

// String implements fmt.Stringer.
func (r Record) String() string {
	return fmt.Sprintf("{key=%d payload=%02x%02x}", r.Key(), r[2], r[3])
}

// KeyOf extracts the sort key from the first two bytes of b.
func KeyOf(b []byte) int16 {
	return int16(binary.BigEndian.Uint16(b[:KeySize]))
}

// Align rounds pos down to a record boundary. Negative offsets round toward
// negative infinity, so Align(-2) == -4.
func Align(pos int64) int64 {
	return pos &^ alignMask
}

// Count returns the number of whole records in a file of the given size.
func Count(fileSize int64) int64 {
	if fileSize <= 0 {
		return 0
	}
	return fileSize / RecordSize
}
