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

package record

import "testing"

func TestKeyIsSignedBigEndian(t *testing.T) {
	tests := []struct {
		name string
		raw  Record
		want int16
	}{
		{"zero", Record{0x00, 0x00, 0xAA, 0xBB}, 0},
		{"one", Record{0x00, 0x01, 0, 0}, 1},
		{"high byte", Record{0x01, 0x00, 0, 0}, 256},
		{"max", Record{0x7F, 0xFF, 0, 0}, 32767},
		{"minus one", Record{0xFF, 0xFF, 0, 0}, -1},
		{"min", Record{0x80, 0x00, 0, 0}, -32768},
		{"ascii", Record{' ', 'A', ' ', ' '}, 0x2041},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.raw.Key(); got != tt.want {
				t.Errorf("Key() = %d, want %d", got, tt.want)
			}
			if got := KeyOf(tt.raw[:]); got != tt.want {
				t.Errorf("KeyOf() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewKeepsPayload(t *testing.T) {
	r := New(-5, [2]byte{0xDE, 0xAD})
	if r.Key() != -5 {
		t.Errorf("Expected key -5, got %d", r.Key())
	}
	if r.Payload() != [2]byte{0xDE, 0xAD} {
		t.Errorf("Expected payload dead, got %x", r.Payload())
	}
	if FromBytes(r[:]) != r {
		t.Error("FromBytes did not round-trip the record")
	}
}

func TestAlign(t *testing.T) {
	tests := []struct {
		in, want int64
	}{
		{0, 0},
		{3, 0},
		{4, 4},
		{7, 4},
		{4097, 4096},
		{-2, -4},
		{-4, -4},
	}
	for _, tt := range tests {
		if got := Align(tt.in); got != tt.want {
			t.Errorf("Align(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	if Count(0) != 0 || Count(-1) != 0 || Count(3) != 0 {
		t.Error("Expected zero records for files smaller than one record")
	}
	if got := Count(4098); got != 1024 {
		t.Errorf("Expected 1024 records, got %d", got)
	}
}
