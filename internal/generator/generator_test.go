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

package generator

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	serrors "bufsort/internal/errors"
	"bufsort/internal/record"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"-a", FormatASCII},
		{"a", FormatASCII},
		{"-b", FormatBinary},
		{"b", FormatBinary},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseFormat("-x")
	require.True(t, serrors.HasCode(err, serrors.ErrCodeInvalidFormat))
}

func TestGenerateASCII(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, Generate(fs, "data.txt", FormatASCII, 2, 1))

	data, err := afero.ReadFile(fs, "data.txt")
	require.NoError(t, err)
	require.Len(t, data, 2*BlockBytes)

	for pos := 0; pos < len(data); pos += record.RecordSize {
		require.Equal(t, byte(' '), data[pos])
		require.True(t, data[pos+1] >= 'A' && data[pos+1] <= 'Z', "key letter %q at %d", data[pos+1], pos)
		require.Equal(t, []byte("  "), data[pos+2:pos+4])
	}
}

func TestGenerateBinaryIsSeeded(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, Generate(fs, "a.bin", FormatBinary, 3, 42))
	require.NoError(t, Generate(fs, "b.bin", FormatBinary, 3, 42))
	require.NoError(t, Generate(fs, "c.bin", FormatBinary, 3, 43))

	a, _ := afero.ReadFile(fs, "a.bin")
	b, _ := afero.ReadFile(fs, "b.bin")
	c, _ := afero.ReadFile(fs, "c.bin")
	require.Len(t, a, 3*BlockBytes)
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestGenerateTruncates(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, Generate(fs, "data.bin", FormatBinary, 4, 1))
	require.NoError(t, Generate(fs, "data.bin", FormatBinary, 1, 1))

	info, err := fs.Stat("data.bin")
	require.NoError(t, err)
	require.Equal(t, int64(BlockBytes), info.Size())
}

func TestGenerateRejectsBadInput(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.True(t, serrors.HasCode(Generate(fs, "x", FormatBinary, -1, 0), serrors.ErrCodeInvalidArgument))
	require.True(t, serrors.HasCode(Generate(fs, "x", Format(9), 1, 0), serrors.ErrCodeInvalidFormat))

	ro := afero.NewReadOnlyFs(afero.NewMemMapFs())
	require.True(t, serrors.HasCode(Generate(ro, "x", FormatASCII, 1, 0), serrors.ErrCodeFileOpen))
}
