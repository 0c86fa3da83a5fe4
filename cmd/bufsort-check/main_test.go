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

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestCheckCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "sorted", []byte(" A   B   C  "), 0644))
	require.NoError(t, afero.WriteFile(fs, "unsorted", []byte(" C   A   B  "), 0644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), fs, []string{"sorted"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Contains(t, stdout.String(), "SORTED")

	stdout.Reset()
	code = run(context.Background(), fs, []string{"-j", "2", "sorted", "unsorted"}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stdout.String(), "UNSORTED at offset 4")
}

func TestCheckCommandErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 1, run(context.Background(), afero.NewMemMapFs(), nil, &stdout, &stderr))
	require.Contains(t, stderr.String(), usageLine)

	stderr.Reset()
	require.Equal(t, 1, run(context.Background(), afero.NewMemMapFs(), []string{"missing"}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "missing")
}
