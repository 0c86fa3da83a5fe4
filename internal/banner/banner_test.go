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

package banner

import (
	"bytes"
	"strings"
	"testing"

	"bufsort/internal/config"
)

func TestPrintRunPlainWhenNotTerminal(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PromFile = "/tmp/bufsort.prom"

	var buf bytes.Buffer
	PrintRun(&buf, cfg, "data.bin", 4)
	out := buf.String()

	if strings.Contains(out, "\033[") {
		t.Error("Expected no ANSI codes when writing to a buffer")
	}
	for _, want := range []string{"v" + Version, "data.bin", "Buffers: 4", "4096 bytes", "16 KiB", "/tmp/bufsort.prom", "LOGS START HERE"} {
		if !strings.Contains(out, want) {
			t.Errorf("Run header missing %q:\n%s", want, out)
		}
	}
}

func TestVersionString(t *testing.T) {
	v := VersionString("bufsort")
	if !strings.HasPrefix(v, "bufsort version "+Version) {
		t.Errorf("Unexpected version string %q", v)
	}
}
