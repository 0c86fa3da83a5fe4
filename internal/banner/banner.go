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
Package banner prints the version line and the run header of the bufsort
commands.

The ASCII logo is embedded from banner.txt at compile time. ANSI colours
are used only when the destination is a terminal, so redirected output and
test buffers get plain text.

Usage:
======

	banner.PrintRun(os.Stderr, cfg, "data.bin", 4)
*/
package banner

import (
	_ "embed" // Required for the //go:embed directive
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"bufsort/internal/config"
)

//go:embed banner.txt
var banner string

// ANSI escape codes for terminal text formatting.
const (
	AnsiRed    = "\033[31m"
	AnsiGreen  = "\033[32m"
	AnsiYellow = "\033[33m"
	AnsiCyan   = "\033[36m"
	AnsiReset  = "\033[0m"
	AnsiBold   = "\033[1m"
	AnsiDim    = "\033[2m"
)

// Version information for the bufsort commands.
const (
	Version   = "01.26.14"
	Copyright = "(c)2026 Firefly Software Solutions Inc"
	License   = "Licensed under Apache 2.0"
)

// palette holds the escape codes in effect for one writer.
type palette struct {
	red, green, yellow, cyan, reset, bold, dim string
}

func paletteFor(w io.Writer) palette {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return palette{AnsiRed, AnsiGreen, AnsiYellow, AnsiCyan, AnsiReset, AnsiBold, AnsiDim}
	}
	return palette{}
}

// VersionString returns the one-line version description of a command.
func VersionString(command string) string {
	return fmt.Sprintf("%s version %s (%s %s/%s)", command, Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Print writes the logo, version and license to w.
func Print(w io.Writer) {
	p := paletteFor(w)
	fmt.Fprintln(w, p.red+strings.TrimRight(banner, "\n")+p.reset)
	fmt.Fprintln(w, p.red+p.bold+":: bufsort ::                    (v"+Version+")"+p.reset)
	fmt.Fprintln(w, p.green+p.bold+Copyright+p.reset)
	fmt.Fprintln(w, p.green+p.bold+License+p.reset)
	fmt.Fprintln(w)
}

// PrintRun writes the banner followed by the settings of a sort run.
func PrintRun(w io.Writer, cfg *config.Config, dataFile string, numBuffers int) {
	p := paletteFor(w)
	Print(w)

	fmt.Fprint(w, "  "+p.dim+"Config: "+p.reset)
	if cfg.ConfigFile != "" {
		fmt.Fprintln(w, p.yellow+cfg.ConfigFile+p.reset)
	} else {
		fmt.Fprintln(w, p.dim+"defaults + environment"+p.reset)
	}
	fmt.Fprintln(w)

	const lineWidth = 78
	printSectionHeader(w, p, "Run", lineWidth)
	printRow2(w, fmtKV(p, "Data", p.green+dataFile+p.reset), fmtKV(p, "Buffers", fmt.Sprintf("%d", numBuffers)))
	printRow2(w, fmtKV(p, "Block", fmt.Sprintf("%d bytes", cfg.BlockSize)), fmtKV(p, "Cache", humanize.IBytes(uint64(numBuffers)*uint64(cfg.BlockSize))))
	printRow2(w, fmtKV(p, "Log", cfg.LogLevel), fmtKV(p, "Prometheus", orNone(cfg.PromFile)))
	fmt.Fprintln(w)

	printLogSeparator(w, p)
}

func printLogSeparator(w io.Writer, p palette) {
	const lineWidth = 78
	arrow := "v"
	text := " LOGS START HERE "
	padding := (lineWidth - len(text) - 4) / 2
	if padding < 0 {
		padding = 0
	}
	line := strings.Repeat("-", padding)
	fmt.Fprintf(w, "  %s%s %s%s%s %s%s\n",
		p.yellow, arrow+arrow+line,
		p.bold, text, p.reset+p.yellow,
		line+arrow+arrow, p.reset)
	fmt.Fprintln(w)
}

func printSectionHeader(w io.Writer, p palette, title string, width int) {
	titleLen := len(title) + 4 // "[ title ]"
	leftPad := 2
	rightPad := width - leftPad - titleLen
	if rightPad < 0 {
		rightPad = 0
	}
	fmt.Fprintf(w, "  %s[ %s%s%s ]%s%s\n",
		p.dim+strings.Repeat("-", leftPad),
		p.reset+p.cyan+p.bold, title, p.reset+p.dim,
		strings.Repeat("-", rightPad),
		p.reset)
}

func fmtKV(p palette, key, value string) string {
	return fmt.Sprintf("%s%s:%s %s", p.dim, key, p.reset, value)
}

func printRow2(w io.Writer, col1, col2 string) {
	fmt.Fprintf(w, "  %-40s %s\n", col1, col2)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
