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
Package main is the entry point for bufsort-check, the sortedness checker.

Usage:

	bufsort-check [-j n] <file>...

Each file is read front to back and reported as SORTED or UNSORTED together
with its record count and fingerprint. The fingerprint does not depend on
record order, so it is equal before and after a correct sort.

Exit status is 0 when every file is sorted and 1 otherwise.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/afero"

	"bufsort/internal/banner"
	"bufsort/internal/checker"
	serrors "bufsort/internal/errors"
	"bufsort/internal/logging"
)

const usageLine = "command usage: bufsort-check [-j n] <file>..."

func main() {
	os.Exit(run(context.Background(), afero.NewOsFs(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, fs afero.Fs, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("bufsort-check", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	jobs := flags.Int("j", runtime.NumCPU(), "Number of files checked in parallel")
	showVersion := flags.Bool("version", false, "Show version information")

	usage := func(w io.Writer) {
		fmt.Fprintln(w, usageLine)
		flags.SetOutput(w)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			usage(stdout)
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		usage(stderr)
		return 1
	}
	if *showVersion {
		fmt.Fprintln(stdout, banner.VersionString("bufsort-check"))
		return 0
	}
	if flags.NArg() == 0 {
		usage(stderr)
		return 1
	}

	logging.SetGlobalOutput(stderr)
	results, err := checker.CheckFiles(ctx, fs, flags.Args(), *jobs)
	if err != nil {
		fmt.Fprintln(stderr, serrors.FormatError(err))
		return 1
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	status := 0
	for _, res := range results {
		verdict := "SORTED"
		if !res.Sorted {
			verdict = fmt.Sprintf("UNSORTED at offset %d", res.FirstViolation)
			status = 1
		}
		fmt.Fprintf(tw, "%s\t%d records\t%016x\t%s\n", res.Path, res.Records, res.Fingerprint, verdict)
		if res.TrailingBytes > 0 {
			fmt.Fprintf(tw, "\t%d trailing bytes ignored\t\t\n", res.TrailingBytes)
		}
	}
	tw.Flush()
	return status
}
