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
Package main is the entry point for bufsort-gen, the test data generator.

Usage:

	bufsort-gen [-seed n] -a|-b <file> <num-blocks>

Options:

	-a          ASCII records: a space and a capital letter as the key,
	            two spaces as the payload
	-b          Binary records: random key and payload
	-seed <n>   Random seed (default: current time)
	-version    Show version information

The file is created or truncated and receives num-blocks * 4096 bytes.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"bufsort/internal/banner"
	serrors "bufsort/internal/errors"
	"bufsort/internal/generator"
	"bufsort/internal/logging"
)

const usageLine = "command usage: bufsort-gen [-seed n] -a|-b <file> <num-blocks>"

func main() {
	os.Exit(run(afero.NewOsFs(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(fs afero.Fs, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("bufsort-gen", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	ascii := flags.Bool("a", false, "Generate ASCII records")
	binary := flags.Bool("b", false, "Generate binary records")
	seed := flags.Int64("seed", time.Now().UnixNano(), "Random seed")
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
		fmt.Fprintln(stdout, banner.VersionString("bufsort-gen"))
		return 0
	}
	if *ascii == *binary || flags.NArg() != 2 {
		usage(stderr)
		return 1
	}

	format := generator.FormatBinary
	if *ascii {
		format = generator.FormatASCII
	}

	path := flags.Arg(0)
	numBlocks, err := strconv.Atoi(flags.Arg(1))
	if err != nil || numBlocks < 0 {
		fmt.Fprintln(stderr, serrors.FormatError(serrors.InvalidArgument("num-blocks", flags.Arg(1))))
		return 1
	}

	logging.SetGlobalOutput(stderr)
	if err := generator.Generate(fs, path, format, numBlocks, *seed); err != nil {
		fmt.Fprintln(stderr, serrors.FormatError(err))
		return 1
	}
	fmt.Fprintf(stdout, "Generated %s: %d blocks of %s records (seed %d)\n", path, numBlocks, format, *seed)
	return 0
}
