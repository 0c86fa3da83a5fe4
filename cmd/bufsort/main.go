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
Package main is the entry point for bufsort, the external record sorter.

bufsort sorts a file of 4-byte records in place by their 16-bit big-endian
key. The file is accessed only through a buffer pool of num-buffers cache
lines, so the memory used is num-buffers * block-size bytes no matter how
large the file is.

Run Flow:
=========

 1. Load configuration (defaults, config file, environment, flags)
 2. Open the buffer pool on the data file
 3. Sort the file through the pool
 4. Flush dirty cache lines and close the file
 5. Print the summary and write the stats file

Usage:
======

	bufsort [options] <data-file-name> <num-buffers> <stat-file-name>

Options:

	-config <file>      Path to configuration file
	-block-size <n>     Cache line size in bytes (default: 4096)
	-log-level <level>  Log level: debug, info, warn, error (default: info)
	-log-json           Enable JSON log output
	-prom-file <file>   Also write a Prometheus textfile
	-write-config <f>   Write the effective configuration to f and exit
	-q                  Do not print the banner
	-version            Show version information

Exit status is 1 on a usage error or when the sort fails. A failed sort may
leave the data file partially sorted.
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
	"bufsort/internal/bufferpool"
	"bufsort/internal/config"
	serrors "bufsort/internal/errors"
	"bufsort/internal/extsort"
	"bufsort/internal/logging"
	"bufsort/internal/metrics"
)

const usageLine = "command usage: <data-file-name> <num-buffers> <stat-file-name>"

func main() {
	os.Exit(run(afero.NewOsFs(), os.Args[1:], os.Stdout, os.Stderr))
}

func printUsage(w io.Writer, flags *flag.FlagSet) {
	fmt.Fprintln(w, usageLine)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	flags.SetOutput(w)
	flags.PrintDefaults()
}

func run(fs afero.Fs, args []string, stdout, stderr io.Writer) int {
	cfgMgr := config.NewManager()
	if err := cfgMgr.Load(); err != nil {
		fmt.Fprintf(stderr, "Error loading config file: %v\n", err)
		return 1
	}
	cfg := cfgMgr.Get()

	flags := flag.NewFlagSet("bufsort", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	configFile := flags.String("config", "", "Path to configuration file")
	blockSize := flags.Int("block-size", cfg.BlockSize, "Cache line size in bytes")
	logLevel := flags.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	logJSON := flags.Bool("log-json", cfg.LogJSON, "Enable JSON log output")
	promFile := flags.String("prom-file", cfg.PromFile, "Write a Prometheus textfile after the run")
	writeConfig := flags.String("write-config", "", "Write the effective configuration to a file and exit")
	quiet := flags.Bool("q", false, "Do not print the banner")
	showVersion := flags.Bool("version", false, "Show version information")

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printUsage(stdout, flags)
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printUsage(stderr, flags)
		return 1
	}

	if *showVersion {
		fmt.Fprintln(stdout, banner.VersionString("bufsort"))
		return 0
	}

	// An explicit config file replaces the one found by search; the
	// environment still overrides it.
	if *configFile != "" {
		if err := cfgMgr.LoadFromFile(*configFile); err != nil {
			fmt.Fprintf(stderr, "Error loading config file: %v\n", err)
			return 1
		}
		cfgMgr.LoadFromEnv()
		cfg = cfgMgr.Get()
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "block-size":
			cfg.BlockSize = *blockSize
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-json":
			cfg.LogJSON = *logJSON
		case "prom-file":
			cfg.PromFile = *promFile
		}
	})

	if *writeConfig != "" {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "Configuration error: %v\n", err)
			return 1
		}
		if err := cfg.SaveToFile(*writeConfig); err != nil {
			fmt.Fprintf(stderr, "Error writing config file: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Configuration written to %s\n", *writeConfig)
		return 0
	}

	if flags.NArg() != 3 {
		printUsage(stderr, flags)
		return 1
	}

	dataFile := flags.Arg(0)
	statFile := flags.Arg(2)
	numBuffers, err := strconv.Atoi(flags.Arg(1))
	if err != nil {
		fmt.Fprintln(stderr, serrors.FormatError(serrors.InvalidArgument("num-buffers", flags.Arg(1))))
		return 1
	}
	cfg.NumBuffers = numBuffers

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}
	config.Global().Set(cfg)

	logging.SetGlobalOutput(stderr)
	logging.SetGlobalLevel(logging.ParseLevel(cfg.LogLevel))
	logging.SetJSONMode(cfg.LogJSON)
	log := logging.NewLogger("main").With("data_file", dataFile)

	if !*quiet {
		banner.PrintRun(stderr, cfg, dataFile, numBuffers)
	}
	if cfg.ConfigFile != "" {
		log.Info("Configuration loaded", "config_file", cfg.ConfigFile)
	}

	start := time.Now()

	pool, err := bufferpool.Open(fs, dataFile, numBuffers, cfg.BlockSize)
	if err != nil {
		log.Error("Failed to open buffer pool", "error", err)
		fmt.Fprintln(stderr, serrors.FormatError(err))
		return 1
	}

	result, err := extsort.SortWithResult(pool)
	if err != nil {
		// The file is left as it is; dirty lines are dropped, not flushed.
		if cerr := pool.Close(); cerr != nil {
			log.Warn("Failed to close data file", "error", cerr)
		}
		fmt.Fprintln(stderr, serrors.FormatError(err))
		return 1
	}
	if err := pool.Flush(); err != nil {
		log.Error("Failed to flush buffer pool", "error", err)
		fmt.Fprintln(stderr, serrors.FormatError(err))
		return 1
	}

	elapsed := time.Since(start)
	report := metrics.NewReport(dataFile, pool.Stats(), result.Records, elapsed)
	metrics.PrintSummary(stdout, report)

	if err := metrics.WriteStatsFile(fs, statFile, report); err != nil {
		log.Error("Failed to write stats file", "stat_file", statFile, "error", err)
		fmt.Fprintln(stderr, serrors.FormatError(err))
		return 1
	}
	if cfg.PromFile != "" {
		if err := metrics.WritePrometheusFile(fs, cfg.PromFile, report); err != nil {
			// The sort itself succeeded; a missing textfile is not fatal.
			log.Warn("Failed to write Prometheus textfile", "prom_file", cfg.PromFile, "error", err)
		}
	}

	log.Info("Run complete",
		"elapsed", elapsed,
		"max_depth", result.MaxDepth)
	return 0
}
