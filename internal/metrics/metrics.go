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
Package metrics reports the cost of a sort run.

Outputs:
========
  - Stats file: four labelled lines, one value each.
  - Console summary: the same numbers with digit grouping and the hit rate.
  - Prometheus textfile: counters and gauges for the node_exporter
    textfile collector, written when a path is configured.

Stats File Format:
==================

	Execution Time:	1234 milliseconds
	Cache Hits:	53210
	Disk Reads:	4120
	Disk Writes:	4098

EXAMPLE METRICS:
================

	bufsort_cache_hits_total 53210
	bufsort_disk_reads_total 4120
	bufsort_execution_seconds 1.234
*/
package metrics

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"bufsort/internal/bufferpool"
	serrors "bufsort/internal/errors"
)

// Report holds the numbers of one sort run.
type Report struct {
	DataFile   string
	NumBuffers int
	BlockSize  int
	FileSize   int64
	Records    int64
	Elapsed    time.Duration
	CacheHits  int64
	DiskReads  int64
	DiskWrites int64
}

// NewReport builds a report from the final pool statistics.
func NewReport(dataFile string, stats bufferpool.Stats, records int64, elapsed time.Duration) Report {
	return Report{
		DataFile:   dataFile,
		NumBuffers: stats.NumLines,
		BlockSize:  stats.BlockSize,
		FileSize:   stats.FileSize,
		Records:    records,
		Elapsed:    elapsed,
		CacheHits:  stats.CacheHits,
		DiskReads:  stats.DiskReads,
		DiskWrites: stats.DiskWrites,
	}
}

// HitRate returns cache hits as a percentage of block lookups.
func (r Report) HitRate() float64 {
	lookups := r.CacheHits + r.DiskReads
	if lookups == 0 {
		return 0
	}
	return float64(r.CacheHits) / float64(lookups) * 100
}

// WriteStats writes the four-line stats block to w.
func WriteStats(w io.Writer, r Report) error {
	_, err := fmt.Fprintf(w,
		"Execution Time:\t%d milliseconds\nCache Hits:\t%d\nDisk Reads:\t%d\nDisk Writes:\t%d\n",
		r.Elapsed.Milliseconds(), r.CacheHits, r.DiskReads, r.DiskWrites)
	return err
}

// WriteStatsFile creates or truncates path and writes the stats block.
func WriteStatsFile(fs afero.Fs, path string, r Report) error {
	return writeFile(fs, path, func(w io.Writer) error { return WriteStats(w, r) })
}

// PrintSummary writes a human-readable summary of the run.
func PrintSummary(w io.Writer, r Report) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Execution Time: %d milliseconds\n", r.Elapsed.Milliseconds())
	p.Fprintf(w, "Cache Hits:     %d\n", r.CacheHits)
	p.Fprintf(w, "Disk Reads:     %d\n", r.DiskReads)
	p.Fprintf(w, "Disk Writes:    %d\n", r.DiskWrites)
	p.Fprintf(w, "Hit Rate:       %.2f%%\n", r.HitRate())
	if r.DataFile != "" {
		p.Fprintf(w, "Data File:      %s (%s, %d records, %d x %s buffers)\n",
			r.DataFile, humanize.Bytes(uint64(r.FileSize)), r.Records,
			r.NumBuffers, humanize.Bytes(uint64(r.BlockSize)))
	}
}

// WritePrometheus writes the report in Prometheus text format.
func WritePrometheus(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# HELP bufsort_execution_seconds Wall time of the last sort run\n")
	fmt.Fprintf(bw, "# TYPE bufsort_execution_seconds gauge\n")
	fmt.Fprintf(bw, "bufsort_execution_seconds %.3f\n", r.Elapsed.Seconds())

	fmt.Fprintf(bw, "# HELP bufsort_cache_hits_total Block lookups served from a cache line\n")
	fmt.Fprintf(bw, "# TYPE bufsort_cache_hits_total counter\n")
	fmt.Fprintf(bw, "bufsort_cache_hits_total %d\n", r.CacheHits)

	fmt.Fprintf(bw, "# HELP bufsort_disk_reads_total Blocks read from the data file\n")
	fmt.Fprintf(bw, "# TYPE bufsort_disk_reads_total counter\n")
	fmt.Fprintf(bw, "bufsort_disk_reads_total %d\n", r.DiskReads)

	fmt.Fprintf(bw, "# HELP bufsort_disk_writes_total Blocks written to the data file\n")
	fmt.Fprintf(bw, "# TYPE bufsort_disk_writes_total counter\n")
	fmt.Fprintf(bw, "bufsort_disk_writes_total %d\n", r.DiskWrites)

	fmt.Fprintf(bw, "# HELP bufsort_cache_hit_ratio Cache hits over block lookups\n")
	fmt.Fprintf(bw, "# TYPE bufsort_cache_hit_ratio gauge\n")
	fmt.Fprintf(bw, "bufsort_cache_hit_ratio %.4f\n", r.HitRate()/100)

	fmt.Fprintf(bw, "# HELP bufsort_data_file_bytes Size of the sorted file\n")
	fmt.Fprintf(bw, "# TYPE bufsort_data_file_bytes gauge\n")
	fmt.Fprintf(bw, "bufsort_data_file_bytes %d\n", r.FileSize)

	fmt.Fprintf(bw, "# HELP bufsort_buffers Number of cache lines in the pool\n")
	fmt.Fprintf(bw, "# TYPE bufsort_buffers gauge\n")
	fmt.Fprintf(bw, "bufsort_buffers %d\n", r.NumBuffers)

	return bw.Flush()
}

// WritePrometheusFile writes the Prometheus exposition to path.
func WritePrometheusFile(fs afero.Fs, path string, r Report) error {
	return writeFile(fs, path, func(w io.Writer) error { return WritePrometheus(w, r) })
}

func writeFile(fs afero.Fs, path string, write func(io.Writer) error) error {
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return serrors.FileOpenFailed(path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return serrors.IOFailure("write", errors.Wrapf(err, "write %s", path))
	}
	if err := f.Close(); err != nil {
		return serrors.IOFailure("close", errors.Wrapf(err, "close %s", path))
	}
	return nil
}
