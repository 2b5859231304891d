// Package mapper orchestrates the metAEP mapping pipeline for a batch of
// paired-end samples: bowtie2 alignment against the cluster reference,
// samtools counting, bedtools coverage tracks, the abundance/coverage
// engine, and result export.
//
// Samples are independent of each other; they are processed by parallel
// worker jobs with no shared mutable state.  The core-region table is
// loaded once up front and is read-only afterwards.  A failure in one
// sample is recorded and reported but never aborts its peers.
package mapper

import (
	"github.com/KoenvdBerg/metAEP/align"
)

// Opts carries the pipeline configuration.
type Opts struct {
	// Reference is the cluster reference FASTA the samples are mapped
	// against.
	Reference string
	// Outdir is the (existing or creatable) output directory.
	Outdir string
	// Mates1 and Mates2 are the paired fastq files, one pair per sample,
	// matched by position.
	Mates1 []string
	Mates2 []string
	// CoreBedPath, when set, enables the core calculation: a BED table of
	// core regions per cluster, sorted by (cluster, start).
	CoreBedPath string
	// CoverageThreshold is applied by the exporter when writing the
	// filtered result tables.
	CoverageThreshold float64
	// BiomMetadataPath, when set, triggers biom v1.0 output decorated with
	// the sample metadata found at this path.
	BiomMetadataPath string
	// Biom triggers biom v1.0 output even without sample metadata.
	Biom bool
	// Threads is the per-sample bowtie2 thread count.
	Threads int
	// Parallelism is the maximum number of samples processed at once;
	// 0 means runtime.NumCPU().
	Parallelism int
	// Tools locates the external programs; empty fields use $PATH.
	Tools align.Tools
}

// DefaultOpts mirrors the commandline defaults.
var DefaultOpts = Opts{
	CoverageThreshold: 0.4,
	Threads:           6,
	Parallelism:       0,
}
