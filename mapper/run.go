package mapper

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/KoenvdBerg/metAEP/align"
	"github.com/KoenvdBerg/metAEP/encoding/fasta"
	"github.com/KoenvdBerg/metAEP/export"
	"github.com/KoenvdBerg/metAEP/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/vcontext"
)

type sampleOutcome struct {
	result export.SampleResult
	err    error
}

// Run executes the full pipeline for all configured samples and writes
// the result tables under opts.Outdir.  It fails fast on setup problems
// (missing reference, unpaired mates); per-sample failures are logged,
// reported at the end, and do not abort the remaining samples.
func Run(ctx context.Context, opts *Opts) error {
	n := len(opts.Mates1)
	if n == 0 {
		return errors.New("mapper: no samples given")
	}
	if n != len(opts.Mates2) {
		return fmt.Errorf("mapper: %d mate-1 files but %d mate-2 files", n, len(opts.Mates2))
	}
	if err := os.MkdirAll(opts.Outdir, 0777); err != nil {
		return errors.E(err, "creating output directory:", opts.Outdir)
	}

	ref, err := fasta.NewFromPath(opts.Reference)
	if err != nil {
		return err
	}
	index, err := opts.Tools.BuildIndex(ctx, opts.Reference, opts.Outdir)
	if err != nil {
		return err
	}
	genomeFile, err := align.WriteGenomeFile(ref, opts.Outdir)
	if err != nil {
		return err
	}

	// The region table is loaded once and shared read-only by all workers.
	var regions *interval.RegionUnion
	if opts.CoreBedPath != "" {
		u, err := interval.NewRegionUnionFromPath(opts.CoreBedPath, interval.RegionUnionOpts{})
		if err != nil {
			return err
		}
		regions = &u
		log.Printf("mapper: %d core region base(s) across %d cluster(s)", u.TotalBases(), u.NumRefs())
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > n {
		parallelism = n
	}
	outcomes := make([]sampleOutcome, n)
	log.Printf("mapper: processing %d sample(s) (%d jobs)", n, parallelism)
	err = traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * n) / parallelism
		endIdx := ((jobIdx + 1) * n) / parallelism
		for i := startIdx; i < endIdx; i++ {
			res, perr := processSample(ctx, opts, index, genomeFile, regions, opts.Mates1[i], opts.Mates2[i])
			if perr != nil {
				log.Error.Printf("mapper: sample %s failed: %v", align.SampleName(opts.Mates1[i]), perr)
			}
			outcomes[i] = sampleOutcome{result: res, err: perr}
		}
		return nil
	})
	if err != nil {
		return err
	}

	var samples []export.SampleResult
	var failed []string
	for i, outcome := range outcomes {
		if outcome.err != nil {
			failed = append(failed, align.SampleName(opts.Mates1[i]))
			continue
		}
		samples = append(samples, outcome.result)
	}
	if len(samples) == 0 {
		return fmt.Errorf("mapper: all %d sample(s) failed", n)
	}

	table := &export.Table{Clusters: ref.SeqNames(), Samples: samples}
	if err := writeResults(table, opts); err != nil {
		return err
	}
	if err := tidyOutdir(opts.Outdir); err != nil {
		return err
	}
	if len(failed) > 0 {
		return fmt.Errorf("mapper: sample(s) failed: %s", strings.Join(failed, ", "))
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	ctx := vcontext.Background()
	var out file.File
	if out, err = file.Create(ctx, path); err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return write(out.Writer(ctx))
}

// writeResults writes the full and filtered result tables, the RPKM-only
// views, the per-sample mapping rates, and (when configured) the biom
// output.
func writeResults(table *export.Table, opts *Opts) error {
	outPath := func(name string) string { return filepath.Join(opts.Outdir, name) }

	if err := writeFile(outPath("metAEP.map.results.ALL.csv"), table.WriteCSV); err != nil {
		return err
	}
	filtered := table.DropAllZeroRows().FilterCoverage(opts.CoverageThreshold)
	if err := writeFile(outPath("metAEP.map.results.ALL_filtered.csv"), filtered.WriteCSV); err != nil {
		return err
	}
	if err := writeFile(outPath("metAEP.map.results.RPKM_filtered.csv"), func(w io.Writer) error {
		return filtered.WriteRPKMCSV(w, false)
	}); err != nil {
		return err
	}
	if err := writeFile(outPath("metAEP.map.results.RPKM_filtered.txt"), func(w io.Writer) error {
		return filtered.WriteRPKMTSV(w, false)
	}); err != nil {
		return err
	}
	if filtered.AnyCore() {
		if err := writeFile(outPath("metAEP.map.results.coreRPKM_filtered.csv"), func(w io.Writer) error {
			return filtered.WriteRPKMCSV(w, true)
		}); err != nil {
			return err
		}
		if err := writeFile(outPath("metAEP.map.results.coreRPKM_filtered.txt"), func(w io.Writer) error {
			return filtered.WriteRPKMTSV(w, true)
		}); err != nil {
			return err
		}
	}
	if err := writeFile(outPath("metAEP.percentages.csv"), table.WriteMappingRates); err != nil {
		return err
	}

	if opts.Biom || opts.BiomMetadataPath != "" {
		var meta map[string]map[string]string
		if opts.BiomMetadataPath != "" {
			if err := readSampleMetadata(opts.BiomMetadataPath, &meta); err != nil {
				return err
			}
		}
		if err := writeFile(outPath("metAEP.map.biom"), func(w io.Writer) error {
			return filtered.WriteBiom(w, false, meta)
		}); err != nil {
			return err
		}
		if filtered.AnyCore() {
			if err := writeFile(outPath("metAEP.map.core.biom"), func(w io.Writer) error {
				return filtered.WriteBiom(w, true, meta)
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// readSampleMetadata loads the sample metadata table from path.
func readSampleMetadata(path string, meta *map[string]map[string]string) (err error) {
	ctx := vcontext.Background()
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return err
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	*meta, err = export.ReadSampleMetadata(infile.Reader(ctx))
	return err
}

// tidyOutdir groups the pipeline's intermediate and final files into
// subdirectories, mirroring the layout downstream tooling expects.
func tidyOutdir(outdir string) error {
	groups := []struct {
		dir      string
		suffixes []string
	}{
		{"bowtie2-index", []string{".bt2", ".bt2l"}},
		{"bowtie2-map-results", []string{".sam", ".bam", ".bai", ".bowtie2.log"}},
		{"bedtools-results", []string{".bg", "genome.file"}},
		{"bowtie2-raw-counts", []string{".count"}},
		{"map-results", []string{".csv", ".txt", ".biom"}},
	}
	entries, err := os.ReadDir(outdir)
	if err != nil {
		return errors.E(err, "reading output directory:", outdir)
	}
	for _, group := range groups {
		destDir := filepath.Join(outdir, group.dir)
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			matched := false
			for _, suffix := range group.suffixes {
				if strings.HasSuffix(name, suffix) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
			if err := os.MkdirAll(destDir, 0777); err != nil {
				return errors.E(err, "creating directory:", destDir)
			}
			if err := os.Rename(filepath.Join(outdir, name), filepath.Join(destDir, name)); err != nil {
				return errors.E(err, "moving output file:", name)
			}
		}
	}
	return nil
}
