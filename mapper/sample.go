package mapper

import (
	"context"
	"io"
	"io/ioutil"
	"path/filepath"

	"github.com/KoenvdBerg/metAEP/abundance"
	"github.com/KoenvdBerg/metAEP/align"
	"github.com/KoenvdBerg/metAEP/export"
	"github.com/KoenvdBerg/metAEP/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

// sweepDepth streams a bedgraph file through the given accumulator
// callback without materializing the intervals.
func sweepDepth(path string, add func(interval.DepthInterval)) (err error) {
	ctx := vcontext.Background()
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	scanner := interval.NewDepthScanner(io.Reader(infile.Reader(ctx)))
	for scanner.Scan() {
		add(scanner.Interval())
	}
	return scanner.Err()
}

// processSample runs the whole per-sample pipeline: alignment, counting,
// normalization, coverage aggregation, and (optionally) the core
// calculation.  regions is read-only and may be shared across samples.
func processSample(ctx context.Context, opts *Opts, index, genomeFile string, regions *interval.RegionUnion, mate1, mate2 string) (export.SampleResult, error) {
	sample := align.SampleName(mate1)
	result := export.SampleResult{Name: sample}

	samPath, report, err := opts.Tools.Map(ctx, index, mate1, mate2, opts.Outdir, opts.Threads)
	if err != nil {
		return result, err
	}
	if len(report) > 0 {
		logPath := filepath.Join(opts.Outdir, sample+".bowtie2.log")
		if werr := ioutil.WriteFile(logPath, report, 0666); werr != nil {
			return result, errors.E(werr, "writing bowtie2 log:", logPath)
		}
		frac, perr := align.ParseOverallAlignment(report)
		if perr != nil {
			log.Error.Printf("mapper: %s: %v", sample, perr)
		} else {
			result.MappedFrac = frac
		}
	}

	bamPath, err := opts.Tools.SamToBam(ctx, samPath, opts.Outdir)
	if err != nil {
		return result, err
	}
	sortedPath, err := opts.Tools.SortBam(ctx, bamPath, opts.Outdir)
	if err != nil {
		return result, err
	}
	if err := opts.Tools.IndexBam(ctx, sortedPath); err != nil {
		return result, err
	}

	countsPath, err := opts.Tools.Idxstats(ctx, sortedPath)
	if err != nil {
		return result, err
	}
	records, err := abundance.ParseCountsFromPath(countsPath)
	if err != nil {
		return result, err
	}
	tpm, rpkm := abundance.Normalize(records)

	bgPath, err := opts.Tools.GenomeCoverage(ctx, sortedPath, genomeFile, opts.Outdir)
	if err != nil {
		return result, err
	}
	covAcc := abundance.NewCoverageAccumulator()
	if err := sweepDepth(bgPath, covAcc.Add); err != nil {
		return result, err
	}

	var coreTPM, coreRPKM, coreCov map[string]float64
	if regions != nil {
		if coreTPM, coreRPKM, coreCov, err = processCore(ctx, opts, sortedPath, genomeFile, regions); err != nil {
			return result, err
		}
		result.HasCore = true
	}

	result.Stats = abundance.Assemble(tpm, rpkm, covAcc.Fractions(), coreTPM, coreRPKM, coreCov)
	return result, nil
}

// processCore repeats counting and coverage on the reads overlapping the
// core regions only.
func processCore(ctx context.Context, opts *Opts, sortedPath, genomeFile string, regions *interval.RegionUnion) (coreTPM, coreRPKM, coreCov map[string]float64, err error) {
	coreBam, err := opts.Tools.ExtractRegions(ctx, sortedPath, opts.CoreBedPath, opts.Outdir)
	if err != nil {
		return nil, nil, nil, err
	}
	if err = opts.Tools.IndexBam(ctx, coreBam); err != nil {
		return nil, nil, nil, err
	}
	coreCountsPath, err := opts.Tools.Idxstats(ctx, coreBam)
	if err != nil {
		return nil, nil, nil, err
	}
	coreRecords, err := abundance.ParseCountsFromPath(coreCountsPath)
	if err != nil {
		return nil, nil, nil, err
	}
	coreTPM, coreRPKM = abundance.Normalize(coreRecords)

	coreBgPath, err := opts.Tools.GenomeCoverage(ctx, coreBam, genomeFile, opts.Outdir)
	if err != nil {
		return nil, nil, nil, err
	}
	coreAcc := abundance.NewCoreCoverageAccumulator(regions)
	if err = sweepDepth(coreBgPath, coreAcc.Add); err != nil {
		return nil, nil, nil, err
	}
	return coreTPM, coreRPKM, coreAcc.Fractions(), nil
}
