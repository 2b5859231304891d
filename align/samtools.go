package align

import (
	"context"
	"io/ioutil"
	"path/filepath"

	"github.com/grailbio/base/errors"
)

// SamToBam converts a SAM file to BAM with samtools view, returning the
// BAM path.
func (t Tools) SamToBam(ctx context.Context, samPath, outdir string) (string, error) {
	bamPath := filepath.Join(outdir, Stem(samPath)+".bam")
	err := run(ctx, program(t.SamtoolsDir, "samtools"), "view", "-b", "-o", bamPath, samPath)
	if err != nil {
		return "", err
	}
	return bamPath, nil
}

// SortBam coordinate-sorts a BAM file, returning the sorted path.
func (t Tools) SortBam(ctx context.Context, bamPath, outdir string) (string, error) {
	sortedPath := filepath.Join(outdir, Stem(bamPath)+".sorted.bam")
	err := run(ctx, program(t.SamtoolsDir, "samtools"), "sort", "-o", sortedPath, bamPath)
	if err != nil {
		return "", err
	}
	return sortedPath, nil
}

// IndexBam builds a .bai index next to the sorted BAM.
func (t Tools) IndexBam(ctx context.Context, sortedBamPath string) error {
	return run(ctx, program(t.SamtoolsDir, "samtools"), "index", sortedBamPath)
}

// Idxstats runs samtools idxstats on an indexed BAM and writes the count
// table (reference, length, mapped, unmapped) to a .count file, returning
// its path.
func (t Tools) Idxstats(ctx context.Context, sortedBamPath string) (string, error) {
	out, err := runCapture(ctx, program(t.SamtoolsDir, "samtools"), "idxstats", sortedBamPath)
	if err != nil {
		return "", err
	}
	countsPath := sortedBamPath[:len(sortedBamPath)-len("bam")] + "count"
	if err := ioutil.WriteFile(countsPath, out, 0666); err != nil {
		return "", errors.E(err, "writing count table:", countsPath)
	}
	return countsPath, nil
}

// ExtractRegions filters a BAM down to the reads overlapping the BED
// regions, returning the path of the filtered BAM.
func (t Tools) ExtractRegions(ctx context.Context, bamPath, bedPath, outdir string) (string, error) {
	outPath := filepath.Join(outdir, "core_"+Stem(bamPath)+".bam")
	err := run(ctx, program(t.SamtoolsDir, "samtools"), "view", "-b", "-L", bedPath, "-o", outPath, bamPath)
	if err != nil {
		return "", err
	}
	return outPath, nil
}
