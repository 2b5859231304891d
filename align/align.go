// Package align wraps the external programs the mapping pipeline shells
// out to: bowtie2 for alignment, samtools for BAM manipulation and read
// counting, and bedtools for per-position coverage tracks.  The package
// only builds command lines and consumes the tools' textual outputs; all
// alignment semantics live in the tools themselves.
package align

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Tools holds explicit paths to the external program directories.  Empty
// fields fall back to $PATH lookup, which is the common case when running
// inside the distribution container.
type Tools struct {
	Bowtie2Dir  string
	SamtoolsDir string
	BedtoolsDir string
}

func program(dir, name string) string {
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// run executes one external command, logging it first and folding the
// combined output into the returned error on failure.
func run(ctx context.Context, name string, args ...string) error {
	log.Debug.Printf("align: %s %s", name, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.E(err, fmt.Sprintf("%s %s failed: %s", name, strings.Join(args, " "), out))
	}
	return nil
}

// runCapture executes one external command and returns its stdout,
// folding stderr into the returned error on failure.
func runCapture(ctx context.Context, name string, args ...string) ([]byte, error) {
	log.Debug.Printf("align: %s %s", name, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		detail := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			detail = string(exitErr.Stderr)
		}
		return nil, errors.E(err, fmt.Sprintf("%s %s failed: %s", name, strings.Join(args, " "), detail))
	}
	return out, nil
}

// Stem returns the path's base name with its extension removed, peeling a
// trailing .gz first so that "sample_1.fq.gz" yields "sample_1".
func Stem(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SampleName derives a sample identifier from a mate-1 fastq path.  Sample
// files follow the '<sample>_<mate>.<ext>' convention, so everything up to
// the first underscore is the sample name.
func SampleName(mate1 string) string {
	return strings.SplitN(Stem(mate1), "_", 2)[0]
}
