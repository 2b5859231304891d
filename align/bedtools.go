package align

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KoenvdBerg/metAEP/encoding/fasta"
	"github.com/grailbio/base/errors"
)

// WriteGenomeFile writes the two-column genome file bedtools genomecov
// expects (reference name TAB length) for every sequence of the reference,
// in FASTA order.  It returns the file's path under outdir.
func WriteGenomeFile(ref *fasta.Reference, outdir string) (string, error) {
	var sb strings.Builder
	for _, name := range ref.SeqNames() {
		n, err := ref.Len(name)
		if err != nil {
			return "", err
		}
		sb.WriteString(name)
		sb.WriteByte('\t')
		sb.WriteString(strconv.FormatInt(n, 10))
		sb.WriteByte('\n')
	}
	path := filepath.Join(outdir, "genome.file")
	if err := ioutil.WriteFile(path, []byte(sb.String()), 0666); err != nil {
		return "", errors.E(err, "writing genome file:", path)
	}
	return path, nil
}

// GenomeCoverage runs 'bedtools genomecov -bga' on a sorted BAM, writing
// the bedgraph depth track to a .bg file and returning its path.  The -bga
// flag makes bedtools report zero-depth runs too, so the track tiles each
// reference completely.
func (t Tools) GenomeCoverage(ctx context.Context, sortedBamPath, genomeFile, outdir string) (string, error) {
	out, err := runCapture(ctx, program(t.BedtoolsDir, "bedtools"),
		"genomecov", "-bga", "-ibam", sortedBamPath, "-g", genomeFile)
	if err != nil {
		return "", err
	}
	bgPath := filepath.Join(outdir, strings.SplitN(Stem(sortedBamPath), ".", 2)[0]+".bg")
	if err := ioutil.WriteFile(bgPath, out, 0666); err != nil {
		return "", errors.E(err, "writing bedgraph:", bgPath)
	}
	return bgPath, nil
}
