package align

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// BuildIndex builds the bowtie2 index for the reference FASTA under
// outdir, returning the index stem.  An existing index is reused.
func (t Tools) BuildIndex(ctx context.Context, reference, outdir string) (string, error) {
	indexStem := filepath.Join(outdir, Stem(reference))
	if _, err := os.Stat(indexStem + ".1.bt2"); err == nil {
		log.Printf("align: reusing bowtie2 index %s", indexStem)
		return indexStem, nil
	}
	if err := run(ctx, program(t.Bowtie2Dir, "bowtie2-build"), reference, indexStem); err != nil {
		return "", err
	}
	return indexStem, nil
}

// Map aligns one paired-end sample against the index with bowtie2
// --sensitive --no-unal, writing <sample>.sam under outdir.  It returns
// the SAM path and bowtie2's stderr report, which carries the
// overall-alignment-rate summary.  An existing SAM file is reused (with an
// empty report).
func (t Tools) Map(ctx context.Context, index, mate1, mate2, outdir string, threads int) (samPath string, report []byte, err error) {
	samPath = filepath.Join(outdir, SampleName(mate1)+".sam")
	if _, serr := os.Stat(samPath); serr == nil {
		log.Printf("align: reusing existing alignment %s", samPath)
		return samPath, nil, nil
	}
	if threads <= 0 {
		threads = 1
	}
	args := []string{
		"--sensitive",
		"--no-unal",
		"--threads", strconv.Itoa(threads),
		"-x", index,
		"-1", mate1,
		"-2", mate2,
		"-S", samPath,
	}
	name := program(t.Bowtie2Dir, "bowtie2")
	log.Printf("align: %s %s", name, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err = cmd.Run(); err != nil {
		err = errors.E(err, fmt.Sprintf("bowtie2 mapping of %s failed: %s", mate1, stderr.String()))
		return "", nil, err
	}
	return samPath, stderr.Bytes(), nil
}

// ParseOverallAlignment extracts the overall alignment rate from a bowtie2
// stderr report, as a fraction in [0, 1].
func ParseOverallAlignment(report []byte) (float64, error) {
	scanner := bufio.NewScanner(bytes.NewReader(report))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.Contains(line, "overall alignment rate") {
			continue
		}
		token := strings.SplitN(line, " ", 2)[0]
		token = strings.TrimSuffix(token, "%")
		perc, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return 0, fmt.Errorf("align.ParseOverallAlignment: bad percentage %q: %v", token, err)
		}
		return perc / 100, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("align.ParseOverallAlignment: no overall alignment rate in report")
}
