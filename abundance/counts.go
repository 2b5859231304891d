package abundance

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// CountRecord is one reference sequence's row from a samtools idxstats
// count table: reference name, reference length, number of mapped read
// segments, number of placed-but-unmapped segments.
type CountRecord struct {
	RefName  string
	Length   int64
	Mapped   int64
	Unmapped int64
}

// ParseCounts reads an idxstats-shaped count table (4 tab-separated fields
// per line) and returns one CountRecord per reference, in input order.  The
// trailing "*" bucket idxstats emits for unplaced reads is dropped here: its
// length is always 0, so it can never contribute a defined rate downstream.
// A line with the wrong field count or a non-numeric numeric field fails the
// whole table with the offending line identified.
func ParseCounts(r io.Reader) ([]CountRecord, error) {
	var records []CountRecord
	scanner := bufio.NewScanner(r)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			return nil, fmt.Errorf("abundance.ParseCounts: line %d has %d fields, expected 4", lineIdx, len(fields))
		}
		if fields[0] == "*" {
			continue
		}
		length, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("abundance.ParseCounts: invalid length on line %d: %v", lineIdx, err)
		}
		mapped, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("abundance.ParseCounts: invalid mapped count on line %d: %v", lineIdx, err)
		}
		unmapped, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("abundance.ParseCounts: invalid unmapped count on line %d: %v", lineIdx, err)
		}
		if length < 0 || mapped < 0 || unmapped < 0 {
			return nil, fmt.Errorf("abundance.ParseCounts: negative field on line %d", lineIdx)
		}
		records = append(records, CountRecord{
			RefName:  fields[0],
			Length:   length,
			Mapped:   mapped,
			Unmapped: unmapped,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ParseCountsFromPath is a wrapper for ParseCounts that takes a path
// (possibly gzipped) instead of an io.Reader.
func ParseCountsFromPath(path string) (records []CountRecord, err error) {
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
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return
		}
	}
	return ParseCounts(reader)
}
