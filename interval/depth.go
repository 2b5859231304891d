package interval

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// PosType is the coordinate type shared by depth intervals and region
// unions.
type PosType int32

const posTypeMax = math.MaxInt32

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		// These simple loops beat the standard library string-split functions
		// for the narrow tables handled here (3-4 columns).
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// DepthInterval is a maximal run of positions on RefName sharing the same
// read depth, as reported by one bedgraph line.  The interval is half-open
// [Start, End).  Intervals belonging to one reference arrive contiguous,
// non-overlapping, and in increasing Start order; no ordering is guaranteed
// across references.
type DepthInterval struct {
	RefName string
	Start   PosType
	End     PosType
	Depth   float64
}

// DepthScanner reads a stream of bedgraph records (refname, start, end,
// depth; tab- or space-separated) one interval at a time.
type DepthScanner struct {
	scanner *bufio.Scanner
	cur     DepthInterval
	lineIdx int
	err     error
}

// NewDepthScanner returns a DepthScanner reading from r.
func NewDepthScanner(r io.Reader) *DepthScanner {
	return &DepthScanner{scanner: bufio.NewScanner(r)}
}

// Scan advances to the next depth interval.  It returns false at end of
// input or on the first malformed record; Err() distinguishes the two.
func (d *DepthScanner) Scan() bool {
	if d.err != nil {
		return false
	}
	var tokens [4][]byte
	for d.scanner.Scan() {
		d.lineIdx++
		curLine := d.scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken == 0 {
			continue
		}
		if nToken != 4 {
			d.err = fmt.Errorf("interval.DepthScanner: line %d has %d tokens, expected 4", d.lineIdx, nToken)
			return false
		}
		var parsedStart, parsedEnd int
		if parsedStart, d.err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); d.err != nil {
			d.err = fmt.Errorf("interval.DepthScanner: invalid start on line %d: %v", d.lineIdx, d.err)
			return false
		}
		if parsedEnd, d.err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); d.err != nil {
			d.err = fmt.Errorf("interval.DepthScanner: invalid end on line %d: %v", d.lineIdx, d.err)
			return false
		}
		if parsedStart < 0 || parsedEnd <= parsedStart || parsedEnd >= posTypeMax {
			d.err = fmt.Errorf("interval.DepthScanner: invalid coordinate pair on line %d", d.lineIdx)
			return false
		}
		var depth float64
		if depth, d.err = strconv.ParseFloat(gunsafe.BytesToString(tokens[3]), 64); d.err != nil {
			d.err = fmt.Errorf("interval.DepthScanner: invalid depth on line %d: %v", d.lineIdx, d.err)
			return false
		}
		if depth < 0 {
			d.err = fmt.Errorf("interval.DepthScanner: negative depth on line %d", d.lineIdx)
			return false
		}
		// tokens[0] refers to bytes on curLine that the next Scan overwrites,
		// so a full copy is needed here.
		d.cur = DepthInterval{
			RefName: string(tokens[0]),
			Start:   PosType(parsedStart),
			End:     PosType(parsedEnd),
			Depth:   depth,
		}
		return true
	}
	d.err = d.scanner.Err()
	return false
}

// Interval returns the most recently scanned depth interval.
func (d *DepthScanner) Interval() DepthInterval {
	return d.cur
}

// Err returns the first error encountered while scanning, or nil if the
// stream was exhausted cleanly.
func (d *DepthScanner) Err() error {
	return d.err
}

// ReadDepthIntervals slurps an entire bedgraph stream into memory.
func ReadDepthIntervals(r io.Reader) ([]DepthInterval, error) {
	var ivs []DepthInterval
	scanner := NewDepthScanner(r)
	for scanner.Scan() {
		ivs = append(ivs, scanner.Interval())
	}
	return ivs, scanner.Err()
}

// ReadDepthIntervalsFromPath is a wrapper for ReadDepthIntervals that takes
// a path (possibly gzipped) instead of an io.Reader.
func ReadDepthIntervalsFromPath(path string) (ivs []DepthInterval, err error) {
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
	return ReadDepthIntervals(reader)
}
