package interval

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// RegionUnionOpts defines behavior of this package's region-loading
// function(s).
type RegionUnionOpts struct {
	// OneBasedInput interprets the BED interval boundaries as one-based
	// [start, end] instead of the usual zero-based [start, end).
	OneBasedInput bool
}

// RegionUnion holds, per reference sequence, the union of that sequence's
// core regions.  The disjoint-interval set of sequence s is stored as a
// length-2N slice where region #k (numbering from zero) occupies elements
// [2k] (start) and [2k+1] (end), sorted in increasing order; touching and
// overlapping input regions are merged on load.  The per-sequence union
// sizes are tracked so that core-coverage fractions have a denominator.
type RegionUnion struct {
	nameMap map[string][]PosType
	lengths map[string]PosType
}

// Intervals returns the flattened disjoint-interval set for refName, or nil
// if the reference has no core regions.  The returned slice is shared and
// must not be mutated.
func (u *RegionUnion) Intervals(refName string) []PosType {
	return u.nameMap[refName]
}

// Length returns the total number of bases in refName's region union, or 0
// if the reference has no core regions.
func (u *RegionUnion) Length(refName string) PosType {
	return u.lengths[refName]
}

// NumRefs returns the number of references with at least one region.
func (u *RegionUnion) NumRefs() int {
	return len(u.nameMap)
}

// TotalBases returns the number of bases covered by the union across all
// references.
func (u *RegionUnion) TotalBases() int {
	tot := 0
	for _, n := range u.lengths {
		tot += int(n)
	}
	return tot
}

// Entry represents a single region, with 0-based half-open coordinates.
type Entry struct {
	RefName string
	Start0  PosType
	End     PosType
}

func initRegionUnion() (u RegionUnion) {
	u.nameMap = make(map[string][]PosType)
	u.lengths = make(map[string]PosType)
	return
}

// saveRef finalizes one reference's merged interval set.
func (u *RegionUnion) saveRef(refName string, intervals []PosType) {
	if len(intervals) == 0 {
		return
	}
	var tot PosType
	for i := 0; i < len(intervals); i += 2 {
		tot += intervals[i+1] - intervals[i]
	}
	u.nameMap[refName] = intervals
	u.lengths[refName] = tot
}

func scanRegionUnion(scanner *bufio.Scanner, opts RegionUnionOpts) (u RegionUnion, err error) {
	u = initRegionUnion()

	var startSubtract PosType
	if opts.OneBasedInput {
		startSubtract++
	}

	var tokens [3][]byte

	lineIdx := 0
	prevRef := ""
	prevStart := PosType(-1)
	prevEnd := PosType(-1)
	var refIntervals []PosType
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken != 3 {
			if nToken == 0 {
				continue
			}
			err = fmt.Errorf("interval.scanRegionUnion: line %d has fewer tokens than expected", lineIdx)
			return
		}

		curRef := tokens[0]
		var parsedStart int
		if parsedStart, err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); err != nil {
			return
		}
		start := PosType(parsedStart) - startSubtract
		if start < 0 {
			err = fmt.Errorf("interval.scanRegionUnion: negative start coordinate %s on line %d", tokens[1], lineIdx)
			return
		}

		var parsedEnd int
		if parsedEnd, err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); err != nil {
			return
		}
		if (PosType(parsedEnd) < start) || (parsedEnd >= posTypeMax) {
			err = fmt.Errorf("interval.scanRegionUnion: invalid coordinate pair on line %d", lineIdx)
			return
		}
		end := PosType(parsedEnd)
		if prevRef != gunsafe.BytesToString(curRef) {
			if prevRef != "" {
				if prevEnd != -1 {
					refIntervals = append(refIntervals, prevStart, prevEnd)
				}
				u.saveRef(prevRef, refIntervals)
			}
			// curRef refers to bytes on curLine that will be overwritten soon;
			// a full heap copy is needed since it persists as a map key.
			prevRef = string(curRef)
			if _, found := u.nameMap[prevRef]; found {
				err = fmt.Errorf("interval.scanRegionUnion: unsorted input (split reference %s)", curRef)
				return
			}
			refIntervals = nil
			if end == start {
				// Empty regions are dropped.
				prevStart = -1
				prevEnd = -1
			} else {
				prevStart = start
				prevEnd = end
			}
			continue
		}
		if end == start {
			continue
		}
		if prevEnd != -1 && start > prevEnd {
			// New region doesn't touch the previous one, so the previous one
			// can be saved.
			refIntervals = append(refIntervals, prevStart, prevEnd)
			prevStart = start
			prevEnd = end
		} else {
			if start < prevStart {
				err = fmt.Errorf("interval.scanRegionUnion: unsorted input on line %d", lineIdx)
				return
			}
			if prevEnd == -1 {
				prevStart = start
				prevEnd = end
			} else if end > prevEnd {
				// Regions overlap or touch, merge them.
				prevEnd = end
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}
	if prevRef != "" {
		if prevEnd != -1 {
			refIntervals = append(refIntervals, prevStart, prevEnd)
		}
		u.saveRef(prevRef, refIntervals)
	}
	return
}

// NewRegionUnion loads the intervals from a BED-shaped region table sorted
// by (reference, start), merging touching/overlapping regions and
// eliminating empty ones in the process.
func NewRegionUnion(reader io.Reader, opts RegionUnionOpts) (RegionUnion, error) {
	// Scanner does not handle very long lines unless an adequate buffer size
	// is specified in advance; shouldn't matter for BED files.
	return scanRegionUnion(bufio.NewScanner(reader), opts)
}

// NewRegionUnionFromPath is a wrapper for NewRegionUnion that takes a path
// (possibly gzipped) instead of an io.Reader.
func NewRegionUnionFromPath(path string, opts RegionUnionOpts) (u RegionUnion, err error) {
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
	return NewRegionUnion(reader, opts)
}

// NewRegionUnionFromEntries initializes a RegionUnion from a sorted []Entry.
// This ignores opts.OneBasedInput, since Start0 is defined to be zero-based.
func NewRegionUnionFromEntries(entries []Entry, opts RegionUnionOpts) (u RegionUnion, err error) {
	u = initRegionUnion()
	prevRef := ""
	prevStart := PosType(-1)
	prevEnd := PosType(-1)
	var refIntervals []PosType
	for _, entry := range entries {
		if entry.Start0 < 0 {
			err = fmt.Errorf("interval.NewRegionUnionFromEntries: negative start coordinate")
			return
		}
		if (entry.End < entry.Start0) || (entry.End >= posTypeMax) {
			err = fmt.Errorf("interval.NewRegionUnionFromEntries: invalid coordinate pair [%d, %d)", entry.Start0, entry.End)
			return
		}
		if prevRef != entry.RefName {
			if prevRef != "" {
				if prevEnd != -1 {
					refIntervals = append(refIntervals, prevStart, prevEnd)
				}
				u.saveRef(prevRef, refIntervals)
			}
			prevRef = entry.RefName
			if _, found := u.nameMap[prevRef]; found {
				err = fmt.Errorf("interval.NewRegionUnionFromEntries: unsorted input (split reference %s)", entry.RefName)
				return
			}
			refIntervals = nil
			if entry.End == entry.Start0 {
				prevStart = -1
				prevEnd = -1
				continue
			}
			prevStart = entry.Start0
			prevEnd = entry.End
			continue
		}
		if entry.End == entry.Start0 {
			continue
		}
		if prevEnd != -1 && entry.Start0 > prevEnd {
			refIntervals = append(refIntervals, prevStart, prevEnd)
			prevStart = entry.Start0
			prevEnd = entry.End
		} else {
			if entry.Start0 < prevStart {
				err = fmt.Errorf("interval.NewRegionUnionFromEntries: unsorted input")
				return
			}
			if prevEnd == -1 {
				prevStart = entry.Start0
				prevEnd = entry.End
			} else if entry.End > prevEnd {
				prevEnd = entry.End
			}
		}
	}
	if prevRef != "" {
		if prevEnd != -1 {
			refIntervals = append(refIntervals, prevStart, prevEnd)
		}
		u.saveRef(prevRef, refIntervals)
	}
	return
}
