package abundance

import (
	"github.com/KoenvdBerg/metAEP/interval"
)

// coreCursor is the per-reference sweep state: the index of the current
// core region in the reference's sorted region list, and whether that
// region opened during an earlier depth interval and is still open.
type coreCursor struct {
	idx    int
	inside bool
}

// CoreCoverageAccumulator computes, per reference, the fraction of the
// reference's core-region union that has non-zero depth.  Both the depth
// intervals and the core regions are monotonically increasing per
// reference, so a single forward sweep with one cursor per reference
// suffices; no region is ever re-scanned.
type CoreCoverageAccumulator struct {
	regions *interval.RegionUnion
	cursors map[string]*coreCursor
	covered map[string]interval.PosType
}

// NewCoreCoverageAccumulator returns an accumulator sweeping against the
// given region union.  The union is read-only here and may be shared
// across concurrently processed samples.
func NewCoreCoverageAccumulator(regions *interval.RegionUnion) *CoreCoverageAccumulator {
	return &CoreCoverageAccumulator{
		regions: regions,
		cursors: make(map[string]*coreCursor),
		covered: make(map[string]interval.PosType),
	}
}

// Add consumes one depth interval.  Intervals for a reference must arrive
// contiguous and in increasing start order.
//
// Each covered region portion is accumulated as the exact intersection of
// the depth interval with the current core region, so nested containment
// in either direction (interval inside region, region inside interval)
// contributes each base at most once.  A single interval may close one
// region and open the next; the loop advances the cursor through every
// region the interval touches.  A reference with no core regions, or one
// whose regions are already exhausted, contributes nothing.
func (a *CoreCoverageAccumulator) Add(iv interval.DepthInterval) {
	cur, ok := a.cursors[iv.RefName]
	if !ok {
		cur = &coreCursor{}
		a.cursors[iv.RefName] = cur
		a.covered[iv.RefName] = 0
	}
	regs := a.regions.Intervals(iv.RefName)
	covered := a.covered[iv.RefName]
	for 2*cur.idx < len(regs) {
		regStart, regEnd := regs[2*cur.idx], regs[2*cur.idx+1]
		if regStart >= iv.End {
			// Current region starts at or beyond the end of this interval.
			break
		}
		lo := regStart
		if cur.inside || lo < iv.Start {
			// The region opened during an earlier interval; only the portion
			// inside this interval counts.
			lo = iv.Start
		}
		hi := regEnd
		if hi > iv.End {
			hi = iv.End
		}
		if iv.Depth != 0 && hi > lo {
			covered += hi - lo
		}
		if regEnd > iv.End {
			// Region stays open into subsequent intervals.
			cur.inside = true
			break
		}
		cur.idx++
		cur.inside = false
	}
	a.covered[iv.RefName] = covered
}

// Fractions returns the per-reference core coverage fraction, clamped to 1.
// The clamp tolerates boundary slop in upstream depth tracks, which do not
// always snap exactly to feature boundaries; an overrun is not an error.
// A reference without core regions gets 0.  References absent from the
// depth stream have no entry; callers default missing keys to 0.
func (a *CoreCoverageAccumulator) Fractions() map[string]float64 {
	fracs := make(map[string]float64, len(a.covered))
	for ref, covered := range a.covered {
		length := a.regions.Length(ref)
		if length == 0 {
			fracs[ref] = 0
			continue
		}
		frac := float64(covered) / float64(length)
		if frac > 1 {
			frac = 1
		}
		fracs[ref] = frac
	}
	return fracs
}

// CoreCoverage computes core coverage fractions from an in-memory interval
// slice.
func CoreCoverage(ivs []interval.DepthInterval, regions *interval.RegionUnion) map[string]float64 {
	acc := NewCoreCoverageAccumulator(regions)
	for _, iv := range ivs {
		acc.Add(iv)
	}
	return acc.Fractions()
}
