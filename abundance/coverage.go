package abundance

import (
	"github.com/KoenvdBerg/metAEP/interval"
)

// CoverageAccumulator computes per-reference breadth of coverage (the
// fraction of the reference's length with non-zero depth) from a stream of
// depth intervals.  Depth tracks from 'genomecov -bga' extend to the full
// reference length, so the last interval's End is taken as the reference
// length.
type CoverageAccumulator struct {
	uncovered map[string]interval.PosType
	length    map[string]interval.PosType
}

// NewCoverageAccumulator returns an empty accumulator.
func NewCoverageAccumulator() *CoverageAccumulator {
	return &CoverageAccumulator{
		uncovered: make(map[string]interval.PosType),
		length:    make(map[string]interval.PosType),
	}
}

// Add consumes one depth interval.  Intervals for a reference must arrive
// contiguous and in increasing start order.
func (a *CoverageAccumulator) Add(iv interval.DepthInterval) {
	if _, ok := a.length[iv.RefName]; !ok {
		a.uncovered[iv.RefName] = 0
	}
	a.length[iv.RefName] = iv.End
	if iv.Depth == 0 {
		a.uncovered[iv.RefName] += iv.End - iv.Start
	}
}

// Fractions returns the per-reference coverage fraction.  A reference that
// never appeared in the stream has no entry; callers default missing keys
// to 0.
func (a *CoverageAccumulator) Fractions() map[string]float64 {
	fracs := make(map[string]float64, len(a.length))
	for ref, length := range a.length {
		if length == 0 {
			fracs[ref] = 0
			continue
		}
		fracs[ref] = float64(length-a.uncovered[ref]) / float64(length)
	}
	return fracs
}

// Coverage computes coverage fractions from an in-memory interval slice.
func Coverage(ivs []interval.DepthInterval) map[string]float64 {
	acc := NewCoverageAccumulator()
	for _, iv := range ivs {
		acc.Add(iv)
	}
	return acc.Fractions()
}
