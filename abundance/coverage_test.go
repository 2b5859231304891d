package abundance

import (
	"reflect"
	"testing"

	"github.com/KoenvdBerg/metAEP/interval"
	"github.com/grailbio/testutil/expect"
)

func TestCoverageHalfCovered(t *testing.T) {
	ivs := []interval.DepthInterval{
		{RefName: "c1", Start: 0, End: 500, Depth: 0},
		{RefName: "c1", Start: 500, End: 1000, Depth: 5},
	}
	cov := Coverage(ivs)
	expect.EQ(t, cov["c1"], 0.5)
}

func TestCoverageFullyCovered(t *testing.T) {
	ivs := []interval.DepthInterval{
		{RefName: "c1", Start: 0, End: 300, Depth: 1},
		{RefName: "c1", Start: 300, End: 1000, Depth: 7},
	}
	cov := Coverage(ivs)
	expect.EQ(t, cov["c1"], 1.0)
}

func TestCoverageUncovered(t *testing.T) {
	ivs := []interval.DepthInterval{
		{RefName: "c1", Start: 0, End: 1000, Depth: 0},
	}
	cov := Coverage(ivs)
	expect.EQ(t, cov["c1"], 0.0)
}

func TestCoverageMultipleReferences(t *testing.T) {
	ivs := []interval.DepthInterval{
		{RefName: "c1", Start: 0, End: 400, Depth: 2},
		{RefName: "c1", Start: 400, End: 1000, Depth: 0},
		{RefName: "c2", Start: 0, End: 100, Depth: 1},
	}
	cov := Coverage(ivs)
	expect.EQ(t, cov["c1"], 0.4)
	expect.EQ(t, cov["c2"], 1.0)
	if _, ok := cov["c3"]; ok {
		t.Errorf("reference with no intervals must be absent from the output")
	}
}

func TestCoverageBounds(t *testing.T) {
	ivs := []interval.DepthInterval{
		{RefName: "c1", Start: 0, End: 17, Depth: 0},
		{RefName: "c1", Start: 17, End: 213, Depth: 3},
		{RefName: "c1", Start: 213, End: 999, Depth: 0},
	}
	cov := Coverage(ivs)
	if cov["c1"] < 0 || cov["c1"] > 1 {
		t.Errorf("coverage fraction %v out of [0, 1]", cov["c1"])
	}
}

func TestCoverageIdempotent(t *testing.T) {
	ivs := []interval.DepthInterval{
		{RefName: "c1", Start: 0, End: 500, Depth: 0},
		{RefName: "c1", Start: 500, End: 1000, Depth: 5},
		{RefName: "c2", Start: 0, End: 50, Depth: 1},
	}
	first := Coverage(ivs)
	second := Coverage(ivs)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated aggregation differs: %v vs %v", first, second)
	}
}
