package abundance

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestAssemble(t *testing.T) {
	tpm := map[string]float64{"c1": 0.75, "c2": 0.25}
	rpkm := map[string]float64{"c1": 1e6, "c2": 3e5}
	cov := map[string]float64{"c1": 0.9}
	coreCov := map[string]float64{"c1": 0.5}

	stats := Assemble(tpm, rpkm, cov, nil, nil, coreCov)
	expect.EQ(t, len(stats), 2)
	expect.EQ(t, stats["c1"], Stats{TPM: 0.75, RPKM: 1e6, Coverage: 0.9, CoreCoverage: 0.5})
	// c2 never appeared in the coverage or core mappings; those default to 0.
	expect.EQ(t, stats["c2"], Stats{TPM: 0.25, RPKM: 3e5})
}

func TestAssembleNoCore(t *testing.T) {
	stats := Assemble(
		map[string]float64{"c1": 1},
		map[string]float64{"c1": 2},
		map[string]float64{"c1": 0.3},
		nil, nil, nil,
	)
	expect.EQ(t, stats["c1"], Stats{TPM: 1, RPKM: 2, Coverage: 0.3})
}

func TestAssembleCoverageOnlyReference(t *testing.T) {
	// A reference present only in the depth stream still gets a row.
	stats := Assemble(
		map[string]float64{"c1": 1},
		map[string]float64{"c1": 2},
		map[string]float64{"c1": 0.3, "c2": 0.8},
		nil, nil, nil,
	)
	expect.EQ(t, len(stats), 2)
	expect.EQ(t, stats["c2"], Stats{Coverage: 0.8})
}

func TestAssembleEmpty(t *testing.T) {
	stats := Assemble(nil, nil, nil, nil, nil, nil)
	expect.EQ(t, len(stats), 0)
}
