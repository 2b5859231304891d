package abundance

import (
	"math"
	"testing"

	"github.com/grailbio/testutil/expect"
)

func almostEQ(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTPMSingleReference(t *testing.T) {
	records := []CountRecord{{RefName: "c1", Length: 1000, Mapped: 100}}
	tpm := TPM(records)
	almostEQ(t, tpm["c1"], 1.0)
}

func TestRPKMSingleReference(t *testing.T) {
	records := []CountRecord{{RefName: "c1", Length: 1000, Mapped: 100}}
	rpkm := RPKM(records)
	// 100 / (100 * 1000) * 1e9
	almostEQ(t, rpkm["c1"], 1e6)
}

func TestTPMSumsToOne(t *testing.T) {
	records := []CountRecord{
		{RefName: "c1", Length: 1000, Mapped: 100},
		{RefName: "c2", Length: 2500, Mapped: 30},
		{RefName: "c3", Length: 800, Mapped: 0},
	}
	tpm := TPM(records)
	sum := 0.0
	for _, v := range tpm {
		sum += v
	}
	almostEQ(t, sum, 1.0)
}

func TestTPMAllZeroRates(t *testing.T) {
	records := []CountRecord{
		{RefName: "c1", Length: 1000, Mapped: 0},
		{RefName: "c2", Length: 500, Mapped: 0},
	}
	tpm := TPM(records)
	expect.EQ(t, tpm["c1"], 0.0)
	expect.EQ(t, tpm["c2"], 0.0)
}

func TestNormalizeZeroLength(t *testing.T) {
	// A zero-length reference is excluded from the rate computation and
	// gets 0 for both statistics, without faulting.
	records := []CountRecord{
		{RefName: "c1", Length: 0, Mapped: 50},
		{RefName: "c2", Length: 1000, Mapped: 100},
	}
	tpm, rpkm := Normalize(records)
	expect.EQ(t, tpm["c1"], 0.0)
	expect.EQ(t, rpkm["c1"], 0.0)
	almostEQ(t, tpm["c2"], 1.0)
	// RPKM denominator still counts c1's mapped reads: 100/(150*1000)*1e9.
	almostEQ(t, rpkm["c2"], 100.0/(150.0*1000.0)*1e9)
}

func TestRPKMZeroReadTotal(t *testing.T) {
	records := []CountRecord{
		{RefName: "c1", Length: 1000, Mapped: 0},
	}
	rpkm := RPKM(records)
	expect.EQ(t, rpkm["c1"], 0.0)
}

func TestRPKMNonNegative(t *testing.T) {
	records := []CountRecord{
		{RefName: "c1", Length: 1000, Mapped: 10},
		{RefName: "c2", Length: 100, Mapped: 0},
		{RefName: "c3", Length: 0, Mapped: 3},
	}
	rpkm := RPKM(records)
	for ref, v := range rpkm {
		if v < 0 {
			t.Errorf("RPKM[%s] = %v, want >= 0", ref, v)
		}
	}
	expect.EQ(t, rpkm["c2"], 0.0)
}

func TestNormalizeEmpty(t *testing.T) {
	tpm, rpkm := Normalize(nil)
	expect.EQ(t, len(tpm), 0)
	expect.EQ(t, len(rpkm), 0)
}
