package abundance

import (
	"gonum.org/v1/gonum/floats"
)

// TPM computes per-reference transcripts-per-million abundances from a
// count table, as un-scaled fractions: over all references with a defined
// rate, the values sum to 1 (display scaling by 1e6 is the exporter's
// concern).  References with length 0 have no defined rate and get 0.  If
// every rate is 0 the whole mapping is 0.
func TPM(records []CountRecord) map[string]float64 {
	rates := make([]float64, 0, len(records))
	for _, rec := range records {
		if rec.Length > 0 {
			rates = append(rates, float64(rec.Mapped)/float64(rec.Length))
		}
	}
	rateSum := floats.Sum(rates)

	tpm := make(map[string]float64, len(records))
	rateIdx := 0
	for _, rec := range records {
		if rec.Length <= 0 {
			tpm[rec.RefName] = 0
			continue
		}
		if rateSum == 0 {
			tpm[rec.RefName] = 0
		} else {
			tpm[rec.RefName] = rates[rateIdx] / rateSum
		}
		rateIdx++
	}
	return tpm
}

// RPKM computes per-reference reads-per-kilobase-per-million-mapped-reads
// values: mapped / (total mapped * length) * 1e9.  A zero read total or a
// zero-length reference resolves to 0.
func RPKM(records []CountRecord) map[string]float64 {
	readCounts := make([]float64, len(records))
	for i, rec := range records {
		readCounts[i] = float64(rec.Mapped)
	}
	readSum := floats.Sum(readCounts)

	rpkm := make(map[string]float64, len(records))
	for i, rec := range records {
		if readSum == 0 || rec.Length <= 0 {
			rpkm[rec.RefName] = 0
			continue
		}
		rpkm[rec.RefName] = readCounts[i] / (readSum * float64(rec.Length)) * 1e9
	}
	return rpkm
}

// Normalize computes both TPM and RPKM from one count table.
func Normalize(records []CountRecord) (tpm, rpkm map[string]float64) {
	return TPM(records), RPKM(records)
}
