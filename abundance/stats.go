package abundance

// Stats holds one reference's statistics for one sample.  Core fields stay
// 0 when core calculation was not requested or the reference has no core
// regions.
type Stats struct {
	TPM          float64
	RPKM         float64
	Coverage     float64
	CoreTPM      float64
	CoreRPKM     float64
	CoreCoverage float64
}

// Assemble joins the normalizer and aggregator outputs for one sample into
// a single per-reference mapping.  The key set is the union of the three
// whole-cluster mappings; any statistic missing for a reference defaults
// to 0.  The three core mappings may be nil.  No recomputation happens
// here.
func Assemble(tpm, rpkm, coverage, coreTPM, coreRPKM, coreCoverage map[string]float64) map[string]Stats {
	stats := make(map[string]Stats, len(tpm))
	for _, m := range []map[string]float64{tpm, rpkm, coverage} {
		for ref := range m {
			if _, ok := stats[ref]; !ok {
				stats[ref] = Stats{}
			}
		}
	}
	for ref := range stats {
		stats[ref] = Stats{
			TPM:          tpm[ref],
			RPKM:         rpkm[ref],
			Coverage:     coverage[ref],
			CoreTPM:      coreTPM[ref],
			CoreRPKM:     coreRPKM[ref],
			CoreCoverage: coreCoverage[ref],
		}
	}
	return stats
}
