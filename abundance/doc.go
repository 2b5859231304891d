/*Package abundance computes per-cluster representation statistics from the
  textual outputs of the mapping pipeline: TPM and RPKM from samtools
  idxstats count tables, and whole-cluster / core-region breadth of
  coverage from bedgraph depth intervals.

  All aggregation here is a pure batch transformation over one sample's
  inputs.  No state is shared across samples, so callers are free to
  process samples concurrently; within a sample the core-region sweep is
  strictly left-to-right and must stay sequential.

  Every division in this package is guarded: a zero denominator (empty
  rate sum, zero read total, zero-length sequence or region union)
  resolves the affected statistic to 0.  That zero-fallback is part of the
  contract, not error swallowing.
*/
package abundance
