/*Package interval implements the interval types consumed by the coverage
  engine: constant-depth runs parsed from bedtools 'genomecov -bga' output,
  and per-sequence unions of core regions loaded from BED files.
  (Note the 'union'.  Overlapping core regions are merged, not tracked
  separately.)
  It assumes every position fits in a PosType, which is currently defined as
  int32 since that's what BAM files are limited to.
*/
package interval
