// Package export flattens per-sample cluster statistics into the pipeline's
// output artifacts: CSV/TSV result tables, coverage-filtered views, and a
// biom v1.0 JSON table for downstream tools such as metagenomeSeq.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/KoenvdBerg/metAEP/abundance"
	"github.com/grailbio/base/tsv"
)

// TPMScale converts the engine's fractional TPM values (which sum to 1)
// to the conventional per-million display base.
const TPMScale = 1e6

// SampleResult is one sample's column group in the results table.
type SampleResult struct {
	// Name is the sample identifier derived from its fastq file names.
	Name string
	// MappedFrac is the sample's overall bowtie2 alignment rate.
	MappedFrac float64
	// Stats maps cluster id to the sample's statistics for that cluster.
	Stats map[string]abundance.Stats
	// HasCore reports whether core statistics were computed for this sample.
	HasCore bool
}

// Table is the cluster-by-sample results matrix.
type Table struct {
	Clusters []string
	Samples  []SampleResult
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes the full results table: one row per cluster, and per
// sample the TPM, RPKM and coverage columns, plus the three core columns
// for samples with core statistics.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"gene_clusters"}
	for _, s := range t.Samples {
		header = append(header, s.Name+".TPM", s.Name+".RPKM", s.Name+".cov")
		if s.HasCore {
			header = append(header, s.Name+".coreTPM", s.Name+".coreRPKM", s.Name+".corecov")
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, cluster := range t.Clusters {
		row := []string{cluster}
		for _, s := range t.Samples {
			st := s.Stats[cluster]
			row = append(row, formatFloat(st.TPM*TPMScale), formatFloat(st.RPKM), formatFloat(st.Coverage))
			if s.HasCore {
				row = append(row, formatFloat(st.CoreTPM*TPMScale), formatFloat(st.CoreRPKM), formatFloat(st.CoreCoverage))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DropAllZeroRows returns a view of the table without clusters whose every
// statistic is 0 in every sample.
func (t *Table) DropAllZeroRows() *Table {
	var kept []string
	for _, cluster := range t.Clusters {
		zero := true
		for _, s := range t.Samples {
			if s.Stats[cluster] != (abundance.Stats{}) {
				zero = false
				break
			}
		}
		if !zero {
			kept = append(kept, cluster)
		}
	}
	return &Table{Clusters: kept, Samples: t.Samples}
}

// FilterCoverage returns a view of the table keeping only clusters whose
// whole-cluster coverage reaches the threshold in at least one sample.
// The engine exposes raw fractions; this is where the configured
// coverage threshold (default 0.4) is applied.
func (t *Table) FilterCoverage(threshold float64) *Table {
	var kept []string
	for _, cluster := range t.Clusters {
		for _, s := range t.Samples {
			if s.Stats[cluster].Coverage >= threshold {
				kept = append(kept, cluster)
				break
			}
		}
	}
	return &Table{Clusters: kept, Samples: t.Samples}
}

func (t *Table) rpkm(cluster string, s *SampleResult, core bool) float64 {
	if core {
		return s.Stats[cluster].CoreRPKM
	}
	return s.Stats[cluster].RPKM
}

// WriteRPKMCSV writes the RPKM-only view of the table (core RPKM when core
// is set), with one plain sample-name column per sample.
func (t *Table) WriteRPKMCSV(w io.Writer, core bool) error {
	cw := csv.NewWriter(w)
	header := []string{"gene_clusters"}
	for _, s := range t.Samples {
		header = append(header, s.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, cluster := range t.Clusters {
		row := []string{cluster}
		for i := range t.Samples {
			row = append(row, formatFloat(t.rpkm(cluster, &t.Samples[i], core)))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRPKMTSV writes the same RPKM-only view tab-separated.
func (t *Table) WriteRPKMTSV(w io.Writer, core bool) error {
	tw := tsv.NewWriter(w)
	tw.WriteString("gene_clusters")
	for _, s := range t.Samples {
		tw.WriteString(s.Name)
	}
	if err := tw.EndLine(); err != nil {
		return err
	}
	for _, cluster := range t.Clusters {
		tw.WriteString(cluster)
		for i := range t.Samples {
			tw.WriteString(formatFloat(t.rpkm(cluster, &t.Samples[i], core)))
		}
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteMappingRates writes each sample's overall alignment rate as a
// two-row CSV (sample names, then fractions).
func (t *Table) WriteMappingRates(w io.Writer) error {
	cw := csv.NewWriter(w)
	names := make([]string, len(t.Samples))
	rates := make([]string, len(t.Samples))
	for i, s := range t.Samples {
		names[i] = s.Name
		rates[i] = formatFloat(s.MappedFrac)
	}
	if err := cw.Write(names); err != nil {
		return err
	}
	if err := cw.Write(rates); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// AnyCore reports whether any sample in the table carries core statistics.
func (t *Table) AnyCore() bool {
	for _, s := range t.Samples {
		if s.HasCore {
			return true
		}
	}
	return false
}
