package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/KoenvdBerg/metAEP/abundance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() *Table {
	return &Table{
		Clusters: []string{"c1", "c2", "c3"},
		Samples: []SampleResult{
			{
				Name:       "SRR1",
				MappedFrac: 0.9753,
				Stats: map[string]abundance.Stats{
					"c1": {TPM: 0.75, RPKM: 1e6, Coverage: 0.9},
					"c2": {TPM: 0.25, RPKM: 3e5, Coverage: 0.2},
				},
			},
			{
				Name: "SRR2",
				Stats: map[string]abundance.Stats{
					"c1": {TPM: 1, RPKM: 2e6, Coverage: 0.5, CoreTPM: 1, CoreRPKM: 5e5, CoreCoverage: 0.4},
				},
				HasCore: true,
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testTable().WriteCSV(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t,
		"gene_clusters,SRR1.TPM,SRR1.RPKM,SRR1.cov,SRR2.TPM,SRR2.RPKM,SRR2.cov,SRR2.coreTPM,SRR2.coreRPKM,SRR2.corecov",
		lines[0])
	// TPM fractions are scaled to the per-million base on export.
	assert.Equal(t, "c1,750000,1e+06,0.9,1e+06,2e+06,0.5,1e+06,500000,0.4", lines[1])
	assert.Equal(t, "c3,0,0,0,0,0,0,0,0,0", lines[3])
}

func TestDropAllZeroRows(t *testing.T) {
	filtered := testTable().DropAllZeroRows()
	assert.Equal(t, []string{"c1", "c2"}, filtered.Clusters)
}

func TestFilterCoverage(t *testing.T) {
	tbl := testTable()
	assert.Equal(t, []string{"c1"}, tbl.FilterCoverage(0.4).Clusters)
	assert.Equal(t, []string{"c1", "c2"}, tbl.FilterCoverage(0.1).Clusters)
	assert.Empty(t, tbl.FilterCoverage(0.95).Clusters)
}

func TestWriteRPKMCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testTable().WriteRPKMCSV(&buf, false))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "gene_clusters,SRR1,SRR2", lines[0])
	assert.Equal(t, "c1,1e+06,2e+06", lines[1])
}

func TestWriteRPKMTSVCore(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testTable().WriteRPKMTSV(&buf, true))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "gene_clusters\tSRR1\tSRR2", lines[0])
	// SRR1 has no core statistics; its column defaults to 0.
	assert.Equal(t, "c1\t0\t500000", lines[1])
}

func TestWriteMappingRates(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testTable().WriteMappingRates(&buf))
	assert.Equal(t, "SRR1,SRR2\n0.9753,0\n", buf.String())
}

func TestAnyCore(t *testing.T) {
	tbl := testTable()
	assert.True(t, tbl.AnyCore())
	tbl.Samples[1].HasCore = false
	assert.False(t, tbl.AnyCore())
}
