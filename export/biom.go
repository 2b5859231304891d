package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// biom v1.0 (JSON) table, dense matrix layout.  See
// http://biom-format.org/documentation/format_versions/biom-1.0.html.
type biomTable struct {
	ID                string      `json:"id"`
	Format            string      `json:"format"`
	FormatURL         string      `json:"format_url"`
	Type              string      `json:"type"`
	GeneratedBy       string      `json:"generated_by"`
	Date              string      `json:"date"`
	MatrixType        string      `json:"matrix_type"`
	MatrixElementType string      `json:"matrix_element_type"`
	Shape             [2]int      `json:"shape"`
	Rows              []biomEntry `json:"rows"`
	Columns           []biomEntry `json:"columns"`
	Data              [][]float64 `json:"data"`
}

type biomEntry struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

// WriteBiom writes the table's RPKM values (core RPKM when core is set) as
// a biom v1.0 "Pathway table".  metadata, when non-nil, attaches
// sample-keyed attribute maps to the matching columns.
func (t *Table) WriteBiom(w io.Writer, core bool, metadata map[string]map[string]string) error {
	b := biomTable{
		ID:                "metAEP.map",
		Format:            "Biological Observation Matrix 1.0",
		FormatURL:         "http://biom-format.org",
		Type:              "Pathway table",
		GeneratedBy:       "metAEP",
		Date:              time.Now().Format(time.RFC3339),
		MatrixType:        "dense",
		MatrixElementType: "float",
		Shape:             [2]int{len(t.Clusters), len(t.Samples)},
	}
	for _, cluster := range t.Clusters {
		b.Rows = append(b.Rows, biomEntry{ID: cluster})
	}
	for _, s := range t.Samples {
		b.Columns = append(b.Columns, biomEntry{ID: s.Name, Metadata: metadata[s.Name]})
	}
	for _, cluster := range t.Clusters {
		row := make([]float64, len(t.Samples))
		for i := range t.Samples {
			row[i] = t.rpkm(cluster, &t.Samples[i], core)
		}
		b.Data = append(b.Data, row)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(&b)
}

// ReadSampleMetadata parses a sample metadata table: a tab-separated file
// whose header names the attributes and whose first column holds the
// sample id each row describes.
func ReadSampleMetadata(r io.Reader) (map[string]map[string]string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("export.ReadSampleMetadata: empty metadata table")
	}
	header := strings.Split(scanner.Text(), "\t")
	if len(header) < 2 {
		return nil, fmt.Errorf("export.ReadSampleMetadata: header needs an id column and at least one attribute")
	}
	meta := make(map[string]map[string]string)
	lineIdx := 1
	for scanner.Scan() {
		lineIdx++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != len(header) {
			return nil, fmt.Errorf("export.ReadSampleMetadata: line %d has %d fields, expected %d", lineIdx, len(fields), len(header))
		}
		attrs := make(map[string]string, len(header)-1)
		for i := 1; i < len(header); i++ {
			attrs[header[i]] = fields[i]
		}
		meta[fields[0]] = attrs
	}
	return meta, scanner.Err()
}
