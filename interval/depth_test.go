package interval

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

func TestDepthScanner(t *testing.T) {
	in := "c1\t0\t500\t0\nc1\t500\t1000\t5\nc2\t0\t250\t2.5\n"
	want := []DepthInterval{
		{RefName: "c1", Start: 0, End: 500, Depth: 0},
		{RefName: "c1", Start: 500, End: 1000, Depth: 5},
		{RefName: "c2", Start: 0, End: 250, Depth: 2.5},
	}
	got, err := ReadDepthIntervals(strings.NewReader(in))
	expect.NoError(t, err)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDepthScannerBlankLines(t *testing.T) {
	in := "\nc1\t0\t10\t1\n\n"
	got, err := ReadDepthIntervals(strings.NewReader(in))
	expect.NoError(t, err)
	expect.EQ(t, len(got), 1)
}

func TestDepthScannerErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"tooFewTokens", "c1\t0\t500\n"},
		{"nonNumericStart", "c1\tx\t500\t0\n"},
		{"nonNumericDepth", "c1\t0\t500\tx\n"},
		{"endBeforeStart", "c1\t500\t400\t0\n"},
		{"negativeDepth", "c1\t0\t500\t-1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadDepthIntervals(strings.NewReader(tt.in)); err == nil {
				t.Errorf("expected error for %q", tt.in)
			}
		})
	}
}

func TestReadDepthIntervalsFromPath(t *testing.T) {
	ivs, err := ReadDepthIntervalsFromPath("testdata/sample1.bg")
	expect.NoError(t, err)
	expect.EQ(t, len(ivs), 3)
	expect.EQ(t, ivs[1], DepthInterval{RefName: "clusterA", Start: 500, End: 1000, Depth: 5})
}

func TestReadDepthIntervalsFromPathGzip(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "depthgz")
	expect.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	raw, err := ioutil.ReadFile("testdata/sample1.bg")
	expect.NoError(t, err)
	gzPath := filepath.Join(tmpDir, "sample1.bg.gz")
	f, err := os.Create(gzPath)
	expect.NoError(t, err)
	gw := gzip.NewWriter(f)
	_, err = gw.Write(raw)
	expect.NoError(t, err)
	expect.NoError(t, gw.Close())
	expect.NoError(t, f.Close())

	ivs, err := ReadDepthIntervalsFromPath(gzPath)
	expect.NoError(t, err)
	plain, err := ReadDepthIntervalsFromPath("testdata/sample1.bg")
	expect.NoError(t, err)
	if !reflect.DeepEqual(ivs, plain) {
		t.Errorf("gzip read mismatch: got %v, want %v", ivs, plain)
	}
}
