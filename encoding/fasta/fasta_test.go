package fasta

import (
	"reflect"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestNew(t *testing.T) {
	in := ">cluster1 a description\nACGTAC\nGAGGAC\nGCG\n>cluster2\nACGT\n"
	ref, err := New(strings.NewReader(in))
	expect.NoError(t, err)

	if got, want := ref.SeqNames(), []string{"cluster1", "cluster2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	n, err := ref.Len("cluster1")
	expect.NoError(t, err)
	expect.EQ(t, n, int64(15))
	n, err = ref.Len("cluster2")
	expect.NoError(t, err)
	expect.EQ(t, n, int64(4))
	if _, err = ref.Len("cluster3"); err == nil {
		t.Errorf("expected error for unknown sequence")
	}
}

func TestNewCorePrefix(t *testing.T) {
	in := ">core_cluster1\nACGT\nAC\n"
	ref, err := New(strings.NewReader(in))
	expect.NoError(t, err)
	if got, want := ref.SeqNames(), []string{"cluster1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	n, err := ref.Len("cluster1")
	expect.NoError(t, err)
	expect.EQ(t, n, int64(6))
}

func TestNewMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"dataBeforeHeader", "ACGT\n>c1\nAC\n"},
		{"emptyName", "> oops\nACGT\n"},
		{"duplicateName", ">c1\nAC\n>c1\nGT\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(strings.NewReader(tt.in)); err == nil {
				t.Errorf("expected error for %q", tt.in)
			}
		})
	}
}
