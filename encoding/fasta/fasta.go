// Package fasta contains code for reading the reference FASTA files the
// mapping pipeline aligns against.  Only sequence names and lengths are
// retained; the bases themselves never need to be held in memory here.
//
// Sequence names are defined to be the stretch of characters excluding
// spaces immediately after '>'.  Any text appearing after a space is
// ignored.  For example, '>cluster1 some description' becomes 'cluster1'.
//
// The core-gene reference variant of a cluster database prefixes every
// header with "core_"; that prefix is stripped so that core and
// whole-cluster statistics share reference names.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
)

const corePrefix = "core_"

// Reference holds the names (in file order) and lengths of the sequences
// in one FASTA file.
type Reference struct {
	lengths  map[string]int64
	seqNames []string
}

// New reads FASTA data from r, recording each sequence's name and length.
func New(r io.Reader) (*Reference, error) {
	ref := &Reference{lengths: make(map[string]int64)}
	scanner := bufio.NewScanner(r)
	seqName := ""
	sawHeader := false
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			seqName = strings.TrimPrefix(strings.Split(line[1:], " ")[0], corePrefix)
			if seqName == "" {
				return nil, errors.E("fasta.New: empty sequence name")
			}
			if _, found := ref.lengths[seqName]; found {
				return nil, errors.E("fasta.New: duplicate sequence name:", seqName)
			}
			ref.lengths[seqName] = 0
			ref.seqNames = append(ref.seqNames, seqName)
			sawHeader = true
		} else {
			if !sawHeader {
				return nil, errors.E("fasta.New: sequence data before first header")
			}
			ref.lengths[seqName] += int64(len(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(err, "fasta.New: couldn't read FASTA data")
	}
	return ref, nil
}

// NewFromPath is a wrapper for New that takes a path instead of an
// io.Reader.
func NewFromPath(path string) (ref *Reference, err error) {
	ctx := vcontext.Background()
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return New(infile.Reader(ctx))
}

// Len returns the length of the given sequence.
func (r *Reference) Len(seqName string) (int64, error) {
	n, ok := r.lengths[seqName]
	if !ok {
		return 0, errors.E("fasta: sequence not found:", seqName)
	}
	return n, nil
}

// SeqNames returns the names of all sequences, in the order of appearance
// in the FASTA file.
func (r *Reference) SeqNames() []string {
	return r.seqNames
}
