// Copyright 2021 Koen van den Berg.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/KoenvdBerg/metAEP/align"
	"github.com/KoenvdBerg/metAEP/mapper"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

var (
	reference    = flag.String("reference", "", "Cluster reference FASTA (.fasta or .fa); required")
	outdir       = flag.String("outdir", "", "Output directory; required")
	mates1       = flag.String("1", "", "Comma-separated mate-1 fastq files (.fastq, .fq, .fq.gz); required")
	mates2       = flag.String("2", "", "Comma-separated mate-2 fastq files, matched to -1 by position; required")
	coreBed      = flag.String("core-bed", "", "BED file of core regions per cluster; enables the core TPM/RPKM/coverage calculation")
	covThreshold = flag.Float64("coverage-threshold", mapper.DefaultOpts.CoverageThreshold, "Coverage threshold applied to the filtered result tables")
	biomMetadata = flag.String("biom-metadata", "", "Sample metadata table; triggers biom v1.0 output decorated with it")
	biom         = flag.Bool("biom", false, "Write biom v1.0 output even without sample metadata")
	threads      = flag.Int("threads", mapper.DefaultOpts.Threads, "bowtie2 threads per sample")
	parallelism  = flag.Int("parallelism", mapper.DefaultOpts.Parallelism, "Maximum number of samples processed at once; 0 = runtime.NumCPU()")
	bowtie2Dir   = flag.String("bowtie2", "", "Directory containing the bowtie2 binaries; defaults to $PATH lookup")
	samtoolsDir  = flag.String("samtools", "", "Directory containing the samtools binary; defaults to $PATH lookup")
	bedtoolsDir  = flag.String("bedtools", "", "Directory containing the bedtools binary; defaults to $PATH lookup")
)

func metaepMapUsage() {
	fmt.Printf("Usage: %s [OPTIONS] -reference ref.fasta -outdir out/ -1 mate1s -2 mate2s\n", os.Args[0])
	fmt.Printf("Options:\n")
	flag.PrintDefaults()
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func main() {
	flag.Usage = metaepMapUsage
	shutdown := grail.Init()
	defer shutdown()

	if *reference == "" || *outdir == "" || *mates1 == "" || *mates2 == "" {
		log.Fatalf("-reference, -outdir, -1 and -2 are all required; please check flag syntax")
	}
	ctx := vcontext.Background()
	opts := mapper.Opts{
		Reference:         *reference,
		Outdir:            *outdir,
		Mates1:            splitList(*mates1),
		Mates2:            splitList(*mates2),
		CoreBedPath:       *coreBed,
		CoverageThreshold: *covThreshold,
		BiomMetadataPath:  *biomMetadata,
		Biom:              *biom,
		Threads:           *threads,
		Parallelism:       *parallelism,
		Tools: align.Tools{
			Bowtie2Dir:  *bowtie2Dir,
			SamtoolsDir: *samtoolsDir,
			BedtoolsDir: *bedtoolsDir,
		},
	}
	if err := mapper.Run(ctx, &opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
