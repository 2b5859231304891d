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

/*
Given a gene-cluster reference FASTA and one or more paired-end fastq
samples, metaep-map aligns each sample against the reference with bowtie2
and reports, per cluster and sample, the TPM and RPKM abundance estimates
and the breadth of coverage.  With --core-bed it additionally reports the
same statistics restricted to the clusters' core ("enzymatic") regions.

samtools and bedtools must be on $PATH (or be pointed at with the
--samtools/--bedtools flags); alignment, BAM sorting and the raw coverage
tracks are delegated to them.

Sample usage:
metaep-map \
    --reference clusters.fasta \
    --outdir results/ \
    --core-bed clusters.core.bed \
    -1 SRR001_1.fq.gz,SRR002_1.fq.gz \
    -2 SRR001_2.fq.gz,SRR002_2.fq.gz
*/
package main
