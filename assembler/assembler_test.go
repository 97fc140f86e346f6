// padena: a parallel de-novo De Bruijn genome assembler.
// Copyright (c) 2021 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/exascience/padena/blob/master/LICENSE.txt>.


package assembler

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exascience/padena/scaffold"
	"github.com/exascience/padena/sequence"
	"github.com/exascience/padena/utils"
)

const reference = "CCGTAATGCCTTTCCCTAACAGAGTTTTTCGAACTCGTGTTGTCGAGCGACGGAATTAGATCAGTTAAATGGCAGAAAAC"

func mutate(b byte) string {
	return map[byte]string{'A': "C", 'C': "G", 'G': "T", 'T': "A"}[b]
}

func makeReads(seqs ...string) []*sequence.Read {
	reads := make([]*sequence.Read, len(seqs))
	for i, s := range seqs {
		reads[i] = sequence.NewRead(fmt.Sprintf("read%v", i), []byte(s), sequence.DNA)
	}
	return reads
}

func tiles() []string {
	var seqs []string
	for i := 0; i+30 <= len(reference); i += 5 {
		seqs = append(seqs, reference[i:i+30])
	}
	return seqs
}

func assertReference(t *testing.T, read *sequence.Read) {
	rc := string(sequence.DNA.ReverseComplement([]byte(reference)))
	seq := read.String()
	assert.True(t, seq == reference || seq == rc, seq)
}

func TestEstimateKmerLength(t *testing.T) {
	assert.Equal(t, 23, EstimateKmerLength(makeReads(tiles()...)))
	assert.Equal(t, 30, EstimateKmerLength(makeReads(reference[:30], reference)))
}

func TestAssembleTiles(t *testing.T) {
	var dot bytes.Buffer
	asm, err := Assemble(makeReads(tiles()...), Options{KmerLength: 11, Dot: &dot})
	require.NoError(t, err)
	assert.Contains(t, dot.String(), "digraph")
	assert.Equal(t, 11, asm.KmerLength)
	assert.Equal(t, 12, asm.DanglingLinksThreshold)
	assert.Equal(t, 36, asm.RedundantPathLengthThreshold)
	require.Len(t, asm.Contigs, 1)
	assert.Equal(t, "contig_0", asm.Contigs[0].ID)
	assertReference(t, asm.Contigs[0])
	assert.Empty(t, asm.Scaffolds)
}

func TestAssembleCorrectsErrors(t *testing.T) {
	r := reference
	p := 40
	seqs := append(tiles(),
		r[10:30]+mutate(r[30]),
		r[5:p]+mutate(r[p])+r[p+1:70],
		r[20:35]+"N"+r[36:50],
	)
	asm, err := Assemble(makeReads(seqs...), Options{KmerLength: 11, Timed: true})
	require.NoError(t, err)
	require.Len(t, asm.Contigs, 1)
	assertReference(t, asm.Contigs[0])
}

func TestAssembleLowCoverage(t *testing.T) {
	other := "ACGTTGCATGTCGCATGATGCATGAGAGTT"
	reads := makeReads(append(tiles(), other)...)

	asm, err := Assemble(reads, Options{KmerLength: 11})
	require.NoError(t, err)
	require.Len(t, asm.Contigs, 2)
	assertReference(t, asm.Contigs[0])
	assert.Equal(t, 30, asm.Contigs[1].Len())

	asm, err = Assemble(reads, Options{KmerLength: 11, LowCoverageContigRemoval: true})
	require.NoError(t, err)
	assert.Equal(t, 2.0, asm.ContigCoverageThreshold)
	require.Len(t, asm.Contigs, 1)
	assertReference(t, asm.Contigs[0])
}

func TestAssembleUnpairedScaffolds(t *testing.T) {
	other := "ACGTTGCATGTCGCATGATGCATGAGAGTT"
	asm, err := Assemble(makeReads(append(tiles(), other)...), Options{KmerLength: 11, Scaffold: true})
	require.NoError(t, err)
	require.Len(t, asm.Contigs, 2)
	require.Len(t, asm.Scaffolds, 2)
	for i := range asm.Contigs {
		assert.Equal(t, fmt.Sprintf("scaffold_%v", i), asm.Scaffolds[i].ID)
		assert.Equal(t, asm.Contigs[i].String(), asm.Scaffolds[i].String())
	}
}

func matePairs(insert int, starts ...int) []*sequence.Read {
	var reads []*sequence.Read
	for i, a := range starts {
		b := a + insert - 15
		reads = append(reads,
			sequence.NewRead(fmt.Sprintf("p%v.F:lib", i), []byte(reference[a:a+15]), sequence.DNA),
			sequence.NewRead(fmt.Sprintf("p%v.R:lib", i), sequence.DNA.ReverseComplement([]byte(reference[b:b+15])), sequence.DNA))
	}
	return reads
}

func TestAssembleMatePairScaffolds(t *testing.T) {
	lib := scaffold.NewCloneLibrary()
	require.NoError(t, lib.Add("lib", 60, 5))
	opts := Options{KmerLength: 11, Scaffold: true, Libraries: lib}

	asm, err := Assemble(append(makeReads(tiles()...), matePairs(60, 0, 5, 10, 15)...), opts)
	require.NoError(t, err)
	require.Len(t, asm.Contigs, 1)
	require.Len(t, asm.Scaffolds, 1)
	assert.Equal(t, "scaffold_0", asm.Scaffolds[0].ID)
	assertReference(t, asm.Scaffolds[0])

	// A branch after base 40 splits the reference into two contigs
	// that only the mate pairs join.
	branch := "GATCCTAGGACTTCAGTCTGACGTAAGTCC"
	seqs := append(tiles(), reference[:40]+branch)
	asm, err = Assemble(append(makeReads(seqs...), matePairs(60, 0, 5, 10, 15)...), opts)
	require.NoError(t, err)
	require.Len(t, asm.Contigs, 3)
	for _, c := range asm.Contigs {
		assert.NotEqual(t, len(reference), c.Len())
	}
	require.Len(t, asm.Scaffolds, 2)
	assertReference(t, asm.Scaffolds[0])
	side := reference[30:40] + branch
	rc := string(sequence.DNA.ReverseComplement([]byte(side)))
	assert.Contains(t, []string{side, rc}, asm.Scaffolds[1].String())
}

func TestAssembleInvalid(t *testing.T) {
	_, err := Assemble(nil, Options{})
	require.Error(t, err)
	assert.True(t, utils.IsInvalidArgument(err))

	_, err = Assemble(makeReads("ACGTNACGTACGTAC"), Options{KmerLength: 5})
	require.Error(t, err)
	assert.True(t, utils.IsInvalidArgument(err))

	_, err = Assemble(makeReads("ACGT", "ACG"), Options{KmerLength: 5})
	require.Error(t, err)
	assert.True(t, utils.IsInvalidArgument(err))

	_, err = Assemble(makeReads(append(tiles(), reference[:5])...), Options{KmerLength: 11})
	require.Error(t, err)
	assert.True(t, utils.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "read11")

	_, err = Assemble(makeReads(reference), Options{KmerLength: -1})
	require.Error(t, err)
	assert.True(t, utils.IsInvalidArgument(err))

	protein := []*sequence.Read{sequence.NewRead("p", []byte("MKVLAAGIV"), sequence.Protein)}
	_, err = Assemble(protein, Options{KmerLength: 3})
	require.Error(t, err)
	assert.True(t, utils.IsAlphabetMismatch(err))
}
