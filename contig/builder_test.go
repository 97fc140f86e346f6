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

package contig

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exascience/padena/graph"
	"github.com/exascience/padena/sequence"
)

const reference = "CCGTAATGCCTTTCCCTAACAGAGTTTTTCGAACTCGTGTTGTCGAGCGACGGAATTAGATCAGTTAAATGGCAGAAAAC"

func buildGraph(t *testing.T, k int, seqs ...string) *graph.Graph {
	reads := make([]*sequence.Read, len(seqs))
	for i, s := range seqs {
		reads[i] = sequence.NewRead("read", []byte(s), sequence.DNA)
	}
	g, err := graph.BuildFromReads(reads, k)
	require.NoError(t, err)
	return g
}

func TestLinearContig(t *testing.T) {
	g := buildGraph(t, 11, reference, reference, reference)
	contigs := NewSimplePathContigBuilder().Build(g)
	require.Len(t, contigs, 1)
	seq := string(contigs[0].Sequence)
	rc := string(sequence.DNA.ReverseComplement([]byte(reference)))
	assert.True(t, seq == reference || seq == rc)
	assert.Equal(t, len(reference), contigs[0].Length())
	assert.Equal(t, 3.0, contigs[0].Coverage)
}

func TestCycle(t *testing.T) {
	circle := reference[:30]
	g := buildGraph(t, 11, circle+circle[:10])
	paths := NewSimplePathContigBuilder().BuildPaths(g)
	require.Len(t, paths, 1)
	assert.Len(t, paths[0], 30)
	contigs := NewSimplePathContigBuilder().Build(g)
	assert.Equal(t, 40, contigs[0].Length())
}

func TestPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 50; trial++ {
		seqs := make([]string, 30)
		for i := range seqs {
			b := make([]byte, 8+rng.Intn(13))
			for j := range b {
				b[j] = "ACGT"[rng.Intn(4)]
			}
			seqs[i] = string(b)
		}
		k := 3 + rng.Intn(4)
		g := buildGraph(t, k, seqs...)
		var ids []int
		for _, path := range NewSimplePathContigBuilder().BuildPaths(g) {
			for _, s := range path {
				ids = append(ids, s.Node)
			}
		}
		sort.Ints(ids)
		assert.Equal(t, g.LiveNodes(), ids, "trial %v", trial)
	}
}

func TestRemoveLowCoverageContigs(t *testing.T) {
	g := buildGraph(t, 11, reference, reference, reference, "ACGTTGCATGTCGCATGATGCATGAGAGTT")
	removed, err := RemoveLowCoverageContigs(g, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	require.NoError(t, g.Validate())
	contigs := NewSimplePathContigBuilder().Build(g)
	require.Len(t, contigs, 1)
	assert.Equal(t, len(reference), contigs[0].Length())
}
