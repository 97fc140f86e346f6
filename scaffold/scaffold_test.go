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

package scaffold

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exascience/padena/sequence"
)

func contigRange(start, n int) Path {
	p := make(Path, n)
	for i := range p {
		p[i] = Step{Contig: start + i, Forward: true}
	}
	return p
}

func TestPathPurger(t *testing.T) {
	full := contigRange(0, 11)
	for i, paths := range [][]Path{
		{full, contigRange(2, 5), contigRange(3, 5), contigRange(6, 5), contigRange(0, 11),
			contigRange(7, 4), contigRange(11, 0), contigRange(2, 9), contigRange(1, 10)},
		{contigRange(0, 2), contigRange(3, 5), contigRange(6, 2), contigRange(3, 3), contigRange(7, 2),
			contigRange(8, 2), contigRange(2, 2), contigRange(1, 2), contigRange(8, 3)},
		{contigRange(0, 2), contigRange(1, 2), contigRange(8, 2), contigRange(7, 2), contigRange(7, 4),
			contigRange(11, 0), contigRange(2, 9), contigRange(1, 10), full},
	} {
		purged := NewPathPurger().Purge(paths)
		require.Len(t, purged, 1, "case %v", i)
		assert.Equal(t, full, purged[0], "case %v", i)
	}
}

func TestPathPurgerReversed(t *testing.T) {
	purged := NewPathPurger().Purge([]Path{contigRange(0, 3), contigRange(2, 3).Reverse()})
	require.Len(t, purged, 1)
	assert.Equal(t, contigRange(0, 5), purged[0])

	purged = NewPathPurger().Purge([]Path{contigRange(0, 5), contigRange(1, 3).Reverse()})
	assert.Equal(t, []Path{contigRange(0, 5)}, purged)

	purged = NewPathPurger().Purge([]Path{contigRange(0, 2), contigRange(5, 2)})
	assert.Len(t, purged, 2)
}

func TestAssembleMismatch(t *testing.T) {
	cg := NewContigGraph([][]byte{[]byte("AAAACC"), []byte("CCGTTT")}, 3, sequence.DNA)
	assert.Equal(t, []Step{{1, true}}, cg.Successors(Step{0, true}))
	_, ok := assemble(cg, Path{{1, true}, {0, true}})
	assert.False(t, ok)
	seq, ok := assemble(cg, Path{{0, true}, {1, true}})
	require.True(t, ok)
	assert.Equal(t, "AAAACCGTTT", string(seq))
}

// uniqueGenome returns a random sequence in which no (k-1)-mer occurs
// twice on either strand.
func uniqueGenome(rng *rand.Rand, n, k int) []byte {
	for {
		g := make([]byte, n)
		for i := range g {
			g[i] = "ACGT"[rng.Intn(4)]
		}
		seen := make(map[string]bool)
		unique := true
		for i := 0; i+k-1 <= n && unique; i++ {
			w := string(g[i : i+k-1])
			rc := string(sequence.DNA.ReverseComplement([]byte(w)))
			if seen[w] || seen[rc] || w == rc {
				unique = false
			}
			seen[w], seen[rc] = true, true
		}
		if unique {
			return g
		}
	}
}

func TestGraphScaffoldBuilder(t *testing.T) {
	const k = 11
	rng := rand.New(rand.NewSource(11))
	genome := uniqueGenome(rng, 300, k)
	contigs := [][]byte{genome[0:100], genome[90:200], genome[190:300]}

	lib := NewCloneLibrary()
	require.NoError(t, lib.Add("test", 200, 20))
	var reads []*sequence.Read
	for i := 0; i < 5; i++ {
		a := 10 + 12*i
		b := a + 200
		reads = append(reads,
			sequence.NewRead(fmt.Sprintf("pair%v.F:test", i), append([]byte(nil), genome[a:a+20]...), sequence.DNA),
			sequence.NewRead(fmt.Sprintf("pair%v.R:test", i), sequence.DNA.ReverseComplement(genome[b-20:b]), sequence.DNA),
		)
	}

	builder := NewGraphScaffoldBuilder(lib, "")
	scaffolds, err := builder.Build(reads, contigs, k)
	require.NoError(t, err)
	require.Len(t, scaffolds, 1)
	assert.Equal(t, string(genome), string(scaffolds[0].Sequence))
	assert.Equal(t, Path{{0, true}, {1, true}, {2, true}}, scaffolds[0].Path)

	scaffolds, err = builder.Build(nil, contigs, k)
	require.NoError(t, err)
	assert.Len(t, scaffolds, 3)
}
