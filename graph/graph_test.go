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

package graph

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exascience/padena/sequence"
	"github.com/exascience/padena/utils"
)

func dnaReads(seqs ...string) []*sequence.Read {
	reads := make([]*sequence.Read, len(seqs))
	for i, s := range seqs {
		reads[i] = sequence.NewRead("r"+string(rune('a'+i)), []byte(s), sequence.DNA)
	}
	return reads
}

func TestBuildMergesIdenticalKmers(t *testing.T) {
	g, err := BuildFromReads(dnaReads("ACCTG", "ACCTG"), 3)
	require.NoError(t, err)
	require.NoError(t, g.Validate())
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, "ACC", string(g.NodeSequence(0)))
	assert.Equal(t, "AGG", string(g.NodeSequence(1)))
	assert.Equal(t, "CAG", string(g.NodeSequence(2)))
	for _, id := range g.LiveNodes() {
		assert.Equal(t, 2, g.Node(id).Count())
	}

	assert.Equal(t, []Extension{{Node: 1, SameOrientation: false}}, g.Node(0).Right())
	assert.Empty(t, g.Node(0).Left())
	assert.Equal(t, []Extension{{Node: 2, SameOrientation: true}}, g.Node(1).Left())
	assert.Equal(t, []Extension{{Node: 0, SameOrientation: false}}, g.Node(1).Right())

	s, ok := g.Lookup([]byte("CCT"))
	require.True(t, ok)
	assert.Equal(t, Step{Node: 1, Forward: false}, s)
	assert.Equal(t, "CCT", string(g.StepSequence(s)))

	start, ok := g.Lookup([]byte("ACC"))
	require.True(t, ok)
	assert.Equal(t, []Step{s}, g.Successors(start))
	assert.Equal(t, []Step{{Node: 2, Forward: false}}, g.Successors(s))
	assert.Equal(t, []Step{start}, g.Predecessors(s))
	assert.Equal(t, 0, g.PredecessorCount(start))
}

func TestRemoveNodes(t *testing.T) {
	g, err := BuildFromReads(dnaReads("ACCTG"), 3)
	require.NoError(t, err)
	require.NoError(t, g.RemoveNodes([]int{1, 1}))
	assert.Equal(t, 2, g.NodeCount())
	assert.False(t, g.Alive(1))
	assert.Nil(t, g.Node(1))
	assert.Empty(t, g.Node(0).Right())
	assert.Empty(t, g.Node(2).Right())
	_, ok := g.Lookup([]byte("CCT"))
	assert.False(t, ok)
	require.NoError(t, g.Validate())

	err = g.RemoveNodes([]int{1})
	require.Error(t, err)
	assert.True(t, utils.IsGraphConsistency(err))
}

func TestValidateDetectsBrokenEdges(t *testing.T) {
	g, err := BuildFromReads(dnaReads("ACCTG"), 3)
	require.NoError(t, err)
	g.Node(1).RemoveExtensionThreadSafe(0)
	err = g.Validate()
	require.Error(t, err)
	assert.True(t, utils.IsGraphConsistency(err))
}

func TestPalindromes(t *testing.T) {
	g, err := BuildFromReads(dnaReads("ACGT"), 2)
	require.NoError(t, err)
	require.NoError(t, g.Validate())
	assert.Equal(t, 2, g.NodeCount())
	s, ok := g.Lookup([]byte("CG"))
	require.True(t, ok)
	assert.True(t, s.Forward)
	assert.True(t, g.IsPalindrome(s.Node))
	assert.False(t, g.IsPalindrome(0))
}

func TestRejectsProtein(t *testing.T) {
	reads := []*sequence.Read{sequence.NewRead("p", []byte("MKV"), sequence.Protein)}
	_, err := BuildFromReads(reads, 2)
	require.Error(t, err)
	assert.True(t, utils.IsAlphabetMismatch(err))
}

func TestConsecutiveKmersAreLinked(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const k = 9
	seqs := make([]string, 40)
	for i := range seqs {
		b := make([]byte, 30+rng.Intn(30))
		for j := range b {
			b[j] = "ACGT"[rng.Intn(4)]
		}
		seqs[i] = string(b)
	}
	reads := dnaReads(seqs...)
	g, err := BuildFromReads(reads, k)
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	total := 0
	for _, id := range g.LiveNodes() {
		total += g.Node(id).Count()
		seq := g.NodeSequence(id)
		assert.True(t, bytes.Compare(seq, sequence.DNA.ReverseComplement(seq)) <= 0)
	}
	expected := 0
	for _, r := range reads {
		expected += r.Len() - k + 1
	}
	assert.Equal(t, expected, total)

	for _, r := range reads {
		for i := 0; i+k < r.Len(); i++ {
			s, ok := g.Lookup(r.Bases[i : i+k])
			require.True(t, ok)
			next, ok := g.Lookup(r.Bases[i+1 : i+1+k])
			require.True(t, ok)
			found := false
			for _, succ := range g.Successors(s) {
				if succ == next || (succ.Node == next.Node && g.IsPalindrome(next.Node)) {
					found = true
				}
			}
			assert.True(t, found, "read %v offset %v", r.ID, i)
		}
	}
}

func TestWriteDot(t *testing.T) {
	g, err := BuildFromReads(dnaReads("ACCTG"), 3)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, g.WriteDot(&buf))
	out := buf.String()
	assert.Contains(t, out, "digraph G")
	assert.Contains(t, out, "ACC x1")
	assert.Contains(t, out, "n0")
	assert.Contains(t, out, "n2")
}
