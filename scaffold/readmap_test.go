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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exascience/padena/sequence"
	"github.com/exascience/padena/utils"
)

func TestMapReadToContig(t *testing.T) {
	contigs := [][]byte{[]byte("TCTGATAAGG")}
	for _, c := range []struct {
		read    string
		forward bool
	}{
		{"CTGATAAGG", true},
		{"CCTTATCAG", false},
	} {
		m, err := NewReadContigMapper().Map(contigs, []*sequence.Read{namedRead("2", c.read)}, 6)
		require.NoError(t, err)
		require.Len(t, m, 1)
		assert.Equal(t, []ReadMap{{
			ContigStart: 1,
			ReadStart:   0,
			Length:      9,
			Forward:     c.forward,
			Overlap:     FullOverlap,
		}}, m["2"][0])
	}
}

func TestMapReadsToSingleContig(t *testing.T) {
	for _, c := range []struct {
		contig string
		reads  []string
		starts []int
	}{
		{
			"GATGCCTCCTATC",
			[]string{"GATGCCTC", "CCTCCTAT", "TCCTATC", "GCCTCCTAT", "TGCCTCCT"},
			[]int{0, 4, 6, 3, 2},
		},
		{
			"ATGCCTCCTATCTTAGCG",
			[]string{"ATGCCTC", "CCTCCTAT", "TCCTATC", "TGCCTCCT", "ATCTTAGC", "CTATCTTAG", "CTTAGCG", "GCCTCCTAT"},
			[]int{0, 3, 5, 1, 9, 7, 11, 2},
		},
	} {
		var reads []*sequence.Read
		for i, r := range c.reads {
			reads = append(reads, namedRead(string(rune('0'+i)), r))
		}
		m, err := NewReadContigMapper().Map([][]byte{[]byte(c.contig)}, reads, 6)
		require.NoError(t, err)
		assert.Len(t, m, len(reads))
		for i, r := range reads {
			maps := m[r.ID][0]
			require.NotEmpty(t, maps)
			assert.Equal(t, c.starts[i], maps[0].ContigStart, r.String())
			assert.Equal(t, 0, maps[0].ReadStart)
			assert.Equal(t, r.Len(), maps[0].Length)
			assert.Equal(t, FullOverlap, maps[0].Overlap)
		}
	}
}

func TestPartialOverlap(t *testing.T) {
	m, err := NewReadContigMapper().Map([][]byte{[]byte("TCTGATAAGG")}, []*sequence.Read{namedRead("r", "GATAAGGCCCC")}, 6)
	require.NoError(t, err)
	assert.Equal(t, []ReadMap{{ContigStart: 3, ReadStart: 0, Length: 7, Forward: true, Overlap: PartialOverlap}}, m["r"][0])
}

func TestDuplicateReadIDs(t *testing.T) {
	_, err := NewReadContigMapper().Map([][]byte{[]byte("TCTGATAAGG")},
		[]*sequence.Read{namedRead("r", "CTGATAAGG"), namedRead("r", "CTGATAAGG")}, 6)
	assert.True(t, utils.IsInvalidArgument(err))
}
