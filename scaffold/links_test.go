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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var halfK = LibraryInfo{Name: "0.5K", Mean: 500, StandardDeviation: 20}

func testPair(id string) *MatePair {
	return &MatePair{
		Forward: namedRead(id+".F:0.5K", "ACGT"),
		Reverse: namedRead(id+".R:0.5K", "ACGT"),
		Library: halfK,
	}
}

func fullMap(start int, forward bool) ReadMap {
	return ReadMap{ContigStart: start, Length: 4, Forward: forward, Overlap: FullOverlap}
}

func TestMapContigToMatePairs(t *testing.T) {
	p1, p2, p3 := testPair("p1"), testPair("p2"), testPair("p3")
	readMap := ReadContigMap{
		p1.Forward.ID: {0: {fullMap(10, true)}},
		p1.Reverse.ID: {1: {fullMap(20, false)}},
		p2.Forward.ID: {2: {fullMap(10, true)}},
		p2.Reverse.ID: {1: {fullMap(20, false), {ContigStart: 30, Length: 2, Overlap: PartialOverlap}}},
		p3.Forward.ID: {0: {fullMap(10, true)}},
		p3.Reverse.ID: {0: {fullMap(20, false)}},
	}
	cmp := MapContigToMatePairs([]*MatePair{p1, p2, p3}, readMap)
	require.Len(t, cmp, 2)
	e := cmp[Link{From: Step{0, true}, To: Step{1, true}}]
	require.NotNil(t, e)
	assert.Len(t, e.Pairs, 1)
	assert.Equal(t, p1, e.Pairs[0].Pair)
	// The link from contig 2 to contig 1 is stored from the smaller contig.
	e = cmp[Link{From: Step{1, false}, To: Step{2, false}}]
	require.NotNil(t, e)
	assert.Equal(t, p2, e.Pairs[0].Pair)
	assert.Equal(t, 2, e.Pairs[0].Forward.Contig)
}

func evidence(n int) *LinkEvidence {
	e := new(LinkEvidence)
	for i := 0; i < n; i++ {
		e.Pairs = append(e.Pairs, &ValidMatePair{Pair: testPair("p")})
	}
	e.Weight = n
	return e
}

func TestOrientationBasedFilter(t *testing.T) {
	keep := Link{Step{0, true}, Step{1, true}}
	cmp := ContigMatePairs{
		keep:                             evidence(3),
		{Step{0, true}, Step{1, false}}:  evidence(1),
		{Step{2, true}, Step{3, true}}:   evidence(2),
		{Step{2, false}, Step{3, true}}:  evidence(2),
		{Step{4, true}, Step{5, true}}:   evidence(1),
		{Step{6, true}, Step{6, false}}:  evidence(5),
		{Step{7, false}, Step{8, false}}: evidence(2),
	}
	filtered := NewOrientationBasedMatePairFilter().Filter(cmp, 2)
	assert.Len(t, filtered, 2)
	assert.Contains(t, filtered, keep)
	assert.Contains(t, filtered, Link{Step{7, false}, Step{8, false}})
}

func placed(fStart int, fForward bool, rStart int, rForward bool) *ValidMatePair {
	return &ValidMatePair{
		Pair:    testPair("p"),
		Forward: Placement{Contig: 0, ReadMap: ReadMap{ContigStart: fStart, Length: 20, Forward: fForward, Overlap: FullOverlap}},
		Reverse: Placement{Contig: 1, ReadMap: ReadMap{ContigStart: rStart, Length: 20, Forward: rForward, Overlap: FullOverlap}},
	}
}

func TestDistanceCalculation(t *testing.T) {
	link := Link{Step{0, true}, Step{1, true}}
	cmp := ContigMatePairs{link: {Pairs: []*ValidMatePair{
		placed(50, true, 30, false),
		placed(40, true, 30, false),
		placed(60, true, 30, false),
	}}}
	require.NoError(t, NewDistanceCalculator().Calculate(cmp, []int{100, 100}))
	e := cmp[link]
	assert.Equal(t, 400.0, e.Pairs[0].Distance)
	assert.Equal(t, 390.0, e.Pairs[1].Distance)
	assert.Equal(t, 410.0, e.Pairs[2].Distance)
	assert.InDelta(t, 400, e.Distance, 1e-9)
	assert.InDelta(t, 20/math.Sqrt(3), e.StandardDeviation, 1e-9)
	assert.True(t, e.StandardDeviation <= halfK.StandardDeviation)
	assert.Equal(t, 3, e.Weight)
}

func TestDistanceOrientations(t *testing.T) {
	vp := placed(50, false, 30, true)
	// partA = 50+20, partB = 100-30
	assert.Equal(t, 360.0, pairDistance(vp, 100, 100))
}

func TestDistanceClusters(t *testing.T) {
	link := Link{Step{0, true}, Step{1, true}}
	cmp := ContigMatePairs{link: {Pairs: []*ValidMatePair{
		placed(80, true, 0, false),
		placed(80, true, 0, false),
		placed(0, true, 0, false),
		placed(0, true, 0, false),
	}}}
	require.NoError(t, NewDistanceCalculator().Calculate(cmp, []int{100, 1000}))
	e := cmp[link]
	// Clusters at 460 and 380, two pairs each.
	assert.InDelta(t, 420, e.Distance, 1e-9)
	assert.InDelta(t, 20/math.Sqrt(2), e.StandardDeviation, 1e-9)
}

func TestDistanceUnknownContig(t *testing.T) {
	link := Link{Step{0, true}, Step{1, true}}
	cmp := ContigMatePairs{link: {Pairs: []*ValidMatePair{placed(0, true, 0, false)}}}
	assert.Error(t, NewDistanceCalculator().Calculate(cmp, []int{100}))
}
