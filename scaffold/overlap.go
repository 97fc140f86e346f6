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
	"github.com/exascience/pargo/parallel"

	"github.com/exascience/padena/sequence"
)

// ContigGraph links oriented contigs whose last k-1 bases equal the
// first k-1 bases of another contig.
type ContigGraph struct {
	k          int
	alphabet   sequence.Alphabet
	contigs    [][]byte
	successors [][2][]Step
}

// NewContigGraph builds the overlap graph of the given contigs.
func NewContigGraph(contigs [][]byte, k int, a sequence.Alphabet) *ContigGraph {
	cg := &ContigGraph{
		k:          k,
		alphabet:   a,
		contigs:    contigs,
		successors: make([][2][]Step, len(contigs)),
	}
	if len(contigs) == 0 || k < 2 {
		return cg
	}
	overlap := k - 1
	prefixes := make(map[string][]Step)
	for i := range contigs {
		for _, forward := range [2]bool{true, false} {
			s := Step{Contig: i, Forward: forward}
			seq := cg.Sequence(s)
			if len(seq) < overlap {
				continue
			}
			prefix := string(seq[:overlap])
			prefixes[prefix] = append(prefixes[prefix], s)
		}
	}
	parallel.Range(0, len(contigs), 0, func(low, high int) {
		for i := low; i < high; i++ {
			for o, forward := range [2]bool{true, false} {
				seq := cg.Sequence(Step{Contig: i, Forward: forward})
				if len(seq) < overlap {
					continue
				}
				for _, t := range prefixes[string(seq[len(seq)-overlap:])] {
					if t.Contig != i {
						cg.successors[i][o] = append(cg.successors[i][o], t)
					}
				}
			}
		}
	})
	return cg
}

// K returns the k-mer length the contigs were built with.
func (cg *ContigGraph) K() int {
	return cg.k
}

// Len returns the number of contigs.
func (cg *ContigGraph) Len() int {
	return len(cg.contigs)
}

// Length returns the length of a contig.
func (cg *ContigGraph) Length(contig int) int {
	return len(cg.contigs[contig])
}

// Sequence returns the sequence of an oriented contig.
func (cg *ContigGraph) Sequence(s Step) []byte {
	if s.Forward {
		return cg.contigs[s.Contig]
	}
	return cg.alphabet.ReverseComplement(cg.contigs[s.Contig])
}

// Successors returns the oriented contigs that overlap the end of s.
func (cg *ContigGraph) Successors(s Step) []Step {
	if s.Forward {
		return cg.successors[s.Contig][0]
	}
	return cg.successors[s.Contig][1]
}
