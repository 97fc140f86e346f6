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
	"bytes"
	"log"

	"github.com/pkg/errors"

	"github.com/exascience/padena/sequence"
	"github.com/exascience/padena/utils"
)

// A Scaffold is a sequence built from one or more oriented contigs.
type Scaffold struct {
	Sequence []byte
	Path     Path
}

// GraphScaffoldBuilder joins contigs into scaffolds.
type GraphScaffoldBuilder struct {
	Libraries      *CloneLibrary
	DefaultLibrary string
	Depth          int
	Redundancy     int
}

// Default parameters of a GraphScaffoldBuilder.
const (
	DefaultDepth      = 10
	DefaultRedundancy = 2
)

// NewGraphScaffoldBuilder returns a scaffold builder with default
// parameters that looks up libraries in lib.
func NewGraphScaffoldBuilder(lib *CloneLibrary, defaultLibrary string) *GraphScaffoldBuilder {
	return &GraphScaffoldBuilder{
		Libraries:      lib,
		DefaultLibrary: defaultLibrary,
		Depth:          DefaultDepth,
		Redundancy:     DefaultRedundancy,
	}
}

// assemble concatenates the contigs of a path, dropping the k-1
// bases every contig shares with its predecessor. It fails when
// consecutive contigs do not share exactly these bases.
func assemble(cg *ContigGraph, p Path) ([]byte, bool) {
	overlap := cg.K() - 1
	result := append([]byte(nil), cg.Sequence(p[0])...)
	for _, s := range p[1:] {
		seq := cg.Sequence(s)
		if len(seq) < overlap || len(result) < overlap ||
			!bytes.Equal(result[len(result)-overlap:], seq[:overlap]) {
			return nil, false
		}
		result = append(result, seq[overlap:]...)
	}
	return result, true
}

// Build maps the reads to the contigs, pairs them up, links the
// contigs, and assembles the paths that agree with the links. Contigs
// that are not on any path become scaffolds of their own.
func (b *GraphScaffoldBuilder) Build(reads []*sequence.Read, contigs [][]byte, k int) ([]Scaffold, error) {
	if k <= 1 {
		return nil, errors.Wrapf(utils.ErrInvalidArgument, "k-mer length %v too small for scaffolding", k)
	}
	depth, redundancy := b.Depth, b.Redundancy
	if depth <= 0 {
		depth = DefaultDepth
	}
	if redundancy <= 0 {
		redundancy = DefaultRedundancy
	}

	var paths []Path
	var cg *ContigGraph
	if len(reads) > 0 {
		a := reads[0].Alphabet
		readMap, err := NewReadContigMapper().Map(contigs, reads, k)
		if err != nil {
			return nil, err
		}
		pairs, err := NewMatePairMapper(b.Libraries, b.DefaultLibrary).Map(reads)
		if err != nil {
			return nil, err
		}
		cmp := MapContigToMatePairs(pairs, readMap)
		cmp = NewOrientationBasedMatePairFilter().Filter(cmp, redundancy)
		lengths := make([]int, len(contigs))
		for i, c := range contigs {
			lengths[i] = len(c)
		}
		if err := NewDistanceCalculator().Calculate(cmp, lengths); err != nil {
			return nil, err
		}
		cg = NewContigGraph(contigs, k, a)
		paths = NewPathPurger().Purge(NewTracePath().FindPaths(cg, cmp, depth))
		log.Printf("Scaffolding: %v mate pairs, %v contig links, %v paths", len(pairs), len(cmp), len(paths))
	}

	used := make([]bool, len(contigs))
	var result []Scaffold
	for _, p := range paths {
		seq, ok := assemble(cg, p)
		if !ok {
			log.Printf("Dropping scaffold path of %v contigs with mismatching overlaps", len(p))
			continue
		}
		for _, s := range p {
			used[s.Contig] = true
		}
		result = append(result, Scaffold{Sequence: seq, Path: p})
	}
	for i, c := range contigs {
		if !used[i] {
			result = append(result, Scaffold{
				Sequence: append([]byte(nil), c...),
				Path:     Path{{Contig: i, Forward: true}},
			})
		}
	}
	return result, nil
}
