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

// Package contig extracts contigs from De Bruijn graphs.
package contig

import (
	"github.com/exascience/pargo/parallel"
	"github.com/willf/bitset"

	"github.com/exascience/padena/graph"
)

// A Contig is the sequence spelled by a maximal unambiguous walk.
// Coverage is the average occurrence count of its k-mers.
type Contig struct {
	Sequence []byte
	Coverage float64
}

// Length returns the number of bases of the contig.
func (c *Contig) Length() int {
	return len(c.Sequence)
}

// A Path is the walk that spells a contig.
type Path []graph.Step

// SimplePathContigBuilder builds one contig per maximal walk whose
// steps have exactly one unambiguous successor and predecessor.
// Extensions of palindromic nodes and self loops are ignored.
type SimplePathContigBuilder struct{}

// NewSimplePathContigBuilder returns a contig builder.
func NewSimplePathContigBuilder() *SimplePathContigBuilder {
	return &SimplePathContigBuilder{}
}

func next(g *graph.Graph, s graph.Step) (graph.Step, bool) {
	if g.IsPalindrome(s.Node) {
		return graph.Step{}, false
	}
	successors := g.Successors(s)
	if len(successors) != 1 {
		return graph.Step{}, false
	}
	n := successors[0]
	if n.Node == s.Node || g.IsPalindrome(n.Node) || g.PredecessorCount(n) != 1 {
		return graph.Step{}, false
	}
	return n, true
}

func hasPrevious(g *graph.Graph, s graph.Step) bool {
	_, ok := next(g, s.Flip())
	return ok
}

func contains(path Path, id int) bool {
	for _, s := range path {
		if s.Node == id {
			return true
		}
	}
	return false
}

func trace(g *graph.Graph, s graph.Step) Path {
	path := Path{s}
	for {
		n, ok := next(g, path[len(path)-1])
		if !ok || contains(path, n.Node) {
			return path
		}
		path = append(path, n)
	}
}

// BuildPaths returns the walks of all contigs. Every live node is on
// exactly one walk.
func (b *SimplePathContigBuilder) BuildPaths(g *graph.Graph) []Path {
	live := g.LiveNodes()
	if len(live) == 0 {
		return nil
	}
	candidates := make([][]Path, len(live))
	parallel.Range(0, len(live), 0, func(low, high int) {
		for i := low; i < high; i++ {
			id := live[i]
			for _, forward := range [2]bool{true, false} {
				s := graph.Step{Node: id, Forward: forward}
				if hasPrevious(g, s) {
					continue
				}
				path := trace(g, s)
				start, end := path[0], path[len(path)-1]
				if start.Node < end.Node || (start.Node == end.Node && start.Forward) {
					candidates[i] = append(candidates[i], path)
				}
			}
		}
	})

	visited := bitset.New(uint(g.Size()))
	var paths []Path
	for _, ps := range candidates {
	nextPath:
		for _, path := range ps {
			for _, s := range path {
				if visited.Test(uint(s.Node)) {
					continue nextPath
				}
			}
			for _, s := range path {
				visited.Set(uint(s.Node))
			}
			paths = append(paths, path)
		}
	}

	// The remaining nodes are on cycles.
	for _, id := range live {
		if visited.Test(uint(id)) {
			continue
		}
		path := Path{{Node: id, Forward: true}}
		visited.Set(uint(id))
		for {
			n, ok := next(g, path[len(path)-1])
			if !ok || visited.Test(uint(n.Node)) {
				break
			}
			path = append(path, n)
			visited.Set(uint(n.Node))
		}
		paths = append(paths, path)
	}
	return paths
}

func coverage(g *graph.Graph, path Path) float64 {
	total := 0
	for _, s := range path {
		total += g.Node(s.Node).Count()
	}
	return float64(total) / float64(len(path))
}

// Build returns the contigs of the graph.
func (b *SimplePathContigBuilder) Build(g *graph.Graph) []Contig {
	paths := b.BuildPaths(g)
	contigs := make([]Contig, len(paths))
	if len(paths) == 0 {
		return contigs
	}
	parallel.Range(0, len(paths), 0, func(low, high int) {
		for i := low; i < high; i++ {
			contigs[i] = Contig{
				Sequence: g.Spell([]graph.Step(paths[i])),
				Coverage: coverage(g, paths[i]),
			}
		}
	})
	return contigs
}

// RemoveLowCoverageContigs removes the nodes of all contigs with a
// coverage below threshold, and returns the number of removed contigs.
func RemoveLowCoverageContigs(g *graph.Graph, threshold float64) (int, error) {
	var ids []int
	removed := 0
	for _, path := range NewSimplePathContigBuilder().BuildPaths(g) {
		if coverage(g, path) < threshold {
			removed++
			for _, s := range path {
				ids = append(ids, s.Node)
			}
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, g.RemoveNodes(ids)
}
