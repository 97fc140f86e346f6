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

	"github.com/exascience/pargo/parallel"
)

// A Path is a walk through a contig overlap graph.
type Path []Step

// Contains reports whether the path visits the contig.
func (p Path) Contains(contig int) bool {
	for _, s := range p {
		if s.Contig == contig {
			return true
		}
	}
	return false
}

// Reverse returns the same walk in the other direction.
func (p Path) Reverse() Path {
	result := make(Path, len(p))
	for i, s := range p {
		result[len(p)-1-i] = s.Flip()
	}
	return result
}

// TracePath finds walks in a contig overlap graph that agree with the
// distances between linked contigs.
type TracePath struct{}

// NewTracePath returns a path finder.
func NewTracePath() *TracePath {
	return &TracePath{}
}

// gap returns the number of bases between the first and the last
// contig of a walk.
func gap(cg *ContigGraph, p Path) float64 {
	total := 0
	for _, s := range p[1 : len(p)-1] {
		total += cg.Length(s.Contig)
	}
	return float64(total - (len(p)-1)*(cg.K()-1))
}

// FindPaths searches, for every linked contig, walks of at most depth
// contigs to the contigs it is linked to. A walk is accepted when the
// gap it implies is within three standard deviations of the estimated
// distance.
func (t *TracePath) FindPaths(cg *ContigGraph, cmp ContigMatePairs, depth int) []Path {
	var sources []Step
	targets := make(map[Step]map[Step]*LinkEvidence)
	for _, link := range cmp.Links() {
		m := targets[link.From]
		if m == nil {
			m = make(map[Step]*LinkEvidence)
			targets[link.From] = m
			sources = append(sources, link.From)
		}
		m[link.To] = cmp[link]
	}
	if len(sources) == 0 || depth < 2 {
		return nil
	}
	found := make([][]Path, len(sources))
	parallel.Range(0, len(sources), 0, func(low, high int) {
		for i := low; i < high; i++ {
			found[i] = t.search(cg, sources[i], targets[sources[i]], depth)
		}
	})
	var result []Path
	for _, paths := range found {
		result = append(result, paths...)
	}
	return result
}

func (t *TracePath) search(cg *ContigGraph, source Step, targets map[Step]*LinkEvidence, depth int) []Path {
	var result []Path
	queue := []Path{{source}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, next := range cg.Successors(p[len(p)-1]) {
			if p.Contains(next.Contig) {
				continue
			}
			np := make(Path, len(p)+1)
			copy(np, p)
			np[len(p)] = next
			if evidence, ok := targets[next]; ok {
				tolerance := 3 * math.Max(evidence.StandardDeviation, 1)
				if math.Abs(gap(cg, np)-evidence.Distance) <= tolerance {
					result = append(result, np)
				}
			}
			if len(np) < depth {
				queue = append(queue, np)
			}
		}
	}
	return result
}
