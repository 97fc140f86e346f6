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

package purger

import (
	"log"

	"github.com/pkg/errors"

	"github.com/exascience/padena/graph"
	"github.com/exascience/padena/utils"
)

// DanglingLinksPurger detects tips: short walks that start at a node
// without extensions on one side and end before a merge point.
type DanglingLinksPurger struct {
	Threshold int
}

// NewDanglingLinksPurger returns a purger for tips of at most
// threshold nodes.
func NewDanglingLinksPurger(threshold int) *DanglingLinksPurger {
	return &DanglingLinksPurger{Threshold: threshold}
}

// DetectErroneousNodes returns all tips of the graph. Islands are
// returned as single-node walks.
func (p *DanglingLinksPurger) DetectErroneousNodes(g *graph.Graph) (PathList, error) {
	return collectPaths(g, func(id int) (PathList, error) {
		node := g.Node(id)
		left, right := node.Left(), node.Right()
		for _, exts := range [2][]graph.Extension{left, right} {
			for _, e := range exts {
				if !g.Alive(e.Node) {
					return nil, errors.Wrapf(utils.ErrGraphConsistency, "node %v: extension to removed node %v", id, e.Node)
				}
			}
		}
		switch {
		case len(left) == 0 && len(right) == 0:
			return PathList{{graph.Step{Node: id, Forward: true}}}, nil
		case len(right) == 0:
			if path := p.trace(g, graph.Step{Node: id, Forward: false}); path != nil {
				return PathList{path}, nil
			}
		case len(left) == 0:
			if path := p.trace(g, graph.Step{Node: id, Forward: true}); path != nil {
				return PathList{path}, nil
			}
		}
		return nil, nil
	})
}

// trace walks away from a dead end. It returns nil when the walk is
// longer than the threshold.
func (p *DanglingLinksPurger) trace(g *graph.Graph, s graph.Step) Path {
	var path Path
	for {
		if path.Contains(s.Node) {
			return path
		}
		ahead := g.Successors(s)
		if len(ahead) > 0 && g.PredecessorCount(s) > 1 {
			return path
		}
		if len(path) >= p.Threshold {
			return nil
		}
		path = append(path, s)
		if len(ahead) != 1 {
			return path
		}
		s = ahead[0]
	}
}

// RemoveErroneousNodes removes the nodes of all walks in the list.
func (p *DanglingLinksPurger) RemoveErroneousNodes(g *graph.Graph, list PathList) error {
	return g.RemoveNodes(list.Nodes())
}

// ErodeGraphEnds repeatedly removes nodes that lack extensions on at
// least one side and occur fewer than threshold times, and returns
// the number of removed nodes.
func ErodeGraphEnds(g *graph.Graph, threshold int) (int, error) {
	removed := 0
	for {
		var ends []int
		for _, id := range g.LiveNodes() {
			node := g.Node(id)
			if node.Count() < threshold && (node.LeftCount() == 0 || node.RightCount() == 0) {
				ends = append(ends, id)
			}
		}
		if len(ends) == 0 {
			return removed, nil
		}
		if err := g.RemoveNodes(ends); err != nil {
			log.Printf("Graph consistency error during erosion: %v", err)
			return removed, err
		}
		removed += len(ends)
	}
}
