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

// Package purger removes erroneous nodes from De Bruijn graphs.
package purger

import (
	"github.com/exascience/pargo/parallel"

	"github.com/exascience/padena/graph"
)

// A Path is a walk through a De Bruijn graph.
type Path []graph.Step

// Contains reports whether the walk visits the node with the given id.
func (p Path) Contains(id int) bool {
	for _, s := range p {
		if s.Node == id {
			return true
		}
	}
	return false
}

// Nodes returns the node ids of the walk.
func (p Path) Nodes() []int {
	ids := make([]int, len(p))
	for i, s := range p {
		ids[i] = s.Node
	}
	return ids
}

// A PathList is a list of walks that are detected as erroneous.
type PathList []Path

// Nodes returns the node ids of all walks. Ids may occur more than once.
func (l PathList) Nodes() []int {
	var ids []int
	for _, p := range l {
		for _, s := range p {
			ids = append(ids, s.Node)
		}
	}
	return ids
}

// A Purger detects erroneous walks and removes their nodes.
type Purger interface {
	DetectErroneousNodes(g *graph.Graph) (PathList, error)
	RemoveErroneousNodes(g *graph.Graph, list PathList) error
}

// Purge runs one detect-and-remove pass and returns the number of
// walks that were removed.
func Purge(p Purger, g *graph.Graph) (int, error) {
	list, err := p.DetectErroneousNodes(g)
	if err != nil {
		return 0, err
	}
	if len(list) == 0 {
		return 0, nil
	}
	return len(list), p.RemoveErroneousNodes(g, list)
}

// collectPaths applies detect to every live node in parallel and
// concatenates the results in node order.
func collectPaths(g *graph.Graph, detect func(id int) (PathList, error)) (PathList, error) {
	live := g.LiveNodes()
	if len(live) == 0 {
		return nil, nil
	}
	type result struct {
		list PathList
		err  error
	}
	r := parallel.RangeReduce(0, len(live), 0, func(low, high int) interface{} {
		var list PathList
		for _, id := range live[low:high] {
			paths, err := detect(id)
			if err != nil {
				return result{err: err}
			}
			list = append(list, paths...)
		}
		return result{list: list}
	}, func(x, y interface{}) interface{} {
		rx, ry := x.(result), y.(result)
		if rx.err != nil {
			return rx
		}
		if ry.err != nil {
			return ry
		}
		return result{list: append(rx.list, ry.list...)}
	}).(result)
	return r.list, r.err
}
