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
	"bytes"
	"sort"
	"strconv"
	"strings"

	"github.com/exascience/pargo/parallel"

	"github.com/exascience/padena/graph"
)

// RedundantPathsPurger detects bubbles: alternative walks of at most
// Threshold nodes between a divergence and a convergence step. All
// but one branch of every bubble are erroneous.
type RedundantPathsPurger struct {
	Threshold int
}

// NewRedundantPathsPurger returns a purger for bubbles with branches
// of at most threshold nodes.
func NewRedundantPathsPurger(threshold int) *RedundantPathsPurger {
	return &RedundantPathsPurger{Threshold: threshold}
}

type branch struct {
	interior Path
	count    int
	spelling []byte
	minNode  int
}

type bubble struct {
	divergence, convergence graph.Step
	winner                  *branch
	losers                  []*branch
}

// follow walks from the first step of a branch until a step with
// more than one predecessor. It returns false when the branch dead
// ends, diverges, loops or is longer than the threshold.
func (p *RedundantPathsPurger) follow(g *graph.Graph, divergence, s graph.Step) (Path, graph.Step, bool) {
	var interior Path
	for {
		if g.PredecessorCount(s) > 1 {
			if s.Node == divergence.Node || interior.Contains(s.Node) {
				return nil, s, false
			}
			return interior, s, true
		}
		if s.Node == divergence.Node || interior.Contains(s.Node) || g.IsPalindrome(s.Node) {
			return nil, s, false
		}
		if len(interior) >= p.Threshold {
			return nil, s, false
		}
		ahead := g.Successors(s)
		if len(ahead) != 1 {
			return nil, s, false
		}
		interior = append(interior, s)
		s = ahead[0]
	}
}

func newBranch(g *graph.Graph, interior Path) *branch {
	b := &branch{interior: interior, minNode: -1}
	if len(interior) == 0 {
		return b
	}
	for _, s := range interior {
		b.count += g.Node(s.Node).Count()
		if b.minNode < 0 || s.Node < b.minNode {
			b.minNode = s.Node
		}
	}
	spelling := g.Spell([]graph.Step(interior))
	if rc := g.Alphabet().ReverseComplement(spelling); bytes.Compare(rc, spelling) < 0 {
		spelling = rc
	}
	b.spelling = spelling
	return b
}

// better reports whether branch a is preferred over branch b. A
// direct edge is always preferred, then the higher total count, the
// smaller strand-independent spelling, and the smaller node id.
func better(a, b *branch) bool {
	if len(a.interior) == 0 || len(b.interior) == 0 {
		return len(a.interior) == 0 && len(b.interior) != 0
	}
	if a.count != b.count {
		return a.count > b.count
	}
	if c := bytes.Compare(a.spelling, b.spelling); c != 0 {
		return c < 0
	}
	return a.minNode < b.minNode
}

func (p *RedundantPathsPurger) detect(g *graph.Graph, id int) []*bubble {
	var bubbles []*bubble
	for _, forward := range [2]bool{true, false} {
		divergence := graph.Step{Node: id, Forward: forward}
		successors := g.Successors(divergence)
		if len(successors) < 2 {
			continue
		}
		var order []graph.Step
		groups := make(map[graph.Step][]*branch)
		for _, s := range successors {
			interior, convergence, ok := p.follow(g, divergence, s)
			if !ok {
				continue
			}
			if _, found := groups[convergence]; !found {
				order = append(order, convergence)
			}
			groups[convergence] = append(groups[convergence], newBranch(g, interior))
		}
		for _, convergence := range order {
			branches := groups[convergence]
			if len(branches) < 2 {
				continue
			}
			winner := 0
			for i := 1; i < len(branches); i++ {
				if better(branches[i], branches[winner]) {
					winner = i
				}
			}
			b := &bubble{divergence: divergence, convergence: convergence, winner: branches[winner]}
			for i, br := range branches {
				if i != winner {
					b.losers = append(b.losers, br)
				}
			}
			bubbles = append(bubbles, b)
		}
	}
	return bubbles
}

func (b *bubble) loserKey() string {
	var ids []int
	for _, l := range b.losers {
		ids = append(ids, l.interior.Nodes()...)
	}
	sort.Ints(ids)
	var key strings.Builder
	for _, id := range ids {
		key.WriteString(strconv.Itoa(id))
		key.WriteByte(',')
	}
	return key.String()
}

func (b *bubble) nodes() []int {
	ids := []int{b.divergence.Node, b.convergence.Node}
	ids = append(ids, b.winner.interior.Nodes()...)
	for _, l := range b.losers {
		ids = append(ids, l.interior.Nodes()...)
	}
	return ids
}

// DetectErroneousNodes returns the losing branches of all bubbles
// that do not overlap. Bubbles that share nodes with an earlier bubble
// are left for a later pass. Every bubble is found from both of its
// ends; the second finding is ignored.
func (p *RedundantPathsPurger) DetectErroneousNodes(g *graph.Graph) (PathList, error) {
	live := g.LiveNodes()
	if len(live) == 0 {
		return nil, nil
	}
	perNode := make([][]*bubble, len(live))
	parallel.Range(0, len(live), 0, func(low, high int) {
		for i := low; i < high; i++ {
			perNode[i] = p.detect(g, live[i])
		}
	})
	var bubbles []*bubble
	for _, bs := range perNode {
		bubbles = append(bubbles, bs...)
	}

	var list PathList
	seen := make(map[string]bool)
	used := make(map[int]bool)
	for _, b := range bubbles {
		key := b.loserKey()
		if seen[key] {
			continue
		}
		nodes := b.nodes()
		overlap := false
		for _, id := range nodes {
			if used[id] {
				overlap = true
				break
			}
		}
		if overlap {
			continue
		}
		seen[key] = true
		for _, id := range nodes {
			used[id] = true
		}
		for _, l := range b.losers {
			if len(l.interior) > 0 {
				list = append(list, l.interior)
			}
		}
	}
	return list, nil
}

// RemoveErroneousNodes removes the nodes of the losing branches.
func (p *RedundantPathsPurger) RemoveErroneousNodes(g *graph.Graph, list PathList) error {
	return g.RemoveNodes(list.Nodes())
}
