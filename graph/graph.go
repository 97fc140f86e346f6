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

// Package graph implements a De Bruijn graph over canonical k-mers.
package graph

import (
	"bytes"
	"log"
	"sync/atomic"

	"github.com/exascience/pargo/parallel"
	psync "github.com/exascience/pargo/sync"
	"github.com/pkg/errors"
	"github.com/willf/bitset"

	"github.com/exascience/padena/kmer"
	"github.com/exascience/padena/sequence"
	"github.com/exascience/padena/utils"
	"github.com/exascience/padena/utils/nibbles"
)

// A Step is one oriented visit of a node. When Forward is false, the
// node is read as the reverse complement of its canonical k-mer.
type Step struct {
	Node    int
	Forward bool
}

// Flip returns the same node visited in the other direction.
func (s Step) Flip() Step {
	return Step{Node: s.Node, Forward: !s.Forward}
}

// Graph is a De Bruijn graph. Nodes are canonical k-mers with dense
// ids in lexicographic k-mer order. Removed nodes keep their id.
type Graph struct {
	k        int
	alphabet sequence.Alphabet
	code     *nibbles.Code
	stride   int
	kmers    nibbles.Nibbles
	nodes    []*Node
	index    *psync.Map
	alive    *bitset.BitSet
	live     int
}

// K returns the k-mer length.
func (g *Graph) K() int {
	return g.k
}

// Alphabet returns the alphabet of the k-mers.
func (g *Graph) Alphabet() sequence.Alphabet {
	return g.alphabet
}

// Size returns the number of node ids, including those of removed nodes.
func (g *Graph) Size() int {
	return len(g.nodes)
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int {
	return g.live
}

// Alive reports whether the node with the given id has not been removed.
func (g *Graph) Alive(id int) bool {
	return id >= 0 && id < len(g.nodes) && g.alive.Test(uint(id))
}

// Node returns the node with the given id, or nil if it has been removed.
func (g *Graph) Node(id int) *Node {
	if !g.Alive(id) {
		return nil
	}
	return g.nodes[id]
}

// LiveNodes returns the ids of all live nodes in increasing order.
func (g *Graph) LiveNodes() []int {
	result := make([]int, 0, g.live)
	for i, ok := g.alive.NextSet(0); ok; i, ok = g.alive.NextSet(i + 1) {
		result = append(result, int(i))
	}
	return result
}

// NodeSequence returns the canonical k-mer of a node.
func (g *Graph) NodeSequence(id int) []byte {
	return g.appendNodeSequence(make([]byte, 0, g.k), id)
}

func (g *Graph) appendNodeSequence(dst []byte, id int) []byte {
	offset := id * g.stride
	return g.kmers.Slice(offset, offset+g.k).Unpack(dst, g.code)
}

// StepSequence returns the k-mer of a node in the direction of the step.
func (g *Graph) StepSequence(s Step) []byte {
	seq := g.NodeSequence(s.Node)
	if s.Forward {
		return seq
	}
	return g.alphabet.ReverseComplement(seq)
}

// IsPalindrome reports whether a node's k-mer is its own reverse complement.
func (g *Graph) IsPalindrome(id int) bool {
	return g.nodes[id].palindrome
}

// Successors returns the steps that can follow s.
func (g *Graph) Successors(s Step) []Step {
	n := g.nodes[s.Node]
	var exts []Extension
	if s.Forward {
		exts = n.Right()
	} else {
		exts = n.Left()
	}
	result := make([]Step, len(exts))
	for i, e := range exts {
		result[i] = Step{Node: e.Node, Forward: s.Forward == e.SameOrientation}
	}
	return result
}

// SuccessorCount returns len(g.Successors(s)).
func (g *Graph) SuccessorCount(s Step) int {
	if s.Forward {
		return g.nodes[s.Node].RightCount()
	}
	return g.nodes[s.Node].LeftCount()
}

// Predecessors returns the steps that can precede s.
func (g *Graph) Predecessors(s Step) []Step {
	result := g.Successors(s.Flip())
	for i := range result {
		result[i].Forward = !result[i].Forward
	}
	return result
}

// PredecessorCount returns len(g.Predecessors(s)).
func (g *Graph) PredecessorCount(s Step) int {
	return g.SuccessorCount(s.Flip())
}

// Lookup finds the live node of a k-mer. The step is forward if the
// k-mer is canonical.
func (g *Graph) Lookup(kmerSeq []byte) (Step, bool) {
	if len(kmerSeq) != g.k {
		return Step{}, false
	}
	canonical, forward := kmer.Canonical(g.alphabet, kmerSeq)
	entry, ok := g.index.Load(kmerKey(canonical))
	if !ok {
		return Step{}, false
	}
	id := entry.(*kmerEntry).id
	if !g.Alive(id) {
		return Step{}, false
	}
	return Step{Node: id, Forward: forward}, true
}

func (g *Graph) lookupID(kmerSeq, buf []byte) (Extension, bool) {
	canonical, forward := kmer.CanonicalInto(g.alphabet, kmerSeq, buf)
	entry, ok := g.index.Load(kmerKey(canonical))
	if !ok {
		return Extension{}, false
	}
	return Extension{Node: entry.(*kmerEntry).id, SameOrientation: forward}, true
}

// Build creates a De Bruijn graph from the k-mers of a set of reads.
// Identical canonical k-mers of any number of reads become one node.
// The reads must be in upper case and must not contain ambiguous
// symbols.
func Build(sets []*kmer.KmersOfSequence, k int, a sequence.Alphabet) (*Graph, error) {
	if !a.CanComplement() {
		return nil, errors.Wrapf(utils.ErrAlphabetMismatch, "alphabet %v has no complement", a)
	}
	if k <= 0 {
		return nil, errors.Wrapf(utils.ErrInvalidArgument, "k-mer length %v must be positive", k)
	}
	for _, set := range sets {
		if set == nil {
			return nil, errors.Wrap(utils.ErrInvalidArgument, "nil k-mer set")
		}
		if set.K != k {
			return nil, errors.Wrapf(utils.ErrInvalidArgument, "k-mer length %v of read %v does not match %v", set.K, set.Read.ID, k)
		}
		if set.Read.Alphabet != a {
			return nil, errors.Wrapf(utils.ErrAlphabetMismatch, "read %v has alphabet %v instead of %v", set.Read.ID, set.Read.Alphabet, a)
		}
		if set.Read.IsAmbiguous() {
			return nil, errors.Wrapf(utils.ErrInvalidArgument, "read %v contains ambiguous symbols", set.Read.ID)
		}
	}

	index := psync.NewMap(0)
	var entries []*kmerEntry
	if len(sets) > 0 {
		entries = parallel.RangeReduce(0, len(sets), 0, func(low, high int) interface{} {
			var local []*kmerEntry
			for _, set := range sets[low:high] {
				for i := range set.Kmers {
					kp := &set.Kmers[i]
					key := kmerKey(kp.Kmer)
					value, ok := index.Load(key)
					if !ok {
						entry := &kmerEntry{kmer: key}
						var loaded bool
						if value, loaded = index.LoadOrStore(key, entry); !loaded {
							local = append(local, entry)
						}
					}
					atomic.AddInt64(&value.(*kmerEntry).count, int64(kp.Count()))
				}
			}
			return local
		}, func(x, y interface{}) interface{} {
			return append(x.([]*kmerEntry), y.([]*kmerEntry)...)
		}).([]*kmerEntry)
	}
	g := &Graph{
		k:        k,
		alphabet: a,
		code:     nibbles.NewCode(a.Bases()),
		stride:   (k + 1) &^ 1,
		nodes:    make([]*Node, len(entries)),
		index:    index,
		alive:    bitset.New(uint(len(entries))),
		live:     len(entries),
	}
	g.kmers = nibbles.Make(len(entries) * g.stride)
	if len(entries) == 0 {
		return g, nil
	}
	sortEntries(entries)
	for i := range entries {
		g.alive.Set(uint(i))
	}

	parallel.Range(0, len(entries), 0, func(low, high int) {
		for i := low; i < high; i++ {
			entry := entries[i]
			entry.id = i
			seq := []byte(entry.kmer)
			g.kmers.Pack(i*g.stride, seq, g.code)
			g.nodes[i] = &Node{
				ID:         i,
				count:      int(entry.count),
				palindrome: bytes.Equal(seq, a.ReverseComplement(seq)),
			}
		}
	})

	bases := []byte(a.Bases())
	parallel.Range(0, len(entries), 0, func(low, high int) {
		neighbour := make([]byte, k)
		buf := make([]byte, 0, k)
		for i := low; i < high; i++ {
			node := g.nodes[i]
			seq := string(entries[i].kmer)
			for _, c := range bases {
				copy(neighbour, seq[1:])
				neighbour[k-1] = c
				if ext, ok := g.lookupID(neighbour, buf); ok {
					node.right = addExtension(node.right, ext)
				}
				neighbour[0] = c
				copy(neighbour[1:], seq[:k-1])
				if ext, ok := g.lookupID(neighbour, buf); ok {
					node.left = addExtension(node.left, ext)
				}
			}
		}
	})

	return g, nil
}

// BuildFromReads extracts the k-mers of the reads and builds a graph.
func BuildFromReads(reads []*sequence.Read, k int) (*Graph, error) {
	if len(reads) == 0 {
		return nil, errors.Wrap(utils.ErrInvalidArgument, "no reads")
	}
	a := reads[0].Alphabet
	if err := sequence.CheckAlphabet(reads, a); err != nil {
		return nil, err
	}
	upper := make([]*sequence.Read, len(reads))
	for i, r := range reads {
		upper[i] = r.ToUpper()
	}
	sets, err := kmer.ExtractAll(upper, k)
	if err != nil {
		return nil, err
	}
	return Build(sets, k, a)
}

func graphConsistencyError(id int, format string, args ...interface{}) error {
	return errors.Wrapf(utils.ErrGraphConsistency, "node %v: "+format, append([]interface{}{id}, args...)...)
}

func firstError(x, y interface{}) interface{} {
	if x != nil {
		return x
	}
	return y
}

// RemoveNodes removes the given nodes and all extensions that refer
// to them. Duplicate ids are ignored. Neighbours are updated in
// parallel.
func (g *Graph) RemoveNodes(ids []int) error {
	removed := bitset.New(uint(len(g.nodes)))
	unique := make([]int, 0, len(ids))
	for _, id := range ids {
		if !g.Alive(id) {
			return graphConsistencyError(id, "removing a node that is not in the graph")
		}
		if !removed.Test(uint(id)) {
			removed.Set(uint(id))
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return nil
	}
	result := parallel.RangeReduce(0, len(unique), 0, func(low, high int) interface{} {
		for _, id := range unique[low:high] {
			node := g.nodes[id]
			for _, exts := range [2][]Extension{node.Left(), node.Right()} {
				for _, e := range exts {
					if removed.Test(uint(e.Node)) {
						continue
					}
					if !g.Alive(e.Node) {
						return graphConsistencyError(id, "extension to removed node %v", e.Node)
					}
					g.nodes[e.Node].RemoveExtensionThreadSafe(id)
				}
			}
		}
		return nil
	}, firstError)
	for _, id := range unique {
		g.nodes[id].clearExtensions()
		g.alive.Clear(uint(id))
	}
	g.live -= len(unique)
	if result != nil {
		err := result.(error)
		log.Printf("Graph consistency error: %v", err)
		return err
	}
	return nil
}

// Validate checks that every extension refers to a live node and has
// a matching extension in the opposite direction. Extensions of
// palindromic nodes only need a matching extension on either side,
// because their orientation is ambiguous.
func (g *Graph) Validate() error {
	live := g.LiveNodes()
	if len(live) == 0 {
		return nil
	}
	result := parallel.RangeReduce(0, len(live), 0, func(low, high int) interface{} {
		for _, id := range live[low:high] {
			node := g.nodes[id]
			left, right := node.Left(), node.Right()
			for side, exts := range [2][]Extension{left, right} {
				for _, e := range exts {
					if !g.Alive(e.Node) {
						return graphConsistencyError(id, "extension to removed node %v", e.Node)
					}
					other := g.nodes[e.Node]
					otherLeft, otherRight := other.Left(), other.Right()
					if node.palindrome || other.palindrome {
						if !hasExtension(otherLeft, id) && !hasExtension(otherRight, id) {
							return graphConsistencyError(id, "no reverse extension from node %v", e.Node)
						}
						continue
					}
					var back []Extension
					switch {
					case side == 1 && e.SameOrientation, side == 0 && !e.SameOrientation:
						back = otherLeft
					default:
						back = otherRight
					}
					found := false
					for _, b := range back {
						if b.Node == id && b.SameOrientation == e.SameOrientation {
							found = true
							break
						}
					}
					if !found {
						return graphConsistencyError(id, "no matching reverse extension from node %v", e.Node)
					}
				}
			}
		}
		return nil
	}, firstError)
	if result != nil {
		return result.(error)
	}
	return nil
}

// Spell returns the sequence of a walk: the k-mer of the first step,
// followed by the last base of the k-mer of every other step.
func (g *Graph) Spell(steps []Step) []byte {
	if len(steps) == 0 {
		return nil
	}
	result := g.StepSequence(steps[0])
	for _, s := range steps[1:] {
		seq := g.StepSequence(s)
		result = append(result, seq[len(seq)-1])
	}
	return result
}
