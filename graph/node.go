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

package graph

import "sync"

// An Extension links a node to a neighbour on one of its sides.
// SameOrientation is true when the canonical k-mers of both nodes
// overlap as they are, and false when one of them has to be reverse
// complemented first.
type Extension struct {
	Node            int
	SameOrientation bool
}

// A Node is a canonical k-mer of a De Bruijn graph.
//
// Left extensions are k-mers that overlap the canonical k-mer by k-1
// bases on its left, right extensions those that overlap it on its
// right.
type Node struct {
	ID         int
	count      int
	palindrome bool

	mutex       sync.Mutex
	left, right []Extension
}

// Count returns the number of occurrences of the k-mer in all reads.
func (n *Node) Count() int {
	return n.count
}

// IsPalindrome reports whether the k-mer is its own reverse complement.
func (n *Node) IsPalindrome() bool {
	return n.palindrome
}

func copyExtensions(exts []Extension) []Extension {
	if len(exts) == 0 {
		return nil
	}
	return append([]Extension(nil), exts...)
}

// Left returns a copy of the left extensions.
func (n *Node) Left() []Extension {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return copyExtensions(n.left)
}

// Right returns a copy of the right extensions.
func (n *Node) Right() []Extension {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return copyExtensions(n.right)
}

// LeftCount returns the number of left extensions.
func (n *Node) LeftCount() int {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return len(n.left)
}

// RightCount returns the number of right extensions.
func (n *Node) RightCount() int {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return len(n.right)
}

// IsIsland reports whether the node has no extensions at all.
func (n *Node) IsIsland() bool {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return len(n.left) == 0 && len(n.right) == 0
}

func addExtension(exts []Extension, ext Extension) []Extension {
	for _, e := range exts {
		if e == ext {
			return exts
		}
	}
	return append(exts, ext)
}

func removeExtension(exts []Extension, id int) []Extension {
	j := 0
	for _, e := range exts {
		if e.Node != id {
			exts[j] = e
			j++
		}
	}
	for i := j; i < len(exts); i++ {
		exts[i] = Extension{}
	}
	return exts[:j]
}

func hasExtension(exts []Extension, id int) bool {
	for _, e := range exts {
		if e.Node == id {
			return true
		}
	}
	return false
}

// RemoveExtensionThreadSafe removes all extensions to the node with
// the given id, on both sides.
func (n *Node) RemoveExtensionThreadSafe(id int) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.left = removeExtension(n.left, id)
	n.right = removeExtension(n.right, id)
}

func (n *Node) clearExtensions() {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.left, n.right = nil, nil
}
