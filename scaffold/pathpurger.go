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

import "sort"

// PathPurger removes redundant scaffold paths.
type PathPurger struct{}

// NewPathPurger returns a path purger.
func NewPathPurger() *PathPurger {
	return &PathPurger{}
}

func hasPrefix(p, prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i, s := range prefix {
		if p[i] != s {
			return false
		}
	}
	return true
}

func isSubpath(p, sub Path) bool {
	for i := 0; i+len(sub) <= len(p); i++ {
		if hasPrefix(p[i:], sub) {
			return true
		}
	}
	return false
}

// contains reports whether sub occurs in p, in either direction.
func contains(p, sub Path) bool {
	return isSubpath(p, sub) || isSubpath(p, sub.Reverse())
}

func hasDuplicates(p Path) bool {
	seen := make(map[int]bool, len(p))
	for _, s := range p {
		if seen[s.Contig] {
			return true
		}
		seen[s.Contig] = true
	}
	return false
}

// overlap joins x and y if a suffix of x is a prefix of y.
func overlap(x, y Path) (Path, bool) {
	max := len(x)
	if len(y) < max {
		max = len(y)
	}
	for o := max; o > 0; o-- {
		if hasPrefix(y, x[len(x)-o:]) {
			merged := make(Path, 0, len(x)+len(y)-o)
			merged = append(merged, x...)
			merged = append(merged, y[o:]...)
			if hasDuplicates(merged) {
				return nil, false
			}
			return merged, true
		}
	}
	return nil, false
}

func merge(a, b Path) (Path, bool) {
	rb := b.Reverse()
	for _, c := range [4][2]Path{{a, b}, {b, a}, {a, rb}, {rb, a}} {
		if merged, ok := overlap(c[0], c[1]); ok {
			return merged, true
		}
	}
	return nil, false
}

// purgeStep removes or merges one pair of paths, and reports whether
// it found one.
func purgeStep(paths []Path) ([]Path, bool) {
	for i := range paths {
		for j := range paths {
			if i == j {
				continue
			}
			if contains(paths[i], paths[j]) {
				return append(paths[:j], paths[j+1:]...), true
			}
		}
	}
	for i := range paths {
		for j := range paths {
			if i == j {
				continue
			}
			if merged, ok := merge(paths[i], paths[j]); ok {
				paths[i] = merged
				return append(paths[:j], paths[j+1:]...), true
			}
		}
	}
	return paths, false
}

// Purge removes paths that are contained in other paths, in either
// direction, and merges paths of which a suffix is a prefix of another
// path, until neither applies. The input is not modified.
func (pp *PathPurger) Purge(paths []Path) []Path {
	work := make([]Path, 0, len(paths))
	for _, p := range paths {
		if len(p) > 0 {
			work = append(work, append(Path(nil), p...))
		}
	}
	for changed := true; changed; {
		sort.SliceStable(work, func(i, j int) bool {
			return len(work[i]) > len(work[j])
		})
		work, changed = purgeStep(work)
	}
	return work
}
