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

type contigPair struct {
	a, b int
}

// OrientationBasedMatePairFilter keeps, for every pair of contigs, only
// the orientation that most mate pairs agree on.
type OrientationBasedMatePairFilter struct{}

// NewOrientationBasedMatePairFilter returns a mate pair filter.
func NewOrientationBasedMatePairFilter() *OrientationBasedMatePairFilter {
	return &OrientationBasedMatePairFilter{}
}

// Filter returns the links whose orientation has strictly more support
// than any other orientation of the same two contigs, and at least
// redundancy mate pairs. Links from a contig to itself are dropped.
func (f *OrientationBasedMatePairFilter) Filter(cmp ContigMatePairs, redundancy int) ContigMatePairs {
	classes := make(map[contigPair][]Link)
	for _, link := range cmp.Links() {
		if link.From.Contig == link.To.Contig {
			continue
		}
		key := contigPair{link.From.Contig, link.To.Contig}
		classes[key] = append(classes[key], link)
	}
	result := make(ContigMatePairs)
	for _, links := range classes {
		best, unique := links[0], true
		for _, link := range links[1:] {
			switch n, m := len(cmp[link].Pairs), len(cmp[best].Pairs); {
			case n > m:
				best, unique = link, true
			case n == m:
				unique = false
			}
		}
		if unique && len(cmp[best].Pairs) >= redundancy {
			result[best] = cmp[best]
		}
	}
	return result
}
