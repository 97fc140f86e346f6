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

// A Step is an oriented contig. When Forward is false the contig is
// read as its reverse complement.
type Step struct {
	Contig  int
	Forward bool
}

// Flip returns the same contig in the other orientation.
func (s Step) Flip() Step {
	return Step{Contig: s.Contig, Forward: !s.Forward}
}

// A Link states that To follows From in the genome. A link and the
// link between the flipped steps in reverse order are equivalent;
// links are normalized so that From.Contig <= To.Contig.
type Link struct {
	From, To Step
}

func normalizeLink(from, to Step) Link {
	if from.Contig > to.Contig {
		return Link{From: to.Flip(), To: from.Flip()}
	}
	return Link{From: from, To: to}
}

// A Placement is a match of a read on a contig.
type Placement struct {
	Contig int
	ReadMap
}

// A ValidMatePair is a mate pair whose reads both match different
// contigs completely, with its distance estimate.
type ValidMatePair struct {
	Pair              *MatePair
	Forward, Reverse  Placement
	Distance          float64
	StandardDeviation float64
}

// LinkEvidence collects the mate pairs that support a link, and the
// estimated distance between the contigs.
type LinkEvidence struct {
	Pairs             []*ValidMatePair
	Distance          float64
	StandardDeviation float64
	Weight            int
}

// ContigMatePairs maps links between contigs to their evidence.
type ContigMatePairs map[Link]*LinkEvidence

// Links returns the links in a deterministic order.
func (cmp ContigMatePairs) Links() []Link {
	links := make([]Link, 0, len(cmp))
	for link := range cmp {
		links = append(links, link)
	}
	sort.Slice(links, func(i, j int) bool {
		return linkLess(links[i], links[j])
	})
	return links
}

func stepLess(a, b Step) bool {
	if a.Contig != b.Contig {
		return a.Contig < b.Contig
	}
	return a.Forward && !b.Forward
}

func linkLess(a, b Link) bool {
	if a.From != b.From {
		return stepLess(a.From, b.From)
	}
	return stepLess(a.To, b.To)
}

func fullPlacements(maps map[int][]ReadMap) []Placement {
	var result []Placement
	for contig, list := range maps {
		for _, m := range list {
			if m.Overlap == FullOverlap {
				result = append(result, Placement{Contig: contig, ReadMap: m})
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Contig != result[j].Contig {
			return result[i].Contig < result[j].Contig
		}
		if result[i].ContigStart != result[j].ContigStart {
			return result[i].ContigStart < result[j].ContigStart
		}
		return result[i].Forward && !result[j].Forward
	})
	return result
}

// MapContigToMatePairs links contigs through mate pairs. For every
// pair, each combination of a complete match of the forward read on
// contig A and of the reverse read on another contig B links A, in the
// orientation of the forward read, to B, in the orientation opposite
// to the reverse read.
func MapContigToMatePairs(pairs []*MatePair, readMap ReadContigMap) ContigMatePairs {
	result := make(ContigMatePairs)
	for _, pair := range pairs {
		forward := fullPlacements(readMap[pair.Forward.ID])
		if len(forward) == 0 {
			continue
		}
		reverse := fullPlacements(readMap[pair.Reverse.ID])
		for _, fm := range forward {
			for _, rm := range reverse {
				if fm.Contig == rm.Contig {
					continue
				}
				link := normalizeLink(
					Step{Contig: fm.Contig, Forward: fm.Forward},
					Step{Contig: rm.Contig, Forward: !rm.Forward},
				)
				evidence := result[link]
				if evidence == nil {
					evidence = new(LinkEvidence)
					result[link] = evidence
				}
				evidence.Pairs = append(evidence.Pairs, &ValidMatePair{Pair: pair, Forward: fm, Reverse: rm})
				evidence.Weight = len(evidence.Pairs)
			}
		}
	}
	return result
}
