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
	"bytes"
	"sort"
	"sync"

	"github.com/exascience/pargo/parallel"
	psync "github.com/exascience/pargo/sync"
	"github.com/pkg/errors"

	"github.com/exascience/padena/internal"
	"github.com/exascience/padena/sequence"
	"github.com/exascience/padena/utils"
)

// Overlap classifies how much of a read is covered by a contig.
type Overlap int

const (
	// PartialOverlap means only a part of the read matches the contig.
	PartialOverlap Overlap = iota
	// FullOverlap means the whole read matches the contig.
	FullOverlap
)

// A ReadMap is a region where a read matches a contig. ContigStart is
// the leftmost matching position on the contig. Forward is false when
// the reverse complement of the read matches the contig.
type ReadMap struct {
	ContigStart int
	ReadStart   int
	Length      int
	Forward     bool
	Overlap     Overlap
}

// ReadContigMap maps read identifiers to contig indexes to the regions
// where the read matches the contig.
type ReadContigMap map[string]map[int][]ReadMap

type seqKey string

func (s seqKey) Hash() uint64 {
	return internal.StringHash(string(s))
}

type contigHit struct {
	contig, position int
}

type hitList struct {
	mutex sync.Mutex
	hits  []contigHit
}

// ReadContigMapper finds the positions of reads in contigs through
// exact k-mer matches.
type ReadContigMapper struct{}

// NewReadContigMapper returns a read mapper.
func NewReadContigMapper() *ReadContigMapper {
	return &ReadContigMapper{}
}

func indexContigs(contigs [][]byte, k int) *psync.Map {
	index := psync.NewMap(0)
	if len(contigs) == 0 {
		return index
	}
	parallel.Range(0, len(contigs), 0, func(low, high int) {
		for c := low; c < high; c++ {
			contig := contigs[c]
			for pos := 0; pos+k <= len(contig); pos++ {
				key := seqKey(contig[pos : pos+k])
				value, ok := index.Load(key)
				if !ok {
					value, _ = index.LoadOrStore(key, new(hitList))
				}
				list := value.(*hitList)
				list.mutex.Lock()
				list.hits = append(list.hits, contigHit{c, pos})
				list.mutex.Unlock()
			}
		}
	})
	return index
}

func lookupHits(index *psync.Map, kmer []byte) []contigHit {
	value, ok := index.Load(seqKey(kmer))
	if !ok {
		return nil
	}
	return value.(*hitList).hits
}

type diagonal struct {
	contig   int
	forward  bool
	diagonal int
}

// mapRead returns the matches of one read, grouped by contig.
func mapRead(index *psync.Map, read *sequence.Read, k int) map[int][]ReadMap {
	offsets := make(map[diagonal][]int)
	var order []diagonal
	add := func(d diagonal, offset int) {
		if _, found := offsets[d]; !found {
			order = append(order, d)
		}
		offsets[d] = append(offsets[d], offset)
	}

	rc := internal.ReserveByteBuffer()
	defer func() { internal.ReleaseByteBuffer(rc) }()
	for i := 0; i+k <= read.Len(); i++ {
		kmer := read.Bases[i : i+k]
		for _, hit := range lookupHits(index, kmer) {
			add(diagonal{hit.contig, true, hit.position - i}, i)
		}
		rc = read.Alphabet.AppendReverseComplement(rc[:0], kmer)
		if bytes.Equal(rc, kmer) {
			continue
		}
		for _, hit := range lookupHits(index, rc) {
			add(diagonal{hit.contig, false, hit.position + i}, i)
		}
	}
	if len(order) == 0 {
		return nil
	}

	result := make(map[int][]ReadMap)
	for _, d := range order {
		list := offsets[d]
		for start := 0; start < len(list); {
			end := start + 1
			for end < len(list) && list[end] == list[end-1]+1 {
				end++
			}
			first, last := list[start], list[end-1]
			m := ReadMap{
				ReadStart: first,
				Length:    last - first + k,
				Forward:   d.forward,
			}
			if d.forward {
				m.ContigStart = d.diagonal + first
			} else {
				m.ContigStart = d.diagonal - last
			}
			if m.Length == read.Len() {
				m.Overlap = FullOverlap
			}
			result[d.contig] = append(result[d.contig], m)
			start = end
		}
	}
	for _, maps := range result {
		sort.Slice(maps, func(i, j int) bool {
			if maps[i].ReadStart != maps[j].ReadStart {
				return maps[i].ReadStart < maps[j].ReadStart
			}
			return maps[i].ContigStart < maps[j].ContigStart
		})
	}
	return result
}

// Map finds the matches of all reads on all contigs. Reads without
// any match are not in the result.
func (m *ReadContigMapper) Map(contigs [][]byte, reads []*sequence.Read, k int) (ReadContigMap, error) {
	if k <= 0 {
		return nil, errors.Wrapf(utils.ErrInvalidArgument, "k-mer length %v must be positive", k)
	}
	seen := make(map[string]bool, len(reads))
	for i, read := range reads {
		if read == nil {
			return nil, errors.Wrapf(utils.ErrInvalidArgument, "read %v is nil", i)
		}
		if seen[read.ID] {
			return nil, errors.Wrapf(utils.ErrInvalidArgument, "duplicate read identifier %v", read.ID)
		}
		seen[read.ID] = true
	}

	result := make(ReadContigMap)
	if len(reads) == 0 {
		return result, nil
	}
	index := indexContigs(contigs, k)
	maps := make([]map[int][]ReadMap, len(reads))
	parallel.Range(0, len(reads), 0, func(low, high int) {
		for i := low; i < high; i++ {
			maps[i] = mapRead(index, reads[i], k)
		}
	})
	for i, read := range reads {
		if maps[i] != nil {
			result[read.ID] = maps[i]
		}
	}
	return result, nil
}
