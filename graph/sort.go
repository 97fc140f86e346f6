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

import (
	"sort"

	psort "github.com/exascience/pargo/sort"

	"github.com/exascience/padena/internal"
)

// A kmerEntry collects the occurrences of one canonical k-mer while a
// graph is being built.
type kmerEntry struct {
	kmer  kmerKey
	count int64
	id    int
}

type kmerKey string

func (k kmerKey) Hash() uint64 {
	return internal.StringHash(string(k))
}

type entrySorter []*kmerEntry

func (s entrySorter) SequentialSort(i, j int) {
	entries := s[i:j]
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].kmer < entries[j].kmer
	})
}

func (s entrySorter) NewTemp() psort.StableSorter {
	return entrySorter(make([]*kmerEntry, len(s)))
}

func (s entrySorter) Len() int {
	return len(s)
}

func (s entrySorter) Less(i, j int) bool {
	return s[i].kmer < s[j].kmer
}

func (s entrySorter) Assign(source psort.StableSorter) func(i, j, len int) {
	dst, src := s, source.(entrySorter)
	return func(i, j, len int) {
		copy(dst[i:i+len], src[j:j+len])
	}
}

// sortEntries sorts entries by canonical k-mer using a parallel stable sort.
func sortEntries(entries []*kmerEntry) {
	psort.StableSort(entrySorter(entries))
}
