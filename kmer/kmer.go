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

// Package kmer decomposes reads into overlapping k-mers.
package kmer

import (
	"bytes"

	"github.com/exascience/pargo/parallel"
	"github.com/pkg/errors"

	"github.com/exascience/padena/sequence"
	"github.com/exascience/padena/utils"
)

// A Position is one occurrence of a canonical k-mer in a read.
// Forward is false when the read contains the reverse complement of
// the canonical k-mer at Offset.
type Position struct {
	Offset  int
	Forward bool
}

// KmerPositions groups all occurrences of one canonical k-mer in a
// read.
type KmerPositions struct {
	Kmer      []byte
	Positions []Position
}

// Count returns the number of occurrences.
func (kp *KmerPositions) Count() int {
	return len(kp.Positions)
}

// KmersOfSequence holds the k-mers of one read.
type KmersOfSequence struct {
	Read      *sequence.Read
	ReadIndex int
	K         int
	Kmers     []KmerPositions
}

// Canonical returns the canonical form of kmer, which is the
// lexicographically smaller of kmer and its reverse complement.
// Forward reports whether kmer is its own canonical form; this is
// always the case for palindromes. The result shares memory with
// kmer when forward is true.
func Canonical(a sequence.Alphabet, kmer []byte) (canonical []byte, forward bool) {
	return CanonicalInto(a, kmer, nil)
}

// CanonicalInto is Canonical, but uses buf to build the reverse
// complement.
func CanonicalInto(a sequence.Alphabet, kmer, buf []byte) (canonical []byte, forward bool) {
	rc := a.AppendReverseComplement(buf[:0], kmer)
	if bytes.Compare(rc, kmer) < 0 {
		return rc, false
	}
	return kmer, true
}

// Extract computes the k-mers of a read at every offset 0..len-k.
func Extract(read *sequence.Read, readIndex, k int) (*KmersOfSequence, error) {
	if read == nil {
		return nil, errors.Wrap(utils.ErrInvalidArgument, "nil read")
	}
	if k <= 0 {
		return nil, errors.Wrapf(utils.ErrInvalidArgument, "k-mer length %v must be positive", k)
	}
	if k > read.Len() {
		return nil, errors.Wrapf(utils.ErrInvalidArgument, "k-mer length %v exceeds length %v of read %v", k, read.Len(), read.ID)
	}
	n := read.Len() - k + 1
	result := &KmersOfSequence{
		Read:      read,
		ReadIndex: readIndex,
		K:         k,
		Kmers:     make([]KmerPositions, 0, n),
	}
	index := make(map[string]int, n)
	buf := make([]byte, 0, k)
	for offset := 0; offset < n; offset++ {
		canonical, forward := CanonicalInto(read.Alphabet, read.Bases[offset:offset+k], buf)
		i, found := index[string(canonical)]
		if !found {
			i = len(result.Kmers)
			index[string(canonical)] = i
			result.Kmers = append(result.Kmers, KmerPositions{Kmer: append([]byte(nil), canonical...)})
		}
		kp := &result.Kmers[i]
		kp.Positions = append(kp.Positions, Position{Offset: offset, Forward: forward})
	}
	return result, nil
}

// ExtractAll computes the k-mers of all reads in parallel.
func ExtractAll(reads []*sequence.Read, k int) ([]*KmersOfSequence, error) {
	result := make([]*KmersOfSequence, len(reads))
	if len(reads) == 0 {
		return result, nil
	}
	errs := make([]error, len(reads))
	parallel.Range(0, len(reads), 0, func(low, high int) {
		for i := low; i < high; i++ {
			result[i], errs[i] = Extract(reads[i], i, k)
		}
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Positions returns the number of k-mer positions in the read.
func (ks *KmersOfSequence) Positions() int {
	return ks.Read.Len() - ks.K + 1
}

// Decode returns the k-mer of the read as it occurs at the j-th
// position of the i-th entry of ks.Kmers.
func (ks *KmersOfSequence) Decode(i, j int) []byte {
	kp := &ks.Kmers[i]
	if kp.Positions[j].Forward {
		return append([]byte(nil), kp.Kmer...)
	}
	return ks.Read.Alphabet.ReverseComplement(kp.Kmer)
}
