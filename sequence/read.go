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

package sequence

import (
	"github.com/pkg/errors"

	"github.com/exascience/padena/utils"
)

// A Read is a named symbol sequence over an alphabet.
type Read struct {
	ID       string
	Bases    []byte
	Alphabet Alphabet
}

// NewRead allocates a read. The bases are not copied.
func NewRead(id string, bases []byte, a Alphabet) *Read {
	return &Read{ID: id, Bases: bases, Alphabet: a}
}

// Len returns the number of bases in the read.
func (r *Read) Len() int {
	return len(r.Bases)
}

func (r *Read) String() string {
	return string(r.Bases)
}

// Validate checks that every base is a symbol of the read's alphabet.
func (r *Read) Validate() error {
	for i, b := range r.Bases {
		if !r.Alphabet.IsValid(b) {
			return errors.Wrapf(utils.ErrAlphabetMismatch, "read %v has symbol %q at position %v, which is not in the %v alphabet", r.ID, b, i, r.Alphabet)
		}
	}
	return nil
}

// IsAmbiguous reports whether the read contains an ambiguity code or
// a gap.
func (r *Read) IsAmbiguous() bool {
	for _, b := range r.Bases {
		if r.Alphabet.IsAmbiguous(b) {
			return true
		}
	}
	return false
}

// ToUpper returns a copy of the read with all bases in upper case.
func (r *Read) ToUpper() *Read {
	bases := make([]byte, len(r.Bases))
	for i, b := range r.Bases {
		bases[i] = upper(b)
	}
	return &Read{ID: r.ID, Bases: bases, Alphabet: r.Alphabet}
}

// ReverseComplement returns a new read with the reverse complement of
// the bases of r.
func (r *Read) ReverseComplement() *Read {
	return &Read{ID: r.ID, Bases: r.Alphabet.ReverseComplement(r.Bases), Alphabet: r.Alphabet}
}

// CheckAlphabet verifies that all reads are non-nil, use alphabet a,
// and only contain symbols of a.
func CheckAlphabet(reads []*Read, a Alphabet) error {
	for i, r := range reads {
		if r == nil {
			return errors.Wrapf(utils.ErrInvalidArgument, "read %v is nil", i)
		}
		if r.Alphabet != a {
			return errors.Wrapf(utils.ErrAlphabetMismatch, "read %v uses the %v alphabet, expected %v", r.ID, r.Alphabet, a)
		}
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// LengthRange returns the lengths of the shortest and the longest read.
func LengthRange(reads []*Read) (min, max int) {
	if len(reads) == 0 {
		return 0, 0
	}
	min, max = reads[0].Len(), reads[0].Len()
	for _, r := range reads[1:] {
		if l := r.Len(); l < min {
			min = l
		} else if l > max {
			max = l
		}
	}
	return min, max
}
