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

// Package sequence provides the read and alphabet model of the
// assembler. Symbol validity and complements are taken from the biogo
// alphabets.
package sequence

import (
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/pkg/errors"

	"github.com/exascience/padena/utils"
)

// An Alphabet is one of DNA, RNA, or Protein.
type Alphabet int

// The supported alphabets.
const (
	DNA Alphabet = iota
	RNA
	Protein
)

type alphabetInfo struct {
	name      string
	strict    alphabet.Alphabet
	redundant alphabet.Alphabet
	bases     string
	gap       byte
	// complement maps each byte to its complement, or 0
	complement [256]byte
}

var alphabets [3]alphabetInfo

func init() {
	alphabets[DNA] = alphabetInfo{
		name:      "DNA",
		strict:    alphabet.DNA,
		redundant: alphabet.DNAredundant,
		bases:     "ACGT",
		gap:       '-',
	}
	alphabets[RNA] = alphabetInfo{
		name:      "RNA",
		strict:    alphabet.RNA,
		redundant: alphabet.RNAredundant,
		bases:     "ACGU",
		gap:       '-',
	}
	alphabets[Protein] = alphabetInfo{
		name:      "Protein",
		strict:    alphabet.Protein,
		redundant: alphabet.Protein,
		bases:     "ACDEFGHIKLMNPQRSTVWY",
		gap:       '-',
	}
	for i := range alphabets {
		info := &alphabets[i]
		complementor, ok := info.redundant.(alphabet.Complementor)
		if !ok {
			continue
		}
		for b := 0; b < 256; b++ {
			if !info.redundant.IsValid(alphabet.Letter(b)) {
				continue
			}
			if c, ok := complementor.Complement(alphabet.Letter(b)); ok {
				info.complement[b] = byte(c)
			}
		}
	}
}

// ParseAlphabet returns the alphabet with the given case-insensitive name.
func ParseAlphabet(name string) (Alphabet, error) {
	switch strings.ToLower(name) {
	case "dna", "":
		return DNA, nil
	case "rna":
		return RNA, nil
	case "protein":
		return Protein, nil
	}
	return DNA, errors.Wrapf(utils.ErrInvalidArgument, "unknown alphabet %q", name)
}

func (a Alphabet) String() string {
	if a < DNA || a > Protein {
		return "unknown"
	}
	return alphabets[a].name
}

// Biogo returns the biogo alphabet that accepts all symbols of a,
// including ambiguity codes.
func (a Alphabet) Biogo() alphabet.Alphabet {
	return alphabets[a].redundant
}

// Bases returns the unambiguous upper case symbols of a.
func (a Alphabet) Bases() string {
	return alphabets[a].bases
}

// IsValid reports whether b is a symbol of a, ambiguity codes and
// gaps included.
func (a Alphabet) IsValid(b byte) bool {
	return alphabets[a].redundant.IsValid(alphabet.Letter(b))
}

// IsAmbiguous reports whether b is an ambiguity code, a gap, or not a
// symbol of a at all.
func (a Alphabet) IsAmbiguous(b byte) bool {
	info := &alphabets[a]
	return b == info.gap || !info.strict.IsValid(alphabet.Letter(b)) || strings.IndexByte(info.bases, upper(b)) < 0
}

// CanComplement reports whether symbols of a have complements.
func (a Alphabet) CanComplement() bool {
	return a == DNA || a == RNA
}

// Complement returns the complement of b.
func (a Alphabet) Complement(b byte) (byte, bool) {
	c := alphabets[a].complement[b]
	return c, c != 0
}

// ReverseComplement returns a new slice with the reverse complement
// of s. Symbols without complement are kept.
func (a Alphabet) ReverseComplement(s []byte) []byte {
	return a.AppendReverseComplement(make([]byte, 0, len(s)), s)
}

// AppendReverseComplement appends the reverse complement of s to dst.
func (a Alphabet) AppendReverseComplement(dst, s []byte) []byte {
	table := &alphabets[a].complement
	for i := len(s) - 1; i >= 0; i-- {
		if c := table[s[i]]; c != 0 {
			dst = append(dst, c)
		} else {
			dst = append(dst, s[i])
		}
	}
	return dst
}

func upper(b byte) byte {
	if 'a' <= b && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
