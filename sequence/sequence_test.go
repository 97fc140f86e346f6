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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exascience/padena/utils"
)

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "CCTTATCAG", string(DNA.ReverseComplement([]byte("CTGATAAGG"))))
	assert.Equal(t, "AAUCG", string(RNA.ReverseComplement([]byte("CGAUU"))))
	assert.Equal(t, "acgt", string(DNA.ReverseComplement([]byte("acgt"))))
	assert.Equal(t, "NRY", string(DNA.ReverseComplement([]byte("RYN"))))
}

func TestAmbiguity(t *testing.T) {
	for _, b := range []byte("ACGT") {
		assert.False(t, DNA.IsAmbiguous(b), string(b))
	}
	for _, b := range []byte("NRYKM-") {
		assert.True(t, DNA.IsAmbiguous(b), string(b))
	}
	assert.True(t, DNA.IsAmbiguous('U'))
	assert.False(t, RNA.IsAmbiguous('U'))
	assert.True(t, NewRead("r", []byte("ACGTGTGKAAAAAAA"), DNA).IsAmbiguous())
	assert.False(t, NewRead("r", []byte("ACGTGTGTAAAAAAA"), DNA).IsAmbiguous())
}

func TestCheckAlphabet(t *testing.T) {
	reads := []*Read{
		NewRead("a", []byte("ACGT"), DNA),
		NewRead("b", []byte("ACGU"), RNA),
	}
	err := CheckAlphabet(reads, DNA)
	require.Error(t, err)
	assert.True(t, utils.IsAlphabetMismatch(err))

	err = CheckAlphabet([]*Read{NewRead("c", []byte("AC!T"), DNA)}, DNA)
	require.Error(t, err)
	assert.True(t, utils.IsAlphabetMismatch(err))

	assert.NoError(t, CheckAlphabet(reads[:1], DNA))
	assert.False(t, Protein.CanComplement())
}

func TestParseAlphabet(t *testing.T) {
	a, err := ParseAlphabet("RNA")
	require.NoError(t, err)
	assert.Equal(t, RNA, a)
	_, err = ParseAlphabet("klingon")
	assert.True(t, utils.IsInvalidArgument(err))
}

func TestLengthRange(t *testing.T) {
	min, max := LengthRange([]*Read{
		NewRead("a", []byte("ACGTA"), DNA),
		NewRead("b", []byte("AC"), DNA),
		NewRead("c", []byte("ACGTACG"), DNA),
	})
	assert.Equal(t, 2, min)
	assert.Equal(t, 7, max)
}
