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

package nibbles

import (
	"log"
	"strconv"
)

// Nibbles is a slice-like data structure for storing
// sequences of 4-bit values.
type Nibbles struct {
	info  int
	bytes []byte
}

// A Code translates between sequence symbols and 4-bit values.
// Value 0 is reserved for symbols that are not part of the code.
type Code struct {
	encode [256]byte
	decode [16]byte
}

// NewCode creates a code for at most 15 symbols. The i-th symbol is
// encoded as i+1. Lower case letters are encoded like their upper case
// counterparts.
func NewCode(symbols string) *Code {
	if len(symbols) > 15 {
		log.Panic("too many symbols for a nibble code: ", len(symbols))
	}
	c := new(Code)
	for i := 0; i < len(symbols); i++ {
		s := symbols[i]
		c.encode[s] = byte(i + 1)
		if 'A' <= s && s <= 'Z' {
			c.encode[s+'a'-'A'] = byte(i + 1)
		}
		c.decode[i+1] = s
	}
	return c
}

// Encode returns the 4-bit value for the given symbol.
func (c *Code) Encode(symbol byte) byte {
	return c.encode[symbol]
}

// Decode returns the symbol for the given 4-bit value.
func (c *Code) Decode(value byte) byte {
	return c.decode[value&0xF]
}

// Len returns the number of 4-bit values stored in these nibbles.
func (n Nibbles) Len() int {
	return n.info >> 1
}

func (n Nibbles) offset() int {
	return n.info & 1
}

// Make creates nibbles of the given length.
func Make(n int) Nibbles {
	return Nibbles{
		info:  n << 1,
		bytes: make([]byte, (n+1)>>1),
	}
}

// Get returns the nibble at the given index.
func (n Nibbles) Get(index int) byte {
	if index >= n.Len() {
		log.Panic("index out of range")
	}
	index += n.offset()
	i := index >> 1
	bit := index & 1
	return 0xF & (n.bytes[i] >> uint((1^bit)<<2))
}

// Set sets the nibble at the given index.
//
// Nibbles at indexes 2i and 2i+1 share a byte, so concurrent calls to
// Set must write to disjoint byte-aligned ranges.
func (n Nibbles) Set(index int, value byte) {
	if index >= n.Len() {
		log.Panic("index out of range")
	}
	index += n.offset()
	i := index >> 1
	bit := index & 1
	n.bytes[i] = ((0xF << uint(bit<<2)) & n.bytes[i]) | ((0xF & value) << uint((1^bit)<<2))
}

// Slice returns a subsequence of the given nibbles.
func (n Nibbles) Slice(low, high int) Nibbles {
	offset := n.offset()
	return Nibbles{
		info:  ((high - low) << 1) | (offset ^ (low & 1)),
		bytes: n.bytes[(low+offset)>>1 : (high+offset+1)>>1],
	}
}

// Pack stores the encoded symbols at the given index.
func (n Nibbles) Pack(index int, symbols []byte, code *Code) {
	for i, s := range symbols {
		n.Set(index+i, code.encode[s])
	}
}

// Unpack appends the decoded symbols to dst.
func (n Nibbles) Unpack(dst []byte, code *Code) []byte {
	length := n.Len()
	for k := 0; k < length; k++ {
		dst = append(dst, code.decode[n.Get(k)])
	}
	return dst
}

// String returns a string representation of the given nibbles.
func (n Nibbles) String() string {
	if len := n.Len(); len > 0 {
		b := []byte("[")
		b = strconv.AppendInt(b, int64(n.Get(0)), 10)
		for i := 1; i < len; i++ {
			b = append(b, ' ')
			b = strconv.AppendInt(b, int64(n.Get(i)), 10)
		}
		return string(append(b, ']'))
	}
	return "[]"
}
