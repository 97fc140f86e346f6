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
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/exascience/padena/sequence"
	"github.com/exascience/padena/utils"
)

// A MatePair is a pair of reads sequenced from both ends of the same
// clone. The reads face each other.
type MatePair struct {
	Forward, Reverse *sequence.Read
	Library          LibraryInfo
}

// MatePairMapper pairs reads by their identifiers.
//
// Recognized identifiers are <prefix>.<tag>:<library>, with forward
// tags X1, F and 1 and reverse tags Y1, R and 2, and <prefix>/1 and
// <prefix>/2, which belong to DefaultLibrary.
type MatePairMapper struct {
	Libraries      *CloneLibrary
	DefaultLibrary string
}

// NewMatePairMapper returns a mapper that looks up libraries in lib,
// or in DefaultCloneLibrary if lib is nil.
func NewMatePairMapper(lib *CloneLibrary, defaultLibrary string) *MatePairMapper {
	return &MatePairMapper{Libraries: lib, DefaultLibrary: defaultLibrary}
}

type mateKey struct {
	prefix, library string
}

// parseMateID splits a read identifier into its pairing prefix, its
// direction and its library name.
func (m *MatePairMapper) parseMateID(id string) (key mateKey, forward bool, ok bool) {
	if colon := strings.LastIndexByte(id, ':'); colon >= 0 {
		library := id[colon+1:]
		rest := id[:colon]
		if dot := strings.LastIndexByte(rest, '.'); dot >= 0 && library != "" {
			switch strings.ToLower(rest[dot+1:]) {
			case "x1", "f", "1":
				return mateKey{rest[:dot], library}, true, true
			case "y1", "r", "2":
				return mateKey{rest[:dot], library}, false, true
			}
		}
	}
	if m.DefaultLibrary == "" {
		return mateKey{}, false, false
	}
	if name := strings.Fields(id); len(name) > 0 {
		id = name[0]
	}
	switch {
	case strings.HasSuffix(id, "/1"):
		return mateKey{id[:len(id)-2], m.DefaultLibrary}, true, true
	case strings.HasSuffix(id, "/2"):
		return mateKey{id[:len(id)-2], m.DefaultLibrary}, false, true
	}
	return mateKey{}, false, false
}

// Map pairs up reads. Reads that are not recognized or have no partner
// are skipped. The result is sorted by prefix and library.
func (m *MatePairMapper) Map(reads []*sequence.Read) ([]*MatePair, error) {
	type mates struct {
		forward, reverse *sequence.Read
	}
	table := make(map[mateKey]*mates)
	for _, read := range reads {
		if read == nil {
			continue
		}
		key, forward, ok := m.parseMateID(read.ID)
		if !ok {
			continue
		}
		entry := table[key]
		if entry == nil {
			entry = new(mates)
			table[key] = entry
		}
		if forward {
			if entry.forward == nil {
				entry.forward = read
			}
		} else if entry.reverse == nil {
			entry.reverse = read
		}
	}

	keys := make([]mateKey, 0, len(table))
	for key, entry := range table {
		if entry.forward != nil && entry.reverse != nil {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].prefix != keys[j].prefix {
			return keys[i].prefix < keys[j].prefix
		}
		return keys[i].library < keys[j].library
	})

	libraries := m.Libraries
	if libraries == nil {
		libraries = DefaultCloneLibrary()
	}
	pairs := make([]*MatePair, 0, len(keys))
	for _, key := range keys {
		info, err := libraries.Get(key.library)
		if err != nil {
			return nil, errors.Wrapf(utils.ErrInvalidArgument, "mate pair %v: unregistered clone library %v", key.prefix, key.library)
		}
		entry := table[key]
		pairs = append(pairs, &MatePair{Forward: entry.forward, Reverse: entry.reverse, Library: info})
	}
	return pairs, nil
}
