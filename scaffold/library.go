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

// Package scaffold orders and orients contigs using mate pair
// information.
package scaffold

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/exascience/padena/utils"
)

// LibraryInfo describes the insert length distribution of a clone
// library.
type LibraryInfo struct {
	Name              string
	Mean              float64
	StandardDeviation float64
}

// CloneLibrary is a registry of clone libraries, keyed by name. It is
// safe for concurrent use.
type CloneLibrary struct {
	mutex     sync.RWMutex
	libraries map[utils.Symbol]LibraryInfo
}

// NewCloneLibrary returns an empty registry.
func NewCloneLibrary() *CloneLibrary {
	return &CloneLibrary{libraries: make(map[utils.Symbol]LibraryInfo)}
}

// DefaultCloneLibrary returns a registry with the 2K, 10K and 50K
// libraries.
func DefaultCloneLibrary() *CloneLibrary {
	c := NewCloneLibrary()
	for _, info := range []LibraryInfo{
		{"2K", 2000, 100},
		{"10K", 10000, 1000},
		{"50K", 65000, 13334},
	} {
		if err := c.Add(info.Name, info.Mean, info.StandardDeviation); err != nil {
			panic(err)
		}
	}
	return c
}

// Add registers a library, replacing any library with the same name.
func (c *CloneLibrary) Add(name string, mean, standardDeviation float64) error {
	if name == "" {
		return errors.Wrap(utils.ErrInvalidArgument, "empty clone library name")
	}
	if mean < 0 || standardDeviation < 0 {
		return errors.Wrapf(utils.ErrInvalidArgument, "clone library %v has negative mean %v or standard deviation %v", name, mean, standardDeviation)
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.libraries[utils.Intern(name)] = LibraryInfo{Name: name, Mean: mean, StandardDeviation: standardDeviation}
	return nil
}

// Get returns the library with the given name.
func (c *CloneLibrary) Get(name string) (LibraryInfo, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	if info, ok := c.libraries[utils.Intern(name)]; ok {
		return info, nil
	}
	return LibraryInfo{}, errors.Wrapf(utils.ErrInvalidArgument, "unregistered clone library %v", name)
}

// Snapshot returns all registered libraries sorted by name.
func (c *CloneLibrary) Snapshot() []LibraryInfo {
	c.mutex.RLock()
	result := make([]LibraryInfo, 0, len(c.libraries))
	for _, info := range c.libraries {
		result = append(result, info)
	}
	c.mutex.RUnlock()
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// ParseLibrary parses a library description of the form name:mean:sd.
func ParseLibrary(description string) (LibraryInfo, error) {
	fields := strings.Split(description, ":")
	if len(fields) != 3 {
		return LibraryInfo{}, errors.Wrapf(utils.ErrInvalidArgument, "invalid clone library %q, expected name:mean:sd", description)
	}
	mean, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return LibraryInfo{}, errors.Wrapf(utils.ErrInvalidArgument, "invalid mean in clone library %q", description)
	}
	sd, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return LibraryInfo{}, errors.Wrapf(utils.ErrInvalidArgument, "invalid standard deviation in clone library %q", description)
	}
	return LibraryInfo{Name: fields[0], Mean: mean, StandardDeviation: sd}, nil
}
