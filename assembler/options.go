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


package assembler

import (
	"io"

	"github.com/google/uuid"

	"github.com/exascience/padena/scaffold"
	"github.com/exascience/padena/sequence"
)

// Options configure an assembly run. Zero values select defaults or
// estimates derived from the reads.
type Options struct {
	// KmerLength is estimated from the read lengths when 0.
	KmerLength int

	// DanglingLinksThreshold defaults to KmerLength+1.
	DanglingLinksThreshold int

	// RedundantPathLengthThreshold defaults to 3*(KmerLength+1).
	RedundantPathLengthThreshold int

	Erosion          bool
	ErosionThreshold int

	LowCoverageContigRemoval bool
	ContigCoverageThreshold  float64

	Scaffold           bool
	ScaffoldRedundancy int
	ScaffoldDepth      int
	Libraries          *scaffold.CloneLibrary
	DefaultLibrary     string

	// Dot receives the corrected graph in DOT format when it is set.
	Dot io.Writer

	// Timed adds the elapsed time of each stage to the log.
	Timed bool
}

// An Assembly is the result of an assembly run, together with the
// parameters that were actually used.
type Assembly struct {
	RunID uuid.UUID

	KmerLength                   int
	DanglingLinksThreshold       int
	RedundantPathLengthThreshold int
	ErosionThreshold             int
	ContigCoverageThreshold      float64

	Contigs   []*sequence.Read
	Scaffolds []*sequence.Read
}
