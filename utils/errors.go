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

package utils

import "github.com/pkg/errors"

// The error taxonomy of the assembler. Errors returned by the
// packages of this module wrap one of these sentinels, so callers can
// classify a failure with errors.Cause.
var (
	// ErrInvalidArgument reports invalid k-mer lengths, empty read
	// collections, unregistered clone libraries, and similar input
	// problems.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAlphabetMismatch reports reads over an alphabet that differs
	// from the graph's alphabet, or an alphabet without complement.
	ErrAlphabetMismatch = errors.New("alphabet mismatch")

	// ErrGraphConsistency reports an internal invariant violation in
	// the De Bruijn graph, such as an extension to a removed node.
	ErrGraphConsistency = errors.New("graph consistency violation")
)

// IsInvalidArgument reports whether err was caused by ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	return errors.Cause(err) == ErrInvalidArgument
}

// IsAlphabetMismatch reports whether err was caused by ErrAlphabetMismatch.
func IsAlphabetMismatch(err error) bool {
	return errors.Cause(err) == ErrAlphabetMismatch
}

// IsGraphConsistency reports whether err was caused by ErrGraphConsistency.
func IsGraphConsistency(err error) bool {
	return errors.Cause(err) == ErrGraphConsistency
}
