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

import (
	"bufio"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// HandleGzip checks if the given reader produces a gzip file by
// looking at the magic bytes. It then either returns a gzip reader,
// or returns the given reader unchanged. BGZF files are multi-member
// gzip files and are handled as well.
func HandleGzip(buf *bufio.Reader) (io.Reader, error) {
	magic, err := buf.Peek(2)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "checking for gzip header")
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		r, err := gzip.NewReader(buf)
		if err != nil {
			return nil, errors.Wrap(err, "opening gzip stream")
		}
		return r, nil
	}
	return buf, nil
}
