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


// Package fasta reads and writes reads and assembled sequences in
// FASTA format.
package fasta

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/exascience/pargo/pipeline"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/exascience/padena/sequence"
	"github.com/exascience/padena/utils"
)

const (
	minBatchSize = 64
	maxBatchSize = 4096

	// LineWidth is the number of bases per line in written FASTA files.
	LineWidth = 60
)

// recordSource feeds FASTA records into a pipeline.
type recordSource struct {
	scanner *seqio.Scanner
	data    []*linear.Seq
}

// Err implements the method of the pipeline.Source interface.
func (src *recordSource) Err() error {
	return src.scanner.Error()
}

// Prepare implements the method of the pipeline.Source interface.
func (*recordSource) Prepare(_ context.Context) (size int) {
	return -1
}

// Fetch implements the method of the pipeline.Source interface.
func (src *recordSource) Fetch(size int) (fetched int) {
	var records []*linear.Seq
	for fetched = 0; fetched < size && src.scanner.Next(); fetched++ {
		records = append(records, src.scanner.Seq().(*linear.Seq))
	}
	src.data = records
	return fetched
}

// Data implements the method of the pipeline.Source interface.
func (src *recordSource) Data() interface{} {
	return src.data
}

func toReads(a sequence.Alphabet) pipeline.Filter {
	return pipeline.Receive(func(_ int, data interface{}) interface{} {
		records := data.([]*linear.Seq)
		reads := make([]*sequence.Read, len(records))
		for i, record := range records {
			bases := make([]byte, len(record.Seq))
			for j, l := range record.Seq {
				bases[j] = byte(l)
			}
			id := record.ID
			if record.Desc != "" {
				id += " " + record.Desc
			}
			reads[i] = sequence.NewRead(id, bases, a)
		}
		return reads
	})
}

// Parse reads all FASTA records from r as reads over alphabet a.
// The input may be gzip or BGZF compressed.
func Parse(r io.Reader, a sequence.Alphabet) ([]*sequence.Read, error) {
	in, err := utils.HandleGzip(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	src := &recordSource{
		scanner: seqio.NewScanner(fasta.NewReader(in, linear.NewSeq("", nil, a.Biogo()))),
	}
	var reads []*sequence.Read
	var p pipeline.Pipeline
	p.Source(src)
	p.SetVariableBatchSize(minBatchSize, maxBatchSize)
	p.Add(
		pipeline.LimitedPar(0, toReads(a)),
		pipeline.StrictOrd(pipeline.Slice(&reads)),
	)
	p.Run()
	if err := p.Err(); err != nil {
		return nil, errors.Wrap(err, "parsing FASTA input")
	}
	return reads, nil
}

// ReadReads reads all records of a FASTA file as reads over alphabet a.
func ReadReads(filename string, a sequence.Alphabet) ([]*sequence.Read, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening FASTA file %v", filename)
	}
	defer f.Close()
	reads, err := Parse(f, a)
	if err != nil {
		return nil, errors.Wrapf(err, "in FASTA file %v", filename)
	}
	return reads, nil
}

// Format writes the reads to w in FASTA format.
func Format(w io.Writer, reads []*sequence.Read) error {
	fw := fasta.NewWriter(w, LineWidth)
	for _, r := range reads {
		s := linear.NewSeq(r.ID, alphabet.BytesToLetters(r.Bases), r.Alphabet.Biogo())
		if _, err := fw.Write(s); err != nil {
			return errors.Wrapf(err, "writing sequence %v", r.ID)
		}
	}
	return nil
}

// WriteSequences writes the reads to a FASTA file. The output is gzip
// compressed when the filename ends in .gz.
func WriteSequences(filename string, reads []*sequence.Read) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "creating FASTA file %v", filename)
	}
	defer func() {
		if nerr := f.Close(); err == nil && nerr != nil {
			err = errors.Wrapf(nerr, "closing FASTA file %v", filename)
		}
	}()
	buf := bufio.NewWriter(f)
	var out io.Writer = buf
	var zw *gzip.Writer
	if strings.HasSuffix(filename, ".gz") {
		zw = gzip.NewWriter(buf)
		out = zw
	}
	if err = Format(out, reads); err != nil {
		return errors.Wrapf(err, "in FASTA file %v", filename)
	}
	if zw != nil {
		if err = zw.Close(); err != nil {
			return errors.Wrapf(err, "compressing FASTA file %v", filename)
		}
	}
	return buf.Flush()
}
