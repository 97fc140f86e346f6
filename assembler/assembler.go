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


// Package assembler runs the complete de-novo assembly pipeline, from
// reads to contigs and optionally scaffolds.
package assembler

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/exascience/padena/contig"
	"github.com/exascience/padena/graph"
	"github.com/exascience/padena/internal"
	"github.com/exascience/padena/purger"
	"github.com/exascience/padena/scaffold"
	"github.com/exascience/padena/sequence"
	"github.com/exascience/padena/utils"
)

// EstimateKmerLength chooses a k-mer length that is at most the
// length of the shortest read and, where possible, more than half the
// length of the longest read.
func EstimateKmerLength(reads []*sequence.Read) int {
	min, max := sequence.LengthRange(reads)
	half := float64(max) / 2
	if half < float64(min) {
		return int(math.Ceil((half + float64(min)) / 2))
	}
	return min
}

// EstimateThreshold returns the square root of the median count of
// the nodes that occur more than twice, or 2 if there are no such
// nodes.
func EstimateThreshold(g *graph.Graph) float64 {
	var counts []float64
	for _, id := range g.LiveNodes() {
		if c := g.Node(id).Count(); c > 2 {
			counts = append(counts, float64(c))
		}
	}
	if len(counts) == 0 {
		return 2
	}
	sort.Float64s(counts)
	mid := len(counts) / 2
	median := counts[mid]
	if len(counts)%2 == 0 {
		median = stat.Mean(counts[mid-1:mid+1], nil)
	}
	return math.Sqrt(median)
}

// removeAmbiguousReads returns the upper-case versions of the reads
// without ambiguity codes or gaps.
func removeAmbiguousReads(reads []*sequence.Read) []*sequence.Read {
	result := make([]*sequence.Read, 0, len(reads))
	for _, r := range reads {
		if u := r.ToUpper(); !u.IsAmbiguous() {
			result = append(result, u)
		}
	}
	return result
}

// checkReadLengths fails on the first read that cannot hold a single
// k-mer.
func checkReadLengths(reads []*sequence.Read, k int) error {
	for i, r := range reads {
		if r.Len() < k {
			return errors.Wrapf(utils.ErrInvalidArgument, "read %v (%v) has length %v, shorter than k-mer length %v", i, r.ID, r.Len(), k)
		}
	}
	return nil
}

type run struct {
	id    uuid.UUID
	timed bool
	g     *graph.Graph
}

func (r *run) stage(msg string, f func() error) error {
	log.Printf("Run %v: %v", r.id, msg)
	if r.timed {
		start := time.Now()
		defer func() {
			log.Println("Elapsed time: ", time.Since(start))
		}()
	}
	if err := f(); err != nil {
		return errors.Wrap(err, msg)
	}
	if internal.PedanticMode && r.g != nil {
		if err := r.g.Validate(); err != nil {
			log.Printf("Run %v: graph inconsistent after stage %q: %v", r.id, msg, err)
			return err
		}
	}
	return nil
}

// purgeDangling removes the dangling links of at most threshold nodes,
// once or until no more links are found.
func (r *run) purgeDangling(threshold int, repeat bool) error {
	p := purger.NewDanglingLinksPurger(threshold)
	for r.g.NodeCount() >= threshold {
		n, err := purger.Purge(p, r.g)
		if err != nil || n == 0 {
			return err
		}
		log.Printf("Run %v: removed %v dangling links up to length %v", r.id, n, threshold)
		if !repeat {
			return nil
		}
	}
	return nil
}

// undangle optionally erodes the graph ends, removes dangling links of
// increasing lengths, and then repeats at the full threshold until the
// graph no longer changes.
func (r *run) undangle(threshold int, erosionThreshold int) error {
	if threshold <= 0 {
		return nil
	}
	if erosionThreshold > 0 {
		n, err := purger.ErodeGraphEnds(r.g, erosionThreshold)
		if err != nil {
			return err
		}
		log.Printf("Run %v: eroded %v nodes", r.id, n)
	}
	for length := 1; length < threshold; length++ {
		if err := r.purgeDangling(length, false); err != nil {
			return err
		}
	}
	return r.purgeDangling(threshold, true)
}

func (r *run) removeRedundancy(threshold int) error {
	p := purger.NewRedundantPathsPurger(threshold)
	for {
		n, err := purger.Purge(p, r.g)
		if err != nil || n == 0 {
			return err
		}
		log.Printf("Run %v: removed %v redundant paths", r.id, n)
	}
}

func sortSequences(seqs [][]byte) {
	sort.Slice(seqs, func(i, j int) bool {
		if li, lj := len(seqs[i]), len(seqs[j]); li != lj {
			return li > lj
		}
		return bytes.Compare(seqs[i], seqs[j]) < 0
	})
}

func toReads(prefix string, seqs [][]byte, a sequence.Alphabet) []*sequence.Read {
	reads := make([]*sequence.Read, len(seqs))
	for i, s := range seqs {
		reads[i] = sequence.NewRead(fmt.Sprintf("%v_%v", prefix, i), s, a)
	}
	return reads
}

// Assemble builds a De Bruijn graph of the reads, removes dangling
// links and redundant paths, and returns the contigs of the corrected
// graph. When requested, the contigs are joined into scaffolds using
// the mate pairs among the reads.
func Assemble(reads []*sequence.Read, opts Options) (*Assembly, error) {
	if len(reads) == 0 {
		return nil, errors.Wrap(utils.ErrInvalidArgument, "no reads to assemble")
	}
	if reads[0] == nil {
		return nil, errors.Wrap(utils.ErrInvalidArgument, "read 0 is nil")
	}
	a := reads[0].Alphabet
	if err := sequence.CheckAlphabet(reads, a); err != nil {
		return nil, err
	}
	if opts.KmerLength < 0 {
		return nil, errors.Wrapf(utils.ErrInvalidArgument, "invalid k-mer length %v", opts.KmerLength)
	}

	asm := &Assembly{
		RunID:                        uuid.New(),
		KmerLength:                   opts.KmerLength,
		DanglingLinksThreshold:       opts.DanglingLinksThreshold,
		RedundantPathLengthThreshold: opts.RedundantPathLengthThreshold,
		ErosionThreshold:             opts.ErosionThreshold,
		ContigCoverageThreshold:      opts.ContigCoverageThreshold,
	}
	r := &run{id: asm.RunID, timed: opts.Timed}
	log.Printf("Run %v: assembling %v reads", r.id, len(reads))

	if asm.KmerLength == 0 {
		asm.KmerLength = EstimateKmerLength(reads)
		log.Printf("Run %v: estimated k-mer length %v", r.id, asm.KmerLength)
	}
	k := asm.KmerLength
	if k <= 0 {
		return nil, errors.Wrapf(utils.ErrInvalidArgument, "invalid k-mer length %v", k)
	}
	if err := checkReadLengths(reads, k); err != nil {
		return nil, err
	}
	if asm.DanglingLinksThreshold == 0 {
		asm.DanglingLinksThreshold = k + 1
	}
	if asm.RedundantPathLengthThreshold == 0 {
		asm.RedundantPathLengthThreshold = 3 * (k + 1)
	}

	filtered := removeAmbiguousReads(reads)
	if len(filtered) == 0 {
		return nil, errors.Wrap(utils.ErrInvalidArgument, "all reads contain ambiguous symbols")
	}
	if n := len(reads) - len(filtered); n > 0 {
		log.Printf("Run %v: discarded %v reads with ambiguous symbols", r.id, n)
	}

	if err := r.stage("Building De Bruijn graph", func() (err error) {
		r.g, err = graph.BuildFromReads(filtered, k)
		if err == nil {
			log.Printf("Run %v: %v nodes for k = %v", r.id, r.g.NodeCount(), k)
		}
		return err
	}); err != nil {
		return nil, err
	}

	if (opts.Erosion && asm.ErosionThreshold == 0) ||
		(opts.LowCoverageContigRemoval && asm.ContigCoverageThreshold == 0) {
		threshold := EstimateThreshold(r.g)
		if opts.Erosion && asm.ErosionThreshold == 0 {
			asm.ErosionThreshold = int(math.Round(threshold))
		}
		if opts.LowCoverageContigRemoval && asm.ContigCoverageThreshold == 0 {
			asm.ContigCoverageThreshold = threshold
		}
	}
	erosion := 0
	if opts.Erosion {
		erosion = asm.ErosionThreshold
	}

	if err := r.stage("Removing dangling links", func() error {
		return r.undangle(asm.DanglingLinksThreshold, erosion)
	}); err != nil {
		return nil, err
	}
	if err := r.stage("Removing redundant paths", func() error {
		return r.removeRedundancy(asm.RedundantPathLengthThreshold)
	}); err != nil {
		return nil, err
	}
	if err := r.stage("Removing dangling links after redundant path removal", func() error {
		return r.undangle(asm.DanglingLinksThreshold, 0)
	}); err != nil {
		return nil, err
	}

	if opts.LowCoverageContigRemoval && asm.ContigCoverageThreshold > 0 {
		if err := r.stage("Removing low coverage contigs", func() error {
			n, err := contig.RemoveLowCoverageContigs(r.g, asm.ContigCoverageThreshold)
			if err == nil {
				log.Printf("Run %v: removed %v contigs with coverage below %v", r.id, n, asm.ContigCoverageThreshold)
			}
			return err
		}); err != nil {
			return nil, err
		}
	}

	if opts.Dot != nil {
		if err := r.stage("Writing graph", func() error {
			return r.g.WriteDot(opts.Dot)
		}); err != nil {
			return nil, err
		}
	}

	var contigs [][]byte
	if err := r.stage("Building contigs", func() error {
		for _, c := range contig.NewSimplePathContigBuilder().Build(r.g) {
			contigs = append(contigs, c.Sequence)
		}
		sortSequences(contigs)
		log.Printf("Run %v: %v contigs", r.id, len(contigs))
		return nil
	}); err != nil {
		return nil, err
	}
	asm.Contigs = toReads("contig", contigs, a)

	if !opts.Scaffold {
		return asm, nil
	}
	r.g = nil
	if err := r.stage("Building scaffolds", func() error {
		builder := scaffold.NewGraphScaffoldBuilder(opts.Libraries, opts.DefaultLibrary)
		if opts.ScaffoldDepth > 0 {
			builder.Depth = opts.ScaffoldDepth
		}
		if opts.ScaffoldRedundancy > 0 {
			builder.Redundancy = opts.ScaffoldRedundancy
		}
		scaffolds, err := builder.Build(filtered, contigs, k)
		if err != nil {
			return err
		}
		seqs := make([][]byte, len(scaffolds))
		for i, s := range scaffolds {
			seqs[i] = s.Sequence
		}
		sortSequences(seqs)
		asm.Scaffolds = toReads("scaffold", seqs, a)
		log.Printf("Run %v: %v scaffolds", r.id, len(seqs))
		return nil
	}); err != nil {
		return nil, err
	}
	return asm, nil
}
