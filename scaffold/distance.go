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
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/exascience/padena/utils"
)

// DistanceCalculator estimates the gap between linked contigs from
// the insert lengths of their mate pairs.
type DistanceCalculator struct{}

// NewDistanceCalculator returns a distance calculator.
func NewDistanceCalculator() *DistanceCalculator {
	return &DistanceCalculator{}
}

// pairDistance is the gap between the end of the forward read's contig
// and the start of the reverse read's contig implied by one mate pair.
func pairDistance(vp *ValidMatePair, lengthA, lengthB int) float64 {
	fm, rm := vp.Forward, vp.Reverse
	var partA, partB int
	if fm.Forward {
		partA = lengthA - fm.ContigStart
	} else {
		partA = fm.ContigStart + fm.Length
	}
	if rm.Forward {
		partB = lengthB - rm.ContigStart
	} else {
		partB = rm.ContigStart + rm.Length
	}
	return vp.Pair.Library.Mean - float64(partA) - float64(partB)
}

type estimate struct {
	distance, deviation float64
}

// combine merges estimates by inverse variance weighting.
func combine(estimates []estimate) estimate {
	var sum, weights float64
	for _, e := range estimates {
		if e.deviation == 0 {
			var total float64
			for _, e := range estimates {
				total += e.distance
			}
			return estimate{distance: total / float64(len(estimates))}
		}
		w := 1 / (e.deviation * e.deviation)
		sum += e.distance * w
		weights += w
	}
	return estimate{distance: sum / weights, deviation: 1 / math.Sqrt(weights)}
}

// Calculate sets the distance and standard deviation of every mate
// pair and every link. Estimates of a link are clustered, each cluster
// holding the estimates within three standard deviations of its
// smallest estimate. The link distance is the mean of the cluster
// estimates weighted by cluster size.
func (c *DistanceCalculator) Calculate(cmp ContigMatePairs, contigLengths []int) error {
	for _, link := range cmp.Links() {
		evidence := cmp[link]
		if len(evidence.Pairs) == 0 {
			continue
		}
		estimates := make([]estimate, len(evidence.Pairs))
		for i, vp := range evidence.Pairs {
			a, b := vp.Forward.Contig, vp.Reverse.Contig
			if a < 0 || a >= len(contigLengths) || b < 0 || b >= len(contigLengths) {
				return errors.Wrapf(utils.ErrInvalidArgument, "mate pair refers to unknown contig %v or %v", a, b)
			}
			vp.Distance = pairDistance(vp, contigLengths[a], contigLengths[b])
			vp.StandardDeviation = vp.Pair.Library.StandardDeviation
			estimates[i] = estimate{vp.Distance, vp.StandardDeviation}
		}
		sort.SliceStable(estimates, func(i, j int) bool {
			return estimates[i].distance < estimates[j].distance
		})

		var distances, deviations, weights []float64
		for start := 0; start < len(estimates); {
			seed := estimates[start]
			end := start + 1
			for end < len(estimates) && estimates[end].distance-seed.distance <= 3*seed.deviation {
				end++
			}
			cluster := combine(estimates[start:end])
			distances = append(distances, cluster.distance)
			deviations = append(deviations, cluster.deviation)
			weights = append(weights, float64(end-start))
			start = end
		}
		evidence.Distance = stat.Mean(distances, weights)
		evidence.StandardDeviation = stat.Mean(deviations, weights)
		evidence.Weight = len(evidence.Pairs)
	}
	return nil
}
