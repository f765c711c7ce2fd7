package untangle

import (
	"sort"

	"github.com/grailbio/pangraph/graph"
)

// Mapping is one query-segment-to-target-segment match (spec.md §4.6).
type Mapping struct {
	SegmentID uint64
	IsInv     bool
	Jaccard   float64
}

type isec struct {
	length uint64
	inv    uint64
}

func (i *isec) incr(l uint64, isInv bool) {
	i.length += l
	if isInv {
		i.inv += l
	}
}

// Match scans the query interval [begin, end), length queryLength base
// pairs, accumulating per-target-segment intersection and inverted-
// orientation length, and returns Jaccard-ranked mappings. Self-matches
// are not filtered: a query that is also a target will match itself
// with jaccard 1.0 (spec.md §8, round-trip property).
func Match(g graph.Graph, sm *SegmentMap, begin, end graph.StepHandle, queryLength uint64) []Mapping {
	targetIsec := make(map[uint64]*isec)
	for step := begin; step != end; step = g.NextStep(step) {
		h := g.HandleOfStep(step)
		nodeLength := g.Length(h)
		queryRev := h.IsReverse()
		sm.ForSegmentOnNode(h.ID(), func(segmentID uint64, segmentRev bool) {
			e, ok := targetIsec[segmentID]
			if !ok {
				e = &isec{}
				targetIsec[segmentID] = e
			}
			e.incr(nodeLength, segmentRev != queryRev)
		})
	}

	mappings := make([]Mapping, 0, len(targetIsec))
	for segmentID, e := range targetIsec {
		isInv := float64(e.inv)/float64(e.length) > 0.5
		jaccard := float64(e.length) / float64(sm.GetSegmentLength(segmentID)+queryLength-e.length)
		mappings = append(mappings, Mapping{SegmentID: segmentID, IsInv: isInv, Jaccard: jaccard})
	}

	sort.Slice(mappings, func(i, j int) bool {
		a, b := mappings[i], mappings[j]
		if a.Jaccard != b.Jaccard {
			return a.Jaccard > b.Jaccard
		}
		if a.SegmentID != b.SegmentID {
			return a.SegmentID > b.SegmentID
		}
		return boolToInt(a.IsInv) > boolToInt(b.IsInv)
	})
	return mappings
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SelfMeanCoverage computes the per-interval self-coverage statistic
// (spec.md §4.7): the mean, weighted by handle length, of the number of
// steps on path itself visiting each handle in [begin, end).
func SelfMeanCoverage(g graph.Graph, path graph.PathHandle, begin, end graph.StepHandle) float64 {
	var sum, bp uint64
	for step := begin; step != end; step = g.NextStep(step) {
		h := g.HandleOfStep(step)
		length := g.Length(h)
		bp += length
		g.ForEachStepOnHandle(h, func(s graph.StepHandle) bool {
			if g.PathHandleOfStep(s) == path {
				sum += length
			}
			return true
		})
	}
	return float64(sum) / float64(bp)
}
