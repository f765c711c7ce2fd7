// Package untangle implements the core untangle pipeline: the cut
// detector and merger (spec.md §4.3-4.4), the segment map (§4.5), the
// Jaccard-ranked matcher (§4.6), and the driver that orchestrates them
// (§4.7).
package untangle

import (
	"sort"

	"github.com/grailbio/pangraph/graph"
	"github.com/grailbio/pangraph/pathindex"
	"github.com/grailbio/pangraph/stepindex"
)

// IsCut decides whether a handle's position is a hard segmentation
// boundary, independent of the self-loop structure the cut detector
// finds on its own.
type IsCut func(h graph.Handle) bool

// AlwaysFalse is the bootstrap predicate (spec.md §4.3 "is_cut(handle)
// may always return false"): it produces cuts only at loop boundaries
// and interval endpoints.
func AlwaysFalse(graph.Handle) bool { return false }

type workItem struct {
	start, end graph.StepHandle
}

// Cuts returns the ordered, deduplicated list of cut steps segmenting
// the path interval [start, end), recursing into self-loops it
// discovers along the way. This is the odgi untangle_cuts algorithm
// (spec.md §4.3), preserved verbatim in control flow: the forward and
// reverse sweeps are not folded together even though they are nearly
// symmetric, because (per the original source) the position bookkeeping
// differs subtly between them.
func Cuts(g graph.Graph, start, end graph.StepHandle, stepIdx *stepindex.Index, self *pathindex.Index, isCut IsCut) []graph.StepHandle {
	seenFwd := make([]bool, self.StepCount())
	seenRev := make([]bool, self.StepCount())

	var cuts []graph.StepHandle
	queue := []workItem{{start, end}}
	path := g.PathHandleOfStep(start)
	pathBegin := g.PathBegin(path)
	pathEnd := g.PathEnd(path)

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		s, e := item.start, item.end
		startPos := stepIdx.Position(s)
		endPos := stepIdx.Position(e)

		cuts = append(cuts, s)

		// Forward sweep.
		for step := s; step != e; step = g.NextStep(step) {
			if seenFwd[self.GetStepIdx(step)] {
				continue
			}
			currPos := stepIdx.Position(step)
			handle := g.HandleOfStep(step)
			if isCut(handle) {
				cuts = append(cuts, step)
			}
			seenFwd[self.GetStepIdx(step)] = true

			foundLoop := false
			var other graph.StepHandle
			if o, ok := self.GetNextStepOnNode(handle.ID(), step); ok {
				otherPos := stepIdx.Position(o)
				if otherPos > startPos && otherPos < endPos && otherPos > currPos && !seenFwd[self.GetStepIdx(o)] {
					other = o
					foundLoop = true
				}
			}
			if foundLoop {
				queue = append(queue, workItem{step, other})
				step = other
			}
		}

		if e == pathBegin || !g.HasPreviousStep(e) {
			continue
		}

		// Reverse sweep. e may be the path_end sentinel, which has no
		// handle of its own (the driver passes it so cuts partition the
		// whole path, spec.md §4.5 segment-sum invariant); in that case
		// the walk starts one step earlier, at the real last step, and
		// e itself is only ever appended below as a position marker.
		revStart := e
		if e == pathEnd {
			revStart = g.PreviousStep(e)
		}
		for step := revStart; stepIdx.Position(step) > startPos; step = g.PreviousStep(step) {
			if seenRev[self.GetStepIdx(step)] {
				continue
			}
			currPos := stepIdx.Position(step)
			handle := g.HandleOfStep(step)
			if isCut(handle) {
				cuts = append(cuts, step)
			}
			seenRev[self.GetStepIdx(step)] = true

			foundLoop := false
			var other graph.StepHandle
			if o, ok := self.GetPrevStepOnNode(handle.ID(), step); ok {
				otherPos := stepIdx.Position(o)
				if otherPos > startPos && otherPos < endPos && otherPos < currPos && !seenRev[self.GetStepIdx(o)] {
					other = o
					foundLoop = true
				}
			}
			if foundLoop {
				queue = append(queue, workItem{other, step})
				step = other
			}
		}

		cuts = append(cuts, e)
	}

	sort.Slice(cuts, func(i, j int) bool {
		return stepIdx.Position(cuts[i]) < stepIdx.Position(cuts[j])
	})
	return dedupConsecutive(cuts, stepIdx)
}

func dedupConsecutive(cuts []graph.StepHandle, stepIdx *stepindex.Index) []graph.StepHandle {
	if len(cuts) == 0 {
		return cuts
	}
	out := cuts[:1]
	lastPos := stepIdx.Position(cuts[0])
	for _, c := range cuts[1:] {
		pos := stepIdx.Position(c)
		if pos == lastPos {
			continue
		}
		out = append(out, c)
		lastPos = pos
	}
	return out
}

// Merge collapses cuts closer than mergeDist, retaining the first cut at
// position 0 and thereafter only cuts whose position exceeds
// last_kept+mergeDist (spec.md §4.4). This enforces a minimum segment
// length and suppresses degenerate micro-segments from short self-loops.
func Merge(cuts []graph.StepHandle, mergeDist uint64, stepIdx *stepindex.Index) []graph.StepHandle {
	var merged []graph.StepHandle
	var last uint64
	for _, s := range cuts {
		pos := stepIdx.Position(s)
		if pos == 0 || pos > last+mergeDist {
			merged = append(merged, s)
			last = pos
		}
	}
	return merged
}
