// Package pathindex implements the per-path self-index (spec.md §4.2):
// for one path, the steps grouped by node id in path order, supporting
// dense step indexing and next/previous-on-node navigation. This is the
// forward-navigation structure the cut detector (untangle.Cuts) consults
// to find self-loops.
package pathindex

import (
	"sort"

	"github.com/grailbio/pangraph/graph"
)

// Index is the self-index for a single path.
type Index struct {
	path graph.PathHandle
	// ordinalOf maps a step's path-local ordinal to its dense index in
	// [0, StepCount). For Memory-backed graphs ordinal already is
	// dense, but the index is built generically against any
	// graph.Graph implementation.
	ordinalOf map[uint64]int
	// stepsOnNode[nodeID] holds, in path order, the dense indices of
	// every step visiting that node.
	stepsOnNode map[graph.NodeID][]int
	// steps holds every step in path order, keyed by dense index.
	steps []graph.StepHandle
}

// Build constructs the self-index for path by walking it once.
func Build(g graph.Graph, path graph.PathHandle) *Index {
	idx := &Index{
		path:        path,
		ordinalOf:   make(map[uint64]int),
		stepsOnNode: make(map[graph.NodeID][]int),
	}
	g.ForEachStepInPath(path, func(s graph.StepHandle) bool {
		dense := len(idx.steps)
		idx.steps = append(idx.steps, s)
		idx.ordinalOf[s.Ordinal] = dense
		id := g.HandleOfStep(s).ID()
		idx.stepsOnNode[id] = append(idx.stepsOnNode[id], dense)
		return true
	})
	return idx
}

// StepCount returns the total number of steps on the path.
func (idx *Index) StepCount() int { return len(idx.steps) }

// GetStepIdx returns the dense index of step s, in [0, StepCount()).
func (idx *Index) GetStepIdx(s graph.StepHandle) int {
	i, ok := idx.ordinalOf[s.Ordinal]
	if !ok {
		panic("pathindex: step not part of this path's index")
	}
	return i
}

// GetNextStepOnNode returns the next step on this path visiting node id
// strictly after step, if one exists.
func (idx *Index) GetNextStepOnNode(id graph.NodeID, step graph.StepHandle) (graph.StepHandle, bool) {
	dense := idx.GetStepIdx(step)
	list := idx.stepsOnNode[id]
	// list is sorted ascending by construction (path order == ascending
	// dense index).
	i := sort.Search(len(list), func(i int) bool { return list[i] > dense })
	if i == len(list) {
		return graph.StepHandle{}, false
	}
	return idx.steps[list[i]], true
}

// GetPrevStepOnNode returns the previous step on this path visiting node
// id strictly before step, if one exists.
func (idx *Index) GetPrevStepOnNode(id graph.NodeID, step graph.StepHandle) (graph.StepHandle, bool) {
	dense := idx.GetStepIdx(step)
	list := idx.stepsOnNode[id]
	i := sort.Search(len(list), func(i int) bool { return list[i] >= dense })
	if i == 0 {
		return graph.StepHandle{}, false
	}
	return idx.steps[list[i-1]], true
}
