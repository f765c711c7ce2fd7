package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func linearGraph() *Memory {
	b := NewMemoryBuilder()
	b.AddNode(1, "AAAAAAAAAA")
	b.AddNode(2, "CCCCCCCCCC")
	b.AddNode(3, "GGGGGGGGGG")
	b.AddEdge(NewHandle(1, false), NewHandle(2, false))
	b.AddEdge(NewHandle(2, false), NewHandle(3, false))
	b.AddPath("p", []Handle{NewHandle(1, false), NewHandle(2, false), NewHandle(3, false)})
	return b.Build()
}

func TestMemoryBasics(t *testing.T) {
	g := linearGraph()
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, uint64(10), g.Length(NewHandle(1, false)))
	assert.Equal(t, "AAAAAAAAAA", g.Sequence(NewHandle(1, false)))
	assert.Equal(t, "TTTTTTTTTT", g.Sequence(NewHandle(1, true)))
}

func TestMemoryDegreeAndFollowEdges(t *testing.T) {
	g := linearGraph()
	assert.Equal(t, 1, g.Degree(NewHandle(1, false), Forward))
	assert.Equal(t, 0, g.Degree(NewHandle(1, false), Backward))
	assert.Equal(t, 1, g.Degree(NewHandle(2, false), Forward))
	assert.Equal(t, 1, g.Degree(NewHandle(2, false), Backward))

	var next []Handle
	g.FollowEdges(NewHandle(2, false), Forward, func(h Handle) bool {
		next = append(next, h)
		return true
	})
	assert.Equal(t, []Handle{NewHandle(3, false)}, next)
}

func TestMemoryPathWalk(t *testing.T) {
	g := linearGraph()
	p, ok := g.PathByName("p")
	assert.True(t, ok)

	var ids []NodeID
	g.ForEachStepInPath(p, func(s StepHandle) bool {
		ids = append(ids, g.HandleOfStep(s).ID())
		return true
	})
	assert.Equal(t, []NodeID{1, 2, 3}, ids)

	assert.Equal(t, StepHandle{Path: p, Ordinal: 0}, g.PathBegin(p))
	assert.Equal(t, StepHandle{Path: p, Ordinal: 2}, g.PathBack(p))
	assert.Equal(t, StepHandle{Path: p, Ordinal: 3}, g.PathEnd(p))
	assert.False(t, g.HasPreviousStep(g.PathBegin(p)))
	assert.True(t, g.HasPreviousStep(g.PathEnd(p)))
}

func TestMemoryForEachStepOnHandle(t *testing.T) {
	g := linearGraph()
	var paths []PathHandle
	g.ForEachStepOnHandle(NewHandle(2, false), func(s StepHandle) bool {
		paths = append(paths, s.Path)
		return true
	})
	assert.Len(t, paths, 1)
}

func TestHandleFlip(t *testing.T) {
	h := NewHandle(5, false)
	assert.False(t, h.IsReverse())
	f := h.Flip()
	assert.True(t, f.IsReverse())
	assert.Equal(t, h.ID(), f.ID())
	assert.Equal(t, h, f.Flip())
}
