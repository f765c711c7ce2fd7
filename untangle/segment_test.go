package untangle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grailbio/pangraph/graph"
	"github.com/grailbio/pangraph/stepindex"
)

func threeNodeLinear(name string, inv2, inv3 bool) (*graph.MemoryBuilder, graph.PathHandle) {
	b := graph.NewMemoryBuilder()
	for _, id := range []graph.NodeID{1, 2, 3} {
		b.AddNode(id, "AAAAAAAAAA")
	}
	b.AddEdge(graph.NewHandle(1, false), graph.NewHandle(2, inv2))
	b.AddEdge(graph.NewHandle(2, inv2), graph.NewHandle(3, inv3))
	p := b.AddPath(name, []graph.Handle{
		graph.NewHandle(1, false), graph.NewHandle(2, inv2), graph.NewHandle(3, inv3),
	})
	return b, p
}

func TestBuildSegmentMapSinglePathOneSegment(t *testing.T) {
	b, target := threeNodeLinear("target", false, false)
	g := b.Build()
	stepIdx := stepindex.Build(g, []graph.PathHandle{target}, nil)

	// cut_nodes marking only the path's own begin node (n1), mirroring
	// what the driver's bootstrap pass derives for a loop-free path.
	isCut := func(h graph.Handle) bool { return h.ID() == 1 }

	sm := BuildSegmentMap(g, []graph.PathHandle{target}, stepIdx, isCut, 0, nil)
	assert.Equal(t, 1, sm.NumSegments())
	assert.Equal(t, uint64(30), sm.GetSegmentLength(0))
	assert.Equal(t, g.PathBegin(target), sm.GetSegmentCut(0))

	var segs []uint64
	var revs []bool
	sm.ForSegmentOnNode(2, func(segmentID uint64, isRev bool) {
		segs = append(segs, segmentID)
		revs = append(revs, isRev)
	})
	assert.Equal(t, []uint64{0}, segs)
	assert.Equal(t, []bool{false}, revs)
}

func TestBuildSegmentMapUnknownNodeYieldsNoSegments(t *testing.T) {
	b, target := threeNodeLinear("target", false, false)
	g := b.Build()
	stepIdx := stepindex.Build(g, []graph.PathHandle{target}, nil)
	sm := BuildSegmentMap(g, []graph.PathHandle{target}, stepIdx, AlwaysFalse, 0, nil)

	called := false
	sm.ForSegmentOnNode(999, func(uint64, bool) { called = true })
	assert.False(t, called)
}

func TestBuildSegmentMapRecordsOrientation(t *testing.T) {
	b, target := threeNodeLinear("target", true, false)
	g := b.Build()
	stepIdx := stepindex.Build(g, []graph.PathHandle{target}, nil)
	sm := BuildSegmentMap(g, []graph.PathHandle{target}, stepIdx, AlwaysFalse, 0, nil)

	var revs []bool
	sm.ForSegmentOnNode(2, func(_ uint64, isRev bool) { revs = append(revs, isRev) })
	assert.Equal(t, []bool{true}, revs)
}
