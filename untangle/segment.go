package untangle

import (
	"sort"

	farm "github.com/dgryski/go-farm"

	"github.com/grailbio/pangraph/graph"
	"github.com/grailbio/pangraph/pathindex"
	"github.com/grailbio/pangraph/stepindex"
)

// segEntry is one (node, segment, orientation) triple recorded while
// walking a target path. Kept as a plain struct rather than the signed
// segment-id trick the C++ source uses (DESIGN NOTES: "id 0 with a sign
// bit is unrepresentable").
type segEntry struct {
	id  graph.NodeID
	seg uint64
	rev bool
}

// idRemap is a compact open-addressing node-id -> dense-index table,
// grounded on github.com/grailbio/bio/fusion's farm-hash-keyed
// kmerIndex: a hand-rolled table, sized to a power of two at least twice
// the number of target steps, avoids both Go map overhead and the C++ source's
// assumption that node ids are dense and 1-based (DESIGN NOTES: "If the
// graph's ids are sparse, introduce a dense renumbering at index-build
// time").
type idRemap struct {
	keys []uint64
	used []bool
	vals []int
	mask uint64
}

func newIDRemap(n int) *idRemap {
	size := 16
	for size < n*2 {
		size <<= 1
	}
	return &idRemap{
		keys: make([]uint64, size),
		used: make([]bool, size),
		vals: make([]int, size),
		mask: uint64(size - 1),
	}
}

func (m *idRemap) slot(id graph.NodeID) uint64 {
	return farm.Hash64WithSeed(nil, uint64(id)) & m.mask
}

// add records id -> v. Callers must not add the same id twice.
func (m *idRemap) add(id graph.NodeID, v int) {
	i := m.slot(id)
	for m.used[i] {
		i = (i + 1) & m.mask
	}
	m.used[i], m.keys[i], m.vals[i] = true, uint64(id), v
}

func (m *idRemap) get(id graph.NodeID) (int, bool) {
	i := m.slot(id)
	for m.used[i] {
		if m.keys[i] == uint64(id) {
			return m.vals[i], true
		}
		i = (i + 1) & m.mask
	}
	return 0, false
}

// SegmentMap is the node -> (segment_id, orientation) multimap built
// from merged target-path cuts (spec.md §4.5). It is built once and
// read-only thereafter.
type SegmentMap struct {
	segmentCut    []graph.StepHandle
	segmentLength []uint64

	entrySeg []uint64
	entryRev []bool
	nodeIdx  []uint64
	remap    *idRemap
}

// BuildSegmentMap constructs the segment map over targets, using isCut
// (typically the global cut-node bitmap) as the segmentation predicate
// and mergeDist to suppress micro-segments. each runs the per-target cut
// computation, normally bound to traverse.Each; pass nil to run serially.
func BuildSegmentMap(g graph.Graph, targets []graph.PathHandle, stepIdx *stepindex.Index, isCut IsCut, mergeDist uint64, each func(n int, fn func(i int) error) error) *SegmentMap {
	if each == nil {
		each = serialEach
	}
	allCuts := make([][]graph.StepHandle, len(targets))
	_ = each(len(targets), func(i int) error {
		path := targets[i]
		self := pathindex.Build(g, path)
		cuts := Cuts(g, g.PathBegin(path), g.PathEnd(path), stepIdx, self, isCut)
		allCuts[i] = Merge(cuts, mergeDist, stepIdx)
		return nil
	})

	sm := &SegmentMap{}
	var entries []segEntry
	for ti, path := range targets {
		cuts := allCuts[ti]
		cutCursor := 0
		curLenIdx := -1
		for step := g.PathBegin(path); step != g.PathEnd(path); step = g.NextStep(step) {
			if cutCursor < len(cuts) && step == cuts[cutCursor] {
				sm.segmentCut = append(sm.segmentCut, step)
				sm.segmentLength = append(sm.segmentLength, 0)
				curLenIdx = len(sm.segmentLength) - 1
				cutCursor++
			}
			h := g.HandleOfStep(step)
			entries = append(entries, segEntry{id: h.ID(), seg: uint64(curLenIdx), rev: h.IsReverse()})
			sm.segmentLength[curLenIdx] += g.Length(h)
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	sm.remap = newIDRemap(len(entries))
	sm.entrySeg = make([]uint64, 0, len(entries))
	sm.entryRev = make([]bool, 0, len(entries))
	havePrev := false
	var prevID graph.NodeID
	for _, e := range entries {
		if !havePrev || e.id != prevID {
			sm.remap.add(e.id, len(sm.nodeIdx))
			sm.nodeIdx = append(sm.nodeIdx, uint64(len(sm.entrySeg)))
			prevID, havePrev = e.id, true
		}
		sm.entrySeg = append(sm.entrySeg, e.seg)
		sm.entryRev = append(sm.entryRev, e.rev)
	}
	sm.nodeIdx = append(sm.nodeIdx, uint64(len(sm.entrySeg)))

	return sm
}

func serialEach(n int, fn func(i int) error) error {
	for i := 0; i < n; i++ {
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}

// ForSegmentOnNode invokes fn once for every target segment covering
// nodeID, in no particular order.
func (sm *SegmentMap) ForSegmentOnNode(nodeID graph.NodeID, fn func(segmentID uint64, isRev bool)) {
	dense, ok := sm.remap.get(nodeID)
	if !ok {
		return
	}
	from, to := sm.nodeIdx[dense], sm.nodeIdx[dense+1]
	for i := from; i < to; i++ {
		fn(sm.entrySeg[i], sm.entryRev[i])
	}
}

// GetSegmentLength returns the base-pair length of segment id.
func (sm *SegmentMap) GetSegmentLength(id uint64) uint64 { return sm.segmentLength[id] }

// GetSegmentCut returns the step at which segment id begins.
func (sm *SegmentMap) GetSegmentCut(id uint64) graph.StepHandle { return sm.segmentCut[id] }

// NumSegments returns the total number of segments across all targets.
func (sm *SegmentMap) NumSegments() int { return len(sm.segmentCut) }
