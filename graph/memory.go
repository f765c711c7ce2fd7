package graph

import (
	"sort"

	"github.com/biogo/store/llrb"
)

// nodeKey adapts a NodeID into an llrb.Comparable, letting Memory resolve
// sparse external node ids to dense internal slots. Grounded on
// encoding/bampair/shard_info.go's llrb.Tree-backed key lookup.
type nodeKey struct {
	id  NodeID
	idx int
}

func (k nodeKey) Compare(c llrb.Comparable) int {
	o := c.(nodeKey)
	switch {
	case k.id < o.id:
		return -1
	case k.id > o.id:
		return 1
	default:
		return 0
	}
}

type memNode struct {
	id      NodeID
	seq     string
	fwdEdge []Handle
	revEdge []Handle
}

type memPath struct {
	name  string
	steps []Handle
}

// Memory is a simple in-memory Graph implementation used by tests and by
// the bio-untangle/bio-unitig commands when loading a GFA1 graph (see
// package gfa). It is built once via MemoryBuilder and never
// mutated afterwards, matching the lifecycle invariant in spec.md §3.
type Memory struct {
	nodes    []memNode // dense, index == internal slot
	nodeIdx  *llrb.Tree
	paths    []memPath
	byName   map[string]PathHandle
}

// MemoryBuilder accumulates nodes, edges, and paths before producing an
// immutable Memory graph.
type MemoryBuilder struct {
	nodes   []memNode
	nodeIdx *llrb.Tree
	slotOf  map[NodeID]int
	paths   []memPath
	byName  map[string]PathHandle
}

// NewMemoryBuilder returns an empty builder.
func NewMemoryBuilder() *MemoryBuilder {
	return &MemoryBuilder{
		nodeIdx: &llrb.Tree{},
		slotOf:  make(map[NodeID]int),
		byName:  make(map[string]PathHandle),
	}
}

// AddNode registers a node with the given id and sequence. Ids may be
// sparse. Calling AddNode twice with the same id is an error-free no-op
// on the second call's sequence (first write wins).
func (b *MemoryBuilder) AddNode(id NodeID, seq string) {
	if _, ok := b.slotOf[id]; ok {
		return
	}
	slot := len(b.nodes)
	b.nodes = append(b.nodes, memNode{id: id, seq: seq})
	b.slotOf[id] = slot
	b.nodeIdx.Insert(nodeKey{id: id, idx: slot})
}

// AddEdge registers an undirected edge between two handles: traversing
// forward from a reaches b, and traversing forward from b.Flip() reaches
// a.Flip().
func (b *MemoryBuilder) AddEdge(a, bHandle Handle) {
	as, bs := b.slotOf[a.ID()], b.slotOf[bHandle.ID()]
	if a.IsReverse() {
		b.nodes[as].revEdge = append(b.nodes[as].revEdge, bHandle)
	} else {
		b.nodes[as].fwdEdge = append(b.nodes[as].fwdEdge, bHandle)
	}
	flipB := bHandle.Flip()
	flipA := a.Flip()
	if flipB.IsReverse() {
		b.nodes[bs].revEdge = append(b.nodes[bs].revEdge, flipA)
	} else {
		b.nodes[bs].fwdEdge = append(b.nodes[bs].fwdEdge, flipA)
	}
}

// AddPath registers a path visiting the given handles in order.
func (b *MemoryBuilder) AddPath(name string, steps []Handle) PathHandle {
	p := PathHandle(len(b.paths))
	b.paths = append(b.paths, memPath{name: name, steps: append([]Handle(nil), steps...)})
	b.byName[name] = p
	return p
}

// Build finalizes the graph. The builder must not be used afterwards.
func (b *MemoryBuilder) Build() *Memory {
	return &Memory{
		nodes:   b.nodes,
		nodeIdx: b.nodeIdx,
		paths:   b.paths,
		byName:  b.byName,
	}
}

func (g *Memory) slot(id NodeID) int {
	found := g.nodeIdx.Get(nodeKey{id: id})
	if found == nil {
		panic("graph: unknown node id")
	}
	return found.(nodeKey).idx
}

func (g *Memory) NodeCount() int { return len(g.nodes) }

func (g *Memory) Length(h Handle) uint64 {
	return uint64(len(g.nodes[g.slot(h.ID())].seq))
}

func (g *Memory) Sequence(h Handle) string {
	seq := g.nodes[g.slot(h.ID())].seq
	if !h.IsReverse() {
		return seq
	}
	return revcomp(seq)
}

func revcomp(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[len(s)-1-i] = complement(s[i])
	}
	return string(out)
}

func complement(c byte) byte {
	switch c {
	case 'A', 'a':
		return 'T'
	case 'T', 't':
		return 'A'
	case 'C', 'c':
		return 'G'
	case 'G', 'g':
		return 'C'
	default:
		return 'N'
	}
}

func (g *Memory) ForEachHandle(fn func(h Handle) bool) {
	for _, n := range g.nodes {
		if !fn(NewHandle(n.id, false)) {
			return
		}
	}
}

func (g *Memory) Degree(h Handle, dir Direction) int {
	n := &g.nodes[g.slot(h.ID())]
	edges := n.fwdEdge
	if dir == Backward {
		edges = n.revEdge
	}
	if h.IsReverse() {
		edges = flipSide(n, dir)
	}
	return len(edges)
}

// flipSide resolves the edge list to use when the query handle h is
// reverse-oriented: forward-from-reverse is the node's reverse edge list
// (and vice versa), since edges are stored relative to forward
// orientation.
func flipSide(n *memNode, dir Direction) []Handle {
	if dir == Forward {
		return n.revEdge
	}
	return n.fwdEdge
}

func (g *Memory) edgesFor(h Handle, dir Direction) []Handle {
	n := &g.nodes[g.slot(h.ID())]
	if h.IsReverse() {
		return flipSide(n, dir)
	}
	if dir == Forward {
		return n.fwdEdge
	}
	return n.revEdge
}

func (g *Memory) FollowEdges(h Handle, dir Direction, fn func(next Handle) bool) {
	for _, e := range g.edgesFor(h, dir) {
		next := e
		if dir == Backward {
			next = e.Flip()
		}
		if !fn(next) {
			return
		}
	}
}

func (g *Memory) PathName(p PathHandle) string { return g.paths[p].name }

func (g *Memory) PathBegin(p PathHandle) StepHandle { return StepHandle{Path: p, Ordinal: 0} }

func (g *Memory) PathBack(p PathHandle) StepHandle {
	n := len(g.paths[p].steps)
	if n == 0 {
		return g.PathEnd(p)
	}
	return StepHandle{Path: p, Ordinal: uint64(n - 1)}
}

func (g *Memory) PathEnd(p PathHandle) StepHandle {
	return StepHandle{Path: p, Ordinal: uint64(len(g.paths[p].steps))}
}

func (g *Memory) ForEachStepInPath(p PathHandle, fn func(s StepHandle) bool) {
	n := len(g.paths[p].steps)
	for i := 0; i < n; i++ {
		if !fn(StepHandle{Path: p, Ordinal: uint64(i)}) {
			return
		}
	}
}

func (g *Memory) ForEachStepOnHandle(h Handle, fn func(s StepHandle) bool) {
	for pi, p := range g.paths {
		for i, step := range p.steps {
			if step.ID() == h.ID() {
				if !fn(StepHandle{Path: PathHandle(pi), Ordinal: uint64(i)}) {
					return
				}
			}
		}
	}
}

func (g *Memory) HandleOfStep(s StepHandle) Handle {
	return g.paths[s.Path].steps[s.Ordinal]
}

func (g *Memory) PathHandleOfStep(s StepHandle) PathHandle { return s.Path }

func (g *Memory) NextStep(s StepHandle) StepHandle {
	return StepHandle{Path: s.Path, Ordinal: s.Ordinal + 1}
}

func (g *Memory) PreviousStep(s StepHandle) StepHandle {
	return StepHandle{Path: s.Path, Ordinal: s.Ordinal - 1}
}

func (g *Memory) HasPreviousStep(s StepHandle) bool { return s.Ordinal > 0 }

func (g *Memory) PathByName(name string) (PathHandle, bool) {
	p, ok := g.byName[name]
	return p, ok
}

// PathNames returns all path names in a stable, sorted order. Useful for
// deterministic test fixtures and CLI listing.
func (g *Memory) PathNames() []string {
	names := make([]string, 0, len(g.paths))
	for n := range g.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
