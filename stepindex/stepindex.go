// Package stepindex implements the global step index (spec.md §4.1): for
// every step of every participating path, its base-pair offset from the
// start of its path, plus the path_end sentinel's offset.
//
// Construction walks each path once, in parallel across paths, via
// github.com/grailbio/base/traverse. The underlying map is sharded by a
// seahash of the step's path and ordinal, mirroring the sharded-mutex
// map in github.com/grailbio/bio/encoding/bamprovider's concurrentmap.go
// so that concurrent writers during construction do not serialize on a
// single lock. Once built, the index is read-only and safe to share
// across goroutines without synchronization.
package stepindex

import (
	"sync"

	"blainsmith.com/go/seahash"

	"github.com/grailbio/pangraph/graph"
)

const numShards = 256

type shard struct {
	mu sync.Mutex
	m  map[graph.StepHandle]uint64
}

// Index maps steps to their base-pair offset from the start of their
// path.
type Index struct {
	shards [numShards]shard
}

func keyBytes(s graph.StepHandle) [16]byte {
	var b [16]byte
	putU64(b[0:8], uint64(s.Path))
	putU64(b[8:16], s.Ordinal)
	return b
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}

func (idx *Index) shardFor(s graph.StepHandle) *shard {
	b := keyBytes(s)
	h := seahash.Sum64(b[:])
	return &idx.shards[h%numShards]
}

func newIndex() *Index {
	idx := &Index{}
	for i := range idx.shards {
		idx.shards[i].m = make(map[graph.StepHandle]uint64)
	}
	return idx
}

func (idx *Index) set(s graph.StepHandle, pos uint64) {
	sh := idx.shardFor(s)
	sh.mu.Lock()
	sh.m[s] = pos
	sh.mu.Unlock()
}

// Position returns the base-pair offset of s from the start of its
// path. It panics if s was not part of the paths the index was built
// over (an internal invariant violation -- every step consulted by the
// core must first have been indexed).
func (idx *Index) Position(s graph.StepHandle) uint64 {
	sh := idx.shardFor(s)
	sh.mu.Lock()
	pos, ok := sh.m[s]
	sh.mu.Unlock()
	if !ok {
		panic("stepindex: position requested for unindexed step")
	}
	return pos
}

// Build constructs the global step index over paths, walking each path
// once. If each is nil, paths are walked serially; callers
// typically pass traverse.Each bound to their chosen parallelism (see
// untangle.Run).
func Build(g graph.Graph, paths []graph.PathHandle, each func(n int, fn func(i int) error) error) *Index {
	idx := newIndex()
	if each == nil {
		each = serialEach
	}
	_ = each(len(paths), func(i int) error {
		path := paths[i]
		var pos uint64
		g.ForEachStepInPath(path, func(s graph.StepHandle) bool {
			idx.set(s, pos)
			pos += g.Length(g.HandleOfStep(s))
			return true
		})
		idx.set(g.PathEnd(path), pos)
		return nil
	})
	return idx
}

func serialEach(n int, fn func(i int) error) error {
	for i := 0; i < n; i++ {
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}
