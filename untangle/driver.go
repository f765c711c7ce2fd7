package untangle

import (
	"io"
	"sort"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"

	"github.com/grailbio/pangraph/atomicbv"
	"github.com/grailbio/pangraph/graph"
	"github.com/grailbio/pangraph/pathindex"
	"github.com/grailbio/pangraph/stepindex"
)

// Opts configures a single untangle run (spec.md §6).
type Opts struct {
	// MergeDist is the minimum distance, in base pairs, enforced
	// between adjacent cuts.
	MergeDist uint64
	// NBest is the maximum number of ranked mappings emitted per query
	// segment. Must be >= 1.
	NBest int
	// MinJaccard is the minimum score required for a mapping to be
	// emitted.
	MinJaccard float64
	// PAFOutput selects PAF-like output instead of the default BEDPE.
	PAFOutput bool
	// NumThreads bounds the parallelism of the bootstrap, segment-map,
	// and query passes.
	NumThreads int
}

// ResolvePaths resolves path names against g, failing the whole call
// with a diagnostic naming the first offending path (spec.md §7, "Input
// violation").
func ResolvePaths(g graph.Graph, names []string) ([]graph.PathHandle, error) {
	paths := make([]graph.PathHandle, 0, len(names))
	for _, name := range names {
		p, ok := g.PathByName(name)
		if !ok {
			return nil, errors.E(errors.Invalid, "untangle: path not present in graph:", name)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func unionSorted(queries, targets []graph.PathHandle) []graph.PathHandle {
	seen := make(map[graph.PathHandle]bool, len(queries)+len(targets))
	union := make([]graph.PathHandle, 0, len(queries)+len(targets))
	for _, p := range append(append([]graph.PathHandle{}, queries...), targets...) {
		if !seen[p] {
			seen[p] = true
			union = append(union, p)
		}
	}
	sort.Slice(union, func(i, j int) bool { return union[i] < union[j] })
	return union
}

func eachFor(numThreads int) func(n int, fn func(i int) error) error {
	if numThreads <= 1 {
		return serialEach
	}
	return func(n int, fn func(i int) error) error {
		return traverse.T{Limit: numThreads}.Each(n, fn)
	}
}

func pathLength(g graph.Graph, p graph.PathHandle) uint64 {
	var total uint64
	g.ForEachStepInPath(p, func(s graph.StepHandle) bool {
		total += g.Length(g.HandleOfStep(s))
		return true
	})
	return total
}

// Run executes the untangle driver (spec.md §4.7): it builds the global
// step index, bootstraps the cut-node bitmap, builds the target segment
// map, then untangles every query against it, writing records to w.
func Run(g graph.Graph, queries, targets []graph.PathHandle, opts Opts, w io.Writer) error {
	if opts.NBest < 1 {
		opts.NBest = 1
	}
	each := eachFor(opts.NumThreads)

	union := unionSorted(queries, targets)
	log.Printf("[untangle] untangling %d queries with %d targets", len(queries), len(targets))

	stepIdx := stepindex.Build(g, union, each)

	log.Printf("[untangle] establishing initial cuts for %d paths", len(union))
	// Node ids may be sparse, so the bitmap is sized by the largest id
	// rather than by the node count.
	var maxID graph.NodeID
	g.ForEachHandle(func(h graph.Handle) bool {
		if h.ID() > maxID {
			maxID = h.ID()
		}
		return true
	})
	cutNodes := atomicbv.New(int(maxID) + 1)
	if err := each(len(union), func(i int) error {
		path := union[i]
		self := pathindex.Build(g, path)
		cuts := Cuts(g, g.PathBegin(path), g.PathEnd(path), stepIdx, self, AlwaysFalse)
		merged := Merge(cuts, opts.MergeDist, stepIdx)
		pathEnd := g.PathEnd(path)
		for _, s := range merged {
			if s == pathEnd {
				continue
			}
			cutNodes.Set(uint64(g.HandleOfStep(s).ID()))
		}
		return nil
	}); err != nil {
		return errors.E(err, "untangle: bootstrap cut pass")
	}
	isCut := func(h graph.Handle) bool { return cutNodes.Test(uint64(h.ID())) }

	log.Printf("[untangle] building target segment index")
	segMap := BuildSegmentMap(g, targets, stepIdx, isCut, opts.MergeDist, each)

	pathLen := make(map[graph.PathHandle]uint64)
	if opts.PAFOutput {
		for _, p := range union {
			pathLen[p] = pathLength(g, p)
		}
	} else if err := WriteBEDPEHeader(w); err != nil {
		return errors.E(err, "untangle: writing header")
	}

	var outMu sync.Mutex
	log.Printf("[untangle] writing %d queries", len(queries))
	writeErr := each(len(queries), func(i int) error {
		query := queries[i]
		queryName := g.PathName(query)
		self := pathindex.Build(g, query)
		cuts := Merge(Cuts(g, g.PathBegin(query), g.PathEnd(query), stepIdx, self, isCut), opts.MergeDist, stepIdx)
		// spec.md §7: "Empty query" -- fewer than 2 cuts yields zero
		// output, no error.
		for ci := 0; ci+1 < len(cuts); ci++ {
			begin, end := cuts[ci], cuts[ci+1]
			beginPos, endPos := stepIdx.Position(begin), stepIdx.Position(end)
			length := endPos - beginPos
			mappings := Match(g, segMap, begin, end, length)
			if len(mappings) == 0 {
				continue
			}
			selfCov := SelfMeanCoverage(g, query, begin, end)
			nth := 0
			for _, m := range mappings {
				nth++
				if nth > opts.NBest {
					break
				}
				if m.Jaccard < opts.MinJaccard {
					continue
				}
				targetBegin := segMap.GetSegmentCut(m.SegmentID)
				targetBeginPos := stepIdx.Position(targetBegin)
				targetEndPos := targetBeginPos + segMap.GetSegmentLength(m.SegmentID)
				targetPath := g.PathHandleOfStep(targetBegin)
				rec := Record{
					QueryName:       queryName,
					QueryPathLength: pathLen[query],
					QueryBegin:      beginPos,
					QueryEnd:        endPos,
					TargetName:      g.PathName(targetPath),
					TargetPathLength: pathLen[targetPath],
					TargetBegin:     targetBeginPos,
					TargetEnd:       targetEndPos,
					Score:           m.Jaccard,
					IsInv:           m.IsInv,
					SelfCoverage:    selfCov,
					NthBest:         nth,
				}

				outMu.Lock()
				var writeErr error
				if opts.PAFOutput {
					writeErr = WritePAF(w, rec)
				} else {
					writeErr = WriteBEDPE(w, rec)
				}
				outMu.Unlock()
				if writeErr != nil {
					return errors.E(writeErr, "untangle: writing record")
				}
			}
		}
		return nil
	})
	if writeErr != nil {
		return writeErr
	}
	return nil
}
