// Package unitig implements the unitig extractor (spec.md §4.8): a
// linear-chain finder that walks maximal runs of degree-1 nodes, with an
// optional random-walk extension past each chain's natural ends.
package unitig

import (
	"math/rand"

	"github.com/grailbio/pangraph/graph"
)

// Opts configures unitig extraction and optional extension (spec.md §6).
type Opts struct {
	// UnitigTo is the minimum total length (bp) a unitig should reach
	// via random-walk extension. Zero disables length-target extension.
	UnitigTo uint64
	// UnitigPlus is the number of extra base pairs to add on each side
	// via random-walk extension. It applies only when UnitigTo does not
	// exceed the chain's length; otherwise the UnitigTo shortfall is used
	// instead. Zero disables plus-extension.
	UnitigPlus uint64
}

// Unitig is one maximal linear chain, plus any random-walk extension.
type Unitig struct {
	Handles []graph.Handle
	Length  uint64
}

// ExtractAll walks every handle of g and returns one Unitig per maximal
// linear chain of degree-1 nodes. rng drives the optional extension
// random walk; pass a seeded *rand.Rand for reproducible output.
func ExtractAll(g graph.Graph, opts Opts, rng *rand.Rand) []Unitig {
	visited := make(map[graph.NodeID]bool)
	var unitigs []Unitig

	g.ForEachHandle(func(h graph.Handle) bool {
		if visited[h.ID()] {
			return true
		}
		visited[h.ID()] = true

		chain := []graph.Handle{h}
		curr := h
		for g.Degree(curr, graph.Forward) == 1 {
			next := followSingle(g, curr, graph.Forward)
			chain = append(chain, next)
			visited[next.ID()] = true
			curr = next
		}
		curr = h
		for g.Degree(curr, graph.Backward) == 1 {
			prev := followSingle(g, curr, graph.Backward)
			chain = append([]graph.Handle{prev}, chain...)
			visited[prev.ID()] = true
			curr = prev
		}

		length := chainLength(g, chain)
		if opts.UnitigTo > 0 || opts.UnitigPlus > 0 {
			chain, length = extend(g, chain, length, opts, rng)
		}
		unitigs = append(unitigs, Unitig{Handles: chain, Length: length})
		return true
	})
	return unitigs
}

func chainLength(g graph.Graph, chain []graph.Handle) uint64 {
	var total uint64
	for _, h := range chain {
		total += g.Length(h)
	}
	return total
}

// followSingle returns the single neighbor of curr on side dir. Callers
// must have already checked Degree(curr, dir) == 1.
func followSingle(g graph.Graph, curr graph.Handle, dir graph.Direction) graph.Handle {
	var next graph.Handle
	g.FollowEdges(curr, dir, func(n graph.Handle) bool {
		next = n
		return false
	})
	return next
}

// extend grows chain by random walk, up to to_add/2 bp on each side,
// where to_add is unitig_to's shortfall (if larger than the current
// length) else unitig_plus*2 (spec.md §4.8). Each step samples a
// neighbor uniformly among the handle's out-edges; only a dead end
// (degree 0) stops that side's walk early.
func extend(g graph.Graph, chain []graph.Handle, length uint64, opts Opts, rng *rand.Rand) ([]graph.Handle, uint64) {
	toAdd := uint64(0)
	if opts.UnitigPlus > 0 {
		toAdd = opts.UnitigPlus * 2
	}
	if opts.UnitigTo > length {
		toAdd = opts.UnitigTo - length
	}
	target := toAdd / 2

	var addedFwd, addedRev uint64

	curr := chain[len(chain)-1]
	for addedFwd < target {
		chosen, ok := sampleNeighbor(g, curr, graph.Forward, rng)
		if !ok {
			break
		}
		chain = append(chain, chosen)
		addedFwd += g.Length(chosen)
		curr = chosen
	}

	curr = chain[0]
	for addedRev < target {
		chosen, ok := sampleNeighbor(g, curr, graph.Backward, rng)
		if !ok {
			break
		}
		chain = append([]graph.Handle{chosen}, chain...)
		addedRev += g.Length(chosen)
		curr = chosen
	}

	return chain, length + addedFwd + addedRev
}

// sampleNeighbor picks a neighbor of curr on side dir uniformly among
// its out-edges, following the original odgi source's sampling range
// (uniform over [0, degree] inclusive, one more value than there are
// neighbors). A draw of j == degree selects no neighbor; odgi's walk
// loop just re-rolls in that case rather than stopping, so this keeps
// redrawing until a neighbor is chosen. The only way to come back
// false is a genuine dead end (degree == 0).
func sampleNeighbor(g graph.Graph, curr graph.Handle, dir graph.Direction, rng *rand.Rand) (graph.Handle, bool) {
	degree := g.Degree(curr, dir)
	if degree == 0 {
		return graph.Handle{}, false
	}
	for {
		j := rng.Intn(degree + 1)
		if j == degree {
			continue
		}
		var chosen graph.Handle
		g.FollowEdges(curr, dir, func(n graph.Handle) bool {
			if j == 0 {
				chosen = n
				return false
			}
			j--
			return true
		})
		return chosen, true
	}
}
