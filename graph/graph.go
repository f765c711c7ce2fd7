// Package graph declares the read-only query contract the untangle and
// unitig cores depend on. It intentionally carries no mutation methods:
// graph construction, serialization, and edit operations (interval
// injection, node chopping) belong to an external container and are out
// of scope here.
package graph

// NodeID identifies a node. Ids are positive and need not be dense,
// though callers that build CSR-style indexes over them (see
// untangle/segment.go) perform better when ids are small and dense.
type NodeID uint64

// Handle pairs a node with an orientation bit. The zero Handle is not a
// valid handle; use NewHandle.
type Handle struct {
	id  NodeID
	rev bool
}

// NewHandle returns the handle for node id in the given orientation.
func NewHandle(id NodeID, reverse bool) Handle {
	return Handle{id: id, rev: reverse}
}

// ID returns the node id of h, independent of orientation.
func (h Handle) ID() NodeID { return h.id }

// IsReverse reports whether h is the reverse-complement orientation.
func (h Handle) IsReverse() bool { return h.rev }

// Flip returns h with its orientation bit inverted.
func (h Handle) Flip() Handle { return Handle{id: h.id, rev: !h.rev} }

// PathHandle identifies a path.
type PathHandle uint64

// StepHandle identifies a position within a specific path's walk. Step
// handles support equality comparison and are valid map keys for the
// lifetime of a single untangle/unitig invocation.
type StepHandle struct {
	Path PathHandle
	// Ordinal is a dense, path-local sequence number assigned in path
	// order, including the one-past-the-end sentinel step. Graph
	// implementations are free to choose any stable encoding here; the
	// core only relies on StepHandle being comparable and on Ordinal
	// increasing monotonically along the path.
	Ordinal uint64
}

// Direction selects which side of a handle to follow edges from.
type Direction bool

const (
	// Forward follows edges leaving the head of the handle ("next").
	Forward Direction = false
	// Backward follows edges leaving the tail of the handle ("previous").
	Backward Direction = true
)

// Graph is the read-only capability set consumed by the untangle and
// unitig cores (spec §6). Implementations must be safe for concurrent
// use by multiple readers; there is never a writer active once a Graph
// is handed to the core.
type Graph interface {
	// NodeCount returns the number of nodes in the graph.
	NodeCount() int
	// Length returns the sequence length, in base pairs, of h's node.
	Length(h Handle) uint64
	// Sequence returns the sequence of h, reverse-complemented if h is
	// reverse-oriented.
	Sequence(h Handle) string
	// ForEachHandle invokes fn once for each node, in forward
	// orientation, until fn returns false or every node has been
	// visited.
	ForEachHandle(fn func(h Handle) bool)

	// Degree returns the number of edges leaving h on the given side.
	Degree(h Handle, dir Direction) int
	// FollowEdges invokes fn once for each neighbor reachable from h on
	// the given side, until fn returns false or every neighbor has been
	// visited.
	FollowEdges(h Handle, dir Direction, fn func(next Handle) bool)

	// PathName returns the human-readable name of p.
	PathName(p PathHandle) string
	// PathBegin returns the first step of p.
	PathBegin(p PathHandle) StepHandle
	// PathBack returns the last real step of p.
	PathBack(p PathHandle) StepHandle
	// PathEnd returns the one-past-the-end sentinel step of p.
	PathEnd(p PathHandle) StepHandle
	// ForEachStepInPath invokes fn once for each step of p in path
	// order, until fn returns false or the path is exhausted.
	ForEachStepInPath(p PathHandle, fn func(s StepHandle) bool)
	// ForEachStepOnHandle invokes fn once for each step, across all
	// paths, whose handle's node id equals h's node id, until fn
	// returns false or all such steps have been visited.
	ForEachStepOnHandle(h Handle, fn func(s StepHandle) bool)

	// HandleOfStep returns the handle (node + orientation) visited at s.
	HandleOfStep(s StepHandle) Handle
	// PathHandleOfStep returns the path s belongs to.
	PathHandleOfStep(s StepHandle) PathHandle
	// NextStep returns the step following s in path order. Calling
	// NextStep on the end sentinel is undefined.
	NextStep(s StepHandle) StepHandle
	// PreviousStep returns the step preceding s in path order.
	// HasPreviousStep must be checked first.
	PreviousStep(s StepHandle) StepHandle
	// HasPreviousStep reports whether s has a predecessor.
	HasPreviousStep(s StepHandle) bool

	// PathByName resolves a path by name, for driver-level input
	// validation (spec §7, "query or target path not present").
	PathByName(name string) (PathHandle, bool)
}
