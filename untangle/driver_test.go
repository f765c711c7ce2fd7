package untangle

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grailbio/pangraph/graph"
)

// twoIdenticalPaths builds a single graph with two paths, A and B, both
// walking n1 -> n2 -> n3 in the same orientation (spec.md §8 scenario:
// "two linear paths with identical topology").
func twoIdenticalPaths() (*graph.Memory, graph.PathHandle, graph.PathHandle) {
	b := graph.NewMemoryBuilder()
	for _, id := range []graph.NodeID{1, 2, 3} {
		b.AddNode(id, "AAAAAAAAAA")
	}
	b.AddEdge(graph.NewHandle(1, false), graph.NewHandle(2, false))
	b.AddEdge(graph.NewHandle(2, false), graph.NewHandle(3, false))
	steps := []graph.Handle{
		graph.NewHandle(1, false), graph.NewHandle(2, false), graph.NewHandle(3, false),
	}
	a := b.AddPath("A", steps)
	bb := b.AddPath("B", append([]graph.Handle{}, steps...))
	return b.Build(), a, bb
}

func TestRunIdenticalPathsProduceOneFullLengthRecord(t *testing.T) {
	g, a, bPath := twoIdenticalPaths()
	_ = bPath

	var out bytes.Buffer
	opts := Opts{MergeDist: 0, NBest: 1, MinJaccard: 0, NumThreads: 1}
	err := Run(g, []graph.PathHandle{a}, []graph.PathHandle{bPath}, opts, &out)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Len(t, lines, 2)
	assert.Equal(t, "A\t0\t30\tB\t0\t30\t1\t+\t1\t1", lines[1])
}

func TestRunHugeMergeDistDropsAllOutput(t *testing.T) {
	g, a, bPath := twoIdenticalPaths()

	var out bytes.Buffer
	opts := Opts{MergeDist: 1_000_000, NBest: 1, MinJaccard: 0, NumThreads: 1}
	err := Run(g, []graph.PathHandle{a}, []graph.PathHandle{bPath}, opts, &out)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 1) // header only
}

func TestRunMinJaccardFiltersOutput(t *testing.T) {
	g, a, bPath := twoIdenticalPaths()

	var out bytes.Buffer
	opts := Opts{MergeDist: 0, NBest: 1, MinJaccard: 1.1, NumThreads: 1}
	err := Run(g, []graph.PathHandle{a}, []graph.PathHandle{bPath}, opts, &out)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 1) // header only, no mapping clears min-jaccard
}

func TestRunPAFOutputHasNoHeaderAndUsesClosedCoordinates(t *testing.T) {
	g, a, bPath := twoIdenticalPaths()

	var out bytes.Buffer
	opts := Opts{MergeDist: 0, NBest: 1, MinJaccard: 0, NumThreads: 1, PAFOutput: true}
	err := Run(g, []graph.PathHandle{a}, []graph.PathHandle{bPath}, opts, &out)
	assert.NoError(t, err)

	line := strings.TrimRight(out.String(), "\n")
	fields := strings.Split(line, "\t")
	assert.Equal(t, "A", fields[0])
	assert.Equal(t, "29", fields[3]) // end-1 quirk, spec.md §9
	assert.Equal(t, "29", fields[8])
}

func TestResolvePathsUnknownNameFails(t *testing.T) {
	g, _, _ := twoIdenticalPaths()
	_, err := ResolvePaths(g, []string{"A", "nonexistent"})
	assert.Error(t, err)
}

func TestResolvePathsAllKnown(t *testing.T) {
	g, a, bPath := twoIdenticalPaths()
	paths, err := ResolvePaths(g, []string{"A", "B"})
	assert.NoError(t, err)
	assert.Equal(t, []graph.PathHandle{a, bPath}, paths)
}
