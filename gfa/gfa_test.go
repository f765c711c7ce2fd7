package gfa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grailbio/pangraph/graph"
)

const sampleGFA = `H	VN:Z:1.0
S	1	AAAAAAAAAA
S	2	CCCCCCCCCC
S	3	GGGGGGGGGG
L	1	+	2	+	0M
L	2	+	3	+	0M
P	x	1+,2+,3+
`

func TestLoadParsesNodesEdgesAndPaths(t *testing.T) {
	g, err := Load(strings.NewReader(sampleGFA))
	assert.NoError(t, err)
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, "AAAAAAAAAA", g.Sequence(graph.NewHandle(1, false)))

	p, ok := g.PathByName("x")
	assert.True(t, ok)

	var ids []graph.NodeID
	g.ForEachStepInPath(p, func(s graph.StepHandle) bool {
		ids = append(ids, g.HandleOfStep(s).ID())
		return true
	})
	assert.Equal(t, []graph.NodeID{1, 2, 3}, ids)
	assert.Equal(t, 1, g.Degree(graph.NewHandle(2, false), graph.Forward))
}

func TestLoadRejectsMalformedSLine(t *testing.T) {
	_, err := Load(strings.NewReader("S\t1\n"))
	assert.Error(t, err)
}

func TestLoadIgnoresBlankAndHeaderLines(t *testing.T) {
	g, err := Load(strings.NewReader("H\tVN:Z:1.0\n\nS\t5\tACGT\n"))
	assert.NoError(t, err)
	assert.Equal(t, 1, g.NodeCount())
}

func TestLoadParsesReverseOrientedStep(t *testing.T) {
	g, err := Load(strings.NewReader("S\t1\tACGT\nS\t2\tTTTT\nP\tx\t1+,2-\n"))
	assert.NoError(t, err)
	p, _ := g.PathByName("x")
	var revFlags []bool
	g.ForEachStepInPath(p, func(s graph.StepHandle) bool {
		revFlags = append(revFlags, g.HandleOfStep(s).IsReverse())
		return true
	})
	assert.Equal(t, []bool{false, true}, revFlags)
}
