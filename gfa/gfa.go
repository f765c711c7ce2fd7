// Package gfa loads GFA1-formatted pangenome graphs into a
// graph.Memory. This is convenience plumbing for the bio-untangle and
// bio-unitig commands; it sits outside the untangle/unitig core, which
// only ever consumes the read-only graph.Graph interface (spec.md §1,
// "the core depends only on a read-only query interface").
package gfa

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"

	"github.com/grailbio/pangraph/graph"
)

// Load parses a GFA1 stream (S/L/P lines; H and comment lines are
// ignored) into a graph.Memory.
func Load(r io.Reader) (*graph.Memory, error) {
	b := graph.NewMemoryBuilder()
	var links [][4]string
	var pathLines [][2]string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 64*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		switch fields[0] {
		case "S":
			if len(fields) < 3 {
				return nil, errors.E("gfa: malformed S line:", line)
			}
			id, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				return nil, errors.E(err, "gfa: non-numeric segment name:", fields[1])
			}
			b.AddNode(graph.NodeID(id), fields[2])
		case "L":
			if len(fields) < 5 {
				return nil, errors.E("gfa: malformed L line:", line)
			}
			links = append(links, [4]string{fields[1], fields[2], fields[3], fields[4]})
		case "P":
			if len(fields) < 3 {
				return nil, errors.E("gfa: malformed P line:", line)
			}
			pathLines = append(pathLines, [2]string{fields[1], fields[2]})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(err, "gfa: reading input")
	}

	for _, l := range links {
		fromID, err := strconv.ParseUint(l[0], 10, 64)
		if err != nil {
			return nil, errors.E(err, "gfa: non-numeric link endpoint:", l[0])
		}
		toID, err := strconv.ParseUint(l[2], 10, 64)
		if err != nil {
			return nil, errors.E(err, "gfa: non-numeric link endpoint:", l[2])
		}
		from := graph.NewHandle(graph.NodeID(fromID), l[1] == "-")
		to := graph.NewHandle(graph.NodeID(toID), l[3] == "-")
		b.AddEdge(from, to)
	}

	for _, p := range pathLines {
		name := p[0]
		var steps []graph.Handle
		for _, tok := range strings.Split(p[1], ",") {
			if tok == "" {
				continue
			}
			rev := strings.HasSuffix(tok, "-")
			idStr := strings.TrimSuffix(strings.TrimSuffix(tok, "-"), "+")
			id, err := strconv.ParseUint(idStr, 10, 64)
			if err != nil {
				return nil, errors.E(err, "gfa: non-numeric path step:", tok)
			}
			steps = append(steps, graph.NewHandle(graph.NodeID(id), rev))
		}
		b.AddPath(name, steps)
	}

	return b.Build(), nil
}
