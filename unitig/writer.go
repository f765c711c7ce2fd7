package unitig

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/grailbio/pangraph/graph"
)

// fastqQual is the constant-quality placeholder character used when
// emitting unitigs as fake FASTQ (spec.md §4.8, §6).
const fastqQual = 'I'

// Writer emits Unitigs as FASTA or FASTQ, grounded on
// github.com/grailbio/bio/encoding/fastq's Writer.
type Writer struct {
	w         io.Writer
	g         graph.Graph
	fakeFastq bool
	err       error
}

// NewWriter constructs a Writer over w. When fakeFastq is true, unitigs
// are emitted as FASTQ with a constant quality line; otherwise as FASTA.
func NewWriter(w io.Writer, g graph.Graph, fakeFastq bool) *Writer {
	return &Writer{w: w, g: g, fakeFastq: fakeFastq}
}

// Write emits one unitig record. The header line is a comma-separated
// list of signed node ids followed by " length=<bp>".
func (w *Writer) Write(u Unitig) error {
	if len(u.Handles) == 0 {
		return errors.Errorf("unitig: refusing to write a record with no handles")
	}
	header := w.header(u)
	var seq strings.Builder
	for _, h := range u.Handles {
		seq.WriteString(w.g.Sequence(h))
	}

	if w.fakeFastq {
		w.writeln("@" + header)
		w.writeln(seq.String())
		w.writeln("+")
		w.writeln(strings.Repeat(string(fastqQual), seq.Len()))
	} else {
		w.writeln(">" + header)
		w.writeln(seq.String())
	}
	return w.err
}

func (w *Writer) header(u Unitig) string {
	var b strings.Builder
	for _, h := range u.Handles {
		sign := "+"
		if h.IsReverse() {
			sign = "-"
		}
		fmt.Fprintf(&b, "%d%s,", h.ID(), sign)
	}
	fmt.Fprintf(&b, " length=%d", u.Length)
	return b.String()
}

func (w *Writer) writeln(line string) {
	if w.err != nil {
		return
	}
	_, err := io.WriteString(w.w, line)
	if err == nil {
		_, err = io.WriteString(w.w, "\n")
	}
	if err != nil {
		w.err = errors.Wrap(err, "unitig: writing output")
	}
}
