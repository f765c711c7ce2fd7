package untangle

import (
	"fmt"
	"io"
)

// Record is one emitted query-segment-to-target-segment mapping.
type Record struct {
	QueryName           string
	QueryPathLength     uint64 // only used for PAF
	QueryBegin, QueryEnd uint64
	TargetName            string
	TargetPathLength       uint64 // only used for PAF
	TargetBegin, TargetEnd uint64
	Score                  float64
	IsInv                  bool
	SelfCoverage           float64
	NthBest                int
}

func invSign(isInv bool) string {
	if isInv {
		return "-"
	}
	return "+"
}

// WriteBEDPEHeader writes the BEDPE column header line (spec.md §6).
func WriteBEDPEHeader(w io.Writer) error {
	_, err := fmt.Fprintln(w, "#query.name\tquery.start\tquery.end\tref.name\tref.start\tref.end\tscore\tinv\tself.cov\tnth.best")
	return err
}

// WriteBEDPE writes one record in BEDPE format: 0-based half-open
// positions on both sides of the pair.
func WriteBEDPE(w io.Writer, r Record) error {
	_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%d\t%d\t%g\t%s\t%g\t%d\n",
		r.QueryName, r.QueryBegin, r.QueryEnd,
		r.TargetName, r.TargetBegin, r.TargetEnd,
		r.Score, invSign(r.IsInv), r.SelfCoverage, r.NthBest)
	return err
}

// WritePAF writes one record in PAF-like format with jc:f:/sc:f:/nb:i:
// tags. Per spec.md §6 and §9 ("known quirk"), query and target end are
// emitted as end-1 (closed), inconsistent with standard half-open PAF;
// this is intentional, preserved from the original tool for downstream
// compatibility.
func WritePAF(w io.Writer, r Record) error {
	alnLen := r.TargetEnd - r.TargetBegin
	if qlen := r.QueryEnd - r.QueryBegin; qlen > alnLen {
		alnLen = qlen
	}
	_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\tjc:f:%g\tsc:f:%g\tnb:i:%d\n",
		r.QueryName, r.QueryPathLength, r.QueryBegin, r.QueryEnd-1, invSign(r.IsInv),
		r.TargetName, r.TargetPathLength, r.TargetBegin, r.TargetEnd-1,
		0, alnLen, 255,
		r.Score, r.SelfCoverage, r.NthBest)
	return err
}
