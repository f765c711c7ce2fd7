// See doc.go for documentation.
package main

import (
	"flag"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/grailbio/pangraph/gfa"
	"github.com/grailbio/pangraph/untangle"
)

var (
	inFile     = flag.String("i", "", "Input GFA1 graph path")
	queryList  = flag.String("q", "", "Comma-separated list of query path names")
	targetList = flag.String("t", "", "Comma-separated list of target path names")
	mergeDist  = flag.Uint64("merge-dist", 0, "Minimum distance, in bp, enforced between adjacent cuts")
	nBest      = flag.Int("n-best", 1, "Maximum ranked mappings emitted per query segment")
	minJaccard = flag.Float64("min-jaccard", 0, "Minimum Jaccard score required for a mapping to be emitted")
	pafOutput  = flag.Bool("paf", false, "Emit PAF-like output instead of BEDPE")
	numThreads = flag.Int("threads", 0, "Parallelism; 0 = runtime.NumCPU()")
	gzipOutput = flag.Bool("gzip", false, "Gzip-compress the output stream")
)

func main() {
	flag.Parse()
	shutdown := grail.Init()
	defer shutdown()

	ctx := vcontext.Background()
	if *inFile == "" || *queryList == "" || *targetList == "" {
		log.Fatalf("bio-untangle: -i, -q, and -t are all required")
	}

	f, err := file.Open(ctx, *inFile)
	if err != nil {
		log.Panicf("bio-untangle: opening %s: %v", *inFile, err)
	}
	defer f.Close(ctx)

	g, err := gfa.Load(f.Reader(ctx))
	if err != nil {
		log.Panicf("bio-untangle: loading graph: %v", err)
	}

	queryNames := strings.Split(*queryList, ",")
	targetNames := strings.Split(*targetList, ",")
	queries, err := untangle.ResolvePaths(g, queryNames)
	if err != nil {
		log.Panicf("bio-untangle: %v", err)
	}
	targets, err := untangle.ResolvePaths(g, targetNames)
	if err != nil {
		log.Panicf("bio-untangle: %v", err)
	}

	threads := *numThreads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	opts := untangle.Opts{
		MergeDist:  *mergeDist,
		NBest:      *nBest,
		MinJaccard: *minJaccard,
		PAFOutput:  *pafOutput,
		NumThreads: threads,
	}
	var w io.Writer = os.Stdout
	if *gzipOutput {
		gz := gzip.NewWriter(os.Stdout)
		defer gz.Close()
		w = gz
	}
	if err := untangle.Run(g, queries, targets, opts, w); err != nil {
		log.Panicf("bio-untangle: %v", err)
	}
	log.Debug.Printf("exiting")
}
