// See doc.go for documentation.
package main

import (
	"flag"
	"io"
	"math/rand"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/grailbio/pangraph/gfa"
	"github.com/grailbio/pangraph/unitig"
)

var (
	inFile     = flag.String("i", "", "Input GFA1 graph path")
	fakeFastq  = flag.Bool("fake-fastq", false, "Write unitigs as FASTQ with constant quality")
	unitigTo   = flag.Uint64("unitig-to", 0, "Extend unitigs by random walk to at least this length")
	unitigPlus = flag.Uint64("unitig-plus", 0, "Extend unitigs by random walk this far past their natural ends")
	gzipOutput = flag.Bool("gzip", false, "Gzip-compress the output stream")
)

func main() {
	flag.Parse()
	shutdown := grail.Init()
	defer shutdown()

	ctx := vcontext.Background()
	if *inFile == "" {
		log.Fatalf("bio-unitig: -i is required")
	}

	f, err := file.Open(ctx, *inFile)
	if err != nil {
		log.Panicf("bio-unitig: opening %s: %v", *inFile, err)
	}
	defer f.Close(ctx)

	g, err := gfa.Load(f.Reader(ctx))
	if err != nil {
		log.Panicf("bio-unitig: loading graph: %v", err)
	}

	opts := unitig.Opts{UnitigTo: *unitigTo, UnitigPlus: *unitigPlus}
	rng := rand.New(rand.NewSource(rand.Int63()))
	unitigs := unitig.ExtractAll(g, opts, rng)

	var out io.Writer = os.Stdout
	if *gzipOutput {
		gz := gzip.NewWriter(os.Stdout)
		defer gz.Close()
		out = gz
	}
	w := unitig.NewWriter(out, g, *fakeFastq)
	for _, u := range unitigs {
		if err := w.Write(u); err != nil {
			log.Panicf("bio-unitig: writing output: %v", err)
		}
	}
	log.Debug.Printf("exiting")
}
