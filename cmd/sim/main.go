package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/bassosimone/ooop32/pkg/core"
)

// defaultMaxCycles bounds a run when no cycle budget is given.
const defaultMaxCycles = 20000

func main() {
	log.SetFlags(0)
	verbose := flag.Bool("v", false, "trace per-cycle events")
	flag.Parse()
	if flag.NArg() < 1 || flag.NArg() > 2 {
		log.Fatal("usage: sim [-v] <image-file> [max-cycles]")
	}
	maxCycles := uint64(defaultMaxCycles)
	if flag.NArg() == 2 {
		v, err := strconv.ParseUint(flag.Arg(1), 10, 64)
		if err != nil {
			log.Fatalf("sim: bad max-cycles %q", flag.Arg(1))
		}
		maxCycles = v
	}
	fp, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer fp.Close()
	imem := core.NewIMem()
	n, err := imem.LoadImage(fp)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("sim: loaded %d bytes (%d words)", n, n/4)
	c := core.New(imem)
	c.Trace = *verbose
	c.Run(maxCycles)
	fmt.Print(c.Report())
}
