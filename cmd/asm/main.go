package main

import (
	"flag"
	"log"
	"os"

	"github.com/bassosimone/ooop32/pkg/asm"
)

func main() {
	log.SetFlags(0)
	filename := flag.String("f", "", "file to process")
	output := flag.String("o", "", "output image file (default stdout)")
	flag.Parse()
	if *filename == "" {
		log.Fatal("usage: asm -f <assembly-code-file> [-o <image-file>]")
	}
	fp, err := os.Open(*filename)
	if err != nil {
		log.Fatal(err)
	}
	defer fp.Close()
	words, err := asm.Assemble(fp)
	if err != nil {
		log.Fatal(err)
	}
	out := os.Stdout
	if *output != "" {
		out, err = os.Create(*output)
		if err != nil {
			log.Fatal(err)
		}
		defer out.Close()
	}
	if err := asm.WriteImage(out, words); err != nil {
		log.Fatal(err)
	}
}
