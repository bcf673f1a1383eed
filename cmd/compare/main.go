package main

import (
	"fmt"
	"log"
	"os"

	"github.com/bassosimone/ooop32/pkg/core"
)

func load(filename string) core.Report {
	fp, err := os.Open(filename)
	if err != nil {
		log.Fatal(err)
	}
	defer fp.Close()
	rep, err := core.ParseReport(fp)
	if err != nil {
		log.Fatalf("%s: %s", filename, err.Error())
	}
	return rep
}

func check(name string, a, b uint64) bool {
	verdict := "PASS"
	if a != b {
		verdict = "FAIL"
	}
	fmt.Printf("%-10s %-12d %-12d %s\n", name, a, b, verdict)
	return a == b
}

func checkReg(name string, a, b uint32) bool {
	verdict := "PASS"
	if a != b {
		verdict = "FAIL"
	}
	fmt.Printf("%-10s 0x%08x   0x%08x   %s\n", name, a, b, verdict)
	return a == b
}

func main() {
	log.SetFlags(0)
	if len(os.Args) != 3 {
		log.Fatal("usage: compare <report-file> <report-file>")
	}
	ra := load(os.Args[1])
	rb := load(os.Args[2])
	ok := true
	ok = check("cycle", ra.Cycle, rb.Cycle) && ok
	ok = check("commits", ra.Commits, rb.Commits) && ok
	ok = checkReg("a0", ra.A0, rb.A0) && ok
	ok = checkReg("a1", ra.A1, rb.A1) && ok
	if !ok {
		os.Exit(1)
	}
}
