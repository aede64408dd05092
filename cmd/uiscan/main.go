// uiscan scans markup sources for interactive elements that carry neither a
// data-testid nor an accessible label, and prints a JSON report. Exit code 1
// means findings, 2 means the scan itself failed.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/redbaez/airwave-e2e/internal/uiscan"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: uiscan [dir]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	root := "."
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	report, err := uiscan.ScanTree(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "uiscan: %v\n", err)
		os.Exit(2)
	}
	if err := report.WriteJSON(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "uiscan: %v\n", err)
		os.Exit(2)
	}
	if !report.Clean() {
		os.Exit(1)
	}
}
