// Package main is the entry point for the Report core telescope engine.
package main

import (
	"fmt"
	"os"

	"github.com/nettelescope/reportcore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
