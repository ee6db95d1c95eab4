// Command fishcomp reports, for a configured fishing context, the catch
// probability, expected coin value and experience of every obtainable
// outcome in each area of a location.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
