package main

import (
	"errors"
	"fmt"
	"os"
)

// exit codes: 0 success, 1 failure (including partial batch failure),
// 130 interrupted.
const (
	exitFailure     = 1
	exitInterrupted = 130
)

func main() {
	if err := Execute(); err != nil {
		if errors.Is(err, errInterrupted) {
			fmt.Fprintln(os.Stderr, "Interrupted")
			os.Exit(exitInterrupted)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}
}
