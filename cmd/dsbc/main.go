package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
)

func main() {
	if os.Getenv("DSBC_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	root := NewRootCommand()

	if err := root.Execute(); err != nil {
		// Unhealthy probes already printed their status line.
		if !errors.Is(err, errUnhealthy) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
