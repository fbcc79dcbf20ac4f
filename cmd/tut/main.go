// Package main is the entry point for the token usage dashboard.
// It wires configuration and services into the Bubble Tea program and
// exposes a few non-interactive subcommands for scripting.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
