// Command photontrace is the CLI front door: a thin driver over
// pkg/loader and pkg/render, replacing the teacher's flag.FlagSet
// main.go with a github.com/spf13/cobra root command (spec.md §6,
// SPEC_FULL.md §2 "Configuration").
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
