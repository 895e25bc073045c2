// Package main is the entry point for the NLQ console.
package main

import (
	"os"

	"github.com/msdcl/nlq-console/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
