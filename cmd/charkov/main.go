// Package main provides the charkov command-line entry point.
package main

import (
	"os"

	"github.com/charkov/charkov/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
