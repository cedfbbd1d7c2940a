// Package main provides the entry point for the coto CLI.
package main

import (
	"os"

	"github.com/coto-cli/coto/cmd/coto/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
