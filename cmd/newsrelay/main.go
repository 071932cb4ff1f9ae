// Package main is the entry point for the newsrelay CLI.
package main

import (
	"os"

	"github.com/jmylchreest/newsrelay/cmd/newsrelay/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
