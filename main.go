package main

import (
	"os"

	"github.com/MLinh204/Class-Helper-Admin/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		// Errors are printed by the command handlers.
		os.Exit(1)
	}
}
