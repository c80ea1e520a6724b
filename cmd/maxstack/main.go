package main

import (
	"os"

	"github.com/maxstack-dev/maxstack/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
