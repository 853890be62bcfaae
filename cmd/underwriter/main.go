package main

import (
	"os"

	"github.com/sellside/underwriter/cmd/underwriter/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
