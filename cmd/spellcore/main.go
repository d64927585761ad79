package main

import (
	"os"

	"github.com/solatis/spellcore/cmd/spellcore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
