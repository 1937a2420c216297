package main

import (
	"os"

	"github.com/stellarstats/savewatch/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
