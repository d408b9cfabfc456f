package main

import (
	"os"

	"github.com/pilotgen/pilotgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
