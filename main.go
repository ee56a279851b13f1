package main

import (
	"os"

	"github.com/foldeval/refold/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
