// Package main is the entry point for the typekana CLI.
package main

import (
	"os"

	"github.com/f3rmion/typekana/cmd/typekana/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
