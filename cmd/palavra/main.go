// Package main is the entry point for the palavra CLI.
package main

import (
	"os"

	"github.com/f3rmion/palavra/cmd/palavra/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
