// Package main provides the entry point for the picky CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/picky/cmd/picky/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
