// Package main provides the entry point for the intervalcov CLI tool.
package main

import (
	"os"

	"github.com/henderiw/intervalcov/cmd/intervalcov/commands"
)

func main() {
	os.Exit(commands.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
