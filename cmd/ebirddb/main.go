// Package main provides the ebirddb CLI application.
// ebirddb manages the lifecycle of an eBird Basic Dataset
// PostgreSQL database.
package main

import (
	"github.com/gnames/ebirddb/cmd"
)

func main() {
	cmd.Execute()
}
