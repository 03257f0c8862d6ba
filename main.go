package main

import (
	"os"

	"cloudsaver/cmd"
)

// main is the entry point for the entire application. All logic, argument
// parsing, and flag handling are managed by Cobra within the 'cmd' package.
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
