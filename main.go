// The main package for the radovi-crawler executable.
package main

import (
	"github.com/ferit-stup/radovi-crawler/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
