package main

import (
	"fmt"
	"os"

	"github.com/deadchur/ITC303-platARpus-v1/cmd"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cmd.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
