package main

import (
	"fmt"

	"github.com/localhub/hfhub/internal/version"
)

// printVersion writes the injected version and commit information.
func printVersion() {
	fmt.Fprintln(stdOut, version.Full())
}
