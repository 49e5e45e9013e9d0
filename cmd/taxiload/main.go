package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/taxiload/taxiload/internal/cli"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(taxiload.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(taxiload.ExitCodeForError(err))
	}
}
