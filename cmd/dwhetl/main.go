package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/cockroachdb/errors"
	"github.com/vvka-141/dwhetl/internal/cli"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

func main() {
	os.Exit(run(os.Stderr, cli.Execute))
}

// run executes the command tree and turns its outcome into an exit code.
// A panic exits with dwhetl.ExitPanic after printing the stack.
func run(stderr io.Writer, execute func() error) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "panic: %v\n%s\n", r, debug.Stack())
			code = dwhetl.ExitPanic
		}
	}()
	return reportError(stderr, execute())
}

// reportError prints err with its hints and returns the matching exit code.
func reportError(stderr io.Writer, err error) int {
	if err == nil {
		return dwhetl.ExitSuccess
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(stderr, "\nHint: %s\n", hint)
	}
	return dwhetl.ExitCodeForError(err)
}
