package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// InteractiveApprover asks the user to type the database name before the
// reset drops anything.
type InteractiveApprover struct {
	input   io.Reader
	output  io.Writer
	verbose bool
}

// NewInteractiveApprover creates an InteractiveApprover reading stdin and
// writing to stderr.
func NewInteractiveApprover(verbose bool) dwhetl.Approver {
	return &InteractiveApprover{input: os.Stdin, output: os.Stderr, verbose: verbose}
}

// RequestApproval prompts for the database name. Surrounding whitespace in
// the answer is ignored; anything else that differs denies the reset.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, dbName string) (bool, error) {
	fmt.Fprintf(a.output, "\n%s\n", WarningStyle.Render(
		fmt.Sprintf("⚠️  WARNING: You are about to DROP and RECREATE every warehouse table in '%s'", dbName)))
	fmt.Fprintln(a.output, "This will permanently delete all staged and loaded data!")
	fmt.Fprintf(a.output, "\nTo confirm, type the database name '%s' and press Enter: ", dbName)

	// The read cannot be interrupted, so it runs aside and ctx decides who wins.
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		input, err := reader.ReadString('\n')
		if err != nil && !(err == io.EOF && input != "") {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == dbName {
			fmt.Fprintln(a.output, SuccessStyle.Render(SymbolCheck+" Confirmed. Resetting schema..."))
			return true, nil
		}
		fmt.Fprintf(a.output, "%s Input '%s' does not match database name '%s'. Operation cancelled.\n",
			SymbolCross, input, dbName)
		return false, nil
	}
}

var _ dwhetl.Approver = (*InteractiveApprover)(nil)
