package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// ForcedApprover approves the reset without asking. It is used with --force
// and when stdin is not a terminal, so it only prints what is about to happen.
type ForcedApprover struct {
	output  io.Writer
	verbose bool
}

// NewForcedApprover creates a ForcedApprover writing to stderr.
func NewForcedApprover(verbose bool) dwhetl.Approver {
	return &ForcedApprover{output: os.Stderr, verbose: verbose}
}

// RequestApproval prints a warning and approves unless ctx is already done.
func (a *ForcedApprover) RequestApproval(ctx context.Context, dbName string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintln(a.output, WarningStyle.Render(
		fmt.Sprintf("WARNING: dropping and recreating every warehouse table in '%s'", dbName)))
	if a.verbose {
		fmt.Fprintln(a.output, MutedStyle.Render("Approval skipped (--force or non-interactive input)"))
	}
	return true, nil
}

var _ dwhetl.Approver = (*ForcedApprover)(nil)
