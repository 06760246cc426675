package dwhetl

import "context"

// Approver handles user interaction before the destructive schema reset.
//
// Implementations:
//   - ForcedApprover: Prints a warning and approves immediately
//   - InteractiveApprover: Prompts user to type the database name for confirmation
type Approver interface {
	// RequestApproval prompts for confirmation before every warehouse table is dropped.
	//
	// Returns true if approved, false if denied, and any error that occurred
	// while asking.
	RequestApproval(ctx context.Context, dbName string) (bool, error)
}
