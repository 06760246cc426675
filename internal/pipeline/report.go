package pipeline

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vvka-141/dwhetl/internal/runner"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// Report collects the results of one pipeline run in execution order.
type Report struct {
	Phase   string
	RunID   string
	Results []runner.Result

	// Interrupted holds the context error when the run stopped early.
	// Statements after the interruption are absent from Results.
	Interrupted error
}

// Failed returns the results of statements that did not succeed.
func (r Report) Failed() []runner.Result {
	var failed []runner.Result
	for _, res := range r.Results {
		if !res.Succeeded {
			failed = append(failed, res)
		}
	}
	return failed
}

// Duration is the sum of statement durations.
func (r Report) Duration() time.Duration {
	var total time.Duration
	for _, res := range r.Results {
		total += res.Duration
	}
	return total
}

// Err summarizes the run. It wraps dwhetl.ErrExecutionFailed when any
// statement failed and the context error when the run was interrupted.
func (r Report) Err() error {
	var err error
	if failed := r.Failed(); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, f := range failed {
			names[i] = f.Statement.Name
		}
		err = errors.Wrapf(dwhetl.ErrExecutionFailed, "%s: %d of %d statements failed (%s)",
			r.Phase, len(failed), len(r.Results), strings.Join(names, ", "))
	}

	if r.Interrupted != nil {
		interrupted := errors.Wrapf(r.Interrupted, "%s interrupted after %d statements", r.Phase, len(r.Results))
		if err == nil {
			return interrupted
		}
		return errors.WithSecondaryError(err, interrupted)
	}
	return err
}
