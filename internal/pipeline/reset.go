package pipeline

import (
	"context"

	"github.com/vvka-141/dwhetl/internal/catalog"
	"github.com/vvka-141/dwhetl/internal/runner"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// PhaseReset names reset reports.
const PhaseReset = "reset"

// Reset drops every table and creates it again. Running it twice leaves the
// same empty schema.
type Reset struct {
	drop   catalog.Collection
	create catalog.Collection
	exec   executor
}

// NewReset creates the schema reset pipeline.
func NewReset(c *catalog.Catalog, r *runner.Runner, logger dwhetl.Logger, opts ...Option) *Reset {
	if c == nil {
		panic("catalog cannot be nil")
	}
	return &Reset{drop: c.Drop, create: c.Create, exec: newExecutor(r, logger, opts)}
}

// RunID identifies this run in logs and reports.
func (p *Reset) RunID() string { return p.exec.opts.runID }

// Run executes the Drop collection, then the Create collection.
func (p *Reset) Run(ctx context.Context, conn runner.TxBeginner) Report {
	return p.exec.run(ctx, conn, PhaseReset, []stage{
		{title: "Dropping Tables", collection: p.drop},
		{title: "Creating Tables", collection: p.create},
	})
}
