package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/vvka-141/dwhetl/internal/catalog"
	"github.com/vvka-141/dwhetl/internal/runner"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// PhaseLoad names load reports.
const PhaseLoad = "load"

// Stage restricts a load to one of its sub-phases.
type Stage string

const (
	StageAll    Stage = ""
	StageCopy   Stage = "copy"
	StageInsert Stage = "insert"
)

// ParseStage maps the --only flag value to a Stage.
func ParseStage(s string) (Stage, error) {
	switch Stage(strings.ToLower(strings.TrimSpace(s))) {
	case StageAll, "all":
		return StageAll, nil
	case StageCopy:
		return StageCopy, nil
	case StageInsert:
		return StageInsert, nil
	default:
		return "", fmt.Errorf("unknown load stage %q (expected copy or insert): %w", s, dwhetl.ErrInvalidConfig)
	}
}

// Load copies staging data from S3 and then fills the fact and dimension tables.
type Load struct {
	copy   catalog.Collection
	insert catalog.Collection
	only   Stage
	exec   executor
}

// NewLoad creates the load pipeline. only selects a single sub-phase;
// StageAll runs both.
func NewLoad(c *catalog.Catalog, r *runner.Runner, logger dwhetl.Logger, only Stage, opts ...Option) *Load {
	if c == nil {
		panic("catalog cannot be nil")
	}
	return &Load{copy: c.Copy, insert: c.Insert, only: only, exec: newExecutor(r, logger, opts)}
}

// RunID identifies this run in logs and reports.
func (p *Load) RunID() string { return p.exec.opts.runID }

// Run executes the Copy collection, then the Insert collection, timing each statement.
func (p *Load) Run(ctx context.Context, conn runner.TxBeginner) Report {
	var stages []stage
	if p.only != StageInsert {
		stages = append(stages, stage{title: "Loading Data into Staging Tables", collection: p.copy, timed: true})
	}
	if p.only != StageCopy {
		stages = append(stages, stage{title: "Inserting Data into Tables", collection: p.insert, timed: true})
	}
	return p.exec.run(ctx, conn, PhaseLoad, stages)
}
