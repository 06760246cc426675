package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vvka-141/dwhetl/internal/catalog"
	"github.com/vvka-141/dwhetl/internal/checksum"
	"github.com/vvka-141/dwhetl/internal/runner"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// Banner announces a sub-phase such as "Dropping Tables".
type Banner func(title string)

// Option configures a pipeline.
type Option func(*options)

type options struct {
	banner Banner
	runID  string
}

// WithBanner sets the function that announces each sub-phase.
func WithBanner(b Banner) Option {
	return func(o *options) { o.banner = b }
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(o *options) { o.runID = id }
}

func buildOptions(opts []Option) options {
	o := options{banner: func(string) {}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	return o
}

// stage is one collection executed under a banner.
type stage struct {
	title      string
	collection catalog.Collection
	timed      bool
}

// executor holds what both pipelines share.
type executor struct {
	runner *runner.Runner
	logger dwhetl.Logger
	opts   options
}

func newExecutor(r *runner.Runner, logger dwhetl.Logger, opts []Option) executor {
	if r == nil {
		panic("runner cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	o := buildOptions(opts)
	return executor{runner: r, logger: logger.With("run_id", o.runID), opts: o}
}

// run executes each stage in order. A failed statement is recorded and the
// next one runs; a cancelled context stops the run before the next statement.
func (e executor) run(ctx context.Context, conn runner.TxBeginner, phase string, stages []stage) Report {
	report := Report{Phase: phase, RunID: e.opts.runID}
	log := e.logger.With("phase", phase)

	for _, st := range stages {
		e.opts.banner(st.title)
		log.Verbose("%s: %d statements, checksum %s", st.title, st.collection.Len(), checksum.Short(st.collection.Checksum()))
		for _, stmt := range st.collection.Statements() {
			if err := ctx.Err(); err != nil {
				report.Interrupted = err
				log.Error("Interrupted before %s: %v", stmt.Name, err)
				return report
			}

			log.Info("Executing %s", stmt.Name)
			res := e.runner.Execute(ctx, conn, stmt)
			if st.timed {
				log.Info("Execution time: %s", res.Duration.Round(time.Millisecond))
			}
			report.Results = append(report.Results, res)
		}
	}

	if failed := len(report.Failed()); failed > 0 {
		log.Error("%s finished with %d failed statement(s)", phase, failed)
	} else {
		log.Verbose("✓ %s finished: %d statements in %s", phase, len(report.Results), report.Duration().Round(time.Millisecond))
	}
	return report
}
