// Package runner executes catalog statements one at a time, each in its own
// transaction, and turns failures into results instead of aborting.
package runner

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/dwhetl/internal/catalog"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// TxBeginner is satisfied by *sql.DB, *sql.Conn and sqlmock connections.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Result records the outcome of one statement.
type Result struct {
	Statement catalog.Statement
	Succeeded bool
	Err       error
	Duration  time.Duration
}

// Runner is the only path by which pipelines send SQL to the warehouse.
type Runner struct {
	logger dwhetl.Logger
	now    func() time.Time
}

// New creates a Runner. It panics if logger is nil.
func New(logger dwhetl.Logger) *Runner {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Runner{logger: logger, now: time.Now}
}

// Execute runs stmt in a transaction of its own and commits it.
// On failure the transaction is rolled back so the session can accept the
// next statement, the failure is logged, and a failed Result is returned.
func (r *Runner) Execute(ctx context.Context, conn TxBeginner, stmt catalog.Statement) Result {
	log := r.logger.With("statement", stmt.Name, "kind", stmt.Kind.String())
	start := r.now()

	err := r.execute(ctx, conn, stmt)
	elapsed := r.now().Sub(start)

	if err != nil {
		fields := []interface{}{"duration", elapsed.Round(time.Millisecond)}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			fields = append(fields, "sqlstate", pgErr.Code)
			if pgErr.Detail != "" {
				fields = append(fields, "detail", pgErr.Detail)
			}
		}
		log.With(fields...).Error("Statement %s failed: %v", stmt.Name, err)
		log.Verbose("SQL: %s", preview(stmt.SQL))
		return Result{Statement: stmt, Err: err, Duration: elapsed}
	}

	log.Verbose("✓ %s (%s)", stmt.Name, elapsed.Round(time.Millisecond))
	return Result{Statement: stmt, Succeeded: true, Duration: elapsed}
}

func (r *Runner) execute(ctx context.Context, conn TxBeginner, stmt catalog.Statement) (err error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "begin transaction for %s", stmt.Name)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			err = errors.Newf("panic executing %s: %v", stmt.Name, p)
		}
	}()

	if _, err := tx.ExecContext(ctx, stmt.SQL); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.WithSecondaryError(err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "commit %s", stmt.Name)
	}
	return nil
}

func preview(sqlText string) string {
	s := strings.Join(strings.Fields(sqlText), " ")
	if len(s) > dwhetl.MaxErrorPreviewLength {
		return s[:dwhetl.MaxErrorPreviewLength] + "..."
	}
	return s
}
