package db

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// Session is the single warehouse session a command runs its statements on.
// It bridges the pgx pool to database/sql so that statements run through
// *sql.Conn transactions.
type Session struct {
	pool *pgxpool.Pool
	db   *sql.DB
	conn *sql.Conn
}

// OpenSession connects with the given connector and pins one connection.
// The caller must Close the session; Close is safe on every path.
func OpenSession(ctx context.Context, connector dwhetl.Connector) (*Session, error) {
	if connector == nil {
		panic("connector cannot be nil")
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDBFromPool(pool)
	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		pool.Close()
		return nil, errors.Mark(errors.Wrap(err, "failed to acquire warehouse session"), dwhetl.ErrConnectionFailed)
	}

	return &Session{pool: pool, db: db, conn: conn}, nil
}

// Conn returns the pinned connection.
func (s *Session) Conn() *sql.Conn {
	return s.conn
}

// Close releases the connection and closes the pool. It may be called on a
// nil Session and more than once.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.conn != nil {
		if cerr := s.conn.Close(); cerr != nil && !errors.Is(cerr, sql.ErrConnDone) {
			err = cerr
		}
		s.conn = nil
	}
	if s.db != nil {
		if cerr := s.db.Close(); cerr != nil && err == nil {
			err = cerr
		}
		s.db = nil
	}
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	return err
}
