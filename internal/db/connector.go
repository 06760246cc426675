package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns is one: statements run strictly one after another on a
	// single session.
	DefaultMaxConns = 1

	// DefaultMaxConnIdleTime keeps the session alive during long COPY statements.
	DefaultMaxConnIdleTime = 2 * time.Hour
)

func configurePool(poolConfig *pgxpool.Config, logger dwhetl.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = 0
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("%s: %s", notice.Severity, notice.Message)
	}
}

// StandardConnector implements the Connector interface for
// username/password authentication. It makes exactly one attempt.
type StandardConnector struct {
	config *dwhetl.ConnectionConfig
	logger dwhetl.Logger
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
func NewStandardConnector(config *dwhetl.ConnectionConfig, logger dwhetl.Logger) *StandardConnector {
	return &StandardConnector{config: config, logger: logger}
}

// Connect establishes a connection pool using standard authentication.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return openPool(ctx, c.config, c.logger)
}

// openPool creates the pool and pings it so that a bad address or credential
// surfaces here instead of at the first statement.
func openPool(ctx context.Context, config *dwhetl.ConnectionConfig, logger dwhetl.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(config))
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to parse connection config"), dwhetl.ErrInvalidConfig)
	}

	configurePool(poolConfig, logger)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}

	return pool, nil
}

// NewConnector is a factory function that creates the appropriate Connector
// based on the ConnectionConfig's AuthMethod.
func NewConnector(config *dwhetl.ConnectionConfig, logger dwhetl.Logger) (dwhetl.Connector, error) {
	switch config.AuthMethod {
	case dwhetl.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case dwhetl.AuthMethodAWSIAM:
		return newRDSConnector(config, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, dwhetl.ErrUnsupportedAuthMethod)
	}
}

// newRDSConnector creates a token-based connector signing RDS IAM tokens.
func newRDSConnector(config *dwhetl.ConnectionConfig, logger dwhetl.Logger) (dwhetl.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewRDSTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, errors.Mark(err, dwhetl.ErrInvalidConfig)
	}

	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM", logger), nil
}

// wrapConnectionError marks raw pgx connection errors with
// dwhetl.ErrConnectionFailed and attaches actionable guidance as hints.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	var wrapped error
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		wrapped = errors.WithHintf(
			errors.Wrapf(err, "connection refused to %s", addr),
			"Check that the cluster is available and that %s:%d is correct.\n"+
				"Redshift listens on 5439 unless configured otherwise.", host, port)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		wrapped = errors.WithHintf(
			errors.Wrapf(err, "cannot resolve host %q", host),
			"Check the cluster endpoint for typos and that DNS is reachable.")

	case strings.Contains(errStr, "password authentication failed"):
		wrapped = errors.WithHintf(
			errors.Wrapf(err, "password authentication failed for database %q", database),
			"Check $DWH_PASSWORD or $PGPASSWORD and the username.")

	case strings.Contains(errStr, "does not exist"):
		wrapped = errors.WithHintf(
			errors.Wrapf(err, "database %q does not exist", database),
			"Redshift clusters are created with a database named %q.", DefaultDatabase)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		wrapped = errors.WithHintf(
			errors.Wrapf(err, "connection timed out to %s", addr),
			"Check that the cluster is publicly accessible or that you are inside its VPC,\n"+
				"and that its security group allows inbound traffic on port %d.", port)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		wrapped = errors.WithHint(
			errors.Wrap(err, "SSL/TLS connection error"),
			"Try --sslmode=require, or check the server certificate configuration.")

	default:
		wrapped = errors.Wrap(err, "failed to connect to warehouse")
	}

	return errors.Mark(wrapped, dwhetl.ErrConnectionFailed)
}
