// Package testinfra starts disposable PostgreSQL servers that stand in for
// the warehouse in integration tests.
package testinfra

import (
	"context"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// ImageEnvVar overrides the container image, e.g. to pin a mirror in CI.
const ImageEnvVar = "DWH_TEST_IMAGE"

// The container mirrors a fresh Redshift cluster: database dev, user awsuser.
const (
	DefaultImage    = "postgres:17-alpine"
	WarehouseUser   = "awsuser"
	WarehousePass   = "awsuser"
	WarehouseDB     = "dev"
	startupDeadline = 60 * time.Second
)

// Warehouse is a running stand-in server and the connection string for it.
type Warehouse struct {
	*postgres.PostgresContainer
	ConnString string
}

// StartWarehouse starts a PostgreSQL server without TLS. The caller owns the
// container and should Terminate it.
func StartWarehouse(ctx context.Context) (*Warehouse, error) {
	image := DefaultImage
	if v := os.Getenv(ImageEnvVar); v != "" {
		image = v
	}

	ctr, err := postgres.Run(ctx, image,
		postgres.WithUsername(WarehouseUser),
		postgres.WithPassword(WarehousePass),
		postgres.WithDatabase(WarehouseDB),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				// The entrypoint restarts the server once after init.
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort("5432/tcp"),
			).WithStartupTimeout(startupDeadline),
		),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "start %s", image)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable", "application_name=dwhetl-test")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, errors.Wrap(err, "warehouse connection string")
	}

	return &Warehouse{PostgresContainer: ctr, ConnString: connStr}, nil
}
