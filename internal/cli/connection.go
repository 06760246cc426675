package cli

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/vvka-141/dwhetl/internal/catalog"
	"github.com/vvka-141/dwhetl/internal/config"
	"github.com/vvka-141/dwhetl/internal/db"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// connectionFlags holds the common connection-related flag values.
type connectionFlags struct {
	connection string
	host       string
	port       int
	username   string
	database   string
	sslMode    string
	authMethod string
	awsRegion  string
}

// addConnectionFlags registers the warehouse connection flags on cmd.
func addConnectionFlags(cmd *cobra.Command, flags *connectionFlags) {
	// Connection string flag (mutually exclusive with granular flags)
	cmd.Flags().StringVar(&flags.connection, "connection", "",
		"Warehouse connection string (URI or key=value format).\n"+
			"Mutually exclusive with granular flags (--host, --port, --username).\n"+
			"Alternative: Use DWH_CONNECTION_STRING or DATABASE_URL environment variable.\n"+
			"Example: postgresql://awsuser@my-cluster.example.com:5439/dev")

	// Granular connection flags (PostgreSQL standard)
	// Precedence: flag > environment variable > dwhetl.yaml > default
	cmd.Flags().StringVarP(&flags.host, "host", "h", "",
		"Cluster endpoint\n"+
			"Precedence: --host > $PGHOST > warehouse.host > localhost")
	cmd.Flags().IntVarP(&flags.port, "port", "p", 0,
		"Cluster port\n"+
			"Precedence: --port > $PGPORT > warehouse.port > 5439")
	cmd.Flags().StringVarP(&flags.username, "username", "U", "",
		"Database user (default: $PGUSER, warehouse.username or current OS user)")
	cmd.Flags().StringVarP(&flags.database, "database", "d", "",
		"Database name (default: $PGDATABASE, warehouse.database or dev)\n"+
			"Overrides the database of a connection string")
	cmd.Flags().StringVar(&flags.sslMode, "sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full\n"+
			"(default: prefer, or $PGSSLMODE)")

	cmd.Flags().StringVar(&flags.authMethod, "auth-method", "",
		"Authentication: standard|aws-iam (default: warehouse.auth_method or standard)\n"+
			"aws-iam generates an RDS token from the default AWS credential chain\n"+
			"and requires --dialect postgres (RDS or Aurora targets)")
	cmd.Flags().StringVar(&flags.awsRegion, "aws-region", "",
		"AWS region for aws-iam tokens (overrides $AWS_REGION)")
}

// resolveConnection merges flags, environment and dwhetl.yaml into a
// ConnectionConfig and checks the auth method against the dialect.
// Password authentication never comes from a flag: use $DWH_PASSWORD,
// $PGPASSWORD or the connection string.
func resolveConnection(flags connectionFlags, projectCfg *config.ProjectConfig, dialect catalog.Dialect) (*dwhetl.ConnectionConfig, error) {
	granularFlags := &db.GranularConnFlags{
		Host:       flags.host,
		Port:       flags.port,
		Username:   flags.username,
		Database:   flags.database,
		SSLMode:    flags.sslMode,
		AuthMethod: flags.authMethod,
		AWSRegion:  flags.awsRegion,
	}

	var warehouse *config.WarehouseConfig
	if projectCfg != nil {
		warehouse = &projectCfg.Warehouse
	}

	cfg, err := db.ResolveConnectionParams(flags.connection, granularFlags, db.LoadFromEnvironment(), warehouse)
	if err != nil {
		return nil, err
	}
	if err := checkAuthForDialect(cfg.AuthMethod, dialect); err != nil {
		return nil, err
	}
	return cfg, nil
}

// checkAuthForDialect rejects aws-iam against Redshift: the token is an RDS
// auth token, which Redshift refuses as a password.
func checkAuthForDialect(method dwhetl.AuthMethod, dialect catalog.Dialect) error {
	if method != dwhetl.AuthMethodAWSIAM || dialect != catalog.DialectRedshift {
		return nil
	}
	return errors.WithHint(
		errors.Wrapf(dwhetl.ErrUnsupportedAuthMethod, "%s authentication with the %s dialect", method, dialect),
		"Redshift does not accept RDS IAM tokens. Use --auth-method standard with $DWH_PASSWORD,\n"+
			"or --dialect postgres for an RDS or Aurora PostgreSQL target.")
}

// logConnectionVerbose logs connection details when verbose mode is enabled.
func logConnectionVerbose(logger dwhetl.Logger, connConfig *dwhetl.ConnectionConfig) {
	logger.Verbose("Connection resolved:")
	logger.Verbose("  Host: %s", connConfig.Host)
	logger.Verbose("  Port: %d", connConfig.Port)
	logger.Verbose("  User: %s", connConfig.Username)
	logger.Verbose("  Database: %s", connConfig.Database)
	logger.Verbose("  SSL Mode: %s", connConfig.SSLMode)
	logger.Verbose("  Auth Method: %s", connConfig.AuthMethod)
	if connConfig.AuthMethod == dwhetl.AuthMethodAWSIAM {
		logger.Verbose("  AWS Region: %s", connConfig.AWSRegion)
	}
}
