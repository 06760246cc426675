package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/dwhetl/internal/config"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use $DWH_PASSWORD, $PGPASSWORD or a connection string instead.
type GranularConnFlags struct {
	Host       string
	Port       int
	Username   string
	Database   string
	SSLMode    string
	AuthMethod string
	AWSRegion  string
}

// IsEmpty returns true if no connection-related granular flags were provided by the user.
// Database, auth method and region are excluded because they may refine a
// connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// EnvVars represents the connection-related environment.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	DWH_CONNECTION_STRING string
	DATABASE_URL          string
	DWH_PASSWORD          string
	PGHOST                string
	PGPORT                string
	PGUSER                string
	PGPASSWORD            string
	PGDATABASE            string
	PGSSLMODE             string
	AWS_REGION            string
}

// LoadFromEnvironment reads EnvVars from the process environment.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		DWH_CONNECTION_STRING: os.Getenv("DWH_CONNECTION_STRING"),
		DATABASE_URL:          os.Getenv("DATABASE_URL"),
		DWH_PASSWORD:          os.Getenv("DWH_PASSWORD"),
		PGHOST:                os.Getenv("PGHOST"),
		PGPORT:                os.Getenv("PGPORT"),
		PGUSER:                os.Getenv("PGUSER"),
		PGPASSWORD:            os.Getenv("PGPASSWORD"),
		PGDATABASE:            os.Getenv("PGDATABASE"),
		PGSSLMODE:             os.Getenv("PGSSLMODE"),
		AWS_REGION:            os.Getenv("AWS_REGION"),
	}
}

func (e *EnvVars) connectionString() string {
	if e.DWH_CONNECTION_STRING != "" {
		return e.DWH_CONNECTION_STRING
	}
	return e.DATABASE_URL
}

func (e *EnvVars) password() string {
	if e.DWH_PASSWORD != "" {
		return e.DWH_PASSWORD
	}
	return e.PGPASSWORD
}

// ResolveConnectionParams resolves connection parameters with this precedence:
//
//  1. Connection string flag (--connection)
//  2. Granular flags (-h, -p, -U, -d)
//  3. $DWH_CONNECTION_STRING or $DATABASE_URL, when no granular flags are given
//  4. Environment variables (PGHOST, PGPORT, ...)
//  5. The warehouse section of dwhetl.yaml
//  6. Defaults (localhost:5439/dev, prefer SSL)
//
// It is an error to combine --connection with granular flags.
// Every error wraps dwhetl.ErrInvalidConfig.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	envVars *EnvVars,
	warehouse *config.WarehouseConfig,
) (*dwhetl.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}
	if warehouse == nil {
		warehouse = &config.WarehouseConfig{}
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U)\n"+
				"Choose one approach:\n"+
				"  1. Connection string: --connection \"postgresql://awsuser@cluster:5439/dev\"\n"+
				"  2. Granular flags: -h cluster -p 5439 -U awsuser -d dev\n"+
				"  3. Environment variables: export PGHOST=cluster PGPORT=5439 PGUSER=awsuser: %w",
			dwhetl.ErrInvalidConfig,
		)
	}

	var cfg *dwhetl.ConnectionConfig
	var err error

	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, envVars)
	case granularFlags.IsEmpty() && envVars.connectionString() != "":
		cfg, err = resolveFromConnectionString(envVars.connectionString(), envVars)
	default:
		cfg, err = resolveFromGranularParams(granularFlags, envVars, warehouse)
	}
	if err != nil {
		return nil, err
	}

	if granularFlags.Database != "" {
		cfg.Database = granularFlags.Database
	}
	if cfg.AppName == "" {
		cfg.AppName = dwhetl.DefaultAppName
	}

	if err := applyAuth(cfg, granularFlags, envVars, warehouse); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyAuth selects the authentication method: flag > dwhetl.yaml > standard.
func applyAuth(cfg *dwhetl.ConnectionConfig, flags *GranularConnFlags, env *EnvVars, wh *config.WarehouseConfig) error {
	method := flags.AuthMethod
	if method == "" {
		method = wh.AuthMethod
	}
	auth, err := dwhetl.ParseAuthMethod(method)
	if err != nil {
		return err
	}
	cfg.AuthMethod = auth

	cfg.AWSRegion = flags.AWSRegion
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = env.AWS_REGION
	}
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = wh.AWSRegion
	}
	if auth == dwhetl.AuthMethodAWSIAM && cfg.AWSRegion == "" {
		return fmt.Errorf("aws-iam authentication requires a region (--aws-region, $AWS_REGION or warehouse.aws_region): %w", dwhetl.ErrInvalidConfig)
	}
	return nil
}

// resolveFromConnectionString parses a connection string. The password
// environment variables fill in a password the string omits.
func resolveFromConnectionString(connStr string, envVars *EnvVars) (*dwhetl.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %v: %w", err, dwhetl.ErrInvalidConfig)
	}

	if cfg.Password == "" {
		cfg.Password = envVars.password()
	}
	if envVars.PGSSLMODE != "" && cfg.SSLMode == "prefer" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	return cfg, nil
}

// resolveFromGranularParams builds ConnectionConfig from granular flags,
// environment variables and the warehouse section of dwhetl.yaml.
//
// Precedence for each parameter: flag > environment > dwhetl.yaml > default.
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	wh *config.WarehouseConfig,
) (*dwhetl.ConnectionConfig, error) {
	cfg := defaultConnectionConfig()

	cfg.Host = firstNonEmpty(flags.Host, envVars.PGHOST, wh.Host, cfg.Host)

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer: %w", envVars.PGPORT, dwhetl.ErrInvalidConfig)
		}
		cfg.Port = port
	case wh.Port != 0:
		cfg.Port = wh.Port
	}

	cfg.Username = firstNonEmpty(flags.Username, envVars.PGUSER, wh.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Password = envVars.password()
	cfg.Database = firstNonEmpty(flags.Database, envVars.PGDATABASE, wh.Database, cfg.Database)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, wh.SSLMode, cfg.SSLMode)

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
