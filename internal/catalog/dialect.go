package catalog

import (
	"fmt"
	"strings"

	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// Dialect selects how table DDL is rendered.
type Dialect string

const (
	// DialectRedshift renders IDENTITY columns and SORTKEY/DISTKEY/DISTSTYLE hints.
	DialectRedshift Dialect = "redshift"

	// DialectPostgres renders standard identity columns without distribution
	// or sort hints, for local targets and integration tests.
	DialectPostgres Dialect = "postgres"
)

// ParseDialect maps a configuration value to a Dialect. Empty selects Redshift.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(DialectRedshift):
		return DialectRedshift, nil
	case string(DialectPostgres), "postgresql":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unknown dialect %q (expected redshift or postgres): %w", s, dwhetl.ErrInvalidConfig)
	}
}

func (d Dialect) identity() string {
	if d == DialectPostgres {
		return "GENERATED BY DEFAULT AS IDENTITY (START WITH 0 MINVALUE 0)"
	}
	return "IDENTITY(0, 1)"
}

func (d Dialect) hints() bool {
	return d == DialectRedshift
}
