package cli

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/vvka-141/dwhetl/internal/catalog"
	"github.com/vvka-141/dwhetl/internal/checksum"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the SQL statements in execution order",
	Long: `Catalog prints every statement reset and load would run, in order, as a
SQL script. Nothing connects to the warehouse.

COPY statements embed the storage locations and IAM role from dwhetl.yaml or
the environment. Without them the drop, create and insert statements are
still available.

Examples:
  dwhetl catalog
  dwhetl catalog --kind create --dialect postgres
  dwhetl catalog --kind copy > copy.sql`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

type catalogFlagValues struct {
	kind    string
	dialect string
}

var catalogFlags catalogFlagValues

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().StringVar(&catalogFlags.kind, "kind", "",
		"Only print one collection: drop|create|copy|insert")
	catalogCmd.Flags().StringVar(&catalogFlags.dialect, "dialect", "",
		"SQL dialect: redshift|postgres (default: dialect in dwhetl.yaml, $DWH_DIALECT or redshift)")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	projectCfg, err := loadProjectConfig(globalFlags.configDir)
	if err != nil {
		return err
	}
	dialect, err := resolveDialect(catalogFlags.dialect, projectCfg)
	if err != nil {
		return err
	}

	kinds := catalog.Kinds
	if catalogFlags.kind != "" {
		kind, err := catalog.ParseKind(catalogFlags.kind)
		if err != nil {
			return err
		}
		kinds = []catalog.Kind{kind}
	}

	var cat *catalog.Catalog
	if err := projectCfg.ValidateLoad(); err != nil {
		if needsStorage(kinds) {
			return errors.WithHint(err, "Set the storage and iam_role sections of dwhetl.yaml, or use --kind drop|create|insert.")
		}
		cat, err = catalog.BuildSchema(dialect)
		if err != nil {
			return err
		}
	} else {
		cat, err = catalog.Build(loadParams(projectCfg, dialect))
		if err != nil {
			return err
		}
	}

	for _, k := range kinds {
		if err := writeCollection(cmd.OutOrStdout(), cat.Collection(k)); err != nil {
			return err
		}
	}
	return nil
}

func needsStorage(kinds []catalog.Kind) bool {
	for _, k := range kinds {
		if k == catalog.KindCopy {
			return true
		}
	}
	return false
}

// writeCollection prints each statement as a commented, terminated SQL
// command so the output can be fed to psql.
func writeCollection(w io.Writer, c catalog.Collection) error {
	for _, stmt := range c.Statements() {
		if _, err := fmt.Fprintf(w, "-- %s (%s, %s) checksum=%s\n%s;\n\n",
			stmt.Name, stmt.Kind, stmt.Table, checksum.Short(stmt.Checksum()), stmt.SQL); err != nil {
			return errors.Wrapf(err, "failed to write %s", stmt.Name)
		}
	}
	return nil
}

