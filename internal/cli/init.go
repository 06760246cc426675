package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/vvka-141/dwhetl/internal/config"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

var initCmd = &cobra.Command{
	Use:   "init [target_path]",
	Short: "Write a starter dwhetl.yaml",
	Long: `Init writes a commented dwhetl.yaml into the target directory (default: the
current directory). Edit the warehouse, storage and iam_role sections, then
run 'dwhetl reset' and 'dwhetl load'.

An existing dwhetl.yaml is left alone unless --force is given.

Examples:
  dwhetl init
  dwhetl init ./deploy/prod --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing dwhetl.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	path, err := config.WriteTemplate(dir, initForce)
	if err != nil {
		return errors.Mark(err, dwhetl.ErrInvalidConfig)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Wrote %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Fill in the warehouse, storage and iam_role sections")
	fmt.Fprintln(out, "  2. export DWH_PASSWORD=...")
	fmt.Fprintln(out, "  3. dwhetl reset && dwhetl load")
	return nil
}
