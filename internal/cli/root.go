package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvka-141/dwhetl/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "dwhetl",
	Short: "Load song play logs from S3 into a Redshift star schema",
	Long: `dwhetl moves JSON event logs and song metadata from S3 into Redshift.

It stages the raw files with COPY, then reshapes them into a star schema:
the songplays fact table and the users, songs, artists and time dimensions.

  dwhetl reset   drop and recreate every staging and star schema table
  dwhetl load    copy S3 data into staging, then fill the star schema

Every statement runs in its own transaction. A failed statement is logged
and skipped; the remaining statements still run.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or storage locations
  11 - Warehouse connection failed
  12 - User denied schema reset approval
  13 - One or more statements failed`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// globalFlagValues holds the persistent flags shared by every command.
type globalFlagValues struct {
	verbose   bool
	configDir string
	logFormat string
	timeout   time.Duration
}

var globalFlags globalFlagValues

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// -h is taken by --host, as in psql
	rootCmd.PersistentFlags().Bool("help", false, "Help for dwhetl")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.verbose, "verbose", "v", false,
		"Enable verbose output for all commands")
	rootCmd.PersistentFlags().StringVar(&globalFlags.configDir, "config-dir", ".",
		"Directory holding dwhetl.yaml and .env")
	rootCmd.PersistentFlags().StringVar(&globalFlags.logFormat, "log-format", logging.FormatText,
		"Log output format: text|json")
	rootCmd.PersistentFlags().DurationVar(&globalFlags.timeout, "timeout", 0,
		"Bound for the whole command, e.g. 30m (default: none, or timeout in dwhetl.yaml)\n"+
			"Statements themselves are not given a timeout")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
