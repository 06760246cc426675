package cli

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/vvka-141/dwhetl/internal/catalog"
	"github.com/vvka-141/dwhetl/internal/config"
	"github.com/vvka-141/dwhetl/internal/pipeline"
	"github.com/vvka-141/dwhetl/internal/runner"
	"github.com/vvka-141/dwhetl/internal/storage"
	"github.com/vvka-141/dwhetl/internal/ui"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Copy S3 data into staging and fill the star schema",
	Long: `Load runs two stages against tables created by 'dwhetl reset':

  1. COPY the event logs and song metadata from S3 into staging_events and
     staging_songs, authenticated by the configured IAM role
  2. INSERT ... SELECT DISTINCT from the staging tables into songplays,
     users, songs, artists and time

Each statement runs in its own transaction and is timed. A failed statement
is logged and the next one still runs; the exit code is 13 if any failed.

Storage locations and the IAM role come from dwhetl.yaml or the environment:
  DWH_LOG_DATA, DWH_LOG_JSONPATH, DWH_SONG_DATA, DWH_IAM_ROLE_ARN, DWH_S3_REGION

Examples:
  # Full load using dwhetl.yaml
  dwhetl load

  # Check that the S3 sources exist before touching the warehouse
  dwhetl load --verify-sources

  # Re-run only the star schema inserts after fixing a staging problem
  dwhetl load --only insert`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

type loadFlagValues struct {
	conn          connectionFlags
	dialect       string
	only          string
	verifySources bool
}

var loadFlags loadFlagValues

// newStorageVerifier builds the S3 preflight; replaced in tests.
var newStorageVerifier = func(ctx context.Context, region string, logger dwhetl.Logger) (*storage.Verifier, error) {
	client, err := storage.NewS3Client(ctx, region)
	if err != nil {
		return nil, err
	}
	return storage.NewVerifier(client, logger), nil
}

func init() {
	rootCmd.AddCommand(loadCmd)

	addConnectionFlags(loadCmd, &loadFlags.conn)
	loadCmd.Flags().StringVar(&loadFlags.dialect, "dialect", "",
		"SQL dialect: redshift|postgres (default: dialect in dwhetl.yaml, $DWH_DIALECT or redshift)")
	loadCmd.Flags().StringVar(&loadFlags.only, "only", "",
		"Run a single stage: copy|insert (default: both)")
	loadCmd.Flags().BoolVar(&loadFlags.verifySources, "verify-sources", false,
		"Check the S3 sources with the default AWS credential chain before connecting")
}

// loadParams maps the storage and role settings onto catalog parameters.
func loadParams(projectCfg *config.ProjectConfig, dialect catalog.Dialect) catalog.Params {
	return catalog.Params{
		LogData:     projectCfg.Storage.LogData,
		LogJSONPath: projectCfg.Storage.LogJSONPath,
		SongData:    projectCfg.Storage.SongData,
		RoleARN:     projectCfg.IAMRole.ARN,
		Region:      projectCfg.Storage.Region,
		Dialect:     dialect,
	}
}

func runLoad(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	stderr := cmd.ErrOrStderr()

	logger, flush, err := newCommandLogger(stderr, verbose)
	if err != nil {
		return err
	}
	defer flush()

	projectCfg, err := loadProjectConfig(globalFlags.configDir)
	if err != nil {
		return err
	}
	if err := projectCfg.ValidateLoad(); err != nil {
		return err
	}
	dialect, err := resolveDialect(loadFlags.dialect, projectCfg)
	if err != nil {
		return err
	}
	stage, err := pipeline.ParseStage(loadFlags.only)
	if err != nil {
		return err
	}
	params := loadParams(projectCfg, dialect)
	cat, err := catalog.Build(params)
	if err != nil {
		return err
	}
	connConfig, err := resolveConnection(loadFlags.conn, projectCfg, dialect)
	if err != nil {
		return err
	}
	if verbose {
		logConnectionVerbose(logger, connConfig)
	}
	timeout, err := resolveEffectiveTimeout(cmd, projectCfg, globalFlags.timeout)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd.Context(), timeout, stderr)
	defer cancel()

	runID := uuid.NewString()
	runLogger := logger.With("run_id", runID)

	if loadFlags.verifySources {
		region := params.Region
		if region == "" {
			region = dwhetl.DefaultRegion
		}
		verifier, err := newStorageVerifier(ctx, region, runLogger)
		if err != nil {
			return err
		}
		if err := verifier.Verify(ctx, storage.Sources{
			LogData:     params.LogData,
			LogJSONPath: params.LogJSONPath,
			SongData:    params.SongData,
		}); err != nil {
			return err
		}
		runLogger.Info("✓ S3 sources verified")
	}

	session, err := openSession(ctx, connConfig, runLogger)
	if err != nil {
		return err
	}
	defer session.Close()

	report := pipeline.NewLoad(cat, runner.New(runLogger), logger, stage,
		pipeline.WithBanner(ui.NewBanner(stderr)),
		pipeline.WithRunID(runID),
	).Run(ctx, session.Conn())

	ui.PrintSummary(stderr, report.Phase, report.Results)
	return report.Err()
}
