package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/vvka-141/dwhetl/internal/catalog"
	"github.com/vvka-141/dwhetl/internal/config"
	"github.com/vvka-141/dwhetl/internal/db"
	"github.com/vvka-141/dwhetl/internal/logging"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// loadProjectConfig loads <dir>/.env into the environment, then dwhetl.yaml,
// then overlays the environment. A missing dwhetl.yaml is not an error.
func loadProjectConfig(dir string) (*config.ProjectConfig, error) {
	if err := config.LoadDotenv(dir); err != nil {
		return nil, errors.Mark(err, dwhetl.ErrInvalidConfig)
	}

	projectCfg, err := config.LoadOrEmpty(dir)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to load %s", config.ConfigFileName), dwhetl.ErrInvalidConfig)
	}
	projectCfg.ApplyEnv(os.Getenv)
	return projectCfg, nil
}

// resolveDialect prefers the --dialect flag over dwhetl.yaml and $DWH_DIALECT.
func resolveDialect(flagDialect string, projectCfg *config.ProjectConfig) (catalog.Dialect, error) {
	value := flagDialect
	if value == "" && projectCfg != nil {
		value = projectCfg.Dialect
	}
	return catalog.ParseDialect(value)
}

// resolveEffectiveTimeout returns the effective timeout, preferring dwhetl.yaml if the flag wasn't set.
func resolveEffectiveTimeout(cmd *cobra.Command, projectCfg *config.ProjectConfig, flagTimeout time.Duration) (time.Duration, error) {
	if projectCfg != nil && projectCfg.Timeout != "" && !cmd.Flags().Changed("timeout") {
		return projectCfg.TimeoutDuration()
	}
	if flagTimeout < 0 {
		return 0, fmt.Errorf("--timeout must not be negative: %w", dwhetl.ErrInvalidConfig)
	}
	return flagTimeout, nil
}

// commandContext bounds a command by timeout (zero means none) and cancels it
// on Ctrl+C or SIGTERM. The returned cancel also stops signal delivery.
func commandContext(parent context.Context, timeout time.Duration, stderr io.Writer) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, timeout)
		parentCancel := cancel
		cancel = func() {
			cancelTimeout()
			parentCancel()
		}
	}

	// Handle interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(stderr, "\n[INTERRUPT] Received interrupt signal, stopping after the current statement...")
			cancel()
		case <-done:
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		select {
		case <-done:
		default:
			close(done)
		}
		cancel()
	}
}

// newCommandLogger builds the logger selected by --log-format. The returned
// flush function must run before the process exits.
func newCommandLogger(stderr io.Writer, verbose bool) (dwhetl.Logger, func(), error) {
	logger, err := logging.New(globalFlags.logFormat, stderr, verbose)
	if err != nil {
		return nil, nil, err
	}
	flush := func() {}
	if syncer, ok := logger.(interface{ Sync() error }); ok {
		flush = func() { _ = syncer.Sync() }
	}
	return logger, flush, nil
}

// connectorFactory is replaced in tests.
var connectorFactory = db.NewConnector

// openSession connects to the warehouse. Every failure is a connection error
// and aborts the command.
func openSession(ctx context.Context, connConfig *dwhetl.ConnectionConfig, logger dwhetl.Logger) (*db.Session, error) {
	connector, err := connectorFactory(connConfig, logger)
	if err != nil {
		return nil, err
	}
	session, err := db.OpenSession(ctx, connector)
	if err != nil {
		if !errors.Is(err, dwhetl.ErrConnectionFailed) && !errors.Is(err, dwhetl.ErrInvalidConfig) {
			err = errors.Mark(err, dwhetl.ErrConnectionFailed)
		}
		return nil, err
	}
	logger.Info("*** Connected to %s:%d/%s ***", connConfig.Host, connConfig.Port, connConfig.Database)
	return session, nil
}
