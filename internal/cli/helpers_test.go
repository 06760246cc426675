package cli

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// envKeys are cleared for every command test so the host environment
// cannot leak into resolution.
var envKeys = []string{
	"DWH_CONNECTION_STRING", "DATABASE_URL", "DWH_PASSWORD",
	"PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE", "PGSSLMODE",
	"DWH_LOG_DATA", "DWH_LOG_JSONPATH", "DWH_SONG_DATA", "DWH_S3_REGION",
	"DWH_IAM_ROLE_ARN", "DWH_DIALECT", "AWS_REGION", "CI", "DWH_NON_INTERACTIVE",
}

// clearEnv unsets envKeys for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

// resetCommandFlags restores every flag of cmd and its children to its default.
func resetCommandFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetCommandFlags(c)
	}
}

// executeCommand runs the root command with args and captures its output.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	resetCommandFlags(rootCmd)
	t.Cleanup(func() { resetCommandFlags(rootCmd) })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// stubApprover answers every approval request with approved.
type stubApprover struct {
	approved bool
	dbName   string
	calls    int
}

func (a *stubApprover) RequestApproval(ctx context.Context, dbName string) (bool, error) {
	a.calls++
	a.dbName = dbName
	return a.approved, nil
}

func useApprover(t *testing.T, a dwhetl.Approver) {
	t.Helper()
	orig := newApprover
	newApprover = func(force, verbose bool) dwhetl.Approver { return a }
	t.Cleanup(func() { newApprover = orig })
}

// failingConnector reports a connection failure without touching the network.
type failingConnector struct {
	err error
}

func (c failingConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return nil, c.err
}

func useConnector(t *testing.T, factory func(*dwhetl.ConnectionConfig, dwhetl.Logger) (dwhetl.Connector, error)) {
	t.Helper()
	orig := connectorFactory
	connectorFactory = factory
	t.Cleanup(func() { connectorFactory = orig })
}

const testConnection = "postgresql://awsuser@localhost:5439/dev"

// writeConfig writes a dwhetl.yaml into a fresh directory and returns it.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(dir+"/dwhetl.yaml", []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

const storageConfig = `
storage:
  log_data: s3://udacity-dend/log_data
  log_jsonpath: s3://udacity-dend/log_json_path.json
  song_data: s3://udacity-dend/song_data
  region: us-west-2
iam_role:
  arn: arn:aws:iam::123456789012:role/dwhRole
`
