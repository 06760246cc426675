package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

func noConnection(t *testing.T) {
	t.Helper()
	useConnector(t, func(*dwhetl.ConnectionConfig, dwhetl.Logger) (dwhetl.Connector, error) {
		t.Fatal("reset must not connect")
		return nil, nil
	})
}

func TestReset_ApprovalDenied(t *testing.T) {
	clearEnv(t)
	approver := &stubApprover{approved: false}
	useApprover(t, approver)
	noConnection(t)

	_, stderr, err := executeCommand(t, "reset", "--config-dir", t.TempDir(), "--connection", testConnection)

	require.Error(t, err)
	assert.True(t, errors.Is(err, dwhetl.ErrApprovalDenied))
	assert.Equal(t, dwhetl.ExitApprovalDenied, dwhetl.ExitCodeForError(err))
	assert.Equal(t, "dev", approver.dbName)
	assert.NotContains(t, stderr, "Dropping Tables")
}

func TestReset_DatabaseFlagNamesApprovalTarget(t *testing.T) {
	clearEnv(t)
	approver := &stubApprover{approved: false}
	useApprover(t, approver)
	noConnection(t)

	_, _, err := executeCommand(t, "reset", "--config-dir", t.TempDir(), "--connection", testConnection, "-d", "analytics")

	require.Error(t, err)
	assert.Equal(t, "analytics", approver.dbName)
}

func TestReset_ConnectionFailureAborts(t *testing.T) {
	clearEnv(t)
	useApprover(t, &stubApprover{approved: true})
	useConnector(t, func(*dwhetl.ConnectionConfig, dwhetl.Logger) (dwhetl.Connector, error) {
		return failingConnector{err: errors.New("dial tcp 127.0.0.1:5439: connect: connection refused")}, nil
	})

	_, stderr, err := executeCommand(t, "reset", "--config-dir", t.TempDir(), "--connection", testConnection)

	require.Error(t, err)
	assert.Equal(t, dwhetl.ExitConnectionError, dwhetl.ExitCodeForError(err))
	assert.NotContains(t, stderr, "Dropping Tables", "no statement may run without a connection")
}

func TestReset_ConflictingConnectionFlags(t *testing.T) {
	clearEnv(t)
	noConnection(t)

	_, _, err := executeCommand(t, "reset", "--config-dir", t.TempDir(),
		"--connection", testConnection, "-h", "other-host")

	require.Error(t, err)
	assert.Equal(t, dwhetl.ExitConfigError, dwhetl.ExitCodeForError(err))
}

func TestReset_UnknownDialect(t *testing.T) {
	clearEnv(t)
	noConnection(t)

	_, _, err := executeCommand(t, "reset", "--config-dir", t.TempDir(),
		"--connection", testConnection, "--dialect", "snowflake")

	require.Error(t, err)
	assert.Equal(t, dwhetl.ExitConfigError, dwhetl.ExitCodeForError(err))
}

func TestReset_DialectFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DWH_DIALECT", "oracle")
	noConnection(t)

	_, _, err := executeCommand(t, "reset", "--config-dir", t.TempDir(), "--connection", testConnection)

	require.Error(t, err)
	assert.Equal(t, dwhetl.ExitConfigError, dwhetl.ExitCodeForError(err))
}

func TestReset_AWSIAMRejectedForRedshift(t *testing.T) {
	clearEnv(t)
	approver := &stubApprover{approved: true}
	useApprover(t, approver)
	noConnection(t)

	_, _, err := executeCommand(t, "reset", "--config-dir", t.TempDir(), "--connection", testConnection,
		"--auth-method", "aws-iam", "--aws-region", "us-west-2")

	require.Error(t, err)
	assert.True(t, errors.Is(err, dwhetl.ErrUnsupportedAuthMethod))
	assert.Equal(t, dwhetl.ExitConfigError, dwhetl.ExitCodeForError(err))
	assert.Contains(t, err.Error(), "redshift dialect")
	assert.Empty(t, approver.dbName, "the combination is rejected before the prompt")
}

func TestReset_AWSIAMAllowedForPostgres(t *testing.T) {
	clearEnv(t)
	approver := &stubApprover{approved: false}
	useApprover(t, approver)
	noConnection(t)

	_, _, err := executeCommand(t, "reset", "--config-dir", t.TempDir(), "--connection", testConnection,
		"--auth-method", "aws-iam", "--aws-region", "us-west-2", "--dialect", "postgres")

	require.Error(t, err)
	assert.True(t, errors.Is(err, dwhetl.ErrApprovalDenied))
	assert.Equal(t, "dev", approver.dbName)
}
