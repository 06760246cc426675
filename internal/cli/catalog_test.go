package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

func TestCatalog_DropWithoutStorageConfig(t *testing.T) {
	clearEnv(t)

	stdout, _, err := executeCommand(t, "catalog", "--config-dir", t.TempDir(), "--kind", "drop")

	require.NoError(t, err)
	assert.Equal(t, 7, strings.Count(stdout, "DROP TABLE IF EXISTS"))
	assert.Contains(t, stdout, "DROP TABLE IF EXISTS staging_events;")
	assert.True(t, strings.Index(stdout, "staging_events") < strings.Index(stdout, "staging_songs"))
}

func TestCatalog_CopyRequiresStorageConfig(t *testing.T) {
	clearEnv(t)

	_, _, err := executeCommand(t, "catalog", "--config-dir", t.TempDir(), "--kind", "copy")

	require.Error(t, err)
	assert.Equal(t, dwhetl.ExitConfigError, dwhetl.ExitCodeForError(err))
}

func TestCatalog_AllKindsInExecutionOrder(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, storageConfig)

	stdout, _, err := executeCommand(t, "catalog", "--config-dir", dir)

	require.NoError(t, err)
	drop := strings.Index(stdout, "DROP TABLE")
	create := strings.Index(stdout, "CREATE TABLE")
	copyAt := strings.Index(stdout, "COPY staging_events FROM 's3://udacity-dend/log_data'")
	insert := strings.Index(stdout, "INSERT INTO songplays")
	require.True(t, drop >= 0 && create >= 0 && copyAt >= 0 && insert >= 0, stdout)
	assert.True(t, drop < create && create < copyAt && copyAt < insert)
	assert.Contains(t, stdout, "IAM_ROLE 'arn:aws:iam::123456789012:role/dwhRole'")
	assert.Contains(t, stdout, "REGION 'us-west-2'")
}

func TestCatalog_PostgresDialect(t *testing.T) {
	clearEnv(t)

	stdout, _, err := executeCommand(t, "catalog", "--config-dir", t.TempDir(), "--kind", "create", "--dialect", "postgres")

	require.NoError(t, err)
	assert.Contains(t, stdout, "GENERATED BY DEFAULT AS IDENTITY")
	assert.NotContains(t, stdout, "DISTSTYLE")
	assert.NotContains(t, stdout, "SORTKEY")
}

func TestCatalog_RedshiftDialectByDefault(t *testing.T) {
	clearEnv(t)

	stdout, _, err := executeCommand(t, "catalog", "--config-dir", t.TempDir(), "--kind", "create")

	require.NoError(t, err)
	assert.Contains(t, stdout, "IDENTITY(0, 1)")
	assert.Contains(t, stdout, "DISTSTYLE ALL")
}

func TestCatalog_UnknownKind(t *testing.T) {
	clearEnv(t)

	_, _, err := executeCommand(t, "catalog", "--config-dir", t.TempDir(), "--kind", "truncate")

	require.Error(t, err)
	assert.Equal(t, dwhetl.ExitConfigError, dwhetl.ExitCodeForError(err))
}

func TestCatalog_InsertWithoutStorageConfig(t *testing.T) {
	clearEnv(t)

	stdout, _, err := executeCommand(t, "catalog", "--config-dir", t.TempDir(), "--kind", "insert")

	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(stdout, "INSERT INTO"))
	assert.NotContains(t, stdout, "COPY")
}
