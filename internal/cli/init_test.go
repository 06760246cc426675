package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/dwhetl/internal/config"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

func TestInit_WritesTemplate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")

	stdout, _, err := executeCommand(t, "init", dir)

	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote")

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "redshift", cfg.Dialect)
	assert.Equal(t, 5439, cfg.Warehouse.Port)
	assert.NoError(t, cfg.ValidateLoad(), "the starter file is complete")
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("dialect: postgres\n"), 0o644))

	_, _, err := executeCommand(t, "init", dir)

	require.Error(t, err)
	assert.Equal(t, dwhetl.ExitConfigError, dwhetl.ExitCodeForError(err))
	data, _ := os.ReadFile(path)
	assert.Equal(t, "dialect: postgres\n", string(data))
}

func TestInit_ForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("dialect: postgres\n"), 0o644))

	_, _, err := executeCommand(t, "init", dir, "--force")

	require.NoError(t, err)
	data, _ := os.ReadFile(path)
	assert.Equal(t, config.Template, string(data))
}
