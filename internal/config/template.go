package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Template is the starter configuration written by `dwhetl init`.
const Template = `# dwhetl configuration
# Values here are overridden by environment variables and command-line flags.
# The warehouse password is never stored here: use $DWH_PASSWORD or $PGPASSWORD.

warehouse:
  host: my-cluster.abc123xyz.us-west-2.redshift.amazonaws.com
  port: 5439
  database: dev
  username: awsuser
  sslmode: require
  # auth_method: aws-iam
  # aws_region: us-west-2

storage:
  log_data: s3://udacity-dend/log_data
  log_jsonpath: s3://udacity-dend/log_json_path.json
  song_data: s3://udacity-dend/song_data
  region: us-west-2

iam_role:
  arn: arn:aws:iam::123456789012:role/dwhRole

# redshift (default) or postgres
dialect: redshift

# Bound for the whole command, e.g. 30m. Empty means no limit.
timeout: ""
`

// WriteTemplate writes Template to <dir>/dwhetl.yaml, refusing to overwrite
// an existing file unless force is set. It returns the written path.
func WriteTemplate(dir string, force bool) (string, error) {
	path := filepath.Join(dir, ConfigFileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(Template), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
