package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// WarehouseConfig holds the non-secret warehouse connection settings.
// The password is never read from the file.
type WarehouseConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Database   string `yaml:"database"`
	Username   string `yaml:"username"`
	SSLMode    string `yaml:"sslmode,omitempty"`
	AuthMethod string `yaml:"auth_method,omitempty"`
	AWSRegion  string `yaml:"aws_region,omitempty"`
}

// StorageConfig locates the raw JSON sources in S3.
type StorageConfig struct {
	LogData     string `yaml:"log_data"`
	LogJSONPath string `yaml:"log_jsonpath"`
	SongData    string `yaml:"song_data"`
	Region      string `yaml:"region,omitempty"`
}

// IAMRoleConfig names the role the warehouse assumes to read from S3.
type IAMRoleConfig struct {
	ARN string `yaml:"arn"`
}

type ProjectConfig struct {
	Warehouse WarehouseConfig `yaml:"warehouse"`
	Storage   StorageConfig   `yaml:"storage"`
	IAMRole   IAMRoleConfig   `yaml:"iam_role"`
	Dialect   string          `yaml:"dialect,omitempty"`
	Timeout   string          `yaml:"timeout,omitempty"`
}

const (
	ConfigFileName = "dwhetl.yaml"
	DotenvFileName = ".env"
)

// Environment variables that override the storage and role sections.
const (
	EnvLogData     = "DWH_LOG_DATA"
	EnvLogJSONPath = "DWH_LOG_JSONPATH"
	EnvSongData    = "DWH_SONG_DATA"
	EnvS3Region    = "DWH_S3_REGION"
	EnvIAMRoleARN  = "DWH_IAM_ROLE_ARN"
	EnvDialect     = "DWH_DIALECT"
	EnvAWSRegion   = "AWS_REGION"
)

func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}
	cfg.normalize()
	return &cfg, nil
}

// LoadOrEmpty is Load, except that a missing file yields an empty config.
func LoadOrEmpty(sourcePath string) (*ProjectConfig, error) {
	cfg, err := Load(sourcePath)
	if errors.Is(err, ErrConfigNotFound) {
		return &ProjectConfig{}, nil
	}
	return cfg, err
}

// LoadDotenv exports the variables of <dir>/.env into the process
// environment without overriding variables that are already set.
// A missing file is not an error.
func LoadDotenv(dir string) error {
	path := filepath.Join(dir, DotenvFileName)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays non-empty environment values onto the storage, role and
// dialect settings. getenv is typically os.Getenv.
func (c *ProjectConfig) ApplyEnv(getenv func(string) string) {
	override := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	override(&c.Storage.LogData, EnvLogData)
	override(&c.Storage.LogJSONPath, EnvLogJSONPath)
	override(&c.Storage.SongData, EnvSongData)
	override(&c.Storage.Region, EnvS3Region)
	override(&c.IAMRole.ARN, EnvIAMRoleARN)
	override(&c.Dialect, EnvDialect)
	if c.Storage.Region == "" {
		override(&c.Storage.Region, EnvAWSRegion)
	}
	c.normalize()
}

// normalize strips one layer of quoting, which INI-style exports such as
// LOG_DATA='s3://bucket/log_data' tend to carry.
func (c *ProjectConfig) normalize() {
	for _, p := range []*string{
		&c.Storage.LogData,
		&c.Storage.LogJSONPath,
		&c.Storage.SongData,
		&c.Storage.Region,
		&c.IAMRole.ARN,
		&c.Dialect,
	} {
		*p = TrimQuotes(*p)
	}
	c.Dialect = strings.ToLower(c.Dialect)
}

// TrimQuotes removes surrounding whitespace and one matching pair of single
// or double quotes.
func TrimQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '\'' || first == '"') {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// TimeoutDuration parses the timeout setting. Empty means no timeout.
func (c *ProjectConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("timeout %q: %w", c.Timeout, dwhetl.ErrInvalidConfig)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout %q must not be negative: %w", c.Timeout, dwhetl.ErrInvalidConfig)
	}
	return d, nil
}

// ValidateLoad reports every missing setting the load pipeline needs at once.
// Format checks on the values themselves happen when the catalog is built.
func (c *ProjectConfig) ValidateLoad() error {
	var errs []error
	required := []struct {
		value, name, env string
	}{
		{c.Storage.LogData, "storage.log_data", EnvLogData},
		{c.Storage.LogJSONPath, "storage.log_jsonpath", EnvLogJSONPath},
		{c.Storage.SongData, "storage.song_data", EnvSongData},
		{c.IAMRole.ARN, "iam_role.arn", EnvIAMRoleARN},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required (or set $%s)", r.name, r.env))
		}
	}
	if _, err := c.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", dwhetl.ErrInvalidConfig, errors.Join(errs...))
}
