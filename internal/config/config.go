// Package config provides configuration for the appdna tool.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage types.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config holds the configuration for document processing and snapshots.
type Config struct {
	// WorkspaceRoot is the first place the schema file is looked up
	WorkspaceRoot string `json:"workspace_root" yaml:"workspace_root"`

	// ResourceDir holds the schema shipped with the tool
	ResourceDir string `json:"resource_dir" yaml:"resource_dir"`

	// DataDir is the base directory for the snapshot catalog and local storage
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Snapshot configuration
	Snapshots SnapshotConfig `json:"snapshots" yaml:"snapshots"`

	// Storage configuration
	Storage StorageConfig `json:"storage" yaml:"storage"`
}

// SnapshotConfig holds snapshot history configuration.
type SnapshotConfig struct {
	// Enabled controls whether saves are snapshotted
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Prefix is the object path prefix snapshots are stored under
	Prefix string `json:"prefix" yaml:"prefix"`

	// Retain is the number of snapshots kept per document (0 keeps all)
	Retain int `json:"retain" yaml:"retain"`
}

// StorageConfig holds storage configuration.
type StorageConfig struct {
	// Type is the storage type: local, s3
	Type string `json:"type" yaml:"type"`

	// Path is the local storage path (for local type)
	Path string `json:"path" yaml:"path"`

	// S3 configuration (for s3 type)
	S3 S3Config `json:"s3" yaml:"s3"`
}

// S3Config holds S3 storage configuration.
type S3Config struct {
	// Bucket is the S3 bucket name
	Bucket string `json:"bucket" yaml:"bucket"`

	// Region is the AWS region
	Region string `json:"region" yaml:"region"`

	// Endpoint is the S3 endpoint (for S3-compatible storage)
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// UsePathStyle enables path-style addressing (MinIO, LocalStack)
	UsePathStyle bool `json:"use_path_style" yaml:"use_path_style"`
}

// DefaultConfig returns the default configuration for local use.
func DefaultConfig() *Config {
	return &Config{
		WorkspaceRoot: ".",
		ResourceDir:   "",
		DataDir:       "./.appdna",
		Snapshots: SnapshotConfig{
			Enabled: true,
			Prefix:  "snapshots",
			Retain:  50,
		},
		Storage: StorageConfig{
			Type: StorageLocal,
			Path: "",
		},
	}
}

// Resolve resolves relative paths and sets defaults based on DataDir.
func (c *Config) Resolve() {
	if c.DataDir == "" {
		c.DataDir = "./.appdna"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(c.DataDir, "storage")
	}
	if c.Snapshots.Prefix == "" {
		c.Snapshots.Prefix = "snapshots"
	}
	if c.ResourceDir == "" {
		c.ResourceDir = defaultResourceDir()
	}
}

// defaultResourceDir is the resources directory next to the executable.
func defaultResourceDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "resources"
	}
	return filepath.Join(filepath.Dir(exe), "resources")
}

// CatalogPath returns the path to the snapshot catalog database.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Storage.Type != StorageLocal && c.Storage.Type != StorageS3 {
		return fmt.Errorf("invalid storage type: %s (must be local or s3)", c.Storage.Type)
	}

	if c.Storage.Type == StorageS3 && c.Storage.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket is required when storage type is s3")
	}

	if c.Snapshots.Retain < 0 {
		return fmt.Errorf("snapshots.retain must not be negative, got %d", c.Snapshots.Retain)
	}

	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// envBindings maps APPDNA_* variables onto configuration fields.
var envBindings = []struct {
	name  string
	apply func(*Config, string)
}{
	{"APPDNA_WORKSPACE_ROOT", func(c *Config, v string) { c.WorkspaceRoot = v }},
	{"APPDNA_RESOURCE_DIR", func(c *Config, v string) { c.ResourceDir = v }},
	{"APPDNA_DATA_DIR", func(c *Config, v string) { c.DataDir = v }},
	{"APPDNA_SNAPSHOTS_ENABLED", func(c *Config, v string) { c.Snapshots.Enabled = envBool(v) }},
	{"APPDNA_SNAPSHOTS_PREFIX", func(c *Config, v string) { c.Snapshots.Prefix = v }},
	{"APPDNA_SNAPSHOTS_RETAIN", func(c *Config, v string) {
		if n, err := strconv.Atoi(v); err == nil {
			c.Snapshots.Retain = n
		}
	}},
	{"APPDNA_STORAGE_TYPE", func(c *Config, v string) { c.Storage.Type = v }},
	{"APPDNA_STORAGE_PATH", func(c *Config, v string) { c.Storage.Path = v }},
	{"APPDNA_S3_BUCKET", func(c *Config, v string) { c.Storage.S3.Bucket = v }},
	{"APPDNA_S3_REGION", func(c *Config, v string) { c.Storage.S3.Region = v }},
	{"APPDNA_S3_ENDPOINT", func(c *Config, v string) { c.Storage.S3.Endpoint = v }},
	{"APPDNA_S3_USE_PATH_STYLE", func(c *Config, v string) { c.Storage.S3.UsePathStyle = envBool(v) }},
}

// LoadFromEnv overrides cfg with every non-empty APPDNA_* variable.
// An unparsable APPDNA_SNAPSHOTS_RETAIN is ignored.
func LoadFromEnv(cfg *Config) {
	for _, b := range envBindings {
		if v := os.Getenv(b.name); v != "" {
			b.apply(cfg, v)
		}
	}
}

func envBool(v string) bool {
	return v == "true" || v == "1"
}

// LoadDotEnv loads variables from a .env file into the process
// environment. Variables already set are not overridden and a missing file
// is not an error. APPDNA_AWS_ACCESS_KEY_ID and APPDNA_AWS_SECRET_ACCESS_KEY
// are mapped onto the standard AWS credential variables.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	if v := os.Getenv("APPDNA_AWS_ACCESS_KEY_ID"); v != "" {
		os.Setenv("AWS_ACCESS_KEY_ID", v)
	}
	if v := os.Getenv("APPDNA_AWS_SECRET_ACCESS_KEY"); v != "" {
		os.Setenv("AWS_SECRET_ACCESS_KEY", v)
	}
	return nil
}

// EnsureDirectories creates all required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir}
	if c.Storage.Type == StorageLocal {
		dirs = append(dirs, c.Storage.Path)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
