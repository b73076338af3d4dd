// Package config resolves the process configuration once at startup.
// Values come from the environment (optionally seeded from a local .env
// file) and are passed explicitly to the components that need them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultDataset is the BigQuery dataset holding the destination table.
	DefaultDataset = "dataflow"

	// DefaultPort is the port the function server listens on.
	DefaultPort = "8080"

	// DefaultSink is the record destination used when SINK_BACKEND is unset.
	DefaultSink = "bigquery"

	// DefaultSQLitePath is the database file of the sqlite sink.
	DefaultSQLitePath = "dataflow.db"

	// DefaultBQWriteMode writes BigQuery records with one MERGE each.
	DefaultBQWriteMode = "merge"
)

// Config holds everything the function needs to build its clients.
type Config struct {
	// ProjectID is the Google Cloud project for BigQuery and Pub/Sub.
	ProjectID string

	// Dataset and Table locate the destination table.
	Dataset string
	Table   string

	// SinkBackend selects the record destination: bigquery, postgres,
	// sqlite or memory.
	SinkBackend string
	DatabaseURL string
	SQLitePath  string

	// BQWriteMode is merge (upsert per record) or stream (inserter with
	// record_id as insert id).
	BQWriteMode string

	// NotionToken and NotionDatabaseID enable the optional summary mirror.
	NotionToken      string
	NotionDatabaseID string

	LogFormat string
	LogLevel  string
	Port      string
}

// Load reads and validates the configuration.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Read reads configuration from the environment without validating it. A
// .env file in the working directory is loaded first when present; it never
// overrides variables that are already set.
func Read() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config load: reading .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	// The table name keeps the variable the original deployment used.
	_ = v.BindEnv("destination_table", "DESTINATION_TABLE", "DDB_TABLE")
	_ = v.BindEnv("project_id", "GCP_PROJECT", "GOOGLE_CLOUD_PROJECT")
	_ = v.BindEnv("dataset", "BQ_DATASET")
	_ = v.BindEnv("sink_backend", "SINK_BACKEND")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("sqlite_path", "SQLITE_PATH")
	_ = v.BindEnv("bq_write_mode", "BQ_WRITE_MODE")
	_ = v.BindEnv("notion_token", "NOTION_TOKEN")
	_ = v.BindEnv("notion_database_id", "NOTION_DATABASE_ID")
	_ = v.BindEnv("log_format", "LOG_FORMAT")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("port", "PORT")

	v.SetDefault("dataset", DefaultDataset)
	v.SetDefault("sink_backend", DefaultSink)
	v.SetDefault("sqlite_path", DefaultSQLitePath)
	v.SetDefault("bq_write_mode", DefaultBQWriteMode)
	v.SetDefault("log_format", "json")
	v.SetDefault("log_level", "info")
	v.SetDefault("port", DefaultPort)

	cfg := &Config{
		ProjectID:        strings.TrimSpace(v.GetString("project_id")),
		Dataset:          strings.TrimSpace(v.GetString("dataset")),
		Table:            strings.TrimSpace(v.GetString("destination_table")),
		SinkBackend:      strings.ToLower(strings.TrimSpace(v.GetString("sink_backend"))),
		DatabaseURL:      strings.TrimSpace(v.GetString("database_url")),
		SQLitePath:       strings.TrimSpace(v.GetString("sqlite_path")),
		BQWriteMode:      strings.ToLower(strings.TrimSpace(v.GetString("bq_write_mode"))),
		NotionToken:      strings.TrimSpace(v.GetString("notion_token")),
		NotionDatabaseID: strings.TrimSpace(v.GetString("notion_database_id")),
		LogFormat:        v.GetString("log_format"),
		LogLevel:         v.GetString("log_level"),
		Port:             v.GetString("port"),
	}

	return cfg, nil
}

// Validate checks the settings every entrypoint that writes records needs.
func (c *Config) Validate() error {
	if c.Table == "" {
		return errors.New("DESTINATION_TABLE (or DDB_TABLE) is required")
	}
	return c.ValidateOptions()
}

// ValidateOptions checks every setting except the destination table, for
// commands that never touch it.
func (c *Config) ValidateOptions() error {
	if c.Dataset == "" {
		return errors.New("BQ_DATASET must not be empty")
	}
	switch c.SinkBackend {
	case "", "bigquery", "sqlite", "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres sink")
		}
	default:
		return fmt.Errorf("SINK_BACKEND %q is not one of bigquery, postgres, sqlite, memory", c.SinkBackend)
	}
	switch c.BQWriteMode {
	case "", "merge", "stream":
	default:
		return fmt.Errorf("BQ_WRITE_MODE %q is not one of merge, stream", c.BQWriteMode)
	}
	if (c.NotionToken == "") != (c.NotionDatabaseID == "") {
		return errors.New("NOTION_TOKEN and NOTION_DATABASE_ID must be set together")
	}
	return nil
}

// ValidateCloud checks the settings needed to construct cloud clients.
func (c *Config) ValidateCloud() error {
	if c.ProjectID == "" {
		return errors.New("GCP_PROJECT (or GOOGLE_CLOUD_PROJECT) is required")
	}
	return nil
}

// NotionEnabled reports whether summaries are mirrored into Notion.
func (c *Config) NotionEnabled() bool {
	return c.NotionToken != "" && c.NotionDatabaseID != ""
}
