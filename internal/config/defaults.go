package config

import (
	"os"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultSupabaseTable    = "line-stream"
	DefaultAPITimeout       = 60 * time.Second
	DefaultMaxRetries       = 5
	DefaultQuotesBackend    = BackendSupabase
	DefaultQuotesTable      = "line_stream"
	DefaultPageSize         = 1000
	DefaultIncrementalLimit = 2000
	DefaultRebuildLimit     = 35000
	DefaultScheduleURL      = "https://raw.githubusercontent.com/nflverse/nfldata/master/data/games.csv"
	DefaultScheduleTimeout  = 60 * time.Second
	DefaultStorageBackend   = BackendCSV
	DefaultStoragePath      = "lines.csv"
	DefaultStorageTable     = "market_lines"
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 4
	DefaultMinConns         = 1
	DefaultTimezone         = "America/Los_Angeles"
	DefaultMetricsJob       = "nfelomarket_lines"
	DefaultIncrementalCron  = "*/30 * * * *"
	DefaultSchedulerPort    = 9090
)

// Environment variables consulted when supabase credentials are not in the
// config file.
const (
	EnvSupabaseURL = "SUPABASE_URL"
	EnvSupabaseKey = "SUPABASE_KEY"
)

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	// Supabase defaults
	if c.Supabase.URL == "" {
		c.Supabase.URL = os.Getenv(EnvSupabaseURL)
	}
	if c.Supabase.Key == "" {
		c.Supabase.Key = os.Getenv(EnvSupabaseKey)
	}
	if c.Supabase.Table == "" {
		c.Supabase.Table = DefaultSupabaseTable
	}
	if c.Supabase.Timeout == 0 {
		c.Supabase.Timeout = DefaultAPITimeout
	}
	if c.Supabase.MaxRetries == 0 {
		c.Supabase.MaxRetries = DefaultMaxRetries
	}

	// Quotes defaults
	if c.Quotes.Backend == "" {
		c.Quotes.Backend = DefaultQuotesBackend
	}
	if c.Quotes.Table == "" {
		c.Quotes.Table = DefaultQuotesTable
	}
	if c.Quotes.PageSize == 0 {
		c.Quotes.PageSize = DefaultPageSize
	}
	if c.Quotes.IncrementalLimit == 0 {
		c.Quotes.IncrementalLimit = DefaultIncrementalLimit
	}
	if c.Quotes.RebuildLimit == 0 {
		c.Quotes.RebuildLimit = DefaultRebuildLimit
	}

	// Schedule defaults
	if c.Schedule.URL == "" && c.Schedule.Path == "" {
		c.Schedule.URL = DefaultScheduleURL
	}
	if c.Schedule.Timeout == 0 {
		c.Schedule.Timeout = DefaultScheduleTimeout
	}

	// Storage defaults
	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultStorageBackend
	}
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultStoragePath
	}
	if c.Storage.Table == "" {
		c.Storage.Table = DefaultStorageTable
	}

	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	if c.Lines.Timezone == "" {
		c.Lines.Timezone = DefaultTimezone
	}

	if c.Metrics.Job == "" {
		c.Metrics.Job = DefaultMetricsJob
	}

	if c.Scheduler.Incremental == "" {
		c.Scheduler.Incremental = DefaultIncrementalCron
	}
	if c.Scheduler.Port == 0 {
		c.Scheduler.Port = DefaultSchedulerPort
	}
}
