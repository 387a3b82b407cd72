package config

import "time"

// Config is the root configuration for the lines job.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Supabase  SupabaseConfig  `yaml:"supabase"`
	Quotes    QuotesConfig    `yaml:"quotes"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DBConfig        `yaml:"database"`
	Lines     LinesConfig     `yaml:"lines"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// SupabaseConfig holds PostgREST settings for the line stream.
type SupabaseConfig struct {
	URL        string        `yaml:"url"` // falls back to $SUPABASE_URL
	Key        string        `yaml:"key"` // falls back to $SUPABASE_KEY
	Table      string        `yaml:"table"`
	Schema     string        `yaml:"schema"` // empty reads the public schema
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// Quote backends.
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendCSV      = "csv"
)

// QuotesConfig controls how the line stream is fetched.
type QuotesConfig struct {
	Backend          string `yaml:"backend"` // supabase or postgres
	Table            string `yaml:"table"`   // postgres backend only
	PageSize         int    `yaml:"page_size"`
	IncrementalLimit int    `yaml:"incremental_limit"`
	RebuildLimit     int    `yaml:"rebuild_limit"`
}

// ScheduleConfig locates the games table. Path wins over URL.
type ScheduleConfig struct {
	URL     string        `yaml:"url"`
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig locates the persisted lines table.
type StorageConfig struct {
	Backend string `yaml:"backend"` // csv or postgres
	Path    string `yaml:"path"`    // csv backend
	Table   string `yaml:"table"`   // postgres backend
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// LinesConfig overrides the open/last window parameters.
type LinesConfig struct {
	Timezone     string        `yaml:"timezone"`
	OpenWeekday  string        `yaml:"open_weekday"`
	OpenCutoff   time.Duration `yaml:"open_cutoff"`
	OpenLookback time.Duration `yaml:"open_lookback"`
	LastWindow   time.Duration `yaml:"last_window"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	PushgatewayURL  string    `yaml:"pushgateway_url"` // empty disables pushing
	Job             string    `yaml:"job"`
	DurationBuckets []float64 `yaml:"duration_buckets"` // seconds, ascending
	RuntimeMetrics  bool      `yaml:"runtime_metrics"`  // export Go and process collectors
}

// SchedulerConfig holds daemon mode settings.
type SchedulerConfig struct {
	Incremental string `yaml:"incremental"` // cron spec
	Rebuild     string `yaml:"rebuild"`     // cron spec, empty disables
	Port        int    `yaml:"port"`
}

// UsesDatabase reports whether any backend needs a Postgres connection.
func (c *Config) UsesDatabase() bool {
	return c.Quotes.Backend == BackendPostgres || c.Storage.Backend == BackendPostgres
}
