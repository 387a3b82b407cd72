package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	switch c.Quotes.Backend {
	case BackendSupabase:
		if c.Supabase.URL == "" {
			return errors.New("supabase.url is required (or set " + EnvSupabaseURL + ")")
		}
		if c.Supabase.Key == "" {
			return errors.New("supabase.key is required (or set " + EnvSupabaseKey + ")")
		}
	case BackendPostgres:
	default:
		return fmt.Errorf("quotes.backend must be supabase or postgres, got %q", c.Quotes.Backend)
	}
	if c.Quotes.PageSize < 1 {
		return errors.New("quotes.page_size must be >= 1")
	}
	if c.Quotes.IncrementalLimit < 1 || c.Quotes.RebuildLimit < 1 {
		return errors.New("quotes limits must be >= 1")
	}

	switch c.Storage.Backend {
	case BackendCSV, BackendPostgres:
	default:
		return fmt.Errorf("storage.backend must be csv or postgres, got %q", c.Storage.Backend)
	}

	if c.UsesDatabase() {
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	}

	if _, err := time.LoadLocation(c.Lines.Timezone); err != nil {
		return fmt.Errorf("lines.timezone: %w", err)
	}
	if c.Lines.OpenWeekday != "" {
		if _, err := ParseWeekday(c.Lines.OpenWeekday); err != nil {
			return fmt.Errorf("lines.open_weekday: %w", err)
		}
	}
	if c.Lines.OpenCutoff < 0 || c.Lines.OpenCutoff > 24*time.Hour {
		return fmt.Errorf("lines.open_cutoff must be within a day, got %v", c.Lines.OpenCutoff)
	}
	if c.Lines.OpenLookback < 0 || c.Lines.LastWindow < 0 {
		return errors.New("lines windows must not be negative")
	}

	for i, b := range c.Metrics.DurationBuckets {
		if b <= 0 || (i > 0 && b <= c.Metrics.DurationBuckets[i-1]) {
			return fmt.Errorf("metrics.duration_buckets must be positive and ascending, got %v", c.Metrics.DurationBuckets)
		}
	}

	if c.Scheduler.Port < 1 || c.Scheduler.Port > 65535 {
		return fmt.Errorf("scheduler.port must be between 1 and 65535, got %d", c.Scheduler.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}

// ParseWeekday parses an English weekday name such as "Tuesday" or "tue".
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
