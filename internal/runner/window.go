package runner

import (
	"fmt"
	"time"

	"github.com/greerreNFL/nfelomarket-data/internal/config"
	"github.com/greerreNFL/nfelomarket-data/internal/lines"
)

// WindowFromConfig builds the cohort window, starting from the defaults and
// applying any overrides that are set.
func WindowFromConfig(cfg config.LinesConfig) (lines.Window, error) {
	w, err := lines.DefaultWindow()
	if err != nil {
		return lines.Window{}, err
	}

	if cfg.Timezone != "" && cfg.Timezone != lines.DefaultLocation {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return lines.Window{}, fmt.Errorf("load location %s: %w", cfg.Timezone, err)
		}
		w.Location = loc
	}
	if cfg.OpenWeekday != "" {
		d, err := config.ParseWeekday(cfg.OpenWeekday)
		if err != nil {
			return lines.Window{}, err
		}
		w.OpenWeekday = d
	}
	if cfg.OpenCutoff > 0 {
		w.OpenCutoff = cfg.OpenCutoff
	}
	if cfg.OpenLookback > 0 {
		w.OpenLookback = cfg.OpenLookback
	}
	if cfg.LastWindow > 0 {
		w.LastWindow = cfg.LastWindow
	}
	return w, nil
}
