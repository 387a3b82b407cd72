// Package store persists the lines table between runs.
//
// Two backends exist: a CSV file (the historical format, read and written
// whole) and a typed Postgres table. Both replace the complete table on every
// run; neither supports partial updates.
package store

import (
	"context"
	"errors"

	"github.com/greerreNFL/nfelomarket-data/internal/model"
)

// ErrPersist wraps every failure to write the lines table.
var ErrPersist = errors.New("persist lines table")

// Store loads and replaces the persisted lines table.
type Store interface {
	// Load returns the persisted table. A store that has never been written
	// returns an empty table with no columns.
	Load(ctx context.Context) (model.Table, error)

	// Replace overwrites the persisted table with t.
	Replace(ctx context.Context, t model.Table) error
}
