package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/greerreNFL/nfelomarket-data/internal/lines"
	"github.com/greerreNFL/nfelomarket-data/internal/model"
)

// DB is the subset of pgxpool.Pool used by PostgresStore.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore keeps the lines table in a typed Postgres table whose
// columns are the snapshot catalog.
type PostgresStore struct {
	db      DB
	table   string
	columns []string
	logger  *slog.Logger
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a store over table. Call Migrate before first use.
func NewPostgresStore(db DB, table string, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{
		db:      db,
		table:   table,
		columns: lines.SnapshotColumns(),
		logger:  logger,
	}
}

// columnType maps a catalog column to its SQL type.
func columnType(col string) string {
	switch col {
	case "game_id":
		return "text PRIMARY KEY"
	case "season", "week":
		return "integer NOT NULL"
	}
	kind, _ := lines.ColumnKind(col)
	switch kind {
	case model.KindText:
		return "text"
	case model.KindTime:
		return "timestamptz"
	default:
		return "double precision"
	}
}

func (s *PostgresStore) ident() string {
	return pgx.Identifier{s.table}.Sanitize()
}

func (s *PostgresStore) createSQL() string {
	defs := make([]string, len(s.columns))
	for i, col := range s.columns {
		defs[i] = pgx.Identifier{col}.Sanitize() + " " + columnType(col)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", s.ident(), strings.Join(defs, ",\n\t"))
}

func (s *PostgresStore) columnList() string {
	quoted := make([]string, len(s.columns))
	for i, col := range s.columns {
		quoted[i] = pgx.Identifier{col}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}

func (s *PostgresStore) selectSQL() string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY season, week, game_id", s.columnList(), s.ident())
}

func (s *PostgresStore) insertSQL() string {
	params := make([]string, len(s.columns))
	for i := range s.columns {
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", s.ident(), s.columnList(), strings.Join(params, ", "))
}

// Migrate creates the table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, s.createSQL()); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Load reads every row. An empty table still reports the catalog columns.
func (s *PostgresStore) Load(ctx context.Context) (model.Table, error) {
	rows, err := s.db.Query(ctx, s.selectSQL())
	if err != nil {
		return model.Table{}, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	t := model.Table{Columns: append([]string(nil), s.columns...)}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return model.Table{}, fmt.Errorf("read %s: %w", s.table, err)
		}
		row := make(model.Row, len(s.columns))
		for i, col := range s.columns {
			v, err := fromDB(vals[i])
			if err != nil {
				return model.Table{}, fmt.Errorf("read %s.%s: %w", s.table, col, err)
			}
			row[col] = v
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return model.Table{}, fmt.Errorf("read %s: %w", s.table, err)
	}
	return t, nil
}

// Replace deletes every row and inserts t in one transaction. Columns of t
// outside the catalog are not stored.
func (s *PostgresStore) Replace(ctx context.Context, t model.Table) (err error) {
	for _, col := range t.Columns {
		if _, ok := lines.ColumnKind(col); !ok {
			s.logger.Warn("column not in lines schema, not stored", "column", col)
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrPersist, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, "DELETE FROM "+s.ident()); err != nil {
		return fmt.Errorf("%w: clear %s: %w", ErrPersist, s.table, err)
	}

	batch := &pgx.Batch{}
	insert := s.insertSQL()
	for _, r := range t.Rows {
		batch.Queue(insert, s.args(r)...)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range t.Rows {
		if _, err = results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("%w: insert row %d (%s): %w", ErrPersist, i, t.Rows[i].Get("game_id"), err)
		}
	}
	if err = results.Close(); err != nil {
		return fmt.Errorf("%w: insert: %w", ErrPersist, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrPersist, err)
	}

	s.logger.Debug("lines table replaced", "table", s.table, "rows", t.Len())
	return nil
}

func (s *PostgresStore) args(r model.Row) []any {
	out := make([]any, len(s.columns))
	for i, col := range s.columns {
		out[i] = toDB(col, r.Get(col))
	}
	return out
}

// toDB converts a cell to a pgx argument.
func toDB(col string, v model.Value) any {
	switch v.Kind() {
	case model.KindNumber:
		f, _ := v.Float()
		if col == "season" || col == "week" {
			return int32(f)
		}
		return f
	case model.KindText:
		s, _ := v.Str()
		return s
	case model.KindTime:
		t, _ := v.Timestamp()
		return t
	default:
		return nil
	}
}

// fromDB converts a value decoded by pgx to a cell.
func fromDB(v any) (model.Value, error) {
	switch v := v.(type) {
	case nil:
		return model.Null(), nil
	case string:
		return model.Text(v), nil
	case float64:
		return model.Number(v), nil
	case float32:
		return model.Number(float64(v)), nil
	case int16:
		return model.Number(float64(v)), nil
	case int32:
		return model.Number(float64(v)), nil
	case int64:
		return model.Number(float64(v)), nil
	case time.Time:
		return model.Time(v), nil
	default:
		return model.Null(), fmt.Errorf("unsupported value %T", v)
	}
}
