package store

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/greerreNFL/nfelomarket-data/internal/model"
)

// CSVStore keeps the lines table in a single CSV file.
type CSVStore struct {
	path   string
	logger *slog.Logger
}

var _ Store = (*CSVStore)(nil)

// NewCSVStore creates a store backed by the file at path.
func NewCSVStore(path string, logger *slog.Logger) *CSVStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVStore{path: path, logger: logger}
}

// Path returns the file location.
func (s *CSVStore) Path() string { return s.path }

// Load reads the file. A missing file is an empty table. A leading unnamed
// column (a pandas index, "" or "Unnamed: 0") is dropped.
func (s *CSVStore) Load(_ context.Context) (model.Table, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("no lines file yet, starting empty", "path", s.path)
		return model.Table{}, nil
	}
	if err != nil {
		return model.Table{}, fmt.Errorf("open lines file: %w", err)
	}
	defer f.Close()

	t, err := readTable(f)
	if err != nil {
		return model.Table{}, fmt.Errorf("read lines file %s: %w", s.path, err)
	}
	return t, nil
}

func readTable(r io.Reader) (model.Table, error) {
	br := bufio.NewReader(r)
	if bom, _ := br.Peek(3); len(bom) == 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		br.Discard(3)
	}
	cr := csv.NewReader(br)

	header, err := cr.Read()
	if err == io.EOF {
		return model.Table{}, nil
	}
	if err != nil {
		return model.Table{}, fmt.Errorf("header: %w", err)
	}

	skip := 0
	if len(header) > 0 && (header[0] == "" || strings.HasPrefix(header[0], "Unnamed:")) {
		skip = 1
	}
	t := model.Table{Columns: append([]string(nil), header[skip:]...)}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.Table{}, fmt.Errorf("line %d: %w", line, err)
		}

		row := make(model.Row, len(t.Columns))
		for i, col := range t.Columns {
			v, err := parseCell(col, rec[i+skip])
			if err != nil {
				return model.Table{}, fmt.Errorf("line %d: %w", line, err)
			}
			row[col] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Replace writes t to a temporary file next to the target and renames it
// into place, so a failed write leaves the previous file intact.
func (s *CSVStore) Replace(_ context.Context, t model.Table) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create directory %s: %w", ErrPersist, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %w", ErrPersist, dir, err)
	}
	defer os.Remove(tmp.Name())

	if err := writeTable(tmp, t); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %w", ErrPersist, tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync %s: %w", ErrPersist, tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrPersist, tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: rename into %s: %w", ErrPersist, s.path, err)
	}

	s.logger.Debug("lines file written", "path", s.path, "rows", t.Len())
	return nil
}

func writeTable(w io.Writer, t model.Table) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)

	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	rec := make([]string, len(t.Columns))
	for _, r := range t.Rows {
		for i, col := range t.Columns {
			rec[i] = r.Get(col).String()
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}
