package store

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rdo34/phonebook/internal/model"
)

// CSVStore implements Store on a single comma-delimited file whose first row
// is the column header.
type CSVStore struct {
	path    string
	created bool
}

// NewCSVStore creates a store for path, creating its directory if needed.
func NewCSVStore(path string) (*CSVStore, error) {
	if path == "" {
		return nil, errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &CSVStore{path: path}, nil
}

// NewDefaultCSVStore resolves the default data file and returns a store.
func NewDefaultCSVStore() (*CSVStore, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return NewCSVStore(path)
}

func (s *CSVStore) Path() string { return s.path }

// Created reports whether the last Load had to create the file.
func (s *CSVStore) Created() bool { return s.created }

// Load reads every data row. A missing file is created with the header only;
// an empty or header-only file yields no rows.
func (s *CSVStore) Load() ([]map[string]string, error) {
	s.created = false
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := s.Save(nil); err != nil {
				return nil, fmt.Errorf("create %s: %w", s.path, err)
			}
			s.created = true
			return []map[string]string{}, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return []map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", s.path, err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	out := []map[string]string{}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, fmt.Errorf("read %s: %w", s.path, err)
		}
		m := make(map[string]string, len(header))
		for i := 0; i < len(header) && i < len(row); i++ {
			m[header[i]] = row[i]
		}
		out = append(out, m)
	}
	return out, nil
}

// Save atomically rewrites the file: declared header, then one row per record.
// An existing file keeps its permissions; a new one gets 0644.
func (s *CSVStore) Save(records []model.Record) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(s.path); err == nil {
		mode = fi.Mode().Perm()
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "phonebook-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	w := csv.NewWriter(tmp)
	if err := w.Write(model.Fields); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	for _, rec := range records {
		if err := w.Write(rec.Values()); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, s.path)
}

var _ Store = (*CSVStore)(nil)
