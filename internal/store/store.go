package store

import "github.com/rdo34/phonebook/internal/model"

// Store defines persistence operations for phonebook records.
type Store interface {
	// Load returns one map per data row, keyed by the header column names.
	Load() ([]map[string]string, error)
	// Save rewrites the whole file with the given records.
	Save(records []model.Record) error
	Path() string
	// Created reports whether the last Load created a missing file.
	Created() bool
}
