package app

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rdo34/phonebook/internal/model"
	"github.com/rdo34/phonebook/internal/store"
)

var (
	ErrEmpty      = errors.New("no data in the phonebook")
	ErrOutOfRange = errors.New("out of range")
)

// Row is a record together with its 1-based position in the whole book.
type Row struct {
	Index  int
	Record model.Record
}

// Page is a contiguous window over the book.
type Page struct {
	Number int
	Total  int
	Rows   []Row
}

// Book holds the ordered in-memory records of one phonebook file.
type Book struct {
	Store   store.Store
	Records []model.Record

	log     *zap.Logger
	lower   cases.Caser
	loaded  bool
	created bool
}

func New(s store.Store, log *zap.Logger) *Book {
	if log == nil {
		log = zap.NewNop()
	}
	return &Book{Store: s, log: log, lower: cases.Lower(language.Und)}
}

// Load appends every row of the backing file, in file order.
func (b *Book) Load() error {
	rows, err := b.Store.Load()
	if err != nil {
		b.log.Error("load failed", zap.String("path", b.Store.Path()), zap.Error(err))
		return fmt.Errorf("load %s: %w", b.Store.Path(), err)
	}
	for _, r := range rows {
		b.Add(r)
	}
	b.loaded = true
	b.created = b.Store.Created()
	b.log.Info("phonebook loaded", zap.String("path", b.Store.Path()), zap.Int("records", len(rows)), zap.Bool("created", b.created))
	return nil
}

// Loaded reports whether Load has succeeded.
func (b *Book) Loaded() bool { return b.loaded }

// Created reports whether Load had to create the backing file.
func (b *Book) Created() bool { return b.created }

// Save rewrites the backing file. The in-memory records are kept on failure.
func (b *Book) Save() error {
	if err := b.Store.Save(b.Records); err != nil {
		b.log.Error("save failed", zap.String("path", b.Store.Path()), zap.Error(err))
		return fmt.Errorf("save %s: %w", b.Store.Path(), err)
	}
	b.log.Info("phonebook saved", zap.String("path", b.Store.Path()), zap.Int("records", len(b.Records)))
	return nil
}

// Add appends a record built from fields; missing fields default to empty.
func (b *Book) Add(fields map[string]string) {
	b.Records = append(b.Records, model.FromMap(fields))
}

func (b *Book) Len() int { return len(b.Records) }

// At returns the record at a 1-based index.
func (b *Book) At(index int) (model.Record, error) {
	if index < 1 || index > len(b.Records) {
		return model.Record{}, ErrOutOfRange
	}
	return b.Records[index-1], nil
}

// TotalPages is ceil(len/pageSize).
func (b *Book) TotalPages(pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return (len(b.Records) + pageSize - 1) / pageSize
}

// Paginate returns page pageNumber (1-based) of size pageSize.
func (b *Book) Paginate(pageSize, pageNumber int) (Page, error) {
	return PageOf(b.Rows(), pageSize, pageNumber)
}

// Rows returns every record with its 1-based index.
func (b *Book) Rows() []Row {
	out := make([]Row, 0, len(b.Records))
	for i, r := range b.Records {
		out = append(out, Row{Index: i + 1, Record: r})
	}
	return out
}

// PageOf slices rows into page pageNumber of size pageSize, keeping each
// row's own index.
func PageOf(rows []Row, pageSize, pageNumber int) (Page, error) {
	if len(rows) == 0 {
		return Page{}, ErrEmpty
	}
	total := 0
	if pageSize > 0 {
		total = (len(rows) + pageSize - 1) / pageSize
	}
	if pageSize < 1 || pageNumber < 1 || pageNumber > total {
		return Page{Total: total}, ErrOutOfRange
	}
	start := (pageNumber - 1) * pageSize
	end := min(start+pageSize, len(rows))
	return Page{Number: pageNumber, Total: total, Rows: rows[start:end]}, nil
}

// EditField overwrites one field of the record at a 1-based index.
// An empty value keeps the current one.
func (b *Book) EditField(index int, field, value string) error {
	return b.EditFields(index, map[string]string{field: value})
}

// EditFields validates the index and every field name, then commits all
// non-empty values at once.
func (b *Book) EditFields(index int, values map[string]string) error {
	if index < 1 || index > len(b.Records) {
		return ErrOutOfRange
	}
	for f := range values {
		if !model.IsField(f) {
			return fmt.Errorf("%w: %q", model.ErrUnknownField, f)
		}
	}
	rec := &b.Records[index-1]
	for f, v := range values {
		if v != "" {
			_ = rec.Set(f, v)
		}
	}
	return nil
}

// Search returns, in book order, every record with a field containing term,
// compared case-insensitively. An empty term matches everything.
func (b *Book) Search(term string) []model.Record {
	rows := b.SearchRows(term)
	out := make([]model.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Record)
	}
	return out
}

// SearchRows is Search keeping each match's index in the book.
func (b *Book) SearchRows(term string) []Row {
	needle := b.lower.String(term)
	out := []Row{}
	for i, r := range b.Records {
		for _, v := range r.Values() {
			if strings.Contains(b.lower.String(v), needle) {
				out = append(out, Row{Index: i + 1, Record: r})
				break
			}
		}
	}
	return out
}
