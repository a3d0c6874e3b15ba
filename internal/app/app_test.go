package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdo34/phonebook/internal/model"
	"github.com/rdo34/phonebook/internal/store"
)

// memStore keeps rows in memory and can be told to fail.
type memStore struct {
	rows    []map[string]string
	saved   []model.Record
	saveErr error
	loadErr error
	created bool
}

func (m *memStore) Load() ([]map[string]string, error) { return m.rows, m.loadErr }
func (m *memStore) Path() string                       { return "mem" }
func (m *memStore) Created() bool                      { return m.created }
func (m *memStore) Save(recs []model.Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append([]model.Record(nil), recs...)
	return nil
}

func bookWith(n int) *Book {
	b := New(&memStore{}, nil)
	for i := 1; i <= n; i++ {
		b.Add(map[string]string{model.LastName: fmt.Sprintf("Last%02d", i), model.FirstName: fmt.Sprintf("First%02d", i)})
	}
	return b
}

func TestAddDefaults(t *testing.T) {
	b := bookWith(0)
	b.Add(map[string]string{model.LastName: "Ivanov", model.FirstName: "Petr"})
	require.Equal(t, 1, b.Len())
	require.Equal(t, "Ivanov, Petr, , , , ", b.Records[0].String())
}

func TestPaginate(t *testing.T) {
	for _, total := range []int{1, 9, 10, 11, 25, 30} {
		b := bookWith(total)
		pages := b.TotalPages(10)
		require.Equal(t, (total+9)/10, pages)
		seen := 0
		for p := 1; p <= pages; p++ {
			page, err := b.Paginate(10, p)
			require.NoError(t, err)
			require.Equal(t, min(10, total-(p-1)*10), len(page.Rows), "total=%d page=%d", total, p)
			require.Equal(t, pages, page.Total)
			for _, r := range page.Rows {
				seen++
				require.Equal(t, seen, r.Index)
				require.Equal(t, b.Records[r.Index-1], r.Record)
			}
		}
		require.Equal(t, total, seen)
	}
}

func TestPaginateSinglePageSize(t *testing.T) {
	b := bookWith(2)

	p1, err := b.Paginate(1, 1)
	require.NoError(t, err)
	require.Equal(t, []Row{{Index: 1, Record: b.Records[0]}}, p1.Rows)

	p2, err := b.Paginate(1, 2)
	require.NoError(t, err)
	require.Equal(t, []Row{{Index: 2, Record: b.Records[1]}}, p2.Rows)

	_, err = b.Paginate(1, 3)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = b.Paginate(1, 0)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = b.Paginate(0, 1)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestPaginateEmpty(t *testing.T) {
	_, err := bookWith(0).Paginate(10, 1)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestEditField(t *testing.T) {
	b := bookWith(3)
	before := b.Records[1]

	require.NoError(t, b.EditField(2, model.WorkPhone, ""))
	require.Equal(t, before, b.Records[1])

	require.NoError(t, b.EditField(2, model.WorkPhone, "555-01"))
	require.Equal(t, "555-01", b.Records[1].WorkPhone)
	require.Equal(t, before.LastName, b.Records[1].LastName)

	snapshot := append([]model.Record(nil), b.Records...)
	for _, idx := range []int{0, -1, 4} {
		require.ErrorIs(t, b.EditField(idx, model.WorkPhone, "x"), ErrOutOfRange)
	}
	require.Equal(t, snapshot, b.Records)

	err := b.EditField(1, "email", "x")
	require.ErrorIs(t, err, model.ErrUnknownField)
	require.Equal(t, snapshot, b.Records)
}

func TestEditFieldsAllOrNothing(t *testing.T) {
	b := bookWith(1)
	before := b.Records[0]
	err := b.EditFields(1, map[string]string{model.LastName: "Changed", "nope": "x"})
	require.ErrorIs(t, err, model.ErrUnknownField)
	require.Equal(t, before, b.Records[0])

	require.NoError(t, b.EditFields(1, map[string]string{model.LastName: "Changed", model.FirstName: ""}))
	require.Equal(t, "Changed", b.Records[0].LastName)
	require.Equal(t, before.FirstName, b.Records[0].FirstName)
}

func TestSearch(t *testing.T) {
	b := bookWith(0)
	b.Add(map[string]string{model.LastName: "Иванов", model.Organization: "Acme"})
	b.Add(map[string]string{model.LastName: "Smith", model.WorkPhone: "12-34"})
	b.Add(map[string]string{model.LastName: "ACMEson"})

	assert.Equal(t, []model.Record{b.Records[0], b.Records[2]}, b.Search("acme"))
	assert.Equal(t, []model.Record{b.Records[0]}, b.Search("ИВАН"))
	assert.Equal(t, []model.Record{b.Records[1]}, b.Search("2-3"))
	assert.Equal(t, b.Records, b.Search(""))
	assert.Empty(t, b.Search("nobody"))
	// A match has to sit inside a single field.
	assert.Empty(t, b.Search("Smith, "))
}

func TestSearchLowercasesOnly(t *testing.T) {
	b := bookWith(0)
	b.Add(map[string]string{model.LastName: "Straße"})
	b.Add(map[string]string{model.LastName: "ПЁТР"})

	assert.Empty(t, b.Search("ss"))
	assert.Equal(t, []model.Record{b.Records[0]}, b.Search("STRAßE"))
	assert.Equal(t, []model.Record{b.Records[1]}, b.Search("пётр"))
}

func TestAt(t *testing.T) {
	b := bookWith(2)
	r, err := b.At(2)
	require.NoError(t, err)
	require.Equal(t, "Last02", r.LastName)
	_, err = b.At(3)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestSaveKeepsRecordsOnFailure(t *testing.T) {
	ms := &memStore{saveErr: errors.New("disk full")}
	b := New(ms, nil)
	b.Add(map[string]string{model.LastName: "Keep"})
	require.Error(t, b.Save())
	require.Equal(t, 1, b.Len())

	ms.saveErr = nil
	require.NoError(t, b.Save())
	require.Equal(t, b.Records, ms.saved)
}

func TestLoadError(t *testing.T) {
	b := New(&memStore{loadErr: errors.New("boom")}, nil)
	require.Error(t, b.Load())
	require.Zero(t, b.Len())
	require.False(t, b.Loaded())
}

func TestLoadReportsCreated(t *testing.T) {
	b := New(&memStore{created: true}, nil)
	require.False(t, b.Loaded())
	require.NoError(t, b.Load())
	require.True(t, b.Loaded())
	require.True(t, b.Created())

	b = New(&memStore{rows: []map[string]string{{model.LastName: "A"}}}, nil)
	require.NoError(t, b.Load())
	require.True(t, b.Loaded())
	require.False(t, b.Created())
}

func TestRoundTripThroughFile(t *testing.T) {
	cs, err := store.NewCSVStore(filepath.Join(t.TempDir(), "phonebook.csv"))
	require.NoError(t, err)

	b := New(cs, nil)
	require.NoError(t, b.Load())
	require.Zero(t, b.Len())
	b.Add(map[string]string{model.LastName: "Ivanov", model.FirstName: "Petr", model.PersonalPhone: "8-900"})
	b.Add(map[string]string{model.Organization: "Horns and Hooves"})
	require.NoError(t, b.EditField(2, model.WorkPhone, "77"))
	require.NoError(t, b.Save())

	fresh := New(cs, nil)
	require.NoError(t, fresh.Load())
	require.Equal(t, b.Records, fresh.Records)
}

func TestSearchRowsAndPageOf(t *testing.T) {
	b := bookWith(5)
	b.Records[3].Organization = "Target"
	b.Records[4].WorkPhone = "target-1"

	rows := b.SearchRows("TARGET")
	require.Equal(t, []int{4, 5}, []int{rows[0].Index, rows[1].Index})

	p, err := PageOf(rows, 1, 2)
	require.NoError(t, err)
	require.Equal(t, 2, p.Total)
	require.Equal(t, 5, p.Rows[0].Index)

	_, err = PageOf(nil, 1, 1)
	require.ErrorIs(t, err, ErrEmpty)
}
