package ui

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdo34/phonebook/internal/app"
	"github.com/rdo34/phonebook/internal/model"
	"github.com/rdo34/phonebook/internal/store"
)

func newTestUI(t *testing.T, n, pageSize int) (*UI, *app.Book, *store.CSVStore) {
	t.Helper()
	cs, err := store.NewCSVStore(filepath.Join(t.TempDir(), "phonebook.csv"))
	require.NoError(t, err)
	b := app.New(cs, nil)
	require.NoError(t, b.Load())
	for i := 1; i <= n; i++ {
		b.Add(map[string]string{model.LastName: fmt.Sprintf("Last%d", i), model.Organization: fmt.Sprintf("Org%d", i%2)})
	}
	return New(b, pageSize, nil), b, cs
}

func listTexts(u *UI) []string {
	var out []string
	for i := 0; i < u.list.GetItemCount(); i++ {
		main, _ := u.list.GetItemText(i)
		out = append(out, main)
	}
	return out
}

func TestEmptyBook(t *testing.T) {
	u, _, _ := newTestUI(t, 0, 10)
	require.True(t, u.emptyState)
	require.Equal(t, 0, u.selectedIndex())
	require.Len(t, listTexts(u), 1)
}

func TestPaging(t *testing.T) {
	u, _, _ := newTestUI(t, 5, 2)
	require.Equal(t, 3, u.totalPages())
	require.Equal(t, []string{"1. Last1, , , Org1, , ", "2. Last2, , , Org0, , "}, listTexts(u))

	u.nextPage()
	u.nextPage()
	require.Equal(t, 3, u.page)
	require.Equal(t, []string{"5. Last5, , , Org1, , "}, listTexts(u))
	u.nextPage()
	require.Equal(t, 3, u.page)

	u.prevPage()
	require.Equal(t, 2, u.page)
	moveDown(u.list)
	require.Equal(t, 4, u.selectedIndex())
}

func TestFilterKeepsBookIndexes(t *testing.T) {
	u, _, _ := newTestUI(t, 5, 2)
	u.setFilter("org0")
	require.Equal(t, []string{"2. Last2, , , Org0, , ", "4. Last4, , , Org0, , "}, listTexts(u))
	require.Equal(t, 1, u.totalPages())

	u.setFilter("nobody")
	require.True(t, u.emptyState)

	u.setFilter("")
	require.Equal(t, 3, u.totalPages())
}

func TestSubmitAddAndEdit(t *testing.T) {
	u, b, cs := newTestUI(t, 2, 2)

	u.submit(0, map[string]string{model.LastName: "New, Person"})
	require.Equal(t, 3, b.Len())
	require.Equal(t, "New- Person", b.Records[2].LastName)
	require.Equal(t, 2, u.page)
	require.Equal(t, "Saved.", u.notice)

	u.submit(1, map[string]string{model.LastName: "", model.WorkPhone: "555"})
	require.Equal(t, model.Record{LastName: "Last1", Organization: "Org1", WorkPhone: "555"}, b.Records[0])

	rows, err := cs.Load()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "555", rows[0][model.WorkPhone])

	u.submit(9, map[string]string{model.LastName: "X"})
	require.Contains(t, u.notice, "Error")
}
