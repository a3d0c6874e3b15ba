package app

import (
	"strconv"
	"strings"

	"github.com/rdo34/phonebook/internal/model"
)

// State is a step of the browse-and-edit workflow.
type State int

const (
	SelectingPage State = iota
	ViewingPage
	SelectingRow
	EditingFields
	Done
)

func (s State) String() string {
	switch s {
	case SelectingPage:
		return "selecting page"
	case ViewingPage:
		return "viewing page"
	case SelectingRow:
		return "selecting row"
	case EditingFields:
		return "editing fields"
	case Done:
		return "done"
	}
	return "unknown"
}

// Result tells the caller how a step went and whether to re-prompt.
type Result int

const (
	OK Result = iota
	InvalidInput
	OutOfRange
	NoData
	Committed
)

// EditFlow drives page selection, row selection and field editing over a Book.
// Row numbers are positions in the whole book, not on the page.
type EditFlow struct {
	book     *Book
	pageSize int
	state    State
	page     Page
	row      int
	field    int
	pending  map[string]string
}

// NewEditFlow starts in SelectingPage, or in Done when the book is empty.
func NewEditFlow(b *Book, pageSize int) *EditFlow {
	f := &EditFlow{book: b, pageSize: pageSize}
	if b.Len() == 0 {
		f.state = Done
	}
	return f
}

func (f *EditFlow) State() State { return f.state }

// TotalPages is the upper bound accepted at page selection.
func (f *EditFlow) TotalPages() int { return f.book.TotalPages(f.pageSize) }

// Start reports NoData for an empty book and OK otherwise.
func (f *EditFlow) Start() Result {
	if f.book.Len() == 0 {
		f.state = Done
		return NoData
	}
	return OK
}

// View returns the selected page and moves on to row selection.
func (f *EditFlow) View() Page {
	if f.state == ViewingPage {
		f.state = SelectingRow
	}
	return f.page
}

// Field is the field currently being edited and the selected record.
func (f *EditFlow) Field() (string, model.Record) {
	rec, _ := f.book.At(f.row)
	if f.state != EditingFields {
		return "", rec
	}
	return model.Fields[f.field], rec
}

// Step feeds one line of user input to the current state.
func (f *EditFlow) Step(input string) Result {
	switch f.state {
	case SelectingPage:
		n, ok := parseNumber(input)
		if !ok {
			return InvalidInput
		}
		if n == 0 {
			f.state = Done
			return OK
		}
		p, err := f.book.Paginate(f.pageSize, n)
		if err != nil {
			if err == ErrEmpty {
				f.state = Done
				return NoData
			}
			return OutOfRange
		}
		f.page = p
		f.state = ViewingPage
		return OK
	case SelectingRow:
		n, ok := parseNumber(input)
		if !ok {
			return InvalidInput
		}
		if n == 0 {
			f.state = SelectingPage
			return OK
		}
		if n < 0 || n > f.book.Len() {
			return OutOfRange
		}
		f.row = n
		f.field = 0
		f.pending = make(map[string]string, len(model.Fields))
		f.state = EditingFields
		return OK
	case EditingFields:
		f.pending[model.Fields[f.field]] = input
		f.field++
		if f.field < len(model.Fields) {
			return OK
		}
		if err := f.book.EditFields(f.row, f.pending); err != nil {
			f.state = SelectingPage
			return OutOfRange
		}
		f.pending = nil
		f.state = SelectingPage
		return Committed
	case ViewingPage:
		// The page has to be shown with View before a row can be chosen.
		return InvalidInput
	}
	return OK
}

func parseNumber(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}
