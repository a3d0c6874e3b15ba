package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/rdo34/phonebook/internal/app"
	"github.com/rdo34/phonebook/internal/model"
)

const maxLine = 1 << 20

const menu = `Enter 1 to add a record to the phonebook
Enter 2 to browse and edit the phonebook
Enter 3 to search the phonebook
Enter 4 to exit
`

// Session is the line-oriented text menu over a Book.
type Session struct {
	book     *app.Book
	pageSize int
	in       *bufio.Scanner
	out      io.Writer
	log      *zap.Logger
}

func New(b *app.Book, pageSize int, in io.Reader, out io.Writer, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	return &Session{book: b, pageSize: pageSize, in: sc, out: out, log: log}
}

// Run shows the menu until the user exits or input ends.
func (s *Session) Run() error {
	switch {
	case s.book.Created():
		s.printf("File created with the default header.\n")
	case s.book.Loaded():
		s.printf("Data loaded.\n")
	}
	for {
		line, ok := s.prompt(menu)
		if !ok {
			return s.in.Err()
		}
		switch strings.TrimSpace(line) {
		case "1":
			if !s.add() {
				return s.in.Err()
			}
		case "2":
			if !s.browse() {
				return s.in.Err()
			}
		case "3":
			if !s.search() {
				return s.in.Err()
			}
		case "4":
			return nil
		default:
			s.printf("Invalid choice. Expected a number from 1 to 4\n")
		}
	}
}

func (s *Session) add() bool {
	fields := make(map[string]string, len(model.Fields))
	for _, f := range model.Fields {
		v, ok := s.prompt(model.Label(f) + ": ")
		if !ok {
			return false
		}
		fields[f] = model.Sanitize(v)
	}
	s.book.Add(fields)
	s.save()
	return true
}

// browse runs the edit workflow and saves once it is done.
func (s *Session) browse() bool {
	flow := app.NewEditFlow(s.book, s.pageSize)
	if flow.Start() == app.NoData {
		s.printf("No data in the phonebook.\n")
		s.save()
		return true
	}
	for flow.State() != app.Done {
		var line string
		var ok bool
		switch flow.State() {
		case app.SelectingPage:
			line, ok = s.prompt(fmt.Sprintf("Enter page number (1-%d) or '0' to exit: ", flow.TotalPages()))
		case app.ViewingPage:
			for _, r := range flow.View().Rows {
				s.printf("%d. %s\n", r.Index, r.Record)
			}
			continue
		case app.SelectingRow:
			line, ok = s.prompt("Enter row number to edit or '0' to go back: ")
		case app.EditingFields:
			field, rec := flow.Field()
			if field == model.Fields[0] {
				s.printf("Enter new values (leave blank to keep the current one):\n")
			}
			cur, _ := rec.Get(field)
			line, ok = s.prompt(fmt.Sprintf("%s - now: %s ", model.Label(field), cur))
			line = model.Sanitize(line)
		}
		if !ok {
			s.save()
			return false
		}
		switch flow.Step(line) {
		case app.InvalidInput:
			s.log.Debug("invalid input", zap.String("state", flow.State().String()), zap.String("input", line))
		case app.OutOfRange:
			s.printf("Number out of range.\n")
		case app.NoData:
			s.printf("No data in the phonebook.\n")
		case app.Committed:
			s.printf("Record saved.\n")
		}
	}
	s.save()
	return true
}

func (s *Session) search() bool {
	term, ok := s.prompt("Search for: ")
	if !ok {
		return false
	}
	results := s.book.Search(term)
	if len(results) == 0 {
		s.printf("Record not found\n")
		return true
	}
	s.printf("Search results:\n")
	for _, r := range results {
		s.printf("%s\n", r)
	}
	s.printf("%s\n", strings.Repeat("-", 30))
	_, ok = s.prompt("Press Enter to continue")
	return ok
}

func (s *Session) save() {
	if err := s.book.Save(); err != nil {
		s.printf("Error while saving data: %v\n", err)
		return
	}
	s.printf("Data saved to file.\n")
}

func (s *Session) prompt(msg string) (string, bool) {
	fmt.Fprint(s.out, msg)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimRight(s.in.Text(), "\r"), true
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
