package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/rdo34/phonebook/internal/app"
	"github.com/rdo34/phonebook/internal/model"
)

const DefaultControls = "[a] Add  [e] Edit  [/] Search  [ [ / ] ] Page  [j/k] Move  [?] Help"

type UI struct {
	app        *tview.Application
	grid       *tview.Grid
	list       *tview.List
	book       *app.Book
	log        *zap.Logger
	pageSize   int
	page       int
	filter     string
	rows       []app.Row // rows on the current page
	emptyState bool
	pages      *tview.Pages
	titleLeft  *tview.TextView
	titleRight *tview.TextView
	controls   *tview.TextView
	notice     string

	// Inline input area (bottom, above controls)
	inputActive    bool
	inputPrimitive tview.Primitive
}

// New constructs the TUI over an already loaded book.
func New(b *app.Book, pageSize int, log *zap.Logger) *UI {
	if log == nil {
		log = zap.NewNop()
	}
	if pageSize < 1 {
		pageSize = 10
	}
	appView := tview.NewApplication()

	titleLeft := tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignLeft)
	titleRight := tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignRight)
	titleGrid := tview.NewGrid().SetRows(1).SetColumns(0, 0)
	titleGrid.AddItem(titleLeft, 0, 0, 1, 1, 0, 0, false)
	titleGrid.AddItem(titleRight, 0, 1, 1, 1, 0, 0, false)
	titleGrid.SetBorder(false)
	headerRule := tview.NewTextView().SetDynamicColors(true)
	headerRule.SetText("[green]" + strings.Repeat("─", 200))
	controls := tview.NewTextView().SetTextAlign(tview.AlignCenter)

	list := tview.NewList().ShowSecondaryText(false)

	grid := tview.NewGrid().
		SetRows(1, 1, 0, 0, 3). // header, rule, list, (hidden input), controls
		SetColumns(0, 100, 0).
		AddItem(titleGrid, 0, 0, 1, 3, 0, 0, false).
		AddItem(headerRule, 1, 0, 1, 3, 0, 0, false).
		AddItem(controls, 4, 0, 1, 3, 0, 0, false)
	grid.AddItem(list, 2, 1, 1, 1, 0, 0, true)

	u := &UI{app: appView, grid: grid, list: list, book: b, log: log, pageSize: pageSize, page: 1,
		titleLeft: titleLeft, titleRight: titleRight, controls: controls}
	u.refreshList()

	grid.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Let the focused input or form handle keys while it is open.
		if u.inputActive {
			return event
		}
		switch event.Key() {
		case tcell.KeyEscape:
			if u.filter != "" {
				u.setFilter("")
				return nil
			}
			appView.Stop()
			return nil
		case tcell.KeyPgDn:
			u.nextPage()
			return nil
		case tcell.KeyPgUp:
			u.prevPage()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'j':
				if !u.emptyState {
					moveDown(list)
				}
				return nil
			case 'k':
				if !u.emptyState {
					moveUp(list)
				}
				return nil
			case ']':
				u.nextPage()
				return nil
			case '[':
				u.prevPage()
				return nil
			case '/':
				u.showSearch()
				return nil
			case '?':
				u.showHelp()
				return nil
			case 'a':
				u.showRecordForm(0)
				return nil
			case 'e':
				if idx := u.selectedIndex(); idx > 0 {
					u.showRecordForm(idx)
				}
				return nil
			}
		}
		return event
	})

	pages := tview.NewPages()
	pages.AddPage("main", grid, true, true)
	u.pages = pages

	return u
}

// Run starts the application event loop.
func (u *UI) Run() error {
	return u.app.SetRoot(u.pages, true).SetFocus(u.list).Run()
}

// visible returns every row matching the current search filter.
func (u *UI) visible() []app.Row {
	if u.filter == "" {
		return u.book.Rows()
	}
	return u.book.SearchRows(u.filter)
}

func (u *UI) totalPages() int {
	n := len(u.visible())
	return (n + u.pageSize - 1) / u.pageSize
}

// refreshList rebuilds the list for the current page, clamping the page into range.
func (u *UI) refreshList() {
	prevIdx := u.list.GetCurrentItem()
	u.list.Clear()
	total := u.totalPages()
	u.page = max(1, min(u.page, total))
	p, err := app.PageOf(u.visible(), u.pageSize, u.page)
	if err != nil {
		u.rows = nil
		msg := "⟂ The phonebook is empty — press 'a' to add"
		if u.filter != "" {
			msg = "⟂ Nothing matches '" + u.filter + "' — press Esc to clear"
		}
		u.list.AddItem(msg, "", 0, nil)
		u.emptyState = true
		u.list.SetCurrentItem(0)
		u.updateStatus()
		return
	}
	u.rows = p.Rows
	for _, r := range p.Rows {
		u.list.AddItem(formatRow(r), "", 0, nil)
	}
	u.emptyState = false
	if prevIdx >= len(p.Rows) {
		prevIdx = len(p.Rows) - 1
	}
	u.list.SetCurrentItem(max(prevIdx, 0))
	u.updateStatus()
}

func (u *UI) updateStatus() {
	u.titleLeft.SetText("[red::b]Phonebook[-]")
	right := strconv.Itoa(u.book.Len()) + " records"
	if total := u.totalPages(); total > 0 {
		right = "Page " + strconv.Itoa(u.page) + "/" + strconv.Itoa(total) + "  " + right
	}
	u.titleRight.SetText(right)

	if u.inputActive {
		u.controls.SetText("[enter] Confirm  [esc] Cancel")
		return
	}
	text := DefaultControls
	if u.filter != "" {
		text += "    Search: " + u.filter + "  [esc] Clear"
	}
	if u.notice != "" {
		text = u.notice + "  " + text
	}
	u.controls.SetText(text)
}

func (u *UI) nextPage() {
	if u.page < u.totalPages() {
		u.page++
		u.list.SetCurrentItem(0)
		u.refreshList()
	}
}

func (u *UI) prevPage() {
	if u.page > 1 {
		u.page--
		u.list.SetCurrentItem(0)
		u.refreshList()
	}
}

func (u *UI) setFilter(q string) {
	u.filter = strings.TrimSpace(q)
	u.page = 1
	u.refreshList()
}

// selectedIndex is the book index of the highlighted row, or 0.
func (u *UI) selectedIndex() int {
	idx := u.list.GetCurrentItem()
	if u.emptyState || idx < 0 || idx >= len(u.rows) {
		return 0
	}
	return u.rows[idx].Index
}

// submit adds a record (index 0) or edits the record at index, then saves.
// Blank values keep the current ones on edit.
func (u *UI) submit(index int, values map[string]string) {
	for f, v := range values {
		values[f] = model.Sanitize(v)
	}
	if index == 0 {
		u.book.Add(values)
		u.page = u.book.TotalPages(u.pageSize)
		u.filter = ""
	} else if err := u.book.EditFields(index, values); err != nil {
		u.log.Warn("edit failed", zap.Int("index", index), zap.Error(err))
		u.notice = "Error: " + err.Error()
		u.refreshList()
		return
	}
	if err := u.book.Save(); err != nil {
		u.notice = "Error: " + err.Error()
	} else {
		u.notice = "Saved."
	}
	u.refreshList()
}

// Dialogs and actions
func (u *UI) showSearch() {
	field := tview.NewInputField().SetLabel("Search: ").SetFieldWidth(40).SetText(u.filter)
	field.SetBorder(false)
	styleInputField(field)
	field.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			u.hideInput()
			return nil
		case tcell.KeyEnter:
			text := field.GetText()
			u.hideInput()
			u.setFilter(text)
			return nil
		}
		return event
	})
	u.showInput(field)
}

// showRecordForm opens the add form (index 0) or the edit form for a record.
func (u *UI) showRecordForm(index int) {
	title := " Add record "
	var current model.Record
	if index > 0 {
		rec, err := u.book.At(index)
		if err != nil {
			return
		}
		current = rec
		title = " Edit record " + strconv.Itoa(index) + " (blank keeps current) "
	}

	form := tview.NewForm()
	inputs := make([]*tview.InputField, 0, len(model.Fields))
	for _, f := range model.Fields {
		in := tview.NewInputField().SetLabel(model.Label(f)).SetFieldWidth(40)
		if v, _ := current.Get(f); v != "" {
			in.SetPlaceholder(v)
		}
		styleInputField(in)
		inputs = append(inputs, in)
		form.AddFormItem(in)
	}
	closeForm := func() {
		u.pages.RemovePage("record-form")
		u.inputActive = false
		u.app.SetFocus(u.list)
		u.updateStatus()
	}
	form.AddButton("Save", func() {
		values := make(map[string]string, len(inputs))
		for i, in := range inputs {
			values[model.Fields[i]] = in.GetText()
		}
		closeForm()
		u.submit(index, values)
	})
	form.AddButton("Cancel", closeForm)
	form.SetCancelFunc(closeForm)
	form.SetBorder(true).SetTitle(title)

	u.pages.AddPage("record-form", center(64, len(model.Fields)*2+5, form), true, true)
	u.inputActive = true
	u.app.SetFocus(form)
	u.updateStatus()
}

func (u *UI) showHelp() {
	lines := []string{
		"[red::b]Phonebook[-] — Help",
		"",
		"Movement:",
		"  j/k   [ Prev page   ] Next page   PgUp/PgDn",
		"",
		"Records:",
		"  a Add   e Edit selected (blank fields keep their value)",
		"",
		"Search:",
		"  / Case-insensitive search over every field   Esc Clear",
		"",
		"Close: Esc",
	}
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true).
		SetText(strings.Join(lines, "\n")).
		SetTextAlign(tview.AlignLeft)
	tv.SetBorder(false)
	tv.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Rune() == 'q' {
			u.pages.RemovePage("help")
			u.app.SetFocus(u.list)
			return nil
		}
		// Swallow other keys so the list doesn't react while help is open
		return nil
	})
	u.pages.AddPage("help", pad(wrapWithRules(tv), 1, 1), true, true)
	u.app.SetFocus(tv)
}

// center returns a centered primitive with a fixed size.
func center(w, h int, p tview.Primitive) tview.Primitive {
	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(tview.NewFlex().
			AddItem(tview.NewBox(), 0, 1, false).
			AddItem(p, w, 0, true).
			AddItem(tview.NewBox(), 0, 1, false),
			h, 0, true).
		AddItem(tview.NewBox(), 0, 1, false)
}

func moveDown(l *tview.List) {
	idx := l.GetCurrentItem()
	if idx < l.GetItemCount()-1 {
		l.SetCurrentItem(idx + 1)
	}
}

func moveUp(l *tview.List) {
	idx := l.GetCurrentItem()
	if idx > 0 {
		l.SetCurrentItem(idx - 1)
	}
}

func formatRow(r app.Row) string {
	return strconv.Itoa(r.Index) + ". " + tview.Escape(r.Record.String())
}

// Inline input helpers
func (u *UI) showInput(p tview.Primitive) {
	if u.inputActive && u.inputPrimitive != nil {
		u.grid.RemoveItem(u.inputPrimitive)
	}
	container := wrapWithRules(p)
	u.inputPrimitive = container
	u.inputActive = true
	u.grid.SetRows(1, 1, 0, 3, 3)
	u.grid.AddItem(container, 3, 1, 1, 1, 0, 0, true)
	u.app.SetFocus(p)
	u.updateStatus()
}

func (u *UI) hideInput() {
	if u.inputPrimitive != nil {
		u.grid.RemoveItem(u.inputPrimitive)
	}
	u.inputActive = false
	u.inputPrimitive = nil
	u.grid.SetRows(1, 1, 0, 0, 3)
	u.app.SetFocus(u.list)
	u.updateStatus()
}

// styleInputField applies consistent styling to input fields
func styleInputField(f *tview.InputField) {
	f.SetBackgroundColor(tcell.ColorDefault)
	f.SetFieldBackgroundColor(tcell.ColorDefault)
	f.SetBorderAttributes(tcell.AttrNone)
}

// wrapWithRules surrounds a primitive with a simple top and bottom horizontal rule.
func wrapWithRules(p tview.Primitive) tview.Primitive {
	top := tview.NewTextView().SetDynamicColors(true)
	bottom := tview.NewTextView().SetDynamicColors(true)
	line := "[green]" + strings.Repeat("─", 200)
	top.SetText(line)
	bottom.SetText(line)
	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 1, 0, false).
		AddItem(p, 0, 1, true).
		AddItem(bottom, 1, 0, false)
}

// pad adds horizontal and vertical padding around a primitive while letting it fill remaining space.
func pad(p tview.Primitive, hpad, vpad int) tview.Primitive {
	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(tview.NewBox(), vpad, 0, false).
		AddItem(tview.NewFlex().
			AddItem(tview.NewBox(), hpad, 0, false).
			AddItem(p, 0, 1, true).
			AddItem(tview.NewBox(), hpad, 0, false),
			0, 1, true).
		AddItem(tview.NewBox(), vpad, 0, false)
}
