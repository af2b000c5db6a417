package tui

import (
	"context"
	"fmt"
	"slices"

	"github.com/andy/cotiza/internal/app"
	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/history"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type historyMode int

const (
	historyModeList historyMode = iota
	historyModeSearch
	historyModeDates
	historyModeRename
)

type historyDataMsg struct {
	records []domain.QuotationRecord
	err     error
}

// HistoryModel lists saved quotations and loads, renames or deletes them
type HistoryModel struct {
	app     *app.App
	mode    historyMode
	records []domain.QuotationRecord
	cursor  int
	filter  history.Filter

	search textinput.Model
	from   textinput.Model
	to     textinput.Model
	focus  int
	rename textinput.Model

	loading bool
	err     error
}

// NewHistoryModel creates the history screen
func NewHistoryModel(a *app.App) tea.Model {
	return &HistoryModel{
		app:     a,
		search:  newInput("search by name", 120, 40, ""),
		loading: true,
	}
}

// IsCapturingInput returns true while typing a search, dates or a name
func (m *HistoryModel) IsCapturingInput() bool {
	return m.mode != historyModeList
}

func (m *HistoryModel) Init() tea.Cmd {
	return m.loadRecords()
}

func (m *HistoryModel) loadRecords() tea.Cmd {
	store, f := m.app.History, m.filter
	return func() tea.Msg {
		if err := f.Validate(); err != nil {
			return historyDataMsg{err: err}
		}
		return historyDataMsg{records: slices.Collect(store.List(f))}
	}
}

func (m *HistoryModel) selected() (domain.QuotationRecord, bool) {
	if len(m.records) == 0 {
		return domain.QuotationRecord{}, false
	}
	return m.records[clampCursor(m.cursor, len(m.records))], true
}

func (m *HistoryModel) loadCmd(id string) tea.Cmd {
	store := m.app.History
	return func() tea.Msg {
		st, err := store.Restore(id)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return DocumentLoadedMsg{State: st, Status: "Loaded " + st.FileName()}
	}
}

func (m *HistoryModel) deleteCmd(rec domain.QuotationRecord) tea.Cmd {
	store := m.app.History
	return func() tea.Msg {
		if !store.Delete(context.Background(), rec.ID) {
			return historyChangedMsg{err: fmt.Errorf("%w: %s", history.ErrRecordNotFound, rec.ID)}
		}
		return historyChangedMsg{status: "Deleted " + rec.FileName}
	}
}

func (m *HistoryModel) renameCmd(id, name string) tea.Cmd {
	store := m.app.History
	return func() tea.Msg {
		if err := store.Rename(context.Background(), id, name); err != nil {
			return historyChangedMsg{err: err}
		}
		return historyChangedMsg{status: "Renamed to " + name}
	}
}

func (m *HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.records = msg.records
			m.cursor = clampCursor(m.cursor, len(m.records))
		}
		return m, nil

	case historyChangedMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		cmds := []tea.Cmd{m.loadRecords()}
		if msg.status != "" {
			status := msg.status
			cmds = append(cmds, func() tea.Msg { return StatusMsg{Text: status} })
		}
		return m, tea.Batch(cmds...)

	case RefreshDataMsg:
		return m, m.loadRecords()
	}

	switch m.mode {
	case historyModeSearch:
		return m.updateSearch(msg)
	case historyModeDates:
		return m.updateDates(msg)
	case historyModeRename:
		return m.updateRename(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		m.err = nil
		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.records)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.Select):
			if rec, ok := m.selected(); ok {
				cmd := m.loadCmd(rec.ID)
				return m, func() tea.Msg {
					return ConfirmMsg{
						Prompt:    fmt.Sprintf("Load %q? The current document will be replaced.", rec.FileName),
						OnConfirm: cmd,
					}
				}
			}
		case key.Matches(msg, DefaultKeyMap.Delete):
			if rec, ok := m.selected(); ok {
				cmd := m.deleteCmd(rec)
				return m, func() tea.Msg {
					return ConfirmMsg{
						Prompt:    fmt.Sprintf("Delete %q from history?", rec.FileName),
						OnConfirm: cmd,
					}
				}
			}
		case key.Matches(msg, DefaultKeyMap.Rename):
			if rec, ok := m.selected(); ok {
				m.mode = historyModeRename
				m.rename = newInput("file name", 200, 50, rec.FileName)
				return m, m.rename.Focus()
			}
		case key.Matches(msg, DefaultKeyMap.Search):
			m.mode = historyModeSearch
			return m, m.search.Focus()
		case key.Matches(msg, DefaultKeyMap.Filter):
			m.mode = historyModeDates
			m.from = newInput("YYYY-MM-DD", 10, 12, m.filter.DateFrom)
			m.to = newInput("YYYY-MM-DD", 10, 12, m.filter.DateTo)
			m.focus = 0
			return m, m.from.Focus()
		case key.Matches(msg, DefaultKeyMap.Back):
			if m.filter != (history.Filter{}) {
				m.filter = history.Filter{}
				m.search.SetValue("")
				return m, m.loadRecords()
			}
		}
	}
	return m, nil
}

// updateSearch filters as the user types
func (m *HistoryModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.search.SetValue("")
			fallthrough
		case "enter":
			m.search.Blur()
			m.mode = historyModeList
			m.filter.Text = m.search.Value()
			return m, m.loadRecords()
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.filter.Text {
		m.filter.Text = m.search.Value()
		m.cursor = 0
		return m, tea.Batch(cmd, m.loadRecords())
	}
	return m, cmd
}

func (m *HistoryModel) updateDates(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.mode = historyModeList
			return m, nil

		case "tab", "shift+tab", "up", "down":
			m.focus = 1 - m.focus
			if m.focus == 0 {
				m.to.Blur()
				return m, m.from.Focus()
			}
			m.from.Blur()
			return m, m.to.Focus()

		case "enter", "ctrl+s":
			f := m.filter
			f.DateFrom, f.DateTo = m.from.Value(), m.to.Value()
			if err := f.Validate(); err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.filter = f
			m.mode = historyModeList
			m.cursor = 0
			return m, m.loadRecords()
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.from, cmd = m.from.Update(msg)
	} else {
		m.to, cmd = m.to.Update(msg)
	}
	return m, cmd
}

func (m *HistoryModel) updateRename(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.mode = historyModeList
			return m, nil
		case "enter", "ctrl+s":
			m.mode = historyModeList
			if rec, ok := m.selected(); ok {
				return m, m.renameCmd(rec.ID, m.rename.Value())
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

func (m *HistoryModel) View() string {
	s := titleStyle.Render(fmt.Sprintf("History (%d)", m.app.History.Len())) + "\n\n"

	switch m.mode {
	case historyModeDates:
		s += formField("From:", m.from.View(), m.focus == 0)
		s += formField("To:", m.to.View(), m.focus == 1)
		if m.err != nil {
			s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
		}
		return s + helpStyle.Render("  tab: switch field  enter: apply  esc: cancel")
	case historyModeRename:
		s += formField("New name:", m.rename.View(), true)
		return s + helpStyle.Render("  enter: rename  esc: cancel")
	}

	s += "  " + m.search.View() + "\n"
	if m.filter.DateFrom != "" || m.filter.DateTo != "" {
		s += subtitleStyle.Render(fmt.Sprintf("  dates: %s .. %s", orAny(m.filter.DateFrom), orAny(m.filter.DateTo))) + "\n"
	}
	s += "\n"

	switch {
	case m.loading:
		s += "  Loading...\n"
	case len(m.records) == 0:
		s += subtitleStyle.Render("  No saved quotations match.") + "\n"
	default:
		for i, r := range m.records {
			t := domain.ComputeTotals(r.Data.Items, r.Data.ClientData.Discount())
			line := fmt.Sprintf("%-48s %s  %3d items %16s",
				truncateStr(r.FileName, 48),
				r.SavedAt.Local().Format("2006-01-02 15:04"),
				len(r.Data.Items),
				formatMoney(t.Grand, r.Data.ClientData.Currency),
			)
			if i == m.cursor {
				s += "  " + selectedStyle.Render("> "+line) + "\n"
			} else {
				s += "    " + line + "\n"
			}
		}
	}

	if m.err != nil {
		s += "\n" + errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n"
	}

	s += "\n" + helpStyle.Render("  enter: load  r: rename  d: delete  /: search  f: dates  esc: clear filter")
	return s
}

func orAny(d string) string {
	if d == "" {
		return "*"
	}
	return d
}
