package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andy/cotiza/internal/app"
	"github.com/andy/cotiza/internal/editor"
	"github.com/andy/cotiza/internal/history"
	"github.com/andy/cotiza/internal/translate"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenQuotation Screen = iota
	ScreenPreview
	ScreenHistory
	ScreenReports
	ScreenSettings
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenQuotation:
		return "Quotation"
	case ScreenPreview:
		return "Preview"
	case ScreenHistory:
		return "History"
	case ScreenReports:
		return "Reports"
	case ScreenSettings:
		return "Document"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	doc           *document
	currentScreen Screen
	width         int
	height        int
	now           func() time.Time

	// Screen models (lazy initialized)
	quotation tea.Model
	preview   tea.Model
	history   tea.Model
	reports   tea.Model
	settings  tea.Model

	spinner spinner.Model
	confirm *ConfirmMsg

	// Error state
	err     error
	status  string
	quitMsg string // shown when quit is blocked
}

// New creates a new root model editing a fresh quotation
func New(a *app.App) Model {
	doc := newDocument(a.Quotations.New(context.Background()))
	return Model{
		app:           a,
		doc:           doc,
		currentScreen: ScreenQuotation,
		now:           time.Now,
		quotation:     NewQuotationModel(doc),
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(busyStyle)),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.quotation != nil {
		return m.quotation.Init()
	}
	return nil
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	refresh := func() tea.Msg { return RefreshDataMsg{} }
	switch screen {
	case ScreenQuotation:
		if m.quotation == nil {
			m.quotation = NewQuotationModel(m.doc)
			return m.quotation.Init()
		}
		return refresh
	case ScreenPreview:
		if m.preview == nil {
			m.preview = NewPreviewModel(m.doc, m.width, m.height)
			return m.preview.Init()
		}
		return refresh
	case ScreenHistory:
		if m.history == nil {
			m.history = NewHistoryModel(m.app)
			return m.history.Init()
		}
		return refresh
	case ScreenReports:
		if m.reports == nil {
			m.reports = NewReportsModel(m.app)
			return m.reports.Init()
		}
		return refresh
	case ScreenSettings:
		if m.settings == nil {
			m.settings = NewSettingsModel(m.app, m.doc)
			return m.settings.Init()
		}
		return refresh
	}
	return nil
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation and document keys are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

func (m *Model) activeScreen() tea.Model {
	switch m.currentScreen {
	case ScreenQuotation:
		return m.quotation
	case ScreenPreview:
		return m.preview
	case ScreenHistory:
		return m.history
	case ScreenReports:
		return m.reports
	case ScreenSettings:
		return m.settings
	}
	return nil
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.activeScreen().(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

func (m *Model) switchTo(screen Screen) tea.Cmd {
	m.currentScreen = screen
	return m.initScreen(screen)
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.preview != nil {
			m.preview, _ = m.preview.Update(msg)
		}
		return m, nil

	case tea.KeyMsg:
		// Clear quit warning on any keypress
		m.quitMsg = ""

		if m.confirm != nil {
			c := m.confirm
			m.confirm = nil
			if msg.String() == "y" || msg.String() == "Y" {
				return m, c.OnConfirm
			}
			m.status = "Cancelled"
			return m, nil
		}

		// Skip global keys when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			m.err, m.status = nil, ""
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				if m.doc.exporting {
					m.quitMsg = "An export is running. Wait for it to finish before quitting."
					return m, nil
				}
				return m, tea.Quit

			case key.Matches(msg, DefaultKeyMap.Quotation):
				return m, m.switchTo(ScreenQuotation)

			case key.Matches(msg, DefaultKeyMap.Preview):
				return m, m.switchTo(ScreenPreview)

			case key.Matches(msg, DefaultKeyMap.History):
				return m, m.switchTo(ScreenHistory)

			case key.Matches(msg, DefaultKeyMap.Reports):
				return m, m.switchTo(ScreenReports)

			case key.Matches(msg, DefaultKeyMap.Settings):
				return m, m.switchTo(ScreenSettings)

			case key.Matches(msg, DefaultKeyMap.Save):
				return m, m.saveCmd()

			case key.Matches(msg, DefaultKeyMap.Export):
				return m, m.startExport()

			case key.Matches(msg, DefaultKeyMap.NewQuotation):
				m.confirm = &ConfirmMsg{
					Prompt:    "Start a new quotation? Unsaved changes will be lost.",
					OnConfirm: m.newQuotationCmd(),
				}
				return m, nil
			}
		}

	case ConfirmMsg:
		m.confirm = &msg
		return m, nil

	case SaveRequestMsg:
		return m, m.saveCmd()

	case savedMsg:
		switch msg.result.Status {
		case history.Created:
			m.status = fmt.Sprintf("Saved to history: %s", msg.result.Record.FileName)
		default:
			m.status = "No changes since the last save"
		}
		return m, m.refreshHistoryScreens()

	case exportedMsg:
		m.doc.exporting = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = fmt.Sprintf("Exported %s", msg.result.Path)
		if msg.result.ImplicitSave != nil && msg.result.ImplicitSave.Status == history.Created {
			m.status += " (saved to history)"
		}
		return m, m.refreshHistoryScreens()

	case LanguageRequestMsg:
		return m, m.changeLanguage(msg.Language)

	case translatedMsg:
		m.doc.translating = false
		m.applyTranslation(msg)
		return m, m.refreshActive()

	case DocumentLoadedMsg:
		m.doc.state = msg.State
		m.status = msg.Status
		return m, m.switchTo(ScreenQuotation)

	case spinner.TickMsg:
		if !m.doc.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SwitchScreenMsg:
		return m, m.switchTo(msg.Screen)

	case StatusMsg:
		m.status = msg.Text
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	switch m.currentScreen {
	case ScreenQuotation:
		if m.quotation != nil {
			m.quotation, cmd = m.quotation.Update(msg)
		}
	case ScreenPreview:
		if m.preview != nil {
			m.preview, cmd = m.preview.Update(msg)
		}
	case ScreenHistory:
		if m.history != nil {
			m.history, cmd = m.history.Update(msg)
		}
	case ScreenReports:
		if m.reports != nil {
			m.reports, cmd = m.reports.Update(msg)
		}
	case ScreenSettings:
		if m.settings != nil {
			m.settings, cmd = m.settings.Update(msg)
		}
	}

	return m, cmd
}

func (m *Model) saveCmd() tea.Cmd {
	a, st := m.app, m.doc.state
	return func() tea.Msg {
		ctx := context.Background()
		res := a.History.Save(ctx, st, false)
		a.Preferences.Sync(ctx, st)
		return savedMsg{result: res}
	}
}

func (m *Model) startExport() tea.Cmd {
	if m.doc.exporting {
		m.status = "An export is already running"
		return nil
	}
	m.doc.exporting = true
	m.status = ""
	a, st := m.app, m.doc.state
	run := func() tea.Msg {
		res, err := a.Exporter.Export(context.Background(), st)
		return exportedMsg{result: res, err: err}
	}
	return tea.Batch(run, m.spinner.Tick)
}

func (m *Model) newQuotationCmd() tea.Cmd {
	a, st, now := m.app, m.doc.state, m.now()
	return func() tea.Msg {
		next, err := st.Apply(editor.NewQuotation{Now: now})
		if err != nil {
			return ErrorMsg{Err: err}
		}
		a.History.ResetMarker()
		return DocumentLoadedMsg{State: next, Status: "New quotation started"}
	}
}

// changeLanguage switches the document language right away when no
// translator is configured, otherwise after the translation comes back
func (m *Model) changeLanguage(target string) tea.Cmd {
	if m.doc.translating {
		m.status = "A translation is already running"
		return nil
	}
	if !m.app.Translate.Enabled() {
		if err := m.doc.apply(editor.SetLanguage{Language: target}); err != nil {
			m.err = err
			return nil
		}
		return m.refreshActive()
	}

	m.doc.translating = true
	m.status = ""
	a, st := m.app, m.doc.state
	run := func() tea.Msg {
		resp, err := a.Translate.Fetch(context.Background(), st, target)
		return translatedMsg{target: target, resp: resp, err: err}
	}
	return tea.Batch(run, m.spinner.Tick)
}

// applyTranslation merges a translation into the current document. The
// language always switches; content only changes when the answer still
// matches the items being edited.
func (m *Model) applyTranslation(msg translatedMsg) {
	log := m.app.Logger
	switch {
	case msg.err == nil:
		next, err := translate.Apply(m.doc.state, msg.resp)
		if err != nil {
			log.Warn("translation rejected", "target", msg.target, "error", err)
			m.status = "Translation did not match the document; language changed only"
			break
		}
		m.doc.state = next
		m.status = "Translated to " + msg.target
	case errors.Is(msg.err, translate.ErrNothingToTranslate):
	default:
		log.Warn("translation failed", "target", msg.target, "error", msg.err)
		m.status = "Translation failed; language changed only"
	}

	if err := m.doc.apply(editor.SetLanguage{Language: msg.target}); err != nil {
		m.err = err
	}
}

func (m *Model) refreshActive() tea.Cmd {
	if m.activeScreen() == nil {
		return nil
	}
	return func() tea.Msg { return RefreshDataMsg{} }
}

func (m *Model) refreshHistoryScreens() tea.Cmd {
	if m.currentScreen == ScreenHistory || m.currentScreen == ScreenReports {
		return m.refreshActive()
	}
	return nil
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	// Header
	header := headerStyle.Render(fmt.Sprintf("cotiza - %s", m.currentScreen.String()))
	if m.doc.exporting {
		header += " " + m.spinner.View() + busyStyle.Render("exporting PDF...")
	} else if m.doc.translating {
		header += " " + m.spinner.View() + busyStyle.Render("translating...")
	}

	// Footer with navigation keys
	footer := footerStyle.Render("[1] Quotation  [2] Preview  [3] History  [4] Reports  [,] Document  [S]ave  [X] Export  [N]ew  [Q]uit")

	// Current screen content
	content := "Loading..."
	if s := m.activeScreen(); s != nil {
		content = s.View()
	}

	// Confirmation, warning, error or status line
	notice := ""
	switch {
	case m.confirm != nil:
		notice = lipgloss.NewStyle().Bold(true).Foreground(warningColor).
			Render(fmt.Sprintf("\n%s [y/N]", m.confirm.Prompt))
	case m.quitMsg != "":
		notice = lipgloss.NewStyle().Foreground(warningColor).
			Render(fmt.Sprintf("\n%s", m.quitMsg))
	case m.err != nil:
		notice = errorStyle.Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	case m.status != "":
		notice = statusStyle.Render("\n" + m.status)
	}

	// Divider line between header and content
	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, notice, divider, footer)

	// Wrap in border, sized to terminal
	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
