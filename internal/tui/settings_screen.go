package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andy/cotiza/internal/app"
	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/editor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeText
	settingsModeValue
	settingsModeAttachment
)

type settingsRowKind int

const (
	rowText settingsRowKind = iota
	rowCurrency
	rowDiscount
	rowTitleColor
	rowTitleAlign
	rowSection
	rowLogo
	rowAttachment
	rowAddAttachment
)

type settingsRow struct {
	kind       settingsRowKind
	label      string
	field      editor.TextField
	section    editor.Section
	attachment domain.Attachment
}

// attachment form field indices
const (
	attachFieldPath = iota
	attachFieldTitle
	attachFieldDescription
	attachFieldCount
)

var textFieldLabels = []struct {
	field editor.TextField
	label string
}{
	{editor.FieldCompanyName, "Company Name"},
	{editor.FieldCompanySubtitle, "Company Subtitle"},
	{editor.FieldDocumentTitle, "Document Title"},
	{editor.FieldIntro, "Introduction"},
	{editor.FieldTerms, "Conditions"},
	{editor.FieldPaymentInfo, "Payment Info"},
	{editor.FieldObservations, "Observations"},
	{editor.FieldSignature, "Seller Signature"},
	{editor.FieldClientSignature, "Client Signature"},
}

var sectionLabels = map[editor.Section]string{
	editor.SectionDocumentTitle:   "Show Title",
	editor.SectionClientInfo:      "Show Client Block",
	editor.SectionClientID:        "Show Client ID",
	editor.SectionPaymentInfo:     "Show Payment Info",
	editor.SectionObservations:    "Show Observations",
	editor.SectionConditions:      "Show Conditions",
	editor.SectionClientSignature: "Show Client Signature",
	editor.SectionSellerSignature: "Show Seller Signature",
}

var titleAligns = []string{string(domain.AlignLeft), string(domain.AlignCenter), string(domain.AlignRight)}

// SettingsModel edits the texts, styling, visibility, logo and
// attachments of the current document
type SettingsModel struct {
	app    *app.App
	doc    *document
	mode   settingsMode
	cursor int

	editing  settingsRow
	area     textarea.Model
	input    textinput.Model
	fields   []textinput.Model
	fieldPos int

	err error
}

// NewSettingsModel creates the document settings screen
func NewSettingsModel(a *app.App, doc *document) tea.Model {
	return &SettingsModel{app: a, doc: doc}
}

// IsCapturingInput returns true when an editor is open
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode != settingsModeView
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) rows() []settingsRow {
	var rows []settingsRow
	for _, f := range textFieldLabels {
		rows = append(rows, settingsRow{kind: rowText, label: f.label, field: f.field})
	}
	rows = append(rows,
		settingsRow{kind: rowCurrency, label: "Currency"},
		settingsRow{kind: rowDiscount, label: "Discount"},
		settingsRow{kind: rowTitleColor, label: "Title Color"},
		settingsRow{kind: rowTitleAlign, label: "Title Alignment"},
	)
	for _, sec := range editor.Sections {
		rows = append(rows, settingsRow{kind: rowSection, label: sectionLabels[sec], section: sec})
	}
	rows = append(rows, settingsRow{kind: rowLogo, label: "Logo"})
	for _, a := range m.doc.state.Attachments {
		rows = append(rows, settingsRow{kind: rowAttachment, label: "Attachment", attachment: a})
	}
	return append(rows, settingsRow{kind: rowAddAttachment, label: "+ Add attachment"})
}

func textValue(c domain.ClientData, f editor.TextField) string {
	switch f {
	case editor.FieldTerms:
		return c.Terms
	case editor.FieldIntro:
		return c.IntroText
	case editor.FieldCompanyName:
		return c.CompanyName
	case editor.FieldCompanySubtitle:
		return c.CompanySubtitle
	case editor.FieldPaymentInfo:
		return c.PaymentInfoText
	case editor.FieldObservations:
		return c.ObservationsText
	case editor.FieldDocumentTitle:
		return c.DocumentTitle
	case editor.FieldSignature:
		return c.SignatureText
	case editor.FieldClientSignature:
		return c.ClientSignatureText
	}
	return ""
}

// companyField reports whether a text field is a stored preference
func companyField(f editor.TextField) bool {
	switch f {
	case editor.FieldCompanyName, editor.FieldCompanySubtitle, editor.FieldPaymentInfo, editor.FieldObservations:
		return true
	}
	return false
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case settingsModeText:
		return m.updateText(msg)
	case settingsModeValue:
		return m.updateValue(msg)
	case settingsModeAttachment:
		return m.updateAttachment(msg)
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.cursor = clampCursor(m.cursor, len(m.rows()))
		return m, nil

	case tea.KeyMsg:
		m.err = nil
		rows := m.rows()
		row := rows[clampCursor(m.cursor, len(rows))]
		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.Toggle):
			return m, m.toggle(row)
		case key.Matches(msg, DefaultKeyMap.Delete):
			if row.kind == rowAttachment {
				m.err = m.doc.apply(editor.RemoveAttachment{ID: row.attachment.ID})
				m.cursor = clampCursor(m.cursor, len(m.rows()))
			}
		case msg.String() == "r":
			if row.kind == rowLogo {
				m.err = m.doc.apply(editor.ResetLogo{})
				return m, m.saveLogo()
			}
		case key.Matches(msg, DefaultKeyMap.Select):
			return m, m.open(row)
		}
	}

	return m, nil
}

// toggle flips visibility and boolean settings in place
func (m *SettingsModel) toggle(row settingsRow) tea.Cmd {
	st := m.doc.state
	switch row.kind {
	case rowSection:
		m.err = m.doc.apply(editor.SetVisibility{Section: row.section, Visible: !st.Visible(row.section)})
	case rowDiscount:
		c := st.Client
		m.err = m.doc.apply(editor.SetDiscount{
			Enabled: !c.DiscountEnabled,
			Type:    c.DiscountType,
			Value:   c.DiscountValue.String(),
		})
	case rowTitleAlign:
		ch := newChoice(titleAligns, string(st.Client.DocumentTitleAlign))
		ch.move(1)
		m.err = m.doc.apply(editor.SetTitleStyle{Align: domain.Align(ch.value())})
	}
	return nil
}

func (m *SettingsModel) open(row settingsRow) tea.Cmd {
	c := m.doc.state.Client
	m.editing = row
	switch row.kind {
	case rowText:
		m.mode = settingsModeText
		m.area = textarea.New()
		m.area.SetWidth(70)
		m.area.SetHeight(6)
		m.area.CharLimit = 4000
		m.area.SetValue(textValue(c, row.field))
		return m.area.Focus()

	case rowCurrency:
		m.mode = settingsModeValue
		m.input = newInput("USD", 10, 10, c.Currency)
	case rowDiscount:
		m.mode = settingsModeValue
		m.input = newInput("10 or 10% or 10$", 20, 20, discountInput(c.Discount()))
	case rowTitleColor:
		m.mode = settingsModeValue
		m.input = newInput("#RRGGBB", 7, 10, c.DocumentTitleColor)
	case rowLogo:
		m.mode = settingsModeValue
		m.input = newInput("path/to/logo.png or https://...", 500, 60, "")
	case rowAddAttachment:
		m.mode = settingsModeAttachment
		m.fields = make([]textinput.Model, attachFieldCount)
		m.fields[attachFieldPath] = newInput("path/to/photo.jpg", 500, 60, "")
		m.fields[attachFieldTitle] = newInput("Title", 120, 40, "")
		m.fields[attachFieldDescription] = newInput("Description", 1000, 60, "")
		m.fieldPos = attachFieldPath
		return m.fields[attachFieldPath].Focus()
	case rowSection, rowTitleAlign:
		return m.toggle(row)
	default:
		return nil
	}
	return m.input.Focus()
}

func discountInput(d domain.Discount) string {
	v := d.Value.String()
	if d.Type == domain.DiscountFixed {
		return v + "$"
	}
	return v + "%"
}

// parseDiscountInput reads "10", "10%" as a percentage and "10$" as a
// fixed amount
func parseDiscountInput(s string) (domain.DiscountType, string) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasSuffix(s, "$"):
		return domain.DiscountFixed, strings.TrimSpace(strings.TrimSuffix(s, "$"))
	case strings.HasSuffix(s, "%"):
		return domain.DiscountPercentage, strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	return domain.DiscountPercentage, s
}

func (m *SettingsModel) updateText(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			return m, nil
		case "ctrl+s":
			f := m.editing.field
			if err := m.doc.apply(editor.SetText{Field: f, Value: m.area.Value()}); err != nil {
				m.err = err
				return m, nil
			}
			m.mode = settingsModeView
			if companyField(f) {
				return m, syncPreferences(m.app, m.doc.state)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

func (m *SettingsModel) updateValue(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			m.err = nil
			return m, nil
		case "enter", "ctrl+s":
			cmd, err := m.saveValue(m.input.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.mode = settingsModeView
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *SettingsModel) saveValue(v string) (tea.Cmd, error) {
	c := m.doc.state.Client
	switch m.editing.kind {
	case rowCurrency:
		return nil, m.doc.apply(editor.SetCurrency{Code: v})
	case rowDiscount:
		typ, value := parseDiscountInput(v)
		return nil, m.doc.apply(editor.SetDiscount{Enabled: true, Type: typ, Value: value})
	case rowTitleColor:
		v = strings.TrimSpace(v)
		if v == "" {
			v = c.DocumentTitleColor
		}
		return nil, m.doc.apply(editor.SetTitleStyle{Color: v})
	case rowLogo:
		ref, err := m.app.Quotations.ResolveImage(v)
		if err != nil {
			return nil, err
		}
		if err := m.doc.apply(editor.SetLogo{Ref: ref}); err != nil {
			return nil, err
		}
		return m.saveLogo(), nil
	}
	return nil, errors.New("nothing to edit")
}

func (m *SettingsModel) saveLogo() tea.Cmd {
	prefs, logo := m.app.Preferences, m.doc.state.CompanyLogo
	return func() tea.Msg {
		if logo != nil {
			prefs.SaveLogo(context.Background(), *logo)
		}
		return nil
	}
}

func (m *SettingsModel) updateAttachment(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldPos].Blur()
			m.fieldPos = (m.fieldPos + 1) % attachFieldCount
			return m, m.fields[m.fieldPos].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldPos].Blur()
			m.fieldPos = (m.fieldPos - 1 + attachFieldCount) % attachFieldCount
			return m, m.fields[m.fieldPos].Focus()

		case "enter", "ctrl+s":
			if msg.String() == "enter" && m.fieldPos != attachFieldCount-1 {
				m.fields[m.fieldPos].Blur()
				m.fieldPos++
				return m, m.fields[m.fieldPos].Focus()
			}
			if err := m.saveAttachment(); err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.mode = settingsModeView
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.fields[m.fieldPos], cmd = m.fields[m.fieldPos].Update(msg)
	return m, cmd
}

func (m *SettingsModel) saveAttachment() error {
	path := strings.TrimSpace(m.fields[attachFieldPath].Value())
	preview, err := m.app.Quotations.ResolveImage(path)
	if err != nil {
		return err
	}
	return m.doc.apply(editor.AddAttachment{
		SourcePath:  path,
		PreviewURL:  preview,
		Title:       strings.TrimSpace(m.fields[attachFieldTitle].Value()),
		Description: m.fields[attachFieldDescription].Value(),
	})
}

func (m *SettingsModel) View() string {
	switch m.mode {
	case settingsModeText:
		return m.viewText()
	case settingsModeValue:
		return m.viewValue()
	case settingsModeAttachment:
		return m.viewAttachment()
	}
	return m.viewRows()
}

func (m *SettingsModel) rowValue(row settingsRow) string {
	st := m.doc.state
	c := st.Client
	onOff := func(b bool) string {
		if b {
			return lipgloss.NewStyle().Foreground(successColor).Render("on")
		}
		return subtitleStyle.Render("off")
	}

	switch row.kind {
	case rowText:
		v := strings.TrimSpace(textValue(c, row.field))
		if v == "" {
			return subtitleStyle.Render("(empty)")
		}
		return valueStyle.Render(truncateStr(firstLine(v), 50))
	case rowCurrency:
		return valueStyle.Render(c.Currency)
	case rowDiscount:
		if !c.DiscountEnabled {
			return subtitleStyle.Render("off (" + discountInput(c.Discount()) + ")")
		}
		return valueStyle.Render(discountInput(c.Discount()))
	case rowTitleColor:
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.DocumentTitleColor)).Render("■")
		return swatch + " " + valueStyle.Render(c.DocumentTitleColor)
	case rowTitleAlign:
		return valueStyle.Render(string(c.DocumentTitleAlign))
	case rowSection:
		return onOff(st.Visible(row.section))
	case rowLogo:
		if st.CompanyLogo == nil || *st.CompanyLogo == editor.DefaultLogo {
			return subtitleStyle.Render("default")
		}
		ref := *st.CompanyLogo
		if strings.HasPrefix(ref, "data:") {
			return valueStyle.Render("embedded image")
		}
		return valueStyle.Render(truncateStr(ref, 50))
	case rowAttachment:
		title := row.attachment.Title
		if title == "" {
			title = "(untitled)"
		}
		return valueStyle.Render(truncateStr(title, 50))
	}
	return ""
}

func (m *SettingsModel) viewRows() string {
	var s string
	s += titleStyle.Render("Document") + "\n\n"

	rows := m.rows()
	cursor := clampCursor(m.cursor, len(rows))
	for i, row := range rows {
		line := fmt.Sprintf("%s %s", labelStyle.Render(row.label+":"), m.rowValue(row))
		if row.kind == rowAddAttachment {
			line = labelStyle.Render(row.label)
		}
		if i == cursor {
			s += "  " + selectedStyle.Render(">") + " " + line + "\n"
		} else {
			s += "    " + line + "\n"
		}
	}

	if m.err != nil {
		s += "\n" + errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n"
	}

	s += "\n" + helpStyle.Render("  enter: edit  space: toggle  d: remove attachment  r: reset logo")
	return s
}

func (m *SettingsModel) viewText() string {
	s := titleStyle.Render("Edit "+m.editing.label) + "\n\n"
	s += m.area.View() + "\n\n"
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}
	return s + helpStyle.Render("  ctrl+s: save  esc: cancel")
}

func (m *SettingsModel) viewValue() string {
	s := titleStyle.Render("Edit "+m.editing.label) + "\n\n"
	s += formField(m.editing.label+":", m.input.View(), true)
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}
	return s + helpStyle.Render("  enter: save  esc: cancel")
}

func (m *SettingsModel) viewAttachment() string {
	s := titleStyle.Render("New Attachment") + "\n\n"
	s += formField("Image File:", m.fields[attachFieldPath].View(), m.fieldPos == attachFieldPath)
	s += formField("Title:", m.fields[attachFieldTitle].View(), m.fieldPos == attachFieldTitle)
	s += formField("Description:", m.fields[attachFieldDescription].View(), m.fieldPos == attachFieldDescription)
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}
	return s + helpStyle.Render("  tab/shift+tab: navigate  enter: next/add  esc: cancel")
}
