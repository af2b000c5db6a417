package tui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/editor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type quotationMode int

const (
	quoteModeList quotationMode = iota
	quoteModeItemForm
	quoteModeZoneForm
	quoteModeClientForm
)

// item form field indices
const (
	itemFieldZone = iota
	itemFieldDescription
	itemFieldQuantity
	itemFieldPrice
	itemFieldCount
)

// client form field indices
const (
	clientFieldName = iota
	clientFieldDate
	clientFieldIDType
	clientFieldIDValue
	clientFieldNumber
	clientFieldCount
)

var clientIDTypes = []string{
	string(domain.ClientIDDocument),
	string(domain.ClientIDCRIB),
	string(domain.ClientIDNIT),
	string(domain.ClientIDPassport),
}

// QuotationModel edits the client block, zones and items of the document
type QuotationModel struct {
	doc    *document
	mode   quotationMode
	cursor int

	// item form
	editingID string
	zone      choice
	fields    []textinput.Model
	focus     int

	// zone form
	prefix choice
	suffix textinput.Model

	// client form
	idType choice

	err error
}

// NewQuotationModel creates the quotation editor screen
func NewQuotationModel(doc *document) tea.Model {
	return &QuotationModel{doc: doc}
}

// IsCapturingInput returns true when a form is active
func (m *QuotationModel) IsCapturingInput() bool {
	return m.mode != quoteModeList
}

func (m *QuotationModel) Init() tea.Cmd {
	return nil
}

// rows returns item IDs in document order: zone, then sub-zone, then
// insertion order
func (m *QuotationModel) rows() []string {
	var ids []string
	for _, g := range m.doc.state.Groups() {
		for _, sub := range g.SubZones {
			for _, it := range sub.Items {
				ids = append(ids, it.ID)
			}
		}
	}
	return ids
}

func (m *QuotationModel) selectedID() string {
	rows := m.rows()
	if len(rows) == 0 {
		return ""
	}
	return rows[clampCursor(m.cursor, len(rows))]
}

func (m *QuotationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case quoteModeItemForm:
		return m.updateItemForm(msg)
	case quoteModeZoneForm:
		return m.updateZoneForm(msg)
	case quoteModeClientForm:
		return m.updateClientForm(msg)
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.cursor = clampCursor(m.cursor, len(m.rows()))
		return m, nil

	case tea.KeyMsg:
		m.err = nil
		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.rows())-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.New):
			return m, m.openItemForm("")
		case key.Matches(msg, DefaultKeyMap.Edit):
			if id := m.selectedID(); id != "" {
				return m, m.openItemForm(id)
			}
		case key.Matches(msg, DefaultKeyMap.Delete):
			if id := m.selectedID(); id != "" {
				if err := m.doc.apply(editor.RemoveItem{ID: id}); err != nil {
					m.err = err
				}
				m.cursor = clampCursor(m.cursor, len(m.rows()))
			}
		case key.Matches(msg, DefaultKeyMap.Zone):
			return m, m.openZoneForm()
		case key.Matches(msg, DefaultKeyMap.Client):
			return m, m.openClientForm()
		case key.Matches(msg, DefaultKeyMap.Language):
			return m, m.nextLanguage()
		}
	}

	return m, nil
}

// nextLanguage asks the root model to switch to the following language
func (m *QuotationModel) nextLanguage() tea.Cmd {
	if m.doc.translating {
		return nil
	}
	langs := domain.Languages
	i := slices.Index(langs, m.doc.state.Client.Language)
	target := langs[(i+1)%len(langs)]
	return func() tea.Msg { return LanguageRequestMsg{Language: target} }
}

// Item form

func (m *QuotationModel) openItemForm(id string) tea.Cmd {
	st := m.doc.state
	m.mode = quoteModeItemForm
	m.editingID = id
	m.err = nil

	zone := domain.DefaultZone
	if len(st.Zones) > 0 {
		zone = st.Zones[len(st.Zones)-1]
	}
	desc, qty, price := "", "1", ""
	if id != "" {
		it, ok := st.Item(id)
		if !ok {
			m.mode = quoteModeList
			return nil
		}
		zone, desc = it.Zone, it.Description
		qty, price = strconv.Itoa(it.Quantity), it.UnitPrice.String()
	}

	zones := slices.Clone(st.Zones)
	if !slices.Contains(zones, zone) {
		zones = append(zones, zone)
	}
	m.zone = newChoice(zones, zone)

	m.fields = make([]textinput.Model, itemFieldCount)
	m.fields[itemFieldDescription] = newInput("Description", 500, 50, desc)
	m.fields[itemFieldQuantity] = newInput("1", 9, 10, qty)
	m.fields[itemFieldPrice] = newInput("0.00", 20, 15, price)

	m.focus = itemFieldDescription
	if id == "" && len(zones) > 1 {
		m.focus = itemFieldZone
	}
	return m.focusItemField()
}

func (m *QuotationModel) focusItemField() tea.Cmd {
	for i := range m.fields {
		m.fields[i].Blur()
	}
	if m.focus == itemFieldZone {
		return nil
	}
	return m.fields[m.focus].Focus()
}

// the zone of an existing item cannot change
func (m *QuotationModel) itemFieldOrder() []int {
	if m.editingID != "" {
		return []int{itemFieldDescription, itemFieldQuantity, itemFieldPrice}
	}
	return []int{itemFieldZone, itemFieldDescription, itemFieldQuantity, itemFieldPrice}
}

func (m *QuotationModel) moveFocus(order []int, delta int) {
	i := slices.Index(order, m.focus)
	m.focus = order[(i+delta+len(order))%len(order)]
}

func (m *QuotationModel) saveItem() error {
	desc := m.fields[itemFieldDescription].Value()
	qty := m.fields[itemFieldQuantity].Value()
	price := m.fields[itemFieldPrice].Value()

	if m.editingID == "" {
		return m.doc.apply(editor.AddItem{
			Zone:        m.zone.value(),
			Description: desc,
			Quantity:    qty,
			UnitPrice:   price,
		})
	}

	if strings.TrimSpace(desc) == "" {
		return errors.New("description is required")
	}
	return m.doc.apply(
		editor.SetItemDescription{ID: m.editingID, Description: desc},
		editor.SetItemQuantity{ID: m.editingID, Quantity: qty},
		editor.SetItemUnitPrice{ID: m.editingID, UnitPrice: price},
	)
}

func (m *QuotationModel) updateItemForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		order := m.itemFieldOrder()
		switch msg.String() {
		case "esc":
			m.mode = quoteModeList
			m.err = nil
			return m, nil

		case "tab", "down":
			m.moveFocus(order, 1)
			return m, m.focusItemField()

		case "shift+tab", "up":
			m.moveFocus(order, -1)
			return m, m.focusItemField()

		case "left", "right":
			if m.focus == itemFieldZone {
				if msg.String() == "left" {
					m.zone.move(-1)
				} else {
					m.zone.move(1)
				}
				return m, nil
			}

		case "enter", "ctrl+s":
			if msg.String() == "enter" && m.focus != order[len(order)-1] {
				m.moveFocus(order, 1)
				return m, m.focusItemField()
			}
			if err := m.saveItem(); err != nil {
				m.err = err
				return m, nil
			}
			if m.editingID == "" {
				m.cursor = max(slices.Index(m.rows(), m.lastAddedID()), 0)
			}
			m.mode = quoteModeList
			return m, nil
		}
	}

	if m.focus == itemFieldZone {
		return m, nil
	}
	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m *QuotationModel) lastAddedID() string {
	items := m.doc.state.Items
	if len(items) == 0 {
		return ""
	}
	return items[len(items)-1].ID
}

// Zone form

func (m *QuotationModel) openZoneForm() tea.Cmd {
	m.mode = quoteModeZoneForm
	m.err = nil
	m.prefix = newChoice(domain.ZonePrefixes(m.doc.state.Client.Language), "")
	m.suffix = newInput("SALA, COCINA, ...", 60, 40, "")
	m.focus = 1
	return m.suffix.Focus()
}

func (m *QuotationModel) updateZoneForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.mode = quoteModeList
			m.err = nil
			return m, nil

		case "tab", "shift+tab", "up", "down":
			m.focus = 1 - m.focus
			if m.focus == 1 {
				return m, m.suffix.Focus()
			}
			m.suffix.Blur()
			return m, nil

		case "left", "right":
			if m.focus == 0 {
				if msg.String() == "left" {
					m.prefix.move(-1)
				} else {
					m.prefix.move(1)
				}
				return m, nil
			}

		case "enter", "ctrl+s":
			err := m.doc.apply(editor.AddZone{Prefix: m.prefix.value(), Suffix: m.suffix.Value()})
			if err != nil {
				m.err = err
				return m, nil
			}
			m.mode = quoteModeList
			return m, nil
		}
	}

	if m.focus == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.suffix, cmd = m.suffix.Update(msg)
	return m, cmd
}

// Client form

func (m *QuotationModel) openClientForm() tea.Cmd {
	c := m.doc.state.Client
	m.mode = quoteModeClientForm
	m.err = nil
	m.idType = newChoice(clientIDTypes, string(c.ClientIDType))

	m.fields = make([]textinput.Model, clientFieldCount)
	m.fields[clientFieldName] = newInput("Client name", 120, 50, c.Name)
	m.fields[clientFieldDate] = newInput("YYYY-MM-DD", 10, 12, c.Date)
	m.fields[clientFieldIDValue] = newInput("Identification", 60, 30, c.ClientIDValue)
	m.fields[clientFieldNumber] = newInput("C-2025-01-8", 40, 20, c.QuotationNo)

	m.focus = clientFieldName
	return m.focusClientField()
}

func (m *QuotationModel) focusClientField() tea.Cmd {
	for i := range m.fields {
		m.fields[i].Blur()
	}
	if m.focus == clientFieldIDType {
		return nil
	}
	return m.fields[m.focus].Focus()
}

func (m *QuotationModel) saveClient() error {
	return m.doc.apply(
		editor.SetClientInfo{
			Name:          strings.TrimSpace(m.fields[clientFieldName].Value()),
			Date:          strings.TrimSpace(m.fields[clientFieldDate].Value()),
			ClientIDType:  domain.ClientIDType(m.idType.value()),
			ClientIDValue: strings.TrimSpace(m.fields[clientFieldIDValue].Value()),
		},
		editor.SetQuotationNumber{Number: strings.TrimSpace(m.fields[clientFieldNumber].Value())},
	)
}

func (m *QuotationModel) updateClientForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.mode = quoteModeList
			m.err = nil
			return m, nil

		case "tab", "down":
			m.focus = (m.focus + 1) % clientFieldCount
			return m, m.focusClientField()

		case "shift+tab", "up":
			m.focus = (m.focus - 1 + clientFieldCount) % clientFieldCount
			return m, m.focusClientField()

		case "left", "right":
			if m.focus == clientFieldIDType {
				if msg.String() == "left" {
					m.idType.move(-1)
				} else {
					m.idType.move(1)
				}
				return m, nil
			}

		case "enter", "ctrl+s":
			if msg.String() == "enter" && m.focus != clientFieldCount-1 {
				m.focus++
				return m, m.focusClientField()
			}
			if err := m.saveClient(); err != nil {
				m.err = err
				return m, nil
			}
			m.mode = quoteModeList
			return m, nil
		}
	}

	if m.focus == clientFieldIDType {
		return m, nil
	}
	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

// Views

func (m *QuotationModel) View() string {
	switch m.mode {
	case quoteModeItemForm:
		return m.viewItemForm()
	case quoteModeZoneForm:
		return m.viewZoneForm()
	case quoteModeClientForm:
		return m.viewClientForm()
	}
	return m.viewDocument()
}

func (m *QuotationModel) viewDocument() string {
	st := m.doc.state
	c := st.Client
	labels := domain.LabelsFor(c.Language)

	var b strings.Builder
	name := c.Name
	if name == "" {
		name = subtitleStyle.Render("(no client)")
	}
	b.WriteString(titleStyle.Render(name))
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("   %s  %s %s", c.Date, c.QuotationNoLabel, c.QuotationNo)))
	b.WriteString("\n")

	discount := "none"
	if d := c.Discount(); d.Enabled {
		if d.Type == domain.DiscountPercentage {
			discount = d.Value.String() + "%"
		} else {
			discount = formatMoney(d.Value, c.Currency)
		}
	}
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Language: %s   Currency: %s   Discount: %s", c.Language, c.Currency, discount)))
	b.WriteString("\n\n")

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(subtitleStyle.Render("  No items yet. Press 'n' to add one."))
		b.WriteString("\n")
	}

	cursor := clampCursor(m.cursor, len(rows))
	idx := 0
	used := map[string]bool{}
	for _, g := range st.Groups() {
		if g.ShowHeading() {
			b.WriteString(zoneStyle.Render(g.Main) + "\n")
		}
		for _, sub := range g.SubZones {
			used[domain.ZoneKey{Main: g.Main, Sub: sub.Name}.String()] = true
			if sub.ShowHeading() {
				b.WriteString("  " + subZoneStyle.Render(sub.Name) + "\n")
			}
			for _, it := range sub.Items {
				line := fmt.Sprintf("%-40s %5d x %14s %16s",
					truncateStr(it.Description, 40),
					it.Quantity,
					formatMoney(it.UnitPrice, c.Currency),
					formatMoney(it.LineTotal(), c.Currency),
				)
				if idx == cursor {
					b.WriteString("  " + selectedStyle.Render("> "+line) + "\n")
				} else {
					b.WriteString("    " + line + "\n")
				}
				idx++
			}
			b.WriteString(subtitleStyle.Render(fmt.Sprintf("    %80s", labels.Subtotal+" "+formatMoney(sub.Subtotal, c.Currency))) + "\n")
		}
	}

	var empty []string
	for _, z := range st.Zones {
		if !used[domain.ParseZone(z).String()] && !domain.IsDefaultZone(domain.ParseZone(z).Main) {
			empty = append(empty, z)
		}
	}
	if len(empty) > 0 {
		b.WriteString("\n" + subtitleStyle.Render("Empty zones: "+strings.Join(empty, ", ")) + "\n")
	}

	t := st.Totals()
	b.WriteString("\n")
	if c.DiscountEnabled {
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render(labels.SubtotalNet+":"), formatMoney(t.Net, c.Currency)))
		b.WriteString(fmt.Sprintf("  %s -%s\n", labelStyle.Render(labels.Discount+":"), formatMoney(t.Discount, c.Currency)))
	}
	b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render(labels.Total+":"), totalStyle.Render(formatMoney(t.Grand, c.Currency))))

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("  ↑/↓: select  n: new item  e: edit  d: delete  z: add zone  c: client  t: language"))
	return b.String()
}

func (m *QuotationModel) viewItemForm() string {
	var s string
	if m.editingID == "" {
		s += titleStyle.Render("New Item") + "\n\n"
	} else {
		s += titleStyle.Render("Edit Item") + "\n\n"
	}

	zoneView := m.zone.view(m.focus == itemFieldZone)
	if m.editingID != "" {
		zoneView = subtitleStyle.Render("  " + m.zone.value())
	}
	s += formField("Zone:", zoneView, m.focus == itemFieldZone)
	s += formField("Description:", m.fields[itemFieldDescription].View(), m.focus == itemFieldDescription)
	s += formField("Quantity:", m.fields[itemFieldQuantity].View(), m.focus == itemFieldQuantity)
	s += formField("Unit Price:", m.fields[itemFieldPrice].View(), m.focus == itemFieldPrice)

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate  ←/→: zone  ctrl+s: save  enter: next/save  esc: cancel")
	return s
}

func (m *QuotationModel) viewZoneForm() string {
	s := titleStyle.Render("New Zone") + "\n\n"
	s += formField("Prefix:", m.prefix.view(m.focus == 0), m.focus == 0)
	s += formField("Name:", m.suffix.View(), m.focus == 1)

	preview := domain.JoinZone(m.prefix.value(), m.suffix.Value())
	if preview != "" {
		s += lipgloss.NewStyle().Foreground(mutedColor).Render("  "+preview) + "\n\n"
	}

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab: switch field  ←/→: prefix  enter: add  esc: cancel")
	return s
}

func (m *QuotationModel) viewClientForm() string {
	s := titleStyle.Render("Client") + "\n\n"
	s += formField("Name:", m.fields[clientFieldName].View(), m.focus == clientFieldName)
	s += formField("Date:", m.fields[clientFieldDate].View(), m.focus == clientFieldDate)
	s += formField("ID Type:", m.idType.view(m.focus == clientFieldIDType), m.focus == clientFieldIDType)
	s += formField("ID Number:", m.fields[clientFieldIDValue].View(), m.focus == clientFieldIDValue)
	s += formField("Quotation Number:", m.fields[clientFieldNumber].View(), m.focus == clientFieldNumber)

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate  ←/→: ID type  ctrl+s: save  enter: next/save  esc: cancel")
	return s
}
