package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/export"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// chrome is the vertical space taken by the frame, header and footer
const chrome = 14

// PreviewModel shows the document the way it will be exported
type PreviewModel struct {
	doc      *document
	viewport viewport.Model
}

// NewPreviewModel creates the preview screen
func NewPreviewModel(doc *document, width, height int) tea.Model {
	m := &PreviewModel{doc: doc}
	m.viewport = viewport.New(previewWidth(width), max(height-chrome, 5))
	m.refresh()
	return m
}

func previewWidth(termWidth int) int {
	w := termWidth - 10
	if w < 60 {
		w = 60
	}
	return w
}

func (m *PreviewModel) Init() tea.Cmd {
	return nil
}

func (m *PreviewModel) refresh() {
	v := export.BuildPrintView(m.doc.state, 0)
	m.viewport.SetContent(renderPrintView(v, m.viewport.Width))
}

func (m *PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = previewWidth(msg.Width)
		m.viewport.Height = max(msg.Height-chrome, 5)
		m.refresh()
		return m, nil

	case RefreshDataMsg:
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *PreviewModel) View() string {
	scroll := fmt.Sprintf("%3.0f%%", m.viewport.ScrollPercent()*100)
	return m.viewport.View() + "\n" +
		helpStyle.Render("  ↑/↓ pgup/pgdn: scroll  x: export  ") + subtitleStyle.Render(scroll)
}

// renderPrintView lays the print view out as terminal text
func renderPrintView(v export.PrintView, width int) string {
	var b strings.Builder
	line := func(s string) { b.WriteString(s + "\n") }
	align := func(s string, a domain.Align) string {
		pos := lipgloss.Left
		switch a {
		case domain.AlignCenter:
			pos = lipgloss.Center
		case domain.AlignRight:
			pos = lipgloss.Right
		}
		return lipgloss.PlaceHorizontal(width, pos, s)
	}
	rule := strings.Repeat("─", width)

	if v.CompanyName != "" {
		line(titleStyle.Render(v.CompanyName))
	}
	if v.CompanySubtitle != "" {
		line(subtitleStyle.Render(v.CompanySubtitle))
	}
	line(zoneStyle.Render(rule))

	if v.Title != "" {
		title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(v.TitleColor)).Render(v.Title)
		line(align(title, v.TitleAlign))
	}
	if v.QuotationNo != "" {
		line(align(v.QuotationNoLabel+": "+v.QuotationNo, domain.AlignRight))
	}
	line(align(subtitleStyle.Render(v.Labels.Date+": "+v.Date), domain.AlignRight))
	line("")

	if v.ShowClient {
		name := v.ClientName
		if name == "" {
			name = "-"
		}
		line(v.Labels.Client + ": " + name)
		if v.ClientIDValue != "" {
			line(subtitleStyle.Render(v.ClientIDLabel + ": " + v.ClientIDValue))
		}
		line("")
		if v.Intro != "" {
			line(lipgloss.NewStyle().Width(width).Render(v.Intro))
			line("")
		}
	}

	numW := 14
	descW := max(width-3*numW-6, 10)
	row := func(desc, qty, unit, total string) string {
		return fmt.Sprintf("%-*s %*s %*s %*s", descW, truncateStr(desc, descW), 6, qty, numW, unit, numW, total)
	}
	line(subtitleStyle.Render(row(v.Labels.Description, v.Labels.Quantity, v.Labels.UnitPrice, v.Labels.ItemTotal)))
	line(rule)
	for _, g := range v.Groups {
		if g.ShowHeading() {
			line(zoneStyle.Render(g.Main))
		}
		for _, sub := range g.SubZones {
			if sub.ShowHeading() {
				line(subZoneStyle.Render(sub.Name))
			}
			for _, it := range sub.Items {
				line(row(it.Description, strconv.Itoa(it.Quantity), v.Money(it.UnitPrice), v.Money(it.LineTotal())))
			}
			line(align(subtitleStyle.Render(v.Labels.Subtotal+" "+v.Money(sub.Subtotal)), domain.AlignRight))
		}
	}
	line(rule)

	if v.ShowDiscount {
		line(align(v.Labels.SubtotalNet+": "+v.Money(v.Totals.Net), domain.AlignRight))
		line(align(v.Labels.Discount+": -"+v.Money(v.Totals.Discount), domain.AlignRight))
	}
	line(align(totalStyle.Render(v.Labels.Total+": "+v.Money(v.Totals.Grand)), domain.AlignRight))
	line("")

	section := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		line(zoneStyle.Render(title))
		line(lipgloss.NewStyle().Width(width).Render(body))
		line("")
	}
	section(v.Labels.Conditions, v.Conditions)
	section(v.Labels.PaymentAccount, v.PaymentInfo)
	section(v.Labels.Observations, v.Observations)

	if v.SellerSignature != "" || v.ClientSignature != "" {
		half := width/2 - 2
		sig := lipgloss.NewStyle().Width(half).BorderTop(true).BorderStyle(lipgloss.NormalBorder())
		var cols []string
		if v.SellerSignature != "" {
			cols = append(cols, sig.Render(v.SellerSignature))
		}
		if v.ClientSignature != "" {
			cols = append(cols, sig.MarginLeft(4).Render(v.ClientSignature))
		}
		line("")
		line(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}

	if len(v.Attachments) > 0 {
		line("")
		line(zoneStyle.Render(v.Labels.Attachments))
		for _, a := range v.Attachments {
			title := a.Title
			if title == "" {
				title = "(untitled)"
			}
			line("  • " + title)
			if a.Description != "" {
				line(subtitleStyle.Render("    " + firstLine(a.Description)))
			}
		}
	}

	return b.String()
}
