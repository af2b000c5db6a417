package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andy/cotiza/internal/app"
	"github.com/andy/cotiza/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ReportsModel summarizes the saved quotations by month, client and day
type ReportsModel struct {
	app  *app.App
	now  func() time.Time
	year int

	monthCursor int // 0=Jan
	monthly     map[time.Month]service.MonthSummary
	clients     []service.ClientSummary
	today       *service.DailySummary

	loading bool
	err     error
}

type reportsDataMsg struct {
	monthly map[time.Month]service.MonthSummary
	clients []service.ClientSummary
	today   *service.DailySummary
	err     error
}

// NewReportsModel creates a new reports screen model
func NewReportsModel(a *app.App) tea.Model {
	now := time.Now()
	return &ReportsModel{
		app:         a,
		now:         time.Now,
		year:        now.Year(),
		monthCursor: int(now.Month()) - 1,
		loading:     true,
	}
}

func (m *ReportsModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *ReportsModel) loadData() tea.Cmd {
	reports, year, now := m.app.Reports, m.year, m.now()
	return func() tea.Msg {
		ctx := context.Background()
		var msg reportsDataMsg

		msg.monthly, msg.err = reports.GetMonthSummary(ctx, year)
		if msg.err != nil {
			return msg
		}
		msg.clients, msg.err = reports.GetClientSummaries(ctx)
		if msg.err != nil {
			return msg
		}
		msg.today, msg.err = reports.GetDailySummary(ctx, now)
		return msg
	}
}

func (m *ReportsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()

	case reportsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.monthly = msg.monthly
			m.clients = msg.clients
			m.today = msg.today
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.monthCursor > 0 {
				m.monthCursor--
			}

		case key.Matches(msg, DefaultKeyMap.Down):
			if m.monthCursor < 11 {
				m.monthCursor++
			}

		case key.Matches(msg, DefaultKeyMap.Left), msg.String() == "[":
			m.year--
			m.loading = true
			return m, m.loadData()

		case key.Matches(msg, DefaultKeyMap.Right), msg.String() == "]":
			if m.year < m.now().Year() {
				m.year++
				m.loading = true
				return m, m.loadData()
			}
		}
	}

	return m, nil
}

func (m *ReportsModel) View() string {
	if m.loading {
		return titleStyle.Render("Reports") + "\n\n  Loading..."
	}

	if m.err != nil {
		return titleStyle.Render("Reports") + "\n\n" +
			lipgloss.NewStyle().Foreground(errorColor).Render(fmt.Sprintf("  Error: %v", m.err))
	}

	var s string
	s += titleStyle.Render("Reports") + "\n\n"

	s += lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("  Quotations by Month (%d)", m.year)) + "\n"
	s += m.renderMonthChart()
	s += "\n"

	s += m.renderToday()
	s += "\n"

	s += m.renderClientBreakdown()

	s += "\n" + helpStyle.Render("  j/k: select month  h/l or [/]: prev/next year")
	return s
}

func (m *ReportsModel) renderMonthChart() string {
	maxCount := 0
	for _, ms := range m.monthly {
		maxCount = max(maxCount, ms.Count)
	}

	maxBar := 25
	barStyle := lipgloss.NewStyle().Foreground(primaryColor)
	monthStyle := lipgloss.NewStyle().Width(5)

	var chart string
	var yearCount int
	yearTotals := service.Amounts{}
	for i := range 12 {
		month := time.Month(i + 1)
		ms := m.monthly[month]
		yearCount += ms.Count
		for cur, v := range ms.Totals {
			yearTotals[cur] = yearTotals[cur].Add(v)
		}

		barLen := 0
		if maxCount > 0 {
			barLen = ms.Count * maxBar / maxCount
		}
		bar := fmt.Sprintf("%-25s", strings.Repeat("█", barLen))
		line := fmt.Sprintf("%s %s %3d  %s",
			monthStyle.Render(month.String()[:3]),
			barStyle.Render(bar),
			ms.Count,
			formatAmounts(ms.Totals),
		)

		if i == m.monthCursor {
			chart += lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Render("  > "+line) + "\n"
		} else {
			chart += "    " + line + "\n"
		}
	}

	if yearCount == 0 {
		return chart + subtitleStyle.Render("    No quotations saved this year") + "\n"
	}
	return chart + "    " + lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("%-5s %25s %3d  %s", "Total", "", yearCount, formatAmounts(yearTotals)),
	) + "\n"
}

func (m *ReportsModel) renderToday() string {
	s := lipgloss.NewStyle().Bold(true).Render("  Saved Today") + "\n"
	if m.today == nil || m.today.Count == 0 {
		return s + subtitleStyle.Render("    Nothing saved today") + "\n"
	}
	s += subtitleStyle.Render(fmt.Sprintf("    %d quotations  |  %s", m.today.Count, formatAmounts(m.today.Totals))) + "\n"
	for _, r := range m.today.Records {
		s += fmt.Sprintf("    %s  %s\n", r.SavedAt.Local().Format("15:04"), truncateStr(r.FileName, 50))
	}
	return s
}

func (m *ReportsModel) renderClientBreakdown() string {
	if len(m.clients) == 0 {
		return ""
	}

	s := lipgloss.NewStyle().Bold(true).Render("  Quoted by Client") + "\n"
	for _, c := range m.clients {
		s += fmt.Sprintf("    %-24s %3d  %s",
			truncateStr(c.Name, 24),
			c.Count,
			formatAmounts(c.Totals),
		)
		s += subtitleStyle.Render("  last " + c.LastSaved.Local().Format("2006-01-02"))
		s += "\n"
	}
	return s
}

// formatAmounts renders per-currency totals side by side
func formatAmounts(a service.Amounts) string {
	if len(a) == 0 {
		return subtitleStyle.Render("-")
	}
	parts := make([]string, 0, len(a))
	for _, cur := range a.Currencies() {
		parts = append(parts, formatMoney(a[cur], cur))
	}
	return strings.Join(parts, "  ")
}
