package tui

import (
	"context"
	"testing"

	"github.com/andy/cotiza/internal/app"
	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/editor"
	"github.com/andy/cotiza/internal/history"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveRecord(t *testing.T, a *app.App, name string) *domain.QuotationRecord {
	t.Helper()
	st, err := a.Quotations.New(context.Background()).Apply(
		editor.SetClientInfo{Name: name},
		editor.AddItem{Zone: domain.DefaultZone, Description: "Roller", Quantity: "2", UnitPrice: "15"},
	)
	require.NoError(t, err)
	res := a.History.Save(context.Background(), st, false)
	require.Equal(t, history.Created, res.Status)
	return res.Record
}

// openHistory switches to the history screen and waits for its records
func openHistory(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := press(t, m, "3")
	require.Equal(t, ScreenHistory, m.currentScreen)
	m, _ = run(t, m, cmd)
	return m
}

// batchMsgs runs a possibly batched command and collects its messages
func batchMsgs(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, batchMsgs(t, c)...)
	}
	return out
}

func historyScreen(t *testing.T, m Model) *HistoryModel {
	t.Helper()
	h, ok := m.history.(*HistoryModel)
	require.True(t, ok)
	return h
}

func TestHistoryLoadNeedsConfirmation(t *testing.T) {
	m, a := newTestModel(t)
	saveRecord(t, a, "Ana")
	m = openHistory(t, m)
	require.Len(t, historyScreen(t, m).records, 1)

	m, cmd := press(t, m, "enter")
	m, _ = run(t, m, cmd)
	require.NotNil(t, m.confirm)
	assert.Empty(t, m.doc.state.Client.Name)

	m, cmd = press(t, m, "y")
	m, _ = run(t, m, cmd)
	assert.Equal(t, ScreenQuotation, m.currentScreen)
	assert.Equal(t, "Ana", m.doc.state.Client.Name)

	// the restored record is the last save point
	m, cmd = press(t, m, "s")
	m, _ = run(t, m, cmd)
	assert.Equal(t, "No changes since the last save", m.status)
	assert.Equal(t, 1, a.History.Len())
}

func TestHistoryDelete(t *testing.T) {
	m, a := newTestModel(t)
	saveRecord(t, a, "Ana")
	m = openHistory(t, m)

	m, cmd := press(t, m, "d")
	m, _ = run(t, m, cmd)
	m, _ = press(t, m, "n")
	assert.Equal(t, 1, a.History.Len())

	m, cmd = press(t, m, "d")
	m, _ = run(t, m, cmd)
	m, cmd = press(t, m, "y")
	m, cmd = run(t, m, cmd)
	assert.Equal(t, 0, a.History.Len())

	// the change reloads the list
	require.NotNil(t, cmd)
	for _, msg := range batchMsgs(t, cmd) {
		m, _ = send(t, m, msg)
	}
	assert.Empty(t, historyScreen(t, m).records)
	assert.Contains(t, m.status, "Deleted")
}

func TestHistoryRename(t *testing.T) {
	m, a := newTestModel(t)
	rec := saveRecord(t, a, "Ana")
	m = openHistory(t, m)

	m, _ = press(t, m, "r")
	assert.True(t, m.activeScreenCapturingInput())

	h := historyScreen(t, m)
	h.rename.SetValue("Ana final")
	m, cmd := press(t, m, "enter")
	m, _ = run(t, m, cmd)

	got, err := a.History.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana final", got.FileName)
}

func TestHistorySearch(t *testing.T) {
	m, a := newTestModel(t)
	saveRecord(t, a, "Ana")
	saveRecord(t, a, "Bruno")
	m = openHistory(t, m)
	require.Len(t, historyScreen(t, m).records, 2)

	m, _ = press(t, m, "/", "bru")
	m, cmd := press(t, m, "enter")
	m, _ = run(t, m, cmd)

	h := historyScreen(t, m)
	assert.False(t, m.activeScreenCapturingInput())
	require.Len(t, h.records, 1)
	assert.Contains(t, h.records[0].FileName, "Bruno")
}

func TestHistoryDateFilterValidates(t *testing.T) {
	m, a := newTestModel(t)
	saveRecord(t, a, "Ana")
	m = openHistory(t, m)

	m, _ = press(t, m, "f", "2024-13-01", "enter")
	h := historyScreen(t, m)
	assert.Error(t, h.err)
	assert.True(t, m.activeScreenCapturingInput())

	m, _ = press(t, m, "esc")
	assert.False(t, m.activeScreenCapturingInput())
}
