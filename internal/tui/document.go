package tui

import (
	"context"

	"github.com/andy/cotiza/internal/app"
	"github.com/andy/cotiza/internal/editor"
	tea "github.com/charmbracelet/bubbletea"
)

// document is the quotation being edited. Every screen shares one
// instance, and only the Bubble Tea update loop touches it.
type document struct {
	state       editor.State
	exporting   bool
	translating bool
}

func newDocument(st editor.State) *document {
	return &document{state: st}
}

// apply runs commands against the current state; on error nothing changes
func (d *document) apply(cmds ...editor.Command) error {
	next, err := d.state.Apply(cmds...)
	if err != nil {
		return err
	}
	d.state = next
	return nil
}

func (d *document) busy() bool {
	return d.exporting || d.translating
}

// syncPreferences persists the company fields of the current state
func syncPreferences(a *app.App, st editor.State) tea.Cmd {
	return func() tea.Msg {
		a.Preferences.Sync(context.Background(), st)
		return nil
	}
}
