package tui

import (
	"github.com/andy/cotiza/internal/editor"
	"github.com/andy/cotiza/internal/export"
	"github.com/andy/cotiza/internal/history"
	"github.com/andy/cotiza/internal/translate"
	tea "github.com/charmbracelet/bubbletea"
)

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// StatusMsg shows a one-line notice under the current screen
type StatusMsg struct {
	Text string
}

// ConfirmMsg asks the user to confirm a destructive action. OnConfirm
// runs only after an explicit "y".
type ConfirmMsg struct {
	Prompt    string
	OnConfirm tea.Cmd
}

// SaveRequestMsg asks the root model to save the document to history
type SaveRequestMsg struct{}

// LanguageRequestMsg asks the root model to switch the document
// language, translating the content when a translator is configured
type LanguageRequestMsg struct {
	Language string
}

// DocumentLoadedMsg replaces the document being edited
type DocumentLoadedMsg struct {
	State  editor.State
	Status string
}

type savedMsg struct {
	result history.SaveResult
}

type exportedMsg struct {
	result export.Result
	err    error
}

type translatedMsg struct {
	target string
	resp   *translate.Response
	err    error
}

// historyChangedMsg is sent after a record was renamed or deleted
type historyChangedMsg struct {
	status string
	err    error
}
