package tui

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// choice is a left/right selector over a fixed list of options
type choice struct {
	options []string
	index   int
}

func newChoice(options []string, current string) choice {
	c := choice{options: options}
	if i := slices.Index(options, current); i >= 0 {
		c.index = i
	}
	return c
}

func (c *choice) move(delta int) {
	if len(c.options) == 0 {
		return
	}
	c.index = (c.index + delta + len(c.options)) % len(c.options)
}

func (c choice) value() string {
	if len(c.options) == 0 {
		return ""
	}
	return c.options[c.index]
}

func (c choice) view(focused bool) string {
	v := c.value()
	if focused {
		return lipgloss.NewStyle().Foreground(primaryColor).Render("◀ " + v + " ▶")
	}
	return "  " + v
}

func newInput(placeholder string, limit, width int, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = width
	ti.SetValue(value)
	return ti
}

// formField renders one labelled field the way every form in the TUI does
func formField(label, body string, focused bool) string {
	indicator := "  "
	style := subtitleStyle
	if focused {
		indicator = "> "
		style = focusedLabel
	}
	return fmt.Sprintf("%s%s\n  %s\n\n", indicator, style.Render(label), body)
}
