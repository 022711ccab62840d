package main

import "github.com/charmbracelet/lipgloss"

var headerStyle = lipgloss.NewStyle().Bold(true)

// header renders a list heading, bold when stdout is a terminal.
func (a *app) header(s string) string {
	if !a.styled {
		return s
	}
	return headerStyle.Render(s)
}
