// Package ui holds the terminal styles shared by the interactive flows.
// Styles degrade to plain text when the output is not a terminal.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	Title = lipgloss.NewStyle().
		Bold(true)

	Category = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6"))

	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("2"))

	Notice = lipgloss.NewStyle().
		Foreground(lipgloss.Color("5"))

	Warn = lipgloss.NewStyle().
		Foreground(lipgloss.Color("3"))

	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("242"))
)
