package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title    lipgloss.Style
	question lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
	good     lipgloss.Style
	bad      lipgloss.Style
}

func (m Model) styles() styles {
	if m.opts.NoColor {
		plain := lipgloss.NewStyle()
		return styles{title: plain, question: plain, selected: plain, muted: plain, good: plain, bad: plain}
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		question: lipgloss.NewStyle().Bold(true),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		good:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		bad:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
}

func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	if noColor {
		return styles
	}
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("212"))
	return styles
}
