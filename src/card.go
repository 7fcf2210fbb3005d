package main

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			MarginBottom(1)
	selectedCardStyle = cardStyle.BorderForeground(lipgloss.Color("62"))
	termStyle         = lipgloss.NewStyle().Bold(true)
	discardStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
	activeDiscard     = discardStyle.Foreground(lipgloss.Color("204"))
)

// Card presents one concept. It keeps no state of its own; discarding is
// forwarded to onDiscard.
type Card struct {
	term       string
	definition string
	onDiscard  func()
}

func NewCard(term, definition string, onDiscard func()) Card {
	return Card{term: term, definition: definition, onDiscard: onDiscard}
}

// Discard fires the discard callback once.
func (c Card) Discard() {
	if c.onDiscard != nil {
		c.onDiscard()
	}
}

func (c Card) View(selected bool, width int) string {
	style, button := cardStyle, discardStyle
	if selected {
		style, button = selectedCardStyle, activeDiscard
	}
	if width > 0 {
		style = style.Width(width - style.GetHorizontalBorderSize())
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		termStyle.Render(c.term),
		c.definition,
		button.Render("[ Discard ]"),
	))
}
