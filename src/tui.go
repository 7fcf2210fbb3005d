package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Enums & Types ---

type focusArea int

const (
	focusInput focusArea = iota
	focusCards
)

type (
	pingMsg        struct{ err error }
	resetStatusMsg struct{ gen int }
)

type pinger interface {
	Ping(ctx context.Context) error
	Endpoint() string
}

// --- Key Map ---

type keyMap struct {
	Submit  key.Binding
	Switch  key.Binding
	Up      key.Binding
	Down    key.Binding
	Discard key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Switch, k.Up, k.Down, k.Discard, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate flashcards")),
	Switch:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch pane")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev card")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next card")),
	Discard: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "discard")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

// --- Commands ---

func pingCmd(p pinger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return pingMsg{err: p.Ping(ctx)}
	}
}

func resetStatusCmd(gen int) tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return resetStatusMsg{gen: gen}
	})
}

// --- Styles ---

var (
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).MarginBottom(1)
	buttonStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// --- Model ---

type model struct {
	ctrl   *Controller
	pinger pinger

	status        string
	defaultStatus string
	// statusGen identifies the latest status; older reset ticks are ignored.
	statusGen int

	// UI Components
	input textinput.Model
	cards viewport.Model
	help  help.Model
	focus focusArea

	cursor int
	width  int
}

func newModel(ctrl *Controller, p pinger) model {
	defaultStatus := "Paste a link and press enter."

	input := textinput.New()
	input.Placeholder = "Paste Youtube Link Here"
	input.CharLimit = 2048
	input.Width = 60
	input.SetValue(ctrl.Link())
	input.Focus()

	return model{
		ctrl:          ctrl,
		pinger:        p,
		status:        defaultStatus,
		defaultStatus: defaultStatus,
		input:         input,
		cards:         viewport.New(80, 20),
		help:          help.New(),
		focus:         focusInput,
	}
}

func (m model) Init() tea.Cmd {
	if m.pinger == nil {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, pingCmd(m.pinger))
}

// --- Update ---

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.width = msg.Width - h
		m.input.Width = max(m.width-lipgloss.Width(buttonStyle.Render("Generate Flashcards"))-4, 10)
		m.help.Width = m.width
		m.cards.Width = m.width
		// title, input row, help and status lines
		m.cards.Height = max(msg.Height-v-6, 3)
		m.refreshCards()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, keys.Switch) {
			return m.toggleFocus()
		}
		if m.focus == focusCards {
			return m.updateCards(msg)
		}
		return m.updateInput(msg)

	case analysisMsg:
		var text string
		switch m.ctrl.Apply(msg.seq, msg.link, msg.result) {
		case outcomeStale:
			return m, nil
		case outcomeSucceeded:
			text = fmt.Sprintf("%d flashcards generated.", len(msg.result.Concepts))
		default:
			text = "0 flashcards generated."
		}
		m.cursor = 0
		m.cards.GotoTop()
		cmds := []tea.Cmd{m.setStatus(text)}
		// An empty pane cannot hold focus.
		if m.focus == focusCards && len(m.ctrl.Concepts()) == 0 {
			m.focus = focusInput
			cmds = append(cmds, m.input.Focus())
		}
		m.refreshCards()
		return m, tea.Batch(cmds...)

	case pingMsg:
		if msg.err != nil {
			m.ctrl.log.WithError(msg.err).WithField("endpoint", m.pinger.Endpoint()).Warn("Analysis service health check failed")
			cmd := m.setStatus("Analysis service is not reachable at " + m.pinger.Endpoint())
			return m, cmd
		}
		cmd := m.setStatus("Connected to " + m.pinger.Endpoint())
		return m, cmd

	case resetStatusMsg:
		if msg.gen == m.statusGen {
			m.status = m.defaultStatus
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// setStatus shows text until the next status change or a reset tick.
func (m *model) setStatus(text string) tea.Cmd {
	m.statusGen++
	m.status = text
	return resetStatusCmd(m.statusGen)
}

func (m model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusInput && len(m.ctrl.Concepts()) > 0 {
		m.focus = focusCards
		m.input.Blur()
		m.refreshCards()
		return m, nil
	}
	m.focus = focusInput
	m.refreshCards()
	cmd := m.input.Focus()
	return m, cmd
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Submit) {
		m.ctrl.SetLink(m.input.Value())
		return m, m.ctrl.Submit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetLink(m.input.Value())
	return m, cmd
}

func (m model) updateCards(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cards := m.cardViews()
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(cards)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Discard):
		if m.cursor < len(cards) {
			cards[m.cursor].Discard()
		}
		remaining := len(m.ctrl.Concepts())
		if m.cursor >= remaining {
			m.cursor = max(remaining-1, 0)
		}
		if remaining == 0 {
			m.focus = focusInput
			m.refreshCards()
			cmd := m.input.Focus()
			return m, cmd
		}
	default:
		var cmd tea.Cmd
		m.cards, cmd = m.cards.Update(msg)
		return m, cmd
	}
	m.refreshCards()
	return m, nil
}

// cardViews builds one Card per concept, each discarding its own concept.
func (m model) cardViews() []Card {
	concepts := m.ctrl.Concepts()
	cards := make([]Card, 0, len(concepts))
	for _, c := range concepts {
		id := c.ID
		cards = append(cards, NewCard(c.Term, c.Definition, func() { m.ctrl.Discard(id) }))
	}
	return cards
}

// refreshCards re-renders the card pane and scrolls the selected card into view.
func (m *model) refreshCards() {
	var (
		rendered []string
		top      int
		bottom   int
		offset   int
	)
	for i, card := range m.cardViews() {
		selected := m.focus == focusCards && i == m.cursor
		view := card.View(selected, m.cards.Width)
		height := lipgloss.Height(view)
		if i == m.cursor {
			top, bottom = offset, offset+height
		}
		offset += height
		rendered = append(rendered, view)
	}
	m.cards.SetContent(strings.Join(rendered, "\n"))

	if top < m.cards.YOffset {
		m.cards.SetYOffset(top)
	} else if bottom > m.cards.YOffset+m.cards.Height {
		m.cards.SetYOffset(bottom - m.cards.Height)
	}
}

// --- View ---

func (m model) View() string {
	row := lipgloss.JoinHorizontal(lipgloss.Center, m.input.View(), "  ", buttonStyle.Render("Generate Flashcards"))
	sections := []string{titleStyle.Render("Youtube Link to Flashcards Generator"), row, ""}

	if m.ctrl.Present() {
		if len(m.ctrl.Concepts()) == 0 {
			sections = append(sections, emptyStyle.Render("No flashcards."))
		} else {
			sections = append(sections, m.cards.View())
		}
	}

	sections = append(sections, m.help.View(keys), helpStyle.Render(m.status))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
