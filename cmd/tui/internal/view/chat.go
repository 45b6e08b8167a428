package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unlockgrowth/intake/internal/chat"
)

type chatEntry struct {
	fromUser bool
	text     string
}

type ChatModel struct {
	assistant *chat.Assistant

	input       textinput.Model
	history     viewport.Model
	entries     []chatEntry
	suggestions []string
}

func NewChatModel(assistant *chat.Assistant) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about documents, matching, loans..."
	ti.Width = 60
	ti.Focus()

	m := ChatModel{
		assistant: assistant,
		input:     ti,
		history:   viewport.New(78, 18),
	}
	m.push(assistant.Greeting())

	return m
}

func (m ChatModel) Title() string { return "Intake Assistant" }

func (m ChatModel) ShortHelp() string {
	return "Enter: send | 1-4: ask a suggestion | Esc: back"
}

func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "enter":
			return m.ask(m.input.Value())
		case "1", "2", "3", "4":
			// Digits only pick a suggestion while the input is empty.
			if m.input.Value() == "" {
				idx := int(msg.String()[0] - '1')
				if idx < len(m.suggestions) {
					return m.ask(m.suggestions[idx])
				}
			}
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.history, cmd = m.history.Update(msg)

			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.history.Width = min(msg.Width-4, 100)
		m.history.Height = max(msg.Height-12, 5)
		m.render()

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m ChatModel) ask(message string) (tea.Model, tea.Cmd) {
	message = strings.TrimSpace(message)
	if message == "" {
		return m, nil
	}

	m.entries = append(m.entries, chatEntry{fromUser: true, text: message})
	m.push(m.assistant.Reply(message))
	m.input.Reset()

	return m, nil
}

func (m *ChatModel) push(r chat.Reply) {
	m.entries = append(m.entries, chatEntry{text: r.Content})
	m.suggestions = r.Suggestions
	m.render()
}

func (m *ChatModel) render() {
	var (
		you       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
		assistant = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
		body      = lipgloss.NewStyle().Width(m.history.Width - 2)
	)

	var sb strings.Builder

	for _, e := range m.entries {
		if e.fromUser {
			sb.WriteString(you.Render("You") + "\n")
		} else {
			sb.WriteString(assistant.Render("Assistant") + "\n")
		}

		sb.WriteString(body.Render(e.text) + "\n\n")
	}

	m.history.SetContent(sb.String())
	m.history.GotoBottom()
}

func (m ChatModel) View() string {
	var suggestions []string
	for i, s := range m.suggestions {
		suggestions = append(suggestions, fmt.Sprintf("%s %s", activeStyle(fmt.Sprintf("[%d]", i+1)), s))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		m.history.View(),
		strings.Join(suggestions, "   "),
		"",
		m.input.View(),
		"",
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	))
}
