package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/unlockgrowth/intake/cmd/tui/internal/view"
	"github.com/unlockgrowth/intake/internal/chat"
	"github.com/unlockgrowth/intake/internal/config"
	"github.com/unlockgrowth/intake/internal/importer"
	"github.com/unlockgrowth/intake/internal/intake"
	intakeStore "github.com/unlockgrowth/intake/internal/intake/store"
	"github.com/unlockgrowth/intake/internal/submit"
)

type model struct {
	appName       string
	intakeService *intake.Service
	importService *importer.Service
	submitService *submit.Service
	assistant     *chat.Assistant
	sessionID     uuid.UUID

	// active is the open screen; nil shows the menu.
	active view.View
	// chat keeps the conversation between visits.
	chat view.ChatModel
}

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).PaddingLeft(1)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	intakeSvc := intake.NewService(intakeStore.New())
	impSvc := importer.NewService()
	subSvc := submit.NewService(cfg.Webhook.URL, cfg.Webhook.Timeout, cfg.App.Name).WithRateLimit(cfg.Webhook.RatePerMinute)
	assistant := chat.NewAssistant()

	sess, err := intakeSvc.Create(context.Background())
	if err != nil {
		slog.Error("failed to open intake session", "error", err)
		os.Exit(1)
	}

	return model{
		appName:       cfg.App.Name,
		intakeService: intakeSvc,
		importService: impSvc,
		submitService: subSvc,
		assistant:     assistant,
		sessionID:     sess.ID,
		chat:          view.NewChatModel(assistant),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.active == nil {
			return m.updateMenu(msg)
		}
	case view.BackMsg:
		if c, ok := m.active.(view.ChatModel); ok {
			m.chat = c
		}

		m.active = nil

		return m, nil
	}

	if m.active == nil {
		return m, nil
	}

	newModel, cmd := m.active.Update(msg)
	m.active = newModel.(view.View)

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.active = view.NewProfileModel(m.intakeService, m.sessionID)
	case "2":
		m.active = view.NewRecordsModel(m.intakeService, m.sessionID)
	case "3":
		m.active = view.NewImportModel(m.intakeService, m.importService, m.sessionID)
	case "4":
		m.active = view.NewSummaryModel(m.intakeService, m.submitService, m.sessionID)
	case "5":
		m.active = m.chat
	default:
		return m, nil
	}

	return m, m.active.Init()
}

func (m model) View() string {
	if m.active == nil {
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Business Profile\n" +
				"2. Evidence Records\n" +
				"3. Import Bank / POS Export\n" +
				"4. Summary & Submit\n" +
				"5. Ask the Assistant\n\n" +
				"q. Quit",
		)
	}

	return titleStyle.Render(m.appName+" · "+m.active.Title()) + "\n" + m.active.View()
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
