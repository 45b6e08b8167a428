package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/unlockgrowth/intake/internal/coverage"
	"github.com/unlockgrowth/intake/internal/intake"
	"github.com/unlockgrowth/intake/internal/submit"
	"github.com/unlockgrowth/intake/internal/summary"
)

const (
	submitTimeout = 2 * time.Minute
	barWidth      = 40
)

type summaryState int

const (
	summaryStateOverview summaryState = iota
	summaryStateSubmitting
	summaryStatePath
	summaryStateResult
)

type SummaryModel struct {
	CommonModel
	submitService *submit.Service

	state    summaryState
	loading  bool
	err      error
	result   coverage.Result
	summary  summary.Summary
	viewport viewport.Model
	spinner  spinner.Model

	pdf      *submit.Result
	form     *huh.Form
	saving   bool
	path     *string
	message  string
	fallback bool
}

func NewSummaryModel(svc *intake.Service, submitSvc *submit.Service, sessionID uuid.UUID) SummaryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return SummaryModel{
		CommonModel:   NewCommonModel(svc, sessionID),
		submitService: submitSvc,
		loading:       true,
		viewport:      viewport.New(72, 16),
		spinner:       s,
		path:          new("./exports"),
	}
}

func (m SummaryModel) Title() string { return "Summary & Submit" }

func (m SummaryModel) ShortHelp() string {
	switch m.state {
	case summaryStateSubmitting:
		return "Submitting..."
	case summaryStatePath:
		return "Enter: save | Esc: skip"
	case summaryStateResult:
		return "Esc: back to summary"
	}

	if m.submitService.Configured() {
		return "Esc: back | ↑/↓: scroll | s: submit for PDF | r: refresh"
	}

	return "Esc: back | ↑/↓: scroll | r: refresh"
}

func (m SummaryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.result = msg.result
		m.summary = msg.summary
		m.viewport.SetContent(m.summary.Text())

		return m, nil

	case tea.WindowSizeMsg:
		m.viewport.Height = max(msg.Height-16, 5)
		return m, nil
	}

	switch m.state {
	case summaryStateOverview:
		return m.updateOverview(msg)
	case summaryStateSubmitting:
		return m.updateSubmitting(msg)
	case summaryStatePath:
		return m.updatePath(msg)
	case summaryStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m SummaryModel) updateOverview(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			if !m.submitService.Configured() || m.loading {
				return m, nil
			}

			m.state = summaryStateSubmitting
			m.err = nil

			return m, tea.Batch(m.spinner.Tick, m.submitCmd())
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

func (m SummaryModel) updateSubmitting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(submitResultMsg); ok {
		if res.err != nil {
			m.state = summaryStateResult
			m.err = res.err
			m.message = submitErrorMessage(res.err)

			return m, nil
		}

		switch {
		case len(res.result.PDF) > 0:
			m.pdf = res.result
			m.form = m.buildPathForm()
			m.state = summaryStatePath

			return m, m.form.Init()
		case res.result.PDFURL != "":
			m.state = summaryStateResult
			m.message = "Your summary PDF is ready:\n\n" + res.result.PDFURL
		default:
			m.state = summaryStateResult
			m.fallback = true
			m.message = "The webhook did not return a document. Showing the local summary instead."
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m SummaryModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if saved, ok := msg.(pdfSavedMsg); ok {
		m.saving = false
		m.state = summaryStateResult
		if saved.err != nil {
			m.err = saved.err
			m.message = fmt.Sprintf("Error saving PDF: %v", saved.err)

			return m, nil
		}

		m.message = "Summary PDF saved to " + saved.path

		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = summaryStateOverview
			m.pdf = nil
			m.form = nil

			return m, nil
		}
	}

	if m.saving {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.saving = true

	return m, m.savePDFCmd(*m.path, m.pdf)
}

func (m SummaryModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = summaryStateOverview
			m.err = nil
			m.message = ""
			m.fallback = false
			m.pdf = nil
			m.form = nil

			return m, nil
		}
	}

	if m.fallback {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)

		return m, cmd
	}

	return m, nil
}

func submitErrorMessage(err error) string {
	switch {
	case errors.Is(err, submit.ErrBusinessNameRequired):
		return "Add a business name in the profile before submitting."
	case errors.Is(err, submit.ErrNotConfigured):
		return "Submission is disabled. Set WEBHOOK_URL to enable it."
	case errors.Is(err, submit.ErrRateLimited):
		return "Too many submissions. Try again in a minute."
	}

	return fmt.Sprintf("Error: %v", err)
}

func (m SummaryModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Save PDF To").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(m.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m SummaryModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.loading {
		return style.Render("Building summary...")
	}

	help := lipgloss.NewStyle().Faint(true).Render(m.ShortHelp())

	switch m.state {
	case summaryStateSubmitting:
		return style.Render(fmt.Sprintf("%s Generating summary PDF...", m.spinner.View()))

	case summaryStatePath:
		return style.Render(
			successText(fmt.Sprintf("Received %s", m.pdf.Filename)) + "\n\n" + m.form.View() + "\n\n" + help,
		)

	case summaryStateResult:
		text := successText(m.message)
		if m.err != nil {
			text = errorText(m.message)
		}

		if m.fallback {
			text += "\n\n" + m.viewport.View()
		}

		return style.Render(text + "\n\n" + help)
	}

	if m.err != nil {
		return style.Render(errorText(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + help)
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.viewCoverage(),
		"",
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.viewport.View()),
		"",
		help,
	))
}

func (m SummaryModel) viewCoverage() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Data Coverage %s %d%% (%s)\n\n",
		coverageBar(m.result.Score, m.result.Badge), m.result.Score, m.result.Badge)

	for _, c := range m.result.Contributions {
		mark := lipgloss.NewStyle().Faint(true).Render("·")
		if c.Points > 0 {
			mark = successText("✓")
		}

		fmt.Fprintf(&sb, "%s %-36s %2d/%d\n", mark, c.Signal.Label(), c.Points, c.Max)
	}

	return sb.String()
}

func badgeColor(b coverage.Badge) lipgloss.Color {
	switch b {
	case coverage.BadgeHigh:
		return lipgloss.Color("46")
	case coverage.BadgeMedium:
		return lipgloss.Color("214")
	}

	return lipgloss.Color("196")
}

func coverageBar(score int, badge coverage.Badge) string {
	filled := score * barWidth / coverage.MaxScore

	return lipgloss.NewStyle().Foreground(badgeColor(badge)).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Faint(true).Render(strings.Repeat("░", barWidth-filled))
}

// Messages

type summaryLoadedMsg struct {
	result  coverage.Result
	summary summary.Summary
	err     error
}

type submitResultMsg struct {
	result *submit.Result
	err    error
}

type pdfSavedMsg struct {
	path string
	err  error
}

func (m SummaryModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		result, err := m.svc.Coverage(ctx, m.sessionID)
		if err != nil {
			return summaryLoadedMsg{err: err}
		}

		sum, err := m.svc.Summary(ctx, m.sessionID)
		if err != nil {
			return summaryLoadedMsg{err: err}
		}

		return summaryLoadedMsg{result: result, summary: sum}
	}
}

func (m SummaryModel) submitCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()

		sess, err := m.svc.Get(ctx, m.sessionID)
		if err != nil {
			return submitResultMsg{err: err}
		}

		result, err := m.submitService.Submit(ctx, sess, nil)

		return submitResultMsg{result: result, err: err}
	}
}

func (m SummaryModel) savePDFCmd(dir string, res *submit.Result) tea.Cmd {
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return pdfSavedMsg{err: err}
		}

		path := filepath.Join(dir, res.Filename)
		if err := os.WriteFile(path, res.PDF, 0o644); err != nil {
			return pdfSavedMsg{err: err}
		}

		return pdfSavedMsg{path: path}
	}
}
