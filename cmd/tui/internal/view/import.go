package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/unlockgrowth/intake/internal/importer"
	"github.com/unlockgrowth/intake/internal/intake"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateSourceSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	importService *importer.Service

	state          importState
	filePicker     filepicker.Model
	selectedSource importer.Source
	sourceOptions  []importer.Source
	sourceCursor   int

	status string
	err    error
}

func NewImportModel(svc *intake.Service, impSvc *importer.Service, sessionID uuid.UUID) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt", ".tsv", ".xlsx"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		CommonModel:   NewCommonModel(svc, sessionID),
		importService: impSvc,
		filePicker:    fp,
		sourceOptions: []importer.Source{importer.SourceBank, importer.SourcePOS},
	}
}

func (m ImportModel) Title() string { return "Import Cash Flow" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateSourceSelect {
			return m.updateSourceSelect(msg)
		}

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d cash-flow entries.", msg.count)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(m.selectedSource, path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateSourceSelect
		return m, nil
	case importStateResult:
		m.state = importStateSourceSelect
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateSourceSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.sourceCursor > 0 {
			m.sourceCursor--
		}
	case tea.KeyDown:
		if m.sourceCursor < len(m.sourceOptions)-1 {
			m.sourceCursor++
		}
	case tea.KeyEnter:
		m.selectedSource = m.sourceOptions[m.sourceCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateSourceSelect:
		return m.viewSourceSelect()
	case importStateFilePick:
		return m.viewFilePick()
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func sourceLabel(s importer.Source) string {
	switch s {
	case importer.SourceBank:
		return "Bank statement export"
	case importer.SourcePOS:
		return "POS sales export"
	}

	return string(s)
}

func (m ImportModel) viewSourceSelect() string {
	s := "Select export type:\n\n"

	for i, source := range m.sourceOptions {
		cursor := " "
		if i == m.sourceCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, sourceLabel(source))
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewFilePick() string {
	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("Select file to import (%s):\n\n%s", sourceLabel(m.selectedSource), m.filePicker.View()),
	)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorText(m.status) + "\n\n(Esc to go back)")
	}

	return style.Render(successText(m.status) + "\n\n(Esc to go back)")
}

// Messages

type importResultMsg struct {
	count int
	err   error
}

func (m ImportModel) importCmd(source importer.Source, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		entries, err := m.importService.ImportFile(source, path, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		ids, err := m.svc.ImportCashFlow(ctx, m.sessionID, entries)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{count: len(ids)}
	}
}
