package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/unlockgrowth/intake/internal/coverage"
	"github.com/unlockgrowth/intake/internal/evidence"
	"github.com/unlockgrowth/intake/internal/intake"
)

type recordsState int

const (
	recordsStateBrowse recordsState = iota
	recordsStateEdit
)

const columnWidth = 18

// rowEdit holds the form bindings of the row being edited.
type rowEdit struct {
	rowID    uuid.UUID
	original map[string]string
	values   map[string]*string
}

type RecordsModel struct {
	CommonModel

	state   recordsState
	kindIdx int
	table   table.Model
	rows    []evidence.Row
	totals  evidence.Totals
	result  coverage.Result
	form    *huh.Form
	edit    *rowEdit
	loading bool
	err     error
	status  string
}

func NewRecordsModel(svc *intake.Service, sessionID uuid.UUID) RecordsModel {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := RecordsModel{
		CommonModel: NewCommonModel(svc, sessionID),
		table:       t,
		loading:     true,
	}
	m.setColumns()

	return m
}

func (m RecordsModel) Title() string { return "Evidence Records" }

func (m RecordsModel) ShortHelp() string {
	if m.state == recordsStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | Tab/Shift+Tab: switch list | a: add | e: edit | x: delete | r: refresh"
}

func (m RecordsModel) kind() evidence.Kind {
	return evidence.Kinds[m.kindIdx]
}

func (m RecordsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.rows = msg.rows
		m.totals = msg.totals
		m.result = msg.result
		m.refreshTable()

		if msg.focus != uuid.Nil {
			for i, r := range m.rows {
				if r.RowID() == msg.focus {
					m.table.SetCursor(i)
				}
			}
		}

		return m, nil

	case recordsChangedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.status
		}

		m.state = recordsStateBrowse
		m.form = nil
		m.edit = nil
		m.table.Focus()

		return m, m.loadFocusCmd(msg.focus)

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	switch m.state {
	case recordsStateBrowse:
		return m.updateBrowse(msg)
	case recordsStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m RecordsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "tab", "right":
			return m.switchKind(1)
		case "shift+tab", "left":
			return m.switchKind(len(evidence.Kinds) - 1)
		case "a":
			return m, m.addCmd()
		case "e", "enter":
			return m.enterEditMode()
		case "x", "delete":
			return m, m.removeCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m RecordsModel) switchKind(step int) (tea.Model, tea.Cmd) {
	m.kindIdx = (m.kindIdx + step) % len(evidence.Kinds)
	m.status = ""
	m.rows = nil
	m.table.SetRows(nil)
	m.setColumns()
	m.table.SetCursor(0)

	return m, m.loadCmd()
}

func (m RecordsModel) selectedRow() evidence.Row {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return nil
	}

	return m.rows[idx]
}

func (m RecordsModel) enterEditMode() (tea.Model, tea.Cmd) {
	row := m.selectedRow()
	if row == nil {
		return m, nil
	}

	edit := &rowEdit{
		rowID:    row.RowID(),
		original: make(map[string]string),
		values:   make(map[string]*string),
	}

	var fields []huh.Field

	for _, name := range evidence.Fields(m.kind()) {
		value, _ := row.Get(name)
		edit.original[name] = value
		edit.values[name] = &value

		fields = append(fields, fieldInput(m.kind(), name, edit.values[name]))
	}

	m.edit = edit
	m.form = huh.NewForm(huh.NewGroup(fields...)).WithWidth(45).WithShowHelp(false)
	m.state = recordsStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

// fieldInput picks a select for enumerated fields and a text input otherwise.
func fieldInput(kind evidence.Kind, name string, value *string) huh.Field {
	if opts := evidence.Options(kind, name); len(opts) > 0 {
		return huh.NewSelect[string]().
			Key(name).
			Title(FieldTitle(name)).
			Options(huh.NewOptions(opts...)...).
			Value(value)
	}

	input := huh.NewInput().
		Key(name).
		Title(FieldTitle(name)).
		Value(value)

	switch {
	case strings.Contains(name, "date") || name == "valid_until":
		input = input.Placeholder("YYYY-MM-DD").Validate(optionalDate)
	case isAmountField(name):
		input = input.Placeholder("0.00")
	}

	return input
}

func isAmountField(name string) bool {
	switch name {
	case "inflow", "outflow", "avg_monthly", "monthly_rent", "amount", "est_value", "balance":
		return true
	}

	return false
}

func (m RecordsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = recordsStateBrowse
			m.form = nil
			m.edit = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m RecordsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading records...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorText(fmt.Sprintf("Error: %v", m.err)))
	}

	tabs := make([]string, len(evidence.Kinds))
	for i, k := range evidence.Kinds {
		if i == m.kindIdx {
			tabs[i] = activeStyle("[" + k.Label() + "]")
			continue
		}

		tabs[i] = lipgloss.NewStyle().Faint(true).Render(k.Label())
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(strings.Join(tabs, "  ")),
		tableView,
		m.footer(),
	)

	if m.state == recordsStateEdit && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Edit %s\n\n%s", m.kind().Label(), m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()))
}

func (m RecordsModel) footer() string {
	score := fmt.Sprintf("Data Coverage: %s (%s)",
		activeStyle(fmt.Sprintf("%d%%", m.result.Score)), m.result.Badge)

	if m.kind() != evidence.KindCashFlow {
		return score
	}

	return fmt.Sprintf("In %s | Out %s | Net %s | Weeks logged %d\n%s",
		FormatMoney(m.totals.Inflow),
		FormatMoney(m.totals.Outflow),
		FormatMoney(m.totals.Net),
		m.totals.WeeksLogged,
		score,
	)
}

func (m *RecordsModel) setColumns() {
	names := evidence.Fields(m.kind())

	columns := make([]table.Column, len(names))
	for i, name := range names {
		columns[i] = table.Column{Title: FieldTitle(name), Width: columnWidth}
	}

	m.table.SetColumns(columns)
}

func (m *RecordsModel) refreshTable() {
	names := evidence.Fields(m.kind())

	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		cells := make(table.Row, len(names))
		for i, name := range names {
			cells[i], _ = r.Get(name)
		}

		rows = append(rows, cells)
	}

	m.table.SetRows(rows)
}

// Messages

type recordsLoadedMsg struct {
	rows   []evidence.Row
	totals evidence.Totals
	result coverage.Result
	focus  uuid.UUID
	err    error
}

type recordsChangedMsg struct {
	status string
	focus  uuid.UUID
	err    error
}

func (m RecordsModel) loadCmd() tea.Cmd {
	return m.loadFocusCmd(uuid.Nil)
}

func (m RecordsModel) loadFocusCmd(focus uuid.UUID) tea.Cmd {
	kind := m.kind()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		sess, err := m.svc.Get(ctx, m.sessionID)
		if err != nil {
			return recordsLoadedMsg{err: err}
		}

		rows, err := sess.Rows(kind)
		if err != nil {
			return recordsLoadedMsg{err: err}
		}

		return recordsLoadedMsg{
			rows:   rows,
			totals: sess.Totals(),
			result: coverage.Evaluate(sess.Signals()),
			focus:  focus,
		}
	}
}

func (m RecordsModel) addCmd() tea.Cmd {
	kind := m.kind()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		id, err := m.svc.AddRow(ctx, m.sessionID, kind)

		return recordsChangedMsg{status: "Row added. Press e to fill it in.", focus: id, err: err}
	}
}

func (m RecordsModel) removeCmd() tea.Cmd {
	row := m.selectedRow()
	if row == nil {
		return nil
	}

	kind := m.kind()
	rowID := row.RowID()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.svc.RemoveRow(ctx, m.sessionID, kind, rowID)

		return recordsChangedMsg{status: "Row removed.", err: err}
	}
}

func (m RecordsModel) saveCmd() tea.Cmd {
	if m.edit == nil {
		return nil
	}

	kind := m.kind()
	edit := m.edit

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		for _, name := range evidence.Fields(kind) {
			value := strings.TrimSpace(*edit.values[name])
			if value == edit.original[name] {
				continue
			}

			if err := m.svc.UpdateField(ctx, m.sessionID, kind, edit.rowID, name, value); err != nil {
				return recordsChangedMsg{focus: edit.rowID, err: err}
			}
		}

		return recordsChangedMsg{status: "Row saved.", focus: edit.rowID}
	}
}
