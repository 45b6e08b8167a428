package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/unlockgrowth/intake/internal/evidence"
	"github.com/unlockgrowth/intake/internal/intake"
)

var structureOptions = []string{"Sole trader", "Partnership", "Company", "Trust", "Co-operative"}

// profileFields are the form bindings. They live behind a pointer so the
// huh form keeps writing to the same values as the model is copied around.
type profileFields struct {
	business    evidence.Business
	owner       evidence.Owner
	connections evidence.Connections
	consent     evidence.Consent
	receipts    string
	note        string
}

type ProfileModel struct {
	CommonModel

	form    *huh.Form
	fields  *profileFields
	loading bool
	saving  bool
	err     error
}

func NewProfileModel(svc *intake.Service, sessionID uuid.UUID) ProfileModel {
	return ProfileModel{
		CommonModel: NewCommonModel(svc, sessionID),
		fields:      &profileFields{},
		loading:     true,
	}
}

func (m ProfileModel) Title() string { return "Business Profile" }

func (m ProfileModel) ShortHelp() string {
	return "Tab/Enter: next | Shift+Tab: previous | Esc: discard and go back"
}

func (m ProfileModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.fill(msg.session)
		m.form = m.buildForm()

		return m, m.form.Init()

	case profileSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		return m, Back

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.form == nil || m.saving {
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

	return m, m.saveCmd()
}

func (m ProfileModel) fill(sess *evidence.Session) {
	f := m.fields
	f.business = sess.Business
	f.owner = sess.Owner
	f.connections = sess.Connections
	f.consent = sess.Consent
	f.receipts = strconv.Itoa(sess.Connections.ReceiptCount)
	f.note = sess.CommunityNote
}

func (m ProfileModel) buildForm() *huh.Form {
	f := m.fields

	structure := huh.NewSelect[string]().
		Title("Business Structure").
		Options(withBlank("Not specified", structureOptions)...).
		Value(&f.business.Structure)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Business Name").
				Description("Required before the summary can be submitted").
				Value(&f.business.Name),
			huh.NewInput().Title("Trading Name").Value(&f.business.TradingName),
			huh.NewInput().Title("ABN").Value(&f.business.ABN),
			structure,
			huh.NewInput().Title("Years Trading").Value(&f.business.YearsTrading),
			huh.NewInput().Title("Staff Count").Value(&f.business.StaffCount),
			huh.NewInput().Title("Sector").Placeholder("e.g. Food & Hospitality").Value(&f.business.Sector),
			huh.NewInput().Title("Location").Value(&f.business.Location),
			huh.NewConfirm().Title("Remote or rural location?").Value(&f.business.RemoteRural),
		).Title("Business Basics"),

		huh.NewGroup(
			huh.NewInput().Title("Owner Full Name").Value(&f.owner.FullName),
			huh.NewInput().Title("Owner Address").Value(&f.owner.Address),
			huh.NewInput().
				Title("Date of Birth").
				Placeholder("YYYY-MM-DD").
				Value(&f.owner.DOB).
				Validate(optionalDate),
			huh.NewConfirm().Title("KYC Verified").Value(&f.owner.Verified),
		).Title("Borrower KYC"),

		huh.NewGroup(
			huh.NewConfirm().Title("Bank account connected").Value(&f.connections.BankConnected),
			huh.NewConfirm().Title("POS system connected").Value(&f.connections.POSConnected),
			huh.NewConfirm().Title("Bank statements / ratings uploaded").Value(&f.connections.RatingsUploaded),
			huh.NewInput().
				Title("Receipts captured").
				Value(&f.receipts).
				Validate(nonNegativeInt),
		).Title("Data Connections"),

		huh.NewGroup(
			huh.NewConfirm().Title("Allow AI analysis of my evidence").Value(&f.consent.AIAnalysis),
			huh.NewConfirm().Title("Allow anonymised use for lender insights").Value(&f.consent.AnonymizedUse),
			huh.NewText().
				Title("Community Evidence").
				Description("References, memberships or anything else lenders should know").
				Value(&f.note),
		).Title("Consent & Community"),
	).WithWidth(60).WithShowHelp(false)
}

// withBlank prepends an empty choice so an unset value survives the form.
func withBlank(label string, values []string) []huh.Option[string] {
	return append([]huh.Option[string]{huh.NewOption(label, "")}, huh.NewOptions(values...)...)
}

func optionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

func nonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return errors.New("enter a whole number of zero or more")
	}

	return nil
}

func (m ProfileModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.loading {
		return style.Render("Loading profile...")
	}

	if m.err != nil {
		return style.Render(errorText(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	return style.Render(m.form.View() + "\n\n" + lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()))
}

// Messages

type profileLoadedMsg struct {
	session *evidence.Session
	err     error
}

type profileSavedMsg struct {
	err error
}

func (m ProfileModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		sess, err := m.svc.Get(ctx, m.sessionID)

		return profileLoadedMsg{session: sess, err: err}
	}
}

func (m ProfileModel) saveCmd() tea.Cmd {
	f := *m.fields
	f.connections.ReceiptCount, _ = strconv.Atoi(strings.TrimSpace(f.receipts))

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.svc.UpdateProfile(ctx, m.sessionID, intake.ProfileParams{
			Business:      &f.business,
			Owner:         &f.owner,
			Connections:   &f.connections,
			Consent:       &f.consent,
			CommunityNote: &f.note,
		})

		return profileSavedMsg{err: err}
	}
}
