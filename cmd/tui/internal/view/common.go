package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/unlockgrowth/intake/internal/intake"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views. Every screen works on the one
// intake session the program opened at start-up.
type CommonModel struct {
	svc       *intake.Service
	sessionID uuid.UUID
}

func NewCommonModel(svc *intake.Service, sessionID uuid.UUID) CommonModel {
	return CommonModel{svc: svc, sessionID: sessionID}
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
