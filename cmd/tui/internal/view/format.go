package view

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/unlockgrowth/intake/internal/summary"
)

const dbTimeout = 5 * time.Second

var titleCaser = cases.Title(language.English)

// FormatMoney renders an amount the way the summary does.
func FormatMoney(d decimal.Decimal) string {
	return summary.Money(d)
}

// FieldTitle turns a record field name such as "last_paid_date" into a
// column heading.
func FieldTitle(field string) string {
	return titleCaser.String(strings.ReplaceAll(field, "_", " "))
}

// DbCtx returns a context with a standard timeout for session store operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorText(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
}

func successText(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(s)
}
