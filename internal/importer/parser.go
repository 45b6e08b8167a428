package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/unlockgrowth/intake/internal/evidence"
)

var ErrNoMatchingHeader = errors.New("no recognised header row")

// dateLayouts are tried in order; day-first layouts follow the local
// banking convention.
var dateLayouts = []string{time.DateOnly, "02/01/2006", "02-01-2006", "2/1/2006"}

// Parser reads a CSV export and produces cash-flow entries. It detects the
// delimiter and which of its profiles the header row matches.
type Parser struct {
	profiles []Profile
}

func NewParser(profiles []Profile) *Parser {
	return &Parser{profiles: profiles}
}

func (p *Parser) Parse(r io.Reader) ([]evidence.CashFlowEntry, error) {
	utf8r, err := decodeExport(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	for _, comma := range []rune{',', ';', '\t'} {
		rows, err := readRows(data, comma)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := p.detectProfile(rows)
		if profile == nil {
			continue
		}

		return parseRows(profile, cols, rows[headerIdx+1:], comma == ';')
	}

	return nil, ErrNoMatchingHeader
}

func readRows(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile and
// returns it with its column map and row index.
func (p *Parser) detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range p.profiles {
			if matchesProfile(&p.profiles[i], cols) {
				return &p.profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows turns data rows into entries. Rows without a parseable date
// (footers, balances) and rows that move no money are skipped.
func parseRows(p *Profile, cols colIndex, rows [][]string, decimalComma bool) ([]evidence.CashFlowEntry, error) {
	var entries []evidence.CashFlowEntry

	for _, row := range rows {
		date, ok := parseDate(cellValue(row, cols[p.DateCol]))
		if !ok {
			continue
		}

		in, out := flows(p, cols, row, decimalComma)
		if in.IsZero() && out.IsZero() {
			continue
		}

		entries = append(entries, evidence.CashFlowEntry{
			Date:    date.Format(time.DateOnly),
			Inflow:  formatFlow(in),
			Outflow: formatFlow(out),
		})
	}

	return entries, nil
}

// flows returns the non-negative money in and money out of a row.
func flows(p *Profile, cols colIndex, row []string, decimalComma bool) (decimal.Decimal, decimal.Decimal) {
	switch p.AmountMode {
	case amountSigned:
		d, err := parseAmount(cellValue(row, cols[p.AmountCol]), decimalComma)
		if err != nil {
			return decimal.Zero, decimal.Zero
		}

		if d.IsNegative() {
			return decimal.Zero, d.Abs()
		}

		return d, decimal.Zero
	case amountSplit:
		in, err := parseAmount(cellValue(row, cols[p.InflowCol]), decimalComma)
		if err != nil {
			in = decimal.Zero
		}

		out, err := parseAmount(cellValue(row, cols[p.OutflowCol]), decimalComma)
		if err != nil {
			out = decimal.Zero
		}

		return in.Abs(), out.Abs()
	}

	return decimal.Zero, decimal.Zero
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func formatFlow(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}

	return d.StringFixed(2)
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
