package importer

import (
	"fmt"

	"github.com/tealeg/xlsx/v2"

	"github.com/unlockgrowth/intake/internal/evidence"
)

// ParseXLSX reads the first worksheet of a spreadsheet export. Cells are
// taken as their formatted text, so the header and date rules match Parse.
func (p *Parser) ParseXLSX(data []byte) ([]evidence.CashFlowEntry, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}

	if len(f.Sheets) == 0 {
		return nil, ErrNoMatchingHeader
	}

	rows := sheetRows(f.Sheets[0])

	profile, cols, headerIdx := p.detectProfile(rows)
	if profile == nil {
		return nil, ErrNoMatchingHeader
	}

	return parseRows(profile, cols, rows[headerIdx+1:], false)
}

func sheetRows(sheet *xlsx.Sheet) [][]string {
	rows := make([][]string, 0, len(sheet.Rows))

	for _, row := range sheet.Rows {
		if row == nil {
			rows = append(rows, nil)
			continue
		}

		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}

		rows = append(rows, cells)
	}

	return rows
}
