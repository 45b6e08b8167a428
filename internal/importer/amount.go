package importer

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	errEmptyAmount    = errors.New("empty amount")
	errExponentAmount = errors.New("exponent notation in amount")
)

// parseAmount reads a money cell. Currency symbols and thousands separators
// are dropped and a parenthesised value is negative. With decimalComma set
// the cell is read European style: "1.234,56" is 1234.56.
func parseAmount(s string, decimalComma bool) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = strings.Trim(clean, "()")
	}

	clean = strings.NewReplacer("$", "", "€", "", "£", "", " ", "", " ", "").Replace(clean)

	if decimalComma {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	if clean == "" {
		return decimal.Zero, errEmptyAmount
	}

	if strings.ContainsAny(clean, "eE") {
		return decimal.Zero, errExponentAmount
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	if negative {
		d = d.Neg()
	}

	return d, nil
}
