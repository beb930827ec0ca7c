// Package core holds the datefy domain: users, tasks, ledger entries
// and the category aggregation used by the dashboard charts.
//
// This file parses monetary amounts from user-entered text and converts
// between centavos and reais.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCentavos converts a decimal string to centavos with
// half-up rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// The result is always positive; invalid formats, negative values and
// zero amounts are rejected.
//
// Examples:
//
//	ParseDecimalToCentavos("12.34") -> 1234, nil
//	ParseDecimalToCentavos("12,34") -> 1234, nil
//	ParseDecimalToCentavos("12.345") -> 1234, nil (rounds down)
//	ParseDecimalToCentavos("12.346") -> 1235, nil (rounds up)
func ParseDecimalToCentavos(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive magnitudes are stored; sign comes from tipo
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCentavos int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCentavos = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCentavos += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCentavos++
			}
		}
	}
	centavos := iv*100 + fracCentavos
	if centavos <= 0 {
		return 0, ErrInvalidAmount
	}
	return centavos, nil
}

// ParseParcelas converts the installment-count form field to an int,
// defaulting to 1 when empty.
func ParseParcelas(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, ErrInvalidParcelas
	}
	return n, nil
}
