// Package core holds the typed query results, the display formatting rules and
// the in-memory reshaping used by the reporting endpoints.
//
// This file contains the pt-BR display formatters. Currency swaps the
// separators relative to the machine-default rendering (thousands ".", decimal
// ","); percentages keep the dot decimal, matching the source dashboards.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Style tags consumed by the presentation layer for color-coding variance.
const (
	StylePositive = "positive"
	StyleNegative = "negative"
)

// FormatCurrency renders a nullable amount as Brazilian currency.
//
// Null renders as the fixed string "R$ 0,00". Everything else gets exactly two
// decimal digits, "." as the thousands separator and "," as the decimal
// separator, prefixed "R$ ". The sign sits between the prefix and the digits.
//
// Examples:
//
//	FormatCurrency(NullOf(decimal.NewFromFloat(1234.5))) -> "R$ 1.234,50"
//	FormatCurrency(decimal.NullDecimal{})                -> "R$ 0,00"
func FormatCurrency(v decimal.NullDecimal) string {
	if !v.Valid {
		return "R$ 0,00"
	}
	d := v.Decimal
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart := fixed[:len(fixed)-3]
	fracPart := fixed[len(fixed)-2:]
	return "R$ " + sign + groupThousands(intPart) + "," + fracPart
}

// FormatPercent renders a nullable ratio as a percentage with one decimal
// place. Null renders as "0%". The decimal separator stays a dot.
//
//	FormatPercent(NullOf(decimal.NewFromFloat(0.153))) -> "15.3%"
func FormatPercent(v decimal.NullDecimal) string {
	if !v.Valid {
		return "0%"
	}
	return v.Decimal.Shift(2).StringFixed(1) + "%"
}

// VarianceStyle classifies a nullable variance for color-coding: positive
// values get StylePositive, negative ones StyleNegative, null and zero get no
// styling.
func VarianceStyle(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	switch v.Decimal.Sign() {
	case 1:
		return StylePositive
	case -1:
		return StyleNegative
	}
	return ""
}

// groupThousands inserts "." every three digits, right to left.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
