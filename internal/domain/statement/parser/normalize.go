package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are the formats tried, in order, for table cell dates.
// The first layout that parses wins. Non-padded layouts accept both padded
// and single-digit month and day components; years must be four digits.
var dateLayouts = []string{
	"1/2/2006", // M/D/Y
	"2/1/2006", // D/M/Y
	"2006-1-2", // Y-M-D
	"1-2-2006", // M-D-Y
	"2-1-2006", // D-M-Y
}

// ParseFlexibleDate parses a date cell against the supported layouts.
func ParseFlexibleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
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

// CleanAmount strips every character that is not a digit, a period, or a
// minus sign.
func CleanAmount(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
}

// ParseAmount cleans an amount token and parses it as a decimal.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := CleanAmount(s)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("no numeric content in %q", s)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// ParseSignedAmount parses an amount token and infers its sign from the raw
// text: a minus sign or parenthesis anywhere in the token forces the amount
// negative, regardless of the parsed sign. Bank statements commonly render
// outflows as "(123.45)".
func ParseSignedAmount(raw string) (decimal.Decimal, error) {
	d, err := ParseAmount(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if strings.ContainsAny(raw, "-(") {
		return d.Abs().Neg(), nil
	}
	return d, nil
}
