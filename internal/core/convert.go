package core

// convert.go turns raw export cells into typed values.
//
// Every function here is total: bad input degrades to a zero value instead of
// an error. ERP exports routinely leave quantity cells blank for rows where
// the figure does not apply, so a blank or garbled number means zero.

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// numericRegex validates that a string is a plain decimal number after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// datePrefix matches year, month and day joined by '.', '/' or '-', with
// optional spaces around each separator. Anything after the day must start
// with a separator, a space, or 'T' (a time of day).
var datePrefix = regexp.MustCompile(`^(\d{4})\s*[./-]\s*(\d{1,2})\s*[./-]\s*(\d{1,2})(?:$|[./\sT-])`)

// ParseQuantity converts a numeric cell to a decimal.
// Thousands separators are stripped; empty or non-numeric input yields zero.
func ParseQuantity(s string) decimal.Decimal {
	s = strings.ReplaceAll(CleanCell(s), ",", "")
	if s == "" || !numericRegex.MatchString(s) {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseDate parses an export date such as "2024.01.15".
// Period and slash separators work like hyphens, a trailing separator is
// ignored, and a time of day after the date is dropped.
// The second return value is false when the text is not a calendar date.
func ParseDate(s string) (time.Time, bool) {
	m := datePrefix.FindStringSubmatch(CleanCell(s))
	if m == nil {
		return time.Time{}, false
	}

	t, err := time.Parse("2006-1-2", m[1]+"-"+m[2]+"-"+m[3])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CleanCell removes common export artifacts from a cell value:
// - Trims whitespace
// - Removes the spreadsheet text-formula wrapper (="...")
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = strings.TrimSpace(s[2 : len(s)-1])
	}

	return s
}
