package tui

import (
	"github.com/andy/cotiza/internal/domain"
	"github.com/shopspring/decimal"
)

// formatMoney formats an amount in the document currency
func formatMoney(amount decimal.Decimal, currency string) string {
	return domain.FormatCurrency(amount, currency)
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// firstLine returns s up to its first newline
func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i] + " ..."
		}
	}
	return s
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
