package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ParseAmount coerces user input into a non-negative decimal.
// Unparsable or negative input yields zero.
func ParseAmount(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseQuantity coerces user input into a quantity. Unparsable input
// yields 1 and negative input yields 0.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	// accept "3.0" the way a number field would, keeping the integer part
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		s = s[:dot]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	if n < 0 {
		return 0
	}
	return n
}

var currencyPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders an amount in whole units with en-US thousands
// grouping, suffixed by the currency code: "1,250 USD".
// Display only; stored amounts keep their precision.
func FormatCurrency(amount decimal.Decimal, currency string) string {
	whole := amount.Round(0).IntPart()
	s := currencyPrinter.Sprintf("%d", whole)
	if currency == "" {
		return s
	}
	return s + " " + currency
}
