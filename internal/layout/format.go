package layout

import (
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var amountPrinter = message.NewPrinter(language.German)

// symbols maps ISO 4217 codes to display symbols. Codes without a symbol
// render as-is.
var symbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
}

// Currency formats an amount with fixed two fraction digits, German
// thousands/decimal separators and the currency symbol as suffix.
func Currency(amount decimal.Decimal, code string) string {
	f, _ := amount.Float64()
	formatted := amountPrinter.Sprintf("%v", number.Decimal(f, number.Scale(2)))

	symbol, ok := symbols[code]
	if !ok {
		symbol = code
	}
	return formatted + " " + symbol
}

// formatQuantity renders a quantity without trailing zeros.
func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// formatDate reformats an ISO date (YYYY-MM-DD) as day.month.year.
func formatDate(iso string) string {
	if len(iso) != 10 {
		return iso
	}
	return iso[8:10] + "." + iso[5:7] + "." + iso[0:4]
}

// formatRate renders the tax rate without trailing zeros.
func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
