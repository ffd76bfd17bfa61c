// Package money implements the monetary computation for one invoice.
//
// Totals are computed exactly once per generation and reused by both the
// visual and the semantic output, so the two can never disagree.
package money

import (
	"github.com/shopspring/decimal"

	"github.com/crylonblue/invoice-api/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Totals holds the document-level amounts, each independently rounded to
// 2 decimal places, ties away from zero.
type Totals struct {
	Net   decimal.Decimal
	Tax   decimal.Decimal
	Gross decimal.Decimal
}

// Compute derives the invoice totals from its line items and tax rate.
//
// The order matters: the net is the unrounded sum of unrounded line
// amounts, tax and gross are derived from it, and only then is each of
// the three rounded independently. This is NOT the same as summing
// rounded line totals; see LineTotal.
func Compute(items []model.LineItem, taxRate float64) Totals {
	net := decimal.Zero
	for _, item := range items {
		net = net.Add(lineAmount(item))
	}
	tax := net.Mul(decimal.NewFromFloat(taxRate)).Div(hundred)
	gross := net.Add(tax)

	return Totals{
		Net:   net.Round(2),
		Tax:   tax.Round(2),
		Gross: gross.Round(2),
	}
}

// LineTotal is quantity × unit price rounded to 2 decimal places.
//
// Line totals round per line while Compute rounds the unrounded sum, so
// the sum of line totals may differ from Totals.Net by one minor unit on
// certain inputs. That asymmetry is deliberate and must be preserved.
func LineTotal(item model.LineItem) decimal.Decimal {
	return lineAmount(item).Round(2)
}

func lineAmount(item model.LineItem) decimal.Decimal {
	return decimal.NewFromFloat(item.Quantity).Mul(decimal.NewFromFloat(item.UnitPrice))
}
