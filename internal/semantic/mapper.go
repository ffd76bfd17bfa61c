// Package semantic maps the canonical invoice onto the EN 16931
// Cross-Industry Invoice structure and serializes it as XML.
//
// Top-level amounts are taken verbatim from the totals computed once per
// generation, so the structured document can never disagree with the
// visual one. Per-line totals are recomputed with per-line rounding, which
// may diverge from the document net by one minor unit; that asymmetry is
// part of the contract.
package semantic

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crylonblue/invoice-api/internal/model"
	"github.com/crylonblue/invoice-api/internal/money"
	"github.com/crylonblue/invoice-api/internal/units"
)

// typeCodeCommercialInvoice is the UNTDID 1001 code for a commercial invoice.
const typeCodeCommercialInvoice = "380"

// paymentTermDays is the default payment window applied when the invoice
// carries no explicit due date.
const paymentTermDays = 14

// TradeInvoice is the typed intermediate between the canonical invoice
// and the CII XML document.
type TradeInvoice struct {
	Number    string
	TypeCode  string
	IssueDate string
	Currency  string
	Note      string

	Seller TradeParty
	Buyer  TradeParty

	Lines []TradeLine

	TaxCalculated decimal.Decimal
	TaxBasis      decimal.Decimal
	TaxCategory   string
	TaxRate       float64

	PaymentIBAN string
	DueDate     string

	LineTotal     decimal.Decimal
	TaxBasisTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
	DuePayable    decimal.Decimal
}

// TradeParty is a seller or buyer with its postal address and optional
// tax registrations.
type TradeParty struct {
	Name      string
	Postcode  string
	LineOne   string
	City      string
	CountryID string
	VATID     string
	TaxNumber string
}

// TradeLine is one invoice line with its synthetic identifier.
type TradeLine struct {
	ID       string
	Name     string
	Quantity float64
	UnitCode string
	Total    decimal.Decimal
	TaxRate  float64
}

// Map builds the trade invoice from the canonical record and the shared
// totals.
func Map(inv *model.Invoice, totals money.Totals) *TradeInvoice {
	ti := &TradeInvoice{
		Number:    inv.InvoiceNumber,
		TypeCode:  typeCodeCommercialInvoice,
		IssueDate: inv.InvoiceDate,
		Currency:  inv.Currency,

		Seller: mapParty(inv.Seller.Name, inv.Seller.Address),
		Buyer:  mapParty(inv.Customer.Name, inv.Customer.Address),

		TaxCalculated: totals.Tax,
		TaxBasis:      totals.Net,
		TaxCategory:   "S",
		TaxRate:       inv.TaxRate,

		LineTotal:     totals.Net,
		TaxBasisTotal: totals.Net,
		TaxTotal:      totals.Tax,
		GrandTotal:    totals.Gross,
		DuePayable:    totals.Gross,
	}

	if inv.Note != nil {
		ti.Note = *inv.Note
	}
	if inv.Seller.VATID != nil {
		ti.Seller.VATID = normalizeVATID(*inv.Seller.VATID, inv.Seller.Address.Country)
	}
	if inv.Seller.TaxNumber != nil {
		ti.Seller.TaxNumber = *inv.Seller.TaxNumber
	}
	if inv.BankDetails != nil {
		ti.PaymentIBAN = strings.ReplaceAll(inv.BankDetails.IBAN, " ", "")
	}

	// Due date defaults to invoice date + 14 calendar days, but only when
	// anything is actually payable.
	if totals.Gross.IsPositive() {
		if issued, err := time.Parse(model.DateLayout, inv.InvoiceDate); err == nil {
			ti.DueDate = issued.AddDate(0, 0, paymentTermDays).Format(model.DateLayout)
		}
	}

	for i, item := range inv.Items {
		ti.Lines = append(ti.Lines, TradeLine{
			ID:       fmt.Sprintf("LINE-%d", i+1),
			Name:     item.Description,
			Quantity: item.Quantity,
			UnitCode: units.Code(item.Unit),
			Total:    money.LineTotal(item),
			TaxRate:  inv.TaxRate,
		})
	}

	return ti
}

func mapParty(name string, a model.Address) TradeParty {
	return TradeParty{
		Name:      name,
		Postcode:  a.PostalCode,
		LineOne:   a.StreetLine(),
		City:      a.City,
		CountryID: a.Country,
	}
}

// normalizeVATID prepends the seller's 2-letter address country code when
// the identifier does not already carry it. The VAT jurisdiction is
// assumed to equal the address country; no cross-check is performed.
func normalizeVATID(vatID, country string) string {
	if strings.HasPrefix(vatID, country) {
		return vatID
	}
	return country + vatID
}
