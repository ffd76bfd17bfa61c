// Package invoicelib provides a public API for generating invoices.
//
// From one validated invoice record it produces a single-page visual PDF
// with the EN 16931 trade-invoice XML embedded (ZUGFeRD hybrid), or the
// XML on its own.
//
// Example usage:
//
//	gen := invoicelib.NewGenerator()
//	pdf, err := gen.PDF(ctx, invoice)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("rechnung.pdf", pdf, 0o644)
package invoicelib

import "github.com/crylonblue/invoice-api/internal/model"

// Re-export core types for public API
type (
	Invoice     = model.Invoice
	Address     = model.Address
	Seller      = model.Seller
	Customer    = model.Customer
	LineItem    = model.LineItem
	BankDetails = model.BankDetails
)

// Re-export error types
type (
	ValidationError     = model.ValidationError
	ValidationErrors    = model.ValidationErrors
	MalformedInputError = model.MalformedInputError
	GenerationError     = model.GenerationError
)
