// Package model defines the canonical invoice record and the error
// taxonomy shared by the generation pipeline.
//
// An Invoice is treated as immutable for the duration of one generation:
// every output (visual PDF, semantic XML) is a pure function of the same
// validated record.
package model

import (
	"fmt"
	"net/url"
	"time"
)

// DateLayout is the wire format for invoice and service dates.
const DateLayout = "2006-01-02"

// Address is a postal address with an ISO 3166-1 alpha-2 country code.
type Address struct {
	Street       string `json:"street"`
	StreetNumber string `json:"streetNumber"`
	PostalCode   string `json:"postalCode"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

// StreetLine returns the combined street + number line.
func (a Address) StreetLine() string {
	return a.Street + " " + a.StreetNumber
}

// CityLine returns the combined postal code + city line.
func (a Address) CityLine() string {
	return a.PostalCode + " " + a.City
}

// Seller is the invoicing party.
type Seller struct {
	Name        string  `json:"name"`
	SubHeadline *string `json:"subHeadline,omitempty"`
	Address     Address `json:"address"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	TaxNumber   *string `json:"taxNumber,omitempty"`
	VATID       *string `json:"vatId,omitempty"`
}

// Customer is the invoiced party.
type Customer struct {
	Name           string   `json:"name"`
	Address        Address  `json:"address"`
	PhoneNumber    *string  `json:"phoneNumber,omitempty"`
	AdditionalInfo []string `json:"additionalInfo,omitempty"`
}

// LineItem is one billed row.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
}

// BankDetails holds the payment account printed on the invoice.
type BankDetails struct {
	IBAN     string `json:"iban"`
	BankName string `json:"bankName"`
}

// Invoice is the aggregate root. Optional fields are pointers so that
// present/absent is explicit rather than inferred from zero values.
type Invoice struct {
	InvoiceNumber string       `json:"invoiceNumber"`
	InvoiceDate   string       `json:"invoiceDate"`
	ServiceDate   string       `json:"serviceDate"`
	Seller        Seller       `json:"seller"`
	Customer      Customer     `json:"customer"`
	Items         []LineItem   `json:"items"`
	TaxRate       float64      `json:"taxRate"`
	Currency      string       `json:"currency"`
	Note          *string      `json:"note,omitempty"`
	LogoURL       *string      `json:"logoUrl,omitempty"`
	BankDetails   *BankDetails `json:"bankDetails,omitempty"`
}

// ApplyDefaults fills schema defaults on fields the caller omitted.
func (inv *Invoice) ApplyDefaults() {
	if inv.Currency == "" {
		inv.Currency = "EUR"
	}
	if inv.Seller.Address.Country == "" {
		inv.Seller.Address.Country = "DE"
	}
	if inv.Customer.Address.Country == "" {
		inv.Customer.Address.Country = "DE"
	}
}

// Validate checks the invoice against the input contract and returns all
// violations. A nil return means the record is safe to hand to the core.
func (inv *Invoice) Validate() ValidationErrors {
	var errs ValidationErrors

	if inv.InvoiceNumber == "" {
		errs = errs.add("invoiceNumber", "invoice number is required")
	}
	errs = append(errs, validateDate("invoiceDate", inv.InvoiceDate)...)
	errs = append(errs, validateDate("serviceDate", inv.ServiceDate)...)

	if inv.Seller.Name == "" {
		errs = errs.add("seller.name", "seller name is required")
	}
	errs = append(errs, validateAddress("seller.address", inv.Seller.Address)...)

	if inv.Customer.Name == "" {
		errs = errs.add("customer.name", "customer name is required")
	}
	errs = append(errs, validateAddress("customer.address", inv.Customer.Address)...)

	if len(inv.Items) == 0 {
		errs = errs.add("items", "at least one item is required")
	}
	for i, item := range inv.Items {
		prefix := fmt.Sprintf("items.%d", i)
		if item.Description == "" {
			errs = errs.add(prefix+".description", "item description is required")
		}
		if item.Quantity <= 0 {
			errs = errs.add(prefix+".quantity", "quantity must be positive")
		}
		if item.Unit == "" {
			errs = errs.add(prefix+".unit", "unit is required")
		}
		if item.UnitPrice < 0 {
			errs = errs.add(prefix+".unitPrice", "unit price must be non-negative")
		}
	}

	if inv.TaxRate < 0 || inv.TaxRate > 100 {
		errs = errs.add("taxRate", "tax rate must be between 0 and 100")
	}
	if len(inv.Currency) != 3 {
		errs = errs.add("currency", "currency must be ISO 4217 format (e.g., 'EUR', 'USD')")
	}

	if inv.LogoURL != nil {
		if u, err := url.ParseRequestURI(*inv.LogoURL); err != nil || u.Host == "" {
			errs = errs.add("logoUrl", "invalid logo URL")
		}
	}
	if inv.BankDetails != nil {
		if inv.BankDetails.IBAN == "" {
			errs = errs.add("bankDetails.iban", "IBAN is required")
		}
		if inv.BankDetails.BankName == "" {
			errs = errs.add("bankDetails.bankName", "bank name is required")
		}
	}

	return errs
}

func validateDate(path, value string) ValidationErrors {
	if _, err := time.Parse(DateLayout, value); err != nil {
		return ValidationErrors{{Path: path, Message: "invalid date format (YYYY-MM-DD)"}}
	}
	return nil
}

func validateAddress(prefix string, a Address) ValidationErrors {
	var errs ValidationErrors
	if a.Street == "" {
		errs = errs.add(prefix+".street", "street is required")
	}
	if a.StreetNumber == "" {
		errs = errs.add(prefix+".streetNumber", "street number is required")
	}
	if a.PostalCode == "" {
		errs = errs.add(prefix+".postalCode", "postal code is required")
	}
	if a.City == "" {
		errs = errs.add(prefix+".city", "city is required")
	}
	if len(a.Country) != 2 {
		errs = errs.add(prefix+".country", "country code must be ISO 3166-1 alpha-2 format (e.g., 'DE', 'FR')")
	}
	return errs
}
