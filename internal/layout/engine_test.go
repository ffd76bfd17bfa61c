package layout_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crylonblue/invoice-api/internal/assets"
	"github.com/crylonblue/invoice-api/internal/layout"
	"github.com/crylonblue/invoice-api/internal/model"
	"github.com/crylonblue/invoice-api/internal/money"
)

// fakeMetrics measures every rune at 0.6×size, which is deterministic and
// close enough to Helvetica to exercise the fitting logic.
type fakeMetrics struct{}

func (fakeMetrics) TextWidth(text string, _ layout.FontStyle, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * 0.6 * size
}

func strptr(s string) *string { return &s }

func sampleInvoice() *model.Invoice {
	return &model.Invoice{
		InvoiceNumber: "RE-2024-001",
		InvoiceDate:   "2024-02-01",
		ServiceDate:   "2024-01-15",
		Seller: model.Seller{
			Name: "Muster GmbH",
			Address: model.Address{
				Street: "Hauptstraße", StreetNumber: "1",
				PostalCode: "10115", City: "Berlin", Country: "DE",
			},
		},
		Customer: model.Customer{
			Name: "Kunde AG",
			Address: model.Address{
				Street: "Nebenweg", StreetNumber: "2a",
				PostalCode: "20095", City: "Hamburg", Country: "DE",
			},
		},
		Items: []model.LineItem{
			{Description: "Beratung", Quantity: 2, Unit: "hours", UnitPrice: 100},
		},
		TaxRate:  19,
		Currency: "EUR",
	}
}

func compose(t *testing.T, inv *model.Invoice, logo *assets.Image) *layout.Page {
	t.Helper()
	totals := money.Compute(inv.Items, inv.TaxRate)
	return layout.NewEngine(fakeMetrics{}, inv.Currency).ComposePage(inv, totals, logo)
}

func findText(t *testing.T, p *layout.Page, value string) layout.Text {
	t.Helper()
	for _, txt := range p.Texts {
		if txt.Value == value {
			return txt
		}
	}
	t.Fatalf("text %q not placed on page", value)
	return layout.Text{}
}

func TestTitleFollowsCustomerHeight(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Invoice)
		wantY  float64
	}{
		{
			name:   "name plus two address lines",
			mutate: func(*model.Invoice) {},
			// 170 + (42 + 30)
			wantY: 242,
		},
		{
			name: "phone adds one line height",
			mutate: func(inv *model.Invoice) {
				inv.Customer.PhoneNumber = strptr("+49 30 1234")
			},
			wantY: 256,
		},
		{
			name: "info list adds gap plus lines",
			mutate: func(inv *model.Invoice) {
				inv.Customer.PhoneNumber = strptr("+49 30 1234")
				inv.Customer.AdditionalInfo = []string{"Kostenstelle 42", "Bestellnr. 77"}
			},
			// offset 56 + gap 28, realized 84 + 2*14 + 30
			wantY: 312,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := sampleInvoice()
			tt.mutate(inv)
			p := compose(t, inv, nil)

			title := findText(t, p, "RECHNUNG")
			assert.Equal(t, tt.wantY, title.Y)
			assert.Equal(t, layout.FontBold, title.Style)
			assert.Equal(t, 24.0, title.Size)

			// Metadata block trails the title by a fixed gap.
			meta := findText(t, p, "Rechnungsnummer: RE-2024-001")
			assert.Equal(t, tt.wantY+40, meta.Y)
		})
	}
}

func TestDatesReformatted(t *testing.T) {
	p := compose(t, sampleInvoice(), nil)
	findText(t, p, "Rechnungsdatum: 01.02.2024")
	findText(t, p, "Leistungsdatum: 15.01.2024")
}

func TestTotalsRightAligned(t *testing.T) {
	inv := sampleInvoice()
	p := compose(t, inv, nil)
	m := fakeMetrics{}

	// 2 × 100 at 19%: net 200, tax 38, gross 238.
	gross := findText(t, p, "238,00 €")
	assert.Equal(t, layout.FontBold, gross.Style)
	assert.InDelta(t, 545.28, gross.X+m.TextWidth(gross.Value, gross.Style, gross.Size), 1e-9)

	net := findText(t, p, "200,00 €")
	assert.InDelta(t, 545.28, net.X+m.TextWidth(net.Value, net.Style, net.Size), 1e-9)
}

func TestUnitPriceAlignedToItsColumnEdge(t *testing.T) {
	inv := sampleInvoice()
	inv.Items = []model.LineItem{{Description: "Fahrt", Quantity: 1, Unit: "km", UnitPrice: 0.5}}
	p := compose(t, inv, nil)
	m := fakeMetrics{}

	price := findText(t, p, "0,50 €")
	assert.InDelta(t, 470.0, price.X+m.TextWidth(price.Value, price.Style, price.Size), 1e-9)
}

func TestDescriptionTruncated(t *testing.T) {
	inv := sampleInvoice()
	long := strings.Repeat("x", 60)
	inv.Items[0].Description = long
	p := compose(t, inv, nil)
	m := fakeMetrics{}

	// At 6pt per rune, 40 runes fit into the 240pt column.
	want := strings.Repeat("x", 37) + "..."
	desc := findText(t, p, want)
	assert.LessOrEqual(t, m.TextWidth(desc.Value, layout.FontRegular, 10), 240.0)
}

func TestShortDescriptionUntouched(t *testing.T) {
	p := compose(t, sampleInvoice(), nil)
	findText(t, p, "Beratung")
}

func TestSanitizeAppliedToDrawnText(t *testing.T) {
	inv := sampleInvoice()
	inv.Note = strptr("line one\r\nline two\t\t end ")
	p := compose(t, inv, nil)

	note := findText(t, p, "line one line two end")
	assert.Equal(t, layout.ColorMuted, note.Color)
}

func TestLogoScaling(t *testing.T) {
	inv := sampleInvoice()

	big := &assets.Image{Format: assets.FormatPNG, Width: 240, Height: 120}
	p := compose(t, inv, big)
	require.NotNil(t, p.Logo)
	assert.Equal(t, 120.0, p.Logo.Width)
	assert.Equal(t, 60.0, p.Logo.Height)
	assert.Equal(t, 50.0, p.Logo.X)
	assert.Equal(t, 50.0, p.Logo.Y)

	small := &assets.Image{Format: assets.FormatPNG, Width: 50, Height: 20}
	p = compose(t, inv, small)
	require.NotNil(t, p.Logo)
	// Never upscaled.
	assert.Equal(t, 50.0, p.Logo.Width)
	assert.Equal(t, 20.0, p.Logo.Height)
}

func TestMissingLogoLeavesRestOfLayoutUnchanged(t *testing.T) {
	inv := sampleInvoice()

	with := compose(t, inv, &assets.Image{Format: assets.FormatPNG, Width: 100, Height: 50})
	without := compose(t, inv, nil)

	assert.Nil(t, without.Logo)
	assert.Equal(t, with.Texts, without.Texts)
	assert.Equal(t, with.Rules, without.Rules)
}

func TestBankAndFooterSections(t *testing.T) {
	inv := sampleInvoice()
	inv.Seller.PhoneNumber = strptr("+49 30 999")
	inv.BankDetails = &model.BankDetails{IBAN: "DE89 3704 0044 0532 0130 00", BankName: "Musterbank"}
	p := compose(t, inv, nil)

	findText(t, p, "Bankverbindung:")
	findText(t, p, "IBAN: DE89 3704 0044 0532 0130 00")
	findText(t, p, "Bank: Musterbank")

	footer := findText(t, p, "Muster GmbH | Hauptstraße 1, 10115 Berlin | Tel.: +49 30 999")
	assert.Equal(t, 8.0, footer.Size)
	assert.Equal(t, layout.ColorMuted, footer.Color)
	assert.InDelta(t, 841.89-50, footer.Y, 1e-9)

	m := fakeMetrics{}
	w := m.TextWidth(footer.Value, footer.Style, footer.Size)
	assert.InDelta(t, (595.28-w)/2, footer.X, 1e-9)
}

func TestCurrencyFormatting(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{"1234.5", "EUR", "1.234,50 €"},
		{"10", "USD", "10,00 $"},
		{"0.5", "GBP", "0,50 £"},
		{"99.99", "SEK", "99,99 SEK"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, layout.Currency(dec.RequireFromString(tt.amount), tt.code))
		})
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "a b c", layout.Sanitize("a\r\nb  \t c "))
	assert.Equal(t, "", layout.Sanitize("  \r\n "))
}
