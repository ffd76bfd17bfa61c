package layout

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/crylonblue/invoice-api/internal/assets"
	"github.com/crylonblue/invoice-api/internal/model"
	"github.com/crylonblue/invoice-api/internal/money"
)

// Layout constants. All positions are in points, y measured from the top
// of the page to the text baseline.
const (
	margin     = 50.0
	baseSize   = 10.0
	lineHeight = 14.0

	titleSize  = 24.0
	footerSize = 8.0

	logoMaxWidth  = 120.0
	logoMaxHeight = 60.0
	logoGap       = 20.0

	customerTop = 170.0
	titleGap    = 30.0

	// Item table column x positions and right edges.
	colDescription = margin
	colQuantity    = 300.0
	colUnit        = 350.0
	colUnitPrice   = 410.0
	colTotal       = 480.0

	unitPriceRightEdge = colTotal - 10
	totalRightEdge     = PageWidth - margin
	maxDescWidth       = 240.0

	totalsLabelX = 350.0
	ruleWidth    = 0.5
)

// Engine composes invoice pages. One engine is safe for a single
// generation; it holds no mutable state beyond its inputs.
type Engine struct {
	metrics  Metrics
	currency string
}

// NewEngine creates an engine measuring text through m and formatting
// amounts in the given ISO 4217 currency.
func NewEngine(m Metrics, currency string) *Engine {
	return &Engine{metrics: m, currency: currency}
}

// ComposePage lays out the full page. Sections run in fixed order, each
// consuming and returning the vertical cursor.
func (e *Engine) ComposePage(inv *model.Invoice, totals money.Totals, logo *assets.Image) *Page {
	p := &Page{Width: PageWidth, Height: PageHeight}

	y := margin
	y = e.logoSection(p, logo, y)
	e.sellerSection(p, inv.Seller)
	y = e.customerSection(p, inv.Customer)
	y = e.titleSection(p, y)
	y = e.metadataSection(p, inv, y)
	y = e.itemTable(p, inv.Items, y)
	y = e.totalsSection(p, inv.TaxRate, totals, y)
	y = e.bankSection(p, inv.BankDetails, y)
	e.noteSection(p, inv.Note, y)
	e.footerSection(p, inv.Seller)

	return p
}

// logoSection places the scaled logo at the top-left margin. Absent or
// unresolved logos have zero height effect on the cursor.
func (e *Engine) logoSection(p *Page, logo *assets.Image, y float64) float64 {
	if logo == nil {
		return y
	}

	// Fit within the box, never upscale.
	scale := math.Min(logoMaxWidth/float64(logo.Width), logoMaxHeight/float64(logo.Height))
	if scale > 1 {
		scale = 1
	}
	w := float64(logo.Width) * scale
	h := float64(logo.Height) * scale

	p.Logo = &ImageBox{X: margin, Y: margin, Width: w, Height: h}
	return margin + h + logoGap
}

// sellerSection draws the seller block right-aligned at a fixed position
// from the top margin, independent of logo height.
func (e *Engine) sellerSection(p *Page, s model.Seller) {
	e.rightAligned(p, totalRightEdge, margin, s.Name, FontBold, baseSize, ColorBlack)

	var lines []string
	if s.SubHeadline != nil {
		lines = append(lines, *s.SubHeadline)
	}
	lines = append(lines, s.Address.StreetLine(), s.Address.CityLine())
	if s.TaxNumber != nil {
		lines = append(lines, "Steuernummer: "+*s.TaxNumber)
	}
	if s.VATID != nil {
		lines = append(lines, "USt-IdNr.: "+*s.VATID)
	}

	for i, line := range lines {
		e.rightAligned(p, totalRightEdge, margin+float64(i+1)*lineHeight, line, FontRegular, baseSize, ColorBlack)
	}
}

// customerSection draws the customer block at a fixed offset from the top
// and returns the cursor below its realized height, where the title goes.
func (e *Engine) customerSection(p *Page, c model.Customer) float64 {
	e.text(p, margin, customerTop, c.Name, FontRegular, baseSize, ColorBlack)
	e.text(p, margin, customerTop+lineHeight, c.Address.StreetLine(), FontRegular, baseSize, ColorBlack)
	e.text(p, margin, customerTop+2*lineHeight, c.Address.CityLine(), FontRegular, baseSize, ColorBlack)

	offset := 3 * lineHeight
	if c.PhoneNumber != nil {
		e.text(p, margin, customerTop+offset, "Tel.: "+*c.PhoneNumber, FontRegular, baseSize, ColorBlack)
		offset += lineHeight
	}

	if len(c.AdditionalInfo) > 0 {
		// Minimum gap of two line heights before the info list.
		offset += 2 * lineHeight
		for i, info := range c.AdditionalInfo {
			e.text(p, margin, customerTop+offset+float64(i)*lineHeight, info, FontRegular, baseSize, ColorMuted)
		}
	}

	realized := offset + float64(len(c.AdditionalInfo))*lineHeight + titleGap
	return customerTop + realized
}

func (e *Engine) titleSection(p *Page, y float64) float64 {
	e.text(p, margin, y, "RECHNUNG", FontBold, titleSize, ColorBlack)
	return y
}

func (e *Engine) metadataSection(p *Page, inv *model.Invoice, y float64) float64 {
	y += 40
	e.text(p, margin, y, "Rechnungsnummer: "+inv.InvoiceNumber, FontRegular, baseSize, ColorBlack)
	e.text(p, margin, y+lineHeight, "Rechnungsdatum: "+formatDate(inv.InvoiceDate), FontRegular, baseSize, ColorBlack)
	e.text(p, margin, y+2*lineHeight, "Leistungsdatum: "+formatDate(inv.ServiceDate), FontRegular, baseSize, ColorBlack)
	return y
}

func (e *Engine) itemTable(p *Page, items []model.LineItem, y float64) float64 {
	y += 70
	e.text(p, colDescription, y, "Beschreibung", FontBold, baseSize, ColorBlack)
	e.text(p, colQuantity, y, "Menge", FontBold, baseSize, ColorBlack)
	e.text(p, colUnit, y, "Einheit", FontBold, baseSize, ColorBlack)
	e.text(p, colUnitPrice, y, "Preis", FontBold, baseSize, ColorBlack)
	e.text(p, colTotal, y, "Gesamt", FontBold, baseSize, ColorBlack)

	y += 5
	p.Rules = append(p.Rules, Rule{X1: margin, Y1: y, X2: totalRightEdge, Y2: y, Width: ruleWidth})

	y += 20
	for _, item := range items {
		e.text(p, colDescription, y, e.truncateDescription(item.Description), FontRegular, baseSize, ColorBlack)
		e.text(p, colQuantity, y, formatQuantity(item.Quantity), FontRegular, baseSize, ColorBlack)
		e.text(p, colUnit, y, item.Unit, FontRegular, baseSize, ColorBlack)
		e.rightAligned(p, unitPriceRightEdge, y, Currency(decimal.NewFromFloat(item.UnitPrice), e.currency), FontRegular, baseSize, ColorBlack)
		e.rightAligned(p, totalRightEdge, y, Currency(money.LineTotal(item), e.currency), FontRegular, baseSize, ColorBlack)
		y += 20
	}

	return y
}

func (e *Engine) totalsSection(p *Page, taxRate float64, totals money.Totals, y float64) float64 {
	y += 10
	p.Rules = append(p.Rules, Rule{X1: totalsLabelX, Y1: y, X2: totalRightEdge, Y2: y, Width: ruleWidth})

	y += 20
	e.text(p, totalsLabelX, y, "Nettobetrag:", FontRegular, baseSize, ColorBlack)
	e.rightAligned(p, totalRightEdge, y, Currency(totals.Net, e.currency), FontRegular, baseSize, ColorBlack)

	y += 18
	e.text(p, totalsLabelX, y, "MwSt. ("+formatRate(taxRate)+"%):", FontRegular, baseSize, ColorBlack)
	e.rightAligned(p, totalRightEdge, y, Currency(totals.Tax, e.currency), FontRegular, baseSize, ColorBlack)

	y += 10
	p.Rules = append(p.Rules, Rule{X1: totalsLabelX, Y1: y, X2: totalRightEdge, Y2: y, Width: ruleWidth})

	y += 15
	e.text(p, totalsLabelX, y, "Gesamtbetrag:", FontBold, baseSize, ColorBlack)
	e.rightAligned(p, totalRightEdge, y, Currency(totals.Gross, e.currency), FontBold, baseSize, ColorBlack)

	return y
}

func (e *Engine) bankSection(p *Page, bank *model.BankDetails, y float64) float64 {
	if bank == nil {
		return y
	}
	y += 50
	e.text(p, margin, y, "Bankverbindung:", FontBold, baseSize, ColorBlack)
	y += lineHeight
	e.text(p, margin, y, "IBAN: "+bank.IBAN, FontRegular, baseSize, ColorBlack)
	y += lineHeight
	e.text(p, margin, y, "Bank: "+bank.BankName, FontRegular, baseSize, ColorBlack)
	return y
}

func (e *Engine) noteSection(p *Page, note *string, y float64) float64 {
	if note == nil {
		return y
	}
	y += 40
	e.text(p, margin, y, *note, FontRegular, baseSize, ColorMuted)
	return y
}

// footerSection centers the joined seller parts near the bottom margin.
func (e *Engine) footerSection(p *Page, s model.Seller) {
	parts := []string{s.Name, s.Address.StreetLine() + ", " + s.Address.CityLine()}
	if s.PhoneNumber != nil {
		parts = append(parts, "Tel.: "+*s.PhoneNumber)
	}

	footer := Sanitize(joinParts(parts))
	w := e.metrics.TextWidth(footer, FontRegular, footerSize)
	p.Texts = append(p.Texts, Text{
		X:     (PageWidth - w) / 2,
		Y:     PageHeight - margin,
		Value: footer,
		Style: FontRegular,
		Size:  footerSize,
		Color: ColorMuted,
	})
}

// truncateDescription trims the sanitized description rune by rune until
// it fits the description column, replacing the last three characters
// with an ellipsis when anything was cut.
func (e *Engine) truncateDescription(desc string) string {
	sanitized := Sanitize(desc)
	runes := []rune(sanitized)

	for len(runes) > 0 && e.metrics.TextWidth(string(runes), FontRegular, baseSize) > maxDescWidth {
		runes = runes[:len(runes)-1]
	}
	if len(runes) == len([]rune(sanitized)) {
		return sanitized
	}
	if len(runes) >= 3 {
		runes = runes[:len(runes)-3]
	}
	return string(runes) + "..."
}

func (e *Engine) text(p *Page, x, y float64, value string, style FontStyle, size float64, color Color) {
	p.Texts = append(p.Texts, Text{X: x, Y: y, Value: Sanitize(value), Style: style, Size: size, Color: color})
}

// rightAligned places value so that its measured width ends at rightEdge.
func (e *Engine) rightAligned(p *Page, rightEdge, y float64, value string, style FontStyle, size float64, color Color) {
	s := Sanitize(value)
	x := rightEdge - e.metrics.TextWidth(s, style, size)
	p.Texts = append(p.Texts, Text{X: x, Y: y, Value: s, Style: style, Size: size, Color: color})
}

func joinParts(parts []string) string {
	out := ""
	for i, part := range parts {
		if i > 0 {
			out += " | "
		}
		out += part
	}
	return out
}
