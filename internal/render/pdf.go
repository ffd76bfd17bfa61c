// Package render draws composed layout pages into PDF bytes using gofpdf.
//
// The output uses a classic cross-reference table (gofpdf never writes
// compressed xref streams), which the downstream embedding step requires.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/crylonblue/invoice-api/internal/assets"
	"github.com/crylonblue/invoice-api/internal/layout"
	"github.com/crylonblue/invoice-api/internal/model"
)

const fontFamily = "Helvetica"

// Document renders one invoice page. It doubles as the layout engine's
// font-metrics provider, so measurement and drawing share one font engine.
// Create a fresh Document per generation; it is not safe for reuse.
type Document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// NewDocument creates an empty single-page document of the invoice page
// size, in points.
func NewDocument() *Document {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: layout.PageWidth, Ht: layout.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	// The core fonts are cp1252; translate so €, ü etc. survive.
	return &Document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// TextWidth implements layout.Metrics using the embedded font metrics.
func (d *Document) TextWidth(text string, style layout.FontStyle, size float64) float64 {
	d.pdf.SetFont(fontFamily, fontStyle(style), size)
	return d.pdf.GetStringWidth(d.tr(text))
}

// Render draws the page and returns the visual PDF bytes.
func (d *Document) Render(p *layout.Page, logo *assets.Image, meta model.DocumentMeta) ([]byte, error) {
	if p.Logo != nil && logo != nil {
		opts := gofpdf.ImageOptions{ImageType: string(logo.Format)}
		d.pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(logo.Data))
		d.pdf.ImageOptions("logo", p.Logo.X, p.Logo.Y, p.Logo.Width, p.Logo.Height, false, opts, 0, "")
	}

	d.pdf.SetDrawColor(0, 0, 0)
	for _, rule := range p.Rules {
		d.pdf.SetLineWidth(rule.Width)
		d.pdf.Line(rule.X1, rule.Y1, rule.X2, rule.Y2)
	}

	for _, txt := range p.Texts {
		d.pdf.SetFont(fontFamily, fontStyle(txt.Style), txt.Size)
		if txt.Color == layout.ColorMuted {
			d.pdf.SetTextColor(102, 102, 102)
		} else {
			d.pdf.SetTextColor(0, 0, 0)
		}
		d.pdf.Text(txt.X, txt.Y, d.tr(txt.Value))
	}

	d.pdf.SetTitle(meta.Title, true)
	d.pdf.SetAuthor(meta.Author, true)
	d.pdf.SetSubject(meta.Subject, true)
	d.pdf.SetCreator(meta.Creator, true)
	d.pdf.SetKeywords(strings.Join(meta.Keywords, " "), true)
	d.pdf.SetCreationDate(meta.Created)

	if d.pdf.Err() {
		return nil, fmt.Errorf("render: %w", d.pdf.Error())
	}

	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

func fontStyle(style layout.FontStyle) string {
	if style == layout.FontBold {
		return "B"
	}
	return ""
}
