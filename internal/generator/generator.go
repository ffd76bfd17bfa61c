// Package generator orchestrates one invoice generation: it computes the
// totals once, renders the visual page, maps the semantic document and
// embeds the XML into the PDF.
//
// All outputs of one run derive from the same totals, so the printed
// amounts and the structured amounts can never drift apart.
package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/crylonblue/invoice-api/internal/assets"
	"github.com/crylonblue/invoice-api/internal/layout"
	"github.com/crylonblue/invoice-api/internal/model"
	"github.com/crylonblue/invoice-api/internal/money"
	"github.com/crylonblue/invoice-api/internal/render"
	"github.com/crylonblue/invoice-api/internal/semantic"
)

// producerName is written into the PDF document information.
const producerName = "invoice-api"

// Embedder attaches the semantic XML to the rendered visual PDF and
// returns the hybrid document.
type Embedder interface {
	Embed(ctx context.Context, visual []byte, xml []byte, meta model.DocumentMeta) ([]byte, error)
}

// Generator produces invoice documents from validated records. It is
// safe for concurrent use; per-run state lives on the stack.
type Generator struct {
	resolver *assets.Resolver
	embedder Embedder
	now      func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithResolver overrides the logo resolver.
func WithResolver(r *assets.Resolver) Option {
	return func(g *Generator) {
		g.resolver = r
	}
}

// WithEmbedder overrides the XML embedding step.
func WithEmbedder(e Embedder) Option {
	return func(g *Generator) {
		g.embedder = e
	}
}

// WithClock overrides the time source used for document timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a generator with the given embedder.
func New(embedder Embedder, opts ...Option) *Generator {
	g := &Generator{
		resolver: assets.NewResolver(),
		embedder: embedder,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// PDF generates the hybrid document: a single-page visual PDF with the
// semantic XML embedded as an attachment. The invoice must already be
// validated; generation is all-or-nothing.
func (g *Generator) PDF(ctx context.Context, inv *model.Invoice) ([]byte, error) {
	totals := money.Compute(inv.Items, inv.TaxRate)

	// Logo resolution fails soft; a dead URL never fails the invoice.
	var logo *assets.Image
	if inv.LogoURL != nil {
		logo = g.resolver.Fetch(ctx, *inv.LogoURL)
	}

	doc := render.NewDocument()
	page := layout.NewEngine(doc, inv.Currency).ComposePage(inv, totals, logo)

	meta := g.buildMeta(inv)
	visual, err := doc.Render(page, logo, meta)
	if err != nil {
		return nil, model.NewGenerationError("render", err)
	}

	xml, err := semantic.Map(inv, totals).XML()
	if err != nil {
		return nil, model.NewGenerationError("semantic", err)
	}

	hybrid, err := g.embedder.Embed(ctx, visual, []byte(xml), meta)
	if err != nil {
		return nil, model.NewGenerationError("embed", err)
	}
	return hybrid, nil
}

// XML generates only the semantic trade-invoice document.
func (g *Generator) XML(ctx context.Context, inv *model.Invoice) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", model.NewGenerationError("semantic", err)
	}

	totals := money.Compute(inv.Items, inv.TaxRate)
	out, err := semantic.Map(inv, totals).XML()
	if err != nil {
		return "", model.NewGenerationError("semantic", err)
	}
	return out, nil
}

func (g *Generator) buildMeta(inv *model.Invoice) model.DocumentMeta {
	now := g.now()

	created := now
	if issued, err := time.Parse(model.DateLayout, inv.InvoiceDate); err == nil {
		created = issued
	}

	return model.DocumentMeta{
		Title:    "Rechnung " + inv.InvoiceNumber,
		Author:   inv.Seller.Name,
		Subject:  fmt.Sprintf("Invoice %s", inv.InvoiceNumber),
		Creator:  producerName,
		Producer: producerName,
		Keywords: []string{"Invoice", "Rechnung", inv.InvoiceNumber, "ZUGFeRD", "EN16931"},
		Created:  created,
		Modified: now,
	}
}
