package invoicelib

import (
	"context"
	"encoding/json"

	"github.com/crylonblue/invoice-api/internal/archive"
	"github.com/crylonblue/invoice-api/internal/generator"
	"github.com/crylonblue/invoice-api/internal/model"
)

// Generator produces invoice documents. It is safe for concurrent use.
type Generator struct {
	gen *generator.Generator
}

// NewGenerator creates a generator with the default embedding step.
func NewGenerator() *Generator {
	return &Generator{gen: generator.New(archive.NewAttacher())}
}

// PDF generates the hybrid invoice document: a single-page visual PDF
// with the trade-invoice XML attached. The record is defaulted and
// validated first.
func (g *Generator) PDF(ctx context.Context, inv *Invoice) ([]byte, error) {
	if err := prepare(inv); err != nil {
		return nil, err
	}
	return g.gen.PDF(ctx, inv)
}

// XML generates only the EN 16931 trade-invoice XML.
func (g *Generator) XML(ctx context.Context, inv *Invoice) (string, error) {
	if err := prepare(inv); err != nil {
		return "", err
	}
	return g.gen.XML(ctx, inv)
}

// Parse decodes and validates one JSON invoice record.
func Parse(data []byte) (*Invoice, error) {
	var inv Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, &model.MalformedInputError{Cause: err}
	}
	if err := prepare(&inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func prepare(inv *Invoice) error {
	inv.ApplyDefaults()
	if errs := inv.Validate(); len(errs) > 0 {
		return errs
	}
	return nil
}
