package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/crylonblue/invoice-api/internal/archive"
	"github.com/crylonblue/invoice-api/internal/generator"
	"github.com/crylonblue/invoice-api/internal/model"
)

var (
	outputFile string
	timeout    time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate <invoice.json>",
	Short: "Generate a hybrid invoice PDF",
	Long: `Generate a single-page invoice PDF with the EN 16931 trade-invoice
XML embedded as an attachment (ZUGFeRD).

The input is one JSON invoice record. The output file defaults to
rechnung-<invoiceNumber>.pdf in the working directory.

Examples:
  invoice-api generate invoice.json
  invoice-api generate invoice.json -o out/rechnung.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: rechnung-<number>.pdf)")
	generateCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Generation timeout")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	inv, err := loadInvoice(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	printVerbose("Generating PDF for invoice %s\n", inv.InvoiceNumber)

	g := generator.New(archive.NewAttacher())
	pdf, err := g.PDF(ctx, inv)
	if err != nil {
		return err
	}

	out := outputFile
	if out == "" {
		out = "rechnung-" + inv.InvoiceNumber + ".pdf"
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	printVerbose("Wrote %d bytes to %s\n", len(pdf), out)
	return nil
}

// loadInvoice reads, defaults and validates one JSON invoice record.
func loadInvoice(path string) (*model.Invoice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var inv model.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, &model.MalformedInputError{Cause: err}
	}

	inv.ApplyDefaults()
	if errs := inv.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return &inv, nil
}
