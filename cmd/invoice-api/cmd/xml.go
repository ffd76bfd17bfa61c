package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/crylonblue/invoice-api/internal/archive"
	"github.com/crylonblue/invoice-api/internal/generator"
)

var xmlOutputFile string

var xmlCmd = &cobra.Command{
	Use:   "xml <invoice.json>",
	Short: "Generate the EN 16931 trade-invoice XML",
	Long: `Generate the semantic trade-invoice XML (XRechnung) without the
visual PDF.

Examples:
  invoice-api xml invoice.json
  invoice-api xml invoice.json -o xrechnung.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runXML,
}

func init() {
	rootCmd.AddCommand(xmlCmd)

	xmlCmd.Flags().StringVarP(&xmlOutputFile, "output", "o", "", "Output file (default: stdout)")
}

func runXML(cmd *cobra.Command, args []string) error {
	inv, err := loadInvoice(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	g := generator.New(archive.NewAttacher())
	out, err := g.XML(ctx, inv)
	if err != nil {
		return err
	}

	if xmlOutputFile == "" {
		fmt.Println(out)
		return nil
	}
	if err := os.WriteFile(xmlOutputFile, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	printVerbose("Wrote XML for invoice %s to %s\n", inv.InvoiceNumber, xmlOutputFile)
	return nil
}
