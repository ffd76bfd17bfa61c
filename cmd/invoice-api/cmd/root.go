package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "invoice-api",
	Short: "Generate visual and electronic invoices (PDF and XRechnung)",
	Long: `Invoice API is a CLI tool and HTTP server for generating invoices.

From one validated invoice record it produces:
  - A single-page visual PDF (ZUGFeRD hybrid with embedded XML)
  - An EN 16931 trade-invoice XML (XRechnung)

Examples:
  # Generate a hybrid PDF from a JSON record
  invoice-api generate invoice.json

  # Generate the semantic XML only
  invoice-api xml invoice.json -o rechnung.xml

  # Start the HTTP API server
  invoice-api serve --address :8080`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
