package invoicelib_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crylonblue/invoice-api/pkg/invoicelib"
)

const sampleJSON = `{
	"invoiceNumber": "RE-2024-007",
	"invoiceDate": "2024-04-01",
	"serviceDate": "2024-03-20",
	"seller": {
		"name": "Muster GmbH",
		"address": {
			"street": "Hauptstraße", "streetNumber": "1",
			"postalCode": "10115", "city": "Berlin", "country": "DE"
		}
	},
	"customer": {
		"name": "Kunde AG",
		"address": {
			"street": "Nebenweg", "streetNumber": "2a",
			"postalCode": "20095", "city": "Hamburg", "country": "DE"
		}
	},
	"items": [
		{"description": "Beratung", "quantity": 2, "unit": "hours", "unitPrice": 100}
	],
	"taxRate": 19
}`

func TestParse(t *testing.T) {
	inv, err := invoicelib.Parse([]byte(sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, "RE-2024-007", inv.InvoiceNumber)
	// Schema defaults applied.
	assert.Equal(t, "EUR", inv.Currency)
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := invoicelib.Parse([]byte("{broken"))
	require.Error(t, err)

	var malformed *invoicelib.MalformedInputError
	assert.ErrorAs(t, err, &malformed)
}

func TestParse_ValidationFailure(t *testing.T) {
	_, err := invoicelib.Parse([]byte(`{"invoiceNumber": "X"}`))
	require.Error(t, err)

	var errs invoicelib.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.NotEmpty(t, errs)
}

func TestGeneratorPDF(t *testing.T) {
	inv, err := invoicelib.Parse([]byte(sampleJSON))
	require.NoError(t, err)

	pdf, err := invoicelib.NewGenerator().PDF(context.Background(), inv)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF-"))
}

func TestGeneratorXML(t *testing.T) {
	inv, err := invoicelib.Parse([]byte(sampleJSON))
	require.NoError(t, err)

	xml, err := invoicelib.NewGenerator().XML(context.Background(), inv)
	require.NoError(t, err)
	assert.Contains(t, xml, "<ram:GrandTotalAmount>238.00</ram:GrandTotalAmount>")
}

func TestGeneratorRejectsInvalidRecord(t *testing.T) {
	inv := &invoicelib.Invoice{InvoiceNumber: "X"}
	_, err := invoicelib.NewGenerator().PDF(context.Background(), inv)

	var errs invoicelib.ValidationErrors
	require.ErrorAs(t, err, &errs)
}
