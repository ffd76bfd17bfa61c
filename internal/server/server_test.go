package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crylonblue/invoice-api/internal/server"
)

func newTestServer() *server.Server {
	config := &server.Config{
		Address: ":8080",
		Debug:   true,
	}
	return server.NewServer(config)
}

func validBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"invoiceNumber": "RE-2024-001",
		"invoiceDate":   "2024-02-01",
		"serviceDate":   "2024-01-15",
		"seller": map[string]any{
			"name": "Muster GmbH",
			"address": map[string]any{
				"street": "Hauptstraße", "streetNumber": "1",
				"postalCode": "10115", "city": "Berlin", "country": "DE",
			},
		},
		"customer": map[string]any{
			"name": "Kunde AG",
			"address": map[string]any{
				"street": "Nebenweg", "streetNumber": "2a",
				"postalCode": "20095", "city": "Hamburg", "country": "DE",
			},
		},
		"items": []map[string]any{
			{"description": "Beratung", "quantity": 2, "unit": "hours", "unitPrice": 100},
		},
		"taxRate": 19,
	})
	require.NoError(t, err)
	return body
}

func post(srv *server.Server, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["time"])
}

func TestInvoiceEndpoint(t *testing.T) {
	srv := newTestServer()

	w := post(srv, "/api/v1/invoice", validBody(t))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "rechnung-RE-2024-001.pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
}

func TestInvoiceEndpoint_MalformedJSON(t *testing.T) {
	srv := newTestServer()

	w := post(srv, "/api/v1/invoice", []byte("{not json"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "invalid JSON", response.Error)
}

func TestInvoiceEndpoint_EmptyBody(t *testing.T) {
	srv := newTestServer()

	w := post(srv, "/api/v1/invoice", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceEndpoint_ValidationFailure(t *testing.T) {
	srv := newTestServer()

	var inv map[string]any
	require.NoError(t, json.Unmarshal(validBody(t), &inv))
	inv["items"] = []any{}
	body, err := json.Marshal(inv)
	require.NoError(t, err)

	w := post(srv, "/api/v1/invoice", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response server.ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Validation failed", response.Error)
	require.NotEmpty(t, response.Details)
	assert.Equal(t, "items", response.Details[0].Path)
}

func TestXRechnungEndpoint(t *testing.T) {
	srv := newTestServer()

	w := post(srv, "/api/v1/xrechnung", validBody(t))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "xrechnung-RE-2024-001.xml")

	// 2 × 100 at 19%: gross 238.00
	assert.Contains(t, w.Body.String(), "<ram:GrandTotalAmount>238.00</ram:GrandTotalAmount>")
	assert.Contains(t, w.Body.String(), "urn:cen.eu:en16931:2017")
}

func TestXRechnungEndpoint_DefaultsApplied(t *testing.T) {
	srv := newTestServer()

	// No currency in the request; the schema default applies.
	w := post(srv, "/api/v1/xrechnung", validBody(t))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<ram:InvoiceCurrencyCode>EUR</ram:InvoiceCurrencyCode>")
}
