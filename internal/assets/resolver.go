// Package assets fetches and classifies the optional remote logo image.
//
// Resolution fails soft: any network error or unrecognized format yields
// "no image" rather than an error, so a broken logo URL can never fail an
// otherwise valid invoice.
package assets

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"
)

// Format tags the small set of supported image formats.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// maxLogoBytes caps how much image data is read from the remote host.
const maxLogoBytes = 8 << 20

// Image is the resolved logo: raw bytes, format tag and pixel dimensions.
// It is consumed once by the layout engine and then discarded.
type Image struct {
	Data   []byte
	Format Format
	Width  int
	Height int
}

// Resolver fetches logo images over HTTP with a bounded timeout.
type Resolver struct {
	client *http.Client
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient overrides the HTTP client used for fetching.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		r.client = c
	}
}

// NewResolver creates a resolver with a 10 second request timeout.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fetch downloads and classifies the image at url. It returns nil on any
// failure: request errors, non-2xx status, unknown format, or bytes that
// do not decode as the classified format.
func (r *Resolver) Fetch(ctx context.Context, url string) *Image {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
	if err != nil {
		return nil
	}

	format, ok := classify(resp.Header.Get("Content-Type"), url, data)
	if !ok {
		return nil
	}

	cfg, err := decodeConfig(data, format)
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil
	}

	return &Image{Data: data, Format: format, Width: cfg.Width, Height: cfg.Height}
}

// classify determines the image format: response content-type first,
// filename extension second, magic bytes last.
func classify(contentType, url string, data []byte) (Format, bool) {
	lowerURL := strings.ToLower(url)

	switch {
	case strings.Contains(contentType, "png") || strings.HasSuffix(lowerURL, ".png"):
		return FormatPNG, true
	case strings.Contains(contentType, "jpeg") || strings.Contains(contentType, "jpg") ||
		strings.HasSuffix(lowerURL, ".jpg") || strings.HasSuffix(lowerURL, ".jpeg"):
		return FormatJPEG, true
	}

	// PNG signature
	if len(data) >= 2 && data[0] == 0x89 && data[1] == 0x50 {
		return FormatPNG, true
	}
	// JPEG SOI marker
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8 {
		return FormatJPEG, true
	}

	return "", false
}

func decodeConfig(data []byte, format Format) (image.Config, error) {
	switch format {
	case FormatPNG:
		return png.DecodeConfig(bytes.NewReader(data))
	default:
		return jpeg.DecodeConfig(bytes.NewReader(data))
	}
}
