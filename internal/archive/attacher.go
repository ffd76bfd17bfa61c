// Package archive embeds the semantic XML into the visual PDF, producing
// the hybrid document.
//
// The attachment is stored under the conventional name factur-x.xml so
// downstream tooling can locate the structured data without parsing the
// page content.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/crylonblue/invoice-api/internal/model"
)

// AttachmentName is the file name of the embedded trade-invoice XML.
const AttachmentName = "factur-x.xml"

// Attacher embeds XML attachments into rendered PDFs using pdfcpu. It is
// stateless and safe for concurrent use.
type Attacher struct {
	conf *pdfmodel.Configuration
}

// NewAttacher creates an attacher with relaxed validation, so PDFs from
// any conforming renderer are accepted.
func NewAttacher() *Attacher {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return &Attacher{conf: conf}
}

// Embed attaches xml to the visual PDF and stamps the document properties,
// returning the hybrid bytes. The inputs are not modified.
func (a *Attacher) Embed(ctx context.Context, visual []byte, xml []byte, meta model.DocumentMeta) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// pdfcpu attaches by file path; stage the XML under its wire name.
	dir, err := os.MkdirTemp("", "invoice-attach-")
	if err != nil {
		return nil, fmt.Errorf("archive: staging attachment: %w", err)
	}
	defer os.RemoveAll(dir)

	xmlPath := filepath.Join(dir, AttachmentName)
	if err := os.WriteFile(xmlPath, xml, 0o600); err != nil {
		return nil, fmt.Errorf("archive: staging attachment: %w", err)
	}

	var attached bytes.Buffer
	if err := api.AddAttachments(bytes.NewReader(visual), &attached, []string{xmlPath}, false, a.conf); err != nil {
		return nil, fmt.Errorf("archive: attaching %s: %w", AttachmentName, err)
	}

	props := map[string]string{
		"GTS_PDFXVersion": "EN 16931",
		"Producer":        meta.Producer,
		"Keywords":        strings.Join(meta.Keywords, ", "),
	}

	var out bytes.Buffer
	if err := api.AddProperties(bytes.NewReader(attached.Bytes()), &out, props, a.conf); err != nil {
		return nil, fmt.Errorf("archive: writing document properties: %w", err)
	}
	return out.Bytes(), nil
}
