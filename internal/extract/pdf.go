// Package extract pulls plain text out of uploaded documents.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pilcrow-ai/pilcrow/internal/domain"
)

// PDFExtractor extracts text from PDF bytes, page by page in document
// order, concatenated without added separators.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText returns the concatenated text of every page. A readable PDF
// with no text yields an empty string, not an error; the caller treats
// that as a zero-chunk ingestion.
func (e *PDFExtractor) ExtractText(content []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.NewDomainErrorWithCause(domain.ErrCodeExtractionFailed,
				"failed to extract text from document", fmt.Errorf("pdf reader panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeExtractionFailed,
			"failed to extract text from document", err)
	}

	var builder strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		pageText, err := page.GetPlainText(fonts)
		if err != nil {
			// A single unreadable page does not abort the document.
			continue
		}
		builder.WriteString(pageText)
	}

	return builder.String(), nil
}

// HasText reports whether extracted text contains any non-whitespace content.
func HasText(text string) bool {
	return strings.TrimSpace(text) != ""
}
