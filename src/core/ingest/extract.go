package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"pdfchat/src/log"
)

// PDFExtractor reads the text layer of a PDF payload. Pages whose
// extracted text is empty after trimming are dropped; a document with no
// extractable text at all (scanned images, no text layer) fails with
// ErrExtraction.
type PDFExtractor struct{}

func (PDFExtractor) Extract(data []byte) (string, int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var pages []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Debug("skipping unreadable page", "page", i, "error", err.Error())
			continue
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			pages = append(pages, trimmed)
		}
	}

	joined := strings.Join(pages, "\n")
	if strings.TrimSpace(joined) == "" {
		return "", 0, fmt.Errorf("%w: no text could be extracted from the PDF", ErrExtraction)
	}
	return joined, len(pages), nil
}
