// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"
	"os"

	"code.sajari.com/docconv"
)

// DocconvExtractor extracts PDF text in-process via docconv. It is the
// production TextExtractor; tests substitute a fake.
type DocconvExtractor struct{}

// Extract reads the PDF at pdfPath and returns its text, all pages
// concatenated.
func (DocconvExtractor) Extract(pdfPath string) (string, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	body, _, err := docconv.ConvertPDF(f)
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", pdfPath, err)
	}
	return body, nil
}
