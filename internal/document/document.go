// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document turns a document reference (DOI, URL, or local path) into
// a flat token sequence ready for accession scanning.
package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/austinSCG/qebil/internal/httputil"
)

// doiPattern matches the leading digits-and-dot form of a DOI,
// e.g. "10.1038/s41586-024-07487-w".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/`)

// doiResolverBase is where DOI references are rewritten to. Declared as a var
// so tests can substitute an httptest server.
var doiResolverBase = "https://doi.org/"

// Delimiter sets for token splitting. PDF extraction yields prose, so the
// separators are coarser; HTML and plain text split additionally on markup
// characters.
var (
	pdfSplit  = regexp.MustCompile("; |, |\\. | |\n|\t")
	textSplit = regexp.MustCompile(`[;,. ` + "\n\t" + `<>/"']`)
)

// TextExtractor extracts the plain text of a PDF file, concatenated across
// pages. Both the remote and local branches share one extractor.
type TextExtractor interface {
	Extract(pdfPath string) (string, error)
}

// Tokenizer classifies document references, fetches remote content, and
// splits the resulting text into tokens.
type Tokenizer struct {
	client    *http.Client
	extractor TextExtractor
	userAgent string
	log       *slog.Logger
}

// NewTokenizer returns a Tokenizer using the given HTTP client and PDF text
// extractor.
func NewTokenizer(client *http.Client, extractor TextExtractor, userAgent string, log *slog.Logger) *Tokenizer {
	return &Tokenizer{client: client, extractor: extractor, userAgent: userAgent, log: log}
}

// Resolve rewrites a DOI reference to its resolver URL and reports whether
// the (possibly rewritten) reference is remote.
func Resolve(ref string) (resolved string, remote bool) {
	ref = strings.TrimSpace(ref)
	if doiPattern.MatchString(ref) {
		ref = doiResolverBase + ref
	}
	return ref, strings.HasPrefix(ref, "http")
}

// isPDF reports whether the reference's trailing characters indicate a PDF.
func isPDF(ref string) bool {
	return strings.HasSuffix(strings.ToLower(ref), "pdf")
}

// Tokenize produces the token sequence for one document reference. An
// unreachable or non-200 remote document yields an empty sequence and no
// error; an unreadable local file is an error.
func (t *Tokenizer) Tokenize(ctx context.Context, ref string) ([]string, error) {
	ref, remote := Resolve(ref)

	var fullText string
	if remote {
		text, err := t.fetchRemote(ctx, ref)
		if err != nil {
			return nil, err
		}
		if text == "" {
			return nil, nil
		}
		fullText = text
	} else {
		text, err := t.readLocal(ref)
		if err != nil {
			return nil, err
		}
		fullText = text
	}

	if isPDF(ref) {
		return pdfSplit.Split(fullText, -1), nil
	}
	return textSplit.Split(fullText, -1), nil
}

// fetchRemote retrieves the document at url. A non-200 response is logged and
// yields empty text with no error; transport failures propagate.
func (t *Tokenizer) fetchRemote(ctx context.Context, url string) (string, error) {
	resp, err := httputil.Get(ctx, t.client, url, t.userAgent)
	if err != nil {
		return "", fmt.Errorf("fetching document %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.log.Warn("document not retrievable", "url", url, "status", resp.StatusCode)
		return "", nil
	}

	if isPDF(url) {
		return t.extractRemotePDF(resp.Body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading document %s: %w", url, err)
	}
	return string(body), nil
}

// extractRemotePDF materializes the response body as a temporary file and
// runs the shared extractor over it.
func (t *Tokenizer) extractRemotePDF(body io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "qebil-doc-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, copyErr := io.Copy(tmp, body)
	closeErr := tmp.Close()
	if copyErr != nil {
		return "", fmt.Errorf("writing temp PDF: %w", copyErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("closing temp PDF: %w", closeErr)
	}

	return t.extractor.Extract(tmpPath)
}

func (t *Tokenizer) readLocal(path string) (string, error) {
	if isPDF(path) {
		return t.extractor.Extract(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading document %s: %w", path, err)
	}
	return string(data), nil
}
