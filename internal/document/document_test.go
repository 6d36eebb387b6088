// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeExtractor returns canned text and records the path it was given.
type fakeExtractor struct {
	text string
	err  error
	path string
}

func (f *fakeExtractor) Extract(pdfPath string) (string, error) {
	f.path = pdfPath
	return f.text, f.err
}

func newTokenizerForTest(client *http.Client, ex TextExtractor) *Tokenizer {
	if client == nil {
		client = http.DefaultClient
	}
	return NewTokenizer(client, ex, "qebil-test/0.1", discardLogger())
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		ref        string
		wantRef    string
		wantRemote bool
	}{
		{"doi rewritten", "10.1038/s41586-024-07487-w", doiResolverBase + "10.1038/s41586-024-07487-w", true},
		{"https url", "https://example.com/paper", "https://example.com/paper", true},
		{"http url", "http://example.com/paper", "http://example.com/paper", true},
		{"local path", "docs/paper.txt", "docs/paper.txt", false},
		{"whitespace trimmed", "  10.1145/12345/x  ", doiResolverBase + "10.1145/12345/x", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotRef, gotRemote := Resolve(tt.ref)
			if gotRef != tt.wantRef {
				t.Errorf("Resolve(%q) ref = %q, want %q", tt.ref, gotRef, tt.wantRef)
			}
			if gotRemote != tt.wantRemote {
				t.Errorf("Resolve(%q) remote = %v, want %v", tt.ref, gotRemote, tt.wantRemote)
			}
		})
	}
}

func TestTokenizeRemoteText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<a href="x">PRJEB12345,</a> more text`)
	}))
	defer ts.Close()

	tok := newTokenizerForTest(ts.Client(), &fakeExtractor{})
	tokens, err := tok.Tokenize(context.Background(), ts.URL+"/page.html")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	// Markup characters are delimiters for non-PDF text, so the accession
	// token survives with only its trailing comma attached.
	found := false
	for _, tk := range tokens {
		if tk == "PRJEB12345" {
			found = true
		}
	}
	if !found {
		t.Errorf("tokens %v should contain PRJEB12345", tokens)
	}
}

func TestTokenizeRemoteNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	tok := newTokenizerForTest(ts.Client(), &fakeExtractor{})
	tokens, err := tok.Tokenize(context.Background(), ts.URL+"/missing")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("tokens = %v, want empty for non-200 document", tokens)
	}
}

func TestTokenizeRemotePDF(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, "%PDF-1.4 fake")
	}))
	defer ts.Close()

	ex := &fakeExtractor{text: "study PRJEB12345, described here.\nsecond\tline"}
	tok := newTokenizerForTest(ts.Client(), ex)

	tokens, err := tok.Tokenize(context.Background(), ts.URL+"/paper.pdf")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if ex.path == "" {
		t.Fatal("extractor was not invoked for remote PDF")
	}
	if _, statErr := os.Stat(ex.path); !os.IsNotExist(statErr) {
		t.Errorf("temp PDF %s should have been removed", ex.path)
	}

	want := []string{"study", "PRJEB12345", "described", "here.", "second", "line"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("tokens = %v, want %v", tokens, want)
	}
}

func TestTokenizeLocalPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	ex := &fakeExtractor{text: "tokens; from, local. pdf"}
	tok := newTokenizerForTest(nil, ex)

	tokens, err := tok.Tokenize(context.Background(), path)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if ex.path != path {
		t.Errorf("extractor path = %q, want %q", ex.path, path)
	}
	want := []string{"tokens", "from", "local", "pdf"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("tokens = %v, want %v", tokens, want)
	}
}

func TestTokenizeLocalText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("ids:PRJNA7/ERP123'quoted'"), 0o644); err != nil {
		t.Fatal(err)
	}

	tok := newTokenizerForTest(nil, &fakeExtractor{})
	tokens, err := tok.Tokenize(context.Background(), path)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	got := map[string]bool{}
	for _, tk := range tokens {
		got[tk] = true
	}
	for _, want := range []string{"ids:PRJNA7", "ERP123", "quoted"} {
		if !got[want] {
			t.Errorf("tokens %v should contain %q", tokens, want)
		}
	}
}

func TestTokenizeLocalMissingFile(t *testing.T) {
	tok := newTokenizerForTest(nil, &fakeExtractor{})
	if _, err := tok.Tokenize(context.Background(), filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for unreadable local document")
	}
}

func TestTokenizeDOIRewrite(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, "plain text PRJEB99999 here")
	}))
	defer ts.Close()

	orig := doiResolverBase
	doiResolverBase = ts.URL + "/"
	defer func() { doiResolverBase = orig }()

	tok := newTokenizerForTest(ts.Client(), &fakeExtractor{})
	tokens, err := tok.Tokenize(context.Background(), "10.1093/bioinformatics/btab123")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if gotPath != "/10.1093/bioinformatics/btab123" {
		t.Errorf("resolver path = %q, want DOI appended", gotPath)
	}
	if len(tokens) == 0 {
		t.Fatal("expected tokens from resolved DOI")
	}
}
