// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan finds repository accession identifiers in token sequences and
// confirms each candidate against the ENA browser before accepting it.
package scan

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/austinSCG/qebil/internal/httputil"
)

// DefaultStems are the canonical accession prefixes recognized when the
// caller does not supply its own set.
var DefaultStems = []string{"PRJEB", "PRJNA", "ERP", "SRP"}

// enaBrowserBase is the existence-check endpoint. Declared as a var so tests
// can substitute an httptest server.
var enaBrowserBase = "https://www.ebi.ac.uk/ena/browser/view/"

// minAccessionLen is the shortest accepted accession after punctuation
// stripping.
const minAccessionLen = 6

// Output summarizes one scan: the verified accessions in stem-major order
// plus candidate accounting for the report file.
type Output struct {
	Accessions []string
	Candidates int
	Rejected   int
}

// Scanner validates candidate accessions against the ENA browser.
type Scanner struct {
	client    *http.Client
	stems     []string
	userAgent string
	log       *slog.Logger
}

// NewScanner returns a Scanner for the given stems. An empty stem set falls
// back to DefaultStems.
func NewScanner(client *http.Client, stems []string, userAgent string, log *slog.Logger) *Scanner {
	if len(stems) == 0 {
		stems = DefaultStems
	}
	return &Scanner{client: client, stems: stems, userAgent: userAgent, log: log}
}

// Scan walks the token sequence and returns every candidate accession that
// survives extraction, the remote existence check, and the length filter.
// Results are ordered by stem, then by token position; duplicates across
// stems are not collapsed. No single candidate failure aborts the scan.
func (s *Scanner) Scan(ctx context.Context, tokens []string) Output {
	// Stem -> all distinct tokens containing that stem. Every matching token
	// advances to extraction, not just the last one seen.
	matches := make(map[string][]string, len(s.stems))
	for _, stem := range s.stems {
		seen := make(map[string]bool)
		for _, tok := range tokens {
			if !strings.Contains(tok, stem) || seen[tok] {
				continue
			}
			seen[tok] = true
			matches[stem] = append(matches[stem], tok)
		}
	}

	var out Output
	for _, stem := range s.stems {
		for _, tok := range matches[stem] {
			candidate, ok := extract(tok, stem)
			if !ok {
				continue
			}
			out.Candidates++

			accession, ok := s.confirm(ctx, candidate)
			if ok {
				out.Accessions = append(out.Accessions, accession)
			} else {
				out.Rejected++
			}
		}
	}
	return out
}

// extract locates the first occurrence of stem inside the token and returns
// the token suffix starting at the stem. The character immediately following
// the stem must be a digit; this guards against the stem appearing inside an
// ordinary word.
func extract(token, stem string) (string, bool) {
	start := strings.Index(token, stem)
	if start < 0 {
		return "", false
	}
	rest := token[start+len(stem):]
	if rest == "" || rest[0] < '0' || rest[0] > '9' {
		return "", false
	}
	return token[start:], true
}

// confirm checks the candidate against the ENA browser. HTTP 200 is the sole
// existence signal; the body is not read. Confirmed candidates are trimmed of
// trailing punctuation and must still be at least minAccessionLen long.
func (s *Scanner) confirm(ctx context.Context, candidate string) (string, bool) {
	checkURL := enaBrowserBase + candidate + "&display=xml"

	resp, err := httputil.Get(ctx, s.client, checkURL, s.userAgent)
	if err != nil {
		s.log.Warn("accession existence check failed", "candidate", candidate, "url", checkURL, "error", err)
		return "", false
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Warn("candidate accession does not exist", "candidate", candidate, "url", checkURL, "status", resp.StatusCode)
		return "", false
	}

	accession := strings.TrimRight(strings.TrimSpace(candidate), ",.-")
	if len(accession) < minAccessionLen {
		s.log.Warn("candidate accession too short", "candidate", candidate, "url", checkURL)
		return "", false
	}
	return accession, true
}
