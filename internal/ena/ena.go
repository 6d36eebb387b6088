// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ena fetches and parses study records from the ENA browser XML.
package ena

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/austinSCG/qebil/internal/httputil"
)

// browserBase is the ENA browser endpoint. Declared as a var so tests can
// substitute an httptest server.
var browserBase = "https://www.ebi.ac.uk/ena/browser/view/"

// ErrNoStudyInfo is returned when a record contains neither a STUDY_SET nor
// a PROJECT_SET.
var ErrNoStudyInfo = errors.New("no study information found")

// Identifiers pairs the study and project accessions of one ENA record.
// Either field may be empty when the record carries no secondary identifier.
type Identifiers struct {
	Study   string
	Project string
}

// FetchStudy retrieves the browser XML for an accession and parses it.
func FetchStudy(ctx context.Context, client *http.Client, accession, userAgent string) (*xmlquery.Node, error) {
	url := browserBase + accession + "&display=xml"

	resp, err := httputil.Get(ctx, client, url, userAgent)
	if err != nil {
		return nil, fmt.Errorf("fetching study %s: %w", accession, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching study %s: HTTP %d", accession, resp.StatusCode)
	}

	doc, err := xmlquery.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing study XML for %s: %w", accession, err)
	}
	return doc, nil
}

// ParseIdentifiers merges the primary and secondary accessions of a study or
// project record. Repeated SECONDARY_ID elements arrive as a uniform node
// list, so the single-versus-multiple distinction is resolved here at the
// parse boundary.
func ParseIdentifiers(doc *xmlquery.Node, log *slog.Logger) (Identifiers, error) {
	if ids := xmlquery.FindOne(doc, "//STUDY_SET/STUDY/IDENTIFIERS"); ids != nil {
		return parseStudySet(ids, log), nil
	}
	if ids := xmlquery.FindOne(doc, "//PROJECT_SET/PROJECT/IDENTIFIERS"); ids != nil {
		return parseProjectSet(ids, log), nil
	}
	log.Warn("no study information found")
	return Identifiers{}, ErrNoStudyInfo
}

func parseStudySet(ids *xmlquery.Node, log *slog.Logger) Identifiers {
	out := Identifiers{Study: primaryID(ids)}

	secondaries := secondaryIDs(ids)
	if len(secondaries) == 0 {
		log.Warn("no project ID for study", "study", out.Study)
		out.Project = out.Study
		return out
	}

	// All project accessions start with PRJ; anything else under
	// SECONDARY_ID is a different identifier family.
	var parts []string
	for _, s := range secondaries {
		if strings.Contains(s, "PRJ") {
			parts = append(parts, s)
		}
	}
	out.Project = strings.Join(parts, "")
	return out
}

func parseProjectSet(ids *xmlquery.Node, log *slog.Logger) Identifiers {
	out := Identifiers{Project: primaryID(ids)}

	secondaries := secondaryIDs(ids)
	if len(secondaries) == 0 {
		log.Warn("no study ID for project", "project", out.Project)
		return out
	}
	out.Study = secondaries[0]
	return out
}

func primaryID(ids *xmlquery.Node) string {
	if n := xmlquery.FindOne(ids, "PRIMARY_ID"); n != nil {
		return strings.TrimSpace(n.InnerText())
	}
	return ""
}

func secondaryIDs(ids *xmlquery.Node) []string {
	var out []string
	for _, n := range xmlquery.Find(ids, "SECONDARY_ID") {
		if v := strings.TrimSpace(n.InnerText()); v != "" {
			out = append(out, v)
		}
	}
	return out
}
