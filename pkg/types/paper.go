// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the scholar-search engine:
// the canonical Paper record produced by federated catalog collaborators, the
// search request/response shapes, and the configuration structs.
package types

import "time"

// Author identifies one paper author.
type Author struct {
	// ID is the source-assigned author identifier, when available.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Name is the author's display name.
	Name string `json:"name" yaml:"name"`

	// Affiliations lists institutional affiliations, when available.
	Affiliations []string `json:"affiliations,omitempty" yaml:"affiliations,omitempty"`
}

// Paper is the canonical record for one academic paper, as supplied by a
// federated catalog collaborator. Papers are treated as immutable once
// produced; only the dedup merge creates new instances.
type Paper struct {
	// ID is the canonical identifier (arXiv ID, DOI, or a source-native key).
	ID string `json:"id" yaml:"id"`

	// Title is the paper title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []Author `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract or summary.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Date is the publication or preprint date.
	Date time.Time `json:"date" yaml:"date"`

	// Venue is the journal or conference name, when known.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// CitationCount is the number of citations the source reports.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// ReferenceCount is the number of references the source reports.
	ReferenceCount int `json:"reference_count" yaml:"reference_count"`

	// FieldsOfStudy lists subject classifications (e.g. "Computer Science").
	FieldsOfStudy []string `json:"fields_of_study,omitempty" yaml:"fields_of_study,omitempty"`

	// PDFURL is a direct link to the paper PDF, when available.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// DOI is the Digital Object Identifier, when available.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Source identifies which catalog supplied this record
	// (e.g. "arxiv", "semantic_scholar", "openalex").
	Source string `json:"source" yaml:"source"`

	// OpenAccess reports whether the full text is freely available.
	OpenAccess bool `json:"open_access" yaml:"open_access"`

	// Methodology is an optional methodology tag attached by an upstream
	// classification collaborator.
	Methodology string `json:"methodology,omitempty" yaml:"methodology,omitempty"`
}

// Year returns the publication year, or 0 when the date is unset.
func (p Paper) Year() int {
	if p.Date.IsZero() {
		return 0
	}
	return p.Date.Year()
}
