// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup collapses paper records that describe the same work but
// arrived from different federated catalogs. Identity is resolved by DOI,
// then arXiv ID, then normalized-title similarity; merged records preserve
// the richest metadata seen across sources.
package dedup

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/pdiddy/scholar-search/pkg/types"
)

// titleSimilarityThreshold is the minimum normalized-title similarity ratio
// for two papers without shared identifiers to count as duplicates.
const titleSimilarityThreshold = 0.9

var arxivIDRe = regexp.MustCompile(`\d{4}\.\d{4,5}`)

// ExtractArxivID returns the first arXiv-style identifier (e.g. "2301.07041")
// embedded in s, or "" when none is present.
func ExtractArxivID(s string) string {
	return arxivIDRe.FindString(s)
}

// NormalizeTitle returns a lowercased, punctuation-stripped,
// whitespace-collapsed form of the title.
func NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Key derives the grouping identity for a paper: the lower-cased DOI when
// present, else an arXiv ID extracted from the identifier or DOI, else the
// normalized title.
func Key(p types.Paper) string {
	if p.DOI != "" {
		return "doi:" + strings.ToLower(p.DOI)
	}
	if id := ExtractArxivID(p.ID); id != "" {
		return "arxiv:" + id
	}
	if id := ExtractArxivID(p.DOI); id != "" {
		return "arxiv:" + id
	}
	return "title:" + NormalizeTitle(p.Title)
}

// TitleSimilarity returns a 0–1 ratio derived from the Levenshtein distance
// between the normalized titles: 1 means identical.
func TitleSimilarity(a, b string) float64 {
	na, nb := NormalizeTitle(a), NormalizeTitle(b)
	if na == "" || nb == "" {
		return 0
	}
	longest := len(na)
	if len(nb) > longest {
		longest = len(nb)
	}
	dist := levenshtein.ComputeDistance(na, nb)
	return 1 - float64(dist)/float64(longest)
}

// AreDuplicates reports whether two papers describe the same work: matching
// DOIs, matching arXiv IDs, or near-identical titles.
func AreDuplicates(a, b types.Paper) bool {
	if a.DOI != "" && b.DOI != "" &&
		strings.EqualFold(a.DOI, b.DOI) {
		return true
	}

	aID := ExtractArxivID(a.ID + " " + a.DOI)
	bID := ExtractArxivID(b.ID + " " + b.DOI)
	if aID != "" && aID == bID {
		return true
	}

	return TitleSimilarity(a.Title, b.Title) > titleSimilarityThreshold
}

// Merge folds a group of duplicate records into one canonical Paper. The
// result keeps the maximum citation and reference counts, the longest
// abstract, the union of authors (deduplicated by lowercase name) and fields
// of study, the first available PDF URL and DOI, and the OR of open-access
// flags. Sources are concatenated so provenance is visible.
func Merge(group []types.Paper) types.Paper {
	if len(group) == 0 {
		return types.Paper{}
	}

	merged := group[0]
	seenAuthors := make(map[string]struct{}, len(merged.Authors))
	for _, a := range merged.Authors {
		seenAuthors[strings.ToLower(a.Name)] = struct{}{}
	}
	seenFields := make(map[string]struct{}, len(merged.FieldsOfStudy))
	for _, f := range merged.FieldsOfStudy {
		seenFields[strings.ToLower(f)] = struct{}{}
	}

	for _, p := range group[1:] {
		if p.CitationCount > merged.CitationCount {
			merged.CitationCount = p.CitationCount
		}
		if p.ReferenceCount > merged.ReferenceCount {
			merged.ReferenceCount = p.ReferenceCount
		}
		if len(p.Abstract) > len(merged.Abstract) {
			merged.Abstract = p.Abstract
		}
		if merged.Title == "" {
			merged.Title = p.Title
		}
		if merged.Date.IsZero() {
			merged.Date = p.Date
		}
		if merged.Venue == "" {
			merged.Venue = p.Venue
		}
		if merged.PDFURL == "" {
			merged.PDFURL = p.PDFURL
		}
		if merged.DOI == "" {
			merged.DOI = p.DOI
		}
		if merged.Methodology == "" {
			merged.Methodology = p.Methodology
		}
		merged.OpenAccess = merged.OpenAccess || p.OpenAccess

		for _, a := range p.Authors {
			name := strings.ToLower(a.Name)
			if _, ok := seenAuthors[name]; ok {
				continue
			}
			seenAuthors[name] = struct{}{}
			merged.Authors = append(merged.Authors, a)
		}
		for _, f := range p.FieldsOfStudy {
			key := strings.ToLower(f)
			if _, ok := seenFields[key]; ok {
				continue
			}
			seenFields[key] = struct{}{}
			merged.FieldsOfStudy = append(merged.FieldsOfStudy, f)
		}
		if p.Source != "" && !strings.Contains(merged.Source, p.Source) {
			if merged.Source == "" {
				merged.Source = p.Source
			} else {
				merged.Source = merged.Source + "," + p.Source
			}
		}
	}

	return merged
}

// Deduplicate collapses duplicates in two passes. The first groups by exact
// key and merges each group. The second is a quadratic fuzzy sweep over the
// merged set, folding in near-duplicates the exact keys missed (e.g. the
// same paper indexed with and without a DOI). Result sets are small, so the
// O(n²) pass stays cheap. Returns the canonical papers in first-seen order
// and the number of records folded away.
func Deduplicate(papers []types.Paper) ([]types.Paper, int) {
	groups := make(map[string][]types.Paper)
	var order []string
	for _, p := range papers {
		key := Key(p)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], p)
	}

	var merged []types.Paper
	for _, key := range order {
		merged = append(merged, Merge(groups[key]))
	}

	var result []types.Paper
	for _, p := range merged {
		folded := false
		for i := range result {
			if AreDuplicates(result[i], p) {
				result[i] = Merge([]types.Paper{result[i], p})
				folded = true
				break
			}
		}
		if !folded {
			result = append(result, p)
		}
	}

	return result, len(papers) - len(result)
}
