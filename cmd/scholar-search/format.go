// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/scholar-search/pkg/types"
)

// formatTable writes ranked papers as a human-readable table.
func formatTable(papers []types.Paper, w io.Writer) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-58s  %-20s  %-4s  %-6s  %s\n",
		"Rank", "Title", "Authors", "Year", "Cites", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 108))

	for i, p := range papers {
		title := p.Title
		if len(title) > 58 {
			title = title[:55] + "..."
		}
		year := ""
		if !p.Date.IsZero() {
			year = fmt.Sprintf("%d", p.Date.Year())
		}
		fmt.Fprintf(w, "%-4d  %-58s  %-20s  %-4s  %-6d  %s\n",
			i+1, title, formatAuthors(p.Authors), year, p.CitationCount, p.Source)
	}
}

// formatJSON writes papers as indented JSON.
func formatJSON(papers []types.Paper, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(papers)
}

func formatAuthors(authors []types.Author) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0].Name, 20)
	default:
		return truncate(authors[0].Name, 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
