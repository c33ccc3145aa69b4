// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-search/internal/corpus"
	"github.com/pdiddy/scholar-search/internal/engine"
	"github.com/pdiddy/scholar-search/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the corpus with a boolean query",
	Long: `Search hydrates the engine from the corpus store and runs a boolean query
against it. Queries support quoted phrases, AND/OR/NOT operators,
parentheses, prefix wildcards (neur*), and field filters:

  scholar-search search '"machine learning" AND privacy NOT survey'
  scholar-search search 'doi:10.1234/example'
  scholar-search search 'author:hinton neur*' --sort citation-velocity

A doi: filter short-circuits to the one exact match.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	queryText := strings.Join(args, " ")
	sortBy := types.SortStrategy(mustString(cmd, "sort"))
	if !types.ValidSortStrategy(sortBy) {
		return fmt.Errorf("unsupported sort %q: use relevance, recent, citations, or citation-velocity", sortBy)
	}

	limit, _ := cmd.Flags().GetInt("max-results")

	store, err := corpus.NewStore(corpusConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	papers, err := store.LoadAll(context.Background())
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		return fmt.Errorf("corpus is empty: run 'scholar-search index' first")
	}

	eng := engine.New(engineConfig())
	eng.IndexPapers(papers)

	results, stats := eng.Search(queryText, sortBy)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := corpus.WriteResultFile(output, queryText, sortBy, results, stats); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved results to %s\n", output)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return formatJSON(results, os.Stdout)
	}

	formatTable(results, os.Stdout)
	fmt.Fprintf(os.Stdout, "\n%d candidates, %d verified, %d scored in %d ms",
		stats.TotalCandidates, stats.FilteredCandidates, stats.ScoredPapers,
		stats.ExecutionTimeMs)
	if stats.CacheHit {
		fmt.Fprint(os.Stdout, " (cached)")
	}
	fmt.Fprintln(os.Stdout)
	return nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func init() {
	searchCmd.Flags().String("sort", "relevance", "sort strategy: relevance, recent, citations, citation-velocity")
	searchCmd.Flags().Int("max-results", 20, "maximum number of results to print (0 = all)")
	searchCmd.Flags().String("output", "", "save query and results to a YAML file")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
