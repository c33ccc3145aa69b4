// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-search/internal/corpus"
	"github.com/pdiddy/scholar-search/internal/dedup"
	"github.com/pdiddy/scholar-search/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index [paper-file ...]",
	Short: "Deduplicate paper files and add them to the corpus",
	Long: `Index reads paper records from YAML or JSON files produced by fetch-side
collaborators, collapses cross-source duplicates, and upserts the canonical
records into the corpus store. The search command hydrates the engine from
that store.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()

	var all []types.Paper
	for _, path := range args {
		batch, err := corpus.ReadPaperFile(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "read    %s (%d papers)\n", path, len(batch))
		all = append(all, batch...)
	}

	deduped, removed := dedup.Deduplicate(all)
	if removed > 0 {
		fmt.Fprintf(os.Stdout, "merged  %d duplicate record(s)\n", removed)
	}

	store, err := corpus.NewStore(corpusConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	written, err := store.SavePapers(context.Background(), deduped)
	if err != nil {
		return err
	}

	count, err := store.Count(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\nindexed %d paper(s) in %s; corpus now holds %d\n",
		written, elapsed(start), count)
	return nil
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
