// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-search/internal/corpus"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print corpus and engine configuration statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := corpus.NewStore(corpusConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Count(context.Background())
	if err != nil {
		return err
	}

	cfg := engineConfig()
	fmt.Fprintf(os.Stdout, "corpus papers:    %d\n", count)
	fmt.Fprintf(os.Stdout, "index cap:        %d\n", cfg.MaxPapers)
	fmt.Fprintf(os.Stdout, "scoring window:   %d\n", cfg.ScoringWindow)
	fmt.Fprintf(os.Stdout, "not policy:       %s\n", cfg.Not)
	fmt.Fprintf(os.Stdout, "implicit join:    %s\n", cfg.Parser.Implicit)
	fmt.Fprintf(os.Stdout, "cache entries:    %d max, ttl %s\n", cfg.Cache.MaxEntries, cfg.Cache.TTL)
	return nil
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
