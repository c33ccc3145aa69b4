// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-search/internal/corpus"
	"github.com/pdiddy/scholar-search/internal/dedup"
	"github.com/pdiddy/scholar-search/pkg/types"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe [paper-file ...]",
	Short: "Collapse cross-source duplicates in paper files",
	Long: `Dedupe reads paper records from YAML or JSON files, groups records that
describe the same paper (by DOI, arXiv ID, or near-identical title), and
merges each group into one canonical record. With --output the merged set is
written back out; otherwise a summary is printed.

Index runs this pass automatically; dedupe exists to inspect or stage the
merge separately.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDedupe,
}

func runDedupe(cmd *cobra.Command, args []string) error {
	var all []types.Paper
	for _, path := range args {
		batch, err := corpus.ReadPaperFile(path)
		if err != nil {
			return err
		}
		all = append(all, batch...)
	}

	deduped, removed := dedup.Deduplicate(all)

	fmt.Fprintf(os.Stdout, "%d record(s) in, %d canonical paper(s) out, %d merged away\n",
		len(all), len(deduped), removed)

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := corpus.WritePaperFile(output, deduped); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", output)
	}
	return nil
}

func init() {
	dedupeCmd.Flags().String("output", "", "write the merged records to a YAML file")

	rootCmd.AddCommand(dedupeCmd)
}
