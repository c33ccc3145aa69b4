// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scholar-search CLI. The engine is
// an in-process library; the CLI wires it to the corpus store and to paper
// files supplied by fetch-side collaborators.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-search/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the scholar-search CLI.
var rootCmd = &cobra.Command{
	Use:   "scholar-search",
	Short: "Search and rank academic papers aggregated from federated catalogs",
	Long: `scholar-search indexes deduplicated academic-paper records and answers
boolean queries against them: quoted phrases, field filters (title:, author:,
abstract:, doi:, venue:), AND/OR/NOT operators, and prefix wildcards.
Results are ranked by a blend of textual match, citation velocity, recency,
and citation magnitude.

Paper records arrive from fetch-side collaborators as YAML or JSON files;
the dedupe and index commands fold them into a local corpus, and search
queries it.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scholar-search.yaml or ~/.config/scholar-search/config.yaml)")
	rootCmd.PersistentFlags().String("corpus-dir", "corpus", "base directory for the corpus (contains index/)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scholar-search")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scholar-search"))
		}
	}

	viper.SetEnvPrefix("SCHOLAR_SEARCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles the engine configuration from viper settings.
func engineConfig() types.EngineConfig {
	return types.EngineDefaults(types.EngineConfig{
		MaxPapers:     viper.GetInt("engine.max_papers"),
		ScoringWindow: viper.GetInt("engine.scoring_window"),
		Not:           types.NotPolicy(viper.GetString("engine.not_policy")),
		Profile:       viper.GetString("engine.profile"),
		Parser: types.ParserConfig{
			MaxTokens:         viper.GetInt("engine.parser.max_tokens"),
			MaxWildcardLength: viper.GetInt("engine.parser.max_wildcard_length"),
			Implicit:          types.ImplicitOperator(viper.GetString("engine.parser.implicit_operator")),
		},
		Cache: types.CacheConfig{
			MaxEntries: viper.GetInt("engine.cache.max_entries"),
			TTL:        viper.GetDuration("engine.cache.ttl"),
		},
	})
}

// corpusConfig assembles the corpus store configuration.
func corpusConfig(cmd *cobra.Command) types.CorpusConfig {
	dir, _ := cmd.Flags().GetString("corpus-dir")
	if dir == "" {
		dir = viper.GetString("corpus.corpus_dir")
	}
	if dir == "" {
		dir = "corpus"
	}
	return types.CorpusConfig{CorpusDir: dir}
}

// elapsed formats a duration for progress output.
func elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
