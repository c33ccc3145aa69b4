// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-search/pkg/types"
)

// PaperFile is the on-disk shape of a batch of paper records supplied by a
// fetch-side collaborator.
type PaperFile struct {
	Papers []types.Paper `json:"papers" yaml:"papers"`
}

// ReadPaperFile loads paper records from a YAML or JSON file, chosen by
// extension.
func ReadPaperFile(path string) ([]types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading paper file: %w", err)
	}

	var pf PaperFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &pf); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &pf); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return pf.Papers, nil
}

// WritePaperFile saves paper records to a YAML file.
func WritePaperFile(path string, papers []types.Paper) error {
	data, err := yaml.Marshal(&PaperFile{Papers: papers})
	if err != nil {
		return fmt.Errorf("marshaling paper file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ResultFile is the on-disk representation of a search and its ranked
// results. A saved search can be reviewed later without re-running it.
type ResultFile struct {
	Query   string             `yaml:"query"`
	SortBy  types.SortStrategy `yaml:"sort_by"`
	Results []types.Paper      `yaml:"results"`
	Summary ResultSummary      `yaml:"summary"`
}

// ResultSummary stores the execution statistics and a timestamp.
type ResultSummary struct {
	Total     int               `yaml:"total"`
	Stats     types.SearchStats `yaml:"stats"`
	Timestamp time.Time         `yaml:"timestamp"`
}

// WriteResultFile saves a query, its ranked results, and its stats to YAML.
func WriteResultFile(path, queryText string, sortBy types.SortStrategy, papers []types.Paper, stats types.SearchStats) error {
	rf := ResultFile{
		Query:   queryText,
		SortBy:  sortBy,
		Results: papers,
		Summary: ResultSummary{
			Total:     len(papers),
			Stats:     stats,
			Timestamp: time.Now(),
		},
	}
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved search from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
