// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-search/pkg/types"
)

func TestPaperFileYAMLRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	papers := samplePapers()

	require.NoError(t, WritePaperFile(path, papers))

	loaded, err := ReadPaperFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, papers[0].ID, loaded[0].ID)
	assert.Equal(t, papers[0].Authors, loaded[0].Authors)
	assert.True(t, papers[0].Date.Equal(loaded[0].Date))
}

func TestReadPaperFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.json")
	data := `{"papers": [{"id": "p1", "title": "Neural Networks", "citation_count": 50}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	papers, err := ReadPaperFile(path)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "p1", papers[0].ID)
	assert.Equal(t, 50, papers[0].CitationCount)
}

func TestReadPaperFileMissing(t *testing.T) {
	_, err := ReadPaperFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestResultFileRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.yaml")
	papers := samplePapers()
	stats := types.SearchStats{
		TotalCandidates:    10,
		FilteredCandidates: 5,
		ScoredPapers:       2,
		ExecutionTimeMs:    3,
	}

	require.NoError(t, WriteResultFile(path, "neural AND NOT survey", types.SortRelevance, papers, stats))

	rf, err := ReadResultFile(path)
	require.NoError(t, err)
	assert.Equal(t, "neural AND NOT survey", rf.Query)
	assert.Equal(t, types.SortRelevance, rf.SortBy)
	assert.Equal(t, 2, rf.Summary.Total)
	assert.Equal(t, stats, rf.Summary.Stats)
	require.Len(t, rf.Results, 2)
	assert.Equal(t, papers[0].ID, rf.Results[0].ID)
	assert.False(t, rf.Summary.Timestamp.IsZero())
}
