// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SortStrategy selects the ordering of ranked search results.
type SortStrategy string

const (
	// SortRelevance orders by the blended relevance score.
	SortRelevance SortStrategy = "relevance"

	// SortRecent orders by publication date, newest first.
	SortRecent SortStrategy = "recent"

	// SortCitations orders by raw citation count, highest first.
	SortCitations SortStrategy = "citations"

	// SortVelocity orders by citation velocity (citations per year).
	SortVelocity SortStrategy = "citation-velocity"
)

// ValidSortStrategy reports whether s names a supported ordering.
func ValidSortStrategy(s SortStrategy) bool {
	switch s {
	case SortRelevance, SortRecent, SortCitations, SortVelocity:
		return true
	}
	return false
}

// SearchStats describes one search execution. Degraded conditions (truncated
// queries, unknown identifiers, index resets) surface here and in logs, never
// as errors.
type SearchStats struct {
	// TotalCandidates is the candidate count before verification.
	TotalCandidates int `json:"total_candidates" yaml:"total_candidates"`

	// FilteredCandidates is the count surviving expression verification.
	FilteredCandidates int `json:"filtered_candidates" yaml:"filtered_candidates"`

	// ScoredPapers is the count actually scored after windowing.
	ScoredPapers int `json:"scored_papers" yaml:"scored_papers"`

	// ExecutionTimeMs is the elapsed search time in milliseconds.
	ExecutionTimeMs int64 `json:"execution_time_ms" yaml:"execution_time_ms"`

	// CacheHit reports whether the result order came from the query cache.
	CacheHit bool `json:"cache_hit" yaml:"cache_hit"`
}

// CacheStats describes the query cache for observability consumers.
type CacheStats struct {
	// Entries is the number of live cache entries.
	Entries int `json:"entries" yaml:"entries"`

	// Hits counts lookups served from the cache.
	Hits int64 `json:"hits" yaml:"hits"`

	// Misses counts lookups that fell through to a full search.
	Misses int64 `json:"misses" yaml:"misses"`

	// Evictions counts entries removed by TTL expiry or LRU pressure.
	Evictions int64 `json:"evictions" yaml:"evictions"`
}
