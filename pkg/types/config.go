// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// NotPolicy selects how NOT is evaluated during candidate generation.
//
// The original engine complemented NOT against the entire indexed corpus, so
// a bare "NOT x" query returns every paper that does not mention x. Whether
// that is intended is an open interpretation question, so both readings are
// supported and the choice is explicit configuration.
type NotPolicy string

const (
	// NotComplement complements the child's candidates against every
	// indexed paper. A bare "NOT x" matches the whole corpus minus x.
	NotComplement NotPolicy = "complement"

	// NotRestrict only lets NOT subtract from a positive sibling operand.
	// A bare "NOT x" with no positive term matches nothing.
	NotRestrict NotPolicy = "restrict"
)

// ImplicitOperator selects how bare multi-term queries with no boolean
// operator are combined. The original engine OR-combined them, the opposite
// of the usual implicit-AND search convention; the behavior is preserved as
// the default and kept configurable rather than silently changed.
type ImplicitOperator string

const (
	ImplicitOR  ImplicitOperator = "or"
	ImplicitAND ImplicitOperator = "and"
)

// ParserConfig holds query parser settings.
type ParserConfig struct {
	// MaxTokens caps the number of lexed query tokens. Longer queries are
	// truncated with a diagnostic log, never rejected (default 50).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MaxWildcardLength caps the length of a wildcard term (default 30).
	MaxWildcardLength int `json:"max_wildcard_length" yaml:"max_wildcard_length"`

	// Implicit selects the operator joining bare multi-term queries
	// (default "or").
	Implicit ImplicitOperator `json:"implicit_operator" yaml:"implicit_operator"`
}

// CacheConfig holds query cache settings.
type CacheConfig struct {
	// MaxEntries bounds the cache size; the least-recently-accessed entry
	// is evicted when the bound is exceeded (default 100).
	MaxEntries int `json:"max_entries" yaml:"max_entries"`

	// TTL is the lifetime of a cache entry from creation (default 5m).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// EngineConfig holds settings for the search engine.
type EngineConfig struct {
	// MaxPapers is the hard index cap. Indexing past it discards the
	// whole index and cache and rebuilds from the new batch alone
	// (default 10000).
	MaxPapers int `json:"max_papers" yaml:"max_papers"`

	// ScoringWindow is the number of verified candidates, ordered by
	// citation velocity, that proceed to full scoring (default 500).
	ScoringWindow int `json:"scoring_window" yaml:"scoring_window"`

	// Not selects the NOT evaluation policy (default "complement").
	Not NotPolicy `json:"not_policy" yaml:"not_policy"`

	// Profile names the scoring weight profile: "default" favors text
	// match and citation velocity, "classic" favors total citations.
	Profile string `json:"profile" yaml:"profile"`

	Parser ParserConfig `json:"parser" yaml:"parser"`
	Cache  CacheConfig  `json:"cache" yaml:"cache"`
}

// CorpusConfig holds settings for the corpus store collaborator.
type CorpusConfig struct {
	// CorpusDir is the base directory for the corpus (contains papers/, index/).
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`
}

// EngineDefaults fills zero-valued EngineConfig fields with defaults.
func EngineDefaults(cfg EngineConfig) EngineConfig {
	if cfg.MaxPapers <= 0 {
		cfg.MaxPapers = 10000
	}
	if cfg.ScoringWindow <= 0 {
		cfg.ScoringWindow = 500
	}
	if cfg.Not == "" {
		cfg.Not = NotComplement
	}
	if cfg.Parser.MaxTokens <= 0 {
		cfg.Parser.MaxTokens = 50
	}
	if cfg.Parser.MaxWildcardLength <= 0 {
		cfg.Parser.MaxWildcardLength = 30
	}
	if cfg.Parser.Implicit == "" {
		cfg.Parser.Implicit = ImplicitOR
	}
	if cfg.Cache.MaxEntries <= 0 {
		cfg.Cache.MaxEntries = 100
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}
	return cfg
}
