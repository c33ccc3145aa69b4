// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine implements the in-memory search engine: an inverted index
// over deduplicated paper records, boolean candidate retrieval with
// per-paper verification, multi-factor scoring, and a bounded TTL+LRU query
// cache.
//
// An Engine is an explicit instance owned by its caller; there is no
// package-level singleton. All public operations run under one mutex, so a
// single Engine is safe for concurrent callers. Callers needing parallel
// throughput construct isolated instances instead.
package engine

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/scholar-search/internal/query"
	"github.com/pdiddy/scholar-search/internal/rank"
	"github.com/pdiddy/scholar-search/pkg/types"
)

// Text-match weights. Hits are field-aware: title matches carry the most
// weight, author matches sit between title and abstract.
const (
	titleHitWeight      = 15.0
	abstractHitWeight   = 5.0
	authorHitWeight     = 10.0
	phraseTitleBonus    = 20.0
	phraseAbstractBonus = 10.0
	maxTextScore        = 100.0
)

// Engine owns the inverted index and the query cache.
type Engine struct {
	mu      sync.Mutex
	cfg     types.EngineConfig
	logger  *slog.Logger
	parser  *query.Parser
	profile rank.WeightProfile
	idx     *invertedIndex
	cache   *queryCache
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the diagnostic logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source, fixing scoring inputs in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New constructs an Engine. Zero-valued config fields take the documented
// defaults.
func New(cfg types.EngineConfig, opts ...Option) *Engine {
	cfg = types.EngineDefaults(cfg)
	e := &Engine{
		cfg:     cfg,
		logger:  slog.Default(),
		profile: rank.ProfileByName(cfg.Profile),
		idx:     newInvertedIndex(),
		cache:   newQueryCache(cfg.Cache),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.parser = query.NewParser(cfg.Parser, query.WithLogger(e.logger))
	return e
}

// IndexPapers ingests a batch of deduplicated papers. Already-indexed
// identifiers are skipped. When the batch would push the index past the hard
// cap, the whole index and cache are discarded and rebuilt from the new
// batch alone: a cold reset traded for simplicity over perfect recall.
// Returns the number of papers newly indexed.
func (e *Engine) IndexPapers(papers []types.Paper) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	newCount := 0
	for _, p := range papers {
		if _, exists := e.idx.papers[p.ID]; !exists {
			newCount++
		}
	}

	if e.idx.size()+newCount > e.cfg.MaxPapers {
		e.logger.Warn("index cap exceeded, rebuilding from new batch",
			"indexed", e.idx.size(), "incoming", newCount, "cap", e.cfg.MaxPapers)
		e.idx = newInvertedIndex()
		e.cache.reset()
	}

	now := e.now()
	added := 0
	for _, p := range papers {
		if e.idx.addPaper(p, now) {
			added++
		}
	}
	return added
}

// PaperCount returns the number of indexed papers.
func (e *Engine) PaperCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.idx.size()
}

// Paper returns an indexed paper by identifier.
func (e *Engine) Paper(id string) (types.Paper, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ip, ok := e.idx.papers[id]
	if !ok {
		return types.Paper{}, false
	}
	return ip.Paper, true
}

// PaperByDOI returns an indexed paper by DOI in O(1).
func (e *Engine) PaperByDOI(doi string) (types.Paper, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ip, ok := e.idx.paperByDOI(doi)
	if !ok {
		return types.Paper{}, false
	}
	return ip.Paper, true
}

// PaperByArxivID returns an indexed paper by arXiv identifier in O(1).
func (e *Engine) PaperByArxivID(arxivID string) (types.Paper, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ip, ok := e.idx.paperByArxivID(arxivID)
	if !ok {
		return types.Paper{}, false
	}
	return ip.Paper, true
}

// CacheStats returns query cache counters for observability consumers.
func (e *Engine) CacheStats() types.CacheStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cache.stats()
}

// Search parses the query, retrieves and verifies candidates, scores the
// velocity-windowed survivors, and returns them ordered by the requested
// strategy together with execution statistics. Malformed queries degrade to
// empty results; Search never fails.
func (e *Engine) Search(text string, sortBy types.SortStrategy) ([]types.Paper, types.SearchStats) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	if !types.ValidSortStrategy(sortBy) {
		e.logger.Debug("unknown sort strategy, using relevance", "sort", string(sortBy))
		sortBy = types.SortRelevance
	}

	key := cacheKey(text, sortBy)
	now := e.now()

	// Cache path: re-materialize by identifier and re-sort. Sorting is
	// cheap, so only the identifier order is cached.
	if ids, ok := e.cache.get(key, now); ok {
		papers := e.materialize(ids)
		resortCached(papers, sortBy)
		return papers, types.SearchStats{
			TotalCandidates:    len(ids),
			FilteredCandidates: len(papers),
			ScoredPapers:       0,
			ExecutionTimeMs:    time.Since(start).Milliseconds(),
			CacheHit:           true,
		}
	}

	parsed := e.parser.Parse(text)

	// DOI filter: exact single result, bypassing candidate generation.
	if doi, ok := parsed.Filter("doi"); ok {
		return e.searchByDOI(doi, key, start, now)
	}

	candSet := e.idx.candidates(parsed.Root, e.cfg.Not)
	if parsed.Root == nil {
		if len(parsed.Filters) == 0 {
			return nil, types.SearchStats{ExecutionTimeMs: time.Since(start).Milliseconds()}
		}
		// Filter-only query: verify every indexed paper against the
		// filters. Linear in the corpus, bounded by the index cap.
		candSet = e.idx.allIDs()
	}
	totalCandidates := len(candSet)

	// Verification pass: the authoritative per-paper re-evaluation.
	var verified []*IndexedPaper
	for id := range candSet {
		ip, ok := e.idx.papers[id]
		if !ok {
			continue
		}
		if verify(parsed.Root, ip) && matchFilters(parsed.Filters, ip) {
			verified = append(verified, ip)
		}
	}
	filteredCandidates := len(verified)

	// Windowing: keep the top papers by precomputed citation velocity
	// before full scoring. Verified papers below the window are dropped
	// regardless of topical relevance.
	sort.Slice(verified, func(i, j int) bool {
		if verified[i].CitationVelocity != verified[j].CitationVelocity {
			return verified[i].CitationVelocity > verified[j].CitationVelocity
		}
		return verified[i].ID < verified[j].ID
	})
	if len(verified) > e.cfg.ScoringWindow {
		verified = verified[:e.cfg.ScoringWindow]
	}

	terms := collectPositiveTerms(parsed.Root)
	scored := make([]scoredPaper, 0, len(verified))
	for _, ip := range verified {
		ts := e.textScore(terms, parsed.Phrases, ip)
		scored = append(scored, scoredPaper{
			paper:    ip.Paper,
			velocity: ip.CitationVelocity,
			final:    rank.Blend(ts, ip.CitationVelocity, ip.RecencyScore, ip.NormCitations, e.profile),
		})
	}

	sortScored(scored, sortBy)

	papers := make([]types.Paper, len(scored))
	ids := make([]string, len(scored))
	for i, s := range scored {
		papers[i] = s.paper
		ids[i] = s.paper.ID
	}
	e.cache.put(key, ids, now)

	return papers, types.SearchStats{
		TotalCandidates:    totalCandidates,
		FilteredCandidates: filteredCandidates,
		ScoredPapers:       len(scored),
		ExecutionTimeMs:    time.Since(start).Milliseconds(),
		CacheHit:           false,
	}
}

func (e *Engine) searchByDOI(doi, key string, start, now time.Time) ([]types.Paper, types.SearchStats) {
	ip, ok := e.idx.paperByDOI(doi)
	if !ok {
		return nil, types.SearchStats{ExecutionTimeMs: time.Since(start).Milliseconds()}
	}
	e.cache.put(key, []string{ip.ID}, now)
	return []types.Paper{ip.Paper}, types.SearchStats{
		TotalCandidates:    1,
		FilteredCandidates: 1,
		ScoredPapers:       1,
		ExecutionTimeMs:    time.Since(start).Milliseconds(),
	}
}

// materialize resolves cached identifiers to papers, silently dropping any
// that vanished in an index rebuild.
func (e *Engine) materialize(ids []string) []types.Paper {
	papers := make([]types.Paper, 0, len(ids))
	for _, id := range ids {
		if ip, ok := e.idx.papers[id]; ok {
			papers = append(papers, ip.Paper)
		}
	}
	return papers
}

// matchFilters applies non-DOI field filters as substring tests on the
// paper's own fields.
func matchFilters(filters []query.FieldFilter, ip *IndexedPaper) bool {
	for _, f := range filters {
		value := strings.ToLower(f.Value)
		switch f.Field {
		case "title":
			if !strings.Contains(strings.ToLower(ip.Title), value) {
				return false
			}
		case "abstract":
			if !strings.Contains(strings.ToLower(ip.Abstract), value) {
				return false
			}
		case "venue":
			if !strings.Contains(strings.ToLower(ip.Venue), value) {
				return false
			}
		case "author":
			matched := false
			for _, a := range ip.Authors {
				if strings.Contains(strings.ToLower(a.Name), value) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}
	return true
}

// collectPositiveTerms gathers TERM leaves outside NOT subtrees; negated
// terms contribute to exclusion, never to the text score.
func collectPositiveTerms(n *query.ExprNode) []*query.ExprNode {
	var terms []*query.ExprNode
	var walk func(n *query.ExprNode)
	walk = func(n *query.ExprNode) {
		if n == nil {
			return
		}
		switch n.Kind {
		case query.NodeTerm:
			terms = append(terms, n)
		case query.NodeAnd, query.NodeOr:
			walk(n.Left)
			walk(n.Right)
		case query.NodeNot:
			// skip
		}
	}
	walk(n)
	return terms
}

// textScore computes the field-aware 0–100 textual match score.
func (e *Engine) textScore(terms []*query.ExprNode, phrases []string, ip *IndexedPaper) float64 {
	score := 0.0

	for _, term := range terms {
		if term.Wildcard {
			pre := term.Prefix()
			if ip.hasPrefix(pre, "title") {
				score += titleHitWeight
			}
			if ip.hasPrefix(pre, "abstract") {
				score += abstractHitWeight
			}
			if ip.hasPrefix(pre, "author") {
				score += authorHitWeight
			}
			continue
		}
		for _, tok := range term.Tokens() {
			if ip.hasToken(tok, "title") {
				score += titleHitWeight
			}
			if ip.hasToken(tok, "abstract") {
				score += abstractHitWeight
			}
			if ip.hasToken(tok, "author") {
				score += authorHitWeight
			}
		}
	}

	title := strings.ToLower(ip.Title)
	abstract := strings.ToLower(ip.Abstract)
	for _, phrase := range phrases {
		p := strings.ToLower(phrase)
		if strings.Contains(title, p) {
			score += phraseTitleBonus
		}
		if strings.Contains(abstract, p) {
			score += phraseAbstractBonus
		}
	}

	if score > maxTextScore {
		score = maxTextScore
	}
	return score
}

type scoredPaper struct {
	paper    types.Paper
	velocity float64
	final    float64
}

// sortScored orders results per the caller's strategy. Identifier breaks
// every tie so orderings are deterministic.
func sortScored(scored []scoredPaper, sortBy types.SortStrategy) {
	less := func(i, j int) bool { return scored[i].paper.ID < scored[j].paper.ID }
	switch sortBy {
	case types.SortRecent:
		less = func(i, j int) bool {
			if !scored[i].paper.Date.Equal(scored[j].paper.Date) {
				return scored[i].paper.Date.After(scored[j].paper.Date)
			}
			return scored[i].paper.ID < scored[j].paper.ID
		}
	case types.SortCitations:
		less = func(i, j int) bool {
			if scored[i].paper.CitationCount != scored[j].paper.CitationCount {
				return scored[i].paper.CitationCount > scored[j].paper.CitationCount
			}
			return scored[i].paper.ID < scored[j].paper.ID
		}
	case types.SortVelocity:
		less = func(i, j int) bool {
			if scored[i].velocity != scored[j].velocity {
				return scored[i].velocity > scored[j].velocity
			}
			return scored[i].paper.ID < scored[j].paper.ID
		}
	case types.SortRelevance:
		less = func(i, j int) bool {
			if scored[i].final != scored[j].final {
				return scored[i].final > scored[j].final
			}
			return scored[i].paper.ID < scored[j].paper.ID
		}
	}
	sort.Slice(scored, less)
}

// resortCached re-applies the requested ordering to cache-materialized
// papers. The cache key includes the strategy, so the stored order already
// matches; relevance and velocity keep it, date and citation orders are
// re-derived in case papers changed across an index rebuild.
func resortCached(papers []types.Paper, sortBy types.SortStrategy) {
	switch sortBy {
	case types.SortRecent:
		sort.Slice(papers, func(i, j int) bool {
			if !papers[i].Date.Equal(papers[j].Date) {
				return papers[i].Date.After(papers[j].Date)
			}
			return papers[i].ID < papers[j].ID
		})
	case types.SortCitations:
		sort.Slice(papers, func(i, j int) bool {
			if papers[i].CitationCount != papers[j].CitationCount {
				return papers[i].CitationCount > papers[j].CitationCount
			}
			return papers[i].ID < papers[j].ID
		})
	}
}
