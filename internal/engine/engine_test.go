// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"testing"
	"time"

	"github.com/pdiddy/scholar-search/pkg/types"
)

var engineNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, cfg types.EngineConfig) *Engine {
	t.Helper()
	return New(cfg, WithClock(func() time.Time { return engineNow }))
}

func resultIDs(papers []types.Paper) []string {
	ids := make([]string, len(papers))
	for i, p := range papers {
		ids[i] = p.ID
	}
	return ids
}

func TestSearchBooleanExclusion(t *testing.T) {
	e := newTestEngine(t, types.EngineConfig{})
	e.IndexPapers(indexTestPapers())

	papers, stats := e.Search("neural AND NOT survey", types.SortRelevance)

	got := resultIDs(papers)
	// p1 outranks the newer but barely-cited robustness paper on the
	// blended score.
	want := []string{"p1", "2301.07041"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("results = %v, want %v", got, want)
	}
	if stats.CacheHit {
		t.Error("first search should miss the cache")
	}
	if stats.ScoredPapers != 2 {
		t.Errorf("ScoredPapers = %d, want 2", stats.ScoredPapers)
	}
	if stats.FilteredCandidates != 2 {
		t.Errorf("FilteredCandidates = %d, want 2", stats.FilteredCandidates)
	}
}

func TestSearchCacheHit(t *testing.T) {
	e := newTestEngine(t, types.EngineConfig{})
	e.IndexPapers(indexTestPapers())

	first, _ := e.Search("neural AND NOT survey", types.SortRelevance)
	second, stats := e.Search("Neural  AND NOT  Survey", types.SortRelevance)

	if !stats.CacheHit {
		t.Fatal("normalized repeat query should hit the cache")
	}
	if stats.ScoredPapers != 0 {
		t.Errorf("ScoredPapers = %d, want 0 on a cache hit", stats.ScoredPapers)
	}
	firstIDs, secondIDs := resultIDs(first), resultIDs(second)
	if len(firstIDs) != len(secondIDs) {
		t.Fatalf("cached results differ: %v vs %v", firstIDs, secondIDs)
	}
	for i := range firstIDs {
		if firstIDs[i] != secondIDs[i] {
			t.Errorf("cached order differs at %d: %v vs %v", i, firstIDs, secondIDs)
		}
	}

	cs := e.CacheStats()
	if cs.Hits != 1 {
		t.Errorf("cache hits = %d, want 1", cs.Hits)
	}
}

func TestSearchSortStrategies(t *testing.T) {
	e := newTestEngine(t, types.EngineConfig{})
	e.IndexPapers(indexTestPapers())

	recent, _ := e.Search("neural", types.SortRecent)
	if ids := resultIDs(recent); len(ids) != 2 || ids[0] != "2301.07041" {
		t.Errorf("recent order = %v, want newest first", ids)
	}

	cited, _ := e.Search("neural", types.SortCitations)
	if ids := resultIDs(cited); len(ids) != 2 || ids[0] != "p1" {
		t.Errorf("citations order = %v, want most-cited first", ids)
	}

	velocity, _ := e.Search("neural", types.SortVelocity)
	if ids := resultIDs(velocity); len(ids) != 2 || ids[0] != "p1" {
		t.Errorf("velocity order = %v, want fastest-citing first", ids)
	}
}

func TestSearchUnknownSortFallsBack(t *testing.T) {
	e := newTestEngine(t, types.EngineConfig{})
	e.IndexPapers(indexTestPapers())

	papers, stats := e.Search("neural", types.SortStrategy("bogus"))
	if len(papers) != 2 {
		t.Errorf("results = %v, want 2 papers under relevance fallback", resultIDs(papers))
	}
	if stats.CacheHit {
		t.Error("fallback search should not report a cache hit")
	}

	// The fallback shares the relevance cache slot.
	_, stats = e.Search("neural", types.SortRelevance)
	if !stats.CacheHit {
		t.Error("relevance repeat should hit the entry cached by the fallback")
	}
}

func TestSearchDOIFilter(t *testing.T) {
	e := newTestEngine(t, types.EngineConfig{})
	e.IndexPapers(indexTestPapers())

	papers, stats := e.Search("doi:10.1111/NN", types.SortRelevance)
	if len(papers) != 1 || papers[0].ID != "p1" {
		t.Fatalf("results = %v, want exactly p1", resultIDs(papers))
	}
	if stats.TotalCandidates != 1 || stats.ScoredPapers != 1 {
		t.Errorf("stats = %+v, want single-candidate path", stats)
	}

	papers, _ = e.Search("doi:10.9999/none", types.SortRelevance)
	if len(papers) != 0 {
		t.Errorf("unknown DOI results = %v, want empty", resultIDs(papers))
	}
}

func TestSearchFieldFilters(t *testing.T) {
	e := newTestEngine(t, types.EngineConfig{})
	e.IndexPapers(indexTestPapers())

	papers, _ := e.Search("title:robustness neural", types.SortRelevance)
	if ids := resultIDs(papers); len(ids) != 1 || ids[0] != "2301.07041" {
		t.Errorf("results = %v, want only the robustness paper", ids)
	}

	// Filter-only query scans the whole corpus.
	papers, stats := e.Search("author:hinton", types.SortRelevance)
	if ids := resultIDs(papers); len(ids) != 1 || ids[0] != "p1" {
		t.Errorf("results = %v, want only Hinton's paper", ids)
	}
	if stats.TotalCandidates != 3 {
		t.Errorf("TotalCandidates = %d, want full corpus for filter-only query", stats.TotalCandidates)
	}
}

func TestSearchPhrase(t *testing.T) {
	e := newTestEngine(t, types.EngineConfig{})
	e.IndexPapers(indexTestPapers())

	papers, _ := e.Search(`"deep learning"`, types.SortRelevance)
	if ids := resultIDs(papers); len(ids) != 1 || ids[0] != "p2" {
		t.Errorf("results = %v, want only the survey", ids)
	}
}

func TestSearchImplicitOperator(t *testing.T) {
	e := newTestEngine(t, types.EngineConfig{})
	e.IndexPapers(indexTestPapers())

	// Default implicit OR: either term matches.
	papers, _ := e.Search("neural survey", types.SortRelevance)
	if len(papers) != 3 {
		t.Errorf("implicit OR results = %v, want all three", resultIDs(papers))
	}

	// Configured implicit AND: no paper has both terms.
	and := newTestEngine(t, types.EngineConfig{
		Parser: types.ParserConfig{Implicit: types.ImplicitAND},
	})
	and.IndexPapers(indexTestPapers())
	papers, _ = and.Search("neural survey", types.SortRelevance)
	if len(papers) != 0 {
		t.Errorf("implicit AND results = %v, want empty", resultIDs(papers))
	}
}

func TestSearchNotRestrictPolicy(t *testing.T) {
	e := newTestEngine(t, types.EngineConfig{Not: types.NotRestrict})
	e.IndexPapers(indexTestPapers())

	// Candidate generation yields nothing for a bare NOT under restrict,
	// so no paper survives even though verification would accept some.
	papers, _ := e.Search("NOT survey", types.SortRelevance)
	if len(papers) != 0 {
		t.Errorf("bare NOT under restrict = %v, want empty", resultIDs(papers))
	}

	papers, _ = e.Search("neural AND NOT survey", types.SortRelevance)
	if len(papers) != 2 {
		t.Errorf("restricted exclusion = %v, want both neural papers", resultIDs(papers))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	e := newTestEngine(t, types.EngineConfig{})
	e.IndexPapers(indexTestPapers())

	papers, stats := e.Search("", types.SortRelevance)
	if len(papers) != 0 {
		t.Errorf("results = %v, want empty", resultIDs(papers))
	}
	if stats.TotalCandidates != 0 {
		t.Errorf("TotalCandidates = %d, want 0", stats.TotalCandidates)
	}
}

func TestScoringWindowLimitsScoring(t *testing.T) {
	e := newTestEngine(t, types.EngineConfig{ScoringWindow: 1})
	e.IndexPapers(indexTestPapers())

	papers, stats := e.Search("neural", types.SortRelevance)
	if ids := resultIDs(papers); len(ids) != 1 || ids[0] != "p1" {
		t.Errorf("results = %v, want only the highest-velocity paper", ids)
	}
	if stats.FilteredCandidates != 2 {
		t.Errorf("FilteredCandidates = %d, want 2 before windowing", stats.FilteredCandidates)
	}
	if stats.ScoredPapers != 1 {
		t.Errorf("ScoredPapers = %d, want 1 after windowing", stats.ScoredPapers)
	}
}

func TestIndexCapColdReset(t *testing.T) {
	e := newTestEngine(t, types.EngineConfig{MaxPapers: 2})
	base := indexTestPapers()

	if added := e.IndexPapers(base[:2]); added != 2 {
		t.Fatalf("added = %d, want 2", added)
	}
	e.Search("neural", types.SortRelevance)

	// Two more papers exceed the cap: the index rebuilds from this batch
	// alone and the cache is dropped with it.
	extra := []types.Paper{
		base[2],
		{ID: "p4", Title: "Neural Architecture Search", Date: engineNow, CitationCount: 1},
	}
	if added := e.IndexPapers(extra); added != 2 {
		t.Fatalf("added = %d, want 2 after reset", added)
	}
	if e.PaperCount() != 2 {
		t.Errorf("PaperCount = %d, want 2", e.PaperCount())
	}
	if _, ok := e.Paper("p1"); ok {
		t.Error("pre-reset paper should be gone")
	}

	papers, stats := e.Search("neural", types.SortRelevance)
	if stats.CacheHit {
		t.Error("cache should have been dropped with the index")
	}
	got := resultIDs(papers)
	if len(got) != 2 {
		t.Errorf("results = %v, want the two rebuilt papers", got)
	}
}

func TestIndexPapersSkipsDuplicates(t *testing.T) {
	e := newTestEngine(t, types.EngineConfig{})
	e.IndexPapers(indexTestPapers())

	if added := e.IndexPapers(indexTestPapers()); added != 0 {
		t.Errorf("re-indexing added %d papers, want 0", added)
	}
	if e.PaperCount() != 3 {
		t.Errorf("PaperCount = %d, want 3", e.PaperCount())
	}
}

func TestPaperLookups(t *testing.T) {
	e := newTestEngine(t, types.EngineConfig{})
	e.IndexPapers(indexTestPapers())

	if p, ok := e.PaperByDOI("10.1111/nn"); !ok || p.ID != "p1" {
		t.Errorf("PaperByDOI = %v, %v; want p1", p.ID, ok)
	}
	if p, ok := e.PaperByArxivID("2301.07041"); !ok || p.ID != "2301.07041" {
		t.Errorf("PaperByArxivID = %v, %v; want the arXiv paper", p.ID, ok)
	}
	if _, ok := e.Paper("missing"); ok {
		t.Error("unknown identifier should miss")
	}
}

func TestTextScorePhraseBonus(t *testing.T) {
	e := newTestEngine(t, types.EngineConfig{})
	e.IndexPapers(indexTestPapers())

	parsed := e.parser.Parse(`"deep learning"`)
	terms := collectPositiveTerms(parsed.Root)

	survey := e.idx.papers["p2"]
	score := e.textScore(terms, parsed.Phrases, survey)

	// Both tokens hit the title, only "learning" hits the abstract, and
	// the contiguous phrase appears in the title alone:
	// 2*15 + 1*5 + 20 = 55.
	if score != 55 {
		t.Errorf("textScore = %v, want 55", score)
	}
}
