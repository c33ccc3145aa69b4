// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"strings"
	"time"

	"github.com/pdiddy/scholar-search/internal/dedup"
	"github.com/pdiddy/scholar-search/internal/query"
	"github.com/pdiddy/scholar-search/internal/rank"
	"github.com/pdiddy/scholar-search/pkg/types"
)

// prefixLength is the number of leading characters used by the wildcard
// acceleration index.
const prefixLength = 3

type idSet map[string]struct{}

func (s idSet) add(id string) { s[id] = struct{}{} }

func (s idSet) union(other idSet) idSet {
	out := make(idSet, len(s)+len(other))
	for id := range s {
		out.add(id)
	}
	for id := range other {
		out.add(id)
	}
	return out
}

func (s idSet) intersect(other idSet) idSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(idSet)
	for id := range small {
		if _, ok := large[id]; ok {
			out.add(id)
		}
	}
	return out
}

func (s idSet) subtract(other idSet) idSet {
	out := make(idSet)
	for id := range s {
		if _, ok := other[id]; !ok {
			out.add(id)
		}
	}
	return out
}

// IndexedPaper is a Paper plus the scoring inputs and token sets computed
// once at indexing time. Re-adding the same identifier is a no-op, so these
// values are never recomputed in place.
type IndexedPaper struct {
	types.Paper

	CitationVelocity float64
	RecencyScore     float64
	NormCitations    float64
	YearsSincePub    int

	TitleTokens    map[string]struct{}
	AbstractTokens map[string]struct{}
	AuthorTokens   map[string]struct{}
}

// hasToken reports membership across the three token sets, or within one
// field when restricted.
func (ip *IndexedPaper) hasToken(tok, field string) bool {
	switch field {
	case "title":
		_, ok := ip.TitleTokens[tok]
		return ok
	case "abstract":
		_, ok := ip.AbstractTokens[tok]
		return ok
	case "author":
		_, ok := ip.AuthorTokens[tok]
		return ok
	}
	if _, ok := ip.TitleTokens[tok]; ok {
		return true
	}
	if _, ok := ip.AbstractTokens[tok]; ok {
		return true
	}
	_, ok := ip.AuthorTokens[tok]
	return ok
}

// hasPrefix reports whether any token in the paper (optionally restricted to
// one field) starts with pre.
func (ip *IndexedPaper) hasPrefix(pre, field string) bool {
	check := func(set map[string]struct{}) bool {
		for tok := range set {
			if strings.HasPrefix(tok, pre) {
				return true
			}
		}
		return false
	}
	switch field {
	case "title":
		return check(ip.TitleTokens)
	case "abstract":
		return check(ip.AbstractTokens)
	case "author":
		return check(ip.AuthorTokens)
	}
	return check(ip.TitleTokens) || check(ip.AbstractTokens) || check(ip.AuthorTokens)
}

// invertedIndex owns the postings, the wildcard prefix index, the exact
// identifier maps, and the indexed papers. Postings are append-only for the
// life of the index; the engine replaces the whole index on reset.
type invertedIndex struct {
	titlePostings    map[string]idSet
	abstractPostings map[string]idSet
	authorPostings   map[string]idSet
	prefixes         map[string]idSet
	byDOI            map[string]string
	byArxiv          map[string]string
	papers           map[string]*IndexedPaper
}

func newInvertedIndex() *invertedIndex {
	return &invertedIndex{
		titlePostings:    make(map[string]idSet),
		abstractPostings: make(map[string]idSet),
		authorPostings:   make(map[string]idSet),
		prefixes:         make(map[string]idSet),
		byDOI:            make(map[string]string),
		byArxiv:          make(map[string]string),
		papers:           make(map[string]*IndexedPaper),
	}
}

func (x *invertedIndex) size() int { return len(x.papers) }

// addPaper indexes one paper: precomputes scoring inputs and token sets,
// registers every token in its field postings and prefix bucket, and records
// DOI/arXiv exact keys. Already-indexed identifiers are skipped.
func (x *invertedIndex) addPaper(p types.Paper, now time.Time) bool {
	if _, exists := x.papers[p.ID]; exists {
		return false
	}

	var names []string
	for _, a := range p.Authors {
		names = append(names, a.Name)
	}

	ip := &IndexedPaper{
		Paper:            p,
		CitationVelocity: rank.CitationVelocity(p, now),
		RecencyScore:     rank.RecencyScore(p, now),
		NormCitations:    rank.NormalizedCitations(p),
		YearsSincePub:    rank.YearsSince(p, now),
		TitleTokens:      toSet(query.Tokenize(p.Title)),
		AbstractTokens:   toSet(query.Tokenize(p.Abstract)),
		AuthorTokens:     toSet(query.Tokenize(strings.Join(names, " "))),
	}
	x.papers[p.ID] = ip

	x.register(x.titlePostings, ip.TitleTokens, p.ID)
	x.register(x.abstractPostings, ip.AbstractTokens, p.ID)
	x.register(x.authorPostings, ip.AuthorTokens, p.ID)

	if p.DOI != "" {
		x.byDOI[strings.ToLower(p.DOI)] = p.ID
	}
	if arxivID := dedup.ExtractArxivID(p.ID); arxivID != "" {
		x.byArxiv[arxivID] = p.ID
	} else if arxivID := dedup.ExtractArxivID(p.DOI); arxivID != "" {
		x.byArxiv[arxivID] = p.ID
	}
	return true
}

func (x *invertedIndex) register(postings map[string]idSet, tokens map[string]struct{}, id string) {
	for tok := range tokens {
		set, ok := postings[tok]
		if !ok {
			set = make(idSet)
			postings[tok] = set
		}
		set.add(id)

		pre := tok
		if len(pre) > prefixLength {
			pre = pre[:prefixLength]
		}
		pset, ok := x.prefixes[pre]
		if !ok {
			pset = make(idSet)
			x.prefixes[pre] = pset
		}
		pset.add(id)
	}
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// paperByDOI is the O(1) shortcut for doi: filtered queries.
func (x *invertedIndex) paperByDOI(doi string) (*IndexedPaper, bool) {
	id, ok := x.byDOI[strings.ToLower(doi)]
	if !ok {
		return nil, false
	}
	ip, ok := x.papers[id]
	return ip, ok
}

// paperByArxivID is the O(1) shortcut for arXiv identifier lookups.
func (x *invertedIndex) paperByArxivID(arxivID string) (*IndexedPaper, bool) {
	id, ok := x.byArxiv[arxivID]
	if !ok {
		return nil, false
	}
	ip, ok := x.papers[id]
	return ip, ok
}

// allIDs returns the full indexed universe, used for NOT complements and for
// filter-only queries.
func (x *invertedIndex) allIDs() idSet {
	all := make(idSet, len(x.papers))
	for id := range x.papers {
		all.add(id)
	}
	return all
}

// candidates evaluates the expression tree against the postings. This is the
// broad, low-precision pass: term postings are unioned per sub-token and
// wildcard terms resolve through the prefix buckets. Verification against
// per-paper token sets refines the result afterwards.
func (x *invertedIndex) candidates(n *query.ExprNode, policy types.NotPolicy) idSet {
	if n == nil {
		return make(idSet)
	}

	switch n.Kind {
	case query.NodeTerm:
		if n.Wildcard {
			return x.prefixCandidates(n.Prefix())
		}
		return x.termCandidates(n)

	case query.NodeAnd:
		// Under the restrict policy NOT never sees the whole universe;
		// it only subtracts from its positive sibling.
		if policy == types.NotRestrict {
			if n.Right != nil && n.Right.Kind == query.NodeNot {
				return x.candidates(n.Left, policy).
					subtract(x.candidates(n.Right.Left, policy))
			}
			if n.Left != nil && n.Left.Kind == query.NodeNot {
				return x.candidates(n.Right, policy).
					subtract(x.candidates(n.Left.Left, policy))
			}
		}
		return x.candidates(n.Left, policy).intersect(x.candidates(n.Right, policy))

	case query.NodeOr:
		return x.candidates(n.Left, policy).union(x.candidates(n.Right, policy))

	case query.NodeNot:
		if policy == types.NotRestrict {
			// A NOT with no positive sibling matches nothing.
			return make(idSet)
		}
		// Complement against the whole corpus. O(total papers), kept
		// acceptable by the index cap.
		return x.allIDs().subtract(x.candidates(n.Left, policy))
	}
	return make(idSet)
}

func (x *invertedIndex) termCandidates(n *query.ExprNode) idSet {
	out := make(idSet)
	for _, tok := range n.Tokens() {
		for _, postings := range x.fieldPostings(n.Field) {
			for id := range postings[tok] {
				out.add(id)
			}
		}
	}
	return out
}

func (x *invertedIndex) fieldPostings(field string) []map[string]idSet {
	switch field {
	case "title":
		return []map[string]idSet{x.titlePostings}
	case "abstract":
		return []map[string]idSet{x.abstractPostings}
	case "author":
		return []map[string]idSet{x.authorPostings}
	}
	return []map[string]idSet{x.titlePostings, x.abstractPostings, x.authorPostings}
}

func (x *invertedIndex) prefixCandidates(prefix string) idSet {
	key := prefix
	if len(key) > prefixLength {
		key = key[:prefixLength]
	}
	out := make(idSet)
	for id := range x.prefixes[key] {
		out.add(id)
	}
	return out
}

// verify authoritatively re-evaluates the expression for one paper using its
// precomputed token sets. Candidate generation over-approximates combined
// AND/NOT shapes, so this pass is the source of truth for inclusion.
func verify(n *query.ExprNode, ip *IndexedPaper) bool {
	if n == nil {
		return true
	}
	switch n.Kind {
	case query.NodeTerm:
		if n.Wildcard {
			return ip.hasPrefix(n.Prefix(), n.Field)
		}
		toks := n.Tokens()
		if len(toks) == 0 {
			return true
		}
		for _, tok := range toks {
			if !ip.hasToken(tok, n.Field) {
				return false
			}
		}
		return true
	case query.NodeAnd:
		return verify(n.Left, ip) && verify(n.Right, ip)
	case query.NodeOr:
		return verify(n.Left, ip) || verify(n.Right, ip)
	case query.NodeNot:
		return !verify(n.Left, ip)
	}
	return false
}
