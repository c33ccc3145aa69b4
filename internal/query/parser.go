// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query parses raw query strings into boolean expression trees with
// extracted phrases and field filters. Parsing never fails: malformed input
// degrades to an empty or near-empty ParsedQuery, with diagnostics logged.
package query

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/pdiddy/scholar-search/pkg/types"
)

// stopWords are discarded during tokenization. Phrases are kept verbatim and
// are not filtered.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "for": {}, "from": {}, "has": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {},
}

// Tokenize lowercases text, strips punctuation (preserving the wildcard
// marker '*'), splits on whitespace, and discards tokens shorter than two
// characters or in the stop-word set.
func Tokenize(text string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '*':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	var tokens []string
	for _, f := range strings.Fields(b.String()) {
		if len(f) < 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// FieldFilter is one extracted field:value restriction.
type FieldFilter struct {
	Field string
	Value string
}

// ParsedQuery is the structured form of one raw query string. Rebuilt per
// query; immutable afterwards.
type ParsedQuery struct {
	// Raw is the original query text.
	Raw string

	// Root is the boolean expression tree, or nil when no terms survived.
	Root *ExprNode

	// Filters lists extracted field:value restrictions.
	Filters []FieldFilter

	// Phrases lists extracted double-quoted phrases, verbatim.
	Phrases []string

	// Advanced reports whether operators, field prefixes, quotes, or
	// wildcards appeared. Callers use it for UI hinting only.
	Advanced bool
}

// Filter returns the value of the first filter for field, if present.
func (q ParsedQuery) Filter(field string) (string, bool) {
	for _, f := range q.Filters {
		if f.Field == field {
			return f.Value, true
		}
	}
	return "", false
}

var (
	phraseRe = regexp.MustCompile(`"([^"]*)"`)
	filterRe = regexp.MustCompile(`(?i)\b(title|author|abstract|doi|venue):(\S+)`)
)

const phrasePlaceholder = "qqphrase%dqq"

var placeholderRe = regexp.MustCompile(`^qqphrase(\d+)qq$`)

// Parser turns raw query strings into ParsedQuery values.
type Parser struct {
	cfg    types.ParserConfig
	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the diagnostic logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser returns a Parser. Zero-valued config fields take the documented
// defaults.
func NewParser(cfg types.ParserConfig, opts ...Option) *Parser {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 50
	}
	if cfg.MaxWildcardLength <= 0 {
		cfg.MaxWildcardLength = 30
	}
	if cfg.Implicit == "" {
		cfg.Implicit = types.ImplicitOR
	}
	p := &Parser{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse turns text into a ParsedQuery. It never fails; empty or malformed
// input yields an empty result.
func (p *Parser) Parse(text string) ParsedQuery {
	parsed := ParsedQuery{Raw: text}

	// Phrases first, so later passes do not re-split them.
	remaining := phraseRe.ReplaceAllStringFunc(text, func(m string) string {
		phrase := strings.TrimSpace(strings.Trim(m, `"`))
		if phrase == "" {
			return " "
		}
		parsed.Phrases = append(parsed.Phrases, phrase)
		return fmt.Sprintf(phrasePlaceholder, len(parsed.Phrases)-1)
	})

	// Field filters, removed before expression parsing.
	remaining = filterRe.ReplaceAllStringFunc(remaining, func(m string) string {
		parts := strings.SplitN(m, ":", 2)
		field := strings.ToLower(parts[0])
		value := parts[1]
		if idx := placeholderRe.FindStringSubmatch(value); idx != nil {
			value = parsed.Phrases[mustAtoi(idx[1])]
		}
		parsed.Filters = append(parsed.Filters, FieldFilter{
			Field: field,
			Value: strings.ToLower(value),
		})
		return " "
	})

	toks := p.lex(remaining, parsed.Phrases)
	if len(toks) > p.cfg.MaxTokens {
		p.logger.Warn("query truncated",
			"tokens", len(toks), "max", p.cfg.MaxTokens, "query", text)
		toks = toks[:p.cfg.MaxTokens]
	}

	parsed.Root = p.buildTree(toks)

	hasOperator := false
	for _, t := range toks {
		if t.kind != tokTerm {
			hasOperator = true
			break
		}
	}
	parsed.Advanced = hasOperator ||
		len(parsed.Filters) > 0 ||
		len(parsed.Phrases) > 0 ||
		strings.Contains(text, "*") ||
		strings.Contains(text, `"`)

	return parsed
}

func mustAtoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

type tokKind int

const (
	tokTerm tokKind = iota
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	node *ExprNode
}

// lex splits the remaining text into operator and term tokens, restoring
// phrase placeholders and flagging wildcard terms.
func (p *Parser) lex(text string, phrases []string) []token {
	var toks []token

	for _, word := range strings.Fields(text) {
		// Peel parentheses glued to words.
		for strings.HasPrefix(word, "(") {
			toks = append(toks, token{kind: tokLParen})
			word = word[1:]
		}
		var closers int
		for strings.HasSuffix(word, ")") {
			closers++
			word = word[:len(word)-1]
		}

		if word != "" {
			toks = append(toks, p.lexWord(word, phrases)...)
		}
		for ; closers > 0; closers-- {
			toks = append(toks, token{kind: tokRParen})
		}
	}
	return toks
}

func (p *Parser) lexWord(word string, phrases []string) []token {
	switch {
	case strings.EqualFold(word, "AND"):
		return []token{{kind: tokAnd}}
	case strings.EqualFold(word, "OR"):
		return []token{{kind: tokOr}}
	case strings.EqualFold(word, "NOT"):
		return []token{{kind: tokNot}}
	}

	if m := placeholderRe.FindStringSubmatch(word); m != nil {
		phrase := strings.ToLower(phrases[mustAtoi(m[1])])
		return []token{{kind: tokTerm, node: Term(phrase)}}
	}

	if strings.Contains(word, "*") {
		value := strings.ToLower(word)
		if len(value) > p.cfg.MaxWildcardLength {
			p.logger.Warn("wildcard term truncated",
				"term", value, "max", p.cfg.MaxWildcardLength)
			value = value[:p.cfg.MaxWildcardLength]
		}
		return []token{{kind: tokTerm, node: &ExprNode{
			Kind:     NodeTerm,
			Value:    value,
			Wildcard: true,
		}}}
	}

	// Plain term: normalize like index tokens. A word can split into
	// several tokens ("state-of-the-art"), each becoming its own term.
	var toks []token
	for _, t := range Tokenize(word) {
		toks = append(toks, token{kind: tokTerm, node: Term(t)})
	}
	return toks
}

// buildTree runs a shunting-yard pass over the token stream. Adjacent
// operands with no operator between them are joined by the configured
// implicit operator. Unbalanced parentheses and dangling operators degrade
// gracefully instead of failing.
func (p *Parser) buildTree(toks []token) *ExprNode {
	implicit := NodeOr
	if p.cfg.Implicit == types.ImplicitAND {
		implicit = NodeAnd
	}

	const opLParen = NodeKind(-1)

	var operands []*ExprNode
	var ops []NodeKind

	apply := func(op NodeKind) {
		switch op {
		case NodeNot:
			if len(operands) == 0 {
				return
			}
			child := operands[len(operands)-1]
			operands[len(operands)-1] = &ExprNode{Kind: NodeNot, Left: child}
		case NodeAnd, NodeOr:
			if len(operands) < 2 {
				return
			}
			right := operands[len(operands)-1]
			left := operands[len(operands)-2]
			operands = operands[:len(operands)-2]
			operands = append(operands, &ExprNode{Kind: op, Left: left, Right: right})
		}
	}

	pushOp := func(op NodeKind) {
		for len(ops) > 0 {
			top := ops[len(ops)-1]
			if top == opLParen || precedence(top) < precedence(op) {
				break
			}
			ops = ops[:len(ops)-1]
			apply(top)
		}
		ops = append(ops, op)
	}

	prevOperand := false
	for _, t := range toks {
		switch t.kind {
		case tokTerm:
			if prevOperand {
				pushOp(implicit)
			}
			operands = append(operands, t.node)
			prevOperand = true
		case tokNot:
			// "x NOT y" reads as an exclusion, so the implicit join
			// before a NOT is always AND regardless of configuration.
			if prevOperand {
				pushOp(NodeAnd)
			}
			// Unary and right-associative: never pops on arrival.
			ops = append(ops, NodeNot)
			prevOperand = false
		case tokAnd:
			pushOp(NodeAnd)
			prevOperand = false
		case tokOr:
			pushOp(NodeOr)
			prevOperand = false
		case tokLParen:
			if prevOperand {
				pushOp(implicit)
			}
			ops = append(ops, opLParen)
			prevOperand = false
		case tokRParen:
			for len(ops) > 0 && ops[len(ops)-1] != opLParen {
				op := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				apply(op)
			}
			if len(ops) > 0 {
				ops = ops[:len(ops)-1]
			}
			prevOperand = true
		}
	}

	for len(ops) > 0 {
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if op != opLParen {
			apply(op)
		}
	}

	if len(operands) == 0 {
		return nil
	}

	// Disconnected operands can remain when operators degraded; fold them
	// with the implicit operator so nothing parsed is dropped.
	root := operands[0]
	for _, n := range operands[1:] {
		root = &ExprNode{Kind: implicit, Left: root, Right: n}
	}
	return root
}
