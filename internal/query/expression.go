// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import "strings"

// NodeKind tags an expression tree node. The tree is a closed sum over
// TERM, AND, OR, and NOT; evaluators switch exhaustively on the kind.
type NodeKind int

const (
	// NodeTerm is a leaf carrying a term value.
	NodeTerm NodeKind = iota

	// NodeAnd intersects its two children.
	NodeAnd

	// NodeOr unions its two children.
	NodeOr

	// NodeNot negates its single child (held in Left).
	NodeNot
)

// String returns the operator name for diagnostics.
func (k NodeKind) String() string {
	switch k {
	case NodeTerm:
		return "TERM"
	case NodeAnd:
		return "AND"
	case NodeOr:
		return "OR"
	case NodeNot:
		return "NOT"
	}
	return "UNKNOWN"
}

// ExprNode is one node of a boolean query expression tree. Built once per
// query and evaluated read-only, possibly several times (candidate
// generation, then per-paper verification).
type ExprNode struct {
	Kind NodeKind

	// Value is the term text for NodeTerm leaves. Phrase terms hold the
	// whole phrase; Tokens() splits it for membership tests.
	Value string

	// Field optionally restricts a term to one indexed field
	// (title, abstract, or author).
	Field string

	// Wildcard marks a prefix term such as "neur*".
	Wildcard bool

	// Left and Right are the children for NodeAnd/NodeOr. NodeNot uses
	// Left only.
	Left  *ExprNode
	Right *ExprNode
}

// Term builds a leaf node.
func Term(value string) *ExprNode {
	return &ExprNode{Kind: NodeTerm, Value: value}
}

// Tokens returns the term value split into index tokens. Multi-word values
// (phrases) yield one token per word.
func (n *ExprNode) Tokens() []string {
	return Tokenize(n.Value)
}

// Prefix returns the literal characters before the first '*' of a wildcard
// term, lowercased.
func (n *ExprNode) Prefix() string {
	v := strings.ToLower(n.Value)
	if i := strings.IndexByte(v, '*'); i >= 0 {
		return v[:i]
	}
	return v
}

// precedence orders operators for the shunting-yard pass:
// NOT binds tightest, then AND, then OR.
func precedence(k NodeKind) int {
	switch k {
	case NodeNot:
		return 3
	case NodeAnd:
		return 2
	case NodeOr:
		return 1
	}
	return 0
}
