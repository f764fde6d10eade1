// Package template implements the pure renderer (C2): given a JSON-like
// value and a context tree, evaluate every `{{ expr }}` interpolation and
// return the same shape with tokens resolved. Templates are parsed once
// into a Node AST so repeated renders never re-lex strings, per spec.md
// §9's design note.
package template

import (
	"regexp"
	"strings"
)

// tokenPattern matches a `{{ expr }}` interpolation, tolerating
// surrounding whitespace inside the braces.
var tokenPattern = regexp.MustCompile(`\{\{\s*([^{}]*?)\s*\}\}`)

// Node is the parsed form of a raw JSON-like value: Map/List mirror the
// input shape, Leaf holds a parsed string template (or a pass-through
// scalar), and the zero Node represents a direct scalar/null value that
// needs no interpolation.
type Node struct {
	Kind     NodeKind
	Map      map[string]Node
	List     []Node
	Leaf     *Leaf
	Scalar   any // used when Kind == KindScalar
}

type NodeKind int

const (
	KindScalar NodeKind = iota
	KindMap
	KindList
	KindLeaf
)

// Leaf is a parsed string template: a sequence of literal runs and
// token expressions, in source order.
type Leaf struct {
	Parts []LeafPart
	// SingleToken holds the expression when the entire leaf is exactly
	// one token (after trimming whitespace), per the "single-token
	// scalar coercion" rule — rendering returns the resolved value
	// as-is instead of stringifying it.
	SingleToken string
	IsSingleToken bool
}

type LeafPart struct {
	Literal string
	Expr    string // non-empty for a token part
	IsToken bool
}

// Parse builds a Node from a raw JSON-like value (map[string]any,
// []any, string, float64/int, bool, nil).
func Parse(raw any) Node {
	switch v := raw.(type) {
	case map[string]any:
		m := make(map[string]Node, len(v))
		for k, val := range v {
			m[k] = Parse(val)
		}
		return Node{Kind: KindMap, Map: m}
	case []any:
		l := make([]Node, len(v))
		for i, val := range v {
			l[i] = Parse(val)
		}
		return Node{Kind: KindList, List: l}
	case string:
		leaf := parseLeaf(v)
		if leaf == nil {
			return Node{Kind: KindScalar, Scalar: v}
		}
		return Node{Kind: KindLeaf, Leaf: leaf}
	default:
		return Node{Kind: KindScalar, Scalar: v}
	}
}

// parseLeaf lexes a string for {{ }} tokens. Returns nil if the string
// contains none (a plain scalar, not even wrapped in a Leaf).
func parseLeaf(s string) *Leaf {
	matches := tokenPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return nil
	}

	trimmed := strings.TrimSpace(s)
	if single := tokenPattern.FindStringSubmatch(trimmed); single != nil && single[0] == trimmed {
		return &Leaf{SingleToken: strings.TrimSpace(single[1]), IsSingleToken: true}
	}

	var parts []LeafPart
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		exprStart, exprEnd := m[2], m[3]
		if start > last {
			parts = append(parts, LeafPart{Literal: s[last:start]})
		}
		parts = append(parts, LeafPart{Expr: strings.TrimSpace(s[exprStart:exprEnd]), IsToken: true})
		last = end
	}
	if last < len(s) {
		parts = append(parts, LeafPart{Literal: s[last:]})
	}
	return &Leaf{Parts: parts}
}
