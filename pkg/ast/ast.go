// Package ast defines the generic tagged parse tree produced by the Lispy reader.
//
// The tree mirrors a parser-combinator output: every node carries a tag string
// made of '|'-separated rule names ("expr|number|regex"), the matched text, and
// its children. Consumers classify nodes by substring tests on the tag rather
// than by Go type, so the reader can grow new node shapes without breaking them.
package ast

import "strings"

// Span represents a source location range.
type Span struct {
	File      string `json:"file"`
	StartLine int    `json:"startLine"`
	StartCol  int    `json:"startCol"`
	EndLine   int    `json:"endLine"`
	EndCol    int    `json:"endCol"`
}

// Tags emitted by the reader.
const (
	TagRoot    = ">"
	TagNumber  = "expr|number|regex"
	TagSymbol  = "expr|symbol|regex"
	TagString  = "expr|string|regex"
	TagComment = "expr|comment|regex"
	TagSexpr   = "expr|sexpr|>"
	TagQexpr   = "expr|qexpr|>"
	TagChar    = "char"
	TagRegex   = "regex"
)

// Node is a single parse tree node.
type Node struct {
	Tag      string
	Contents string
	Children []*Node
	Span     Span
}

// Kind returns the most specific rule name of the tag ("number" for
// "expr|number|regex", "root" for the root marker).
func (n *Node) Kind() string {
	if n.Tag == TagRoot {
		return "root"
	}
	parts := strings.Split(n.Tag, "|")
	if len(parts) >= 2 {
		return parts[1]
	}
	return parts[0]
}

// HasTag reports whether the node's tag contains the given rule name.
func (n *Node) HasTag(rule string) bool {
	return strings.Contains(n.Tag, rule)
}

// Add appends a child and returns the node.
func (n *Node) Add(child *Node) *Node {
	n.Children = append(n.Children, child)
	return n
}

// Walk visits n and its descendants depth-first, stopping early when fn
// returns false for a node (its children are skipped).
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
