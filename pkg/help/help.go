// Package help holds the reference text printed by lispy --help.
package help

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thomasrohde/lispy/pkg/stdlib"
)

// Version is the interpreter version shown in the REPL banner.
const Version = "0.0.0.0.7"

// TopicList is the display order of help topics.
var TopicList = []string{"syntax", "types", "builtins", "functions", "structs", "load", "trace", "diagnostics", "examples"}

// QUICKREF is the overview printed by lispy --help.
var QUICKREF = `Lispy v` + Version + ` quick reference

Usage:
  lispy                       start the REPL
  lispy FILE...               load each file in order
  lispy --check FILE...       report static diagnostics without running
  lispy --fmt [--write] FILE  pretty-print source
  lispy --trace OUT FILE...   write NDJSON trace events to OUT
  lispy --summary [--text] T  summarize the trace file T
  lispy --help [TOPIC]        show this text or a topic

Forms:
  (f a b)      S-expression: evaluate every element, apply the first
  {a b}        Q-expression: quoted list, evaluates to itself
  ; comment    ignored to the end of the line

Topics: ` + strings.Join(TopicList, ", ") + `
`

// Topics maps a topic name to its text.
var Topics = map[string]string{
	"syntax": `Syntax

  42  -7            integers (signed 64-bit)
  "text\n"          strings with \" \\ \n \r \t escapes
  'word             bare string: quote followed by word characters and '-'
  name  +  eq?      symbols: letters, digits and _ + - * / \ = < > ! & ?
  (f x y)           S-expression
  {x y}             Q-expression
  ; note            comment
`,

	"types": `Types

  Number        integer; 0 is false, anything else is true
  String        text
  Symbol        a name, looked up when evaluated
  S-Expression  (...), evaluated as a call
  Q-Expression  {...}, a list that is never evaluated implicitly
  Function      a builtin or a lambda
  Error         produced by failing operations; printed as "Error: ..."
  Structure     a struct definition
  Instance      a value made from a structure
`,

	"builtins": StdlibIndex(),

	"functions": `Functions

  (lambda {x y} {+ x y})        anonymous function
  (def {add} (lambda {a b} {+ a b}))
  (func {add a b} {+ a b})      shorthand for the definition above
  (add 1)                       partial application returns a function
  (func {pack & xs} {xs})       & collects remaining arguments as {...}

  def binds in the global scope; = rebinds the nearest existing binding,
  or binds in the current scope.
`,

	"structs": `Structs

  (struct {point x y})          define struct point with fields x and y
  (make point {p 3 4})          bind p to a new point
  (get {p x})                   read field x of p
`,

	"load": `Load

  (load "lib.lspy")             evaluate every form of a file

  Forms that evaluate to an error are printed and the rest of the file
  still runs. load itself fails only when the file cannot be read or
  parsed. Files named on the command line are loaded the same way.
`,

	"trace": `Trace

  lispy --trace out.ndjson prog.lspy

  Writes one JSON object per line. Events: run_start, run_end,
  form_start, form_end, call_start, call_end, load_start, load_end, error.
  Each carries ts, runId, event and optional span and data fields.
`,

	"diagnostics": `Diagnostics

  E_LEX           invalid character or string literal
  E_PARSE         unbalanced or unexpected delimiter, invalid number
  E_IO            file could not be read
  E_UNBOUND       symbol has no binding
  E_TYPE          argument of the wrong type
  E_ARITY         wrong number of arguments or elements
  E_EMPTY         {} passed where a non-empty list is needed
  E_DIV_ZERO      division by zero
  E_STRUCT_FIELD  struct has no such field
  E_REST_PARAM    & not followed by exactly one symbol
  E_USER          raised with (error "...")
`,

	"examples": `Examples

  (func {fact n} {if {(<= n 1) 1} {else (* n (fact (- n 1)))}})
  (fact 10)                              ; 3628800

  (func {map f l} {if {(empty? l) {}} {else (cons (f (first l)) (map f (rest l)))}})
  (map (lambda {x} {* x x}) {1 2 3})     ; {1 4 9}

  (join (rest {1 2 3}) (list (first {1 2 3})))   ; {2 3 1}
`,
}

// MatchTopic resolves a topic by exact name or unique prefix.
func MatchTopic(query string) (string, string, error) {
	if content, ok := Topics[query]; ok {
		return query, content, nil
	}
	var matches []string
	for _, name := range TopicList {
		if strings.HasPrefix(name, query) {
			matches = append(matches, name)
		}
	}
	switch len(matches) {
	case 0:
		return "", "", fmt.Errorf("unknown help topic %q (topics: %s)", query, strings.Join(TopicList, ", "))
	case 1:
		return matches[0], Topics[matches[0]], nil
	default:
		return "", "", fmt.Errorf("ambiguous help topic %q matches %s", query, strings.Join(matches, ", "))
	}
}

var categories = []struct {
	name  string
	names []string
}{
	{"lists", []string{"list", "first", "rest", "last", "eval", "join", "cons", "length", "empty?"}},
	{"arithmetic", []string{"+", "-", "*", "/"}},
	{"comparison", []string{"eq?", "!=", ">", "<", ">=", "<="}},
	{"logic", []string{"and", "or", "not"}},
	{"predicates", []string{"integer?", "int", "qexpr?", "string?", "zero?"}},
	{"definition", []string{"if", "lambda", "def", "="}},
	{"structs", []string{"struct", "make", "get"}},
	{"io", []string{"print", "error", "load"}},
}

// StdlibIndex lists the default builtins by category.
func StdlibIndex() string {
	registered := stdlib.Defaults().Names()
	known := map[string]bool{}

	var b strings.Builder
	b.WriteString("Builtins\n\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "  %-12s %s\n", c.name, strings.Join(c.names, " "))
		for _, n := range c.names {
			known[n] = true
		}
	}

	var other []string
	for _, n := range registered {
		if !known[n] {
			other = append(other, n)
		}
	}
	if len(other) > 0 {
		sort.Strings(other)
		fmt.Fprintf(&b, "  %-12s %s\n", "other", strings.Join(other, " "))
	}
	fmt.Fprintf(&b, "\n  func and empty are defined at startup.\n\nTotal: %d functions\n", len(registered))
	return b.String()
}
