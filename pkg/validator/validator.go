// Package validator implements static checks of Lispy parse trees.
//
// The checks cover mistakes that are certain to fail at run time whatever
// the bindings in scope: malformed number literals, malformed parameter
// lists, and malformed if clauses. The evaluator reports the same problems
// dynamically; Validate finds them before anything runs.
package validator

import (
	"fmt"
	"strconv"

	"github.com/thomasrohde/lispy/pkg/ast"
	"github.com/thomasrohde/lispy/pkg/diagnostics"
)

const restMarker = "&"

type validator struct {
	diags []diagnostics.Diagnostic
}

// Validate checks a parsed program and returns diagnostics.
func Validate(root *ast.Node) []diagnostics.Diagnostic {
	v := &validator{}
	ast.Walk(root, func(n *ast.Node) bool {
		switch {
		case n.HasTag("number"):
			v.validateNumber(n)
		case n.HasTag("sexpr"):
			v.validateForm(n)
		}
		return true
	})
	return v.diags
}

func (v *validator) addDiag(code, msg string, n *ast.Node, hint string) {
	span := n.Span
	v.diags = append(v.diags, diagnostics.MakeDiag(code, msg, &span, hint))
}

func (v *validator) validateNumber(n *ast.Node) {
	if _, err := strconv.ParseInt(n.Contents, 10, 64); err != nil {
		v.addDiag(diagnostics.EParse, "Invalid Number.", n, "integers are signed 64-bit")
	}
}

// elements returns the children of a list node without delimiters and
// comments.
func elements(n *ast.Node) []*ast.Node {
	var out []*ast.Node
	for _, c := range n.Children {
		if c.Tag == ast.TagChar || c.HasTag("comment") {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isSymbol(n *ast.Node, name string) bool {
	return n.HasTag("symbol") && n.Contents == name
}

func (v *validator) validateForm(n *ast.Node) {
	elems := elements(n)
	if len(elems) == 0 || !elems[0].HasTag("symbol") {
		return
	}
	args := elems[1:]

	switch elems[0].Contents {
	case "lambda":
		if len(args) >= 1 && args[0].HasTag("qexpr") {
			v.validateFormals(elements(args[0]), "lambda")
		}
	case "func":
		if len(args) >= 1 && args[0].HasTag("qexpr") {
			head := elements(args[0])
			if len(head) == 0 {
				v.addDiag(diagnostics.EEmpty, "Function 'func' passed {} for argument 0.", args[0], "")
				return
			}
			v.validateFormals(head, "func")
		}
	case "def", "=":
		if len(args) >= 1 && args[0].HasTag("qexpr") {
			syms := elements(args[0])
			if v.allSymbols(syms, elems[0].Contents) && len(syms) != len(args)-1 {
				v.addDiag(diagnostics.EArity, fmt.Sprintf(
					"Function '%s' passed incorrect number of values for symbols. Got %d, Expected %d.",
					elems[0].Contents, len(args)-1, len(syms)), n, "")
			}
		}
	case "struct":
		if len(args) == 1 && args[0].HasTag("qexpr") {
			fields := elements(args[0])
			if len(fields) == 0 {
				v.addDiag(diagnostics.EEmpty, "Function 'struct' passed {} for argument 0.", args[0], "")
				return
			}
			v.allSymbols(fields, "struct")
		}
	case "if":
		v.validateIf(args)
	}
}

func (v *validator) allSymbols(elems []*ast.Node, fn string) bool {
	ok := true
	for _, e := range elems {
		if !e.HasTag("symbol") {
			v.addDiag(diagnostics.EType, fmt.Sprintf(
				"Function '%s' cannot define non-symbol. Got %s, Expected Symbol.", fn, kindName(e)), e, "")
			ok = false
		}
	}
	return ok
}

func (v *validator) validateFormals(formals []*ast.Node, fn string) {
	if !v.allSymbols(formals, fn) {
		return
	}
	for i, f := range formals {
		if f.Contents != restMarker {
			continue
		}
		if len(formals)-i-1 != 1 {
			v.addDiag(diagnostics.ERestParam,
				"Function format invalid. Symbol '&' not followed by single symbol.", f,
				"write the rest parameter last, as in {x & xs}")
		}
		return
	}
}

func (v *validator) validateIf(clauses []*ast.Node) {
	for i, c := range clauses {
		if !c.HasTag("qexpr") {
			continue
		}
		elems := elements(c)
		if len(elems) != 2 {
			v.addDiag(diagnostics.EArity, fmt.Sprintf(
				"Function 'if' passed incorrect number of elements for clause %d. Got %d, Expected 2.",
				i, len(elems)), c, "each clause is {condition expr}")
			continue
		}
		if isSymbol(elems[0], "else") && i != len(clauses)-1 {
			v.addDiag(diagnostics.EType,
				"Function 'if' condition passed incorrect type. Got Symbol, Expected Number or S-Expression.",
				elems[0], "only the last clause may use else")
		}
	}
}

func kindName(n *ast.Node) string {
	switch n.Kind() {
	case "number":
		return "Number"
	case "string":
		return "String"
	case "symbol":
		return "Symbol"
	case "sexpr":
		return "S-Expression"
	case "qexpr":
		return "Q-Expression"
	}
	return "Unknown"
}
