package evaluator

import (
	"strconv"
	"strings"

	"github.com/thomasrohde/lispy/pkg/ast"
	"github.com/thomasrohde/lispy/pkg/diagnostics"
)

// Read converts a parse tree node into the expression value it denotes.
// The root node and S-expression nodes become *SExpr, Q-expression nodes
// become *QExpr. Delimiters, anchors and comments are dropped.
func Read(n *ast.Node) Value {
	switch {
	case n.HasTag("number"):
		return readNumber(n)
	case n.HasTag("string"):
		return readString(n)
	case n.HasTag("symbol"):
		return Symbol{Name: n.Contents}
	}

	var cells []Value
	for _, c := range n.Children {
		if skipNode(c) {
			continue
		}
		cells = append(cells, Read(c))
	}

	switch {
	case n.Tag == ast.TagRoot, n.HasTag("sexpr"):
		return &SExpr{Cells: cells}
	case n.HasTag("qexpr"):
		return &QExpr{Cells: cells}
	}
	return Errorf(diagnostics.EParse, "Unknown expression '%s'", n.Tag)
}

// Form is a top-level form together with its source location.
type Form struct {
	Value Value
	Span  ast.Span
}

// ReadProgram reads the top-level forms of a parsed source file.
func ReadProgram(root *ast.Node) []Form {
	var forms []Form
	for _, c := range root.Children {
		if skipNode(c) {
			continue
		}
		forms = append(forms, Form{Value: Read(c), Span: c.Span})
	}
	return forms
}

// ReadForms is ReadProgram without the locations.
func ReadForms(root *ast.Node) []Value {
	forms := ReadProgram(root)
	out := make([]Value, len(forms))
	for i, f := range forms {
		out[i] = f.Value
	}
	return out
}

func skipNode(n *ast.Node) bool {
	switch n.Contents {
	case "(", ")", "{", "}":
		return true
	}
	return n.Tag == ast.TagRegex || n.HasTag("comment")
}

func readNumber(n *ast.Node) Value {
	x, err := strconv.ParseInt(n.Contents, 10, 64)
	if err != nil {
		return NewError(diagnostics.EParse, "Invalid Number.")
	}
	return Number{Value: x}
}

func readString(n *ast.Node) Value {
	raw := n.Contents
	if strings.HasPrefix(raw, `"`) {
		s, err := strconv.Unquote(raw)
		if err != nil {
			return Errorf(diagnostics.EParse, "Invalid String %s.", raw)
		}
		return String{Value: s}
	}
	return String{Value: strings.TrimPrefix(raw, "'")}
}
