// Package formatter renders Lispy values for display and pretty-prints
// Lispy source from its parse tree.
package formatter

import (
	"strconv"
	"strings"

	"github.com/thomasrohde/lispy/pkg/ast"
	"github.com/thomasrohde/lispy/pkg/evaluator"
)

const indent = "  "

// maxInline is the widest list FormatSource keeps on one line.
const maxInline = 80

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// Format renders a value the way the REPL prints it.
func Format(v evaluator.Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

// FormatAll renders values separated by single spaces.
func FormatAll(vs []evaluator.Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = Format(v)
	}
	return strings.Join(parts, " ")
}

// Quote renders s as a double-quoted literal the reader accepts.
func Quote(s string) string {
	return `"` + escaper.Replace(s) + `"`
}

func writeValue(b *strings.Builder, v evaluator.Value) {
	switch val := v.(type) {
	case evaluator.Number:
		b.WriteString(strconv.FormatInt(val.Value, 10))
	case evaluator.Error:
		b.WriteString("Error: ")
		b.WriteString(val.Message)
	case evaluator.Symbol:
		b.WriteString(val.Name)
	case evaluator.String:
		b.WriteString(Quote(val.Value))
	case *evaluator.SExpr:
		writeCells(b, '(', ')', val.Cells)
	case *evaluator.QExpr:
		writeCells(b, '{', '}', val.Cells)
	case *evaluator.Builtin:
		b.WriteString("<builtin>")
	case *evaluator.Lambda:
		b.WriteString("(lambda {")
		for i, f := range val.Formals {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(f.Name)
		}
		b.WriteString("} ")
		writeCells(b, '{', '}', val.Body.Cells)
		b.WriteByte(')')
	case *evaluator.StructDef:
		b.WriteString("<struct>")
	case *evaluator.Instance:
		b.WriteString("<instance>")
	default:
		b.WriteString("<unknown>")
	}
}

func writeCells(b *strings.Builder, open, close byte, cells []evaluator.Value) {
	b.WriteByte(open)
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeValue(b, c)
	}
	b.WriteByte(close)
}

// FormatSource pretty-prints a parsed source file. Each top-level form goes
// on its own line. Lists that contain comments, or that would not fit in
// maxInline columns, are broken one element per line.
func FormatSource(root *ast.Node) string {
	var lines []string
	for _, c := range root.Children {
		if c.Tag == ast.TagRegex {
			continue
		}
		lines = append(lines, formatNode(c, 0))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func formatNode(n *ast.Node, level int) string {
	if !n.HasTag("sexpr") && !n.HasTag("qexpr") {
		return n.Contents
	}

	open, close := "(", ")"
	if n.HasTag("qexpr") {
		open, close = "{", "}"
	}

	var elems []*ast.Node
	multiline := false
	for _, c := range n.Children {
		if c.Tag == ast.TagChar {
			continue
		}
		if c.HasTag("comment") {
			multiline = true
		}
		elems = append(elems, c)
	}

	if !multiline {
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = formatNode(e, level+1)
		}
		flat := open + strings.Join(parts, " ") + close
		if !strings.Contains(flat, "\n") && len(flat)+len(indent)*level <= maxInline {
			return flat
		}
	}

	pad := strings.Repeat(indent, level+1)
	var b strings.Builder
	b.WriteString(open)
	for i, e := range elems {
		if i > 0 {
			b.WriteString("\n")
			b.WriteString(pad)
		}
		b.WriteString(formatNode(e, level+1))
	}
	if len(elems) > 0 && elems[len(elems)-1].HasTag("comment") {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(indent, level))
	}
	b.WriteString(close)
	return b.String()
}
