// Package parser implements the Lispy reader: it turns source text into the
// tagged parse tree defined in package ast.
package parser

import (
	"fmt"
	"strings"

	"github.com/thomasrohde/lispy/pkg/ast"
	"github.com/thomasrohde/lispy/pkg/diagnostics"
	"github.com/thomasrohde/lispy/pkg/lexer"
)

type parser struct {
	tokens []lexer.Token
	pos    int
	diags  []diagnostics.Diagnostic
}

// Parse tokenizes source and parses it into a tree rooted at a TagRoot node.
// The root's first and last children are the empty start and end anchors.
func Parse(source, filename string) (*ast.Node, []diagnostics.Diagnostic) {
	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		if le, ok := err.(*lexer.LexError); ok {
			return nil, []diagnostics.Diagnostic{le.Diag}
		}
		return nil, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.ELex, err.Error(), nil, "")}
	}

	p := &parser{tokens: tokens, pos: 0}
	root := p.parseProgram()
	if len(p.diags) > 0 {
		return nil, p.diags
	}
	return root, nil
}

func (p *parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *parser) peek() lexer.TokenType {
	return p.current().Type
}

func (p *parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) addError(msg string, span *ast.Span, hint string) {
	p.diags = append(p.diags, diagnostics.MakeDiag(diagnostics.EParse, msg, span, hint))
}

func spanFromTo(start, end ast.Span) ast.Span {
	return ast.Span{
		File:      start.File,
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// anchor builds the zero-width start/end node of the root.
func anchor(at ast.Span) *ast.Node {
	return &ast.Node{
		Tag: ast.TagRegex,
		Span: ast.Span{
			File:      at.File,
			StartLine: at.StartLine,
			StartCol:  at.StartCol,
			EndLine:   at.StartLine,
			EndCol:    at.StartCol,
		},
	}
}

// --- Program ---

func (p *parser) parseProgram() *ast.Node {
	first := p.current().Span
	root := &ast.Node{Tag: ast.TagRoot}
	root.Add(anchor(first))

	for p.peek() != lexer.TokEOF {
		if p.peek() == lexer.TokRParen || p.peek() == lexer.TokRBrace {
			tok := p.advance()
			p.addError(fmt.Sprintf("unexpected %s", tok.Type), &tok.Span, "remove the unmatched closing bracket")
			return nil
		}
		n := p.parseExpr()
		if n == nil {
			return nil
		}
		root.Add(n)
	}

	eof := p.current().Span
	root.Add(anchor(eof))
	root.Span = spanFromTo(first, eof)
	return root
}

// --- Expressions ---

func (p *parser) parseExpr() *ast.Node {
	tok := p.current()
	switch tok.Type {
	case lexer.TokNumber:
		p.advance()
		return &ast.Node{Tag: ast.TagNumber, Contents: tok.Value, Span: tok.Span}
	case lexer.TokSymbol:
		p.advance()
		return &ast.Node{Tag: ast.TagSymbol, Contents: tok.Value, Span: tok.Span}
	case lexer.TokString:
		p.advance()
		return &ast.Node{Tag: ast.TagString, Contents: tok.Value, Span: tok.Span}
	case lexer.TokComment:
		p.advance()
		return &ast.Node{Tag: ast.TagComment, Contents: tok.Value, Span: tok.Span}
	case lexer.TokLParen:
		return p.parseList(ast.TagSexpr, lexer.TokRParen)
	case lexer.TokLBrace:
		return p.parseList(ast.TagQexpr, lexer.TokRBrace)
	default:
		p.addError(fmt.Sprintf("unexpected %s", tok.Type), &tok.Span, "")
		return nil
	}
}

// parseList reads a bracketed form. The opening and closing delimiters are
// kept as TagChar children around the elements.
func (p *parser) parseList(tag string, closer lexer.TokenType) *ast.Node {
	open := p.advance()
	n := &ast.Node{Tag: tag}
	n.Add(&ast.Node{Tag: ast.TagChar, Contents: open.Value, Span: open.Span})

	for p.peek() != closer {
		switch p.peek() {
		case lexer.TokEOF:
			p.addError(fmt.Sprintf("expected %s, got %s", closer, lexer.TokEOF), &open.Span,
				fmt.Sprintf("the %s opened here is never closed", open.Type))
			return nil
		case lexer.TokRParen, lexer.TokRBrace:
			tok := p.current()
			p.addError(fmt.Sprintf("expected %s, got %s", closer, tok.Type), &tok.Span, "")
			return nil
		}
		child := p.parseExpr()
		if child == nil {
			return nil
		}
		n.Add(child)
	}

	end := p.advance()
	n.Add(&ast.Node{Tag: ast.TagChar, Contents: end.Value, Span: end.Span})
	n.Span = spanFromTo(open.Span, end.Span)
	return n
}

// Incomplete reports whether diags say only that the input ended inside an
// open list, so that more input could complete it.
func Incomplete(diags []diagnostics.Diagnostic) bool {
	if len(diags) == 0 {
		return false
	}
	suffix := "got " + lexer.TokEOF.String()
	for _, d := range diags {
		if d.Code != diagnostics.EParse || !strings.HasSuffix(d.Message, suffix) {
			return false
		}
	}
	return true
}
