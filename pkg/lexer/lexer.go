// Package lexer implements the Lispy tokenizer.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thomasrohde/lispy/pkg/ast"
	"github.com/thomasrohde/lispy/pkg/diagnostics"
)

// TokenType identifies the type of a lexer token.
type TokenType int

const (
	// Literals
	TokNumber TokenType = iota
	TokSymbol
	TokString

	// Comments are kept so the parse tree can carry them
	TokComment

	// Punctuation
	TokLParen // (
	TokRParen // )
	TokLBrace // {
	TokRBrace // }

	// Special
	TokEOF
)

// String returns a readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case TokNumber:
		return "number"
	case TokSymbol:
		return "symbol"
	case TokString:
		return "string"
	case TokComment:
		return "comment"
	case TokLParen:
		return "'('"
	case TokRParen:
		return "')'"
	case TokLBrace:
		return "'{'"
	case TokRBrace:
		return "'}'"
	case TokEOF:
		return "end of input"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

// Token represents a single lexer token. Value is the matched source text,
// including the leading quote of string literals.
type Token struct {
	Type  TokenType
	Value string
	Span  ast.Span
}

type scanner struct {
	source   string
	filename string
	pos      int
	line     int
	col      int
}

func newScanner(source, filename string) *scanner {
	return &scanner{
		source:   source,
		filename: filename,
		pos:      0,
		line:     1,
		col:      1,
	}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.source)
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *scanner) peekAt(offset int) byte {
	p := s.pos + offset
	if p >= len(s.source) {
		return 0
	}
	return s.source[p]
}

func (s *scanner) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

func (s *scanner) span(startLine, startCol int) ast.Span {
	return ast.Span{
		File:      s.filename,
		StartLine: startLine,
		StartCol:  startCol,
		EndLine:   s.line,
		EndCol:    s.col,
	}
}

func (s *scanner) skipWhitespace() {
	for !s.atEnd() {
		ch := s.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			s.advance()
		} else {
			break
		}
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isWordChar matches the regex class \w.
func isWordChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || isDigit(ch) || ch == '_'
}

// IsSymbolChar reports whether ch may appear in a symbol:
// [A-Za-z0-9_+\-*/\\=<>!&?].
func IsSymbolChar(ch byte) bool {
	if isWordChar(ch) {
		return true
	}
	return strings.IndexByte(`+-*/\=<>!&?`, ch) >= 0
}

func (s *scanner) scanNumber() Token {
	startLine, startCol := s.line, s.col
	startPos := s.pos

	if s.peek() == '-' {
		s.advance()
	}
	for !s.atEnd() && isDigit(s.peek()) {
		s.advance()
	}

	return Token{
		Type:  TokNumber,
		Value: s.source[startPos:s.pos],
		Span:  s.span(startLine, startCol),
	}
}

func (s *scanner) scanSymbol() Token {
	startLine, startCol := s.line, s.col
	startPos := s.pos

	for !s.atEnd() && IsSymbolChar(s.peek()) {
		s.advance()
	}

	return Token{
		Type:  TokSymbol,
		Value: s.source[startPos:s.pos],
		Span:  s.span(startLine, startCol),
	}
}

// scanBareString reads the quote-prefixed bareword form 'word-chars. There is
// no closing delimiter: the literal ends at the first non-word, non-hyphen byte.
func (s *scanner) scanBareString() (Token, error) {
	startLine, startCol := s.line, s.col
	startPos := s.pos
	s.advance() // consume '

	if !isWordChar(s.peek()) {
		return Token{}, s.lexError(startLine, startCol, "expected a word character after '")
	}
	for !s.atEnd() && (isWordChar(s.peek()) || s.peek() == '-') {
		s.advance()
	}

	return Token{
		Type:  TokString,
		Value: s.source[startPos:s.pos],
		Span:  s.span(startLine, startCol),
	}, nil
}

// scanQuotedString reads a double-quoted literal with backslash escapes. The
// token keeps the raw text; escapes are only validated here.
func (s *scanner) scanQuotedString() (Token, error) {
	startLine, startCol := s.line, s.col
	startPos := s.pos
	s.advance() // consume opening "

	for !s.atEnd() {
		ch := s.peek()
		if ch == '"' {
			s.advance() // consume closing "
			return Token{
				Type:  TokString,
				Value: s.source[startPos:s.pos],
				Span:  s.span(startLine, startCol),
			}, nil
		}
		if ch == '\\' {
			s.advance() // consume backslash
			if s.atEnd() {
				return Token{}, s.lexError(startLine, startCol, "unterminated string escape")
			}
			esc := s.advance()
			switch esc {
			case '"', '\\', 'n', 'r', 't':
			default:
				return Token{}, s.lexError(startLine, startCol, fmt.Sprintf("invalid escape character: \\%c", esc))
			}
		} else if ch == '\n' {
			return Token{}, s.lexError(startLine, startCol, "unterminated string literal")
		} else {
			r, size := utf8.DecodeRuneInString(s.source[s.pos:])
			if r == utf8.RuneError && size == 1 {
				return Token{}, s.lexError(startLine, startCol, "invalid UTF-8 character in string")
			}
			for i := 0; i < size; i++ {
				s.advance()
			}
		}
	}
	return Token{}, s.lexError(startLine, startCol, "unterminated string literal")
}

func (s *scanner) scanComment() Token {
	startLine, startCol := s.line, s.col
	startPos := s.pos
	for !s.atEnd() && s.peek() != '\n' && s.peek() != '\r' {
		s.advance()
	}
	return Token{
		Type:  TokComment,
		Value: s.source[startPos:s.pos],
		Span:  s.span(startLine, startCol),
	}
}

func (s *scanner) lexError(line, col int, msg string) error {
	diag := diagnostics.MakeDiag(
		diagnostics.ELex,
		msg,
		&ast.Span{File: s.filename, StartLine: line, StartCol: col, EndLine: line, EndCol: col + 1},
		"",
	)
	return &LexError{Diag: diag}
}

// LexError wraps a diagnostic for lex errors.
type LexError struct {
	Diag diagnostics.Diagnostic
}

func (e *LexError) Error() string {
	return e.Diag.Message
}

func (s *scanner) nextToken() (Token, error) {
	s.skipWhitespace()

	if s.atEnd() {
		return Token{
			Type:  TokEOF,
			Value: "",
			Span:  s.span(s.line, s.col),
		}, nil
	}

	ch := s.peek()
	startLine, startCol := s.line, s.col

	switch ch {
	case '(':
		s.advance()
		return Token{Type: TokLParen, Value: "(", Span: s.span(startLine, startCol)}, nil
	case ')':
		s.advance()
		return Token{Type: TokRParen, Value: ")", Span: s.span(startLine, startCol)}, nil
	case '{':
		s.advance()
		return Token{Type: TokLBrace, Value: "{", Span: s.span(startLine, startCol)}, nil
	case '}':
		s.advance()
		return Token{Type: TokRBrace, Value: "}", Span: s.span(startLine, startCol)}, nil
	case ';':
		return s.scanComment(), nil
	case '\'':
		return s.scanBareString()
	case '"':
		return s.scanQuotedString()
	}

	// Numbers are tried before symbols, so "-5" is a number and "-" a symbol.
	if isDigit(ch) || (ch == '-' && isDigit(s.peekAt(1))) {
		return s.scanNumber(), nil
	}

	if IsSymbolChar(ch) {
		return s.scanSymbol(), nil
	}

	s.advance()
	return Token{}, s.lexError(startLine, startCol, fmt.Sprintf("unexpected character '%c'", ch))
}

// Tokenize breaks source code into a slice of tokens ending with TokEOF.
func Tokenize(source, filename string) ([]Token, error) {
	s := newScanner(source, filename)
	var tokens []Token

	for {
		tok, err := s.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokEOF {
			break
		}
	}

	return tokens, nil
}
