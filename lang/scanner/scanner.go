// Package scanner tokenizes rlox source text for the parser to consume. It
// is the one component spec.md treats as an external collaborator — it
// simply turns a string of source into a stream of (kind, lexeme, line)
// tokens.
package scanner

import (
	"fmt"
	"go/scanner"
	gotoken "go/token"
	"unicode/utf8"

	"github.com/jonkgrimes/rlox/lang/token"
)

// Error and ErrorList are the standard library's go/scanner types, reused
// verbatim for position-sorted diagnostic accumulation: the same trick the
// teacher repository uses rather than hand-rolling an error list.
type (
	Error     = scanner.Error
	ErrorList = scanner.ErrorList
)

// Tok is a single scanned token: its kind, its source position, and its raw
// lexeme (for identifiers, numbers and strings; the literal text for
// everything else can be recovered from the Token itself).
type Tok struct {
	Kind   token.Token
	Pos    token.Pos
	Lexeme string
}

// Scanner tokenizes one source file's bytes, tracking 1-based line/column
// positions, as specified by spec.md §6 ("Whitespace... increments the line
// counter").
type Scanner struct {
	file *token.File
	src  string

	start   int // byte offset of the start of the token being scanned
	current int // byte offset of the next unread byte
	line    int
	col     int // column of `current`
	startLn int // line/col at token start, captured by advance bookkeeping
	startCol int

	errs ErrorList
}

// New creates a Scanner over src, associated with file for diagnostics.
func New(file *token.File, src string) *Scanner {
	return &Scanner{file: file, src: src, line: 1, col: 1}
}

// Errors returns the accumulated lexical errors, sorted by position.
func (s *Scanner) Errors() ErrorList {
	s.errs.Sort()
	return s.errs
}

func (s *Scanner) atEnd() bool { return s.current >= len(s.src) }

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return 0
	}
	return s.src[s.current+1]
}

func (s *Scanner) advance() byte {
	b := s.src[s.current]
	s.current++
	if b == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return b
}

func (s *Scanner) match(want byte) bool {
	if s.atEnd() || s.src[s.current] != want {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) errorf(pos token.Pos, format string, args ...any) {
	line, col := pos.LineCol()
	gopos := gotoken.Position{Filename: s.file.Name, Line: line, Column: col}
	s.errs.Add(gopos, fmt.Sprintf(format, args...))
}

// Scan returns the next token in the source, ending with a stream of EOF
// tokens once the source is exhausted.
func (s *Scanner) Scan() Tok {
	s.skipWhitespaceAndComments()

	s.start = s.current
	s.startLn, s.startCol = s.line, s.col
	if s.atEnd() {
		return s.make(token.EOF)
	}

	c := s.advance()
	switch {
	case isDigit(c):
		return s.number()
	case isAlpha(c):
		return s.identifier()
	case c == '"':
		return s.string()
	}

	switch c {
	case '(':
		return s.make(token.LPAREN)
	case ')':
		return s.make(token.RPAREN)
	case '{':
		return s.make(token.LBRACE)
	case '}':
		return s.make(token.RBRACE)
	case ',':
		return s.make(token.COMMA)
	case '.':
		return s.make(token.DOT)
	case '-':
		return s.make(token.MINUS)
	case '+':
		return s.make(token.PLUS)
	case ';':
		return s.make(token.SEMI)
	case '*':
		return s.make(token.STAR)
	case '/':
		return s.make(token.SLASH)
	case '!':
		if s.match('=') {
			return s.make(token.BANG_EQ)
		}
		return s.make(token.BANG)
	case '=':
		if s.match('=') {
			return s.make(token.EQ_EQ)
		}
		return s.make(token.EQ)
	case '<':
		if s.match('=') {
			return s.make(token.LT_EQ)
		}
		return s.make(token.LT)
	case '>':
		if s.match('=') {
			return s.make(token.GT_EQ)
		}
		return s.make(token.GT)
	}

	s.errorf(s.startPos(), "unexpected character %q", rune(c))
	return s.make(token.ILLEGAL)
}

func (s *Scanner) skipWhitespaceAndComments() {
	for !s.atEnd() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for !s.atEnd() && s.peek() != '\n' {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) startPos() token.Pos { return token.MakePos(s.startLn, s.startCol) }

func (s *Scanner) make(kind token.Token) Tok {
	return Tok{Kind: kind, Pos: s.startPos(), Lexeme: s.src[s.start:s.current]}
}

func (s *Scanner) number() Tok {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // consume '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	return s.make(token.NUMBER)
}

func (s *Scanner) string() Tok {
	for !s.atEnd() && s.peek() != '"' {
		s.advance()
	}
	if s.atEnd() {
		s.errorf(s.startPos(), "unterminated string")
		return s.make(token.ILLEGAL)
	}
	s.advance() // closing quote
	tok := s.make(token.STRING)
	// Lexeme without the surrounding quotes is the string's body.
	tok.Lexeme = tok.Lexeme[1 : len(tok.Lexeme)-1]
	return tok
}

func (s *Scanner) identifier() Tok {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	text := s.src[s.start:s.current]
	if kw, ok := token.Keywords[text]; ok {
		return s.make(kw)
	}
	return s.make(token.IDENT)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= utf8.RuneSelf
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
