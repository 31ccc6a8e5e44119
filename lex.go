package rpn

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pos locates a token or error within one source text.
type Pos struct {
	Offset int // byte offset from the start of the source
	Line   int // 1-based
	Col    int // 1-based, counted in runes
}

func (p Pos) String() string {
	return fmt.Sprintf("%v:%v", p.Line, p.Col)
}

// Lexical error causes, wrapped by LexError with a position.
var (
	ErrUnclosedString   = errors.New("unterminated string literal")
	ErrUnclosedComment  = errors.New("unterminated comment")
	ErrUnknownEscape    = errors.New("unknown string escape")
	ErrIncompleteEscape = errors.New("incomplete string escape")
	ErrMalformedNumber  = errors.New("malformed numeric literal")
	ErrReservedChar     = errors.New("reserved character in word")
)

// LexError is a tokenization failure at a specific source position.
type LexError struct {
	Pos Pos
	Err error
}

func (e LexError) Error() string {
	return fmt.Sprintf("lex error at %v: %v", e.Pos, e.Err)
}

func (e LexError) Unwrap() error { return e.Err }

type tokenKind uint8

const (
	tokenWord tokenKind = iota
	tokenInteger
	tokenFloat
	tokenString
	tokenSymbol
	tokenBlockOpen
	tokenBlockClose
)

// token is a single lexical element.  For string tokens text holds the
// decoded value; for symbols the name without its colon; for numbers the
// raw literal text.
type token struct {
	kind tokenKind
	text string
	pos  Pos
}

// lexer tokenizes one source text.  It is cheap to construct, so a
// restart is just a fresh lexer over the same string.  Comments and
// whitespace are consumed between tokens and never surface.
type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (lx *lexer) pos() Pos {
	return Pos{Offset: lx.off, Line: lx.line, Col: lx.col}
}

func (lx *lexer) peek() (rune, bool) {
	if lx.off >= len(lx.src) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.off:])
	return r, true
}

func (lx *lexer) advance() (rune, bool) {
	if lx.off >= len(lx.src) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(lx.src[lx.off:])
	lx.off += size
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r, true
}

// next returns the next token, or io.EOF via done=true once the source is
// exhausted, or a LexError.
func (lx *lexer) next() (tok token, done bool, err error) {
	for {
		r, ok := lx.peek()
		if !ok {
			return token{}, true, nil
		}
		if unicode.IsSpace(r) {
			lx.advance()
			continue
		}
		pos := lx.pos()
		switch r {
		case '{':
			lx.advance()
			return token{kind: tokenBlockOpen, text: "{", pos: pos}, false, nil
		case '}':
			lx.advance()
			return token{kind: tokenBlockClose, text: "}", pos: pos}, false, nil
		case '(':
			if err := lx.comment(pos); err != nil {
				return token{}, false, err
			}
			continue
		case '"':
			tok, err := lx.string(pos)
			return tok, false, err
		case ':':
			lx.advance()
			name, err := lx.word(pos)
			if err != nil {
				return token{}, false, err
			}
			return token{kind: tokenSymbol, text: name, pos: pos}, false, nil
		}
		text, err := lx.word(pos)
		if err != nil {
			return token{}, false, err
		}
		return lx.classify(text, pos)
	}
}

// comment consumes a ( ... ) span.  Comments do not nest: a second ( has
// no special meaning and the span ends at the first ).
func (lx *lexer) comment(open Pos) error {
	lx.advance()
	for {
		r, ok := lx.advance()
		if !ok {
			return LexError{Pos: open, Err: ErrUnclosedComment}
		}
		if r == ')' {
			return nil
		}
	}
}

// string consumes a double-quoted literal, decoding escapes.
func (lx *lexer) string(open Pos) (token, error) {
	lx.advance()
	var sb strings.Builder
	for {
		r, ok := lx.advance()
		if !ok {
			return token{}, LexError{Pos: open, Err: ErrUnclosedString}
		}
		switch r {
		case '"':
			return token{kind: tokenString, text: sb.String(), pos: open}, nil
		case '\\':
			esc := lx.pos()
			e, ok := lx.advance()
			if !ok {
				return token{}, LexError{Pos: esc, Err: ErrIncompleteEscape}
			}
			switch e {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				return token{}, LexError{Pos: esc, Err: ErrUnknownEscape}
			}
		default:
			sb.WriteRune(r)
		}
	}
}

// word consumes a run of characters up to whitespace or a closing brace.
// The parenthesis characters are reserved for comments and may not appear
// inside a word.
func (lx *lexer) word(start Pos) (string, error) {
	from := lx.off
	for {
		r, ok := lx.peek()
		if !ok || unicode.IsSpace(r) || r == '}' {
			break
		}
		if r == '(' || r == ')' {
			return "", LexError{Pos: start, Err: ErrReservedChar}
		}
		lx.advance()
	}
	return lx.src[from:lx.off], nil
}

// classify decides whether a bare word is a numeric literal.  Words that
// begin with a digit, or a sign followed by a digit, must scan as a
// number; anything else is a call word.
func (lx *lexer) classify(text string, pos Pos) (token, bool, error) {
	if !startsNumber(text) {
		return token{kind: tokenWord, text: text, pos: pos}, false, nil
	}
	if kind, ok := numberKind(text); ok {
		return token{kind: kind, text: text, pos: pos}, false, nil
	}
	return token{}, false, LexError{Pos: pos, Err: ErrMalformedNumber}
}

func startsNumber(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		return len(s) > 1 && isDigit(s[1])
	}
	return isDigit(s[0])
}

// numberKind matches [+-]?digits for integers, with a fractional part
// and/or exponent upgrading the token to a float.
func numberKind(s string) (tokenKind, bool) {
	i := 0
	if s[i] == '+' || s[i] == '-' {
		i++
	}
	n := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		n++
	}
	if n == 0 {
		return 0, false
	}
	isFloat := false
	if i < len(s) && s[i] == '.' {
		isFloat = true
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		isFloat = true
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		n = 0
		for i < len(s) && isDigit(s[i]) {
			i++
			n++
		}
		if n == 0 {
			return 0, false
		}
	}
	if i != len(s) {
		return 0, false
	}
	if isFloat {
		return tokenFloat, true
	}
	return tokenInteger, true
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
