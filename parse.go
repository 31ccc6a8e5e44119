package rpn

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
)

// Parse error causes, wrapped by ParseError with a position.
var (
	ErrUnclosedBlock  = errors.New("unclosed block")
	ErrUnmatchedClose = errors.New("unmatched closing brace")
	ErrIntegerRange   = errors.New("integer literal out of range")
)

// ParseError is a syntax failure at a specific source position.  An
// unclosed block reports the position of its opening brace; an unmatched
// closing brace reports its own.
type ParseError struct {
	Pos Pos
	Err error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse error at %v: %v", e.Pos, e.Err)
}

func (e ParseError) Unwrap() error { return e.Err }

// Compile parses source into a Block without executing it.  The block may
// be run any number of times with RunBlock, or pushed as data with
// BlockItem.  Compilation depends on the VM only for its integer
// precision; it touches neither the stack nor the dictionary.
func (vm *VM) Compile(source string) (*Block, error) {
	p := parser{lx: newLexer(source), prec: vm.prec}
	forms, err := p.block(nil)
	if err != nil {
		return nil, err
	}
	return &Block{forms: forms}, nil
}

// parser turns the token sequence into form sequences by recursive
// descent.  The top level is treated as an implicit block with no
// delimiters, so a whole program and a nested block parse the same way.
type parser struct {
	lx   *lexer
	prec Precision
}

// block parses forms until the matching close brace, or end of input for
// the top level.  open is nil at the top level, otherwise the position of
// the opening brace.
func (p *parser) block(open *Pos) ([]form, error) {
	forms := []form{}
	for {
		tok, done, err := p.lx.next()
		if err != nil {
			return nil, err
		}
		if done {
			if open != nil {
				return nil, ParseError{Pos: *open, Err: ErrUnclosedBlock}
			}
			return forms, nil
		}
		switch tok.kind {
		case tokenBlockOpen:
			inner, err := p.block(&tok.pos)
			if err != nil {
				return nil, err
			}
			forms = append(forms, form{lit: BlockItem(&Block{forms: inner})})
		case tokenBlockClose:
			if open == nil {
				return nil, ParseError{Pos: tok.pos, Err: ErrUnmatchedClose}
			}
			return forms, nil
		case tokenInteger:
			it, err := p.integer(tok)
			if err != nil {
				return nil, err
			}
			forms = append(forms, form{lit: it})
		case tokenFloat:
			f, err := strconv.ParseFloat(tok.text, 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				// the lexer already vetted the shape, so only range
				// overflow remains, which ParseFloat maps to ±Inf
				return nil, ParseError{Pos: tok.pos, Err: ErrMalformedNumber}
			}
			forms = append(forms, form{lit: Float(f)})
		case tokenString:
			forms = append(forms, form{lit: String(tok.text)})
		case tokenSymbol:
			forms = append(forms, form{lit: Symbol(tok.text)})
		case tokenWord:
			forms = append(forms, form{call: tok.text})
		}
	}
}

// integer converts an integer literal, enforcing the VM's precision: a
// Fixed64 VM rejects literals outside the int64 range up front rather
// than silently wrapping program text.
func (p *parser) integer(tok token) (Item, error) {
	z, ok := new(big.Int).SetString(tok.text, 10)
	if !ok {
		return Item{}, ParseError{Pos: tok.pos, Err: ErrMalformedNumber}
	}
	if p.prec == Fixed64 && !z.IsInt64() {
		return Item{}, ParseError{Pos: tok.pos, Err: ErrIntegerRange}
	}
	return Item{kind: KindInteger, num: z}, nil
}
