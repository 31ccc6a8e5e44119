package rpn

import (
	"math/big"
	"strconv"
	"strings"
)

// Kind discriminates the variants of an Item.
type Kind uint8

const (
	KindInteger Kind = iota
	KindFloat
	KindString
	KindBool
	KindSymbol
	KindBlock
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindSymbol:
		return "symbol"
	case KindBlock:
		return "block"
	}
	return "invalid"
}

// Item is a single tagged value as held by the data stack.  Items are
// immutable; natives build new ones rather than mutating operands.
type Item struct {
	kind Kind
	num  *big.Int
	f    float64
	s    string
	b    bool
	blk  *Block
}

// Int makes an Integer item from a machine integer.
func Int(n int64) Item { return Item{kind: KindInteger, num: big.NewInt(n)} }

// BigInt makes an Integer item from an arbitrary-precision integer,
// copying z so that later mutation by the caller cannot reach the item.
func BigInt(z *big.Int) Item {
	return Item{kind: KindInteger, num: new(big.Int).Set(z)}
}

// Float makes a Float item.
func Float(f float64) Item { return Item{kind: KindFloat, f: f} }

// String makes a String item.
func String(s string) Item { return Item{kind: KindString, s: s} }

// Bool makes a Bool item.
func Bool(v bool) Item { return Item{kind: KindBool, b: v} }

// Symbol makes a Symbol item; name carries no leading colon.
func Symbol(name string) Item { return Item{kind: KindSymbol, s: name} }

// BlockItem makes a Block item around an already-parsed block.
func BlockItem(b *Block) Item { return Item{kind: KindBlock, blk: b} }

// Kind reports which variant the item holds.
func (it Item) Kind() Kind { return it.kind }

// Int returns the integer value, copied so the item stays immutable.
func (it Item) Int() (*big.Int, bool) {
	if it.kind != KindInteger {
		return nil, false
	}
	return new(big.Int).Set(it.num), true
}

// Int64 returns the integer value if it holds one that fits in an int64.
func (it Item) Int64() (int64, bool) {
	if it.kind != KindInteger || !it.num.IsInt64() {
		return 0, false
	}
	return it.num.Int64(), true
}

// Float returns the float value.
func (it Item) Float() (float64, bool) {
	if it.kind != KindFloat {
		return 0, false
	}
	return it.f, true
}

// Str returns the string value.
func (it Item) Str() (string, bool) {
	if it.kind != KindString {
		return "", false
	}
	return it.s, true
}

// Bool returns the boolean value.
func (it Item) Bool() (bool, bool) {
	if it.kind != KindBool {
		return false, false
	}
	return it.b, true
}

// Sym returns the symbol's name, without its leading colon.
func (it Item) Sym() (string, bool) {
	if it.kind != KindSymbol {
		return "", false
	}
	return it.s, true
}

// Block returns the block value.
func (it Item) Block() (*Block, bool) {
	if it.kind != KindBlock {
		return nil, false
	}
	return it.blk, true
}

// Equal compares items structurally.  Integers compare by value regardless
// of magnitude, floats by IEEE == (so NaN never equals itself), and blocks
// form-by-form.  Items of different kinds are never equal; in particular
// an integer never equals a float.
func (it Item) Equal(other Item) bool {
	if it.kind != other.kind {
		return false
	}
	switch it.kind {
	case KindInteger:
		return it.num.Cmp(other.num) == 0
	case KindFloat:
		return it.f == other.f
	case KindString, KindSymbol:
		return it.s == other.s
	case KindBool:
		return it.b == other.b
	case KindBlock:
		return it.blk.equal(other.blk)
	}
	return false
}

// String renders the item as source-like text: strings quoted, symbols
// with their colon, blocks braced.
func (it Item) String() string {
	switch it.kind {
	case KindInteger:
		return it.num.String()
	case KindFloat:
		return strconv.FormatFloat(it.f, 'g', -1, 64)
	case KindString:
		return strconv.Quote(it.s)
	case KindBool:
		return strconv.FormatBool(it.b)
	case KindSymbol:
		return ":" + it.s
	case KindBlock:
		return it.blk.String()
	}
	return "<invalid>"
}

// A form is one parsed unit of a program: a call by word, or a literal to
// push.  The call name is never empty for a call form, since the lexer
// only emits non-empty words.
type form struct {
	call string
	lit  Item
}

func (f form) isCall() bool { return f.call != "" }

func (f form) String() string {
	if f.isCall() {
		return f.call
	}
	return f.lit.String()
}

// Block is an immutable, parsed-but-not-executed sequence of forms.  It
// captures nothing: its only state is its own body, so one block may be
// run any number of times, from any number of words, without interference.
type Block struct {
	forms []form
}

// Len reports how many forms the block body holds.
func (b *Block) Len() int { return len(b.forms) }

func (b *Block) equal(other *Block) bool {
	if len(b.forms) != len(other.forms) {
		return false
	}
	for i, f := range b.forms {
		o := other.forms[i]
		if f.call != o.call {
			return false
		}
		if !f.isCall() && !f.lit.Equal(o.lit) {
			return false
		}
	}
	return true
}

func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for _, f := range b.forms {
		sb.WriteByte(' ')
		sb.WriteString(f.String())
	}
	sb.WriteString(" }")
	if len(b.forms) == 0 {
		return "{}"
	}
	return sb.String()
}
