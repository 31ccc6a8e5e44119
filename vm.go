package rpn

import (
	"errors"
	"fmt"
	"math/big"
)

// Precision selects the integer domain of a VM, fixed for its lifetime at
// construction.
type Precision uint8

const (
	// Fixed64 integers are 64-bit two's complement: arithmetic results
	// wrap, and out-of-range literals are rejected at parse time.
	Fixed64 Precision = iota

	// Arbitrary integers never wrap.
	Arbitrary
)

// Runtime error causes.  Every runtime failure wraps one of these, with
// the raising operation's name prepended, so hosts can branch on cause
// with errors.Is while still rendering a useful message.
var (
	ErrUndefinedWord   = errors.New("undefined word")
	ErrStackUnderflow  = errors.New("stack underflow")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrCallDepth       = errors.New("call depth limit exceeded")
)

// opError ties a runtime failure to the operation that raised it.
type opError struct {
	op  string
	err error
}

func (e opError) Error() string { return fmt.Sprintf("%v: %v", e.op, e.err) }
func (e opError) Unwrap() error { return e.err }

// NativeFn is host-supplied code behind a dictionary entry.  A native
// gets mutable access to the calling VM: it may pop operands, push
// results, run blocks it popped, and register further words, under the
// same error discipline as the built-in library.
type NativeFn func(vm *VM) error

// definition is a dictionary entry: exactly one of a native function or a
// user-defined block.  The two need genuinely different invocation paths,
// so a closed two-case variant beats open-ended dispatch here.
type definition struct {
	native NativeFn
	block  *Block
}

// VM owns the shared data stack and the dictionary.  All execution, top
// level and nested block invocation alike, mutates this one stack; there
// are no per-call frames.  A VM is not safe for concurrent use: give each
// concurrent script its own.
type VM struct {
	stack []Item
	dict  map[string]definition

	prec       Precision
	depth      int
	depthLimit int

	logfn func(mess string, args ...interface{})
}

func (vm *VM) logf(mess string, args ...interface{}) {
	if vm.logfn != nil {
		vm.logfn(mess, args...)
	}
}

//// stack access

func (vm *VM) push(it Item) {
	vm.stack = append(vm.stack, it)
}

// Push places an item on top of the stack.  Hosts use this to hand
// arguments to a program before Run.
func (vm *VM) Push(it Item) { vm.push(it) }

// Pop removes and returns the top item.  Hosts use this to collect
// results after Run.
func (vm *VM) Pop() (Item, error) {
	taken, err := vm.Take("pop", 1)
	if err != nil {
		return Item{}, err
	}
	return taken[0], nil
}

// Depth reports how many items the stack holds.
func (vm *VM) Depth() int { return len(vm.stack) }

// Stack returns a copy of the stack, bottom first.
func (vm *VM) Stack() []Item {
	out := make([]Item, len(vm.stack))
	copy(out, vm.stack)
	return out
}

// Take pops exactly n items for the named operation, returning them in
// stack order (the last element was the top).  With fewer than n items it
// fails with a stack underflow and leaves the stack depth unchanged: an
// operation never consumes a partial operand set.
func (vm *VM) Take(op string, n int) ([]Item, error) {
	if len(vm.stack) < n {
		return nil, opError{op, fmt.Errorf("%w: need %v, have %v",
			ErrStackUnderflow, n, len(vm.stack))}
	}
	i := len(vm.stack) - n
	taken := make([]Item, n)
	copy(taken, vm.stack[i:])
	vm.stack = vm.stack[:i]
	return taken, nil
}

// PopKind pops the top item for the named operation, requiring a variant.
func (vm *VM) PopKind(op string, want Kind) (Item, error) {
	taken, err := vm.Take(op, 1)
	if err != nil {
		return Item{}, err
	}
	if taken[0].kind != want {
		return Item{}, vm.typeErr(op, want.String(), taken[0].kind)
	}
	return taken[0], nil
}

func (vm *VM) typeErr(op, want string, got Kind) error {
	return opError{op, fmt.Errorf("%w: want %v, got %v", ErrTypeMismatch, want, got)}
}

//// dictionary

// Register inserts or overwrites a dictionary entry backed by host code.
// Last registration wins, whether the prior definition was a native or a
// user block; overwriting is the extensibility point, not an error.
func (vm *VM) Register(name string, fn NativeFn) {
	vm.dict[name] = definition{native: fn}
}

// bind is the fn native's effect: name now means this block.
func (vm *VM) bind(name string, b *Block) {
	vm.dict[name] = definition{block: b}
}

// Defined reports whether name resolves in the dictionary.
func (vm *VM) Defined(name string) bool {
	_, ok := vm.dict[name]
	return ok
}

//// execution

// RunBlock executes a compiled block's forms left to right against the
// shared stack and dictionary.  The first error aborts the remaining
// forms and unwinds every enclosing in-flight block; the stack is left as
// it was at the failure point, with no rollback.
func (vm *VM) RunBlock(b *Block) error {
	return vm.runBlock(b)
}

func (vm *VM) runBlock(b *Block) error {
	if vm.depth >= vm.depthLimit {
		return opError{"run", fmt.Errorf("%w (%v)", ErrCallDepth, vm.depthLimit)}
	}
	vm.depth++
	defer func() { vm.depth-- }()
	for _, f := range b.forms {
		if err := vm.eval(f); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) eval(f form) error {
	if !f.isCall() {
		if vm.logfn != nil {
			vm.logf("push %v -- s:%v", f.lit, vm.stack)
		}
		// a block literal pushes the block itself; nothing runs it but a
		// call or a combinator that popped it
		vm.push(f.lit)
		return nil
	}
	def, ok := vm.dict[f.call]
	if !ok {
		return fmt.Errorf("%w %q", ErrUndefinedWord, f.call)
	}
	if vm.logfn != nil {
		vm.logf("call %v -- s:%v", f.call, vm.stack)
	}
	if def.native != nil {
		return def.native(vm)
	}
	return vm.runBlock(def.block)
}

//// integer domain

var two64 = new(big.Int).Lsh(big.NewInt(1), 64)

// normInt folds an arithmetic result back into the VM's integer domain:
// Fixed64 wraps to 64-bit two's complement, Arbitrary is untouched.
func (vm *VM) normInt(z *big.Int) *big.Int {
	if vm.prec == Arbitrary || z.IsInt64() {
		return z
	}
	z.Mod(z, two64)
	if z.Bit(63) == 1 {
		z.Sub(z, two64)
	}
	return z
}
