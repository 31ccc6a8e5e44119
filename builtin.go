package rpn

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// installBuiltins loads the standard library into a fresh dictionary.
// Everything here goes through Register, so a host may overwrite any of
// it, and every native observes the same discipline: operand count is
// checked before anything pops, operand types after.
func (vm *VM) installBuiltins() {
	vm.installArithmetic()
	vm.installStackOps()
	vm.installBooleans()
	vm.installStrings()
	vm.installConversions()
	vm.installControl()
	vm.installBind()
}

//// arithmetic

// numeric reports whether a kind participates in arithmetic promotion.
func numeric(k Kind) bool { return k == KindInteger || k == KindFloat }

// numFloat widens a numeric operand to float64.
func (it Item) numFloat() float64 {
	if it.kind == KindFloat {
		return it.f
	}
	f, _ := new(big.Float).SetInt(it.num).Float64()
	return f
}

// arith builds a binary numeric native around the promotion rule:
// integer with integer stays integer; any float operand makes the result
// float, computed under IEEE-754 (so float edge cases yield NaN or
// infinities rather than failing).
func arith(op string,
	ints func(vm *VM, a, b *big.Int) (*big.Int, error),
	floats func(a, b float64) float64,
) NativeFn {
	return func(vm *VM) error {
		taken, err := vm.Take(op, 2)
		if err != nil {
			return err
		}
		a, b := taken[0], taken[1]
		switch {
		case a.kind == KindInteger && b.kind == KindInteger:
			z, err := ints(vm, a.num, b.num)
			if err != nil {
				return err
			}
			vm.push(Item{kind: KindInteger, num: z})
		case numeric(a.kind) && numeric(b.kind):
			vm.push(Float(floats(a.numFloat(), b.numFloat())))
		default:
			bad := a.kind
			if numeric(a.kind) {
				bad = b.kind
			}
			return vm.typeErr(op, "number", bad)
		}
		return nil
	}
}

func (vm *VM) installArithmetic() {
	vm.Register("+", arith("+",
		func(vm *VM, a, b *big.Int) (*big.Int, error) {
			return vm.normInt(new(big.Int).Add(a, b)), nil
		},
		func(a, b float64) float64 { return a + b }))
	vm.Register("-", arith("-",
		func(vm *VM, a, b *big.Int) (*big.Int, error) {
			return vm.normInt(new(big.Int).Sub(a, b)), nil
		},
		func(a, b float64) float64 { return a - b }))
	vm.Register("*", arith("*",
		func(vm *VM, a, b *big.Int) (*big.Int, error) {
			return vm.normInt(new(big.Int).Mul(a, b)), nil
		},
		func(a, b float64) float64 { return a * b }))
	vm.Register("/", arith("/",
		func(vm *VM, a, b *big.Int) (*big.Int, error) {
			if b.Sign() == 0 {
				return nil, opError{"/", ErrDivisionByZero}
			}
			// truncated toward zero, like the fixed-width machine op
			return vm.normInt(new(big.Int).Quo(a, b)), nil
		},
		func(a, b float64) float64 { return a / b }))

	vm.Register("lt", func(vm *VM) error {
		taken, err := vm.Take("lt", 2)
		if err != nil {
			return err
		}
		a, b := taken[0], taken[1]
		switch {
		case a.kind == KindInteger && b.kind == KindInteger:
			vm.push(Bool(a.num.Cmp(b.num) < 0))
		case numeric(a.kind) && numeric(b.kind):
			vm.push(Bool(a.numFloat() < b.numFloat()))
		default:
			bad := a.kind
			if numeric(a.kind) {
				bad = b.kind
			}
			return vm.typeErr("lt", "number", bad)
		}
		return nil
	})
}

//// stack shuffling
//
// These are polymorphic over item type: position is all they look at.

func (vm *VM) installStackOps() {
	vm.Register("swap", func(vm *VM) error {
		taken, err := vm.Take("swap", 2)
		if err != nil {
			return err
		}
		vm.push(taken[1])
		vm.push(taken[0])
		return nil
	})
	vm.Register("dup", func(vm *VM) error {
		taken, err := vm.Take("dup", 1)
		if err != nil {
			return err
		}
		vm.push(taken[0])
		vm.push(taken[0])
		return nil
	})
	vm.Register("over", func(vm *VM) error {
		taken, err := vm.Take("over", 2)
		if err != nil {
			return err
		}
		vm.push(taken[0])
		vm.push(taken[1])
		vm.push(taken[0])
		return nil
	})
	vm.Register("rot", func(vm *VM) error {
		taken, err := vm.Take("rot", 3)
		if err != nil {
			return err
		}
		vm.push(taken[1])
		vm.push(taken[2])
		vm.push(taken[0])
		return nil
	})
	vm.Register("pop", func(vm *VM) error {
		_, err := vm.Take("pop", 1)
		return err
	})
	vm.Register("clear", func(vm *VM) error {
		vm.stack = vm.stack[:0]
		return nil
	})
	vm.Register("len", func(vm *VM) error {
		vm.push(Int(int64(len(vm.stack))))
		return nil
	})
	vm.Register("pick", func(vm *VM) error {
		it, err := vm.PopKind("pick", KindInteger)
		if err != nil {
			return err
		}
		n, ok := it.Int64()
		if !ok || n < 1 || n > int64(len(vm.stack)) {
			return opError{"pick", fmt.Errorf("%w: index %v out of range",
				ErrInvalidArgument, it)}
		}
		vm.push(vm.stack[int64(len(vm.stack))-n])
		return nil
	})
}

//// booleans

func (vm *VM) installBooleans() {
	vm.Register("true", func(vm *VM) error {
		vm.push(Bool(true))
		return nil
	})
	vm.Register("false", func(vm *VM) error {
		vm.push(Bool(false))
		return nil
	})
	vm.Register("eq", func(vm *VM) error {
		taken, err := vm.Take("eq", 2)
		if err != nil {
			return err
		}
		vm.push(Bool(taken[0].Equal(taken[1])))
		return nil
	})
	vm.Register("not", func(vm *VM) error {
		it, err := vm.PopKind("not", KindBool)
		if err != nil {
			return err
		}
		vm.push(Bool(!it.b))
		return nil
	})
	vm.Register("and", boolPair("and", func(a, b bool) bool { return a && b }))
	vm.Register("or", boolPair("or", func(a, b bool) bool { return a || b }))
}

func boolPair(op string, f func(a, b bool) bool) NativeFn {
	return func(vm *VM) error {
		taken, err := vm.Take(op, 2)
		if err != nil {
			return err
		}
		for _, it := range taken {
			if it.kind != KindBool {
				return vm.typeErr(op, "boolean", it.kind)
			}
		}
		vm.push(Bool(f(taken[0].b, taken[1].b)))
		return nil
	}
}

//// strings

func (vm *VM) installStrings() {
	vm.Register("cat", func(vm *VM) error {
		taken, err := vm.Take("cat", 2)
		if err != nil {
			return err
		}
		for _, it := range taken {
			if it.kind != KindString {
				return vm.typeErr("cat", "string", it.kind)
			}
		}
		vm.push(String(taken[0].s + taken[1].s))
		return nil
	})
}

//// conversions

func (vm *VM) installConversions() {
	vm.Register("as-integer", func(vm *VM) error {
		taken, err := vm.Take("as-integer", 1)
		if err != nil {
			return err
		}
		switch it := taken[0]; it.kind {
		case KindInteger:
			vm.push(it)
		case KindFloat:
			if math.IsNaN(it.f) || math.IsInf(it.f, 0) {
				return opError{"as-integer", fmt.Errorf("%w: cannot convert %v",
					ErrInvalidArgument, it)}
			}
			z, _ := big.NewFloat(it.f).Int(nil)
			if vm.prec == Fixed64 && !z.IsInt64() {
				return opError{"as-integer", fmt.Errorf("%w: %v overflows",
					ErrInvalidArgument, it)}
			}
			vm.push(Item{kind: KindInteger, num: z})
		default:
			return vm.typeErr("as-integer", "number", it.kind)
		}
		return nil
	})
	vm.Register("as-float", func(vm *VM) error {
		taken, err := vm.Take("as-float", 1)
		if err != nil {
			return err
		}
		switch it := taken[0]; it.kind {
		case KindFloat:
			vm.push(it)
		case KindInteger:
			vm.push(Float(it.numFloat()))
		default:
			return vm.typeErr("as-float", "number", it.kind)
		}
		return nil
	})
	vm.Register("to-string", func(vm *VM) error {
		taken, err := vm.Take("to-string", 1)
		if err != nil {
			return err
		}
		switch it := taken[0]; it.kind {
		case KindString:
			vm.push(it)
		case KindInteger:
			vm.push(String(it.num.String()))
		case KindFloat:
			vm.push(String(strconv.FormatFloat(it.f, 'g', -1, 64)))
		default:
			return vm.typeErr("to-string", "number or string", it.kind)
		}
		return nil
	})
}

//// control flow

func (vm *VM) installControl() {
	vm.Register("if", func(vm *VM) error {
		taken, err := vm.Take("if", 2)
		if err != nil {
			return err
		}
		cond, blk := taken[0], taken[1]
		if cond.kind != KindBool {
			return vm.typeErr("if", "boolean", cond.kind)
		}
		if blk.kind != KindBlock {
			return vm.typeErr("if", "block", blk.kind)
		}
		if cond.b {
			return vm.runBlock(blk.blk)
		}
		return nil
	})
	vm.Register("ifelse", func(vm *VM) error {
		taken, err := vm.Take("ifelse", 3)
		if err != nil {
			return err
		}
		cond, then, els := taken[0], taken[1], taken[2]
		if cond.kind != KindBool {
			return vm.typeErr("ifelse", "boolean", cond.kind)
		}
		if then.kind != KindBlock || els.kind != KindBlock {
			bad := then.kind
			if then.kind == KindBlock {
				bad = els.kind
			}
			return vm.typeErr("ifelse", "block", bad)
		}
		if cond.b {
			return vm.runBlock(then.blk)
		}
		return vm.runBlock(els.blk)
	})
	vm.Register("while", func(vm *VM) error {
		taken, err := vm.Take("while", 2)
		if err != nil {
			return err
		}
		cond, body := taken[0], taken[1]
		if cond.kind != KindBlock || body.kind != KindBlock {
			bad := cond.kind
			if cond.kind == KindBlock {
				bad = body.kind
			}
			return vm.typeErr("while", "block", bad)
		}
		for {
			if err := vm.runBlock(cond.blk); err != nil {
				return err
			}
			it, err := vm.PopKind("while", KindBool)
			if err != nil {
				return err
			}
			if !it.b {
				return nil
			}
			if err := vm.runBlock(body.blk); err != nil {
				return err
			}
		}
	})
	vm.Register("times", func(vm *VM) error {
		taken, err := vm.Take("times", 2)
		if err != nil {
			return err
		}
		count, blk := taken[0], taken[1]
		if count.kind != KindInteger {
			return vm.typeErr("times", "integer", count.kind)
		}
		if blk.kind != KindBlock {
			return vm.typeErr("times", "block", blk.kind)
		}
		if count.num.Sign() < 0 {
			return opError{"times", fmt.Errorf("%w: negative repeat count %v",
				ErrInvalidArgument, count)}
		}
		if n, ok := count.Int64(); ok {
			for i := int64(0); i < n; i++ {
				if err := vm.runBlock(blk.blk); err != nil {
					return err
				}
			}
			return nil
		}
		for n, _ := count.Int(); n.Sign() > 0; n.Sub(n, oneInt) {
			if err := vm.runBlock(blk.blk); err != nil {
				return err
			}
		}
		return nil
	})
}

var oneInt = big.NewInt(1)

//// binding

func (vm *VM) installBind() {
	// fn pops a block then a symbol: the surface order is
	//	:name ( effect comment ) { body } fn
	vm.Register("fn", func(vm *VM) error {
		taken, err := vm.Take("fn", 2)
		if err != nil {
			return err
		}
		name, blk := taken[0], taken[1]
		if blk.kind != KindBlock {
			return vm.typeErr("fn", "block", blk.kind)
		}
		if name.kind != KindSymbol {
			return vm.typeErr("fn", "symbol", name.kind)
		}
		vm.bind(name.s, blk.blk)
		return nil
	})
}
