package rpn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuiltin_arithmetic(t *testing.T) {
	vmTestCases{
		vmTest("add").withInput("1 2 +").expectStack(Int(3)),
		vmTest("sub").withInput("1 2 -").expectStack(Int(-1)),
		vmTest("mul").withInput("6 7 *").expectStack(Int(42)),
		vmTest("div truncates toward zero").withInput("7 2 /").expectStack(Int(3)),
		vmTest("div truncates negative toward zero").withInput("-7 2 /").expectStack(Int(-3)),
		vmTest("int div by zero").withInput("5 0 /").expectError(ErrDivisionByZero),

		vmTest("float add").withInput("1.5 2.25 +").expectStack(Float(3.75)),
		vmTest("mixed promotes to float").withInput("1 0.5 +").expectStack(Float(1.5)),
		vmTest("mixed promotes either way").withInput("0.5 1 +").expectStack(Float(1.5)),
		vmTest("float div by zero is Inf").withInput("5.0 0.0 /").
			expectStack(Float(math.Inf(1))),
		vmTest("negative float div by zero is -Inf").withInput("-5.0 0.0 /").
			expectStack(Float(math.Inf(-1))),

		vmTest("add wants numbers").withInput(`1 "two" +`).
			expectError(ErrTypeMismatch),
		vmTest("add underflow").withInput("1 +").
			expectError(ErrStackUnderflow).
			expectStack(Int(1)),

		vmTest("lt true").withInput("1 2 lt").expectStack(Bool(true)),
		vmTest("lt false").withInput("2 1 lt").expectStack(Bool(false)),
		vmTest("lt equal is false").withInput("2 2 lt").expectStack(Bool(false)),
		vmTest("lt mixes numeric kinds").withInput("1 1.5 lt").expectStack(Bool(true)),
		vmTest("lt wants numbers").withInput("true 1 lt").
			expectError(ErrTypeMismatch),
	}.run(t)
}

func TestBuiltin_stackOps(t *testing.T) {
	vmTestCases{
		vmTest("swap").withInput("1 2 swap").expectStack(Int(2), Int(1)),
		vmTest("swap is an involution").withInput("1 2 swap swap").
			expectStack(Int(1), Int(2)),
		vmTest("dup").withInput("1 dup").expectStack(Int(1), Int(1)),
		vmTest("over").withInput("1 2 over").expectStack(Int(1), Int(2), Int(1)),
		vmTest("rot").withInput("1 2 3 rot").expectStack(Int(2), Int(3), Int(1)),
		vmTest("pop").withInput("1 2 pop").expectStack(Int(1)),
		vmTest("clear").withInput("1 2 3 clear").expectStack(),
		vmTest("clear empty is fine").withInput("clear").expectStack(),
		vmTest("len").withInput("1 2 len").expectStack(Int(1), Int(2), Int(2)),
		vmTest("len empty").withInput("len").expectStack(Int(0)),

		vmTest("pick copies from the top").withInput("10 20 30 2 pick").
			expectStack(Int(10), Int(20), Int(30), Int(20)),
		vmTest("pick 1 is dup").withInput("10 1 pick").
			expectStack(Int(10), Int(10)),
		vmTest("pick out of range").withInput("10 2 pick").
			expectError(ErrInvalidArgument),
		vmTest("pick zero").withInput("10 0 pick").
			expectError(ErrInvalidArgument),
		vmTest("pick wants an integer").withInput("10 1.0 pick").
			expectError(ErrTypeMismatch),

		vmTest("swap underflow").withInput("1 swap").
			expectError(ErrStackUnderflow).
			expectStack(Int(1)),
		vmTest("rot underflow").withInput("1 2 rot").
			expectError(ErrStackUnderflow).
			expectStack(Int(1), Int(2)),
	}.run(t)
}

func TestBuiltin_booleans(t *testing.T) {
	vmTestCases{
		vmTest("eq integers").withInput("1 1 eq").expectStack(Bool(true)),
		vmTest("eq unequal").withInput("1 2 eq").expectStack(Bool(false)),
		vmTest("eq strings").withInput(`"a" "a" eq`).expectStack(Bool(true)),
		vmTest("eq across kinds is false").withInput("1 1.0 eq").
			expectStack(Bool(false)),
		vmTest("eq blocks").withInput("{ 1 + } { 1 + } eq").
			expectStack(Bool(true)),
		vmTest("not").withInput("true not").expectStack(Bool(false)),
		vmTest("not wants a boolean").withInput("1 not").
			expectError(ErrTypeMismatch),
		vmTest("and").withInput("true false and").expectStack(Bool(false)),
		vmTest("or").withInput("true false or").expectStack(Bool(true)),
		vmTest("and wants booleans").withInput("true 1 and").
			expectError(ErrTypeMismatch),
	}.run(t)
}

func TestBuiltin_strings(t *testing.T) {
	vmTestCases{
		vmTest("cat").withInput(`"foo" "bar" cat`).expectStack(String("foobar")),
		vmTest("cat empty").withInput(`"" "x" cat`).expectStack(String("x")),
		vmTest("cat wants strings").withInput(`"foo" 1 cat`).
			expectError(ErrTypeMismatch),
	}.run(t)
}

func TestBuiltin_conversions(t *testing.T) {
	vmTestCases{
		vmTest("as-integer truncates").withInput("1.9 as-integer").
			expectStack(Int(1)),
		vmTest("as-integer truncates toward zero").withInput("-1.9 as-integer").
			expectStack(Int(-1)),
		vmTest("as-integer passes integers through").withInput("3 as-integer").
			expectStack(Int(3)),
		vmTest("as-integer rejects Inf").withInput("1.0 0.0 / as-integer").
			expectError(ErrInvalidArgument),
		vmTest("as-integer rejects overflow").withInput("1e30 as-integer").
			expectError(ErrInvalidArgument),
		vmTest("as-integer accepts overflow when arbitrary").
			withOptions(WithPrecision(Arbitrary)).
			withInput("1e30 as-integer 1e30 as-integer eq").
			expectStack(Bool(true)),
		vmTest("as-integer wants a number").withInput(`"1" as-integer`).
			expectError(ErrTypeMismatch),

		vmTest("as-float widens").withInput("3 as-float").
			expectStack(Float(3)),
		vmTest("as-float passes floats through").withInput("1.5 as-float").
			expectStack(Float(1.5)),
		vmTest("as-float wants a number").withInput("true as-float").
			expectError(ErrTypeMismatch),

		vmTest("to-string renders integers").withInput("42 to-string").
			expectStack(String("42")),
		vmTest("to-string renders floats").withInput("1.5 to-string").
			expectStack(String("1.5")),
		vmTest("to-string passes strings through").withInput(`"x" to-string`).
			expectStack(String("x")),
		vmTest("to-string rejects blocks").withInput("{ } to-string").
			expectError(ErrTypeMismatch),
	}.run(t)
}

func TestBuiltin_nanEquality(t *testing.T) {
	vm := New()
	if !assert.NoError(t, vm.Run("0.0 0.0 / dup eq")) {
		return
	}
	it, err := vm.Pop()
	if assert.NoError(t, err) {
		v, ok := it.Bool()
		assert.True(t, ok, "expected a boolean")
		assert.False(t, v, "NaN must not equal itself")
	}
}
