package rpn

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItem_accessors(t *testing.T) {
	if n, ok := Int(42).Int64(); assert.True(t, ok) {
		assert.Equal(t, int64(42), n)
	}
	if f, ok := Float(1.5).Float(); assert.True(t, ok) {
		assert.Equal(t, 1.5, f)
	}
	if s, ok := String("x").Str(); assert.True(t, ok) {
		assert.Equal(t, "x", s)
	}
	if v, ok := Bool(true).Bool(); assert.True(t, ok) {
		assert.True(t, v)
	}
	if name, ok := Symbol("f").Sym(); assert.True(t, ok) {
		assert.Equal(t, "f", name)
	}

	_, ok := Int(1).Float()
	assert.False(t, ok, "kind mismatch must not succeed")
	_, ok = Float(1).Int()
	assert.False(t, ok, "kind mismatch must not succeed")
}

func TestItem_bigIntIsolation(t *testing.T) {
	z := big.NewInt(7)
	it := BigInt(z)
	z.SetInt64(9)
	got, _ := it.Int()
	assert.Equal(t, "7", got.String(), "item must not see caller mutation")

	out, _ := it.Int()
	out.SetInt64(11)
	again, _ := it.Int()
	assert.Equal(t, "7", again.String(), "item must not see result mutation")
}

func TestItem_equal(t *testing.T) {
	for _, tc := range []struct {
		name string
		a, b Item
		want bool
	}{
		{"equal ints", Int(3), Int(3), true},
		{"unequal ints", Int(3), Int(4), false},
		{"int vs float never equal", Int(3), Float(3), false},
		{"equal floats", Float(1.5), Float(1.5), true},
		{"NaN unequal to itself", Float(math.NaN()), Float(math.NaN()), false},
		{"equal strings", String("a"), String("a"), true},
		{"string vs symbol", String("a"), Symbol("a"), false},
		{"equal bools", Bool(true), Bool(true), true},
		{"unequal bools", Bool(true), Bool(false), false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Equal(tc.b))
			assert.Equal(t, tc.want, tc.b.Equal(tc.a), "Equal must be symmetric")
		})
	}
}

func TestItem_string(t *testing.T) {
	for _, tc := range []struct {
		it   Item
		want string
	}{
		{Int(42), "42"},
		{Int(-1), "-1"},
		{Float(1.5), "1.5"},
		{Float(math.Inf(1)), "+Inf"},
		{String("a b"), `"a b"`},
		{Bool(true), "true"},
		{Symbol("f"), ":f"},
		{BlockItem(&Block{}), "{}"},
	} {
		assert.Equal(t, tc.want, tc.it.String())
	}
}
