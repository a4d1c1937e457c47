package heap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embedjs/vheap/internal/cellfmt"
)

func TestTypePredicates(t *testing.T) {
	p := NewPool(32)

	n, err := p.NewNull()
	require.NoError(t, err)
	defer n.Unlock()
	require.True(t, n.IsNull())
	require.False(t, n.IsUndefined())

	u, err := p.NewUndefined()
	require.NoError(t, err)
	defer u.Unlock()
	require.True(t, u.IsUndefined())

	b, err := p.NewBool(true)
	require.NoError(t, err)
	defer b.Unlock()
	require.True(t, b.IsBoolean())
	require.True(t, b.GetBool())

	i, err := p.NewInt(5)
	require.NoError(t, err)
	defer i.Unlock()
	require.True(t, i.IsInt())
	require.True(t, i.IsNumeric())

	f, err := p.NewFloat(1.5)
	require.NoError(t, err)
	defer f.Unlock()
	require.True(t, f.IsFloat())

	arr, err := p.NewArray()
	require.NoError(t, err)
	defer arr.Unlock()
	require.True(t, arr.IsArray())
	require.True(t, arr.IsIterable())

	obj, err := p.NewObject()
	require.NoError(t, err)
	defer obj.Unlock()
	require.True(t, obj.IsObject())

	fn, err := p.NewFunction(nil)
	require.NoError(t, err)
	defer fn.Unlock()
	require.True(t, fn.IsFunction())
	require.False(t, fn.IsNativeFunction())
}

func TestMakeIntoName_RejectsOverlongKeys(t *testing.T) {
	p := NewPool(16)
	name, err := p.AddName([]byte("short"))
	require.NoError(t, err)
	defer name.Unlock()
	require.Equal(t, "short", string(name.NameKey()))

	_, err = p.AddName([]byte("waytoolongforinlinestorage"))
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestIsNameInternal(t *testing.T) {
	p := NewPool(16)
	hidden, err := p.AddName([]byte{0xFF, 'g', 'f', 'x'})
	require.NoError(t, err)
	defer hidden.Unlock()
	require.True(t, hidden.IsNameInternal())

	visible, err := p.AddName([]byte("x"))
	require.NoError(t, err)
	defer visible.Unlock()
	require.False(t, visible.IsNameInternal())
}

func TestGetInteger_CoercesAcrossTypes(t *testing.T) {
	p := NewPool(32)

	f, err := p.NewFloat(3.9)
	require.NoError(t, err)
	defer f.Unlock()
	require.Equal(t, int64(3), f.GetInteger())

	b, err := p.NewBool(true)
	require.NoError(t, err)
	defer b.Unlock()
	require.Equal(t, int64(1), b.GetInteger())

	s, err := p.NewString([]byte("42"))
	require.NoError(t, err)
	defer s.Unlock()
	require.Equal(t, int64(42), s.GetInteger())
}

func TestGetBool_TruthinessRules(t *testing.T) {
	p := NewPool(32)

	zero, err := p.NewInt(0)
	require.NoError(t, err)
	defer zero.Unlock()
	require.False(t, zero.GetBool())

	empty, err := p.NewString(nil)
	require.NoError(t, err)
	defer empty.Unlock()
	require.False(t, empty.GetBool())

	nonEmpty, err := p.NewString([]byte("x"))
	require.NoError(t, err)
	defer nonEmpty.Unlock()
	require.True(t, nonEmpty.GetBool())

	null, err := p.NewNull()
	require.NoError(t, err)
	defer null.Unlock()
	require.False(t, null.GetBool())
}

func TestAsString_CoversEveryVariant(t *testing.T) {
	p := NewPool(32)

	i, err := p.NewInt(7)
	require.NoError(t, err)
	s, err := i.AsString(true) // unlockSource transfers ownership of i
	require.NoError(t, err)
	defer s.Unlock()
	require.Equal(t, "7", string(mustGetString(t, s)))

	f, err := p.NewFloat(1.5)
	require.NoError(t, err)
	b, err := p.NewBool(true)
	require.NoError(t, err)
	n, err := p.NewNull()
	require.NoError(t, err)
	u, err := p.NewUndefined()
	require.NoError(t, err)
	str, err := p.NewString([]byte("x"))
	require.NoError(t, err)
	arr, err := p.NewArray()
	require.NoError(t, err)
	obj, err := p.NewObject()
	require.NoError(t, err)
	fn, err := p.NewFunction(nil)
	require.NoError(t, err)
	cases := []struct {
		v    *Var
		want string
	}{
		{f, "1.5"}, {b, "true"}, {n, "null"}, {u, "undefined"},
		{str, "x"}, {arr, "[object]"}, {obj, "[object]"}, {fn, "function"},
	}
	for _, tc := range cases {
		got, err := tc.v.AsString(true)
		require.NoError(t, err)
		require.Equal(t, tc.want, string(mustGetString(t, got)))
		got.Unlock()
	}
}

func TestGetConstString_FixedSingletons(t *testing.T) {
	p := NewPool(32)

	for _, tc := range []struct {
		make func() (*Var, error)
		want string
	}{
		{func() (*Var, error) { return p.NewBool(true) }, "true"},
		{func() (*Var, error) { return p.NewBool(false) }, "false"},
		{func() (*Var, error) { return p.NewNull() }, "null"},
		{func() (*Var, error) { return p.NewUndefined() }, "undefined"},
	} {
		v, err := tc.make()
		require.NoError(t, err)
		s, ok := v.GetConstString()
		require.True(t, ok)
		require.Equal(t, tc.want, s)
		v.Unlock()
	}

	i, err := p.NewInt(7)
	require.NoError(t, err)
	defer i.Unlock()
	_, ok := i.GetConstString()
	require.False(t, ok, "numbers have no static singleton string")
}

func TestGetConstString_InlineHeads(t *testing.T) {
	p := NewPool(32)

	short, err := p.NewString([]byte("hi"))
	require.NoError(t, err)
	defer short.Unlock()
	s, ok := short.GetConstString()
	require.True(t, ok)
	require.Equal(t, "hi", s)

	long, err := p.NewString([]byte("this string is definitely longer than eight bytes"))
	require.NoError(t, err)
	defer long.Unlock()
	_, ok = long.GetConstString()
	require.False(t, ok)

	name, err := p.AddName([]byte("key"))
	require.NoError(t, err)
	defer name.Unlock()
	_, ok = name.GetConstString()
	require.False(t, ok, "GetConstString must not be used on name cells")
}

func TestMathsOp_StringConcatAndArithmetic(t *testing.T) {
	p := NewPool(32)

	a, err := p.NewString([]byte("foo"))
	require.NoError(t, err)
	b, err := p.NewInt(1)
	require.NoError(t, err)
	concat, err := p.MathsOp(a, b, OpAdd)
	require.NoError(t, err)
	defer concat.Unlock()
	got, _ := concat.GetString(concat.Length())
	require.Equal(t, "foo1", string(got))
	a.Unlock()
	b.Unlock()

	x, err := p.NewInt(10)
	require.NoError(t, err)
	defer x.Unlock()
	y, err := p.NewInt(3)
	require.NoError(t, err)
	defer y.Unlock()

	div, err := p.MathsOp(x, y, OpDiv)
	require.NoError(t, err)
	defer div.Unlock()
	require.True(t, div.IsFloat(), "non-exact integer division should promote to float")

	mod, err := p.MathsOp(x, y, OpMod)
	require.NoError(t, err)
	defer mod.Unlock()
	require.Equal(t, int64(1), mod.GetInteger())

	less, err := p.MathsOp(x, y, OpLess)
	require.NoError(t, err)
	defer less.Unlock()
	require.False(t, less.GetBool())
}

func TestMathsOpSkipNames_FollowsNameToValue(t *testing.T) {
	p := NewPool(32)
	name, err := p.AddName([]byte("a"))
	require.NoError(t, err)
	defer name.Unlock()
	val, err := p.NewInt(4)
	require.NoError(t, err)
	require.NoError(t, name.SetValueOfName(val))
	val.Unlock()

	other, err := p.NewInt(6)
	require.NoError(t, err)
	defer other.Unlock()

	sum, err := p.MathsOpSkipNames(name, other, OpAdd)
	require.NoError(t, err)
	defer sum.Unlock()
	require.Equal(t, int64(10), sum.GetInteger())
}

func TestMathsOp_StrictEqualityAndBitwiseShifts(t *testing.T) {
	p := NewPool(32)

	one, err := p.NewInt(1)
	require.NoError(t, err)
	defer one.Unlock()
	oneStr, err := p.NewString([]byte("1"))
	require.NoError(t, err)
	defer oneStr.Unlock()

	loose, err := p.MathsOp(one, oneStr, OpEqual)
	require.NoError(t, err)
	defer loose.Unlock()
	require.True(t, loose.GetBool(), "1 == \"1\" is loosely equal")

	strict, err := p.MathsOp(one, oneStr, OpStrictEqual)
	require.NoError(t, err)
	defer strict.Unlock()
	require.False(t, strict.GetBool(), "1 === \"1\" must not be strictly equal")

	notStrict, err := p.MathsOp(one, oneStr, OpStrictNotEqual)
	require.NoError(t, err)
	defer notStrict.Unlock()
	require.True(t, notStrict.GetBool())

	four, err := p.NewInt(4)
	require.NoError(t, err)
	defer four.Unlock()
	two, err := p.NewInt(2)
	require.NoError(t, err)
	defer two.Unlock()

	shl, err := p.MathsOp(one, two, OpShl)
	require.NoError(t, err)
	defer shl.Unlock()
	require.Equal(t, int64(4), shl.GetInteger())

	shr, err := p.MathsOp(four, two, OpShr)
	require.NoError(t, err)
	defer shr.Unlock()
	require.Equal(t, int64(1), shr.GetInteger())

	neg, err := p.NewInt(-1)
	require.NoError(t, err)
	defer neg.Unlock()
	shift, err := p.NewInt(28)
	require.NoError(t, err)
	defer shift.Unlock()
	ushr, err := p.MathsOp(neg, shift, OpUShr)
	require.NoError(t, err)
	defer ushr.Unlock()
	require.Equal(t, int64(15), ushr.GetInteger())
}

func TestMathsOp_LogicalAndOr(t *testing.T) {
	p := NewPool(32)

	zero, err := p.NewInt(0)
	require.NoError(t, err)
	defer zero.Unlock()
	five, err := p.NewInt(5)
	require.NoError(t, err)
	defer five.Unlock()

	and, err := p.MathsOp(zero, five, OpLogicalAnd)
	require.NoError(t, err)
	defer and.Unlock()
	require.Equal(t, int64(0), and.GetInteger(), "0 && 5 short-circuits to the falsy left operand")

	or, err := p.MathsOp(zero, five, OpLogicalOr)
	require.NoError(t, err)
	defer or.Unlock()
	require.Equal(t, int64(5), or.GetInteger(), "0 || 5 evaluates to the truthy right operand")
}

func mustGetString(t *testing.T, v *Var) []byte {
	t.Helper()
	b, err := v.GetString(v.Length())
	require.NoError(t, err)
	return b
}

func TestAllocSimple_TagIsSetBeforeUse(t *testing.T) {
	p := NewPool(4)
	v, err := p.allocSimple(cellfmt.TagNull)
	require.NoError(t, err)
	defer v.Unlock()
	require.Equal(t, cellfmt.TagNull, v.tag())
}
