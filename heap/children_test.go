package heap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddNamedChildValue_AndFindChildFromString(t *testing.T) {
	p := NewPool(32)
	obj, err := p.NewObject()
	require.NoError(t, err)
	defer obj.Unlock()

	val, err := p.NewInt(99)
	require.NoError(t, err)
	name, err := p.AddNamedChildValue(obj, []byte("answer"), val)
	require.NoError(t, err)
	val.Unlock()
	name.Unlock()

	found, err := p.FindChildFromString(obj, []byte("answer"))
	require.NoError(t, err)
	require.NotNil(t, found)
	defer found.Unlock()

	v, err := found.GetValueOfName()
	require.NoError(t, err)
	defer v.Unlock()
	require.Equal(t, int64(99), v.GetInteger())
}

func TestFindChildFromString_MissingReturnsNil(t *testing.T) {
	p := NewPool(32)
	obj, err := p.NewObject()
	require.NoError(t, err)
	defer obj.Unlock()

	found, err := p.FindChildFromString(obj, []byte("nope"))
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestSetNamedChild_OverwritesExisting(t *testing.T) {
	p := NewPool(32)
	obj, err := p.NewObject()
	require.NoError(t, err)
	defer obj.Unlock()

	first, err := p.NewInt(1)
	require.NoError(t, err)
	n1, err := p.SetNamedChild(obj, []byte("k"), first)
	require.NoError(t, err)
	first.Unlock()
	n1.Unlock()

	second, err := p.NewInt(2)
	require.NoError(t, err)
	n2, err := p.SetNamedChild(obj, []byte("k"), second)
	require.NoError(t, err)
	second.Unlock()
	defer n2.Unlock()

	require.Equal(t, n1.Ref(), n2.Ref(), "SetNamedChild should reuse the existing name cell")

	children, err := p.GetChildren(obj)
	require.NoError(t, err)
	require.Len(t, children, 1)
	for _, c := range children {
		c.Unlock()
	}
}

func TestRemoveChild_UnlinksAndReleases(t *testing.T) {
	p := NewPool(32)
	obj, err := p.NewObject()
	require.NoError(t, err)
	defer obj.Unlock()

	val, err := p.NewInt(1)
	require.NoError(t, err)
	name, err := p.AddNamedChildValue(obj, []byte("a"), val)
	require.NoError(t, err)
	val.Unlock()

	require.True(t, p.IsChild(obj, name))
	require.NoError(t, p.RemoveChild(obj, name))
	name.Unlock()

	require.True(t, p.ArrayIsEmpty(obj))
	found, err := p.FindChildFromString(obj, []byte("a"))
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestRemoveAllChildren(t *testing.T) {
	p := NewPool(32)
	obj, err := p.NewObject()
	require.NoError(t, err)
	defer obj.Unlock()

	for i := 0; i < 3; i++ {
		v, err := p.NewInt(int64(i))
		require.NoError(t, err)
		n, err := p.AddNamedChildValue(obj, []byte{byte('a' + i)}, v)
		require.NoError(t, err)
		v.Unlock()
		n.Unlock()
	}

	require.NoError(t, p.RemoveAllChildren(obj))
	children, err := p.GetChildren(obj)
	require.NoError(t, err)
	require.Empty(t, children)
}

func TestFindChildFromVar_MatchesByValueIdentity(t *testing.T) {
	p := NewPool(32)
	obj, err := p.NewObject()
	require.NoError(t, err)
	defer obj.Unlock()

	val, err := p.NewInt(5)
	require.NoError(t, err)
	name, err := p.AddNamedChildValue(obj, []byte("a"), val)
	require.NoError(t, err)
	defer name.Unlock()

	found, err := p.FindChildFromVar(obj, val)
	require.NoError(t, err)
	require.NotNil(t, found)
	defer found.Unlock()
	require.Equal(t, name.Ref(), found.Ref())
	val.Unlock()
}

func TestSetBuiltinName_RoundTripsWithoutAChildCell(t *testing.T) {
	p := NewPool(32)
	obj, err := p.NewObject()
	require.NoError(t, err)
	defer obj.Unlock()

	require.NoError(t, obj.SetBuiltinName([]byte("Math")))
	name, ok := obj.BuiltinName()
	require.True(t, ok)
	require.Equal(t, "Math", name)
	require.True(t, p.ArrayIsEmpty(obj), "builtin name must not add a child-list entry")
}

func TestSetBuiltinName_RejectsOverlongNames(t *testing.T) {
	p := NewPool(32)
	obj, err := p.NewObject()
	require.NoError(t, err)
	defer obj.Unlock()

	err = obj.SetBuiltinName([]byte("muchLongerThanEightBytes"))
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestBuiltinName_FalseWhenUnset(t *testing.T) {
	p := NewPool(32)
	obj, err := p.NewObject()
	require.NoError(t, err)
	defer obj.Unlock()

	_, ok := obj.BuiltinName()
	require.False(t, ok)
}
