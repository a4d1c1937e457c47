package heap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArrayBuffer_Uint8RoundTrip(t *testing.T) {
	p := NewPool(32)
	ab, err := p.NewArrayBuffer(ABUint8, 4)
	require.NoError(t, err)
	defer ab.Unlock()
	require.Equal(t, 4, ab.ABLength())

	for i := 0; i < 4; i++ {
		v, err := p.NewInt(int64(i * 10))
		require.NoError(t, err)
		require.NoError(t, p.ABSet(ab, i, v))
		v.Unlock()
	}

	for i := 0; i < 4; i++ {
		got, err := p.ABGet(ab, i)
		require.NoError(t, err)
		require.Equal(t, int64(i*10), got.GetInteger())
		got.Unlock()
	}
}

func TestArrayBuffer_Float64RoundTrip(t *testing.T) {
	p := NewPool(32)
	ab, err := p.NewArrayBuffer(ABFloat64, 2)
	require.NoError(t, err)
	defer ab.Unlock()

	v, err := p.NewFloat(3.14159)
	require.NoError(t, err)
	require.NoError(t, p.ABSet(ab, 1, v))
	v.Unlock()

	got, err := p.ABGet(ab, 1)
	require.NoError(t, err)
	defer got.Unlock()
	require.InDelta(t, 3.14159, got.GetFloat(), 1e-9)
}

func TestArrayBuffer_OutOfRangeErrors(t *testing.T) {
	p := NewPool(32)
	ab, err := p.NewArrayBuffer(ABUint16, 2)
	require.NoError(t, err)
	defer ab.Unlock()

	_, err = p.ABGet(ab, 5)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	v, err := p.NewInt(1)
	require.NoError(t, err)
	defer v.Unlock()
	err = p.ABSet(ab, -1, v)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestNewArrayBufferView_OverBackingStore(t *testing.T) {
	p := NewPool(32)
	backing, err := p.NewStringOfLength(4)
	require.NoError(t, err)
	defer backing.Unlock()

	_, err = p.NewArrayBufferView(backing, 0, 8, ABUint8)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestNewArrayBufferView_SharesBackingStoreWithAnotherView(t *testing.T) {
	p := NewPool(32)
	backing, err := p.NewStringOfLength(8)
	require.NoError(t, err)
	defer backing.Unlock()

	view1, err := p.NewArrayBufferView(backing, 0, 2, ABUint32)
	require.NoError(t, err)
	defer view1.Unlock()
	view2, err := p.NewArrayBufferView(backing, 4, 1, ABUint32)
	require.NoError(t, err)
	defer view2.Unlock()

	v, err := p.NewInt(123456)
	require.NoError(t, err)
	require.NoError(t, p.ABSet(view1, 1, v))
	v.Unlock()

	got, err := p.ABGet(view2, 0)
	require.NoError(t, err)
	defer got.Unlock()
	require.Equal(t, int64(123456), got.GetInteger(), "overlapping views share the same backing bytes")
}

func TestArrayBufferView_Uint16OverKnownBytes(t *testing.T) {
	p := NewPool(32)
	backing, err := p.NewString([]byte{0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0x04, 0x00})
	require.NoError(t, err)
	defer backing.Unlock()

	view, err := p.NewArrayBufferView(backing, 0, 4, ABUint16)
	require.NoError(t, err)
	defer view.Unlock()

	for i, want := range []int64{1, 2, 3, 4} {
		got, err := p.ABGet(view, i)
		require.NoError(t, err)
		require.Equal(t, want, got.GetInteger())
		got.Unlock()
	}

	v, err := p.NewInt(0x1234)
	require.NoError(t, err)
	require.NoError(t, p.ABSet(view, 2, v))
	v.Unlock()

	got, err := p.ABGet(view, 2)
	require.NoError(t, err)
	defer got.Unlock()
	require.Equal(t, int64(0x1234), got.GetInteger())
}
