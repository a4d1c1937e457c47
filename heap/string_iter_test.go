package heap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringIterator_WalksEveryCharacter(t *testing.T) {
	p := NewPool(32)
	s, err := p.NewString([]byte("hello world, this spills"))
	require.NoError(t, err)
	defer s.Unlock()

	it, err := p.NewStringIterator(s, 0)
	require.NoError(t, err)
	defer it.Free()

	var got []byte
	for it.HasChar() {
		got = append(got, it.Char())
		require.NoError(t, it.Next())
	}
	require.Equal(t, "hello world, this spills", string(got))
}

func TestStringIterator_StartsMidChain(t *testing.T) {
	p := NewPool(32)
	s, err := p.NewString([]byte("0123456789abcdefghij"))
	require.NoError(t, err)
	defer s.Unlock()

	it, err := p.NewStringIterator(s, 10)
	require.NoError(t, err)
	defer it.Free()

	require.Equal(t, 10, it.Index())
	require.Equal(t, byte('a'), it.Char())
}

func TestStringIterator_SetChar(t *testing.T) {
	p := NewPool(32)
	s, err := p.NewString([]byte("abcdefghijklmnop"))
	require.NoError(t, err)
	defer s.Unlock()

	it, err := p.NewStringIterator(s, 12)
	require.NoError(t, err)
	it.SetChar('Z')
	it.Free()

	got, err := s.GetString(s.Length())
	require.NoError(t, err)
	require.Equal(t, byte('Z'), got[12])
}

func TestStringIterator_GotoEndThenAppend(t *testing.T) {
	p := NewPool(32)
	s, err := p.NewString([]byte("short"))
	require.NoError(t, err)
	defer s.Unlock()

	it, err := p.NewStringIterator(s, 0)
	require.NoError(t, err)
	require.NoError(t, it.GotoEnd())
	require.False(t, it.HasChar())
	require.Equal(t, 5, it.Index())
	it.Free()

	require.NoError(t, s.AppendBytes([]byte(" and more")))
	got, err := s.GetString(s.Length())
	require.NoError(t, err)
	require.Equal(t, "short and more", string(got))
}

func TestStringIterator_AppendExtendsAndSpills(t *testing.T) {
	p := NewPool(64)
	s, err := p.NewString([]byte("1234567")) // one short of the head's capacity
	require.NoError(t, err)
	defer s.Unlock()

	it, err := p.NewStringIterator(s, 0)
	require.NoError(t, err)
	defer it.Free()
	require.NoError(t, it.GotoEnd())

	require.NoError(t, it.Append('8')) // fills the head
	require.NoError(t, it.Append('9')) // spills into a fresh extension

	got, err := s.GetString(s.Length())
	require.NoError(t, err)
	require.Equal(t, "123456789", string(got))

	// A plain append through the head must still find the true tail.
	require.NoError(t, s.AppendChar('!'))
	got, err = s.GetString(s.Length())
	require.NoError(t, err)
	require.Equal(t, "123456789!", string(got))
}
