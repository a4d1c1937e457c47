package heap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embedjs/vheap/internal/cellfmt"
)

func TestNewString_ShortFitsInline(t *testing.T) {
	p := NewPool(32)
	s, err := p.NewString([]byte("hi"))
	require.NoError(t, err)
	defer s.Unlock()
	require.Equal(t, 2, s.Length())
	require.Equal(t, nullRef, s.cell().firstChild, "short string must not spill")
}

func TestNewString_SpillsIntoExtensionChain(t *testing.T) {
	p := NewPool(64)
	// Exceeds InlineStrLen (8), forcing at least one extension cell.
	long := []byte("this sentence is much longer than eight bytes")
	s, err := p.NewString(long)
	require.NoError(t, err)
	defer s.Unlock()

	require.Equal(t, len(long), s.Length())
	require.NotEqual(t, nullRef, s.cell().firstChild, "long string must spill into an extension chain")

	got, err := s.GetString(s.Length())
	require.NoError(t, err)
	require.Equal(t, long, got)
}

func TestNewString_SpansMultipleExtensionCells(t *testing.T) {
	p := NewPool(64)
	long := strings.Repeat("x", cellfmt.InlineStrLen+cellfmt.InlineStrExtLen*3+1)
	s, err := p.NewString([]byte(long))
	require.NoError(t, err)
	defer s.Unlock()

	require.Equal(t, len(long), s.Length())

	// Walk the chain manually to confirm more than one extension cell exists.
	count := 0
	for ext := s.cell().firstChild; ext != nullRef; ext = s.p.at(ext).firstChild {
		count++
	}
	require.Greater(t, count, 1)

	got, err := s.GetString(s.Length())
	require.NoError(t, err)
	require.Equal(t, long, string(got))
}

func TestAppendBytes_UsesLastChildFastPath(t *testing.T) {
	p := NewPool(64)
	s, err := p.NewString([]byte("0123456789")) // already spills by 2 bytes
	require.NoError(t, err)
	defer s.Unlock()

	tailBefore := s.cell().lastChild
	require.NotEqual(t, nullRef, tailBefore)

	require.NoError(t, s.AppendChar('!'))
	got, err := s.GetString(s.Length())
	require.NoError(t, err)
	require.Equal(t, "0123456789!", string(got))
}

func TestSetString_FailsWhenLongerThanExistingChain(t *testing.T) {
	p := NewPool(32)
	s, err := p.NewString([]byte("abc"))
	require.NoError(t, err)
	defer s.Unlock()

	err = s.SetString([]byte("this is way too long to fit in the existing 3-byte capacity"))
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSetString_OverwritesInPlace(t *testing.T) {
	p := NewPool(32)
	s, err := p.NewString([]byte("aaaaaaaaaaaa"))
	require.NoError(t, err)
	defer s.Unlock()

	require.NoError(t, s.SetString([]byte("bb")))
	got, err := s.GetString(s.Length())
	require.NoError(t, err)
	// remaining capacity is zero-filled, not truncated away.
	require.Equal(t, byte('b'), got[0])
	require.Equal(t, byte('b'), got[1])
	require.Equal(t, byte(0), got[2])
}

func TestNewSubstring(t *testing.T) {
	p := NewPool(32)
	src, err := p.NewString([]byte("hello world"))
	require.NoError(t, err)
	defer src.Unlock()

	sub, err := p.NewSubstring(src, 6, 5)
	require.NoError(t, err)
	defer sub.Unlock()
	got, err := sub.GetString(sub.Length())
	require.NoError(t, err)
	require.Equal(t, "world", string(got))
}

func TestTrimRightMultiline(t *testing.T) {
	p := NewPool(32)
	s, err := p.NewString([]byte("a \t\nb  \n"))
	require.NoError(t, err)
	defer s.Unlock()

	require.NoError(t, s.TrimRightMultiline())
	got, err := s.GetString(s.Length())
	require.NoError(t, err)
	require.Equal(t, "a\nb\n", string(got))
}

func TestIsNumericInt(t *testing.T) {
	p := NewPool(32)

	good, err := p.NewString([]byte("-123"))
	require.NoError(t, err)
	defer good.Unlock()
	require.True(t, good.IsNumericInt(false))

	bad, err := p.NewString([]byte("12a"))
	require.NoError(t, err)
	defer bad.Unlock()
	require.False(t, bad.IsNumericInt(false))
}

func TestIsNumericStrict(t *testing.T) {
	p := NewPool(32)

	strict, err := p.NewString([]byte("42"))
	require.NoError(t, err)
	defer strict.Unlock()
	require.True(t, strict.IsNumericStrict())

	leadingZero, err := p.NewString([]byte("042"))
	require.NoError(t, err)
	defer leadingZero.Unlock()
	require.False(t, leadingZero.IsNumericStrict())
}

func TestLinesAndLineColOf(t *testing.T) {
	p := NewPool(32)
	s, err := p.NewString([]byte("ab\ncde\nf"))
	require.NoError(t, err)
	defer s.Unlock()

	require.Equal(t, 3, s.Lines())
	require.Equal(t, 3, s.CharsOnLine(1))

	line, col := s.LineColOf(4)
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	require.Equal(t, 4, s.IndexOf(1, 1))
	require.Equal(t, -1, s.IndexOf(99, 0))
}

func TestCharAt_OutOfRangeReturnsZero(t *testing.T) {
	p := NewPool(32)
	s, err := p.NewString([]byte("ab"))
	require.NoError(t, err)
	defer s.Unlock()
	require.Equal(t, byte('a'), s.CharAt(0))
	require.Equal(t, byte(0), s.CharAt(50))
	require.Equal(t, byte(0), s.CharAt(-1))
}

func TestAppendChar_ByteAtATimeSpillsAndRoundTrips(t *testing.T) {
	p := NewPool(64)
	s, err := p.NewString(nil)
	require.NoError(t, err)
	defer s.Unlock()

	input := "The quick brown fox jumps over lazy dogs"
	for i := 0; i < len(input); i++ {
		require.NoError(t, s.AppendChar(input[i]))
	}

	require.Equal(t, 40, s.Length())
	got, err := s.GetString(s.Length())
	require.NoError(t, err)
	require.Equal(t, input, string(got))

	cells := 1
	for ext := s.cell().firstChild; ext != nullRef; ext = s.p.at(ext).firstChild {
		cells++
	}
	require.GreaterOrEqual(t, cells, 2)
}

func TestString_UnlockReleasesWholeChain(t *testing.T) {
	// Regression test: extension cells used to keep their alloc-time lock
	// forever, so a spilled string could never be fully freed.
	p := NewPool(64)
	before := p.MemUsed()

	s, err := p.NewString([]byte(strings.Repeat("y", 60)))
	require.NoError(t, err)
	require.Greater(t, p.MemUsed(), before+1, "a 60-byte string must occupy several cells")

	s.Unlock()
	require.Equal(t, before, p.MemUsed(), "unlocking the head must free every extension too")
}
