package heap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/embedjs/vheap/internal/cellfmt"
)

// NewString creates a locked string cell holding bytes. If bytes is longer
// than cellfmt.InlineStrLen, the overflow spills into a chain of
// string-extension cells, each holding up to cellfmt.InlineStrExtLen more
// bytes.
func (p *Pool) NewString(bytes []byte) (*Var, error) {
	r, err := p.Alloc(tagStringN(0))
	if err != nil {
		return nil, err
	}
	v := p.wrap(r)
	if err := v.AppendBytes(bytes); err != nil {
		v.Unlock()
		return nil, err
	}
	return v, nil
}

// NewStringOfLength creates a zero-filled string of exactly n bytes.
func (p *Pool) NewStringOfLength(n int) (*Var, error) {
	return p.NewString(make([]byte, n))
}

// NewSubstring creates a new string copying up to max bytes of src starting
// at start.
func (p *Pool) NewSubstring(src *Var, start, max int) (*Var, error) {
	full, err := src.GetString(start + max)
	if err != nil {
		return nil, err
	}
	if start >= len(full) {
		return p.NewString(nil)
	}
	end := start + max
	if end > len(full) {
		end = len(full)
	}
	return p.NewString(full[start:end])
}

// chainHeadCap and chainExtCap report the inline capacity of a head vs. an
// extension cell, independent of how many bytes are currently stored.
const (
	chainHeadCap = cellfmt.InlineStrLen
	chainExtCap  = cellfmt.InlineStrExtLen
)

// Length walks the chain and returns the total byte count. The total
// length is never cached anywhere; it is always derived by walking.
func (v *Var) Length() int {
	c := v.cell()
	if !isStringTag(c.tag()) {
		return 0
	}
	n := inlineStrLen(c.tag())
	ext := c.firstChild
	for ext != nullRef {
		ec := v.p.at(ext)
		n += inlineStrExtLen(ec.tag())
		ext = ec.firstChild
	}
	return n
}

// IsEmpty reports whether the string holds zero characters.
func (v *Var) IsEmpty() bool {
	c := v.cell()
	return isStringTag(c.tag()) && inlineStrLen(c.tag()) == 0 && c.firstChild == nullRef
}

// CharAt returns the byte at index i, or 0 if i is out of range.
func (v *Var) CharAt(i int) byte {
	if i < 0 {
		return 0
	}
	c := v.cell()
	if !isStringTag(c.tag()) {
		return 0
	}
	headLen := inlineStrLen(c.tag())
	if i < headLen {
		return c.data.str[i]
	}
	i -= headLen
	ext := c.firstChild
	for ext != nullRef {
		ec := v.p.at(ext)
		extLen := inlineStrExtLen(ec.tag())
		if i < extLen {
			return ec.data.str[i]
		}
		i -= extLen
		ext = ec.firstChild
	}
	return 0
}

// GetString copies up to limit bytes of the string into a new slice,
// truncating if the string is longer. The result is a plain []byte, not
// NUL-terminated; callers that need a C-style terminator can append one.
func (v *Var) GetString(limit int) ([]byte, error) {
	c := v.cell()
	if !isStringTag(c.tag()) {
		return nil, fmt.Errorf("heap: GetString: %w", ErrTypeMismatch)
	}
	out := make([]byte, 0, min(limit, v.Length()))
	headLen := inlineStrLen(c.tag())
	for i := 0; i < headLen && len(out) < limit; i++ {
		out = append(out, c.data.str[i])
	}
	ext := c.firstChild
	for ext != nullRef && len(out) < limit {
		ec := v.p.at(ext)
		extLen := inlineStrExtLen(ec.tag())
		for i := 0; i < extLen && len(out) < limit; i++ {
			out = append(out, ec.data.str[i])
		}
		ext = ec.firstChild
	}
	return out, nil
}

// SetString overwrites the string in place with bytes, without growing or
// shrinking the chain. Returns ErrIndexOutOfRange unless bytes fits within
// the string's current length (each cell's stored character count).
func (v *Var) SetString(bytes []byte) error {
	c := v.cell()
	if !isStringTag(c.tag()) {
		return fmt.Errorf("heap: SetString: %w", ErrTypeMismatch)
	}
	headCap := inlineStrLen(c.tag())
	n := 0
	for n < headCap && n < len(bytes) {
		c.data.str[n] = bytes[n]
		n++
	}
	for i := n; i < headCap; i++ {
		c.data.str[i] = 0
	}
	ext := c.firstChild
	for ext != nullRef {
		ec := v.p.at(ext)
		extCap := inlineStrExtLen(ec.tag())
		i := 0
		for i < extCap && n < len(bytes) {
			ec.data.str[i] = bytes[n]
			i++
			n++
		}
		for ; i < extCap; i++ {
			ec.data.str[i] = 0
		}
		ext = ec.firstChild
	}
	if n < len(bytes) {
		return fmt.Errorf("heap: SetString: %d bytes do not fit in %d-byte chain: %w", len(bytes), n, ErrIndexOutOfRange)
	}
	return nil
}

// AppendBytes appends data to the end of the string, spilling into new
// extension cells as needed. It is the primitive every other append
// operation (AppendChar, AppendPrintf, AppendFrom) is built on.
func (v *Var) AppendBytes(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	p := v.p
	c := v.cell()
	if !isStringTag(c.tag()) {
		return fmt.Errorf("heap: AppendBytes: %w", ErrTypeMismatch)
	}

	// Find (or become) the tail cell: start from the cached lastChild fast
	// path if present, then walk to the true end — the cache can lag behind
	// when a StringIterator.Append spilled an extension of its own.
	tailRef := v.r
	tail := c
	if c.firstChild != nullRef {
		tailRef = c.firstChild
		if c.lastChild != nullRef {
			tailRef = c.lastChild
		}
		for p.at(tailRef).firstChild != nullRef {
			tailRef = p.at(tailRef).firstChild
		}
		tail = p.at(tailRef)
	}

	isHead := tailRef == v.r
	tailCap := chainHeadCap
	if !isHead {
		tailCap = chainExtCap
	}
	used := inlineStrLen(tail.tag())
	if !isHead {
		used = inlineStrExtLen(tail.tag())
	}

	i := 0
	for used < tailCap && i < len(data) {
		tail.data.str[used] = data[i]
		used++
		i++
	}
	if isHead {
		tail.setTag(tagStringN(used))
	} else {
		tail.setTag(tagStringExtN(used))
	}

	for i < len(data) {
		extRef, err := p.Alloc(tagStringExtN(0))
		if err != nil {
			return err
		}
		ext := p.at(extRef)
		n := 0
		for n < chainExtCap && i < len(data) {
			ext.data.str[n] = data[i]
			n++
			i++
		}
		ext.setTag(tagStringExtN(n))

		p.at(tailRef).firstChild = extRef
		p.reff(extRef)
		// Drop the alloc-time transient lock; the chain link just taken
		// keeps the extension alive from here on.
		p.wrap(extRef).Unlock()
		c = v.cell() // head may have moved if v.p.cells was reallocated by Alloc
		c.lastChild = extRef
		tailRef = extRef
		tail = ext
	}
	return nil
}

// AppendChar appends a single byte.
func (v *Var) AppendChar(ch byte) error {
	return v.AppendBytes([]byte{ch})
}

// AppendPrintf appends the formatted result of format/args.
func (v *Var) AppendPrintf(format string, args ...interface{}) error {
	return v.AppendBytes([]byte(fmt.Sprintf(format, args...)))
}

// AppendFrom appends up to max bytes of other starting at start.
func (v *Var) AppendFrom(other *Var, start, max int) error {
	bytes, err := other.GetString(start + max)
	if err != nil {
		return err
	}
	if start >= len(bytes) {
		return nil
	}
	end := start + max
	if end > len(bytes) {
		end = len(bytes)
	}
	return v.AppendBytes(bytes[start:end])
}

// TrimRightMultiline iteratively removes trailing spaces/tabs from each
// line of the string, in place, shortening the chain to the new length.
func (v *Var) TrimRightMultiline() error {
	full, err := v.GetString(v.Length())
	if err != nil {
		return err
	}
	lines := strings.Split(string(full), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return v.setStringShrink([]byte(strings.Join(lines, "\n")))
}

// setStringShrink overwrites the chain with bytes and truncates it to
// exactly len(bytes), releasing any extension cells past the new end.
// Unlike SetString, the logical length changes; bytes must not exceed the
// chain's current length.
func (v *Var) setStringShrink(bytes []byte) error {
	p := v.p
	c := v.cell()
	if !isStringTag(c.tag()) {
		return fmt.Errorf("heap: setStringShrink: %w", ErrTypeMismatch)
	}
	n := 0
	for n < chainHeadCap && n < len(bytes) {
		c.data.str[n] = bytes[n]
		n++
	}
	c.setTag(tagStringN(n))

	prev := v.r
	ext := c.firstChild
	for ext != nullRef && n < len(bytes) {
		ec := p.at(ext)
		i := 0
		for i < chainExtCap && n < len(bytes) {
			ec.data.str[i] = bytes[n]
			i++
			n++
		}
		ec.setTag(tagStringExtN(i))
		prev = ext
		ext = ec.firstChild
	}
	if n < len(bytes) {
		return fmt.Errorf("heap: setStringShrink: %d bytes exceed existing chain: %w", len(bytes), ErrIndexOutOfRange)
	}

	// Detach and release everything past the last written cell. Extension
	// teardown is a no-op, so the dropped sub-chain is walked here.
	if prev == v.r {
		c.firstChild = nullRef
		c.lastChild = nullRef
	} else {
		p.at(prev).firstChild = nullRef
		c.lastChild = prev
	}
	for ext != nullRef {
		next := p.at(ext).firstChild
		p.unref(ext)
		ext = next
	}
	return nil
}

// IsNumericInt reports whether the string looks like an integer (optionally
// allowing a single decimal point, e.g. for loose array-index coercion).
func (v *Var) IsNumericInt(allowDecimalPoint bool) bool {
	full, err := v.GetString(v.Length())
	if err != nil || len(full) == 0 {
		return false
	}
	s := string(full)
	seenDigit := false
	seenDot := false
	for i, ch := range s {
		switch {
		case ch >= '0' && ch <= '9':
			seenDigit = true
		case ch == '-' && i == 0:
		case ch == '.' && allowDecimalPoint && !seenDot:
			seenDot = true
		default:
			return false
		}
	}
	return seenDigit
}

// IsNumericStrict requires that parsing s as an integer and formatting it
// back produces exactly s (no leading zeros, no "+1", no trailing garbage).
func (v *Var) IsNumericStrict() bool {
	full, err := v.GetString(v.Length())
	if err != nil {
		return false
	}
	s := string(full)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return false
	}
	return strconv.FormatInt(n, 10) == s
}

// Lines returns the number of newline-delimited lines in the string.
func (v *Var) Lines() int {
	full, err := v.GetString(v.Length())
	if err != nil {
		return 0
	}
	return strings.Count(string(full), "\n") + 1
}

// CharsOnLine returns the number of characters on line n (0-indexed).
func (v *Var) CharsOnLine(n int) int {
	full, err := v.GetString(v.Length())
	if err != nil {
		return 0
	}
	lines := strings.Split(string(full), "\n")
	if n < 0 || n >= len(lines) {
		return 0
	}
	return len(lines[n])
}

// LineColOf returns the 0-indexed (line, col) of byte offset index.
func (v *Var) LineColOf(index int) (line, col int) {
	full, err := v.GetString(v.Length())
	if err != nil {
		return 0, 0
	}
	for i, ch := range full {
		if i == index {
			return line, col
		}
		if ch == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}

// IndexOf returns the byte offset of (line, col), or -1 if out of range.
func (v *Var) IndexOf(line, col int) int {
	full, err := v.GetString(v.Length())
	if err != nil {
		return -1
	}
	curLine, curCol := 0, 0
	for i, ch := range full {
		if curLine == line && curCol == col {
			return i
		}
		if ch == '\n' {
			curLine++
			curCol = 0
		} else {
			curCol++
		}
	}
	if curLine == line && curCol == col {
		return len(full)
	}
	return -1
}
