package heap

import "fmt"

// StringIterator walks a string chain character by character without
// re-walking from the head on every step, mirroring JsvStringIterator's
// opaque state: the current cell, an index into that cell's inline bytes,
// the number of characters that cell holds, and the global index of the
// cell's first byte.
type StringIterator struct {
	p           *Pool
	cur         ref // locked
	charIdx     int
	charsInCell int
	globalStart int
}

// NewStringIterator creates an iterator positioned at the given global
// character offset within s.
func (p *Pool) NewStringIterator(s *Var, startIdx int) (*StringIterator, error) {
	if !s.IsString() {
		return nil, fmt.Errorf("heap: NewStringIterator: %w", ErrTypeMismatch)
	}
	it := &StringIterator{p: p}
	cur, err := p.Lock(s.r)
	if err != nil {
		return nil, err
	}
	it.cur = cur.r
	it.charsInCell = inlineStrLen(cur.tag())
	it.globalStart = 0
	for it.globalStart+it.charsInCell <= startIdx && p.at(it.cur).firstChild != nullRef {
		it.globalStart += it.charsInCell
		next, err := p.Lock(p.at(it.cur).firstChild)
		if err != nil {
			cur.Unlock()
			return nil, err
		}
		cur.Unlock()
		cur = next
		it.cur = cur.r
		it.charsInCell = inlineStrExtLen(cur.tag())
	}
	it.charIdx = startIdx - it.globalStart
	if it.charIdx < 0 {
		it.charIdx = 0
	}
	return it, nil
}

// Free releases the iterator's lock on its current cell. Always call this
// when done with an iterator, symmetric with Var.Unlock.
func (it *StringIterator) Free() {
	if it.cur != nullRef {
		it.p.wrap(it.cur).Unlock()
		it.cur = nullRef
	}
}

// HasChar reports whether the iterator currently sits on a valid character.
func (it *StringIterator) HasChar() bool {
	return it.charIdx < it.charsInCell
}

// Char returns the byte at the iterator's current position, or 0 past the
// end of the chain.
func (it *StringIterator) Char() byte {
	if !it.HasChar() {
		return 0
	}
	return it.p.at(it.cur).data.str[it.charIdx]
}

// SetChar overwrites the byte at the iterator's current position in place.
func (it *StringIterator) SetChar(ch byte) {
	if it.HasChar() {
		it.p.at(it.cur).data.str[it.charIdx] = ch
	}
}

// Next advances the iterator by one character, hopping to the next
// extension cell (relocking as it goes) when the current cell is
// exhausted.
func (it *StringIterator) Next() error {
	it.charIdx++
	if it.charIdx < it.charsInCell {
		return nil
	}
	next := it.p.at(it.cur).firstChild
	if next == nullRef {
		return nil // stay parked one-past-the-end; HasChar reports false
	}
	locked, err := it.p.Lock(next)
	if err != nil {
		return err
	}
	it.p.wrap(it.cur).Unlock()
	it.globalStart += it.charsInCell
	it.cur = locked.r
	it.charsInCell = inlineStrExtLen(locked.tag())
	it.charIdx = 0
	return nil
}

// GotoEnd walks to the final cell in the chain and positions just past its
// last character, so that a subsequent Append can extend the chain from
// here — mirroring JsvStringIterator's goto_end used before an append.
func (it *StringIterator) GotoEnd() error {
	for it.p.at(it.cur).firstChild != nullRef {
		next, err := it.p.Lock(it.p.at(it.cur).firstChild)
		if err != nil {
			return err
		}
		it.p.wrap(it.cur).Unlock()
		it.globalStart += it.charsInCell
		it.cur = next.r
		it.charsInCell = inlineStrExtLen(next.tag())
	}
	it.charIdx = it.charsInCell
	return nil
}

// Append writes ch one past the final character and advances, extending
// the current cell in place or spilling into a fresh extension cell. The
// iterator must be parked at the end of the chain (see GotoEnd).
func (it *StringIterator) Append(ch byte) error {
	p := it.p
	c := p.at(it.cur)
	capacity := chainExtCap
	if isStringTag(c.tag()) {
		capacity = chainHeadCap
	}
	if it.charsInCell < capacity {
		c.data.str[it.charsInCell] = ch
		it.charsInCell++
		if isStringTag(c.tag()) {
			c.setTag(tagStringN(it.charsInCell))
		} else {
			c.setTag(tagStringExtN(it.charsInCell))
		}
		it.charIdx = it.charsInCell
		return nil
	}
	extRef, err := p.Alloc(tagStringExtN(1))
	if err != nil {
		return err
	}
	p.at(extRef).data.str[0] = ch
	p.at(it.cur).firstChild = extRef
	p.reff(extRef)
	// The alloc-time lock transfers to the iterator as its cursor lock;
	// the previous cell's lock is released in exchange.
	p.wrap(it.cur).Unlock()
	it.globalStart += it.charsInCell
	it.cur = extRef
	it.charsInCell = 1
	it.charIdx = 1
	return nil
}

// Index returns the iterator's current global character offset.
func (it *StringIterator) Index() int { return it.globalStart + it.charIdx }
