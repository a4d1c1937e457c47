package heap

import "fmt"

// ArrayIterator walks an array's (or object's) child-name list in sibling
// order. It holds the current name cell locked; GetElement returns the
// child value, SetElement assigns to the name, GetIndex returns the name
// cell itself (its content is the index or key).
type ArrayIterator struct {
	p   *Pool
	cur ref // locked name cell, or nullRef past the end
}

// NewArrayIterator positions an iterator at arr's first child, if any.
func (p *Pool) NewArrayIterator(arr *Var) (*ArrayIterator, error) {
	if !isCompositeTag(arr.tag()) {
		return nil, fmt.Errorf("heap: NewArrayIterator: %w", ErrTypeMismatch)
	}
	it := &ArrayIterator{p: p}
	first := arr.cell().firstChild
	if first != nullRef {
		locked, err := p.Lock(first)
		if err != nil {
			return nil, err
		}
		it.cur = locked.r
	}
	return it, nil
}

// ObjectIterator has the same shape as ArrayIterator (both walk the
// identical sibling chain) but its GetKey
// returns the name cell directly, read for its string content rather than
// its numeric one.
type ObjectIterator = ArrayIterator

// NewObjectIterator is an alias constructor for readability at call sites
// that are conceptually iterating object properties rather than array
// elements.
func (p *Pool) NewObjectIterator(obj *Var) (*ObjectIterator, error) {
	return p.NewArrayIterator(obj)
}

// HasElement reports whether the iterator is positioned on a valid child.
func (it *ArrayIterator) HasElement() bool { return it.cur != nullRef }

// GetElement returns the locked value the current name points to.
func (it *ArrayIterator) GetElement() (*Var, error) {
	if !it.HasElement() {
		return it.p.NewUndefined()
	}
	return it.p.nameValue(it.p.wrap(it.cur))
}

// SetElement overwrites the current name's value.
func (it *ArrayIterator) SetElement(value *Var) error {
	if !it.HasElement() {
		return fmt.Errorf("heap: SetElement: iterator past end: %w", ErrIndexOutOfRange)
	}
	return it.p.wrap(it.cur).SetValueOfName(value)
}

// GetIndex returns a locked handle to the current name cell itself.
func (it *ArrayIterator) GetIndex() (*Var, error) {
	if !it.HasElement() {
		return nil, fmt.Errorf("heap: GetIndex: iterator past end: %w", ErrIndexOutOfRange)
	}
	return it.p.Lock(it.cur)
}

// GetKey is the ObjectIterator-flavored name for GetIndex.
func (it *ArrayIterator) GetKey() (*Var, error) { return it.GetIndex() }

// Next advances to the next sibling name, relocking as it goes.
func (it *ArrayIterator) Next() error {
	if !it.HasElement() {
		return nil
	}
	next := it.p.at(it.cur).nextSibling
	it.p.wrap(it.cur).Unlock()
	it.cur = nullRef
	if next != nullRef {
		locked, err := it.p.Lock(next)
		if err != nil {
			return err
		}
		it.cur = locked.r
	}
	return nil
}

// RemoveAndGotoNext detaches the current name from parent and advances to
// what was the next sibling.
func (it *ArrayIterator) RemoveAndGotoNext(parent *Var) error {
	if !it.HasElement() {
		return nil
	}
	p := it.p
	next := p.at(it.cur).nextSibling
	name := p.wrap(it.cur)
	if err := p.RemoveChild(parent, name); err != nil {
		return err
	}
	name.Unlock()
	it.cur = nullRef
	if next != nullRef {
		locked, err := p.Lock(next)
		if err != nil {
			return err
		}
		it.cur = locked.r
	}
	return nil
}

// Free releases the iterator's lock on its current name cell, if any.
func (it *ArrayIterator) Free() {
	if it.cur != nullRef {
		it.p.wrap(it.cur).Unlock()
		it.cur = nullRef
	}
}

// ArrayBufferIterator walks a typed array's decoded elements in order.
type ArrayBufferIterator struct {
	p   *Pool
	ab  ref // locked
	idx int
}

// NewArrayBufferIterator positions an iterator at element 0 of ab.
func (p *Pool) NewArrayBufferIterator(ab *Var) (*ArrayBufferIterator, error) {
	if !ab.IsArrayBuffer() {
		return nil, fmt.Errorf("heap: NewArrayBufferIterator: %w", ErrTypeMismatch)
	}
	locked, err := p.Lock(ab.r)
	if err != nil {
		return nil, err
	}
	return &ArrayBufferIterator{p: p, ab: locked.r}, nil
}

// HasElement reports whether idx is within the view's length.
func (it *ArrayBufferIterator) HasElement() bool {
	return it.idx < it.p.wrap(it.ab).ABLength()
}

// GetValue decodes and returns the current element as a new locked numeric
// Var.
func (it *ArrayBufferIterator) GetValue() (*Var, error) {
	return it.p.ABGet(it.p.wrap(it.ab), it.idx)
}

// GetValueAndRewind returns the current element while leaving the cursor
// parked on it, so a following SetValue writes back to the element just
// read. GetValue alone returns a detached numeric cell: mutating that cell
// never reaches the buffer, making this pair the only write path for
// read-modify-write loops.
func (it *ArrayBufferIterator) GetValueAndRewind() (*Var, error) {
	return it.GetValue()
}

// SetValue coerces and writes value into the current element.
func (it *ArrayBufferIterator) SetValue(value *Var) error {
	return it.p.ABSet(it.p.wrap(it.ab), it.idx, value)
}

// Next advances to the following element.
func (it *ArrayBufferIterator) Next() { it.idx++ }

// Free releases the iterator's lock on the array-buffer cell.
func (it *ArrayBufferIterator) Free() {
	if it.ab != nullRef {
		it.p.wrap(it.ab).Unlock()
		it.ab = nullRef
	}
}

// Iterator is the unified iterator: it wraps whichever concrete iterator
// fits v's tag (string, array/object,
// or array-buffer) behind one small interface so generic for-in/for-of
// style code does not need a type switch at every call site.
type Iterator struct {
	str *StringIterator
	arr *ArrayIterator
	ab  *ArrayBufferIterator
}

// NewIterator builds the concrete iterator matching v's variant.
func (p *Pool) NewIterator(v *Var) (*Iterator, error) {
	switch {
	case v.IsString():
		s, err := p.NewStringIterator(v, 0)
		if err != nil {
			return nil, err
		}
		return &Iterator{str: s}, nil
	case v.IsArray() || v.IsObject() || v.IsFunction():
		a, err := p.NewArrayIterator(v)
		if err != nil {
			return nil, err
		}
		return &Iterator{arr: a}, nil
	case v.IsArrayBuffer():
		ab, err := p.NewArrayBufferIterator(v)
		if err != nil {
			return nil, err
		}
		return &Iterator{ab: ab}, nil
	default:
		return nil, fmt.Errorf("heap: NewIterator: %w", ErrTypeMismatch)
	}
}

// HasElement reports whether the iterator has a current element.
func (it *Iterator) HasElement() bool {
	switch {
	case it.str != nil:
		return it.str.HasChar()
	case it.arr != nil:
		return it.arr.HasElement()
	case it.ab != nil:
		return it.ab.HasElement()
	default:
		return false
	}
}

// Next advances the iterator, regardless of its underlying kind.
func (it *Iterator) Next() error {
	switch {
	case it.str != nil:
		return it.str.Next()
	case it.arr != nil:
		return it.arr.Next()
	case it.ab != nil:
		it.ab.Next()
		return nil
	default:
		return nil
	}
}

// Free releases whatever lock the underlying iterator holds.
func (it *Iterator) Free() {
	switch {
	case it.str != nil:
		it.str.Free()
	case it.arr != nil:
		it.arr.Free()
	case it.ab != nil:
		it.ab.Free()
	}
}

// Clone produces an independent copy of the iterator's current position,
// taking its own lock — used where one loop needs to branch into two
// cursors (e.g. lookahead) without disturbing the original. A clone made
// mid-walk stays safe across later mutations: cloning locks the element the
// original is parked on, so a clone stays valid even if the original's
// underlying cell is later removed out from under it.
func (it *Iterator) Clone() (*Iterator, error) {
	switch {
	case it.str != nil:
		locked, err := it.str.p.Lock(it.str.cur)
		if err != nil {
			return nil, err
		}
		clone := &StringIterator{
			p:           it.str.p,
			cur:         locked.r,
			charIdx:     it.str.charIdx,
			charsInCell: it.str.charsInCell,
			globalStart: it.str.globalStart,
		}
		return &Iterator{str: clone}, nil
	case it.arr != nil:
		if !it.arr.HasElement() {
			return &Iterator{arr: &ArrayIterator{p: it.arr.p}}, nil
		}
		locked, err := it.arr.p.Lock(it.arr.cur)
		if err != nil {
			return nil, err
		}
		return &Iterator{arr: &ArrayIterator{p: it.arr.p, cur: locked.r}}, nil
	case it.ab != nil:
		locked, err := it.ab.p.Lock(it.ab.ab)
		if err != nil {
			return nil, err
		}
		return &Iterator{ab: &ArrayBufferIterator{p: it.ab.p, ab: locked.r, idx: it.ab.idx}}, nil
	default:
		return nil, fmt.Errorf("heap: Clone: empty iterator")
	}
}
