package heap

import (
	"fmt"
	"strconv"
)

// ArrayLength returns the array's logical length: one more than the key of
// the last numeric-named child in list order, tolerating sparse arrays and
// interleaved non-numeric keys. Rather than a full child-list scan, it
// walks backward from lastChild, skipping non-numeric names, and stops at
// the first numeric one. When numeric keys appear in ascending list order,
// as ArrayPush keeps them, this is the greatest numeric key plus one; a
// higher key placed earlier in the list is not found. An array with no
// numeric keys has length 0.
func (p *Pool) ArrayLength(arr *Var) (int, error) {
	if !arr.IsArray() {
		return 0, fmt.Errorf("heap: ArrayLength: %w", ErrTypeMismatch)
	}
	ac := arr.cell()
	for ch := ac.lastChild; ch != nullRef; {
		cc := p.at(ch)
		n := p.wrap(ch)
		if idx, err := strconv.Atoi(string(n.NameKey())); err == nil {
			return idx + 1, nil
		}
		ch = cc.prevSibling
	}
	return 0, nil
}

// ArrayIsEmpty reports whether the array has zero children at all. This is
// a distinct question from ArrayLength() == 0: an array whose only keys
// are non-numeric has length 0 but is not empty.
func (p *Pool) ArrayIsEmpty(arr *Var) bool {
	return arr.cell().firstChild == nullRef
}

// ArrayPush appends value as a new element at index ArrayLength(arr),
// returning the new length.
func (p *Pool) ArrayPush(arr, value *Var) (int, error) {
	n, err := p.ArrayLength(arr)
	if err != nil {
		return 0, err
	}
	name, err := p.AddNamedChildValue(arr, []byte(strconv.Itoa(n)), value)
	if err != nil {
		return 0, err
	}
	name.Unlock()
	return n + 1, nil
}

// ArrayPushWithInitialSize behaves like ArrayPush but is used when the
// caller knows values will be pushed in a tight loop and wants to avoid
// ArrayLength's children walk on every call by tracking the next index
// itself; nextIndex is both consumed and returned (incremented).
func (p *Pool) ArrayPushWithInitialSize(arr, value *Var, nextIndex int) (int, error) {
	name, err := p.AddNamedChildValue(arr, []byte(strconv.Itoa(nextIndex)), value)
	if err != nil {
		return nextIndex, err
	}
	name.Unlock()
	return nextIndex + 1, nil
}

// ArrayPop removes and returns the element at the greatest numeric index,
// or a locked undefined if the array is empty.
func (p *Pool) ArrayPop(arr *Var) (*Var, error) {
	n, err := p.ArrayLength(arr)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return p.NewUndefined()
	}
	return p.arrayRemoveIndex(arr, n-1)
}

// ArrayPopFirst removes and returns the element at index 0, shifting
// nothing else: unlike a dense-array implementation, remaining indices are
// left as-is, leaving a gap (sparse semantics).
func (p *Pool) ArrayPopFirst(arr *Var) (*Var, error) {
	return p.arrayRemoveIndex(arr, 0)
}

func (p *Pool) arrayRemoveIndex(arr *Var, idx int) (*Var, error) {
	name, err := p.FindChildFromString(arr, []byte(strconv.Itoa(idx)))
	if err != nil {
		return nil, err
	}
	if name == nil {
		return p.NewUndefined()
	}
	defer name.Unlock()
	value, err := p.nameValue(name)
	if err != nil {
		return nil, err
	}
	if err := p.RemoveChild(arr, name); err != nil {
		value.Unlock()
		return nil, err
	}
	return value, nil
}

// ArrayGetLast returns the element at the greatest numeric index without
// removing it, or a locked undefined if empty.
func (p *Pool) ArrayGetLast(arr *Var) (*Var, error) {
	n, err := p.ArrayLength(arr)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return p.NewUndefined()
	}
	return p.ArrayGet(arr, n-1)
}

// ArrayGet returns the element at idx, or a locked undefined if idx has no
// element (sparse hole).
func (p *Pool) ArrayGet(arr *Var, idx int) (*Var, error) {
	name, err := p.FindChildFromString(arr, []byte(strconv.Itoa(idx)))
	if err != nil {
		return nil, err
	}
	if name == nil {
		return p.NewUndefined()
	}
	defer name.Unlock()
	return p.nameValue(name)
}

// ArrayIndexOf returns the first numeric index whose element is BasicEqual
// to value, or -1 if none matches.
func (p *Pool) ArrayIndexOf(arr, value *Var) (int, error) {
	ac := arr.cell()
	for ch := ac.firstChild; ch != nullRef; {
		cc := p.at(ch)
		n := p.wrap(ch)
		if idx, err := strconv.Atoi(string(n.NameKey())); err == nil {
			v, verr := p.nameValue(n)
			if verr == nil {
				eq := BasicEqual(v, value)
				v.Unlock()
				if eq {
					return idx, nil
				}
			}
		}
		ch = cc.nextSibling
	}
	return -1, nil
}

// ArrayInsertBefore inserts value as a new name immediately before the
// existing name beforeName in the child list, keeping beforeName's own key
// (and every other element's key) unchanged — callers working with numeric
// arrays are expected to renumber afterward if contiguous indices matter
// for their use case, matching the sparse, key-preserving semantics the
// rest of this package uses for arrays.
func (p *Pool) ArrayInsertBefore(arr, beforeName, value *Var) (*Var, error) {
	ac := arr.cell()
	bc := beforeName.cell()

	name, err := p.AddName(beforeName.NameKey())
	if err != nil {
		return nil, err
	}
	if err := name.SetValueOfName(value); err != nil {
		name.Unlock()
		return nil, err
	}
	nc := name.cell()
	nc.prevSibling = bc.prevSibling
	nc.nextSibling = beforeName.r
	if bc.prevSibling != nullRef {
		p.at(bc.prevSibling).nextSibling = name.r
	} else {
		ac.firstChild = name.r
	}
	bc.prevSibling = name.r
	p.reff(name.r)
	return name, nil
}

// ArrayJoin concatenates every element's string representation, separated
// by sep, in ascending numeric-index order. Sparse holes contribute an
// empty string, matching Array.prototype.join.
func (p *Pool) ArrayJoin(arr *Var, sep []byte) (*Var, error) {
	n, err := p.ArrayLength(arr)
	if err != nil {
		return nil, err
	}
	out, err := p.NewString(nil)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if i > 0 {
			if err := out.AppendBytes(sep); err != nil {
				out.Unlock()
				return nil, err
			}
		}
		el, err := p.ArrayGet(arr, i)
		if err != nil {
			out.Unlock()
			return nil, err
		}
		if !el.IsUndefined() && !el.IsNull() {
			s, err := el.AsString(true)
			if err != nil {
				out.Unlock()
				return nil, err
			}
			b, _ := s.GetString(s.Length())
			s.Unlock()
			if err := out.AppendBytes(b); err != nil {
				out.Unlock()
				return nil, err
			}
		} else {
			el.Unlock()
		}
	}
	return out, nil
}
